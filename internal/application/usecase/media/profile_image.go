package media

import (
	"context"
	"io"
	"path"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/application/service"
	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

var tracer = otel.Tracer("media_usecase")

// Every profile has at most one photo, stored at <folder>/<profile id>/avatar.
// A new upload overwrites the previous asset in place.
const avatarPublicID = "avatar"

type ProfileImageUseCase struct {
	provider *store.Provider
	uploader service.Uploader
	folder   string
	logger   logger.Logger
}

func NewProfileImageUseCase(provider *store.Provider, uploader service.Uploader, folder string, log logger.Logger) *ProfileImageUseCase {
	return &ProfileImageUseCase{provider: provider, uploader: uploader, folder: folder, logger: log}
}

func (uc *ProfileImageUseCase) profileFolder(profileID string) string {
	return path.Join(uc.folder, profileID)
}

// Upload stores file as the photo of profileID and points the profile's
// image at it.
func (uc *ProfileImageUseCase) Upload(ctx context.Context, profileID string, file io.Reader) (profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "UploadProfileImage")
	defer span.End()
	span.SetAttributes(attribute.String("profile_id", profileID))

	st, err := uc.provider.Store(ctx)
	if err != nil {
		return profile.Profile{}, err
	}
	if _, ok := st.GetProfile(profileID); !ok {
		return profile.Profile{}, apperror.NewNotFound("profile", profileID)
	}

	url, err := uc.uploader.Upload(ctx, file, uc.profileFolder(profileID), avatarPublicID)
	if err != nil {
		span.RecordError(err)
		return profile.Profile{}, apperror.NewInternal("failed to upload profile image", err)
	}

	updated, ok, err := st.UpdateProfile(ctx, profileID, profile.Patch{Image: &url})
	if err != nil {
		span.RecordError(err)
		return profile.Profile{}, err
	}
	if !ok {
		// Deleted while the upload was running.
		uc.removeAsset(ctx, profileID)
		return profile.Profile{}, apperror.NewNotFound("profile", profileID)
	}

	uc.logger.Info("Profile image uploaded", zap.String("profile_id", profileID), zap.String("url", url))
	return updated, nil
}

// Remove deletes the stored photo and clears the profile's image.
func (uc *ProfileImageUseCase) Remove(ctx context.Context, profileID string) (profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "RemoveProfileImage")
	defer span.End()
	span.SetAttributes(attribute.String("profile_id", profileID))

	st, err := uc.provider.Store(ctx)
	if err != nil {
		return profile.Profile{}, err
	}

	empty := ""
	updated, ok, err := st.UpdateProfile(ctx, profileID, profile.Patch{Image: &empty})
	if err != nil {
		span.RecordError(err)
		return profile.Profile{}, err
	}
	if !ok {
		return profile.Profile{}, apperror.NewNotFound("profile", profileID)
	}

	uc.removeAsset(ctx, profileID)
	return updated, nil
}

// removeAsset only logs a failure: the profile no longer references the asset.
func (uc *ProfileImageUseCase) removeAsset(ctx context.Context, profileID string) {
	publicID := path.Join(uc.profileFolder(profileID), avatarPublicID)
	if err := uc.uploader.Delete(ctx, publicID); err != nil {
		uc.logger.Warn("Failed to delete profile image", zap.String("public_id", publicID), zap.Error(err))
	}
}
