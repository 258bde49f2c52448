package store

import (
	"context"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/pkg/apperror"
)

func (s *Store) ListProfiles() []profile.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]profile.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.Clone()
	}
	return out
}

func (s *Store) GetProfile(id string) (profile.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.profileIndex(id)
	if i < 0 {
		return profile.Profile{}, false
	}
	return s.profiles[i].Clone(), true
}

// profileIndex must be called with mu or writeMu held.
func (s *Store) profileIndex(id string) int {
	return slices.IndexFunc(s.profiles, func(p profile.Profile) bool { return p.ID == id })
}

// AddProfile stores p under a freshly generated id; any id on p is ignored.
func (s *Store) AddProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "AddProfile")
	defer span.End()

	rec := p.Clone()
	rec.ID = s.newID()
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return profile.Profile{}, apperror.NewInvalidInput("profile validation failed", err)
	}
	span.SetAttributes(attribute.String("profile_id", rec.ID))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	staged := append(slices.Clone(s.profiles), rec)
	if err := s.saveProfiles(ctx, staged); err != nil {
		span.RecordError(err)
		return profile.Profile{}, err
	}

	s.mu.Lock()
	s.profiles = staged
	s.mu.Unlock()

	s.logger.Info("Profile added", zap.String("profile_id", rec.ID), zap.String("name", rec.Name))
	s.publish(ctx, directory.EventProfileCreated, rec.ID, rec.Name)
	return rec.Clone(), nil
}

// UpdateProfile shallow-merges patch onto the stored profile. ok is false when
// no profile has the id.
func (s *Store) UpdateProfile(ctx context.Context, id string, patch profile.Patch) (updated profile.Profile, ok bool, err error) {
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()
	span.SetAttributes(attribute.String("profile_id", id))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	i := s.profileIndex(id)
	if i < 0 {
		return profile.Profile{}, false, nil
	}

	merged := patch.Apply(s.profiles[i])
	merged.ID = id
	merged.Normalize()
	if err := merged.Validate(); err != nil {
		return profile.Profile{}, true, apperror.NewInvalidInput("profile validation failed", err)
	}

	staged := slices.Clone(s.profiles)
	staged[i] = merged
	if err := s.saveProfiles(ctx, staged); err != nil {
		span.RecordError(err)
		return profile.Profile{}, true, err
	}

	s.mu.Lock()
	s.profiles = staged
	s.mu.Unlock()

	s.logger.Info("Profile updated", zap.String("profile_id", id))
	s.publish(ctx, directory.EventProfileUpdated, id, merged.Name)
	return merged.Clone(), true, nil
}

// DeleteProfile reports whether a profile was removed. Nothing is persisted
// when the id is unknown.
func (s *Store) DeleteProfile(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "DeleteProfile")
	defer span.End()
	span.SetAttributes(attribute.String("profile_id", id))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	i := s.profileIndex(id)
	if i < 0 {
		return false, nil
	}

	staged := slices.Delete(slices.Clone(s.profiles), i, i+1)
	if err := s.saveProfiles(ctx, staged); err != nil {
		span.RecordError(err)
		return false, err
	}

	s.mu.Lock()
	s.profiles = staged
	s.mu.Unlock()

	s.logger.Info("Profile deleted", zap.String("profile_id", id))
	s.publish(ctx, directory.EventProfileDeleted, id, "")
	return true, nil
}

// SearchProfiles matches query case-insensitively against name, department,
// title and the name or category of any attached skill. An empty query
// matches everything.
func (s *Store) SearchProfiles(query string) []profile.Profile {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]profile.Profile, 0)
	for _, p := range s.profiles {
		if q == "" || matchesProfile(p, q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func matchesProfile(p profile.Profile, q string) bool {
	for _, field := range []string{p.Name, p.Department, p.Title} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, sk := range p.Skills {
		if strings.Contains(strings.ToLower(sk.Name), q) || strings.Contains(strings.ToLower(sk.Category), q) {
			return true
		}
	}
	return false
}
