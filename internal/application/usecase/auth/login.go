package auth

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/auth"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

// Admin is the single account allowed to change the directory.
type Admin struct {
	Email        string
	PasswordHash string
}

type LoginUseCase struct {
	admin  Admin
	jwtSvc *auth.JWTService
	logger logger.Logger
}

func NewLoginUseCase(admin Admin, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		admin:  admin,
		jwtSvc: jwtSvc,
		logger: log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	_, span := tracer.Start(ctx, "Execute")
	defer span.End()

	if uc.admin.Email == "" || uc.admin.PasswordHash == "" {
		err := apperror.NewUnauthorized("admin account is not configured", nil)
		span.RecordError(err)
		return nil, err
	}

	// Both checks always run so a wrong email costs the same as a wrong password.
	emailOK := strings.EqualFold(strings.TrimSpace(input.Email), uc.admin.Email)
	passwordOK := auth.CheckPasswordHash(input.Password, uc.admin.PasswordHash)
	if !emailOK || !passwordOK {
		err := apperror.NewUnauthorized("email or password is incorrect", nil)
		span.RecordError(err)
		uc.logger.Warn("Rejected login attempt", zap.String("email", input.Email))
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(uc.admin.Email, auth.RoleAdmin)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("email", uc.admin.Email))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("subject", uc.admin.Email))
	return &LoginOutput{AccessToken: token}, nil
}
