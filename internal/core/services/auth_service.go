package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
	"github.com/coursepay/lms_payments_backend/internal/utils"
)

// ErrInvalidCredentials is returned when the email or password does not match.
// It deliberately does not say which.
var ErrInvalidCredentials = errors.New("invalid email or password")

// authService verifies credentials and signs access tokens.
type authService struct {
	userRepo  portsrepo.UserRepositoryFacade
	jwtSecret string
	jwtExpiry time.Duration
	issuer    string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtSecret string, jwtExpiry time.Duration, issuer string) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		issuer:    issuer,
	}
}

// Ensure authService implements the portssvc.AuthSvcFacade interface
var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the credentials and returns a signed access token carrying
// the user's role.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Failed login attempt", slog.String("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, string(user.Role), s.jwtSecret, s.jwtExpiry, s.issuer)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtExpiry),
		User:      dto.ToUserResponse(*user),
	}, nil
}
