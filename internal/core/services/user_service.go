package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
	"github.com/coursepay/lms_payments_backend/internal/utils"
)

// userService manages user accounts.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// Register creates a student account. The endpoint is public, so the role is
// never taken from the request; teacher and admin accounts are provisioned
// through CreateUser by an existing admin.
func (s *userService) Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	user, err := s.saveUser(ctx, req.Name, req.Email, req.Password, domain.RoleStudent, "self-registration")
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("User registered",
		slog.String("user_id", user.UserID),
	)
	return user, nil
}

// CreateUser provisions an account with an explicit role. Admin only.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actor domain.Actor) (*domain.User, error) {
	if !isAdmin(actor) {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.saveUser(ctx, req.Name, req.Email, req.Password, domain.UserRole(req.Role), actor.UserID)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("User created by admin",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)),
		slog.String("created_by", actor.UserID),
	)
	return user, nil
}

func (s *userService) saveUser(ctx context.Context, name, email, password string, role domain.UserRole, createdBy string) (*domain.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}
