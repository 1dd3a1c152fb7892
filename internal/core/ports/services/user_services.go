package services

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/dto"
)

// UserSvcFacade defines user account operations
type UserSvcFacade interface {
	// Register creates a student account with a hashed password. Public
	// registration never assigns elevated roles.
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// CreateUser provisions an account with an explicit role. Admin only.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, actor domain.Actor) (*domain.User, error)

	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// AuthSvcFacade defines authentication operations
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed access token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
