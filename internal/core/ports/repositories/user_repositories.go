package repositories

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// UserRepositoryFacade persists user accounts.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
