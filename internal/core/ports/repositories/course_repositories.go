package repositories

import (
	"context"
	"time"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// CourseRepositoryFacade persists the purchasable course records the ledger
// debits against.
//
// UpdatePrice locks the course row, rejects the change with
// apperrors.ErrConflict if the price is locked by a first purchase, updates
// the listed price and inserts a price history row in the same transaction.
type CourseRepositoryFacade interface {
	SaveCourse(ctx context.Context, course domain.Course) error
	FindCourseByID(ctx context.Context, courseID string) (*domain.Course, error)
	ListCourses(ctx context.Context, limit int, nextToken *string) ([]domain.Course, *string, error)

	UpdatePrice(ctx context.Context, courseID string, newPrice int64, reason string, historyID string, actorID string, now time.Time) (*domain.Course, error)
	ListPriceHistory(ctx context.Context, courseID string) ([]domain.PriceChange, error)
}
