package repositories

import (
	"context"
	"time"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// ExecutePurchaseParams carries the identifiers for one purchase attempt.
// The IDs are generated by the service so the whole attempt is traceable in
// logs even when the database transaction rolls back.
type ExecutePurchaseParams struct {
	PurchaseID    string
	TransactionID string
	WalletID      string
	StudentID     string
	CourseID      string
	ActorID       string
	Now           time.Time
}

// PurchaseRepositoryFacade persists purchases and their paired ledger entries.
//
// ExecutePurchase is one serializable unit: lock the wallet and course rows,
// re-check that no active purchase exists for (student, course), resolve the
// effective price (the locked first-purchase price if any non-refunded
// purchase of the course exists, else the listed price), append the debit,
// insert the purchase row, and mark the course price locked. Lock or
// constraint contention surfaces as apperrors.ErrConcurrencyConflict so the
// service can retry.
//
// ExecuteRefund locks the purchase row, fails with apperrors.ErrAlreadyRefunded
// if a refund already happened, appends the offsetting credit and marks the
// purchase refunded. The purchase row itself is never deleted.
type PurchaseRepositoryFacade interface {
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
	FindActivePurchase(ctx context.Context, studentID, courseID string) (*domain.Purchase, error)
	// ListPurchasesByStudent returns a page of purchases, newest first.
	ListPurchasesByStudent(ctx context.Context, studentID string, limit int, nextToken *string) ([]domain.Purchase, *string, error)

	ExecutePurchase(ctx context.Context, params ExecutePurchaseParams) (*domain.Purchase, error)
	ExecuteRefund(ctx context.Context, purchaseID string, transactionID string, reason *string, actorID string, now time.Time) (*domain.Transaction, error)

	// CourseStats aggregates non-refunded purchases of a course on read.
	CourseStats(ctx context.Context, courseID string) (*domain.CourseStats, error)
}
