package repositories

import (
	"context"
	"time"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// RedeemCodeParams carries the identifiers for one redemption attempt.
type RedeemCodeParams struct {
	Code          string
	WalletID      string
	StudentID     string
	TransactionID string
	Now           time.Time
}

// RechargeCodeRepositoryFacade persists single-use top-up codes.
//
// RedeemCode is one serializable unit: the code row is locked, checked
// (apperrors.ErrCodeNotFound, apperrors.ErrCodeAlreadyUsed, or
// apperrors.ErrValidation for an expired code), flipped to used with a
// guarded UPDATE on is_used = FALSE, and the matching credit appended to the
// wallet ledger. Two concurrent redemptions of the same code must produce
// exactly one credit.
type RechargeCodeRepositoryFacade interface {
	SaveCodes(ctx context.Context, codes []domain.RechargeCode) error
	FindByCode(ctx context.Context, code string) (*domain.RechargeCode, error)
	ListCodes(ctx context.Context, onlyUnused bool, limit int, nextToken *string) ([]domain.RechargeCode, *string, error)

	RedeemCode(ctx context.Context, params RedeemCodeParams) (*domain.Transaction, error)
}
