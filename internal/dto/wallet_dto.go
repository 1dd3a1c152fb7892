package dto

import (
	"time"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/utils"
)

// CreateWalletRequest creates a wallet for a student. A student has at most
// one wallet per currency.
type CreateWalletRequest struct {
	StudentID    string `json:"studentID" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,currencycode"`
}

// WalletResponse is the API shape of a wallet, balance included.
type WalletResponse struct {
	WalletID         string    `json:"walletID"`
	StudentID        string    `json:"studentID"`
	CurrencyCode     string    `json:"currencyCode"`
	Balance          int64     `json:"balance"`
	BalanceFormatted string    `json:"balanceFormatted"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ToWalletResponse maps a domain wallet plus its derived balance.
func ToWalletResponse(w domain.Wallet, balance int64) WalletResponse {
	return WalletResponse{
		WalletID:         w.WalletID,
		StudentID:        w.StudentID,
		CurrencyCode:     w.CurrencyCode,
		Balance:          balance,
		BalanceFormatted: utils.FormatMinorUnits(balance, w.CurrencyCode),
		CreatedAt:        w.CreatedAt,
	}
}

// DepositRequest credits a wallet. Amount is in minor units.
type DepositRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"max=255"`
}

// WithdrawRequest debits a wallet. Amount is in minor units and must be
// covered by the current balance.
type WithdrawRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"max=255"`
}

// ManualDepositRequest is an admin-only credit. Reason is mandatory so the
// adjustment is explained in the ledger and the audit trail.
type ManualDepositRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"required,max=255"`
}

// TransactionResponse is the API shape of a single ledger entry.
type TransactionResponse struct {
	TransactionID string    `json:"transactionID"`
	WalletID      string    `json:"walletID"`
	Amount        int64     `json:"amount"`
	Kind          string    `json:"kind"`
	Description   string    `json:"description,omitempty"`
	Reason        *string   `json:"reason,omitempty"`
	PurchaseID    *string   `json:"purchaseID,omitempty"`
	CodeID        *string   `json:"codeID,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToTransactionResponse maps a domain transaction.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		WalletID:      t.WalletID,
		Amount:        t.Amount,
		Kind:          string(t.Kind),
		Description:   t.Description,
		Reason:        t.Reason,
		PurchaseID:    t.PurchaseID,
		CodeID:        t.CodeID,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses maps a slice of domain transactions.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}

// ListTransactionsParams carries cursor pagination input for transaction
// listings.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// SufficiencyParams asks whether a wallet covers an amount in minor units.
type SufficiencyParams struct {
	Amount int64 `form:"amount" binding:"required,gt=0"`
}

// SufficiencyResponse reports the advisory affordability check.
type SufficiencyResponse struct {
	WalletID   string `json:"walletID"`
	Amount     int64  `json:"amount"`
	Sufficient bool   `json:"sufficient"`
}

// ListTransactionsResponse is a page of ledger entries ordered newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// TransactionResult reports a completed ledger write back to the caller.
// NewBalance is the wallet balance after the write. AuditWarning is true when
// the money movement committed but the audit entry could not be recorded.
type TransactionResult struct {
	Transaction  TransactionResponse `json:"transaction"`
	NewBalance   int64               `json:"newBalance"`
	AuditWarning bool                `json:"auditWarning,omitempty"`
}
