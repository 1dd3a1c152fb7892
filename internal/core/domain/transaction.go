package domain

import (
	"fmt"
	"time"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	KindDeposit       TransactionKind = "DEPOSIT"
	KindWithdrawal    TransactionKind = "WITHDRAWAL"
	KindPurchase      TransactionKind = "PURCHASE"
	KindRefund        TransactionKind = "REFUND"
	KindRechargeCode  TransactionKind = "RECHARGE_CODE"
	KindManualDeposit TransactionKind = "MANUAL_DEPOSIT"
)

// IsDebit reports whether the kind removes money from a wallet.
func (k TransactionKind) IsDebit() bool {
	return k == KindWithdrawal || k == KindPurchase
}

// Transaction is an immutable ledger entry against a single wallet.
// Amount is signed, in minor currency units: negative for debit kinds,
// positive for credit kinds. Once created a transaction is never updated
// or deleted; refunds and corrections append offsetting entries.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	WalletID      string          `json:"walletID"`      // FK -> Wallet.walletID (Not Null)
	Amount        int64           `json:"amount"`        // Signed, minor currency units
	Kind          TransactionKind `json:"kind"`
	Description   string          `json:"description"`
	Reason        *string         `json:"reason,omitempty"`     // Optional operator-supplied reason
	PurchaseID    *string         `json:"purchaseID,omitempty"` // Set for PURCHASE and REFUND entries
	CodeID        *string         `json:"codeID,omitempty"`     // Set for RECHARGE_CODE entries
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// Validate checks the sign convention for the transaction kind.
func (t Transaction) Validate() error {
	if t.WalletID == "" {
		return fmt.Errorf("transaction wallet ID is required")
	}
	if t.Amount == 0 {
		return fmt.Errorf("transaction amount must be non-zero")
	}
	switch t.Kind {
	case KindWithdrawal, KindPurchase:
		if t.Amount > 0 {
			return fmt.Errorf("%s amount must be negative, got %d", t.Kind, t.Amount)
		}
	case KindDeposit, KindRefund, KindRechargeCode, KindManualDeposit:
		if t.Amount < 0 {
			return fmt.Errorf("%s amount must be positive, got %d", t.Kind, t.Amount)
		}
	default:
		return fmt.Errorf("unknown transaction kind %q", t.Kind)
	}
	return nil
}
