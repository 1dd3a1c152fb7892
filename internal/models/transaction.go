package models

import "time"

// Transaction is the database representation of an immutable ledger entry.
// Amount is a signed integer in minor currency units.
type Transaction struct {
	TransactionID string    `db:"transaction_id"`
	WalletID      string    `db:"wallet_id"`
	Amount        int64     `db:"amount"`
	Kind          string    `db:"kind"`
	Description   string    `db:"description"`
	Reason        *string   `db:"reason"`
	PurchaseID    *string   `db:"purchase_id"`
	CodeID        *string   `db:"code_id"`
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
}
