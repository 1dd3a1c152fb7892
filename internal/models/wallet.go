package models

// Wallet is the database representation of a student wallet.
// The balance column deliberately does not exist; balances are derived
// from the transactions table.
type Wallet struct {
	WalletID     string `db:"wallet_id"`
	StudentID    string `db:"student_id"`
	CurrencyCode string `db:"currency_code"`
	AuditFields
}
