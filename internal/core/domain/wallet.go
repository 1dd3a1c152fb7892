package domain

// Wallet is a student's money account. The balance is never stored on the
// wallet row; it is derived by summing the associated ledger transactions
// at read time.
type Wallet struct {
	WalletID     string `json:"walletID"`  // Primary Key (UUID)
	StudentID    string `json:"studentID"` // FK -> users.user_id, one wallet per student
	CurrencyCode string `json:"currencyCode"`
	AuditFields
}
