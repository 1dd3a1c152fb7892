package domain

import "time"

// Purchase links a student, a course, and the ledger transaction that paid
// for it. The row is never deleted; a refund appends an offsetting credit
// transaction and flips Refunded.
type Purchase struct {
	PurchaseID      string     `json:"purchaseID"` // Primary Key (UUID)
	StudentID       string     `json:"studentID"`
	CourseID        string     `json:"courseID"`
	TransactionID   string     `json:"transactionID"`   // Debit entry that paid for the course
	PriceAtPurchase int64      `json:"priceAtPurchase"` // Minor units, immutable once set
	PurchasedAt     time.Time  `json:"purchasedAt"`
	Refunded        bool       `json:"refunded"`
	RefundedAt      *time.Time `json:"refundedAt,omitempty"`
	RefundReason    *string    `json:"refundReason,omitempty"`
}
