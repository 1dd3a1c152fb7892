package models

import "time"

// Purchase is the database representation of a course purchase.
type Purchase struct {
	PurchaseID      string     `db:"purchase_id"`
	StudentID       string     `db:"student_id"`
	CourseID        string     `db:"course_id"`
	TransactionID   string     `db:"transaction_id"`
	PriceAtPurchase int64      `db:"price_at_purchase"`
	PurchasedAt     time.Time  `db:"purchased_at"`
	Refunded        bool       `db:"refunded"`
	RefundedAt      *time.Time `db:"refunded_at"`
	RefundReason    *string    `db:"refund_reason"`
}
