package dto

import (
	"time"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// PurchaseCourseRequest buys a course for the authenticated student.
type PurchaseCourseRequest struct {
	CourseID string `json:"courseID" binding:"required"`
}

// RefundPurchaseRequest reverses a purchase. Reason is optional and, when
// present, is copied onto the refund ledger entry.
type RefundPurchaseRequest struct {
	Reason *string `json:"reason,omitempty" binding:"omitempty,max=255"`
}

// PurchaseResponse is the API shape of a purchase record.
type PurchaseResponse struct {
	PurchaseID      string     `json:"purchaseID"`
	StudentID       string     `json:"studentID"`
	CourseID        string     `json:"courseID"`
	TransactionID   string     `json:"transactionID"`
	PriceAtPurchase int64      `json:"priceAtPurchase"`
	PurchasedAt     time.Time  `json:"purchasedAt"`
	Refunded        bool       `json:"refunded"`
	RefundedAt      *time.Time `json:"refundedAt,omitempty"`
	RefundReason    *string    `json:"refundReason,omitempty"`
}

// ToPurchaseResponse maps a domain purchase.
func ToPurchaseResponse(p domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:      p.PurchaseID,
		StudentID:       p.StudentID,
		CourseID:        p.CourseID,
		TransactionID:   p.TransactionID,
		PriceAtPurchase: p.PriceAtPurchase,
		PurchasedAt:     p.PurchasedAt,
		Refunded:        p.Refunded,
		RefundedAt:      p.RefundedAt,
		RefundReason:    p.RefundReason,
	}
}

// PurchaseResult reports a completed purchase. NewBalance is the buyer's
// wallet balance after the debit. AuditWarning is true when the purchase
// committed but the audit entry could not be recorded.
type PurchaseResult struct {
	Purchase     PurchaseResponse `json:"purchase"`
	NewBalance   int64            `json:"newBalance"`
	AuditWarning bool             `json:"auditWarning,omitempty"`
}

// RefundResult reports a completed refund.
type RefundResult struct {
	Purchase     PurchaseResponse `json:"purchase"`
	NewBalance   int64            `json:"newBalance"`
	AuditWarning bool             `json:"auditWarning,omitempty"`
}

// ListPurchasesParams carries cursor pagination input for purchase listings.
type ListPurchasesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListPurchasesResponse is a page of purchases ordered newest first.
type ListPurchasesResponse struct {
	Purchases []PurchaseResponse `json:"purchases"`
	NextToken *string            `json:"nextToken,omitempty"`
}
