package services

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/dto"
)

// PurchaseReaderSvc defines read operations for purchase data
type PurchaseReaderSvc interface {
	// GetPurchaseByID retrieves a purchase visible to the actor.
	GetPurchaseByID(ctx context.Context, purchaseID string, actor domain.Actor) (*domain.Purchase, error)

	// ListPurchasesByStudent retrieves a paginated purchase history.
	ListPurchasesByStudent(ctx context.Context, studentID string, actor domain.Actor, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error)
}

// PurchaseWriterSvc defines the purchase and refund operations
type PurchaseWriterSvc interface {
	// PurchaseCourse buys a course for the acting student: debits the wallet,
	// records the purchase and locks the course price, all atomically.
	PurchaseCourse(ctx context.Context, courseID string, actor domain.Actor) (*dto.PurchaseResult, error)

	// RefundPurchase reverses a purchase at the recorded purchase price.
	RefundPurchase(ctx context.Context, purchaseID string, req dto.RefundPurchaseRequest, actor domain.Actor) (*dto.RefundResult, error)
}

// PurchaseSvcFacade combines all purchase-related service interfaces
type PurchaseSvcFacade interface {
	PurchaseReaderSvc
	PurchaseWriterSvc
}
