package services

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/dto"
)

// RechargeCodeReaderSvc defines read operations for recharge codes
type RechargeCodeReaderSvc interface {
	// ListCodes retrieves a paginated list of issued codes. Staff only.
	ListCodes(ctx context.Context, actor domain.Actor, params dto.ListCodesParams) (*dto.ListCodesResponse, error)

	// ExportCodesCSV renders unused codes as CSV for offline distribution.
	ExportCodesCSV(ctx context.Context, actor domain.Actor) ([]byte, error)
}

// RechargeCodeWriterSvc defines issuance and redemption
type RechargeCodeWriterSvc interface {
	// GenerateCodes issues a batch of codes of equal value. Staff only.
	GenerateCodes(ctx context.Context, req dto.GenerateCodesRequest, actor domain.Actor) (*dto.GenerateCodesResponse, error)

	// RedeemCode redeems a code into the acting student's wallet. A code
	// credits exactly one wallet exactly once.
	RedeemCode(ctx context.Context, req dto.RedeemCodeRequest, actor domain.Actor) (*dto.RedeemResult, error)
}

// RechargeCodeSvcFacade combines all recharge-code service interfaces
type RechargeCodeSvcFacade interface {
	RechargeCodeReaderSvc
	RechargeCodeWriterSvc
}
