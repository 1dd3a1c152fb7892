package dto

import (
	"time"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// GenerateCodesRequest issues a batch of recharge codes of equal value.
type GenerateCodesRequest struct {
	Count        int        `json:"count" binding:"required,gt=0,lte=1000"`
	Amount       int64      `json:"amount" binding:"required,gt=0"`
	CurrencyCode string     `json:"currencyCode" binding:"required,currencycode"`
	Prefix       string     `json:"prefix" binding:"omitempty,max=8,alphanum"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// RedeemCodeRequest redeems a recharge code into the caller's wallet.
type RedeemCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// RechargeCodeResponse is the API shape of a recharge code. The code string
// itself is only included for the issuer (generation and export), never in
// redemption responses.
type RechargeCodeResponse struct {
	CodeID       string     `json:"codeID"`
	Code         string     `json:"code,omitempty"`
	Amount       int64      `json:"amount"`
	CurrencyCode string     `json:"currencyCode"`
	IsUsed       bool       `json:"isUsed"`
	UsedBy       *string    `json:"usedBy,omitempty"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ToRechargeCodeResponse maps a domain code, including the code string.
func ToRechargeCodeResponse(c domain.RechargeCode) RechargeCodeResponse {
	return RechargeCodeResponse{
		CodeID:       c.CodeID,
		Code:         c.Code,
		Amount:       c.Amount,
		CurrencyCode: c.CurrencyCode,
		IsUsed:       c.IsUsed,
		UsedBy:       c.UsedBy,
		UsedAt:       c.UsedAt,
		ExpiresAt:    c.ExpiresAt,
		CreatedAt:    c.CreatedAt,
	}
}

// GenerateCodesResponse returns the freshly issued batch.
type GenerateCodesResponse struct {
	Codes []RechargeCodeResponse `json:"codes"`
}

// ListCodesParams carries filtering and cursor pagination for code listings.
type ListCodesParams struct {
	OnlyUnused bool    `form:"onlyUnused"`
	Limit      int     `form:"limit"`
	NextToken  *string `form:"nextToken"`
}

// ListCodesResponse is a page of recharge codes ordered newest first.
type ListCodesResponse struct {
	Codes     []RechargeCodeResponse `json:"codes"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// RedeemResult reports a successful redemption.
type RedeemResult struct {
	Transaction  TransactionResponse `json:"transaction"`
	NewBalance   int64               `json:"newBalance"`
	AuditWarning bool                `json:"auditWarning,omitempty"`
}
