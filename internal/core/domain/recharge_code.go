package domain

import "time"

// RechargeCode is a single-use token redeemable for a fixed wallet credit.
// It transitions unused -> used exactly once; there is no way back.
type RechargeCode struct {
	CodeID       string     `json:"codeID"` // Primary Key (UUID)
	Code         string     `json:"code"`   // Unique, unguessable
	Amount       int64      `json:"amount"` // Credit value in minor units
	CurrencyCode string     `json:"currencyCode"`
	IsUsed       bool       `json:"isUsed"`
	UsedBy       *string    `json:"usedBy,omitempty"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy"`
}

// IsRedeemable reports whether the code can still be redeemed at the given time.
func (c RechargeCode) IsRedeemable(now time.Time) bool {
	if c.IsUsed {
		return false
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return false
	}
	return true
}
