package models

import "time"

// RechargeCode is the database representation of a single-use wallet top-up code.
type RechargeCode struct {
	CodeID       string     `db:"code_id"`
	Code         string     `db:"code"`
	Amount       int64      `db:"amount"`
	CurrencyCode string     `db:"currency_code"`
	IsUsed       bool       `db:"is_used"`
	UsedBy       *string    `db:"used_by"`
	UsedAt       *time.Time `db:"used_at"`
	ExpiresAt    *time.Time `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	CreatedBy    string     `db:"created_by"`
}
