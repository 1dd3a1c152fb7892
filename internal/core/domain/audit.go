package domain

import "time"

// Audit actions recorded by the payment core.
const (
	AuditActionPurchase       = "purchase"
	AuditActionRefund         = "refund"
	AuditActionDeposit        = "deposit"
	AuditActionWithdrawal     = "withdrawal"
	AuditActionManualDeposit  = "manual_deposit"
	AuditActionRechargeUsed   = "recharge_code_used"
	AuditActionCodesGenerated = "recharge_codes_generated"
	AuditActionPriceChange    = "price_change"
)

// AuditLogEntry is one append-only record of a mutating operation. Entries are
// written once and never updated or deleted; the reporting dashboard reads
// them for display only.
type AuditLogEntry struct {
	AuditID    string            `json:"auditID"` // Primary Key (UUID)
	ActorID    string            `json:"actorID"`
	Action     string            `json:"action"`
	TargetType string            `json:"targetType"` // e.g. "wallet", "purchase", "recharge_code", "course"
	TargetID   string            `json:"targetID"`
	Amount     *int64            `json:"amount,omitempty"` // Minor units where applicable
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}
