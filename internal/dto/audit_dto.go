package dto

import (
	"time"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// ListAuditEntriesParams filters and paginates the audit trail.
type ListAuditEntriesParams struct {
	ActorID    string  `form:"actorID"`
	Action     string  `form:"action"`
	TargetType string  `form:"targetType"`
	TargetID   string  `form:"targetID"`
	Limit      int     `form:"limit"`
	NextToken  *string `form:"nextToken"`
}

// AuditEntryResponse is the API shape of one audit log entry.
type AuditEntryResponse struct {
	AuditID    string            `json:"auditID"`
	ActorID    string            `json:"actorID"`
	Action     string            `json:"action"`
	TargetType string            `json:"targetType"`
	TargetID   string            `json:"targetID"`
	Amount     *int64            `json:"amount,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// ToAuditEntryResponse maps a domain audit entry.
func ToAuditEntryResponse(e domain.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		AuditID:    e.AuditID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Amount:     e.Amount,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}

// ListAuditEntriesResponse is a page of audit entries ordered newest first.
type ListAuditEntriesResponse struct {
	Entries   []AuditEntryResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}
