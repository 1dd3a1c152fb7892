package mapping

import (
	"encoding/json"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/models"
)

// ToModelAuditLogEntry converts a domain AuditLogEntry to a model AuditLogEntry.
// Metadata is serialized to JSON for the jsonb column.
func ToModelAuditLogEntry(d domain.AuditLogEntry) (models.AuditLogEntry, error) {
	var metadata []byte
	if d.Metadata != nil {
		var err error
		metadata, err = json.Marshal(d.Metadata)
		if err != nil {
			return models.AuditLogEntry{}, err
		}
	}
	return models.AuditLogEntry{
		AuditID:    d.AuditID,
		ActorID:    d.ActorID,
		Action:     d.Action,
		TargetType: d.TargetType,
		TargetID:   d.TargetID,
		Amount:     d.Amount,
		Metadata:   metadata,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// ToDomainAuditLogEntry converts a model AuditLogEntry to a domain AuditLogEntry.
// Malformed metadata is returned as nil rather than failing the read.
func ToDomainAuditLogEntry(m models.AuditLogEntry) domain.AuditLogEntry {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return domain.AuditLogEntry{
		AuditID:    m.AuditID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		TargetType: m.TargetType,
		TargetID:   m.TargetID,
		Amount:     m.Amount,
		Metadata:   metadata,
		CreatedAt:  m.CreatedAt,
	}
}
