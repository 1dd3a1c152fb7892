package repositories

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// AuditEntryFilter narrows ListEntries. Zero-value fields match everything.
type AuditEntryFilter struct {
	ActorID    string
	Action     string
	TargetType string
	TargetID   string
}

// AuditRepositoryFacade is the append-only store for audit log entries.
// Entries are never updated or deleted.
type AuditRepositoryFacade interface {
	SaveEntry(ctx context.Context, entry domain.AuditLogEntry) error
	ListEntries(ctx context.Context, filter AuditEntryFilter, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error)
}
