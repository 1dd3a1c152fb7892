package services

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/dto"
)

// AuditSvcFacade records and queries the audit trail.
//
// Record never fails the business operation it annotates: callers invoke it
// after their own commit and translate a non-nil error into a warning on the
// response, not a rollback.
type AuditSvcFacade interface {
	// Record appends one audit entry.
	Record(ctx context.Context, actorID string, action string, targetType string, targetID string, amount *int64, metadata map[string]string) error

	// ListEntries retrieves a filtered, paginated view of the trail. Staff only.
	ListEntries(ctx context.Context, actor domain.Actor, params dto.ListAuditEntriesParams) (*dto.ListAuditEntriesResponse, error)
}
