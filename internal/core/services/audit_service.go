package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
)

// auditService writes and reads the append-only audit trail.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

// Ensure auditService implements the portssvc.AuditSvcFacade interface
var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Record appends one audit entry. A failure here never rolls back the business
// operation it annotates; callers surface it as a warning. The failure is
// logged with the full entry so the trail can be reconciled later.
func (s *auditService) Record(ctx context.Context, actorID string, action string, targetType string, targetID string, amount *int64, metadata map[string]string) error {
	entry := domain.AuditLogEntry{
		AuditID:    uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Amount:     amount,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.SaveEntry(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to write audit entry",
			slog.String("actor_id", actorID),
			slog.String("action", action),
			slog.String("target_type", targetType),
			slog.String("target_id", targetID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s", apperrors.ErrAuditWriteFailed, err.Error())
	}
	return nil
}

// ListEntries retrieves a filtered page of the trail. Staff only.
func (s *auditService) ListEntries(ctx context.Context, actor domain.Actor, params dto.ListAuditEntriesParams) (*dto.ListAuditEntriesResponse, error) {
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}

	limit := normalizeLimit(params.Limit)
	filter := portsrepo.AuditEntryFilter{
		ActorID:    params.ActorID,
		Action:     params.Action,
		TargetType: params.TargetType,
		TargetID:   params.TargetID,
	}
	entries, nextToken, err := s.auditRepo.ListEntries(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToAuditEntryResponse(e))
	}
	return &dto.ListAuditEntriesResponse{Entries: out, NextToken: nextToken}, nil
}
