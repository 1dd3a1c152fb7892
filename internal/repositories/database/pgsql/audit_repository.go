package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	"github.com/coursepay/lms_payments_backend/internal/models"
	"github.com/coursepay/lms_payments_backend/internal/utils/mapping"
	"github.com/coursepay/lms_payments_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) SaveEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	m, err := mapping.ToModelAuditLogEntry(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize audit metadata: %w", err)
	}
	query := `
        INSERT INTO audit_log (audit_id, actor_id, action, target_type, target_id, amount, metadata, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err = r.Pool.Exec(ctx, query,
		m.AuditID,
		m.ActorID,
		m.Action,
		m.TargetType,
		m.TargetID,
		m.Amount,
		m.Metadata,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry %s: %w", m.AuditID, err)
	}
	return nil
}

func (r *PgxAuditRepository) ListEntries(ctx context.Context, filter portsrepo.AuditEntryFilter, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	var conditions []string
	var args []interface{}
	addCondition := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addCondition("actor_id", filter.ActorID)
	addCondition("action", filter.Action)
	addCondition("target_type", filter.TargetType)
	addCondition("target_id", filter.TargetID)

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, lastCreatedAt, lastID)
		conditions = append(conditions, fmt.Sprintf("(created_at, audit_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`
        SELECT audit_id, actor_id, action, target_type, target_id, amount, metadata, created_at
        FROM audit_log
        %s
        ORDER BY created_at DESC, audit_id DESC
        LIMIT $%d;
    `, whereClause, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var ms []models.AuditLogEntry
	for rows.Next() {
		var m models.AuditLogEntry
		err := rows.Scan(
			&m.AuditID,
			&m.ActorID,
			&m.Action,
			&m.TargetType,
			&m.TargetID,
			&m.Amount,
			&m.Metadata,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	var newToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.AuditID)
		newToken = &token
	}
	out := make([]domain.AuditLogEntry, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainAuditLogEntry(m)
	}
	return out, newToken, nil
}
