package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	"github.com/coursepay/lms_payments_backend/internal/models"
	"github.com/coursepay/lms_payments_backend/internal/utils/mapping"
	"github.com/coursepay/lms_payments_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCourseRepository struct {
	BaseRepository
}

// newPgxCourseRepository creates a new repository for course pricing data.
func newPgxCourseRepository(pool *pgxpool.Pool) portsrepo.CourseRepositoryFacade {
	return &PgxCourseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCourseRepository implements portsrepo.CourseRepositoryFacade
var _ portsrepo.CourseRepositoryFacade = (*PgxCourseRepository)(nil)

const courseColumns = `course_id, title, price, price_locked, is_published, created_at, created_by, last_updated_at, last_updated_by`

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var m models.Course
	err := row.Scan(
		&m.CourseID,
		&m.Title,
		&m.Price,
		&m.PriceLocked,
		&m.IsPublished,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	course := mapping.ToDomainCourse(m)
	return &course, nil
}

// lockCourse locks the course row FOR UPDATE. Purchases and price updates both
// take this lock, which is what keeps the price lock race-free.
func lockCourse(ctx context.Context, tx pgx.Tx, courseID string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_id = $1 FOR UPDATE;`
	course, err := scanCourse(tx.QueryRow(ctx, query, courseID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, translateConcurrencyError(err)
	}
	return course, nil
}

func (r *PgxCourseRepository) SaveCourse(ctx context.Context, course domain.Course) error {
	m := mapping.ToModelCourse(course)
	query := `
        INSERT INTO courses (course_id, title, price, price_locked, is_published, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.CourseID,
		m.Title,
		m.Price,
		m.PriceLocked,
		m.IsPublished,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert course %s: %w", m.CourseID, err)
	}
	return nil
}

func (r *PgxCourseRepository) FindCourseByID(ctx context.Context, courseID string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_id = $1;`
	return scanCourse(r.Pool.QueryRow(ctx, query, courseID))
}

func (r *PgxCourseRepository) ListCourses(ctx context.Context, limit int, nextToken *string) ([]domain.Course, *string, error) {
	args := []interface{}{}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursorClause = `WHERE (created_at, course_id) < ($1, $2)`
		args = append(args, lastCreatedAt, lastID)
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`
        SELECT %s FROM courses
        %s
        ORDER BY created_at DESC, course_id DESC
        LIMIT $%d;
    `, courseColumns, cursorClause, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var ms []models.Course
	for rows.Next() {
		var m models.Course
		err := rows.Scan(
			&m.CourseID,
			&m.Title,
			&m.Price,
			&m.PriceLocked,
			&m.IsPublished,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan course: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate courses: %w", err)
	}

	var newToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CourseID)
		newToken = &token
	}
	out := make([]domain.Course, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainCourse(m)
	}
	return out, newToken, nil
}

// UpdatePrice changes the listed price under the course lock, rejecting the
// change once the price has been locked by a purchase, and records the change
// in the price history in the same transaction.
func (r *PgxCourseRepository) UpdatePrice(ctx context.Context, courseID string, newPrice int64, reason string, historyID string, actorID string, now time.Time) (*domain.Course, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	course, err := lockCourse(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}
	if course.PriceLocked {
		return nil, apperrors.ErrConflict
	}

	updateQuery := `UPDATE courses SET price = $2, last_updated_at = $3, last_updated_by = $4 WHERE course_id = $1;`
	if _, err := tx.Exec(ctx, updateQuery, courseID, newPrice, now, actorID); err != nil {
		return nil, fmt.Errorf("failed to update price for course %s: %w", courseID, translateConcurrencyError(err))
	}

	historyQuery := `
        INSERT INTO course_price_history (history_id, course_id, old_price, new_price, reason, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err = tx.Exec(ctx, historyQuery, historyID, courseID, course.Price, newPrice, reason, now, actorID, now, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert price history for course %s: %w", courseID, translateConcurrencyError(err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	updated := *course
	updated.Price = newPrice
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actorID
	return &updated, nil
}

func (r *PgxCourseRepository) ListPriceHistory(ctx context.Context, courseID string) ([]domain.PriceChange, error) {
	query := `
        SELECT history_id, course_id, old_price, new_price, reason, created_at, created_by, last_updated_at, last_updated_by
        FROM course_price_history
        WHERE course_id = $1
        ORDER BY created_at DESC, history_id DESC;
    `
	rows, err := r.Pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list price history for course %s: %w", courseID, err)
	}
	defer rows.Close()

	var out []domain.PriceChange
	for rows.Next() {
		var m models.PriceChange
		err := rows.Scan(
			&m.HistoryID,
			&m.CourseID,
			&m.OldPrice,
			&m.NewPrice,
			&m.Reason,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price change: %w", err)
		}
		out = append(out, mapping.ToDomainPriceChange(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price history: %w", err)
	}
	return out, nil
}
