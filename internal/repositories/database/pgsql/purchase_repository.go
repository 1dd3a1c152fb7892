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

type PgxPurchaseRepository struct {
	BaseRepository
}

// newPgxPurchaseRepository creates a new repository for purchases and refunds.
func newPgxPurchaseRepository(pool *pgxpool.Pool) portsrepo.PurchaseRepositoryFacade {
	return &PgxPurchaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPurchaseRepository implements portsrepo.PurchaseRepositoryFacade
var _ portsrepo.PurchaseRepositoryFacade = (*PgxPurchaseRepository)(nil)

const purchaseColumns = `purchase_id, student_id, course_id, transaction_id, price_at_purchase, purchased_at, refunded, refunded_at, refund_reason`

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var m models.Purchase
	err := row.Scan(
		&m.PurchaseID,
		&m.StudentID,
		&m.CourseID,
		&m.TransactionID,
		&m.PriceAtPurchase,
		&m.PurchasedAt,
		&m.Refunded,
		&m.RefundedAt,
		&m.RefundReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan purchase: %w", err)
	}
	purchase := mapping.ToDomainPurchase(m)
	return &purchase, nil
}

func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE purchase_id = $1;`
	return scanPurchase(r.Pool.QueryRow(ctx, query, purchaseID))
}

// FindActivePurchase returns the non-refunded purchase of a course by a
// student, or apperrors.ErrNotFound.
func (r *PgxPurchaseRepository) FindActivePurchase(ctx context.Context, studentID, courseID string) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE student_id = $1 AND course_id = $2 AND refunded = FALSE;`
	return scanPurchase(r.Pool.QueryRow(ctx, query, studentID, courseID))
}

func (r *PgxPurchaseRepository) ListPurchasesByStudent(ctx context.Context, studentID string, limit int, nextToken *string) ([]domain.Purchase, *string, error) {
	args := []interface{}{studentID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastPurchasedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursorClause = `AND (purchased_at, purchase_id) < ($2, $3)`
		args = append(args, lastPurchasedAt, lastID)
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`
        SELECT %s FROM purchases
        WHERE student_id = $1 %s
        ORDER BY purchased_at DESC, purchase_id DESC
        LIMIT $%d;
    `, purchaseColumns, cursorClause, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list purchases for student %s: %w", studentID, err)
	}
	defer rows.Close()

	var ms []models.Purchase
	for rows.Next() {
		var m models.Purchase
		err := rows.Scan(
			&m.PurchaseID,
			&m.StudentID,
			&m.CourseID,
			&m.TransactionID,
			&m.PriceAtPurchase,
			&m.PurchasedAt,
			&m.Refunded,
			&m.RefundedAt,
			&m.RefundReason,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}

	var newToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.PurchasedAt, last.PurchaseID)
		newToken = &token
	}
	out := make([]domain.Purchase, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainPurchase(m)
	}
	return out, newToken, nil
}

// ExecutePurchase runs the whole purchase as one database transaction: wallet
// and course rows locked, duplicate purchase re-checked under the locks, the
// effective price resolved, the debit appended, the purchase row inserted and
// the course price locked.
func (r *PgxPurchaseRepository) ExecutePurchase(ctx context.Context, params portsrepo.ExecutePurchaseParams) (*domain.Purchase, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockWallet(ctx, tx, params.WalletID); err != nil {
		return nil, err
	}
	course, err := lockCourse(ctx, tx, params.CourseID)
	if err != nil {
		return nil, err
	}

	// Re-check under the lock; the service checks too but two concurrent
	// purchases of the same course can both pass that check.
	var alreadyOwned bool
	dupQuery := `SELECT EXISTS (SELECT 1 FROM purchases WHERE student_id = $1 AND course_id = $2 AND refunded = FALSE);`
	if err := tx.QueryRow(ctx, dupQuery, params.StudentID, params.CourseID).Scan(&alreadyOwned); err != nil {
		return nil, fmt.Errorf("failed to check existing purchase: %w", err)
	}
	if alreadyOwned {
		return nil, apperrors.ErrAlreadyPurchased
	}

	price, err := effectivePrice(ctx, tx, course)
	if err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID: params.TransactionID,
		WalletID:      params.WalletID,
		Amount:        -price,
		Kind:          domain.KindPurchase,
		Description:   "Course purchase: " + course.Title,
		PurchaseID:    &params.PurchaseID,
		CreatedAt:     params.Now,
		CreatedBy:     params.ActorID,
	}
	if err := appendTransactionInTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	purchase := domain.Purchase{
		PurchaseID:      params.PurchaseID,
		StudentID:       params.StudentID,
		CourseID:        params.CourseID,
		TransactionID:   params.TransactionID,
		PriceAtPurchase: price,
		PurchasedAt:     params.Now,
	}
	m := mapping.ToModelPurchase(purchase)
	insertQuery := `
        INSERT INTO purchases (purchase_id, student_id, course_id, transaction_id, price_at_purchase, purchased_at, refunded)
        VALUES ($1, $2, $3, $4, $5, $6, FALSE);
    `
	_, err = tx.Exec(ctx, insertQuery,
		m.PurchaseID,
		m.StudentID,
		m.CourseID,
		m.TransactionID,
		m.PriceAtPurchase,
		m.PurchasedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_purchases_active") {
			return nil, apperrors.ErrAlreadyPurchased
		}
		if isUniqueViolation(err, "") {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert purchase %s: %w", m.PurchaseID, translateConcurrencyError(err))
	}

	if !course.PriceLocked {
		lockQuery := `UPDATE courses SET price_locked = TRUE, last_updated_at = $2, last_updated_by = $3 WHERE course_id = $1;`
		if _, err := tx.Exec(ctx, lockQuery, params.CourseID, params.Now, params.ActorID); err != nil {
			return nil, fmt.Errorf("failed to lock price for course %s: %w", params.CourseID, translateConcurrencyError(err))
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &purchase, nil
}

// effectivePrice resolves what the buyer pays while the course row is locked:
// the price recorded on the earliest non-refunded purchase if one exists,
// otherwise the listed price.
func effectivePrice(ctx context.Context, tx pgx.Tx, course *domain.Course) (int64, error) {
	var locked int64
	query := `
        SELECT price_at_purchase FROM purchases
        WHERE course_id = $1 AND refunded = FALSE
        ORDER BY purchased_at ASC, purchase_id ASC
        LIMIT 1;
    `
	err := tx.QueryRow(ctx, query, course.CourseID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Price, nil
		}
		return 0, fmt.Errorf("failed to resolve effective price for course %s: %w", course.CourseID, err)
	}
	return locked, nil
}

// ExecuteRefund reverses a purchase: the purchase row is locked, the double
// refund rejected, the offsetting credit appended and the purchase marked
// refunded, all in one database transaction.
func (r *PgxPurchaseRepository) ExecuteRefund(ctx context.Context, purchaseID string, transactionID string, reason *string, actorID string, now time.Time) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + purchaseColumns + ` FROM purchases WHERE purchase_id = $1 FOR UPDATE;`
	purchase, err := scanPurchase(tx.QueryRow(ctx, lockQuery, purchaseID))
	if err != nil {
		return nil, translateConcurrencyError(err)
	}
	if purchase.Refunded {
		return nil, apperrors.ErrAlreadyRefunded
	}

	var walletID string
	walletQuery := `SELECT wallet_id FROM wallets WHERE student_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, walletQuery, purchase.StudentID).Scan(&walletID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet for student %s: %w", purchase.StudentID, translateConcurrencyError(err))
	}

	txn := domain.Transaction{
		TransactionID: transactionID,
		WalletID:      walletID,
		Amount:        purchase.PriceAtPurchase,
		Kind:          domain.KindRefund,
		Description:   "Refund of purchase " + purchase.PurchaseID,
		Reason:        reason,
		PurchaseID:    &purchase.PurchaseID,
		CreatedAt:     now,
		CreatedBy:     actorID,
	}
	if err := appendTransactionInTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	updateQuery := `UPDATE purchases SET refunded = TRUE, refunded_at = $2, refund_reason = $3 WHERE purchase_id = $1;`
	if _, err := tx.Exec(ctx, updateQuery, purchaseID, now, reason); err != nil {
		return nil, fmt.Errorf("failed to mark purchase %s refunded: %w", purchaseID, translateConcurrencyError(err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

// CourseStats aggregates non-refunded purchases of a course at read time.
func (r *PgxPurchaseRepository) CourseStats(ctx context.Context, courseID string) (*domain.CourseStats, error) {
	query := `
        SELECT COUNT(*), COUNT(DISTINCT student_id), COALESCE(SUM(price_at_purchase), 0)
        FROM purchases
        WHERE course_id = $1 AND refunded = FALSE;
    `
	stats := domain.CourseStats{CourseID: courseID}
	if err := r.Pool.QueryRow(ctx, query, courseID).Scan(&stats.TotalPurchases, &stats.ActiveStudents, &stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to aggregate stats for course %s: %w", courseID, err)
	}
	return &stats, nil
}
