package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	"github.com/coursepay/lms_payments_backend/internal/models"
	"github.com/coursepay/lms_payments_backend/internal/utils/mapping"
	"github.com/coursepay/lms_payments_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRechargeCodeRepository struct {
	BaseRepository
}

// newPgxRechargeCodeRepository creates a new repository for single-use top-up codes.
func newPgxRechargeCodeRepository(pool *pgxpool.Pool) portsrepo.RechargeCodeRepositoryFacade {
	return &PgxRechargeCodeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRechargeCodeRepository implements portsrepo.RechargeCodeRepositoryFacade
var _ portsrepo.RechargeCodeRepositoryFacade = (*PgxRechargeCodeRepository)(nil)

const rechargeCodeColumns = `code_id, code, amount, currency_code, is_used, used_by, used_at, expires_at, created_at, created_by`

func scanRechargeCode(row pgx.Row) (*domain.RechargeCode, error) {
	var m models.RechargeCode
	err := row.Scan(
		&m.CodeID,
		&m.Code,
		&m.Amount,
		&m.CurrencyCode,
		&m.IsUsed,
		&m.UsedBy,
		&m.UsedAt,
		&m.ExpiresAt,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to scan recharge code: %w", err)
	}
	code := mapping.ToDomainRechargeCode(m)
	return &code, nil
}

// SaveCodes inserts a batch of freshly generated codes in one round trip.
func (r *PgxRechargeCodeRepository) SaveCodes(ctx context.Context, codes []domain.RechargeCode) error {
	if len(codes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
        INSERT INTO recharge_codes (code_id, code, amount, currency_code, is_used, used_by, used_at, expires_at, created_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	for _, code := range codes {
		m := mapping.ToModelRechargeCode(code)
		batch.Queue(query,
			m.CodeID,
			m.Code,
			m.Amount,
			m.CurrencyCode,
			m.IsUsed,
			m.UsedBy,
			m.UsedAt,
			m.ExpiresAt,
			m.CreatedAt,
			m.CreatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range codes {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err, "") {
				return apperrors.ErrDuplicate
			}
			return fmt.Errorf("failed to insert recharge code batch: %w", err)
		}
	}
	return nil
}

func (r *PgxRechargeCodeRepository) FindByCode(ctx context.Context, code string) (*domain.RechargeCode, error) {
	query := `SELECT ` + rechargeCodeColumns + ` FROM recharge_codes WHERE code = $1;`
	return scanRechargeCode(r.Pool.QueryRow(ctx, query, code))
}

func (r *PgxRechargeCodeRepository) ListCodes(ctx context.Context, onlyUnused bool, limit int, nextToken *string) ([]domain.RechargeCode, *string, error) {
	conditions := ""
	args := []interface{}{}
	if onlyUnused {
		conditions = `WHERE is_used = FALSE`
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		if conditions == "" {
			conditions = `WHERE (created_at, code_id) < ($1, $2)`
		} else {
			conditions += ` AND (created_at, code_id) < ($1, $2)`
		}
		args = append(args, lastCreatedAt, lastID)
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`
        SELECT %s FROM recharge_codes
        %s
        ORDER BY created_at DESC, code_id DESC
        LIMIT $%d;
    `, rechargeCodeColumns, conditions, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list recharge codes: %w", err)
	}
	defer rows.Close()

	var ms []models.RechargeCode
	for rows.Next() {
		var m models.RechargeCode
		err := rows.Scan(
			&m.CodeID,
			&m.Code,
			&m.Amount,
			&m.CurrencyCode,
			&m.IsUsed,
			&m.UsedBy,
			&m.UsedAt,
			&m.ExpiresAt,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan recharge code: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate recharge codes: %w", err)
	}

	var newToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CodeID)
		newToken = &token
	}
	out := make([]domain.RechargeCode, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainRechargeCode(m)
	}
	return out, newToken, nil
}

// RedeemCode flips the code to used and credits the wallet in one database
// transaction. The row lock plus the guarded UPDATE on is_used = FALSE
// guarantee a code credits exactly one wallet exactly once, whatever the
// interleaving.
func (r *PgxRechargeCodeRepository) RedeemCode(ctx context.Context, params portsrepo.RedeemCodeParams) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + rechargeCodeColumns + ` FROM recharge_codes WHERE code = $1 FOR UPDATE;`
	code, err := scanRechargeCode(tx.QueryRow(ctx, lockQuery, params.Code))
	if err != nil {
		if errors.Is(err, apperrors.ErrCodeNotFound) {
			return nil, err
		}
		return nil, translateConcurrencyError(err)
	}
	if code.IsUsed {
		return nil, apperrors.ErrCodeAlreadyUsed
	}
	if !code.IsRedeemable(params.Now) {
		return nil, fmt.Errorf("%w: recharge code expired", apperrors.ErrValidation)
	}

	if _, err := lockWallet(ctx, tx, params.WalletID); err != nil {
		return nil, err
	}

	markQuery := `UPDATE recharge_codes SET is_used = TRUE, used_by = $2, used_at = $3 WHERE code_id = $1 AND is_used = FALSE;`
	tag, err := tx.Exec(ctx, markQuery, code.CodeID, params.StudentID, params.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark code %s used: %w", code.CodeID, translateConcurrencyError(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrCodeAlreadyUsed
	}

	txn := domain.Transaction{
		TransactionID: params.TransactionID,
		WalletID:      params.WalletID,
		Amount:        code.Amount,
		Kind:          domain.KindRechargeCode,
		Description:   "Recharge code redemption",
		CodeID:        &code.CodeID,
		CreatedAt:     params.Now,
		CreatedBy:     params.StudentID,
	}
	if err := appendTransactionInTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}
