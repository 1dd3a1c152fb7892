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

type PgxWalletRepository struct {
	BaseRepository
}

// newPgxWalletRepository creates a new repository for wallets and ledger entries.
func newPgxWalletRepository(pool *pgxpool.Pool) portsrepo.WalletRepositoryFacade {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxWalletRepository implements portsrepo.WalletRepositoryFacade
var _ portsrepo.WalletRepositoryFacade = (*PgxWalletRepository)(nil)

func (r *PgxWalletRepository) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	modelWallet := mapping.ToModelWallet(wallet)
	query := `
        INSERT INTO wallets (wallet_id, student_id, currency_code, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.Pool.Exec(ctx, query,
		modelWallet.WalletID,
		modelWallet.StudentID,
		modelWallet.CurrencyCode,
		modelWallet.CreatedAt,
		modelWallet.CreatedBy,
		modelWallet.LastUpdatedAt,
		modelWallet.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert wallet %s: %w", modelWallet.WalletID, err)
	}
	return nil
}

const walletColumns = `wallet_id, student_id, currency_code, created_at, created_by, last_updated_at, last_updated_by`

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var m models.Wallet
	err := row.Scan(
		&m.WalletID,
		&m.StudentID,
		&m.CurrencyCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}
	wallet := mapping.ToDomainWallet(m)
	return &wallet, nil
}

func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1;`
	return scanWallet(r.Pool.QueryRow(ctx, query, walletID))
}

func (r *PgxWalletRepository) FindWalletByStudentID(ctx context.Context, studentID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE student_id = $1;`
	return scanWallet(r.Pool.QueryRow(ctx, query, studentID))
}

// GetBalance derives the balance by summing the wallet's ledger entries.
func (r *PgxWalletRepository) GetBalance(ctx context.Context, walletID string) (int64, error) {
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE wallet_id = $1);`, walletID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check wallet %s: %w", walletID, err)
	}
	if !exists {
		return 0, apperrors.ErrWalletNotFound
	}
	var balance int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE wallet_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, walletID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to sum ledger for wallet %s: %w", walletID, err)
	}
	return balance, nil
}

// AppendTransaction is the single write path into the ledger. The wallet row
// is locked for the duration of the database transaction so the balance check
// and the insert are one serializable unit.
func (r *PgxWalletRepository) AppendTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockWallet(ctx, tx, txn.WalletID); err != nil {
		return nil, err
	}
	if err := appendTransactionInTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

// lockWallet locks the wallet row FOR UPDATE and returns it. Every ledger
// write goes through this lock so concurrent writes to one wallet serialize.
func lockWallet(ctx context.Context, tx pgx.Tx, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1 FOR UPDATE;`
	wallet, err := scanWallet(tx.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, apperrors.ErrWalletNotFound) {
			return nil, err
		}
		return nil, translateConcurrencyError(err)
	}
	return wallet, nil
}

// appendTransactionInTx re-derives the balance under the wallet lock, rejects
// an uncovered debit, and inserts the entry. Callers must hold the wallet lock.
func appendTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	var balance int64
	sumQuery := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE wallet_id = $1;`
	if err := tx.QueryRow(ctx, sumQuery, txn.WalletID).Scan(&balance); err != nil {
		return fmt.Errorf("failed to sum ledger for wallet %s: %w", txn.WalletID, err)
	}
	if balance+txn.Amount < 0 {
		return apperrors.ErrInsufficientFunds
	}

	m := mapping.ToModelTransaction(txn)
	insertQuery := `
        INSERT INTO transactions (transaction_id, wallet_id, amount, kind, description, reason, purchase_id, code_id, created_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := tx.Exec(ctx, insertQuery,
		m.TransactionID,
		m.WalletID,
		m.Amount,
		m.Kind,
		m.Description,
		m.Reason,
		m.PurchaseID,
		m.CodeID,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, translateConcurrencyError(err))
	}
	return nil
}

const transactionColumns = `transaction_id, wallet_id, amount, kind, description, reason, purchase_id, code_id, created_at, created_by`

func scanTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var out []models.Transaction
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID,
			&m.WalletID,
			&m.Amount,
			&m.Kind,
			&m.Description,
			&m.Reason,
			&m.PurchaseID,
			&m.CodeID,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return out, nil
}

// ListTransactionsByWalletID returns a page of ledger entries, newest first.
func (r *PgxWalletRepository) ListTransactionsByWalletID(ctx context.Context, walletID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []interface{}{walletID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursorClause = `AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`
        SELECT %s FROM transactions
        WHERE wallet_id = $1 %s
        ORDER BY created_at DESC, transaction_id DESC
        LIMIT $%d;
    `, transactionColumns, cursorClause, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions for wallet %s: %w", walletID, err)
	}
	ms, err := scanTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var newToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		newToken = &token
	}
	return mapping.ToDomainTransactionSlice(ms), newToken, nil
}
