package repositories

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
)

// WalletRepositoryFacade provides access to wallets and their ledger.
//
// AppendTransaction is the single write path into the ledger: it must lock
// the wallet row, re-derive the balance inside the same database transaction,
// reject any debit that would drive the balance negative with
// apperrors.ErrInsufficientFunds, and only then insert the entry. Entries are
// immutable once inserted.
type WalletRepositoryFacade interface {
	SaveWallet(ctx context.Context, wallet domain.Wallet) error
	FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error)
	FindWalletByStudentID(ctx context.Context, studentID string) (*domain.Wallet, error)

	// GetBalance derives the balance by summing the wallet's transactions.
	GetBalance(ctx context.Context, walletID string) (int64, error)

	AppendTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// ListTransactionsByWalletID returns a page of ledger entries, newest
	// first, with a cursor token for the next page.
	ListTransactionsByWalletID(ctx context.Context, walletID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
