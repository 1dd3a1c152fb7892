package services

import (
	"context"

	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/dto"
)

// WalletReaderSvc defines read operations for wallet data
type WalletReaderSvc interface {
	// GetWalletByID retrieves a wallet by its ID, enforcing that the actor
	// owns it or is staff.
	GetWalletByID(ctx context.Context, walletID string, actor domain.Actor) (*domain.Wallet, error)

	// GetWalletByStudentID retrieves a student's wallet.
	GetWalletByStudentID(ctx context.Context, studentID string, actor domain.Actor) (*domain.Wallet, error)

	// GetBalance derives the wallet balance from the ledger.
	GetBalance(ctx context.Context, walletID string, actor domain.Actor) (int64, error)

	// HasSufficientFunds reports whether the derived balance covers amount.
	// Advisory only: the ledger re-checks under the wallet lock on every debit.
	HasSufficientFunds(ctx context.Context, walletID string, amount int64, actor domain.Actor) (bool, error)

	// ListTransactions retrieves a paginated statement, newest first.
	ListTransactions(ctx context.Context, walletID string, actor domain.Actor, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// WalletWriterSvc defines write operations against wallets and the ledger
type WalletWriterSvc interface {
	// CreateWallet provisions a wallet for a student.
	CreateWallet(ctx context.Context, req dto.CreateWalletRequest, actor domain.Actor) (*domain.Wallet, error)

	// Deposit credits the wallet.
	Deposit(ctx context.Context, walletID string, req dto.DepositRequest, actor domain.Actor) (*dto.TransactionResult, error)

	// Withdraw debits the wallet, failing if the balance does not cover it.
	Withdraw(ctx context.Context, walletID string, req dto.WithdrawRequest, actor domain.Actor) (*dto.TransactionResult, error)

	// ManualDeposit is an admin-only credit with a mandatory reason.
	ManualDeposit(ctx context.Context, walletID string, req dto.ManualDepositRequest, actor domain.Actor) (*dto.TransactionResult, error)
}

// WalletSvcFacade combines all wallet-related service interfaces
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
}
