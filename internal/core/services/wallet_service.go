package services

import (
	"context"
	"errors"
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

// walletService provides wallet and ledger operations.
type walletService struct {
	walletRepo portsrepo.WalletRepositoryFacade
	auditSvc   portssvc.AuditSvcFacade
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo portsrepo.WalletRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.WalletSvcFacade {
	return &walletService{
		walletRepo: walletRepo,
		auditSvc:   auditSvc,
	}
}

// Ensure walletService implements the portssvc.WalletSvcFacade interface
var _ portssvc.WalletSvcFacade = (*walletService)(nil)

func (s *walletService) GetWalletByID(ctx context.Context, walletID string, actor domain.Actor) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !canAccessWallet(actor, *wallet) {
		return nil, apperrors.ErrForbidden
	}
	return wallet, nil
}

// GetWalletByStudentID retrieves a student's wallet. A student reading their
// own wallet gets one created on first access; staff reads never create.
func (s *walletService) GetWalletByStudentID(ctx context.Context, studentID string, actor domain.Actor) (*domain.Wallet, error) {
	if actor.UserID == studentID && actor.Role == domain.RoleStudent {
		return ensureStudentWallet(ctx, s.walletRepo, studentID)
	}
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}
	return s.walletRepo.FindWalletByStudentID(ctx, studentID)
}

// ensureStudentWallet finds the student's wallet, creating it in the platform
// currency on first access. A concurrent first access can race on the unique
// student constraint; the loser adopts the winner's row.
func ensureStudentWallet(ctx context.Context, repo portsrepo.WalletRepositoryFacade, studentID string) (*domain.Wallet, error) {
	wallet, err := repo.FindWalletByStudentID(ctx, studentID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, apperrors.ErrWalletNotFound) {
		return nil, err
	}

	now := time.Now()
	created := domain.Wallet{
		WalletID:     uuid.NewString(),
		StudentID:    studentID,
		CurrencyCode: platformCurrency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     studentID,
			LastUpdatedAt: now,
			LastUpdatedBy: studentID,
		},
	}
	if saveErr := repo.SaveWallet(ctx, created); saveErr != nil {
		if errors.Is(saveErr, apperrors.ErrDuplicate) {
			return repo.FindWalletByStudentID(ctx, studentID)
		}
		return nil, saveErr
	}

	middleware.GetLoggerFromCtx(ctx).Info("Wallet created on first access",
		slog.String("wallet_id", created.WalletID),
		slog.String("student_id", studentID),
	)
	return &created, nil
}

func (s *walletService) GetBalance(ctx context.Context, walletID string, actor domain.Actor) (int64, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return 0, err
	}
	if !canAccessWallet(actor, *wallet) {
		return 0, apperrors.ErrForbidden
	}
	return s.walletRepo.GetBalance(ctx, walletID)
}

// HasSufficientFunds reports whether the wallet balance covers amount. It is
// a pure read; the debit path re-checks under the wallet lock regardless.
func (s *walletService) HasSufficientFunds(ctx context.Context, walletID string, amount int64, actor domain.Actor) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	balance, err := s.GetBalance(ctx, walletID, actor)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

func (s *walletService) ListTransactions(ctx context.Context, walletID string, actor domain.Actor, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !canAccessWallet(actor, *wallet) {
		return nil, apperrors.ErrForbidden
	}

	limit := normalizeLimit(params.Limit)
	transactions, nextToken, err := s.walletRepo.ListTransactionsByWalletID(ctx, walletID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}

// CreateWallet provisions a wallet. A student may create their own wallet;
// staff may create one for any student.
func (s *walletService) CreateWallet(ctx context.Context, req dto.CreateWalletRequest, actor domain.Actor) (*domain.Wallet, error) {
	if actor.UserID != req.StudentID && !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()
	wallet := domain.Wallet{
		WalletID:     uuid.NewString(),
		StudentID:    req.StudentID,
		CurrencyCode: req.CurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.walletRepo.SaveWallet(ctx, wallet); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Wallet created",
		slog.String("wallet_id", wallet.WalletID),
		slog.String("student_id", wallet.StudentID),
	)
	return &wallet, nil
}

func (s *walletService) Deposit(ctx context.Context, walletID string, req dto.DepositRequest, actor domain.Actor) (*dto.TransactionResult, error) {
	return s.appendEntry(ctx, walletID, actor, entrySpec{
		amount:      req.Amount,
		kind:        domain.KindDeposit,
		description: req.Description,
		auditAction: domain.AuditActionDeposit,
		adminOnly:   false,
	})
}

func (s *walletService) Withdraw(ctx context.Context, walletID string, req dto.WithdrawRequest, actor domain.Actor) (*dto.TransactionResult, error) {
	return s.appendEntry(ctx, walletID, actor, entrySpec{
		amount:      -req.Amount,
		kind:        domain.KindWithdrawal,
		description: req.Description,
		auditAction: domain.AuditActionWithdrawal,
		adminOnly:   false,
	})
}

// ManualDeposit is an administrative credit. The mandatory reason lands on the
// ledger entry and in the audit metadata.
func (s *walletService) ManualDeposit(ctx context.Context, walletID string, req dto.ManualDepositRequest, actor domain.Actor) (*dto.TransactionResult, error) {
	reason := req.Reason
	return s.appendEntry(ctx, walletID, actor, entrySpec{
		amount:      req.Amount,
		kind:        domain.KindManualDeposit,
		description: "Manual adjustment",
		reason:      &reason,
		auditAction: domain.AuditActionManualDeposit,
		adminOnly:   true,
	})
}

// entrySpec describes one ledger write shared by the deposit family.
type entrySpec struct {
	amount      int64
	kind        domain.TransactionKind
	description string
	reason      *string
	auditAction string
	adminOnly   bool
}

func (s *walletService) appendEntry(ctx context.Context, walletID string, actor domain.Actor, spec entrySpec) (*dto.TransactionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if spec.adminOnly {
		if !isAdmin(actor) {
			return nil, apperrors.ErrForbidden
		}
	} else if !canAccessWallet(actor, *wallet) {
		return nil, apperrors.ErrForbidden
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		WalletID:      walletID,
		Amount:        spec.amount,
		Kind:          spec.kind,
		Description:   spec.description,
		Reason:        spec.reason,
		CreatedAt:     time.Now(),
		CreatedBy:     actor.UserID,
	}
	saved, err := s.walletRepo.AppendTransaction(ctx, txn)
	if err != nil {
		return nil, err
	}

	newBalance, err := s.walletRepo.GetBalance(ctx, walletID)
	if err != nil {
		logger.Error("Failed to read balance after ledger write", slog.String("wallet_id", walletID), slog.String("error", err.Error()))
		return nil, err
	}

	metadata := map[string]string{"kind": string(spec.kind)}
	if spec.reason != nil {
		metadata["reason"] = *spec.reason
	}
	amount := spec.amount
	auditWarning := s.auditSvc.Record(ctx, actor.UserID, spec.auditAction, "wallet", walletID, &amount, metadata) != nil

	logger.Info("Ledger entry appended",
		slog.String("wallet_id", walletID),
		slog.String("transaction_id", saved.TransactionID),
		slog.String("kind", string(spec.kind)),
		slog.Int64("amount", spec.amount),
	)
	return &dto.TransactionResult{
		Transaction:  dto.ToTransactionResponse(*saved),
		NewBalance:   newBalance,
		AuditWarning: auditWarning,
	}, nil
}
