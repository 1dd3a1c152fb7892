package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/coursepay/lms_payments_backend/internal/apperrors"
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	portssvc "github.com/coursepay/lms_payments_backend/internal/core/ports/services"
	"github.com/coursepay/lms_payments_backend/internal/dto"
	"github.com/coursepay/lms_payments_backend/internal/middleware"
)

const (
	purchaseRetryAttempts = 3
	purchaseRetryBackoff  = 100 * time.Millisecond
)

// purchaseService orchestrates course purchases and refunds.
type purchaseService struct {
	purchaseRepo portsrepo.PurchaseRepositoryFacade
	walletRepo   portsrepo.WalletRepositoryFacade
	courseRepo   portsrepo.CourseRepositoryFacade
	auditSvc     portssvc.AuditSvcFacade
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(purchaseRepo portsrepo.PurchaseRepositoryFacade, walletRepo portsrepo.WalletRepositoryFacade, courseRepo portsrepo.CourseRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.PurchaseSvcFacade {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		walletRepo:   walletRepo,
		courseRepo:   courseRepo,
		auditSvc:     auditSvc,
	}
}

// Ensure purchaseService implements the portssvc.PurchaseSvcFacade interface
var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

func (s *purchaseService) GetPurchaseByID(ctx context.Context, purchaseID string, actor domain.Actor) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.StudentID != actor.UserID && !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}
	return purchase, nil
}

func (s *purchaseService) ListPurchasesByStudent(ctx context.Context, studentID string, actor domain.Actor, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error) {
	if studentID != actor.UserID && !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}

	limit := normalizeLimit(params.Limit)
	purchases, nextToken, err := s.purchaseRepo.ListPurchasesByStudent(ctx, studentID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, dto.ToPurchaseResponse(p))
	}
	return &dto.ListPurchasesResponse{Purchases: out, NextToken: nextToken}, nil
}

// PurchaseCourse buys a course for the acting student. The repository runs
// the money movement as one serializable unit; this layer validates up front,
// retries on lock contention and records the audit entry after commit.
func (s *purchaseService) PurchaseCourse(ctx context.Context, courseID string, actor domain.Actor) (*dto.PurchaseResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.Role != domain.RoleStudent {
		return nil, apperrors.ErrForbidden
	}

	wallet, err := ensureStudentWallet(ctx, s.walletRepo, actor.UserID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, fmt.Errorf("%w: course is not published", apperrors.ErrValidation)
	}

	// Cheap pre-check; the repository re-checks under the row locks.
	if _, err := s.purchaseRepo.FindActivePurchase(ctx, actor.UserID, courseID); err == nil {
		return nil, apperrors.ErrAlreadyPurchased
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	params := portsrepo.ExecutePurchaseParams{
		PurchaseID:    uuid.NewString(),
		TransactionID: uuid.NewString(),
		WalletID:      wallet.WalletID,
		StudentID:     actor.UserID,
		CourseID:      courseID,
		ActorID:       actor.UserID,
		Now:           time.Now(),
	}

	var purchase *domain.Purchase
	err = retryOnConflict(ctx, logger, "purchase", func() error {
		var execErr error
		purchase, execErr = s.purchaseRepo.ExecutePurchase(ctx, params)
		return execErr
	})
	if err != nil {
		return nil, err
	}

	newBalance, err := s.walletRepo.GetBalance(ctx, wallet.WalletID)
	if err != nil {
		logger.Error("Failed to read balance after purchase", slog.String("wallet_id", wallet.WalletID), slog.String("error", err.Error()))
		return nil, err
	}

	debit := -purchase.PriceAtPurchase
	auditWarning := s.auditSvc.Record(ctx, actor.UserID, domain.AuditActionPurchase, "purchase", purchase.PurchaseID, &debit, map[string]string{
		"course_id": courseID,
		"wallet_id": wallet.WalletID,
		"price":     strconv.FormatInt(purchase.PriceAtPurchase, 10),
	}) != nil

	logger.Info("Course purchased",
		slog.String("purchase_id", purchase.PurchaseID),
		slog.String("course_id", courseID),
		slog.Int64("price", purchase.PriceAtPurchase),
	)
	return &dto.PurchaseResult{
		Purchase:     dto.ToPurchaseResponse(*purchase),
		NewBalance:   newBalance,
		AuditWarning: auditWarning,
	}, nil
}

// RefundPurchase reverses a purchase at the recorded price. Admin only.
func (s *purchaseService) RefundPurchase(ctx context.Context, purchaseID string, req dto.RefundPurchaseRequest, actor domain.Actor) (*dto.RefundResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !isAdmin(actor) {
		return nil, apperrors.ErrForbidden
	}

	transactionID := uuid.NewString()
	now := time.Now()

	var txn *domain.Transaction
	err := retryOnConflict(ctx, logger, "refund", func() error {
		var execErr error
		txn, execErr = s.purchaseRepo.ExecuteRefund(ctx, purchaseID, transactionID, req.Reason, actor.UserID, now)
		return execErr
	})
	if err != nil {
		return nil, err
	}

	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	newBalance, err := s.walletRepo.GetBalance(ctx, txn.WalletID)
	if err != nil {
		logger.Error("Failed to read balance after refund", slog.String("wallet_id", txn.WalletID), slog.String("error", err.Error()))
		return nil, err
	}

	credit := txn.Amount
	metadata := map[string]string{
		"course_id": purchase.CourseID,
		"wallet_id": txn.WalletID,
	}
	if req.Reason != nil {
		metadata["reason"] = *req.Reason
	}
	auditWarning := s.auditSvc.Record(ctx, actor.UserID, domain.AuditActionRefund, "purchase", purchaseID, &credit, metadata) != nil

	logger.Info("Purchase refunded",
		slog.String("purchase_id", purchaseID),
		slog.Int64("amount", txn.Amount),
	)
	return &dto.RefundResult{
		Purchase:     dto.ToPurchaseResponse(*purchase),
		NewBalance:   newBalance,
		AuditWarning: auditWarning,
	}, nil
}

// retryOnConflict runs op, retrying a bounded number of times when the
// repository reports lock or serialization contention.
func retryOnConflict(ctx context.Context, logger *slog.Logger, opName string, op func() error) error {
	var err error
	for attempt := 1; attempt <= purchaseRetryAttempts; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, apperrors.ErrConcurrencyConflict) {
			return err
		}
		logger.Warn("Retrying after concurrency conflict",
			slog.String("operation", opName),
			slog.Int("attempt", attempt),
		)
		if attempt < purchaseRetryAttempts {
			select {
			case <-time.After(purchaseRetryBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}
