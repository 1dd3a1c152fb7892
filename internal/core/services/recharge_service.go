package services

import (
	"bytes"
	"context"
	"encoding/csv"
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
	"github.com/coursepay/lms_payments_backend/internal/utils"
)

// rechargeService issues and redeems single-use top-up codes.
type rechargeService struct {
	rechargeRepo portsrepo.RechargeCodeRepositoryFacade
	walletRepo   portsrepo.WalletRepositoryFacade
	auditSvc     portssvc.AuditSvcFacade
}

// NewRechargeService creates a new RechargeService.
func NewRechargeService(rechargeRepo portsrepo.RechargeCodeRepositoryFacade, walletRepo portsrepo.WalletRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.RechargeCodeSvcFacade {
	return &rechargeService{
		rechargeRepo: rechargeRepo,
		walletRepo:   walletRepo,
		auditSvc:     auditSvc,
	}
}

// Ensure rechargeService implements the portssvc.RechargeCodeSvcFacade interface
var _ portssvc.RechargeCodeSvcFacade = (*rechargeService)(nil)

func (s *rechargeService) ListCodes(ctx context.Context, actor domain.Actor, params dto.ListCodesParams) (*dto.ListCodesResponse, error) {
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}

	limit := normalizeLimit(params.Limit)
	codes, nextToken, err := s.rechargeRepo.ListCodes(ctx, params.OnlyUnused, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RechargeCodeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, dto.ToRechargeCodeResponse(c))
	}
	return &dto.ListCodesResponse{Codes: out, NextToken: nextToken}, nil
}

// ExportCodesCSV renders all unused codes as CSV for printing or offline
// distribution.
func (s *rechargeService) ExportCodesCSV(ctx context.Context, actor domain.Actor) ([]byte, error) {
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"code", "amount", "currency", "expires_at"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	var nextToken *string
	for {
		codes, token, err := s.rechargeRepo.ListCodes(ctx, true, maxPageLimit, nextToken)
		if err != nil {
			return nil, err
		}
		for _, c := range codes {
			expires := ""
			if c.ExpiresAt != nil {
				expires = c.ExpiresAt.Format(time.RFC3339)
			}
			record := []string{c.Code, utils.FormatMinorUnits(c.Amount, c.CurrencyCode), c.CurrencyCode, expires}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		if token == nil {
			break
		}
		nextToken = token
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateCodes issues a batch of codes of equal value. Staff only.
func (s *rechargeService) GenerateCodes(ctx context.Context, req dto.GenerateCodesRequest, actor domain.Actor) (*dto.GenerateCodesResponse, error) {
	if !isStaff(actor) {
		return nil, apperrors.ErrForbidden
	}
	now := time.Now()
	if req.ExpiresAt != nil && req.ExpiresAt.Before(now) {
		return nil, fmt.Errorf("%w: expiry must be in the future", apperrors.ErrValidation)
	}

	codes := make([]domain.RechargeCode, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		codeStr, err := utils.GenerateRechargeCode(req.Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}
		codes = append(codes, domain.RechargeCode{
			CodeID:       uuid.NewString(),
			Code:         codeStr,
			Amount:       req.Amount,
			CurrencyCode: req.CurrencyCode,
			ExpiresAt:    req.ExpiresAt,
			CreatedAt:    now,
			CreatedBy:    actor.UserID,
		})
	}
	if err := s.rechargeRepo.SaveCodes(ctx, codes); err != nil {
		return nil, err
	}

	amount := req.Amount
	auditWarning := s.auditSvc.Record(ctx, actor.UserID, domain.AuditActionCodesGenerated, "recharge_code", "batch", &amount, map[string]string{
		"count":    strconv.Itoa(req.Count),
		"currency": req.CurrencyCode,
	}) != nil
	if auditWarning {
		middleware.GetLoggerFromCtx(ctx).Warn("Code batch issued without audit entry", slog.Int("count", req.Count))
	}

	out := make([]dto.RechargeCodeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, dto.ToRechargeCodeResponse(c))
	}
	middleware.GetLoggerFromCtx(ctx).Info("Recharge codes generated",
		slog.Int("count", req.Count),
		slog.Int64("amount", req.Amount),
	)
	return &dto.GenerateCodesResponse{Codes: out}, nil
}

// RedeemCode credits the acting student's wallet with the code value. The
// repository guarantees a code is redeemed exactly once.
func (s *rechargeService) RedeemCode(ctx context.Context, req dto.RedeemCodeRequest, actor domain.Actor) (*dto.RedeemResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.Role != domain.RoleStudent {
		return nil, apperrors.ErrForbidden
	}

	wallet, err := ensureStudentWallet(ctx, s.walletRepo, actor.UserID)
	if err != nil {
		return nil, err
	}

	code, err := s.rechargeRepo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if code.CurrencyCode != wallet.CurrencyCode {
		return nil, fmt.Errorf("%w: code currency %s does not match wallet currency %s", apperrors.ErrValidation, code.CurrencyCode, wallet.CurrencyCode)
	}

	txn, err := s.rechargeRepo.RedeemCode(ctx, portsrepo.RedeemCodeParams{
		Code:          req.Code,
		WalletID:      wallet.WalletID,
		StudentID:     actor.UserID,
		TransactionID: uuid.NewString(),
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}

	newBalance, err := s.walletRepo.GetBalance(ctx, wallet.WalletID)
	if err != nil {
		logger.Error("Failed to read balance after redemption", slog.String("wallet_id", wallet.WalletID), slog.String("error", err.Error()))
		return nil, err
	}

	amount := txn.Amount
	auditWarning := s.auditSvc.Record(ctx, actor.UserID, domain.AuditActionRechargeUsed, "recharge_code", code.CodeID, &amount, map[string]string{
		"wallet_id": wallet.WalletID,
	}) != nil

	logger.Info("Recharge code redeemed",
		slog.String("code_id", code.CodeID),
		slog.Int64("amount", txn.Amount),
	)
	return &dto.RedeemResult{
		Transaction:  dto.ToTransactionResponse(*txn),
		NewBalance:   newBalance,
		AuditWarning: auditWarning,
	}, nil
}
