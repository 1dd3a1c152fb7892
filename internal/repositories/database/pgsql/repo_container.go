package pgsql

import (
	portsrepo "github.com/coursepay/lms_payments_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	walletRepo := newPgxWalletRepository(dbPool)
	purchaseRepo := newPgxPurchaseRepository(dbPool)
	rechargeCodeRepo := newPgxRechargeCodeRepository(dbPool)
	courseRepo := newPgxCourseRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		WalletRepo:       walletRepo,
		PurchaseRepo:     purchaseRepo,
		RechargeCodeRepo: rechargeCodeRepo,
		CourseRepo:       courseRepo,
		AuditRepo:        auditRepo,
		UserRepo:         userRepo,
	}
}
