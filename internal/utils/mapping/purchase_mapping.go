package mapping

import (
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/models"
)

// ToModelPurchase converts a domain Purchase to a model Purchase
func ToModelPurchase(d domain.Purchase) models.Purchase {
	return models.Purchase{
		PurchaseID:      d.PurchaseID,
		StudentID:       d.StudentID,
		CourseID:        d.CourseID,
		TransactionID:   d.TransactionID,
		PriceAtPurchase: d.PriceAtPurchase,
		PurchasedAt:     d.PurchasedAt,
		Refunded:        d.Refunded,
		RefundedAt:      d.RefundedAt,
		RefundReason:    d.RefundReason,
	}
}

// ToDomainPurchase converts a model Purchase to a domain Purchase
func ToDomainPurchase(m models.Purchase) domain.Purchase {
	return domain.Purchase{
		PurchaseID:      m.PurchaseID,
		StudentID:       m.StudentID,
		CourseID:        m.CourseID,
		TransactionID:   m.TransactionID,
		PriceAtPurchase: m.PriceAtPurchase,
		PurchasedAt:     m.PurchasedAt,
		Refunded:        m.Refunded,
		RefundedAt:      m.RefundedAt,
		RefundReason:    m.RefundReason,
	}
}

// ToModelRechargeCode converts a domain RechargeCode to a model RechargeCode
func ToModelRechargeCode(d domain.RechargeCode) models.RechargeCode {
	return models.RechargeCode{
		CodeID:       d.CodeID,
		Code:         d.Code,
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
		IsUsed:       d.IsUsed,
		UsedBy:       d.UsedBy,
		UsedAt:       d.UsedAt,
		ExpiresAt:    d.ExpiresAt,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ToDomainRechargeCode converts a model RechargeCode to a domain RechargeCode
func ToDomainRechargeCode(m models.RechargeCode) domain.RechargeCode {
	return domain.RechargeCode{
		CodeID:       m.CodeID,
		Code:         m.Code,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		IsUsed:       m.IsUsed,
		UsedBy:       m.UsedBy,
		UsedAt:       m.UsedAt,
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}
