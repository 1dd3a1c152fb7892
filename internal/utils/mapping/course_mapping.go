package mapping

import (
	"github.com/coursepay/lms_payments_backend/internal/core/domain"
	"github.com/coursepay/lms_payments_backend/internal/models"
)

// ToModelCourse converts a domain Course to a model Course
func ToModelCourse(d domain.Course) models.Course {
	return models.Course{
		CourseID:    d.CourseID,
		Title:       d.Title,
		Price:       d.Price,
		PriceLocked: d.PriceLocked,
		IsPublished: d.IsPublished,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCourse converts a model Course to a domain Course
func ToDomainCourse(m models.Course) domain.Course {
	return domain.Course{
		CourseID:    m.CourseID,
		Title:       m.Title,
		Price:       m.Price,
		PriceLocked: m.PriceLocked,
		IsPublished: m.IsPublished,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPriceChange converts a model PriceChange to a domain PriceChange
func ToDomainPriceChange(m models.PriceChange) domain.PriceChange {
	return domain.PriceChange{
		HistoryID:   m.HistoryID,
		CourseID:    m.CourseID,
		OldPrice:    m.OldPrice,
		NewPrice:    m.NewPrice,
		Reason:      m.Reason,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
