package services

import "github.com/coursepay/lms_payments_backend/internal/core/domain"

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// isStaff reports whether the actor may operate on resources they do not own.
func isStaff(actor domain.Actor) bool {
	return actor.Role == domain.RoleAdmin || actor.Role == domain.RoleTeacher
}

// isAdmin reports whether the actor holds the admin role.
func isAdmin(actor domain.Actor) bool {
	return actor.Role == domain.RoleAdmin
}

// canAccessWallet reports whether the actor may read or move money in the
// given wallet: the owning student, or staff.
func canAccessWallet(actor domain.Actor, wallet domain.Wallet) bool {
	return actor.UserID == wallet.StudentID || isStaff(actor)
}

// normalizeLimit clamps a caller-supplied page size to sane bounds.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
