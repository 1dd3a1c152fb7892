package domain

// UserRole distinguishes the three actor kinds of the platform.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Actor identifies who is performing an operation. The payment services do
// their own capability checks from the role instead of trusting the HTTP
// layer to have done so.
type Actor struct {
	UserID string
	Role   UserRole
}

// User is the minimal account record the payment core needs: identity,
// credentials for the auth layer, and the role used for capability checks.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
}
