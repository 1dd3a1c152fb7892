package models

import "time"

// AuditLogEntry is the database representation of one append-only audit record.
// Metadata is stored as a jsonb column.
type AuditLogEntry struct {
	AuditID    string    `db:"audit_id"`
	ActorID    string    `db:"actor_id"`
	Action     string    `db:"action"`
	TargetType string    `db:"target_type"`
	TargetID   string    `db:"target_id"`
	Amount     *int64    `db:"amount"`
	Metadata   []byte    `db:"metadata"`
	CreatedAt  time.Time `db:"created_at"`
}
