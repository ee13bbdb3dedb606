package models

import (
	"database/sql"
	"time"
)

// AuditFields holds the audit columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// Member is the row shape of the members table.
type Member struct {
	MemberID     string         `db:"member_id"`
	Name         string         `db:"name"`
	PasswordHash sql.NullString `db:"password_hash"` // NULL for members who cannot log in
	IsAdmin      bool           `db:"is_admin"`
	AuditFields
}
