package models

// User represents a row of the users table.
type User struct {
	UserID string `db:"user_id"`
	Email  string `db:"email"`
	Name   string `db:"name"`
	AuditFields
}
