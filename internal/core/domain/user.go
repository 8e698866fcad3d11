package domain

// User represents an application user. Identity (login, sessions) lives with the
// external auth provider; this record only carries what the scheduler and the
// ownership model need.
type User struct {
	UserID string `json:"userID"` // Primary Key (UUID)
	Email  string `json:"email"`
	Name   string `json:"name"`
	AuditFields
}
