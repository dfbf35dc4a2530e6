package domain

// User represents an application user able to authenticate against the API.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // bcrypt hash, never serialized
	IsDeleted    bool   `json:"isDeleted"`
	AuditFields
}
