package models

// User is the database representation of an application user.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	IsDeleted    bool   `db:"is_deleted"`
	AuditFields
}
