package auth

import "time"

// Account represents an admin operator account.
type Account struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
