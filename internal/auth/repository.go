package auth

import "context"

// RepositoryPort defines data access methods for admin accounts.
type RepositoryPort interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
}
