package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-web/console-core/internal/shared"
)

// Repository provides PostgreSQL backed persistence for accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByUsername fetches an account by its unique username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, name, password_hash, role_name, is_active, created_at, updated_at
		FROM admin_accounts WHERE username = $1`, username)
	var acc Account
	err := row.Scan(&acc.ID, &acc.Username, &acc.Email, &acc.Name, &acc.PasswordHash,
		&acc.Role, &acc.IsActive, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find account: %w: %v", shared.ErrStorageUnavailable, err)
	}
	return &acc, nil
}
