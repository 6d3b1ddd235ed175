package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-web/console-core/internal/shared"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for roles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const roleColumns = `id, name, display_name, description, permissions, is_system, created_at, updated_by`

// Insert stores a new role. A normalized-name collision yields ErrDuplicateName.
func (r *Repository) Insert(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, display_name, description, permissions, is_system, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+roleColumns,
		role.Name, role.DisplayName, role.Description, role.Permissions, role.IsSystem, role.UpdatedBy)
	stored, err := scanRole(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Role{}, shared.ErrDuplicateName
		}
		return Role{}, storageErr("insert", err)
	}
	return stored, nil
}

// SeedInsert stores a system role unless one with the same name exists.
func (r *Repository) SeedInsert(ctx context.Context, role Role) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO roles (name, display_name, description, permissions, is_system, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING`,
		role.Name, role.DisplayName, role.Description, role.Permissions, role.IsSystem, role.UpdatedBy)
	if err != nil {
		return storageErr("seed", err)
	}
	return nil
}

// Replace overwrites every mutable field of the role row.
func (r *Repository) Replace(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE roles
		SET display_name = $2, description = $3, permissions = $4, updated_by = $5
		WHERE id = $1
		RETURNING `+roleColumns,
		role.ID, role.DisplayName, role.Description, role.Permissions, role.UpdatedBy)
	stored, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, storageErr("replace", err)
	}
	return stored, nil
}

// Delete removes a role by id. Returns ErrNotFound if nothing was deleted.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Get fetches a role by id.
func (r *Repository) Get(ctx context.Context, id int64) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, storageErr("get", err)
	}
	return role, nil
}

// GetByName fetches a role by its normalized name.
func (r *Repository) GetByName(ctx context.Context, name string) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, storageErr("get by name", err)
	}
	return role, nil
}

// List returns all roles ordered by id.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY id`)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()
	var out []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, storageErr("list scan", err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list rows", err)
	}
	return out, nil
}

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Name, &role.DisplayName, &role.Description,
		&role.Permissions, &role.IsSystem, &role.CreatedAt, &role.UpdatedBy)
	return role, err
}

func storageErr(op string, err error) error {
	return fmt.Errorf("roles: %s: %w: %v", op, shared.ErrStorageUnavailable, err)
}
