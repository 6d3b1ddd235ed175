package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-web/console-core/internal/shared"
)

// Repository provides PostgreSQL backed persistence for the log.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends one entry.
func (r *Repository) Insert(ctx context.Context, entry Entry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("activity: encode details: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO activity_logs (id, occurred_at, user_id, user_name, user_email, user_role, action, action_label, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.OccurredAt, entry.UserID, entry.UserName, entry.UserEmail,
		entry.UserRole, entry.Action, entry.ActionLabel, details)
	if err != nil {
		return fmt.Errorf("activity: insert: %w: %v", shared.ErrStorageUnavailable, err)
	}
	return nil
}

// List returns entries newest first. Re-querying yields a fresh
// consistent snapshot.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	var (
		clauses []string
		args    []any
	)
	if prefix := strings.TrimSpace(filter.ActionPrefix); prefix != "" {
		args = append(args, prefix+"%")
		clauses = append(clauses, fmt.Sprintf("action LIKE $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(user_name) LIKE $%d OR LOWER(user_email) LIKE $%d OR LOWER(action_label) LIKE $%d OR LOWER(details::text) LIKE $%d)",
			n, n, n, n))
	}
	query := `SELECT id, occurred_at, user_id, user_name, user_email, user_role, action, action_label, details FROM activity_logs`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("activity: list: %w: %v", shared.ErrStorageUnavailable, err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var (
			entry   Entry
			details []byte
		)
		if err := rows.Scan(&entry.ID, &entry.OccurredAt, &entry.UserID, &entry.UserName,
			&entry.UserEmail, &entry.UserRole, &entry.Action, &entry.ActionLabel, &details); err != nil {
			return nil, fmt.Errorf("activity: scan: %w: %v", shared.ErrStorageUnavailable, err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("activity: decode details: %w", err)
			}
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity: rows: %w: %v", shared.ErrStorageUnavailable, err)
	}
	return out, nil
}
