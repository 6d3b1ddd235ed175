// Command seed creates the console schema and a first super-admin
// account for local development.
package main

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-web/console-core/internal/app"
	"github.com/meridian-web/console-core/internal/platform/db"
	"github.com/meridian-web/console-core/internal/roles"
)

const schema = `
CREATE TABLE IF NOT EXISTS roles (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	permissions TEXT[] NOT NULL DEFAULT '{}',
	is_system BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS admin_accounts (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	role_name TEXT NOT NULL REFERENCES roles (name),
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS activity_logs (
	id UUID PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL,
	user_email TEXT NOT NULL DEFAULT '',
	user_role TEXT NOT NULL,
	action TEXT NOT NULL,
	action_label TEXT NOT NULL DEFAULT '',
	details JSONB
);

CREATE INDEX IF NOT EXISTS activity_logs_occurred_at_idx ON activity_logs (occurred_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS activity_logs_action_idx ON activity_logs (action text_pattern_ops);
`

func main() {
	logger := slog.Default()
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error("apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	rolesService := roles.NewService(roles.NewRepository(pool), logger)
	if err := rolesService.Seed(ctx); err != nil {
		logger.Error("seed system roles", slog.Any("error", err))
		os.Exit(1)
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme-now"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("error", err))
		os.Exit(1)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO admin_accounts (username, email, name, password_hash, role_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING`,
		"admin", "admin@example.com", "Administrator", string(hash), roles.SuperAdminRoleName)
	if err != nil {
		logger.Error("seed admin account", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("seed complete")
}
