package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/meridian-web/console-core/internal/permissions"
	"github.com/meridian-web/console-core/internal/shared"
)

// Service handles role business logic: validation, normalization and
// the system-role protections.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	writes *keyedMutex
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, writes: newKeyedMutex()}
}

// CreateInput carries the payload for a new custom role.
type CreateInput struct {
	Name        string
	DisplayName string
	Description string
	Permissions []string
}

// UpdateInput carries the editable fields of a role. Nil fields are
// left as stored; the record is still replaced as a whole.
type UpdateInput struct {
	DisplayName *string
	Description *string
	Permissions *[]string
}

// Seed ensures the built-in system roles exist. Keyed by role name and
// idempotent, so repeated boots never duplicate them.
func (s *Service) Seed(ctx context.Context) error {
	for _, role := range builtinRoles {
		if err := s.repo.SeedInsert(ctx, role); err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
	}
	return nil
}

// Create stores a new custom role. The name is normalized before the
// uniqueness check and is immutable afterwards.
func (s *Service) Create(ctx context.Context, in CreateInput, updatedBy string) (Role, error) {
	name := NormalizeName(in.Name)
	if name == "" {
		return Role{}, fmt.Errorf("roles: role name required")
	}
	perms, err := normalizePermissionSet(in.Permissions)
	if err != nil {
		return Role{}, err
	}
	unlock := s.writes.Lock("name:" + name)
	defer unlock()

	role := Role{
		Name:        name,
		DisplayName: in.DisplayName,
		Description: in.Description,
		Permissions: perms,
		IsSystem:    false,
		UpdatedBy:   updatedBy,
	}
	if role.DisplayName == "" {
		role.DisplayName = in.Name
	}
	stored, err := s.repo.Insert(ctx, role)
	if err != nil {
		return Role{}, err
	}
	s.logger.Info("role created", slog.String("role", stored.Name), slog.String("by", updatedBy))
	return applyDefaults(stored), nil
}

// Update replaces the editable fields of a role. The wildcard
// super-admin role is immutable; names never change.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput, updatedBy string) (Role, error) {
	unlock := s.writes.Lock("id:" + strconv.FormatInt(id, 10))
	defer unlock()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if current.IsSystem && current.IsWildcard() {
		return Role{}, fmt.Errorf("%w: %s cannot be edited", shared.ErrImmutable, current.Name)
	}

	next := current
	if in.DisplayName != nil {
		next.DisplayName = *in.DisplayName
	}
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.Permissions != nil {
		perms, err := normalizePermissionSet(*in.Permissions)
		if err != nil {
			return Role{}, err
		}
		next.Permissions = perms
	}
	next.UpdatedBy = updatedBy

	stored, err := s.repo.Replace(ctx, next)
	if err != nil {
		return Role{}, err
	}
	s.logger.Info("role updated", slog.String("role", stored.Name), slog.String("by", updatedBy))
	return applyDefaults(stored), nil
}

// Delete removes a custom role. Any system role is protected.
func (s *Service) Delete(ctx context.Context, id int64) error {
	unlock := s.writes.Lock("id:" + strconv.FormatInt(id, 10))
	defer unlock()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsSystem {
		return fmt.Errorf("%w: system role %s cannot be deleted", shared.ErrImmutable, current.Name)
	}
	return s.repo.Delete(ctx, id)
}

// Get returns a single role by id.
func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	return applyDefaults(role), nil
}

// List returns all roles in stable order.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Role, 0, len(stored))
	for _, role := range stored {
		out = append(out, applyDefaults(role))
	}
	return out, nil
}

// ResolvePermissions returns the permission set held by the named role.
func (s *Service) ResolvePermissions(ctx context.Context, roleName string) ([]string, error) {
	role, err := s.repo.GetByName(ctx, NormalizeName(roleName))
	if err != nil {
		return nil, err
	}
	return applyDefaults(role).Permissions, nil
}

// normalizePermissionSet validates ids against the catalog, dedupes and
// collapses any set containing the wildcard to exactly the wildcard.
func normalizePermissionSet(in []string) ([]string, error) {
	wildcard := false
	for _, id := range in {
		if id == permissions.Wildcard {
			wildcard = true
			continue
		}
		if !permissions.Exists(id) {
			return nil, fmt.Errorf("%w: %q", shared.ErrInvalidPermission, id)
		}
	}
	if wildcard {
		return []string{permissions.Wildcard}, nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
