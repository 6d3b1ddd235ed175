// Package authz centralizes every permission decision so UI-visible
// actions and server-enforced actions can never diverge.
package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/meridian-web/console-core/internal/permissions"
	"github.com/meridian-web/console-core/internal/session"
	"github.com/meridian-web/console-core/internal/shared"
)

// RoleResolver answers which permissions a role name carries.
type RoleResolver interface {
	ResolvePermissions(ctx context.Context, roleName string) ([]string, error)
}

// Revocations reports whether a session id was invalidated at logout.
type Revocations interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Gate resolves tokens into sessions and answers permission questions.
type Gate struct {
	codec   *session.Codec
	roles   RoleResolver
	revoked Revocations
	logger  *slog.Logger
	group   singleflight.Group
	now     func() time.Time
}

// NewGate constructs a Gate. revoked may be nil when revocation
// checking is not wired (tests).
func NewGate(codec *session.Codec, roles RoleResolver, revoked Revocations, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{codec: codec, roles: roles, revoked: revoked, logger: logger, now: time.Now}
}

// Authenticate resolves a raw token into a session. Decode failure,
// expiry and revocation all yield ErrUnauthenticated; callers should
// clear the cookie and send the user back to login.
func (g *Gate) Authenticate(ctx context.Context, rawToken string) (session.Session, error) {
	sess, err := g.codec.Decode(rawToken)
	if err != nil {
		return session.Session{}, shared.ErrUnauthenticated
	}
	if g.codec.IsExpired(sess, g.now()) {
		return session.Session{}, shared.ErrUnauthenticated
	}
	if g.revoked != nil && sess.ID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, sess.ID)
		if err != nil {
			// Revocation storage being down must not lock every
			// operator out; expiry still bounds the exposure.
			g.logger.Warn("revocation check failed", slog.Any("error", err))
		} else if revoked {
			return session.Session{}, shared.ErrUnauthenticated
		}
	}
	return sess, nil
}

// HasPermission reports whether the session's role grants the
// permission. A role that no longer resolves fails closed: no
// permissions, no error. Storage failures surface as
// ErrStorageUnavailable so callers retry instead of denying.
func (g *Gate) HasPermission(ctx context.Context, sess session.Session, permissionID string) (bool, error) {
	perms, err := g.resolve(ctx, sess.Role)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	for _, p := range perms {
		if p == permissions.Wildcard || p == permissionID {
			return true, nil
		}
	}
	return false, nil
}

// RequireSuperAdmin reports whether the session's role is the wildcard
// role. Only such roles may read the activity log.
func (g *Gate) RequireSuperAdmin(ctx context.Context, sess session.Session) (bool, error) {
	perms, err := g.resolve(ctx, sess.Role)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return len(perms) == 1 && perms[0] == permissions.Wildcard, nil
}

// resolve collapses concurrent lookups of the same role into one
// storage round-trip.
func (g *Gate) resolve(ctx context.Context, roleName string) ([]string, error) {
	if roleName == "" {
		return nil, shared.ErrNotFound
	}
	v, err, _ := g.group.Do(roleName, func() (any, error) {
		// The lookup is shared by every collapsed caller, so it must
		// not die with whichever request happened to start it.
		return g.roles.ResolvePermissions(context.WithoutCancel(ctx), roleName)
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		if errors.Is(err, shared.ErrStorageUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}
	return v.([]string), nil
}
