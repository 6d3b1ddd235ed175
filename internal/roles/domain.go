package roles

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/meridian-web/console-core/internal/permissions"
)

// Role represents a named, reusable bundle of permissions.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	IsSystem    bool      `json:"isSystem"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
}

// IsWildcard reports whether the role authorizes everything.
func (r Role) IsWildcard() bool {
	return len(r.Permissions) == 1 && r.Permissions[0] == permissions.Wildcard
}

// Grants reports whether the role grants the given permission id.
func (r Role) Grants(permissionID string) bool {
	for _, p := range r.Permissions {
		if p == permissions.Wildcard || p == permissionID {
			return true
		}
	}
	return false
}

// NormalizeName canonicalizes a role name: unicode-normalized,
// lowercased, whitespace runs collapsed to single underscores.
// "Marketing  Manager" and "marketing_manager" name the same role.
func NormalizeName(name string) string {
	folded := strings.ToLower(norm.NFKC.String(name))
	return strings.Join(strings.Fields(folded), "_")
}
