package roles

import "github.com/meridian-web/console-core/internal/permissions"

// SuperAdminRoleName is the seeded wildcard role. It can never be
// deleted and its permission set can never be edited.
const SuperAdminRoleName = "super_admin"

// ContentAdminRoleName is the seeded content-editing role. Common
// names like "editor" stay free for operator-created roles.
const ContentAdminRoleName = "content_admin"

// builtinRoles are the system roles guaranteed to exist after first
// boot. Seeding is keyed by name so repeated boots never duplicate them.
var builtinRoles = []Role{
	{
		Name:        SuperAdminRoleName,
		DisplayName: "Super Admin",
		Description: "Full access to every console feature",
		Permissions: []string{permissions.Wildcard},
		IsSystem:    true,
	},
	{
		Name:        ContentAdminRoleName,
		DisplayName: "Content Admin",
		Description: "Content editing: banners, SEO and pages",
		Permissions: []string{permissions.PermBanners, permissions.PermSEO, permissions.PermPages},
		IsSystem:    true,
	},
}

var builtinByName = func() map[string]Role {
	m := make(map[string]Role, len(builtinRoles))
	for _, r := range builtinRoles {
		m[r.Name] = r
	}
	return m
}()

// applyDefaults is the single source of truth for merge precedence
// between persisted role records and built-in defaults: a persisted
// field wins, an empty one falls back to the default for seeded roles.
func applyDefaults(r Role) Role {
	def, ok := builtinByName[r.Name]
	if !ok {
		return r
	}
	if r.DisplayName == "" {
		r.DisplayName = def.DisplayName
	}
	if r.Description == "" {
		r.Description = def.Description
	}
	if len(r.Permissions) == 0 {
		r.Permissions = append([]string(nil), def.Permissions...)
	}
	return r
}
