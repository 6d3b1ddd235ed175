// Package permissions defines the static catalog of admin capabilities.
package permissions

// Wildcard grants every permission regardless of catalog growth.
const Wildcard = "*"

// Permission ids gating console features.
const (
	PermBanners     = "banners"
	PermSEO         = "seo"
	PermPages       = "pages"
	PermCalculators = "calculators"
	PermGames       = "games"
	PermUsers       = "users"
	PermRoles       = "roles"
	PermLogs        = "logs"
)

// Permission describes an atomic capability exposed to role editors.
type Permission struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// The catalog is add-only over the product's lifetime: removing an id
// would silently strip it from persisted roles that reference it.
var catalog = []Permission{
	{ID: PermBanners, Label: "Banners", Description: "Manage promotional banners"},
	{ID: PermSEO, Label: "SEO", Description: "Edit SEO metadata and sitemaps"},
	{ID: PermPages, Label: "Pages", Description: "Edit static pages and content blocks"},
	{ID: PermCalculators, Label: "Calculators", Description: "Configure calculator tools"},
	{ID: PermGames, Label: "Games", Description: "Configure games and quizzes"},
	{ID: PermUsers, Label: "Users", Description: "Manage admin accounts"},
	{ID: PermRoles, Label: "Roles", Description: "Manage roles and permissions"},
	{ID: PermLogs, Label: "Activity Log", Description: "View the admin activity log"},
}

var index = func() map[string]struct{} {
	m := make(map[string]struct{}, len(catalog))
	for _, p := range catalog {
		m[p.ID] = struct{}{}
	}
	return m
}()

// List returns the catalog in its defined order.
func List() []Permission {
	out := make([]Permission, len(catalog))
	copy(out, catalog)
	return out
}

// Exists reports whether the id names a catalog permission.
// The wildcard is not a catalog entry.
func Exists(id string) bool {
	_, ok := index[id]
	return ok
}
