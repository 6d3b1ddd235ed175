package authz

import (
	"context"

	"github.com/meridian-web/console-core/internal/session"
)

// Action is a candidate menu entry or API operation tagged with what it
// requires. The same gate backs both UI filtering and enforcement:
// what you can see is what you can do.
type Action struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Permission     string `json:"permission,omitempty"`
	SuperAdminOnly bool   `json:"superAdminOnly,omitempty"`
}

// VisibleActions filters candidates down to what the session may
// perform. Untagged actions are visible to any authenticated session.
func (g *Gate) VisibleActions(ctx context.Context, sess session.Session, candidates []Action) ([]Action, error) {
	visible := make([]Action, 0, len(candidates))
	for _, action := range candidates {
		if action.SuperAdminOnly {
			ok, err := g.RequireSuperAdmin(ctx, sess)
			if err != nil {
				return nil, err
			}
			if ok {
				visible = append(visible, action)
			}
			continue
		}
		if action.Permission == "" {
			visible = append(visible, action)
			continue
		}
		ok, err := g.HasPermission(ctx, sess, action.Permission)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, action)
		}
	}
	return visible, nil
}
