package activity

import "time"

// Entry is one immutable record of an administrative action. The actor
// fields are a snapshot taken at write time and are never re-resolved,
// so historical entries keep the role the actor held back then.
type Entry struct {
	ID          string         `json:"id"`
	OccurredAt  time.Time      `json:"timestamp"`
	UserID      string         `json:"userId"`
	UserName    string         `json:"userName"`
	UserEmail   string         `json:"userEmail"`
	UserRole    string         `json:"userRole"`
	Action      string         `json:"action"`
	ActionLabel string         `json:"actionLabel"`
	Details     map[string]any `json:"details,omitempty"`
}

// Filter narrows a log query. Zero values mean "no constraint".
type Filter struct {
	ActionPrefix string
	Search       string
	Limit        int
}

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 500
)
