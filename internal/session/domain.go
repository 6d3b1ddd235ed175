package session

import "time"

// Session holds the authenticated identity carried between requests.
// It is immutable once issued; logout and expiry end its life.
type Session struct {
	ID          string
	SubjectID   string
	Username    string
	Email       string
	Role        string
	DisplayName string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// New builds a session for the given identity with the provided lifetime.
// Timestamps are truncated to whole seconds so encoded tokens round-trip.
func New(id, subjectID, username, email, role, displayName string, now time.Time, ttl time.Duration) Session {
	issued := time.Unix(now.Unix(), 0)
	return Session{
		ID:          id,
		SubjectID:   subjectID,
		Username:    username,
		Email:       email,
		Role:        role,
		DisplayName: displayName,
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(ttl),
	}
}

// Remaining reports how long the session stays valid from now.
func (s Session) Remaining(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
