package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidToken indicates a token that cannot be decoded into a session.
// Callers must treat it as "unauthenticated", never as a hard fault.
var ErrInvalidToken = errors.New("session: invalid token")

// Codec converts sessions to and from the transport-safe cookie value.
// It is pure: no I/O, no clock, deterministic output for a given session.
type Codec struct{}

// NewCodec constructs a Codec.
func NewCodec() *Codec {
	return &Codec{}
}

type tokenPayload struct {
	SessionID   string `json:"sessionId,omitempty"`
	SubjectID   string `json:"subjectId"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
	IssuedAt    int64  `json:"issuedAt,omitempty"`
	ExpiresAt   int64  `json:"expiresAt,omitempty"`
}

// Encode serializes the session into a base64 token.
func (c *Codec) Encode(s Session) (string, error) {
	payload := tokenPayload{
		SessionID:   s.ID,
		SubjectID:   s.SubjectID,
		Username:    s.Username,
		Email:       s.Email,
		Role:        s.Role,
		DisplayName: s.DisplayName,
	}
	if !s.IssuedAt.IsZero() {
		payload.IssuedAt = s.IssuedAt.Unix()
	}
	if !s.ExpiresAt.IsZero() {
		payload.ExpiresAt = s.ExpiresAt.Unix()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode reverses Encode. It fails with ErrInvalidToken when the value is
// not parsable or misses a required field.
func (c *Codec) Decode(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidToken
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		// Tolerate tokens minted with standard padding.
		data, err = base64.StdEncoding.DecodeString(token)
		if err != nil {
			return Session{}, ErrInvalidToken
		}
	}
	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Session{}, ErrInvalidToken
	}
	if payload.SubjectID == "" || payload.Username == "" || payload.Role == "" {
		return Session{}, ErrInvalidToken
	}
	s := Session{
		ID:          payload.SessionID,
		SubjectID:   payload.SubjectID,
		Username:    payload.Username,
		Email:       payload.Email,
		Role:        payload.Role,
		DisplayName: payload.DisplayName,
	}
	if payload.IssuedAt != 0 {
		s.IssuedAt = time.Unix(payload.IssuedAt, 0)
	}
	if payload.ExpiresAt != 0 {
		s.ExpiresAt = time.Unix(payload.ExpiresAt, 0)
	}
	return s, nil
}

// IsExpired reports whether the session has passed its expiry.
// Sessions without an expiry never expire.
func (c *Codec) IsExpired(s Session, now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}
