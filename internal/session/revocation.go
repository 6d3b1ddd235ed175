package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList tracks session ids invalidated before their natural
// expiry. Tokens are stateless, so logout records the id here and the
// gate rejects it until the original expiry passes.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList constructs a RevocationList backed by redis.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke marks a session id as dead for the remaining session lifetime.
func (l *RevocationList) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return l.client.Set(ctx, revocationKey(sessionID), "1", ttl).Err()
}

// IsRevoked reports whether the session id was revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	n, err := l.client.Exists(ctx, revocationKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revocationKey(id string) string {
	return "session:revoked:" + id
}
