package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind a session cookie.
type Session struct {
	UserID    string `json:"uid"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Store keeps login sessions keyed by an opaque id.
type Store interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

func newSession(userID string, ttl time.Duration) (string, Session) {
	now := time.Now()
	return uuid.NewString(), Session{
		UserID:    userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

func key(id string) string         { return fmt.Sprintf("lending:sess:%s", id) }
func userSetKey(uid string) string { return fmt.Sprintf("lending:user_sessions:%s", uid) }
