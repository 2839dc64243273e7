package state

import (
	"context"
	"time"
)

// Store maps a user identifier to their Session.
//
// Get never fails to produce a session: unknown users receive an idle
// one. Implementations must serialize access per user; the bot router
// delivers one user's updates in arrival order, so no cross-call
// coordination beyond that is required.
type Store interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Set(ctx context.Context, userID int64, s Session) error
	Clear(ctx context.Context, userID int64) error
}

// expired reports whether a session became stale under the given TTL.
// TTL <= 0 disables expiry.
func expired(s Session, ttl time.Duration) bool {
	if ttl <= 0 || s.Idle() {
		return false
	}
	if s.UpdatedAt.IsZero() {
		return false
	}
	return time.Since(s.UpdatedAt) > ttl
}
