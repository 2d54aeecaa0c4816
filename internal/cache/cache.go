package cache

import (
	"context"
	"time"

	"email-assistant/internal/store"
)

// Cache keeps recently read user settings close to the request path.
type Cache interface {
	// GetSettings retrieves cached settings for a user
	// Returns nil if not found
	GetSettings(ctx context.Context, userID string) (*store.Settings, error)

	// SetSettings stores settings with TTL
	SetSettings(ctx context.Context, userID string, s store.Settings, ttl time.Duration) error

	// Invalidate removes the cached settings of a user
	Invalidate(ctx context.Context, userID string) error

	// Close closes the cache connection
	Close() error
}

const settingsKeyPrefix = "assistant:settings:"

// Key returns the cache key used for a user's settings.
func Key(userID string) string {
	return settingsKeyPrefix + userID
}
