package cache

import (
	"context"
	"time"

	"email-assistant/internal/store"
)

// NoOpCache is a cache implementation that does nothing.
// Used as a fallback when Redis is unavailable - all operations succeed
// but no actual caching occurs (always cache miss).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetSettings always returns nil (cache miss)
func (c *NoOpCache) GetSettings(ctx context.Context, userID string) (*store.Settings, error) {
	return nil, nil
}

// SetSettings does nothing and always succeeds
func (c *NoOpCache) SetSettings(ctx context.Context, userID string, s store.Settings, ttl time.Duration) error {
	return nil
}

// Invalidate does nothing and always succeeds
func (c *NoOpCache) Invalidate(ctx context.Context, userID string) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
