package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"email-assistant/internal/store"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSettings(ctx context.Context, userID string) (*store.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Settings), args.Error(1)
}

func (m *MockCache) SetSettings(ctx context.Context, userID string, s store.Settings, ttl time.Duration) error {
	args := m.Called(ctx, userID, s, ttl)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
