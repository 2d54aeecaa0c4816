package store

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetSettings(ctx context.Context, userID string) (Settings, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(Settings), args.Error(1)
}

func (m *MockStore) SaveSettings(ctx context.Context, userID string, s Settings) error {
	args := m.Called(ctx, userID, s)
	return args.Error(0)
}

func (m *MockStore) SaveRecord(ctx context.Context, rec Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) ListRecords(ctx context.Context, userID string, types []RequestType, limit int) ([]Record, error) {
	args := m.Called(ctx, userID, types, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}
