package assistant

import (
	"context"

	"github.com/stretchr/testify/mock"

	"email-assistant/internal/store"
)

// MockSettingsReader is a mock implementation of SettingsReader using testify/mock.
type MockSettingsReader struct {
	mock.Mock
}

func (m *MockSettingsReader) Get(ctx context.Context, userID string) (store.Settings, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(store.Settings), args.Error(1)
}

// MockRecorder is a mock implementation of Recorder using testify/mock.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, rec store.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
