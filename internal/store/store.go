package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type RequestType string

const (
	RequestSummarize RequestType = "summarize"
	RequestCompose   RequestType = "compose"
	RequestCustom    RequestType = "custom"
)

var ErrSettingsNotFound = errors.New("settings not found")

// Settings is a user's assistant configuration.
type Settings struct {
	EnableModule bool   `json:"enable_module"`
	APIKey       string `json:"openai_api_key"`
	DefaultModel string `json:"default_model" validate:"omitempty,max=100"`
	MaxTokens    int    `json:"max_tokens" validate:"min=100,max=4096"`
}

// HasAPIKey reports whether a key is configured.
func (s Settings) HasAPIKey() bool {
	return s.APIKey != ""
}

// Record is one completed assistant request kept for the user's history.
type Record struct {
	ID            uuid.UUID       `json:"id"`
	UserID        string          `json:"user_id"`
	RequestType   RequestType     `json:"request_type"`
	InputContent  string          `json:"input_content"`
	OutputContent string          `json:"output_content"`
	TokensUsed    int             `json:"tokens_used"`
	Model         string          `json:"model"`
	Parameters    json.RawMessage `json:"parameters,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Store defines persistence contract; an external DB implementation can replace this.
type Store interface {
	GetSettings(ctx context.Context, userID string) (Settings, error)
	SaveSettings(ctx context.Context, userID string, s Settings) error
	SaveRecord(ctx context.Context, rec Record) error
	ListRecords(ctx context.Context, userID string, types []RequestType, limit int) ([]Record, error)
}
