package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"email-assistant/internal/cache"
	"email-assistant/internal/store"
)

const (
	DefaultModel     = "gpt-3.5-turbo"
	DefaultMaxTokens = 2000
	MinMaxTokens     = 100
	MaxMaxTokens     = 4096
)

// Option is a selectable value with a display label.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Models lists the completion models offered to users.
var Models = []Option{
	{Value: "gpt-3.5-turbo", Text: "GPT-3.5 Turbo (Recommended)"},
	{Value: "gpt-4", Text: "GPT-4 (More capable, slower)"},
	{Value: "gpt-4-turbo-preview", Text: "GPT-4 Turbo (Latest)"},
}

// Tones lists the email tones offered for composition.
var Tones = []Option{
	{Value: "professional", Text: "Professional"},
	{Value: "friendly", Text: "Friendly"},
	{Value: "formal", Text: "Formal"},
	{Value: "casual", Text: "Casual"},
	{Value: "urgent", Text: "Urgent"},
	{Value: "apologetic", Text: "Apologetic"},
	{Value: "persuasive", Text: "Persuasive"},
}

var validate = validator.New()

// Defaults returns the settings of a user who never saved any.
func Defaults() store.Settings {
	return store.Settings{
		EnableModule: true,
		DefaultModel: DefaultModel,
		MaxTokens:    DefaultMaxTokens,
	}
}

// normalize fills zero model and token cap from defaults.
func normalize(s, defaults store.Settings) store.Settings {
	if s.DefaultModel == "" {
		s.DefaultModel = defaults.DefaultModel
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = defaults.MaxTokens
	}
	return s
}

// Validate checks user-editable bounds.
func Validate(s store.Settings) error {
	return validate.Struct(s)
}

// Service reads and writes user settings with a read-through cache.
type Service struct {
	store    store.Store
	cache    cache.Cache
	ttl      time.Duration
	log      *slog.Logger
	defaults store.Settings
}

func NewService(st store.Store, c cache.Cache, ttl time.Duration, log *slog.Logger) *Service {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Service{store: st, cache: c, ttl: ttl, log: log, defaults: Defaults()}
}

// WithDefaults overrides the model and token cap given to users who left them unset.
// Zero values keep the package defaults.
func (s *Service) WithDefaults(model string, maxTokens int) *Service {
	s.defaults = normalize(store.Settings{EnableModule: true, DefaultModel: model, MaxTokens: maxTokens}, Defaults())
	return s
}

// Get resolves the settings in effect for userID. Unknown users get the defaults.
// Cache failures degrade to a store read.
func (s *Service) Get(ctx context.Context, userID string) (store.Settings, error) {
	if cached, err := s.cache.GetSettings(ctx, userID); err != nil {
		s.log.Warn("settings cache read failed", "user_id", userID, "err", err)
	} else if cached != nil {
		return normalize(*cached, s.defaults), nil
	}

	st, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, store.ErrSettingsNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return store.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	st = normalize(st, s.defaults)

	if err := s.cache.SetSettings(ctx, userID, st, s.ttl); err != nil {
		s.log.Warn("settings cache write failed", "user_id", userID, "err", err)
	}
	return st, nil
}

// Update validates and persists settings, then drops the cached copy.
func (s *Service) Update(ctx context.Context, userID string, st store.Settings) (store.Settings, error) {
	st = normalize(st, s.defaults)
	if err := Validate(st); err != nil {
		return store.Settings{}, err
	}
	if err := s.store.SaveSettings(ctx, userID, st); err != nil {
		return store.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("settings cache invalidation failed", "user_id", userID, "err", err)
	}
	return st, nil
}
