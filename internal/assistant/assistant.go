package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"email-assistant/internal/llm"
	"email-assistant/internal/prompt"
	"email-assistant/internal/sanitizer"
	"email-assistant/internal/store"
)

// Key validation sends the smallest useful request.
const (
	validationPrompt    = "Test"
	validationModel     = "gpt-3.5-turbo"
	validationMaxTokens = 10
)

// SettingsReader resolves the settings in effect for a user.
type SettingsReader interface {
	Get(ctx context.Context, userID string) (store.Settings, error)
}

// Recorder receives one history entry per successful task.
type Recorder interface {
	Record(ctx context.Context, rec store.Record) error
}

// Service runs the summarize, compose and freeform tasks for a user.
// It keeps no state between calls.
type Service struct {
	log      *slog.Logger
	settings SettingsReader
	llm      llm.Completer
	recorder Recorder
}

// New wires a Service. recorder may be nil to disable history.
func New(log *slog.Logger, settings SettingsReader, completer llm.Completer, recorder Recorder) *Service {
	return &Service{log: log, settings: settings, llm: completer, recorder: recorder}
}

type SummarizeInput struct {
	Content      string
	CustomPrompt string
}

type Summary struct {
	Summary    string `json:"summary"`
	TokensUsed int    `json:"tokens_used"`
}

type ComposeInput struct {
	Purpose   string
	Tone      string
	KeyPoints string
	Recipient string
}

type Composition struct {
	Subject    string                `json:"subject"`
	Body       string                `json:"body"`
	Source     llm.CompositionSource `json:"source"`
	TokensUsed int                   `json:"tokens_used"`
}

type FreeformInput struct {
	Prompt string
	// Model overrides the user's default model when set.
	Model string
}

type Freeform struct {
	Response   string `json:"response"`
	TokensUsed int    `json:"tokens_used"`
	ModelUsed  string `json:"model_used"`
}

// Summarize sanitizes the email content and asks for a concise summary.
func (s *Service) Summarize(ctx context.Context, userID string, in SummarizeInput) (Summary, error) {
	st, err := s.credentials(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	content := sanitizer.Sanitize(in.Content)
	if in.CustomPrompt == "" && content == "" {
		return Summary{}, llm.InvalidInput("EmailContent")
	}

	res, err := s.complete(ctx, "summarize", userID, llm.NewRequest(st.APIKey, prompt.Summary(content, in.CustomPrompt), st.DefaultModel, st.MaxTokens))
	if err != nil {
		return Summary{}, err
	}

	s.record(ctx, store.Record{
		UserID:        userID,
		RequestType:   store.RequestSummarize,
		InputContent:  content,
		OutputContent: res.Content,
		TokensUsed:    res.Usage.TotalTokens,
		Model:         res.Model,
		Parameters:    parameters(map[string]string{"custom_prompt": in.CustomPrompt}),
	})
	return Summary{Summary: res.Content, TokensUsed: res.Usage.TotalTokens}, nil
}

// Compose drafts an email. Output that is not the requested JSON degrades to a
// fallback subject with the whole reply as body.
func (s *Service) Compose(ctx context.Context, userID string, in ComposeInput) (Composition, error) {
	st, err := s.credentials(ctx, userID)
	if err != nil {
		return Composition{}, err
	}
	if strings.TrimSpace(in.Purpose) == "" {
		return Composition{}, llm.InvalidInput("Purpose")
	}
	if in.Tone == "" {
		in.Tone = prompt.DefaultTone
	}

	p := prompt.Compose(prompt.ComposeInput{
		Purpose:   in.Purpose,
		Tone:      in.Tone,
		KeyPoints: in.KeyPoints,
		Recipient: in.Recipient,
	})
	res, err := s.complete(ctx, "compose", userID, llm.NewRequest(st.APIKey, p, st.DefaultModel, st.MaxTokens))
	if err != nil {
		return Composition{}, err
	}

	c := llm.ExtractComposition(res.Content, in.Purpose)
	if c.Source == llm.CompositionFallback {
		s.log.Info("compose reply was not JSON, using fallback subject", "user_id", userID)
	}

	s.record(ctx, store.Record{
		UserID:        userID,
		RequestType:   store.RequestCompose,
		InputContent:  in.Purpose,
		OutputContent: res.Content,
		TokensUsed:    res.Usage.TotalTokens,
		Model:         res.Model,
		Parameters: parameters(map[string]string{
			"tone":       in.Tone,
			"key_points": in.KeyPoints,
			"recipient":  in.Recipient,
			"source":     string(c.Source),
		}),
	})
	return Composition{Subject: c.Subject, Body: c.Body, Source: c.Source, TokensUsed: res.Usage.TotalTokens}, nil
}

// FreeformQuery sends the caller's prompt as is.
func (s *Service) FreeformQuery(ctx context.Context, userID string, in FreeformInput) (Freeform, error) {
	st, err := s.credentials(ctx, userID)
	if err != nil {
		return Freeform{}, err
	}
	if in.Prompt == "" {
		return Freeform{}, llm.InvalidInput("Prompt")
	}

	model := in.Model
	if model == "" {
		model = st.DefaultModel
	}
	if model == "" {
		model = llm.DefaultModel
	}

	res, err := s.complete(ctx, "freeform", userID, llm.NewRequest(st.APIKey, prompt.Freeform(in.Prompt), model, st.MaxTokens))
	if err != nil {
		return Freeform{}, err
	}

	s.record(ctx, store.Record{
		UserID:        userID,
		RequestType:   store.RequestCustom,
		InputContent:  in.Prompt,
		OutputContent: res.Content,
		TokensUsed:    res.Usage.TotalTokens,
		Model:         model,
		Parameters:    parameters(map[string]string{"model_override": in.Model}),
	})
	return Freeform{Response: res.Content, TokensUsed: res.Usage.TotalTokens, ModelUsed: model}, nil
}

// ValidateKey makes a minimal completion call and reports whether it succeeded.
// Every failure kind yields false.
func (s *Service) ValidateKey(ctx context.Context, apiKey string) bool {
	if apiKey == "" {
		return false
	}
	_, err := s.llm.Complete(ctx, llm.NewRequest(apiKey, validationPrompt, validationModel, validationMaxTokens))
	if err != nil {
		s.log.Debug("api key validation failed", "kind", llm.KindOf(err))
		return false
	}
	return true
}

// credentials resolves settings and enforces a configured API key.
func (s *Service) credentials(ctx context.Context, userID string) (store.Settings, error) {
	st, err := s.settings.Get(ctx, userID)
	if err != nil {
		return store.Settings{}, fmt.Errorf("resolve settings: %w", err)
	}
	if !st.HasAPIKey() {
		return store.Settings{}, llm.MissingCredential()
	}
	return st, nil
}

func (s *Service) complete(ctx context.Context, task, userID string, req llm.Request) (llm.Result, error) {
	start := time.Now()
	res, err := s.llm.Complete(ctx, req)
	if err != nil {
		s.log.Warn("completion failed",
			"task", task,
			"user_id", userID,
			"model", req.Model,
			"kind", llm.KindOf(err),
			"err", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return llm.Result{}, err
	}
	s.log.Info("completion done",
		"task", task,
		"user_id", userID,
		"model", res.Model,
		"tokens", res.Usage.TotalTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (s *Service) record(ctx context.Context, rec store.Record) {
	if s.recorder == nil {
		return
	}
	rec.CreatedAt = time.Now().UTC()
	if err := s.recorder.Record(ctx, rec); err != nil {
		s.log.Warn("failed to record request history", "user_id", rec.UserID, "type", rec.RequestType, "err", err)
	}
}

// parameters encodes the non-empty task parameters kept with a history entry.
func parameters(values map[string]string) json.RawMessage {
	kept := make(map[string]string, len(values))
	for k, v := range values {
		if v != "" {
			kept[k] = v
		}
	}
	if len(kept) == 0 {
		return nil
	}
	b, err := json.Marshal(kept)
	if err != nil {
		return nil
	}
	return b
}
