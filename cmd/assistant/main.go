package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"email-assistant/internal/app"
	"email-assistant/internal/assistant"
	"email-assistant/internal/attachment"
	"email-assistant/internal/httputil"
	"email-assistant/internal/sanitizer"
	"email-assistant/internal/settings"
	"email-assistant/internal/store"
)

type settingsRequest struct {
	EnableModule *bool   `json:"enable_module"`
	APIKey       *string `json:"openai_api_key"`
	DefaultModel string  `json:"default_model" validate:"omitempty,max=100"`
	MaxTokens    int     `json:"max_tokens" validate:"omitempty,min=100,max=4096"`
}

type settingsResponse struct {
	EnableModule bool              `json:"enable_module"`
	HasAPIKey    bool              `json:"has_api_key"`
	DefaultModel string            `json:"default_model"`
	MaxTokens    int               `json:"max_tokens"`
	Models       []settings.Option `json:"models"`
	Tones        []settings.Option `json:"tones"`
}

type validateKeyRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

type summarizeRequest struct {
	EmailContent string            `json:"email_content"`
	CustomPrompt string            `json:"custom_prompt"`
	Headers      map[string]string `json:"headers"`
}

type summarizeResponse struct {
	assistant.Summary
	Headers *sanitizer.Headers `json:"headers,omitempty"`
}

type composeRequest struct {
	Purpose   string `json:"purpose" validate:"required"`
	Tone      string `json:"tone" validate:"omitempty,oneof=professional friendly formal casual urgent apologetic persuasive"`
	KeyPoints string `json:"key_points"`
	Recipient string `json:"recipient"`
}

type queryRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model" validate:"omitempty,max=100"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("assistant listening", "addr", addr)
	if err := http.ListenAndServe(addr, newRouter(deps)); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	r.Route("/api", func(r chi.Router) {
		r.Use(httputil.RequireUser)
		r.Get("/settings", getSettingsHandler(deps))
		r.Put("/settings", putSettingsHandler(deps))
		r.Post("/settings/validate-key", validateKeyHandler(deps))
		r.Post("/summarize", summarizeHandler(deps))
		r.Post("/summarize/attachment", summarizeAttachmentHandler(deps))
		r.Post("/compose", composeHandler(deps))
		r.Post("/query", queryHandler(deps))
		r.Get("/history", historyHandler(deps))
	})
	return r
}

func toSettingsResponse(st store.Settings) settingsResponse {
	return settingsResponse{
		EnableModule: st.EnableModule,
		HasAPIKey:    st.HasAPIKey(),
		DefaultModel: st.DefaultModel,
		MaxTokens:    st.MaxTokens,
		Models:       settings.Models,
		Tones:        settings.Tones,
	}
}

func getSettingsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := deps.Settings.Get(r.Context(), httputil.UserID(r.Context()))
		if err != nil {
			httputil.FailErr(deps.Log, w, "failed to load settings", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toSettingsResponse(st))
	}
}

// putSettingsHandler applies the fields present in the body over the current settings.
// An omitted API key keeps the stored one; an empty string clears it.
func putSettingsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settingsRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.FailErr(deps.Log, w, "invalid settings", err)
			return
		}

		ctx := r.Context()
		userID := httputil.UserID(ctx)
		st, err := deps.Settings.Get(ctx, userID)
		if err != nil {
			httputil.FailErr(deps.Log, w, "failed to load settings", err)
			return
		}
		if req.EnableModule != nil {
			st.EnableModule = *req.EnableModule
		}
		if req.APIKey != nil {
			st.APIKey = *req.APIKey
		}
		if req.DefaultModel != "" {
			st.DefaultModel = req.DefaultModel
		}
		if req.MaxTokens != 0 {
			st.MaxTokens = req.MaxTokens
		}

		saved, err := deps.Settings.Update(ctx, userID, st)
		if err != nil {
			httputil.FailErr(deps.Log, w, "failed to save settings", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toSettingsResponse(saved))
	}
}

func validateKeyHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateKeyRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.FailErr(deps.Log, w, "invalid request", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{
			"valid": deps.Assistant.ValidateKey(r.Context(), req.APIKey),
		})
	}
}

func summarizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.FailErr(deps.Log, w, "invalid request", err)
			return
		}
		sum, err := deps.Assistant.Summarize(r.Context(), httputil.UserID(r.Context()), assistant.SummarizeInput{
			Content:      req.EmailContent,
			CustomPrompt: req.CustomPrompt,
		})
		if err != nil {
			httputil.FailErr(deps.Log, w, "summarization failed", err)
			return
		}

		resp := summarizeResponse{Summary: sum}
		if h := sanitizer.DigestHeaders(req.Headers); !h.IsZero() {
			resp.Headers = &h
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

func summarizeAttachmentHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusBadRequest)
			return
		}
		text, err := attachment.ExtractText(header.Filename, header.Header.Get("Content-Type"), content)
		if errors.Is(err, attachment.ErrUnsupportedType) {
			httputil.Fail(deps.Log, w, attachment.ErrUnsupportedType.Error(), err, http.StatusBadRequest)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "could not extract text from file", err, http.StatusUnprocessableEntity)
			return
		}

		sum, err := deps.Assistant.Summarize(r.Context(), httputil.UserID(r.Context()), assistant.SummarizeInput{
			Content:      text,
			CustomPrompt: r.FormValue("custom_prompt"),
		})
		if err != nil {
			httputil.FailErr(deps.Log, w, "summarization failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"summary":     sum.Summary,
			"tokens_used": sum.TokensUsed,
			"filename":    header.Filename,
		})
	}
}

func composeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req composeRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.FailErr(deps.Log, w, "invalid request", err)
			return
		}
		c, err := deps.Assistant.Compose(r.Context(), httputil.UserID(r.Context()), assistant.ComposeInput{
			Purpose:   req.Purpose,
			Tone:      req.Tone,
			KeyPoints: req.KeyPoints,
			Recipient: req.Recipient,
		})
		if err != nil {
			httputil.FailErr(deps.Log, w, "composition failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, c)
	}
}

func queryHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.FailErr(deps.Log, w, "invalid request", err)
			return
		}
		res, err := deps.Assistant.FreeformQuery(r.Context(), httputil.UserID(r.Context()), assistant.FreeformInput{
			Prompt: req.Prompt,
			Model:  req.Model,
		})
		if err != nil {
			httputil.FailErr(deps.Log, w, "query failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

func historyHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var types []store.RequestType
		for _, v := range q["type"] {
			t := store.RequestType(v)
			switch t {
			case store.RequestSummarize, store.RequestCompose, store.RequestCustom:
				types = append(types, t)
			default:
				httputil.Fail(deps.Log, w, "invalid type: "+v, nil, http.StatusBadRequest)
				return
			}
		}

		limit := 0
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				httputil.Fail(deps.Log, w, "invalid limit", err, http.StatusBadRequest)
				return
			}
			limit = n
		}

		recs, err := deps.History.List(r.Context(), httputil.UserID(r.Context()), types, limit)
		if err != nil {
			httputil.FailErr(deps.Log, w, "failed to list history", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": recs})
	}
}
