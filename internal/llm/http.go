package llm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the OpenAI chat completions URL.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// HTTPClient calls a chat-completions compatible endpoint directly over HTTP.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

// NewHTTPClient builds a client for endpoint with the given total timeout.
// Empty endpoint and non-positive timeout select the defaults.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		endpoint: endpoint,
		http: &http.Client{
			Timeout:       timeout,
			Transport:     newTransport(),
			CheckRedirect: limitRedirects,
		},
	}
}

// newTransport clones the default transport with a TLS 1.2 floor.
func newTransport() *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	return transport
}

func limitRedirects(_ *http.Request, via []*http.Request) error {
	if len(via) >= MaxRedirects {
		return fmt.Errorf("stopped after %d redirects", MaxRedirects)
	}
	return nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// Complete issues one POST and classifies the outcome. It never retries.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (Result, error) {
	if c == nil || c.http == nil {
		return Result{}, errors.New("nil completion client")
	}
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	payload, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, apiErrorFromBody(resp.StatusCode, body)
	}
	return ParseCompletion(body, req.Model)
}
