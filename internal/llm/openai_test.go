package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-3.5-turbo-0125",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Hello from SDK"}}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 4, "total_tokens": 7}
		}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL+"/v1/", time.Second)
	res, err := client.Complete(context.Background(), NewRequest("sk-user", "Hi", "gpt-3.5-turbo", 42))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/chat/completions"), "path %s", gotPath)
	assert.Equal(t, "Bearer sk-user", gotAuth)
	assert.Equal(t, "gpt-3.5-turbo", gotBody["model"])
	assert.EqualValues(t, 42, gotBody["max_tokens"])
	assert.EqualValues(t, 0.7, gotBody["temperature"])
	assert.Equal(t, "Hello from SDK", res.Content)
	assert.Equal(t, 7, res.Usage.TotalTokens)
	assert.Equal(t, "gpt-3.5-turbo-0125", res.Model)
}

func TestOpenAIClientAPIError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error","code":"invalid_api_key"}}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL+"/v1/", time.Second)
	_, err := client.Complete(context.Background(), NewRequest("sk-bad", "Hi", "", 0))

	require.Error(t, err)
	var llmErr *Error
	require.True(t, errors.As(err, &llmErr))
	assert.Equal(t, KindAPI, llmErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, llmErr.StatusCode)
	assert.Equal(t, "bad key", llmErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "sdk retries must be disabled")
}

func TestOpenAIClientMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"id":"x","object":"chat.completion","model":"gpt-3.5-turbo","choices":[]}`},
		{"null content", `{"id":"x","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":null}}]}`},
		{"missing content", `{"id":"x","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client := NewOpenAIClient(srv.URL+"/v1/", time.Second)
			_, err := client.Complete(context.Background(), NewRequest("sk", "Hi", "", 0))

			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestOpenAIClientEmptyStringContentIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":""}}]}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL+"/v1/", time.Second)
	res, err := client.Complete(context.Background(), NewRequest("sk", "Hi", "", 0))

	require.NoError(t, err)
	assert.Equal(t, "", res.Content)
}

func TestOpenAIClientValidatesBeforeCalling(t *testing.T) {
	client := NewOpenAIClient("http://127.0.0.1:1/v1/", time.Second)
	_, err := client.Complete(context.Background(), NewRequest("", "Hi", "", 0))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
