package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls the Chat Completions API through the official SDK.
// The API key is supplied per request since every user brings their own.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient builds an SDK client. baseURL may be empty for api.openai.com.
// SDK retries are disabled; a failed call surfaces immediately.
func NewOpenAIClient(baseURL string, timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
		option.WithHTTPClient(&http.Client{Transport: newTransport(), CheckRedirect: limitRedirects}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(opts...)
	return &OpenAIClient{client: &cli}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Result, error) {
	if c == nil || c.client == nil {
		return Result{}, fmt.Errorf("nil openai client")
	}
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(Temperature),
	}, option.WithAPIKey(req.APIKey))
	if err != nil {
		return Result{}, classifySDKError(err)
	}
	// Content must be present and non-null, as in ParseCompletion.
	if resp == nil || len(resp.Choices) == 0 || !resp.Choices[0].Message.JSON.Content.Valid() {
		return Result{}, newError(KindMalformedResponse, "Invalid response format from OpenAI API")
	}

	res := Result{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
	if res.Model == "" {
		res.Model = req.Model
	}
	return res, nil
}

func classifySDKError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP error: %d", apiErr.StatusCode)
		}
		return &Error{Kind: KindAPI, StatusCode: apiErr.StatusCode, Message: msg, Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{Kind: KindMalformedResponse, Message: "Invalid response format from OpenAI API", Err: err}
	}
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}
