package llm

import (
	"encoding/json"
	"fmt"
)

type completionPayload struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
	Model string `json:"model"`
}

type errorPayload struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ParseCompletion decodes a 200 response body. The first choice's message content
// is required; usage defaults to zeros and model to requestedModel.
func ParseCompletion(body []byte, requestedModel string) (Result, error) {
	var p completionPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Result{}, &Error{Kind: KindMalformedResponse, Message: "Invalid response format from OpenAI API", Err: err}
	}
	if len(p.Choices) == 0 || p.Choices[0].Message == nil || p.Choices[0].Message.Content == nil {
		return Result{}, newError(KindMalformedResponse, "Invalid response format from OpenAI API")
	}

	res := Result{
		Content: *p.Choices[0].Message.Content,
		Model:   p.Model,
	}
	if p.Usage != nil {
		res.Usage = *p.Usage
	}
	if res.Model == "" {
		res.Model = requestedModel
	}
	return res, nil
}

// apiErrorFromBody builds the KindAPI error for a non-200 response.
func apiErrorFromBody(status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP error: %d", status)
	var p errorPayload
	if err := json.Unmarshal(body, &p); err == nil && p.Error != nil && p.Error.Message != "" {
		msg = p.Error.Message
	}
	return &Error{Kind: KindAPI, StatusCode: status, Message: msg}
}
