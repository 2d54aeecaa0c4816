package llm

import (
	"bytes"
	"encoding/json"
	"strings"
)

// CompositionSource tells how subject and body were derived from the model output.
type CompositionSource string

const (
	// CompositionStructured means the model returned a JSON object with subject and/or body.
	CompositionStructured CompositionSource = "structured"
	// CompositionFallback means the output was not usable JSON and was taken as the body.
	CompositionFallback CompositionSource = "fallback"
)

const fallbackSubjectRunes = 50

// Composition is a drafted email.
type Composition struct {
	Subject string
	Body    string
	Source  CompositionSource
}

// ExtractComposition reads subject and body out of the model's reply. Any JSON value
// that is not empty, zero or null counts as structured: a missing subject is "" and a
// missing body is the raw reply. Everything else falls back to "Re: <purpose>" with
// the reply as body; it never fails.
func ExtractComposition(content, purpose string) Composition {
	if c, ok := structuredComposition(content); ok {
		return c
	}
	return Composition{
		Subject: "Re: " + firstRunes(purpose, fallbackSubjectRunes),
		Body:    content,
		Source:  CompositionFallback,
	}
}

func structuredComposition(content string) (Composition, bool) {
	raw, ok := decodeValue(content)
	if !ok {
		raw, ok = decodeValue(unfence(content))
	}
	if !ok {
		return Composition{}, false
	}

	c := Composition{Body: content, Source: CompositionStructured}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if subject, ok := stringField(fields, "subject"); ok {
			c.Subject = subject
		}
		if body, ok := stringField(fields, "body"); ok {
			c.Body = body
		}
	}
	return c, true
}

// decodeValue returns s when it is a JSON value other than null, false, 0, "", "0",
// [] or {}.
func decodeValue(s string) (json.RawMessage, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case nil:
		return nil, false
	case bool:
		if !t {
			return nil, false
		}
	case float64:
		if t == 0 {
			return nil, false
		}
	case string:
		if t == "" || t == "0" {
			return nil, false
		}
	case []any:
		if len(t) == 0 {
			return nil, false
		}
	case map[string]any:
		if len(t) == 0 {
			return nil, false
		}
	}
	return json.RawMessage(s), true
}

// stringField returns a field as text; null counts as absent.
func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(bytes.TrimSpace(raw)), true
}

// unfence strips a surrounding Markdown code fence such as ```json ... ```.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
