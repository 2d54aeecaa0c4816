package sanitizer

import (
	"regexp"
	"strings"
)

// MaxContentRunes caps the sanitized text handed to the prompt builder.
const MaxContentRunes = 4000

// TruncationMarker is appended when content was cut at MaxContentRunes.
const TruncationMarker = "..."

var (
	markupTag  = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)

	// Applied in order; every pattern runs to the end of the (single-line) text.
	boilerplate = []*regexp.Regexp{
		regexp.MustCompile(`(?s)--.*`),
		regexp.MustCompile(`(?i)Sent from my .*`),
		regexp.MustCompile(`(?is)Best regards?.*`),
		regexp.MustCompile(`(?is)Sincerely.*`),
	}
)

// Sanitize turns raw email text into prompt-ready plain text: markup is stripped,
// whitespace collapsed, signatures and sign-offs dropped and the result capped at
// MaxContentRunes. It is idempotent and never fails.
func Sanitize(raw string) string {
	text := markupTag.ReplaceAllString(raw, "")
	text = whitespace.ReplaceAllString(text, " ")
	for _, re := range boilerplate {
		text = re.ReplaceAllString(text, "")
	}
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > MaxContentRunes {
		text = string(runes[:MaxContentRunes]) + TruncationMarker
	}
	return strings.TrimSpace(text)
}
