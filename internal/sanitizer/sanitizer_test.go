package sanitizer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain text untouched", "Hello team, the build is green.", "Hello team, the build is green."},
		{"strips markup", "<p>Hello <b>there</b></p>", "Hello there"},
		{"collapses whitespace and newlines", "  line one\n\n\tline   two  ", "line one line two"},
		{"drops signature block", "Meeting at 3pm.\n-- \nJohn Doe\nACME Corp", "Meeting at 3pm."},
		{"drops sent from my device", "Ping me later.\nSent from my iPhone", "Ping me later."},
		{"sent from is case-insensitive", "Ping me later. SENT FROM MY phone", "Ping me later."},
		{"drops best regards to end", "Please review.\nBest regards,\nAlice\nSales", "Please review."},
		{"drops best regard singular", "Please review. best regard Alice", "Please review."},
		{"drops sincerely to end", "Thanks for the update.\n\nSincerely,\nBob", "Thanks for the update."},
		{"markup inside sign-off still removed", "Done. <i>Sincerely</i> Bob", "Done."},
		{"unclosed angle bracket kept", "a < b and c", "a < b and c"},
		{"only boilerplate yields empty", "Sincerely, nobody", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeTruncates(t *testing.T) {
	input := strings.Repeat("a", MaxContentRunes+500)

	got := Sanitize(input)

	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("expected truncation marker, got suffix %q", got[len(got)-10:])
	}
	if n := utf8.RuneCountInString(got); n != MaxContentRunes+len(TruncationMarker) {
		t.Errorf("expected %d runes, got %d", MaxContentRunes+len(TruncationMarker), n)
	}
}

func TestSanitizeTruncatesByRunes(t *testing.T) {
	input := strings.Repeat("é", MaxContentRunes+1)

	got := Sanitize(input)

	if !utf8.ValidString(got) {
		t.Fatal("truncation split a multi-byte rune")
	}
	if n := utf8.RuneCountInString(got); n != MaxContentRunes+3 {
		t.Errorf("expected %d runes, got %d", MaxContentRunes+3, n)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"<div>Hi</div>\n\nPlease see attached.\n--\nsig",
		"a > b < c",
		"<<a>b>",
		" leading space " + strings.Repeat("word ", 1200),
		strings.Repeat("x ", 2000) + "tail",
		strings.Repeat("ab-", 1400),
		"Call me. Sent from my Android\nsecond line",
		strings.Repeat("Hello\t\t", 700) + "Best Regards, me",
		strings.Repeat("ü", 4100),
	}

	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("not idempotent for input starting %q:\nonce:  %q\ntwice: %q", prefix(in), prefix(once), prefix(twice))
		}
		if n := utf8.RuneCountInString(once); n > MaxContentRunes+len(TruncationMarker) {
			t.Errorf("sanitized length %d exceeds bound", n)
		}
	}
}

func TestSanitizeCleanTextIsTrimmedCollapse(t *testing.T) {
	input := "\n  Quarterly numbers\tare in.\n\nSee the   dashboard.  "
	want := strings.TrimSpace(strings.Join(strings.Fields(input), " "))

	if got := Sanitize(input); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func prefix(s string) string {
	if len(s) > 40 {
		return s[:40]
	}
	return s
}
