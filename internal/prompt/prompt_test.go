package prompt

import (
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	t.Run("default instruction precedes content", func(t *testing.T) {
		got := Summary("Lunch moved to noon.", "")
		if !strings.HasSuffix(got, "\n\nLunch moved to noon.") {
			t.Errorf("expected content at the end, got %q", got)
		}
		for _, want := range []string{"key points", "actions needed", "important details"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected instruction to mention %q, got %q", want, got)
			}
		}
	})

	t.Run("custom instruction used verbatim", func(t *testing.T) {
		custom := "List every date mentioned."
		if got := Summary("ignored body", custom); got != custom {
			t.Errorf("got %q, want %q", got, custom)
		}
	})
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name       string
		input      ComposeInput
		contains   []string
		notContain []string
	}{
		{
			name:       "purpose and tone only",
			input:      ComposeInput{Purpose: "project kickoff", Tone: "friendly"},
			contains:   []string{"Please compose a friendly email about: project kickoff\n\n"},
			notContain: []string{"Recipient:", "Key points to include:"},
		},
		{
			name:       "empty tone falls back to professional",
			input:      ComposeInput{Purpose: "invoice reminder"},
			contains:   []string{"Please compose a professional email about: invoice reminder"},
			notContain: []string{"Recipient:"},
		},
		{
			name:     "recipient line included",
			input:    ComposeInput{Purpose: "renewal", Tone: "formal", Recipient: "Dr. Smith"},
			contains: []string{"Recipient: Dr. Smith\n\n"},
		},
		{
			name:     "key points block included",
			input:    ComposeInput{Purpose: "offsite", Tone: "casual", KeyPoints: "- date\n- venue"},
			contains: []string{"Key points to include:\n- date\n- venue\n\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected prompt to contain %q, got %q", want, got)
				}
			}
			for _, unwanted := range tt.notContain {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected prompt not to contain %q, got %q", unwanted, got)
				}
			}
			if !strings.HasSuffix(got, composeInstruction) {
				t.Errorf("expected prompt to end with the JSON format instruction, got %q", got)
			}
		})
	}
}

func TestComposeOrdersRecipientBeforeKeyPoints(t *testing.T) {
	got := Compose(ComposeInput{Purpose: "p", Tone: "t", KeyPoints: "k", Recipient: "r"})
	if strings.Index(got, "Recipient:") > strings.Index(got, "Key points to include:") {
		t.Errorf("expected recipient before key points, got %q", got)
	}
}

func TestFreeform(t *testing.T) {
	in := "  Translate this to French:\nhello  "
	if got := Freeform(in); got != in {
		t.Errorf("got %q, want passthrough %q", got, in)
	}
}
