package sanitizer

import "testing"

func TestDigestHeaders(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]string
		expected Headers
	}{
		{
			name:     "nil headers",
			raw:      nil,
			expected: Headers{},
		},
		{
			name: "known headers picked",
			raw: map[string]string{
				"from":       "alice@example.com",
				"subject":    "Q3 plan",
				"date":       "Mon, 2 Oct 2023 10:00:00 +0000",
				"x-mailer":   "ignored",
				"importance": "high",
			},
			expected: Headers{Sender: "alice@example.com", Subject: "Q3 plan", Date: "Mon, 2 Oct 2023 10:00:00 +0000", Priority: "high"},
		},
		{
			name:     "names are case-insensitive",
			raw:      map[string]string{"From": " bob@example.com ", "SUBJECT": "Hi"},
			expected: Headers{Sender: "bob@example.com", Subject: "Hi"},
		},
		{
			name:     "priority used without importance",
			raw:      map[string]string{"priority": "urgent"},
			expected: Headers{Priority: "urgent"},
		},
		{
			name:     "importance wins over priority",
			raw:      map[string]string{"priority": "urgent", "importance": "low"},
			expected: Headers{Priority: "low"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DigestHeaders(tt.raw)
			if got != tt.expected {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestHeadersIsZero(t *testing.T) {
	if !(Headers{}).IsZero() {
		t.Error("expected empty headers to be zero")
	}
	if (Headers{Subject: "x"}).IsZero() {
		t.Error("expected headers with subject to be non-zero")
	}
}
