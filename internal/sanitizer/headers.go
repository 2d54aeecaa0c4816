package sanitizer

import "strings"

// Headers is the subset of email headers worth showing next to a summary.
type Headers struct {
	Sender   string `json:"sender,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Date     string `json:"date,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// IsZero reports whether no known header was found.
func (h Headers) IsZero() bool {
	return h == Headers{}
}

// DigestHeaders picks sender, subject, date and priority out of raw headers.
// Names are matched case-insensitively; Importance wins over Priority.
func DigestHeaders(raw map[string]string) Headers {
	lower := make(map[string]string, len(raw))
	for k, v := range raw {
		lower[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	h := Headers{
		Sender:  lower["from"],
		Subject: lower["subject"],
		Date:    lower["date"],
	}
	if v, ok := lower["importance"]; ok {
		h.Priority = v
	} else {
		h.Priority = lower["priority"]
	}
	return h
}
