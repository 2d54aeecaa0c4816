package prompt

import (
	"strings"
)

// DefaultTone is used when a compose request does not name one.
const DefaultTone = "professional"

const summaryInstruction = "Please provide a concise summary of the following email content. " +
	"Focus on the key points, actions needed, and important details:\n\n"

const composeInstruction = "Please provide a well-structured email with appropriate subject line, " +
	"greeting, body, and closing. Format the response as JSON with 'subject' and 'body' fields."

// ComposeInput describes the email the model should draft.
type ComposeInput struct {
	Purpose   string
	Tone      string
	KeyPoints string
	Recipient string
}

// Summary returns the custom instruction verbatim when set, otherwise the fixed
// summary instruction followed by content.
func Summary(content, customInstruction string) string {
	if customInstruction != "" {
		return customInstruction
	}
	return summaryInstruction + content
}

// Compose renders the drafting prompt. Recipient and key points appear only when set.
func Compose(in ComposeInput) string {
	tone := in.Tone
	if tone == "" {
		tone = DefaultTone
	}

	var b strings.Builder
	b.WriteString("Please compose a ")
	b.WriteString(tone)
	b.WriteString(" email about: ")
	b.WriteString(in.Purpose)
	b.WriteString("\n\n")

	if in.Recipient != "" {
		b.WriteString("Recipient: ")
		b.WriteString(in.Recipient)
		b.WriteString("\n\n")
	}
	if in.KeyPoints != "" {
		b.WriteString("Key points to include:\n")
		b.WriteString(in.KeyPoints)
		b.WriteString("\n\n")
	}

	b.WriteString(composeInstruction)
	return b.String()
}

// Freeform passes the caller's prompt through untouched.
func Freeform(userPrompt string) string {
	return userPrompt
}
