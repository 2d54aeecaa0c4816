package attachment

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	TypeText = "text/plain"
	TypePDF  = "application/pdf"
)

// ErrUnsupportedType is returned for anything other than plain text or PDF.
var ErrUnsupportedType = errors.New("unsupported file type (only PDF and TXT allowed)")

// ErrNoText means the file parsed but yielded no text.
var ErrNoText = errors.New("no text could be extracted")

// ContentType resolves the media type from the declared header, falling back to
// the file extension when the header is empty or generic.
func ContentType(filename, declared string) (string, error) {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			declared = mt
		} else {
			declared = ""
		}
	}
	if declared == "" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt":
			declared = TypeText
		case ".pdf":
			declared = TypePDF
		}
	}
	switch declared {
	case TypeText, TypePDF:
		return declared, nil
	default:
		return "", ErrUnsupportedType
	}
}

// ExtractText returns the text of an uploaded attachment.
func ExtractText(filename, contentType string, data []byte) (string, error) {
	ct, err := ContentType(filename, contentType)
	if err != nil {
		return "", err
	}

	var text string
	switch ct {
	case TypePDF:
		text, err = extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("read pdf %s: %w", filename, err)
		}
	default:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedType)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
