package attachment

import (
	"errors"
	"testing"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		want     string
		wantErr  bool
	}{
		{"declared text", "notes", "text/plain; charset=utf-8", TypeText, false},
		{"declared pdf", "a.bin", "application/pdf", TypePDF, false},
		{"missing type uses extension", "Minutes.TXT", "", TypeText, false},
		{"octet stream uses extension", "report.pdf", "application/octet-stream", TypePDF, false},
		{"unsupported extension", "memo.docx", "", "", true},
		{"unsupported declared", "memo.doc", "application/msword", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ContentType(tt.filename, tt.declared)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Fatalf("expected ErrUnsupportedType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		ct      string
		data    []byte
		want    string
		wantErr error
	}{
		{"plain text", "a.txt", "text/plain", []byte("Meeting moved to 3pm."), "Meeting moved to 3pm.", nil},
		{"blank text", "a.txt", "text/plain", []byte("  \n "), "", ErrNoText},
		{"invalid utf8", "a.txt", "", []byte{0xff, 0xfe, 0x00}, "", ErrUnsupportedType},
		{"unsupported", "a.png", "image/png", []byte("x"), "", ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.file, tt.ct, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTextRejectsCorruptPDF(t *testing.T) {
	if _, err := ExtractText("broken.pdf", "application/pdf", []byte("not a pdf")); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}
