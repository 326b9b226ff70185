package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxFileSize bounds accepted resume uploads (5 MiB).
const MaxFileSize = 5 * 1024 * 1024

// ExtractText pulls the plain text out of a PDF document.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("resume: empty document")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("resume: parse pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("resume: extract text: %w", err)
	}
	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("resume: read text: %w", err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", errors.New("resume: document contains no extractable text")
	}
	return text, nil
}
