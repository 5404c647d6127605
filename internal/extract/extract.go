// Package extract turns uploaded files into plain text for the ingest
// pipeline. The PDF path shells out to the poppler tools (pdftotext,
// pdfinfo); plain text and markdown pass through with normalization.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrNoText is returned when a file yields no extractable text. Ingesting
// such a file must fail cleanly rather than indexing an empty document.
var ErrNoText = errors.New("extract: no extractable text")

// ErrUnsupportedType is returned for file extensions no extractor handles.
var ErrUnsupportedType = errors.New("extract: unsupported file type")

// Result is the extracted content of one uploaded file.
type Result struct {
	// Text is the full extracted text.
	Text string

	// Pages is the page count for paginated formats, 0 when unknown.
	Pages int
}

// Extractor converts one file format into text.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (*Result, error)
}

// ForFilename returns the extractor for the file's extension.
func ForFilename(name string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".txt", ".md":
		return &PlainTextExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: .pdf, .txt, .md)", ErrUnsupportedType, filepath.Ext(name))
	}
}

// PlainTextExtractor passes text files through unchanged apart from
// whitespace trimming.
type PlainTextExtractor struct{}

// Extract reads the whole file and returns it as text.
func (e *PlainTextExtractor) Extract(_ context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("extract: reading file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrNoText
	}

	return &Result{Text: text}, nil
}
