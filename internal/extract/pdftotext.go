package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// PDFExtractor extracts text from PDFs by shelling out to the poppler
// utilities. pdfinfo supplies the page count; pdftotext is then run per page
// so each page can be labeled, which lets the model cite page numbers.
type PDFExtractor struct{}

// Extract writes the PDF to a temp file, resolves its page count, and
// extracts every page. Pages that yield no text are skipped; a document
// where every page is empty (e.g. a pure scan) returns ErrNoText.
func (e *PDFExtractor) Extract(ctx context.Context, r io.Reader) (*Result, error) {
	tmp, err := os.CreateTemp("", "paperlens-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("extract: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("extract: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("extract: closing temp file: %w", err)
	}

	pages, err := pageCount(ctx, tmp.Name())
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	extracted := 0
	for page := 1; page <= pages; page++ {
		text, err := extractPage(ctx, tmp.Name(), page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if extracted > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Page %d]\n%s", page, text)
		extracted++
	}

	if extracted == 0 {
		return nil, fmt.Errorf("%w: no page of %d produced text", ErrNoText, pages)
	}

	return &Result{Text: sb.String(), Pages: pages}, nil
}

// pageCount reads the "Pages:" line from pdfinfo output.
func pageCount(ctx context.Context, path string) (int, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "pdfinfo", path)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("extract: pdfinfo failed (is poppler-utils installed?): %w", err)
	}

	for _, line := range strings.Split(out.String(), "\n") {
		value, found := strings.CutPrefix(line, "Pages:")
		if !found {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("extract: parsing pdfinfo page count: %w", err)
		}
		return n, nil
	}

	return 0, fmt.Errorf("extract: pdfinfo output missing page count")
}

// extractPage runs pdftotext for a single page and returns the trimmed text.
func extractPage(ctx context.Context, path string, page int) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext",
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-enc", "UTF-8", "-nopgbrk",
		path, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("extract: pdftotext failed for page %d: %w", page, err)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("extract: page %d produced no text", page)
	}

	return text, nil
}
