// Package chunker splits extracted document text into overlapping fixed-size
// segments — the unit of retrieval for the rest of the pipeline. Splitting is
// purely positional: chunks are cut at the size boundary without regard to
// sentence or word structure. The trailing overlap repeated at the start of
// the next chunk preserves context across chunk boundaries.
package chunker

import (
	"fmt"
	"strings"
)

const (
	// DefaultSize is the target character length per chunk.
	DefaultSize = 1000

	// DefaultOverlap is the number of trailing characters repeated at the
	// start of the next chunk.
	DefaultOverlap = 200
)

// ErrConfig is returned when chunking parameters are invalid. Parameter
// validation happens once at construction, never per call.
var ErrConfig = fmt.Errorf("chunker: invalid configuration")

// Config holds the chunking parameters.
type Config struct {
	// Size is the target character length per chunk. Defaults to
	// DefaultSize if zero.
	Size int

	// Overlap is the number of trailing characters repeated at the start of
	// the next chunk. Must be strictly less than Size. Zero disables the
	// overlap.
	Overlap int
}

// Chunker splits text into overlapping segments. It is pure and stateless:
// the same input always yields the same chunk sequence. Safe for concurrent
// use.
type Chunker struct {
	size    int
	overlap int
}

// New validates cfg and constructs a Chunker. A nil cfg selects the defaults
// (size 1000, overlap 200). Overlap >= size is a configuration error and is
// rejected here so callers fail at startup, not mid-ingest.
func New(cfg *Config) (*Chunker, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	size := cfg.Size
	if size == 0 {
		size = DefaultSize
	}
	overlap := cfg.Overlap
	if cfg.Size == 0 && cfg.Overlap == 0 {
		overlap = DefaultOverlap
	}

	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", ErrConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be less than size %d", ErrConfig, overlap, size)
	}

	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the configured chunk size in characters.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }

// Split cuts text into overlapping chunks of the configured size. Size and
// overlap count characters (runes), not bytes, so multibyte text is never
// cut mid-character and every chunk is valid UTF-8. Empty or whitespace-only
// input yields zero chunks. For input of character length L with size S and
// overlap O the result has ceil((L-O)/(S-O)) chunks; input of length L <= S
// yields exactly one chunk.
func (c *Chunker) Split(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(runes); start += c.size - c.overlap {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks
}
