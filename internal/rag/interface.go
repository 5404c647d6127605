// Package rag defines the interfaces for the retrieval side of the pipeline:
// vector index storage, passage retrieval, and embedding. Concrete
// implementations (Qdrant, in-memory) satisfy these interfaces so the rest of
// the service never depends on a specific backend.
package rag

import (
	"context"
	"errors"
)

// ErrUnknownDocument is returned when a query names a document id with no
// indexed chunks. Querying an unknown id is a caller mistake; deleting an
// unknown id is not (the lifecycle layer treats absence as the steady state).
var ErrUnknownDocument = errors.New("rag: unknown document")

// Chunk is a contiguous text span of one document — the unit stored in the
// vector index. Chunks are immutable after creation; a document's chunk set
// is only ever replaced wholesale by re-ingesting.
type Chunk struct {
	// DocumentID is the id of the document this chunk belongs to.
	DocumentID string

	// Index is the 0-based sequence position of this chunk within its
	// document. Indices are contiguous and unique per document.
	Index int

	// Text is the raw chunk content.
	Text string
}

// Passage is a Chunk returned from a query, annotated with its similarity
// score. Passages are produced fresh per query and never mutated.
type Passage struct {
	// DocumentID is the id of the document the passage came from.
	DocumentID string

	// Index is the chunk's sequence position, used for citation display and
	// deterministic tie-breaking.
	Index int

	// Text is the chunk content.
	Text string

	// Score is the similarity score assigned during retrieval. Higher is
	// more similar.
	Score float32
}

// VectorIndex is the interface for persisting and searching chunk embeddings,
// scoped by document id. Implementations must be safe to call from multiple
// goroutines.
type VectorIndex interface {
	// Upsert stores a batch of chunks with their pre-computed embeddings.
	// The embeddings slice must be parallel to chunks — embeddings[i] is the
	// vector for chunks[i].
	Upsert(ctx context.Context, chunks []Chunk, embeddings [][]float32) error

	// Query performs a similarity search scoped to a single document and
	// returns up to k passages ranked by descending score. A query for
	// document X must never return another document's passages. An unknown
	// documentID yields an empty result, not an error — existence checks
	// belong to Count.
	Query(ctx context.Context, documentID string, queryEmbedding []float32, k int) ([]Passage, error)

	// DeleteByDocument removes every chunk stored for the given document id.
	// Deleting an unknown id is a no-op.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Count returns the number of chunks indexed for the given document id.
	Count(ctx context.Context, documentID string) (int, error)

	// Close releases any resources held by the index.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Embed is batch-capable and order-preserving: the returned slice is parallel
// to the input slice, and every vector has the deployment's fixed dimension.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever is the high-level interface the answer engine uses to fetch
// relevant passages for a query. It combines embedding and scoped vector
// search. Implementations must be safe to call from multiple goroutines.
type Retriever interface {
	// Retrieve returns up to topK passages from the named document, ranked
	// by descending similarity, for the given query text. Returns
	// ErrUnknownDocument when the document has no indexed chunks.
	Retrieve(ctx context.Context, documentID, query string, topK int) ([]Passage, error)
}
