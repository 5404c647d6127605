// Package lifecycle owns the document lifecycle: ingesting extracted text
// into the vector index plus catalog, and tearing documents down again. Its
// core guarantee is atomicity from the caller's point of view — a document
// is either fully indexed and cataloged, or absent.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paperlens/paperlens-go/internal/chunker"
	"github.com/paperlens/paperlens-go/internal/logging"
	"github.com/paperlens/paperlens-go/internal/rag"
	"github.com/paperlens/paperlens-go/internal/store"
)

// ErrIngestFailure is returned when ingestion could not complete. By the
// time it surfaces, any partially written index state has been rolled back.
var ErrIngestFailure = errors.New("lifecycle: ingest failed")

// Manager coordinates the chunker, embedder, vector index, and catalog for
// document ingestion and deletion. Safe for concurrent use; ingests of
// different documents do not serialize against each other.
type Manager struct {
	chunker  *chunker.Chunker
	embedder rag.Embedder
	index    rag.VectorIndex
	catalog  store.Catalog
}

// NewManager constructs a Manager. All four collaborators are required.
func NewManager(ch *chunker.Chunker, embedder rag.Embedder, index rag.VectorIndex, catalog store.Catalog) (*Manager, error) {
	if ch == nil {
		return nil, fmt.Errorf("lifecycle: chunker must not be nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("lifecycle: embedder must not be nil")
	}
	if index == nil {
		return nil, fmt.Errorf("lifecycle: index must not be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("lifecycle: catalog must not be nil")
	}
	return &Manager{chunker: ch, embedder: embedder, index: index, catalog: catalog}, nil
}

// Ingest chunks the extracted text, embeds every chunk, writes the vectors
// to the index under a fresh document id, and finally records the document
// in the catalog. The catalog write comes last: a document only becomes
// visible once its chunks are fully indexed. Any failure after the first
// index write triggers a rollback so no half-ingested document is ever
// queryable.
func (m *Manager) Ingest(ctx context.Context, text, filename string, pages int) (store.Document, error) {
	log := logging.FromContext(ctx)

	texts := m.chunker.Split(text)
	if len(texts) == 0 {
		return store.Document{}, fmt.Errorf("%w: %q produced no chunks", ErrIngestFailure, filename)
	}

	id := uuid.NewString()
	chunks := make([]rag.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = rag.Chunk{DocumentID: id, Index: i, Text: t}
	}

	embeddings, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return store.Document{}, fmt.Errorf("%w: embedding %d chunks: %w", ErrIngestFailure, len(texts), err)
	}
	if len(embeddings) != len(texts) {
		return store.Document{}, fmt.Errorf("%w: embedder returned %d vectors for %d chunks", ErrIngestFailure, len(embeddings), len(texts))
	}

	if err := m.index.Upsert(ctx, chunks, embeddings); err != nil {
		m.rollback(ctx, id)
		return store.Document{}, fmt.Errorf("%w: indexing chunks: %w", ErrIngestFailure, err)
	}

	doc := store.Document{
		ID:        id,
		Filename:  filename,
		Pages:     pages,
		Chunks:    len(chunks),
		CreatedAt: time.Now(),
	}
	if err := m.catalog.Put(ctx, doc); err != nil {
		m.rollback(ctx, id)
		return store.Document{}, fmt.Errorf("%w: recording document: %w", ErrIngestFailure, err)
	}

	log.Info("document ingested",
		slog.String("document_id", id),
		slog.String("filename", filename),
		slog.Int("chunks", len(chunks)),
	)
	return doc, nil
}

// rollback removes any index state written for a failed ingest. A rollback
// failure is logged but not surfaced; the ingest error the caller sees is
// the original one.
func (m *Manager) rollback(ctx context.Context, id string) {
	if err := m.index.DeleteByDocument(ctx, id); err != nil {
		logging.FromContext(ctx).Error("rollback of failed ingest did not complete",
			slog.String("document_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// Delete removes a document's chunks and catalog row. Idempotent: deleting
// an unknown id succeeds. The catalog row goes first so the document stops
// being listable before its chunks disappear.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("lifecycle: deleting catalog row: %w", err)
	}
	if err := m.index.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("lifecycle: deleting indexed chunks: %w", err)
	}
	return nil
}

// Get returns the catalog record for a document id, or rag.ErrUnknownDocument.
func (m *Manager) Get(ctx context.Context, id string) (store.Document, error) {
	doc, err := m.catalog.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Document{}, fmt.Errorf("lifecycle: document %q: %w", id, rag.ErrUnknownDocument)
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("lifecycle: reading catalog: %w", err)
	}
	return doc, nil
}

// List returns all cataloged documents, newest first.
func (m *Manager) List(ctx context.Context) ([]store.Document, error) {
	docs, err := m.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: listing catalog: %w", err)
	}
	return docs, nil
}
