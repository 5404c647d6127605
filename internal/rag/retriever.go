package rag

import (
	"context"
	"fmt"
	"sort"
)

// DefaultTopK is the number of passages returned when the caller passes 0.
const DefaultTopK = 5

// DefaultRetriever implements the Retriever interface by combining an Embedder
// and a VectorIndex. It embeds the query at retrieval time with the same
// embedder the ingest path used, so query and chunk vectors live in the same
// space, and delegates similarity search to the index.
type DefaultRetriever struct {
	// embedder converts query text to a dense vector.
	embedder Embedder

	// index performs the document-scoped vector similarity search.
	index VectorIndex

	// defaultTopK is the number of passages to return when the caller passes 0.
	defaultTopK int
}

// NewRetriever constructs a DefaultRetriever from the given Embedder and
// VectorIndex. defaultTopK sets the fallback result count when Retrieve is
// called with topK=0.
func NewRetriever(embedder Embedder, index VectorIndex, defaultTopK int) (*DefaultRetriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if index == nil {
		return nil, fmt.Errorf("rag: index must not be nil")
	}
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &DefaultRetriever{
		embedder:    embedder,
		index:       index,
		defaultTopK: defaultTopK,
	}, nil
}

// Retrieve embeds the query and returns the top-k most relevant passages from
// the named document, ranked by descending score with ties broken by
// ascending chunk index. Returns ErrUnknownDocument when the document has no
// indexed chunks. If topK is 0 the defaultTopK configured at construction
// time is used.
func (r *DefaultRetriever) Retrieve(ctx context.Context, documentID, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = r.defaultTopK
	}

	n, err := r.index.Count(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("rag: counting document chunks failed: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("rag: document %q: %w", documentID, ErrUnknownDocument)
	}

	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("rag: embedding query failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("rag: embedder returned empty result for query")
	}

	passages, err := r.index.Query(ctx, documentID, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("rag: vector search failed: %w", err)
	}

	// Index backends are not required to order equal-score results, so the
	// ranking invariant is enforced here.
	sort.SliceStable(passages, func(i, j int) bool {
		if passages[i].Score != passages[j].Score {
			return passages[i].Score > passages[j].Score
		}
		return passages[i].Index < passages[j].Index
	})
	if len(passages) > topK {
		passages = passages[:topK]
	}

	return passages, nil
}
