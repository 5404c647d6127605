package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is a brute-force in-memory VectorIndex. It holds every
// embedding per document and scores queries with exact cosine similarity.
// It exists for tests and single-node deployments without a Qdrant instance;
// it is not meant for large corpora.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[string][]memoryEntry
}

type memoryEntry struct {
	index  int
	text   string
	vector []float32
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{docs: make(map[string][]memoryEntry)}
}

// Upsert stores the chunks and their embeddings. Entries for the same
// document accumulate; callers replacing a document should delete first.
func (m *MemoryIndex) Upsert(_ context.Context, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("memory index: %d chunks but %d embeddings", len(chunks), len(embeddings))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range chunks {
		vec := make([]float32, len(embeddings[i]))
		copy(vec, embeddings[i])
		m.docs[c.DocumentID] = append(m.docs[c.DocumentID], memoryEntry{
			index:  c.Index,
			text:   c.Text,
			vector: vec,
		})
	}

	return nil
}

// Query scores every entry of the named document against the query embedding
// and returns the top k by descending cosine similarity. Ties are broken by
// ascending chunk index so results are deterministic.
func (m *MemoryIndex) Query(_ context.Context, documentID string, queryEmbedding []float32, k int) ([]Passage, error) {
	if k <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	entries := m.docs[documentID]
	passages := make([]Passage, 0, len(entries))
	for _, e := range entries {
		passages = append(passages, Passage{
			DocumentID: documentID,
			Index:      e.index,
			Text:       e.text,
			Score:      cosineSimilarity(queryEmbedding, e.vector),
		})
	}
	m.mu.RUnlock()

	sort.SliceStable(passages, func(i, j int) bool {
		if passages[i].Score != passages[j].Score {
			return passages[i].Score > passages[j].Score
		}
		return passages[i].Index < passages[j].Index
	})

	if len(passages) > k {
		passages = passages[:k]
	}

	return passages, nil
}

// DeleteByDocument drops every entry for the document. Unknown ids are a
// no-op.
func (m *MemoryIndex) DeleteByDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	delete(m.docs, documentID)
	m.mu.Unlock()
	return nil
}

// Count returns the number of entries stored for the document.
func (m *MemoryIndex) Count(_ context.Context, documentID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs[documentID]), nil
}

// Close is a no-op for the in-memory index.
func (m *MemoryIndex) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
