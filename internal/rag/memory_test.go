package rag

import (
	"context"
	"testing"
)

func Test_MemoryIndex_UpsertAndCount(t *testing.T) {
	t.Parallel()
	idx := NewMemoryIndex()
	ctx := context.Background()

	chunks := []Chunk{
		{DocumentID: "doc-a", Index: 0, Text: "first"},
		{DocumentID: "doc-a", Index: 1, Text: "second"},
		{DocumentID: "doc-b", Index: 0, Text: "other"},
	}
	embeddings := [][]float32{{1, 0}, {0, 1}, {1, 1}}

	if err := idx.Upsert(ctx, chunks, embeddings); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	n, err := idx.Count(ctx, "doc-a")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count(doc-a) = %d, want 2", n)
	}

	n, err = idx.Count(ctx, "missing")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count(missing) = %d, want 0", n)
	}
}

func Test_MemoryIndex_UpsertRejectsMismatchedLengths(t *testing.T) {
	t.Parallel()
	idx := NewMemoryIndex()
	err := idx.Upsert(context.Background(), []Chunk{{DocumentID: "d", Index: 0, Text: "x"}}, nil)
	if err == nil {
		t.Fatal("want error for mismatched chunk/embedding lengths, got nil")
	}
}

func Test_MemoryIndex_QueryScopedToDocument(t *testing.T) {
	t.Parallel()
	idx := NewMemoryIndex()
	ctx := context.Background()

	// Both documents contain a chunk perfectly aligned with the query vector.
	chunks := []Chunk{
		{DocumentID: "doc-a", Index: 0, Text: "a0"},
		{DocumentID: "doc-b", Index: 0, Text: "b0"},
	}
	embeddings := [][]float32{{1, 0}, {1, 0}}
	if err := idx.Upsert(ctx, chunks, embeddings); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := idx.Query(ctx, "doc-a", []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 passage, got %d", len(got))
	}
	if got[0].Text != "a0" || got[0].DocumentID != "doc-a" {
		t.Errorf("got passage %+v, want doc-a/a0", got[0])
	}
}

func Test_MemoryIndex_QueryRankingAndTieBreak(t *testing.T) {
	t.Parallel()
	idx := NewMemoryIndex()
	ctx := context.Background()

	// Chunks 1 and 3 score identically against the query; chunk 2 scores
	// highest. Equal scores must come back in ascending chunk order.
	chunks := []Chunk{
		{DocumentID: "doc", Index: 3, Text: "tie-late"},
		{DocumentID: "doc", Index: 1, Text: "tie-early"},
		{DocumentID: "doc", Index: 2, Text: "best"},
	}
	embeddings := [][]float32{{0, 1}, {0, 1}, {1, 0}}
	if err := idx.Upsert(ctx, chunks, embeddings); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := idx.Query(ctx, "doc", []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 passages, got %d", len(got))
	}
	wantOrder := []string{"best", "tie-early", "tie-late"}
	for i, want := range wantOrder {
		if got[i].Text != want {
			t.Errorf("position %d = %q, want %q", i, got[i].Text, want)
		}
	}
}

func Test_MemoryIndex_QueryCapsAtK(t *testing.T) {
	t.Parallel()
	idx := NewMemoryIndex()
	ctx := context.Background()

	chunks := make([]Chunk, 5)
	embeddings := make([][]float32, 5)
	for i := range chunks {
		chunks[i] = Chunk{DocumentID: "doc", Index: i, Text: "c"}
		embeddings[i] = []float32{1, float32(i)}
	}
	if err := idx.Upsert(ctx, chunks, embeddings); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := idx.Query(ctx, "doc", []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("want 2 passages for k=2, got %d", len(got))
	}
}

func Test_MemoryIndex_QueryUnknownDocumentIsEmpty(t *testing.T) {
	t.Parallel()
	idx := NewMemoryIndex()
	got, err := idx.Query(context.Background(), "missing", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("want empty result for unknown document, got %d passages", len(got))
	}
}

func Test_MemoryIndex_DeleteByDocument(t *testing.T) {
	t.Parallel()
	idx := NewMemoryIndex()
	ctx := context.Background()

	chunks := []Chunk{
		{DocumentID: "doc-a", Index: 0, Text: "a"},
		{DocumentID: "doc-b", Index: 0, Text: "b"},
	}
	embeddings := [][]float32{{1, 0}, {0, 1}}
	if err := idx.Upsert(ctx, chunks, embeddings); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := idx.DeleteByDocument(ctx, "doc-a"); err != nil {
		t.Fatalf("DeleteByDocument: %v", err)
	}
	n, _ := idx.Count(ctx, "doc-a")
	if n != 0 {
		t.Errorf("Count(doc-a) after delete = %d, want 0", n)
	}
	n, _ = idx.Count(ctx, "doc-b")
	if n != 1 {
		t.Errorf("Count(doc-b) = %d, want 1 (other documents untouched)", n)
	}

	// Deleting again is a no-op.
	if err := idx.DeleteByDocument(ctx, "doc-a"); err != nil {
		t.Errorf("repeat DeleteByDocument: %v", err)
	}
}

func Test_CosineSimilarity(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"mismatched dims", []float32{1}, []float32{1, 0}, 0},
	}
	for _, tc := range cases {
		got := cosineSimilarity(tc.a, tc.b)
		if diff := got - tc.want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("%s: cosineSimilarity = %v, want %v", tc.name, got, tc.want)
		}
	}
}
