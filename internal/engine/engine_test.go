package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/paperlens/paperlens-go/internal/prompt"
	"github.com/paperlens/paperlens-go/internal/rag"
)

// fakeRetriever returns canned passages or an error.
type fakeRetriever struct {
	passages []rag.Passage
	err      error
}

func (f *fakeRetriever) Retrieve(_ context.Context, _, _ string, _ int) ([]rag.Passage, error) {
	return f.passages, f.err
}

// fakeGenerator records the messages it received.
type fakeGenerator struct {
	answer   string
	err      error
	received []*schema.Message
}

func (f *fakeGenerator) Generate(_ context.Context, messages []*schema.Message) (string, error) {
	f.received = messages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func Test_Answer_HappyPath(t *testing.T) {
	t.Parallel()
	retriever := &fakeRetriever{passages: []rag.Passage{
		{DocumentID: "doc-1", Index: 4, Text: "the method uses attention", Score: 0.91},
		{DocumentID: "doc-1", Index: 0, Text: "the abstract", Score: 0.72},
	}}
	gen := &fakeGenerator{answer: "It uses attention."}
	e, err := New(retriever, gen, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := e.Answer(context.Background(), "doc-1", "how does it work?", prompt.LevelStudent, nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got.Text != "It uses attention." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.DocumentID != "doc-1" {
		t.Errorf("DocumentID = %q", got.DocumentID)
	}
	if len(got.Citations) != 2 {
		t.Fatalf("want 2 citations, got %d", len(got.Citations))
	}
	// Citation labels follow retrieval order, chunk index is preserved.
	if got.Citations[0].Label != "Context 1" || got.Citations[0].ChunkIndex != 4 {
		t.Errorf("citation 0 = %+v", got.Citations[0])
	}
	if got.Citations[1].Label != "Context 2" || got.Citations[1].ChunkIndex != 0 {
		t.Errorf("citation 1 = %+v", got.Citations[1])
	}
	// The generator must have seen the passages and the question.
	final := gen.received[len(gen.received)-1].Content
	if !strings.Contains(final, "the method uses attention") || !strings.Contains(final, "how does it work?") {
		t.Error("composed prompt missing passage text or question")
	}
}

func Test_Answer_UnknownDocumentPropagates(t *testing.T) {
	t.Parallel()
	retriever := &fakeRetriever{err: rag.ErrUnknownDocument}
	e, err := New(retriever, &fakeGenerator{answer: "x"}, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = e.Answer(context.Background(), "missing", "q", prompt.LevelStudent, nil)
	if !errors.Is(err, rag.ErrUnknownDocument) {
		t.Errorf("want ErrUnknownDocument, got %v", err)
	}
}

func Test_Answer_UnknownLevelPropagates(t *testing.T) {
	t.Parallel()
	e, err := New(&fakeRetriever{}, &fakeGenerator{answer: "x"}, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = e.Answer(context.Background(), "doc-1", "q", prompt.Level("wizard"), nil)
	if !errors.Is(err, prompt.ErrUnknownLevel) {
		t.Errorf("want ErrUnknownLevel, got %v", err)
	}
}

func Test_Answer_GenerationFailurePropagates(t *testing.T) {
	t.Parallel()
	genErr := errors.New("both models down")
	e, err := New(&fakeRetriever{}, &fakeGenerator{err: genErr}, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = e.Answer(context.Background(), "doc-1", "q", prompt.LevelStudent, nil)
	if !errors.Is(err, genErr) {
		t.Errorf("generation error not propagated: %v", err)
	}
}

func Test_Answer_NoPassagesStillAnswersWithNoContextPrompt(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{answer: "The information is not available in the provided context."}
	e, err := New(&fakeRetriever{}, gen, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := e.Answer(context.Background(), "doc-1", "q", prompt.LevelBeginner, nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(got.Citations) != 0 {
		t.Errorf("want no citations, got %d", len(got.Citations))
	}
	final := gen.received[len(gen.received)-1].Content
	if !strings.Contains(final, prompt.NoContextFound) {
		t.Errorf("prompt missing the no-context instruction")
	}
}
