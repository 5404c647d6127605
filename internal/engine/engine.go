// Package engine implements the query-side boundary operation: retrieve
// passages for a question, compose the prompt, generate the answer, and
// report the passages used as citations.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/schema"

	"github.com/paperlens/paperlens-go/internal/logging"
	"github.com/paperlens/paperlens-go/internal/prompt"
	"github.com/paperlens/paperlens-go/internal/rag"
)

// Generator is the narrow surface the engine needs from the generation
// gateway.
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (string, error)
}

// Citation is one passage that grounded the answer, in the order it was
// presented to the model.
type Citation struct {
	// Label is the ordinal context label the model saw ("Context 1", …).
	Label string `json:"label"`
	// Text is the passage content.
	Text string `json:"text"`
	// Score is the retrieval similarity score.
	Score float32 `json:"score"`
	// ChunkIndex is the passage's sequence position within the document.
	ChunkIndex int `json:"chunk_index"`
}

// Answer is the result of one question against one document.
type Answer struct {
	// DocumentID is the document that was queried.
	DocumentID string `json:"document_id"`
	// Text is the generated answer.
	Text string `json:"answer"`
	// Citations lists the passages the prompt was built from.
	Citations []Citation `json:"citations"`
}

// Engine wires the retriever and generator into the single
// question-answering operation the API layer calls.
type Engine struct {
	retriever rag.Retriever
	generator Generator
	topK      int
}

// New constructs an Engine. topK 0 defers to the retriever's default.
func New(retriever rag.Retriever, generator Generator, topK int) (*Engine, error) {
	if retriever == nil {
		return nil, fmt.Errorf("engine: retriever must not be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("engine: generator must not be nil")
	}
	return &Engine{retriever: retriever, generator: generator, topK: topK}, nil
}

// Answer retrieves the most relevant passages of the document, composes the
// leveled prompt with the supplied history, and generates the answer.
// Errors keep their kind: rag.ErrUnknownDocument for an unindexed id,
// prompt.ErrUnknownLevel for a bad level, generator.ErrGenerationFailure
// when both models fail. The answer is never silently degraded — any
// failure surfaces.
func (e *Engine) Answer(ctx context.Context, documentID, question string, level prompt.Level, history []prompt.Turn) (*Answer, error) {
	log := logging.FromContext(ctx)

	passages, err := e.retriever.Retrieve(ctx, documentID, question, e.topK)
	if err != nil {
		return nil, fmt.Errorf("engine: retrieving passages: %w", err)
	}

	messages, err := prompt.Compose(passages, question, level, history)
	if err != nil {
		return nil, fmt.Errorf("engine: composing prompt: %w", err)
	}

	text, err := e.generator.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("engine: generating answer: %w", err)
	}

	citations := make([]Citation, len(passages))
	for i, p := range passages {
		citations[i] = Citation{
			Label:      fmt.Sprintf("Context %d", i+1),
			Text:       p.Text,
			Score:      p.Score,
			ChunkIndex: p.Index,
		}
	}

	log.Info("answer generated",
		slog.String("document_id", documentID),
		slog.String("level", string(level)),
		slog.Int("citations", len(citations)),
	)

	return &Answer{DocumentID: documentID, Text: text, Citations: citations}, nil
}
