// Package generator runs composed prompts against the configured chat models.
// It owns the fallback policy: the primary model is tried once, and on any
// failure the secondary model is tried exactly once. There is no backoff and
// no third attempt.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/paperlens/paperlens-go/internal/logging"
)

// ErrGenerationFailure is returned when the primary model and the fallback
// (when configured) have both failed. It wraps both underlying errors.
var ErrGenerationFailure = errors.New("generator: generation failed")

// ChatModel is the narrow surface the generator needs from an eino chat
// model. Tests inject fakes; production code passes the models built by the
// provider package.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Generator sends messages to the primary model with a single fallback.
type Generator struct {
	primary  ChatModel
	fallback ChatModel

	// primaryName and fallbackName are the model identifiers, used only for
	// log context.
	primaryName  string
	fallbackName string
}

// New constructs a Generator. fallback may be nil, in which case a primary
// failure is immediately a generation failure.
func New(primary ChatModel, fallback ChatModel, primaryName, fallbackName string) (*Generator, error) {
	if primary == nil {
		return nil, fmt.Errorf("generator: primary model must not be nil")
	}
	return &Generator{
		primary:      primary,
		fallback:     fallback,
		primaryName:  primaryName,
		fallbackName: fallbackName,
	}, nil
}

// Generate runs the composed messages against the primary model, falling
// back to the secondary model exactly once on any primary failure. Both
// failing returns ErrGenerationFailure wrapping the two errors.
func (g *Generator) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	log := logging.FromContext(ctx)

	out, primaryErr := g.primary.Generate(ctx, messages)
	if primaryErr == nil {
		return out.Content, nil
	}

	if g.fallback == nil {
		return "", fmt.Errorf("%w: model %s: %w", ErrGenerationFailure, g.primaryName, primaryErr)
	}

	log.Warn("generator: primary model failed, trying fallback",
		slog.String("primary", g.primaryName),
		slog.String("fallback", g.fallbackName),
		slog.String("error", primaryErr.Error()),
	)

	out, fallbackErr := g.fallback.Generate(ctx, messages)
	if fallbackErr == nil {
		return out.Content, nil
	}

	return "", fmt.Errorf("%w: primary %s: %w; fallback %s: %w",
		ErrGenerationFailure, g.primaryName, primaryErr, g.fallbackName, fallbackErr)
}
