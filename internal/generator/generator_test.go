package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeModel counts calls and returns either a canned answer or an error.
type fakeModel struct {
	answer string
	err    error
	calls  int
}

func (f *fakeModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.answer, nil), nil
}

func Test_Generate_PrimarySucceeds(t *testing.T) {
	t.Parallel()
	primary := &fakeModel{answer: "from primary"}
	fallback := &fakeModel{answer: "from fallback"}
	g, err := New(primary, fallback, "big", "small")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := g.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "from primary" {
		t.Errorf("answer = %q, want from primary", got)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times on primary success, want 0", fallback.calls)
	}
}

func Test_Generate_FallbackUsedOnce(t *testing.T) {
	t.Parallel()
	primary := &fakeModel{err: errors.New("rate limited")}
	fallback := &fakeModel{answer: "from fallback"}
	g, err := New(primary, fallback, "big", "small")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := g.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "from fallback" {
		t.Errorf("answer = %q, want from fallback", got)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = primary %d / fallback %d, want 1 / 1", primary.calls, fallback.calls)
	}
}

func Test_Generate_BothFail(t *testing.T) {
	t.Parallel()
	primary := &fakeModel{err: errors.New("primary down")}
	fallback := &fakeModel{err: errors.New("fallback down")}
	g, err := New(primary, fallback, "big", "small")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = g.Generate(context.Background(), nil)
	if !errors.Is(err, ErrGenerationFailure) {
		t.Fatalf("want ErrGenerationFailure, got %v", err)
	}
	// Both underlying causes must be visible to the caller.
	if !strings.Contains(err.Error(), "primary down") || !strings.Contains(err.Error(), "fallback down") {
		t.Errorf("error does not wrap both causes: %v", err)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = primary %d / fallback %d, want exactly 1 / 1 (no retries)", primary.calls, fallback.calls)
	}
}

func Test_Generate_NoFallbackConfigured(t *testing.T) {
	t.Parallel()
	primary := &fakeModel{err: errors.New("primary down")}
	g, err := New(primary, nil, "big", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = g.Generate(context.Background(), nil)
	if !errors.Is(err, ErrGenerationFailure) {
		t.Fatalf("want ErrGenerationFailure, got %v", err)
	}
	if primary.calls != 1 {
		t.Errorf("primary called %d times, want 1", primary.calls)
	}
}

func Test_New_RequiresPrimary(t *testing.T) {
	t.Parallel()
	if _, err := New(nil, &fakeModel{}, "", ""); err == nil {
		t.Fatal("want error for nil primary model")
	}
}
