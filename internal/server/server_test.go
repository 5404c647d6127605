package server

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/paperlens/paperlens-go/internal/engine"
	"github.com/paperlens/paperlens-go/internal/prompt"
	"github.com/paperlens/paperlens-go/internal/store"
)

// fakeAnswerer implements the answerer interface for handler tests.
// It records the arguments of the last call and returns configurable values.
type fakeAnswerer struct {
	// answer is returned when err is nil.
	answer *engine.Answer
	// err is returned as the error value.
	err error
	// gotDocumentID, gotQuestion, gotLevel, and gotHistory record the last call.
	gotDocumentID string
	gotQuestion   string
	gotLevel      prompt.Level
	gotHistory    []prompt.Turn
}

func (f *fakeAnswerer) Answer(_ context.Context, documentID, question string, level prompt.Level, history []prompt.Turn) (*engine.Answer, error) {
	f.gotDocumentID = documentID
	f.gotQuestion = question
	f.gotLevel = level
	f.gotHistory = history
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

// fakeLibrary implements the library interface for handler tests.
type fakeLibrary struct {
	// doc is returned by Ingest when ingestErr is nil.
	doc store.Document
	// ingestErr is returned by Ingest.
	ingestErr error
	// docs is returned by List when listErr is nil.
	docs []store.Document
	// listErr is returned by List.
	listErr error
	// deleteErr is returned by Delete.
	deleteErr error
	// deletedIDs records every id passed to Delete.
	deletedIDs []string
}

func (f *fakeLibrary) Ingest(_ context.Context, _, _ string, _ int) (store.Document, error) {
	if f.ingestErr != nil {
		return store.Document{}, f.ingestErr
	}
	return f.doc, nil
}

func (f *fakeLibrary) Delete(_ context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

func (f *fakeLibrary) List(_ context.Context) ([]store.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

// newTestServer builds a *Server with fakes and a fresh metrics registry so
// tests stay hermetic. Individual tests overwrite the fakes as needed.
func newTestServer() *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		answerer: &fakeAnswerer{},
		library:  &fakeLibrary{},
		cfg: &Config{
			Port:           8080,
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		log:     slog.Default(),
		metrics: newServerMetrics(reg),
	}
}
