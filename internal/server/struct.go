package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/paperlens/paperlens-go/internal/engine"
	"github.com/paperlens/paperlens-go/internal/prompt"
	"github.com/paperlens/paperlens-go/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// MaxUploadBytes caps the size of an uploaded document.
	// Defaults to 50 MiB if zero.
	MaxUploadBytes int64
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// MetricsRegistry receives the server's Prometheus metrics. Defaults to
	// prometheus.DefaultRegisterer; tests inject a fresh registry.
	MetricsRegistry prometheus.Registerer
	// MetricsGatherer backs GET /metrics. Defaults to prometheus.DefaultGatherer.
	MetricsGatherer prometheus.Gatherer
}

// answerer is the interface handleChat calls to answer a question.
// *engine.Engine satisfies it; tests inject a fake.
type answerer interface {
	Answer(ctx context.Context, documentID, question string, level prompt.Level, history []prompt.Turn) (*engine.Answer, error)
}

// library is the interface the upload, list, and delete handlers call to
// manage document lifecycle. *lifecycle.Manager satisfies it; tests inject
// a fake.
type library interface {
	Ingest(ctx context.Context, text, filename string, pages int) (store.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]store.Document, error)
}

// Server is the HTTP server that exposes the document Q&A pipeline.
type Server struct {
	// answerer handles POST /api/chat.
	answerer answerer
	// library handles upload, list, and delete.
	library library
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the server's Prometheus instruments.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// chatTurn is one prior conversation message in a chat request.
type chatTurn struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
}

// chatRequest is the JSON body for POST /api/chat.
type chatRequest struct {
	// DocumentID identifies the document to query.
	DocumentID string `json:"document_id"`
	// Question is the user's question about the document.
	Question string `json:"question"`
	// Level selects the explanation style; empty means the default.
	Level string `json:"level,omitempty"`
	// History is the prior conversation, oldest first.
	History []chatTurn `json:"history,omitempty"`
}

// documentInfo is the JSON shape of one catalog entry in API responses.
type documentInfo struct {
	// ID is the generated document id.
	ID string `json:"id"`
	// Filename is the original upload filename.
	Filename string `json:"filename"`
	// Pages is the page count reported by extraction, 0 when unknown.
	Pages int `json:"pages"`
	// Chunks is the number of chunks indexed for the document.
	Chunks int `json:"chunks"`
	// CreatedAt is when ingestion completed, RFC 3339.
	CreatedAt time.Time `json:"created_at"`
}

// documentsResponse is the JSON body for GET /api/documents.
type documentsResponse struct {
	// Documents is the catalog listing, newest first.
	Documents []documentInfo `json:"documents"`
}

// toDocumentInfo converts a catalog record to its API shape.
func toDocumentInfo(doc store.Document) documentInfo {
	return documentInfo{
		ID:        doc.ID,
		Filename:  doc.Filename,
		Pages:     doc.Pages,
		Chunks:    doc.Chunks,
		CreatedAt: doc.CreatedAt,
	}
}
