package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/paperlens/paperlens-go/internal/logging"
)

// probeTimeout bounds each dependency probe so /api/ready answers promptly
// even when a dependency hangs instead of refusing.
const probeTimeout = 5 * time.Second

// Pinger reports the reachability of one backing dependency. Ping returns
// nil when the dependency is healthy and a descriptive error otherwise;
// Name is the short label shown in readiness responses ("qdrant",
// "embedder"). Implementations must be safe for concurrent use.
type Pinger interface {
	Ping(ctx context.Context) error
	Name() string
}

// readyCheck is one dependency's probe outcome in the ready response.
type readyCheck struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readyResponse is the body of GET /api/ready. Ready is the conjunction of
// every check.
type readyResponse struct {
	Ready  bool         `json:"ready"`
	Checks []readyCheck `json:"checks"`
}

// handleHealth is the liveness endpoint: the process is up and serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleReady probes every registered dependency and answers 200 when all
// are reachable, 503 otherwise. This is the endpoint load balancers and
// orchestration should gate traffic on; /api/health only says the process
// is alive.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	resp := readyResponse{Ready: true, Checks: make([]readyCheck, 0, len(s.pingers))}
	for _, p := range s.pingers {
		if err := probe(r.Context(), p); err != nil {
			resp.Ready = false
			resp.Checks = append(resp.Checks, readyCheck{Name: p.Name(), Error: err.Error()})
			log.Warn("readiness probe failed",
				slog.String("dependency", p.Name()),
				slog.Any("error", err),
			)
			continue
		}
		resp.Checks = append(resp.Checks, readyCheck{Name: p.Name(), OK: true})
	}

	w.Header().Set("Content-Type", "application/json")
	if !resp.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("ready encode error", slog.Any("error", err))
	}
}

// probe runs a single pinger under the probe timeout.
func probe(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return p.Ping(ctx)
}
