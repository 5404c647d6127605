package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paperlens/paperlens-go/internal/rag"
)

// newMetricsTestServer builds a Server backed by a fresh isolated registry so
// tests do not pollute prometheus.DefaultRegisterer.
func newMetricsTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := newTestServer()
	s.metrics = newServerMetrics(reg)
	return s, reg
}

func Test_Metrics_EndpointReturns200(t *testing.T) {
	t.Parallel()
	_, reg := newMetricsTestServer(t)

	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/metrics", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("want 200, got %d", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("want text/plain content-type, got %q", ct)
	}
}

// Test_Metrics_ChatOutcomeCounter verifies that a completed chat request
// increments the chat counter with the right outcome label.
func Test_Metrics_ChatOutcomeCounter(t *testing.T) {
	t.Parallel()
	s, reg := newMetricsTestServer(t)
	s.answerer = &fakeAnswerer{err: fmt.Errorf("answer: %w", rag.ErrUnknownDocument)}

	w := postChat(s, `{"document_id":"missing","question":"q"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	if got := counterValue(t, reg, "paperlens_chat_requests_total", "outcome", "not_found"); got != 1 {
		t.Errorf("want counter=1, got %v", got)
	}
}

// Test_Metrics_UploadOutcomeCounter verifies that a rejected upload
// increments the upload counter with the right outcome label.
func Test_Metrics_UploadOutcomeCounter(t *testing.T) {
	t.Parallel()
	s, reg := newMetricsTestServer(t)

	w := postUpload(t, s, "paper.docx", "content")
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}

	if got := counterValue(t, reg, "paperlens_upload_requests_total", "outcome", "unsupported"); got != 1 {
		t.Errorf("want counter=1, got %v", got)
	}
}

// counterValue gathers reg and returns the value of the named counter with
// the given label pair, or 0 when absent.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
