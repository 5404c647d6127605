package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/paperlens/paperlens-go/internal/generator"
	"github.com/paperlens/paperlens-go/internal/logging"
	"github.com/paperlens/paperlens-go/internal/prompt"
	"github.com/paperlens/paperlens-go/internal/rag"
)

// handleChat handles POST /api/chat. It answers a question about one
// previously ingested document and returns the answer with its citations.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	start := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.observeChat("bad_request", start)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" {
		s.observeChat("bad_request", start)
		http.Error(w, "document_id is required", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		s.observeChat("bad_request", start)
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	level, err := prompt.ParseLevel(req.Level)
	if err != nil {
		s.observeChat("bad_request", start)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	history := make([]prompt.Turn, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, prompt.Turn{Role: t.Role, Content: t.Content})
	}

	answer, err := s.answerer.Answer(r.Context(), req.DocumentID, req.Question, level, history)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrUnknownDocument):
			s.observeChat("not_found", start)
			http.Error(w, "unknown document", http.StatusNotFound)
		case errors.Is(err, generator.ErrGenerationFailure):
			s.observeChat("generation_failure", start)
			log.Error("answer generation failed", slog.Any("error", err))
			http.Error(w, "answer generation failed", http.StatusBadGateway)
		default:
			s.observeChat("error", start)
			log.Error("chat request failed", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	s.observeChat("ok", start)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(answer); err != nil {
		log.Error("chat encode error", slog.Any("error", err))
	}
}

// observeChat records one completed chat request against the server metrics.
func (s *Server) observeChat(outcome string, start time.Time) {
	s.metrics.chatRequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.chatDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
