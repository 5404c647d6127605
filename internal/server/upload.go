package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/paperlens/paperlens-go/internal/extract"
	"github.com/paperlens/paperlens-go/internal/lifecycle"
	"github.com/paperlens/paperlens-go/internal/logging"
)

// handleUpload handles POST /api/upload. It accepts one multipart file part
// named "file", extracts its text, and ingests it into the index and catalog.
// Returns 201 with the catalog record on success.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || r.ContentLength > s.cfg.MaxUploadBytes {
			s.observeUpload("too_large", start)
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.observeUpload("bad_request", start)
		http.Error(w, "multipart file part \"file\" is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	extractor, err := extract.ForFilename(header.Filename)
	if err != nil {
		s.observeUpload("unsupported", start)
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	result, err := extractor.Extract(r.Context(), file)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			s.observeUpload("no_text", start)
			http.Error(w, "document contains no extractable text", http.StatusUnprocessableEntity)
			return
		}
		s.observeUpload("error", start)
		log.Error("text extraction failed",
			slog.String("filename", header.Filename),
			slog.Any("error", err),
		)
		http.Error(w, "text extraction failed", http.StatusInternalServerError)
		return
	}

	doc, err := s.library.Ingest(r.Context(), result.Text, header.Filename, result.Pages)
	if err != nil {
		if errors.Is(err, lifecycle.ErrIngestFailure) {
			s.observeUpload("ingest_failure", start)
			log.Error("ingestion failed",
				slog.String("filename", header.Filename),
				slog.Any("error", err),
			)
			http.Error(w, "ingestion failed", http.StatusUnprocessableEntity)
			return
		}
		s.observeUpload("error", start)
		log.Error("upload failed", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.observeUpload("ok", start)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDocumentInfo(doc)); err != nil {
		log.Error("upload encode error", slog.Any("error", err))
	}
}

// observeUpload records one completed upload request against the server metrics.
func (s *Server) observeUpload(outcome string, start time.Time) {
	s.metrics.uploadsTotal.WithLabelValues(outcome).Inc()
	s.metrics.uploadDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
