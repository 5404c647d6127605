package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/paperlens/paperlens-go/internal/logging"
)

// handleDocuments handles GET /api/documents. It returns the catalog
// listing, newest first.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	docs, err := s.library.List(r.Context())
	if err != nil {
		log.Error("document listing failed", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := documentsResponse{Documents: make([]documentInfo, 0, len(docs))}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, toDocumentInfo(doc))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("documents encode error", slog.Any("error", err))
	}
}

// handleDocumentDelete handles DELETE /api/documents/{id}. Deletion is
// idempotent: removing an unknown document still returns 204.
func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "document id is required", http.StatusBadRequest)
		return
	}

	if err := s.library.Delete(r.Context(), id); err != nil {
		log.Error("document deletion failed",
			slog.String("document_id", id),
			slog.Any("error", err),
		)
		http.Error(w, "deletion failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
