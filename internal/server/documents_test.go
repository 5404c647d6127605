package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paperlens/paperlens-go/internal/store"
)

// ---------------------------------------------------------------------------
// GET /api/documents
// ---------------------------------------------------------------------------

func TestHandleDocuments_Empty(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	w := httptest.NewRecorder()

	s.handleDocuments(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp documentsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Documents == nil {
		t.Error("expected empty array, got null")
	}
	if len(resp.Documents) != 0 {
		t.Errorf("expected 0 documents, got %d", len(resp.Documents))
	}
}

func TestHandleDocuments_Listing(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	s := newTestServer()
	s.library = &fakeLibrary{
		docs: []store.Document{
			{ID: "doc-2", Filename: "b.pdf", Pages: 8, Chunks: 12, CreatedAt: now},
			{ID: "doc-1", Filename: "a.txt", Chunks: 3, CreatedAt: now.Add(-time.Hour)},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	w := httptest.NewRecorder()

	s.handleDocuments(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp documentsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(resp.Documents))
	}
	if resp.Documents[0].ID != "doc-2" || resp.Documents[1].ID != "doc-1" {
		t.Errorf("order: got %q, %q", resp.Documents[0].ID, resp.Documents[1].ID)
	}
	if resp.Documents[0].Pages != 8 {
		t.Errorf("pages: expected 8, got %d", resp.Documents[0].Pages)
	}
}

func TestHandleDocuments_ListError(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.library = &fakeLibrary{listErr: errors.New("catalog unavailable")}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	w := httptest.NewRecorder()

	s.handleDocuments(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// DELETE /api/documents/{id}
// ---------------------------------------------------------------------------

// deleteDocument routes the request through a mux so the {id} path value is
// populated the same way it is in production.
func deleteDocument(s *Server, id string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDocumentDelete)

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/"+id, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleDocumentDelete_Success(t *testing.T) {
	t.Parallel()

	lib := &fakeLibrary{}
	s := newTestServer()
	s.library = lib

	w := deleteDocument(s, "doc-1")

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(lib.deletedIDs) != 1 || lib.deletedIDs[0] != "doc-1" {
		t.Errorf("deleted ids: got %v", lib.deletedIDs)
	}
}

// TestHandleDocumentDelete_Idempotent verifies that deleting the same id
// twice returns 204 both times.
func TestHandleDocumentDelete_Idempotent(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	for i := range 2 {
		w := deleteDocument(s, "doc-missing")
		if w.Code != http.StatusNoContent {
			t.Errorf("delete %d: expected 204, got %d", i, w.Code)
		}
	}
}

func TestHandleDocumentDelete_Error(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	s.library = &fakeLibrary{deleteErr: errors.New("index unreachable")}

	w := deleteDocument(s, "doc-1")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
