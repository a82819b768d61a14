package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/scandoc/internal/store"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ExportResponse reports where an exported PDF landed.
type ExportResponse struct {
	DocumentID string `json:"document_id"`
	Path       string `json:"path"`
}

// ExportRequest optionally overrides the output filename.
type ExportRequest struct {
	Filename string `json:"filename,omitempty"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// documentsHandler lists all documents.
func (s *Server) documentsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	docs, err := s.store.Load(r.Context())
	if err != nil {
		s.writeError(w, "Failed to load documents", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, docs)
}

// documentHandler returns a single document.
func (s *Server) documentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	doc, err := store.Get(r.Context(), s.store, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, "Document not found", http.StatusNotFound)
			return
		}
		s.writeError(w, "Failed to load document", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// ocrHandler enqueues (POST) or cancels (DELETE) an OCR run.
func (s *Server) ocrHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodPost:
		if err := s.queue.Enqueue(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.writeError(w, "Document not found", http.StatusNotFound)
				return
			}
			s.writeError(w, "Failed to enqueue document", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	case http.MethodDelete:
		if err := s.queue.Cancel(r.Context(), id); err != nil {
			s.writeError(w, "Failed to cancel OCR", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// exportHandler assembles the document's PDF and returns its path.
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.PathValue("id")

	doc, err := store.Get(r.Context(), s.store, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, "Document not found", http.StatusNotFound)
			return
		}
		s.writeError(w, "Failed to load document", http.StatusInternalServerError)
		return
	}

	var req ExportRequest
	if r.Body != nil {
		// An empty or absent body keeps the default filename.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	filename := req.Filename
	if filename == "" {
		filename = doc.ID + ".pdf"
	}
	outPath := filepath.Join(s.exportDir, filepath.Base(filename))

	start := time.Now()
	path, err := s.assembler.Export(r.Context(), doc, outPath)
	if err != nil {
		slog.Error("export failed", "document_id", id, "error", err)
		s.writeError(w, "PDF export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	exportDuration.Observe(time.Since(start).Seconds())

	s.writeJSON(w, http.StatusOK, ExportResponse{DocumentID: id, Path: path})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, msg string, status int) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
