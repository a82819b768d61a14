// Package server exposes the document pipeline over HTTP: document listing,
// OCR enqueue/cancel, PDF export, a websocket event stream, and Prometheus
// metrics.
package server

import (
	"net/http"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/scandoc/internal/assemble"
	"github.com/MeKo-Tech/scandoc/internal/queue"
	"github.com/MeKo-Tech/scandoc/internal/store"
)

// Config holds server configuration. Listener settings (address, timeouts)
// belong to the http.Server the caller builds around SetupRoutes.
type Config struct {
	// ExportDir receives exported PDFs requested through the API.
	ExportDir string
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	store     store.Store
	queue     *queue.Queue
	assembler *assemble.Assembler
	exportDir string
}

// NewServer wires the server to its collaborators.
func NewServer(cfg Config, st store.Store, q *queue.Queue, a *assemble.Assembler) *Server {
	dir := cfg.ExportDir
	if dir == "" {
		dir = "."
	}
	return &Server{
		store:     st,
		queue:     q,
		assembler: a,
		exportDir: filepath.Clean(dir),
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.withMetrics(s.healthHandler))
	mux.HandleFunc("/documents", s.withMetrics(s.documentsHandler))
	mux.HandleFunc("/documents/{id}", s.withMetrics(s.documentHandler))
	mux.HandleFunc("/documents/{id}/ocr", s.withMetrics(s.ocrHandler))
	mux.HandleFunc("/documents/{id}/export", s.withMetrics(s.exportHandler))
	mux.HandleFunc("/events", s.eventsHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
