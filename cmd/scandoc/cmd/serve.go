package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scandoc/internal/assemble"
	"github.com/MeKo-Tech/scandoc/internal/filter"
	"github.com/MeKo-Tech/scandoc/internal/queue"
	"github.com/MeKo-Tech/scandoc/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the document API.

The server provides the following endpoints:
  GET    /documents                 - List documents
  GET    /documents/{id}            - Get one document
  POST   /documents/{id}/ocr        - Enqueue an OCR run
  DELETE /documents/{id}/ocr        - Cancel an OCR run
  POST   /documents/{id}/export     - Export a searchable PDF
  GET    /events                    - OCR progress over websocket
  GET    /health                    - Health check
  GET    /metrics                   - Prometheus metrics

Examples:
  scandoc serve
  scandoc serve --host 0.0.0.0 --port 3000`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		rec, err := newRecognizer(cfg)
		if err != nil {
			return err
		}

		q := queue.New(st, rec)
		a := assemble.New(&filter.ImagingProcessor{OutDir: cfg.PagesDir()})

		exportDir := cfg.Export.OutputDir
		if err := os.MkdirAll(exportDir, 0o750); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}

		srv := server.NewServer(server.Config{ExportDir: exportDir}, st, q, a)

		mux := http.NewServeMux()
		srv.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go func() {
			slog.Info("Starting server", "host", host, "port", port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		slog.Info("Shutting down HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}

		// Stop the worker after the HTTP server so no new runs arrive while
		// the active one is drained.
		q.Close()

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
}
