package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/scandoc/internal/config"
	"github.com/MeKo-Tech/scandoc/internal/ocr"
	"github.com/MeKo-Tech/scandoc/internal/store"
	"github.com/MeKo-Tech/scandoc/internal/version"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scandoc",
	Short: "Scanned document manager with OCR and searchable PDF export",
	Long: `scandoc manages scanned documents: it imports page images or PDFs,
runs OCR against a recognition service, and exports searchable PDFs with an
invisible text layer over each page image.

Examples:
  scandoc import scan.pdf --title "Invoice March"
  scandoc ocr 4f2c1a...
  scandoc export 4f2c1a... --output invoice.pdf
  scandoc serve --port 8080`,
	Version: version.String(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME/.scandoc, $HOME, /etc/scandoc)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the document store and page images")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}

		var logLevel slog.Level
		switch globalConfig.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the loaded configuration.
func getConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}
	return globalConfig
}

// openStore opens the document store under the configured data directory,
// creating the directory layout on first use.
func openStore(cfg *config.Config) (*store.FileStore, error) {
	if err := os.MkdirAll(cfg.PagesDir(), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.NewFileStore(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return st, nil
}

// newRecognizer builds the recognition stack from the configuration: the
// HTTP service adapter with a per-page timeout, plus the text-only Tesseract
// tier when the fallback is enabled.
func newRecognizer(cfg *config.Config) (ocr.Recognizer, error) {
	primary, err := ocr.NewHTTPRecognizer(cfg.OCR.ServiceURL, cfg.OCR.Languages, http.DefaultClient)
	if err != nil {
		return nil, fmt.Errorf("configure OCR service: %w", err)
	}
	rec := ocr.WithTimeout(primary, cfg.OCR.PageTimeout)
	if cfg.OCR.EnableFallback {
		fallback := ocr.WithTimeout(ocr.NewTesseractRecognizer(cfg.OCR.Languages), cfg.OCR.PageTimeout)
		rec = &ocr.Tiered{Primary: rec, Fallback: fallback}
	}
	return rec, nil
}
