package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/scandoc/internal/document"
)

// Config is the complete configuration for scandoc. Values load from a
// config file, environment variables, and command-line flags, in ascending
// priority.
type Config struct {
	// DataDir holds the document store and managed page images.
	DataDir  string `mapstructure:"data_dir" yaml:"data_dir" json:"data_dir"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	OCR    OCRConfig    `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
	Export ExportConfig `mapstructure:"export" yaml:"export" json:"export"`
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// OCRConfig configures the recognition adapters.
type OCRConfig struct {
	// ServiceURL is the base URL of the primary OCR service.
	ServiceURL string `mapstructure:"service_url" yaml:"service_url" json:"service_url"`

	// Languages are BCP 47 tags passed to the engines.
	Languages []string `mapstructure:"languages" yaml:"languages" json:"languages"`

	// PageTimeout bounds one page recognition call.
	PageTimeout time.Duration `mapstructure:"page_timeout" yaml:"page_timeout" json:"page_timeout"`

	// EnableFallback turns on the text-only Tesseract tier.
	EnableFallback bool `mapstructure:"enable_fallback" yaml:"enable_fallback" json:"enable_fallback"`
}

// ExportConfig configures PDF assembly.
type ExportConfig struct {
	// QualityProfile is the default profile for documents that don't pick
	// their own.
	QualityProfile string `mapstructure:"quality_profile" yaml:"quality_profile" json:"quality_profile"`

	// OutputDir is where exported PDFs land when the caller gives a bare
	// filename.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host         string        `mapstructure:"host" yaml:"host" json:"host"`
	Port         int           `mapstructure:"port" yaml:"port" json:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:  defaultDataDir(),
		LogLevel: "info",
		OCR: OCRConfig{
			ServiceURL:     "http://localhost:8090",
			Languages:      []string{"en"},
			PageTimeout:    30 * time.Second,
			EnableFallback: true,
		},
		Export: ExportConfig{
			QualityProfile: document.ProfileColorMedium,
			OutputDir:      ".",
		},
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.OCR.ServiceURL == "" {
		return fmt.Errorf("ocr.service_url must be set")
	}
	if c.OCR.PageTimeout <= 0 {
		return fmt.Errorf("ocr.page_timeout must be positive, got %v", c.OCR.PageTimeout)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d outside 1-65535", c.Server.Port)
	}
	if p := c.Export.QualityProfile; p != "" && document.ProfileByName(p).Name != p {
		return fmt.Errorf("unknown export.quality_profile %q", p)
	}
	return nil
}

// StorePath returns the path of the document store file.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "documents.json")
}

// PagesDir returns the directory for managed page images.
func (c *Config) PagesDir() string {
	return filepath.Join(c.DataDir, "pages")
}
