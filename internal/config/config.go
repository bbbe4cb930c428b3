package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lvillar/pdfnumber"
	"github.com/lvillar/pdfnumber/interval"
	"github.com/lvillar/pdfnumber/pageops"
)

type Config struct {
	Port string

	// Auth; empty disables bearer checks on /api
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	// Numbering defaults
	Layout   string
	Strict   bool
	Font     string
	FontSize float64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PDFNUMBER_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		Layout:   envOr("PDFNUMBER_LAYOUT", "combined"),
		Strict:   envBool("PDFNUMBER_STRICT", false),
		Font:     envOr("PDFNUMBER_FONT", "Helvetica"),
		FontSize: envFloat("PDFNUMBER_FONT_SIZE", 12),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := pdfnumber.ParseLayout(c.Layout); err != nil {
		return fmt.Errorf("PDFNUMBER_LAYOUT: %w", err)
	}
	if _, err := pageops.CoreFont(c.Font, ""); err != nil {
		return fmt.Errorf("PDFNUMBER_FONT: %w", err)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("PDFNUMBER_FONT_SIZE must be positive, got %g", c.FontSize)
	}
	return nil
}

// Options converts the numbering defaults into library options. Call Validate
// first; an invalid layout falls back to the combined layout.
func (c Config) Options() []pdfnumber.Option {
	layout, _ := pdfnumber.ParseLayout(c.Layout)
	mode := interval.Lenient
	if c.Strict {
		mode = interval.Strict
	}
	return []pdfnumber.Option{
		pdfnumber.WithLayout(layout),
		pdfnumber.WithMode(mode),
		pdfnumber.WithFont(c.Font, "", c.FontSize),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
