// Command pdfnumber-server serves the page numbering upload form and HTTP API.
//
// Settings come from the environment, optionally loaded from a .env file in
// the working directory:
//
//	PORT                 listen port (8090)
//	PDFNUMBER_API_KEY    bearer token required on /api when set
//	MAX_UPLOAD_BYTES     upload limit (52428800)
//	PDFNUMBER_LAYOUT     combined or split (combined)
//	PDFNUMBER_STRICT     reject malformed ranges (false)
//	PDFNUMBER_FONT       label font family (Helvetica)
//	PDFNUMBER_FONT_SIZE  label font size in points (12)
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lvillar/pdfnumber/internal/api"
	"github.com/lvillar/pdfnumber/internal/config"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err == nil {
		log.Info("loaded .env")
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Warn("reading .env", "error", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		log.Warn("PDFNUMBER_API_KEY not set, API is unauthenticated")
	}

	srv := api.NewServer(log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting pdfnumber", "port", cfg.Port, "layout", cfg.Layout, "strict", cfg.Strict)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
