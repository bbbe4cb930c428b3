package api

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lvillar/pdfnumber"
	"github.com/lvillar/pdfnumber/internal/config"
)

// Server is the HTTP API server for pdfnumber.
type Server struct {
	router chi.Router
	log    *slog.Logger
	cfg    config.Config
	layout pdfnumber.Layout
	opts   []pdfnumber.Option
	help   template.HTML
}

// NewServer creates and configures the HTTP server. cfg must have passed
// Validate.
func NewServer(log *slog.Logger, cfg config.Config) *Server {
	layout, _ := pdfnumber.ParseLayout(cfg.Layout)
	s := &Server{
		log:    log,
		cfg:    cfg,
		layout: layout,
		opts:   cfg.Options(),
		help:   renderHelp(log, layout, cfg.Strict),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Browsers cannot attach a bearer token, so the form is only served
	// when the API is open.
	if s.cfg.APIKey == "" {
		r.Get("/", s.handleForm)
	}

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/number", s.handleNumber)
		r.Post("/api/preview", s.handlePreview)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
