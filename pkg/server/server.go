// Package server exposes the conversion pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness and build version
//	GET  /v1/shapes      names of the loaded shape templates
//	POST /v1/convert     Dia file or .shape in, flat ODG out
//	POST /v1/graph       connectivity graph as json, dot, svg or png
//	POST /v1/analyze     conversion summary and diagnostics as JSON
//
// Uploads are either the raw file as the request body or a multipart
// form with a "file" field. Query parameters: name, indent, refresh,
// detailed and, for /v1/graph, format.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/diaconv/pkg/fonts"
	"github.com/matzehuels/diaconv/pkg/pipeline"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

// Defaults for the options.
const (
	DefaultMaxUpload = 32 << 20
	DefaultTimeout   = 30 * time.Second
)

// Server serves conversions. Create it with [New].
type Server struct {
	runner    *pipeline.Runner
	templates *stencil.Library
	fonts     fonts.Measurer
	router    route.Config
	logger    *log.Logger
	maxUpload int64
	timeout   time.Duration
	handler   http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTemplates sets the shape template library used for every request.
func WithTemplates(l *stencil.Library) Option {
	return func(s *Server) { s.templates = l }
}

// WithFontMetrics sets the text measurer.
func WithFontMetrics(m fonts.Measurer) Option {
	return func(s *Server) { s.fonts = m }
}

// WithRouteConfig sets the router constants.
func WithRouteConfig(c route.Config) Option {
	return func(s *Server) { s.router = c }
}

// WithMaxUpload bounds request bodies, in bytes.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithTimeout bounds the work done for one request. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New returns a server that converts through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:    runner,
		logger:    log.New(io.Discard),
		router:    route.DefaultConfig(),
		maxUpload: DefaultMaxUpload,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/shapes", s.handleShapes)
		r.Post("/convert", s.handleConvert)
		r.Post("/graph", s.handleGraph)
		r.Post("/analyze", s.handleAnalyze)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
