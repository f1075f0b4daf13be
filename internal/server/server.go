// Package server assembles the HTTP surface: category listing routes, the
// contact/newsletter relay, health, version and metrics endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/climbe/ri-backend/internal/mail"
	"github.com/climbe/ri-backend/internal/server/handlers"
	"github.com/climbe/ri-backend/pkg/catalog"
	"github.com/climbe/ri-backend/pkg/listing"
)

// Deps carries everything the HTTP surface needs. All fields are required
// except Health.
type Deps struct {
	Registry       *catalog.Registry
	Aggregator     *listing.Aggregator
	Pages          *listing.Builder
	Sender         mail.Sender
	Health         *handlers.HealthManager
	AllowedOrigins []string
	Version        string
	Log            *zap.Logger
}

// Server is the HTTP server. Stateless between requests; the category
// registry is immutable after construction.
type Server struct {
	host string
	port int

	router chi.Router
	log    *zap.Logger

	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
}

// Option adjusts server construction.
type Option func(*Server)

// WithTimeouts sets the listener timeouts.
func WithTimeouts(read, write, idle, shutdown time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
		s.idleTimeout = idle
		s.shutdownTimeout = shutdown
	}
}

// New creates a server with all routes registered.
func New(host string, port int, deps Deps, opts ...Option) *Server {
	s := &Server{
		host:            host,
		port:            port,
		log:             deps.Log,
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		idleTimeout:     120 * time.Second,
		shutdownTimeout: 10 * time.Second,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter(deps)
	return s
}

// Handler returns the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

func (s *Server) buildRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeErrorJSON(w, http.StatusNotFound, "Rota nao encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "Metodo nao permitido")
	})

	files := handlers.NewFiles(deps.Aggregator, deps.Pages, s.log)
	contact := handlers.NewContact(deps.Sender, s.log)

	r.Route("/api/ri", func(g chi.Router) {
		mountCategories(g, files, deps.Registry.Group(catalog.GroupRI))
	})
	r.Route("/api/arquivos", func(g chi.Router) {
		mountCategories(g, files, deps.Registry.Group(catalog.GroupArquivos))
	})

	r.Post("/api/contato", contact.Contato)
	r.Post("/api/newsletter", contact.Newsletter)

	if deps.Health != nil {
		r.Get("/health", deps.Health.HealthHandler)
		r.Get("/health/live", deps.Health.LiveHandler)
		r.Get("/health/ready", deps.Health.ReadyHandler)
	}

	r.Get("/version", func(w http.ResponseWriter, req *http.Request) {
		writeVersionJSON(w, deps.Version)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// mountCategories registers the paginated and getAll routes for each
// category in a route group.
func mountCategories(g chi.Router, files *handlers.Files, categories []catalog.Category) {
	for _, cat := range categories {
		g.Get("/"+cat.Name, files.Paginated(cat))
		g.Get("/"+cat.Name+"/getAll", files.GetAll(cat))
	}
}

// Start runs the server until ctx is cancelled, then drains connections
// within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.log.Info("http server draining")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// requestLogger logs one line per request with latency and status.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

func writeErrorJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}

func writeVersionJSON(w http.ResponseWriter, version string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"version":%q}`, version)
}
