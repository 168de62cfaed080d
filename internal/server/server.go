// Package server exposes the workflow controller to a browser.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/workflow"
)

const (
	DefaultAddr = ":8080"

	shutdownTimeout = 5 * time.Second
)

//go:embed static/index.html
var static embed.FS

type Config struct {
	Addr           string
	AllowedOrigins []string
}

type Server struct {
	controller *workflow.Controller
	config     Config
	logger     *zap.Logger

	// mu guards runCtx and draining. runCtx bounds background runs and is
	// replaced by Run with the server lifetime context.
	mu       sync.Mutex
	runCtx   context.Context
	draining bool
	runs     sync.WaitGroup
}

func New(controller *workflow.Controller, cfg Config, log *zap.Logger) *Server {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = DefaultAddr
	}

	return &Server{
		controller: controller,
		config:     cfg,
		logger:     logger.WithFields(log, zap.String("component", "server")),
		runCtx:     context.Background(),
	}
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, s.requestLogger)

	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/start", s.handleStart)
		r.Post("/reset", s.handleReset)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return c.Handler(r)
}

// Run serves until ctx is cancelled, then shuts down and waits for in-flight runs.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.runCtx = ctx
	s.mu.Unlock()

	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting http server", zap.String("addr", s.config.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		s.drain()
		return err
	})

	return g.Wait()
}

// acquireRun registers a background run. It fails once the server is draining.
func (s *Server) acquireRun() (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draining || s.runCtx.Err() != nil {
		return nil, false
	}

	s.runs.Add(1)
	return s.runCtx, true
}

// drain stops accepting runs and waits for the registered ones.
func (s *Server) drain() {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()

	s.runs.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
