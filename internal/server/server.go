// Package server exposes the recommendation engine over HTTP. Routes mirror
// the engine surface one to one; all request and response bodies are JSON.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/ai"
	"github.com/talentgrid/assessment-recommender/internal/engine"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP API server. The explainer is optional; when nil the
// explanations route answers 503.
type Server struct {
	addr      string
	engine    *engine.Engine
	explainer ai.Explainer
	logger    *zap.Logger
	router    *chi.Mux
}

// New wires the router over the given engine. The addr is a host:port
// listen address.
func New(addr string, eng *engine.Engine, explainer ai.Explainer, logger *zap.Logger) *Server {
	s := &Server{
		addr:      addr,
		engine:    eng,
		explainer: explainer,
		logger:    logger,
	}
	s.setupRouter()
	return s
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/assessments", func(r chi.Router) {
		r.Get("/", s.handleListAssessments)
		r.Get("/search", s.handleSearchAssessments)
		r.Get("/{id}", s.handleGetAssessment)
	})

	r.Get("/recommendations", s.handleRecommendQuery)
	r.Post("/recommendations", s.handleRecommendBody)
	r.Post("/text_recommendations", s.handleTextRecommendations)
	r.Post("/explanations", s.handleExplanations)

	r.NotFound(s.handleNotFound)

	s.router = r
}

// Run serves until the context is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
