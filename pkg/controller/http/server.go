// Package http exposes the council over a small JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/diar-analytics/majlis/pkg/domain/interfaces"
	"github.com/diar-analytics/majlis/pkg/domain/model"
	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

// ConsultUseCase is the council contract the server dispatches to
type ConsultUseCase interface {
	Consult(ctx context.Context, question string) (*model.CouncilDecision, error)
}

type Server struct {
	router  *chi.Mux
	council ConsultUseCase
	repo    interfaces.Repository
}

type Options func(*Server)

// WithRepository enables the dataset and consult-log endpoints
func WithRepository(repo interfaces.Repository) Options {
	return func(s *Server) {
		s.repo = repo
	}
}

func New(council ConsultUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:  r,
		council: council,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/consult", consultHandler(s.council))

		if s.repo != nil {
			r.Get("/datasets", datasetsHandler(s.repo.Datasets()))
			r.Get("/datasets/categories", categoriesHandler(s.repo.Datasets()))
			r.Get("/consults", consultLogsHandler(s.repo.ConsultLogs()))
		}
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck // header already committed
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
