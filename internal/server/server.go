// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/config"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	pipeline handlers.Pipeline,
	archive handlers.ArchiveReader,
	natsConn *nats.Conn,
	postEventsTopic string,
	logger zerolog.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	runHandler := handlers.NewRunHandler(pipeline, archive)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			r.Route("/runs", func(r chi.Router) {
				r.Post("/", runHandler.TriggerRun)
				r.Get("/latest", runHandler.GetLatestRun)
			})

			r.Get("/trends/latest", runHandler.GetLatestTrends)
			r.Get("/posts/latest", runHandler.GetLatestPosts)
		})
	})

	// WebSocket endpoint for the live post feed, available when an event
	// bus is configured
	if natsConn != nil {
		router.Get("/ws/posts", handlers.PostFeedHandler(natsConn, postEventsTopic, logger))
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
