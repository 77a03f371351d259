package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/lunary-ai/checklogic/checks"
	"github.com/lunary-ai/checklogic/evaluate"
	"github.com/lunary-ai/checklogic/internal/config"
	"github.com/lunary-ai/checklogic/internal/logger"
	"github.com/lunary-ai/checklogic/views"
)

type Server struct {
	db          *sql.DB
	registry    *checks.Registry
	codec       *checks.Codec
	tagged      *checks.Codec
	evaluator   *evaluate.Evaluator
	views       *views.Service
	slowRequest time.Duration
	router      *chi.Mux
}

func NewServer(cfg *config.Config) (*Server, error) {
	registry, err := loadRegistry(cfg.RegistryFile)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	var store views.Store
	switch cfg.Store {
	case config.StorePostgres:
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store = views.NewPostgresStore(db)
	default:
		store = views.NewInMemoryStore()
	}

	evalConfig := evaluate.DefaultConfig()
	evalConfig.ProgramTTL = cfg.ProgramCacheTTL
	evaluator, err := evaluate.NewEvaluator(registry, evalConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	service := views.NewService(
		store,
		views.NewInMemoryCache(views.CacheConfig{TTL: cfg.ViewCacheTTL}),
		checks.NewCodec(registry),
	)

	logger.Info("server configured",
		"store", cfg.Store,
		"checks", len(registry.Checks()),
		"registryFile", cfg.RegistryFile)

	return newServer(db, registry, evaluator, service, cfg.SlowRequest), nil
}

func newServer(db *sql.DB, registry *checks.Registry, evaluator *evaluate.Evaluator, service *views.Service, slow time.Duration) *Server {
	s := &Server{
		db:          db,
		registry:    registry,
		codec:       checks.NewCodec(registry),
		tagged:      checks.NewCodec(registry, checks.WithTaggedParams()),
		evaluator:   evaluator,
		views:       service,
		slowRequest: slow,
	}
	s.setupRoutes()
	return s
}

// loadRegistry returns the built-in catalog, or the catalog in path when set.
func loadRegistry(path string) (*checks.Registry, error) {
	if path == "" {
		return checks.DefaultRegistry(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry file: %w", err)
	}
	defer f.Close()
	return checks.LoadRegistryYAML(f)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(s.slowRequest))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)
	r.Get("/api/v1/metrics", s.handleMetrics)

	// Catalog
	r.Get("/api/v1/checks", s.handleListChecks)

	// Logic trees
	r.Route("/api/v1/logic", func(r chi.Router) {
		r.Post("/serialize", s.handleSerialize)
		r.Get("/deserialize", s.handleDeserialize)
		r.Post("/evaluate", s.handleEvaluate)
	})

	// Saved views
	r.Route("/api/v1/projects/{projectId}/views", func(r chi.Router) {
		r.Get("/", s.handleListViews)
		r.Post("/", s.handleCreateView)

		r.Route("/{viewId}", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Patch("/", s.handleUpdateView)
			r.Delete("/", s.handleDeleteView)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
		if status >= http.StatusInternalServerError {
			logger.Error(message, "error", err)
		}
	}
	respondJSON(w, status, response)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Setup(context.Background(), logger.Config{
		Level:       cfg.LogLevel,
		SampleRate:  cfg.ErrorSampleRate,
		OTELEnabled: cfg.OTELEnabled,
		ServiceName: cfg.OTELServiceName,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	server, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("Failed to create server", "error", err)
	}
	defer server.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	if err := logger.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	}

	logger.Info("Server stopped")
}
