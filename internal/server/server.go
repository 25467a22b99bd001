// Package server provides the HTTP API behind the site's admin editor.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jmegroup/adlib/internal/admin"
	"github.com/jmegroup/adlib/internal/config"
	"github.com/jmegroup/adlib/internal/db"
	"github.com/jmegroup/adlib/internal/github"
	"github.com/jmegroup/adlib/internal/rendering"
	"github.com/jmegroup/adlib/internal/server/middleware"
	"github.com/jmegroup/adlib/internal/server/ratelimit"
)

// RevisionStore is the revision log the server reads and writes.
type RevisionStore interface {
	RecordRevision(ctx context.Context, input *db.RevisionInput) (*db.Revision, error)
	ListRevisions(ctx context.Context, path string, limit int) ([]db.Revision, error)
	GetRevision(ctx context.Context, id uuid.UUID) (*db.Revision, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	handler       http.Handler
	admin         *admin.Service
	revisions     RevisionStore
	database      *db.DB
	rateLimiter   *ratelimit.Limiter
	renderer      *rendering.Renderer
	previews      *lru.Cache[string, string]
	allowedOrigin string
}

// New creates a server from configuration: it loads the admin password, builds the
// contents client and connects the revision log when a database URL is set.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	if !passwords.Configured() {
		log.Printf("[server] warning: no admin password configured; every save will be rejected")
	}

	if err := cfg.RequireGitHub(); err != nil {
		return nil, err
	}
	client := github.NewClient(cfg.GitHubRepo, cfg.GitHubToken)
	client.Branch = cfg.GitHubBranch

	svc := &admin.Service{Password: passwords, Contents: client}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
	}

	var store RevisionStore
	if database != nil {
		store = database
	}
	s, err := NewWithService(cfg, svc, store)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, err
	}
	s.database = database
	return s, nil
}

// NewWithService creates a server around an existing admin service. revisions may be
// nil; when set it is also installed as the service's revision log.
func NewWithService(cfg config.Config, svc *admin.Service, revisions RevisionStore) (*Server, error) {
	cfg = cfg.MergeWithDefaults(config.Defaults())

	var opts []rendering.Option
	if cfg.Year > 0 {
		opts = append(opts, rendering.WithYear(cfg.Year))
	}
	renderer, err := rendering.New(opts...)
	if err != nil {
		return nil, err
	}

	if revisions != nil {
		svc.Revisions = revisions
	}

	s := &Server{
		admin:         svc,
		revisions:     revisions,
		rateLimiter:   ratelimit.NewLimiter(ratelimit.LoadConfig(cfg.RateLimitPerMin)),
		renderer:      renderer,
		allowedOrigin: cfg.AllowedOrigin,
	}

	if cfg.PreviewCacheSize > 0 {
		s.previews, err = lru.New[string, string](cfg.PreviewCacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create preview cache: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("POST /api/upload-image", s.handleUploadImage)
	mux.HandleFunc("POST /api/preview", s.handlePreview)
	mux.HandleFunc("POST /api/extract", s.handleExtract)
	mux.HandleFunc("POST /api/revisions", s.handleRevisions)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = middleware.Recover(
		middleware.CORS(s.allowedOrigin)(
			middleware.Logging(
				middleware.RateLimit(s.rateLimiter)(mux))))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // commits of large media can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases the rate limiter and the database connection.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.database != nil {
		s.database.Close()
	}
}
