// Package ui provides the browsing server for supawatch.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/SaxonF/supawatch/internal/admin"
	"github.com/SaxonF/supawatch/internal/ui/router"
)

// Server hosts the sidebar and browsing API.
type Server struct {
	admin        *admin.Service
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	specsDir     string
	logger       *slog.Logger
}

// Config holds configuration for the browsing server.
type Config struct {
	Admin         *admin.Service
	Port          int
	Watch         bool
	SpecsDir      string
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		admin:        cfg.Admin,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		specsDir:     cfg.SpecsDir,
		logger:       logger,
	}
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.admin, s.sessionStore); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.specsDir != "" {
		eg.Go(func() error {
			return s.watchSpecs(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchSpecs watches the specs directory and re-imports the project's
// template document when it changes. Only <project-id>.json is considered;
// other files in the directory are ignored.
func (s *Server) watchSpecs(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.specsDir); err != nil {
		s.logger.Error("failed to watch specs directory", "dir", s.specsDir, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}

	specFile := s.admin.ProjectID() + ".json"

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Base(event.Name), specFile) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("spec file changed, re-importing", "file", name)
				s.reimport(ctx, name)
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) reimport(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("failed to read spec file", "file", path, "error", err)
		return
	}
	if _, err := s.admin.ImportDocument(ctx, data); err != nil {
		s.logger.Error("failed to import spec file", "file", path, "error", err)
	}
}
