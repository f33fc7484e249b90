package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/egresados/internal/bootstrap"
	"github.com/yigit/egresados/internal/config"
	"github.com/yigit/egresados/internal/db"
)

// Server serves the graduate records API and the import endpoints.
type Server struct {
	config *config.Config
	router *gin.Engine
	db     *db.PostgresDB
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads configuration, migrates and seeds the database and wires
// every controller. The database pool is owned by the returned server.
func NewServer(ctx context.Context, configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)
	if err := serveStoredFiles(router, cfg.Server.StoragePath); err != nil {
		database.Close()
		return nil, err
	}
	lgr.Info().Str("path", cfg.Server.StoragePath).Str("url", bootstrap.UploadsURLPath).Msg("Serving attachments and import reports")

	return &Server{
		config: cfg,
		router: router,
		db:     database,
		logger: lgr,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  2 * cfg.Server.ReadTimeout,
		},
	}, nil
}

func serveStoredFiles(router *gin.Engine, root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", root, err)
	}
	router.Static(bootstrap.UploadsURLPath, root)
	return nil
}

// Run listens until SIGINT or SIGTERM arrives or ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Dur("writeTimeout", s.http.WriteTimeout).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.db.Close()
			return fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown requested")
	}

	return s.Shutdown(context.Background())
}

// Shutdown waits for in-flight imports up to the configured timeout and
// closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
		shutdownErr = fmt.Errorf("http shutdown: %w", err)
	}

	s.db.Close()
	s.logger.Info().Msg("Server stopped")
	return shutdownErr
}
