package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/statichq/webstand/internal/db"
)

const shutdownTimeout = 5 * time.Second

// Server owns the HTTP listener, the page/health services and the access-log
// database for the lifetime of the process.
type Server struct {
	config   *Config
	services *Services
	database *sqlx.DB
	server   *http.Server
}

func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	database, err := db.Open(db.WithPath(config.DBPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	svc, err := NewServices(config, database)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &Server{
		config:   config,
		services: svc,
		database: database,
		server: &http.Server{
			Addr:    config.HTTP.Addr,
			Handler: SetupRoutes(config, svc),
		},
	}, nil
}

// Start runs the listener and the access-log writer until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("server start", "addr", s.config.HTTP.Addr)
	defer slog.Info("server stop")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.services.AccessLog.Run(ctx)
	})

	g.Go(func() error {
		if err := s.listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return s.Stop(context.Background())
	})

	err := g.Wait()
	s.database.Close()
	return err
}

// Stop drains in-flight requests within the shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (s *Server) listen() error {
	if s.config.HTTP.CertFile != "" && s.config.HTTP.KeyFile != "" {
		slog.Info("listening with tls", "addr", s.config.HTTP.Addr, "cert", s.config.HTTP.CertFile)
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	slog.Info("listening", "addr", s.config.HTTP.Addr)
	return s.server.ListenAndServe()
}
