package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yash-jaiswal2509/simple-chat-application/internal/config"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/core"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/janitor"
	transporthttp "github.com/Yash-jaiswal2509/simple-chat-application/internal/transport/http"
)

// App wires together the registry, janitor and transport layers.
type App struct {
	server          *stdhttp.Server
	janitor         *janitor.Janitor
	registry        *core.Registry
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	registry := core.NewRegistry(core.Options{
		HistoryLimit:  cfg.HistoryLimit,
		MaxMessageLen: cfg.MaxMessageLen,
	})
	jan := janitor.New(registry, cfg.SweepInterval, cfg.RoomRetention, logger)
	server := transporthttp.NewServer(registry, cfg, logger)

	return &App{
		server:          server,
		janitor:         jan,
		registry:        registry,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and the janitor, and blocks until context
// cancellation or a fatal server error. In-flight broadcasts are not
// awaited on shutdown.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.janitor.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
