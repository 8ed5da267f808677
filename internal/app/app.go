package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"chatbox-server/internal/announce"
	"chatbox-server/internal/auth"
	"chatbox-server/internal/config"
	"chatbox-server/internal/core"
	"chatbox-server/internal/gateway"
	"chatbox-server/internal/store"
	"chatbox-server/internal/store/sqlite"
	transporthttp "chatbox-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	dir             store.RoomDirectory
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	dir, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init room directory: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("room directory initialized")

	var cipher *announce.Cipher
	if cfg.AnnounceSecret != "" {
		cipher, err = announce.New(cfg.AnnounceSecret)
		if err != nil {
			dir.Close()
			return nil, fmt.Errorf("init announcement cipher: %w", err)
		}
		logger.Info().Msg("announcement sealing enabled")
	}

	var tickets *auth.Tickets
	if cfg.TicketSecret != "" {
		tickets = auth.NewTickets(&auth.TicketConfig{
			Secret: []byte(cfg.TicketSecret),
			Issuer: "chatbox",
			TTL:    cfg.TicketTTL,
		})
		logger.Info().Msg("entry tickets enabled")
	}

	registry := core.NewSessionRegistry()
	broadcaster := core.NewBroadcaster(registry, logger)
	gw := gateway.New(dir, tickets, cfg.KeyCost, logger)

	server := transporthttp.NewServer(registry, broadcaster, gw, cipher, tickets, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		dir:             dir,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the room directory and other resources.
func (a *App) cleanup() {
	if a.dir != nil {
		if err := a.dir.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close room directory")
		} else {
			a.log.Info().Msg("room directory closed")
		}
	}
}
