package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geostore/pkg/common/config"
	"geostore/pkg/common/logger"
	"geostore/pkg/common/restful"
	"geostore/pkg/fixture"
	"geostore/pkg/fixtureapi"
)

// NewServer builds the fixture control server around the shared context.
func NewServer(ctx context.Context, cfg *config.Config) (*restful.Server, *fixture.Context, error) {
	fc, err := fixture.Shared(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	srv := restful.NewServer(restful.WithAddress(cfg.Server.Addr))
	fixtureapi.RegisterRoutes(srv.Engine.Group("/api/fixture"), fc)
	return srv, fc, nil
}

// RunAPI serves the fixture API until SIGINT or SIGTERM.
func RunAPI(cfg *config.Config) error {
	log := logger.GetLogger()
	log.Info().Msg("Starting geostore fixture service")
	if cfg.Debug {
		log.Debug().Msg("Debug mode enabled")
	}

	srv, fc, err := NewServer(context.Background(), cfg)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	if err := fc.Close(); err != nil {
		log.Error().Err(err).Msg("Database close error")
	}
	log.Info().Msg("Server exited cleanly")
	return nil
}
