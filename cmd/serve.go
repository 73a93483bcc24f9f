package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/desertthunder/catalog/internal/catalog"
	"github.com/desertthunder/catalog/internal/repositories"
	"github.com/desertthunder/catalog/internal/server"
	"github.com/desertthunder/catalog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve opens the configured store, seeds it and runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("driver") {
		config.Database.Driver = strings.ToLower(cmd.String("driver"))
	}
	if cmd.Bool("no-seed") {
		config.Database.Seed = false
	}
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := r.openStore(ctx, config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := catalog.NewService(store.Songs(), store.Playlists(), r.logger)
	router := server.NewRouter(config.Server, svc, r.logger)

	return server.New(config.Server, router, r.logger).Run(ctx)
}

// openStore opens the backend selected by cfg and seeds it when enabled.
func (r *Runner) openStore(ctx context.Context, cfg shared.DatabaseConfig) (repositories.Store, error) {
	r.logger.Info("opening store", "driver", cfg.Driver)

	store, err := repositories.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}

	if cfg.Seed {
		if err := store.Seed(ctx, catalog.SampleSongs(), catalog.SamplePlaylists()); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
		r.logger.Debug("catalog seeded")
	}

	return store, nil
}
