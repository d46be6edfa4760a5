// ABOUTME: Service descriptors for the three binaries built from this module
// ABOUTME: Each Mount opens its backing store or upstream client and registers routes

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2389/maze-gateway/internal/config"
	"github.com/2389/maze-gateway/internal/gateway"
	"github.com/2389/maze-gateway/internal/gruesvc"
	"github.com/2389/maze-gateway/internal/mazesvc"
	"github.com/2389/maze-gateway/internal/server"
	"github.com/2389/maze-gateway/internal/store"
)

const mazeBanner = `
  _ __ ___   __ _ _______
 | '_ ' _ \ / _' |_  / _ \
 | | | | | | (_| |/ /  __/
 |_| |_| |_|\__,_/___\___|
`

const grueBanner = `
   __ _ _ __ _   _  ___
  / _' | '__| | | |/ _ \
 | (_| | |  | |_| |  __/
  \__, |_|   \__,_|\___|
  |___/
`

// MazeService describes the maze grid service.
func MazeService(version string) Service {
	return Service{
		Name:       mazesvc.Name,
		Short:      "Maze grid store behind an HTTP facade",
		Version:    version,
		Banner:     mazeBanner,
		Defaults:   config.ServiceDefaults{EnvPrefix: "MAZE", DatabaseName: "maze"},
		HealthPath: mazesvc.HealthPath,
		Mount: func(ctx context.Context, cfg *config.Config, srv *server.Server, logger *slog.Logger) error {
			st, err := openStore(ctx, cfg, srv, logger)
			if err != nil {
				return err
			}
			mazesvc.New(st, mazesvc.Options{
				Version:      version,
				LegacyStatus: cfg.Server.LegacyStatus,
				Logger:       logger,
			}).Register(srv.Router())
			return nil
		},
	}
}

// GrueService describes the grue record service.
func GrueService(version string) Service {
	return Service{
		Name:       gruesvc.Name,
		Short:      "Grue record service",
		Version:    version,
		Banner:     grueBanner,
		Defaults:   config.ServiceDefaults{EnvPrefix: "GRUE", DatabaseName: "grues"},
		HealthPath: gruesvc.HealthPath,
		Mount: func(ctx context.Context, cfg *config.Config, srv *server.Server, logger *slog.Logger) error {
			st, err := openStore(ctx, cfg, srv, logger)
			if err != nil {
				return err
			}
			gruesvc.New(st, gruesvc.Options{
				Version:      version,
				LegacyStatus: cfg.Server.LegacyStatus,
				Logger:       logger,
			}).Register(srv.Router())
			return nil
		},
	}
}

// GatewayService describes the stateless aggregation gateway.
func GatewayService(version string) Service {
	return Service{
		Name:       gateway.Name,
		Short:      "Aggregation gateway for the user and grue services",
		Version:    version,
		Banner:     mazeBanner,
		HealthPath: gateway.HealthPath,
		Mount: func(ctx context.Context, cfg *config.Config, srv *server.Server, logger *slog.Logger) error {
			logger.Info("upstreams configured",
				"user_url", cfg.Upstreams.UserURL,
				"grue_url", cfg.Upstreams.GrueURL,
				"timeout", cfg.Upstreams.Timeout,
			)
			gateway.New(cfg.Upstreams, gateway.Options{
				Version:      version,
				LegacyStatus: cfg.Server.LegacyStatus,
				Logger:       logger,
			}).Register(srv.Router())
			return nil
		},
	}
}

func openStore(ctx context.Context, cfg *config.Config, srv *server.Server, logger *slog.Logger) (*store.SQLStore, error) {
	st, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	srv.OnClose("store", st)
	return st, nil
}
