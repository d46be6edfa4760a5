// ABOUTME: The serve command: prints the startup banner and runs the HTTP server
// ABOUTME: Builds logger, server, and service routes from the loaded configuration

package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/maze-gateway/internal/config"
	"github.com/2389/maze-gateway/internal/logging"
	"github.com/2389/maze-gateway/internal/server"
)

func newServeCmd(svc Service, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the " + svc.Name + " HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := flags.loadConfig(svc)
			if err != nil {
				return err
			}

			printBanner(cmd.OutOrStdout(), svc, cfg, path)

			logger := logging.Setup(cfg.Logging)
			logger.Info("starting "+svc.Name,
				"version", svc.Version,
				"config", path,
				"http_addr", cfg.Server.HTTPAddr,
			)

			var open []string
			if svc.HealthPath != "" {
				open = append(open, svc.HealthPath)
			}
			srv := server.New(cfg, server.Options{Name: svc.Name, OpenPaths: open}, logger)

			if svc.Mount != nil {
				if err := svc.Mount(cmd.Context(), cfg, srv, logger); err != nil {
					_ = srv.Shutdown(cmd.Context())
					return fmt.Errorf("starting %s: %w", svc.Name, err)
				}
			}

			return srv.Run(cmd.Context())
		},
	}
}

func printBanner(w io.Writer, svc Service, cfg *config.Config, path string) {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if svc.Banner != "" {
		cyan.Fprint(w, svc.Banner)
	}
	gray.Fprintf(w, "    version: %s\n\n", svc.Version)

	if path == "" {
		path = "(defaults)"
	}
	green.Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "Config:    %s\n", path)
	green.Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "HTTP:      %s\n", cfg.Server.HTTPAddr)

	if svc.Defaults.DatabaseName != "" {
		green.Fprint(w, "    ▶ ")
		fmt.Fprintf(w, "Database:  %s", cfg.Database.Driver)
		if cfg.Database.Driver == config.DriverSQLite {
			gray.Fprintf(w, " %s", cfg.Database.Path)
		} else {
			gray.Fprintf(w, " %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		}
		fmt.Fprintln(w)
	}

	if cfg.Auth.JWTSecret != "" {
		green.Fprint(w, "    ▶ ")
		fmt.Fprint(w, "Auth:      ")
		yellow.Fprintln(w, "bearer")
	}
	if cfg.Server.LegacyStatus {
		green.Fprint(w, "    ▶ ")
		fmt.Fprint(w, "Status:    ")
		yellow.Fprintln(w, "legacy (always 200)")
	}

	fmt.Fprintln(w)
}
