// ABOUTME: Cobra command tree shared by the maze service, grue service, and gateway binaries
// ABOUTME: Resolves the config path, loads .env files, and wires signal handling into commands

// Package cli implements the command-line interface of every binary in this
// module. Each binary describes itself with a Service and hands it to Execute.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/2389/maze-gateway/internal/config"
	"github.com/2389/maze-gateway/internal/server"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
)

// ConfigEnv names the environment variable consulted when --config is unset.
const ConfigEnv = "MAZE_CONFIG"

// Service describes one binary: its identity, its config defaults, and how
// it mounts routes onto a server.
type Service struct {
	Name    string
	Short   string
	Version string
	Banner  string

	Defaults   config.ServiceDefaults
	HealthPath string

	// Mount registers the service's routes on srv. Resources it opens are
	// handed to srv.OnClose.
	Mount func(ctx context.Context, cfg *config.Config, srv *server.Server, logger *slog.Logger) error
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configPath string
	envFile    string
}

// NewRootCmd creates the top-level command for svc with every subcommand registered.
func NewRootCmd(svc Service) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          svc.Name,
		Short:        svc.Short,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(flags.envFile)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file, YAML or .toml (default: $"+ConfigEnv+")")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the config; missing files are ignored")

	root.AddCommand(newServeCmd(svc, flags))
	root.AddCommand(newHealthCmd(svc, flags))
	root.AddCommand(newTokenCmd(svc, flags))
	root.AddCommand(newVersionCmd(svc))

	return root
}

// Execute runs the command tree for svc until SIGINT or SIGTERM and exits
// with the appropriate code.
func Execute(svc Service) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCmd(svc).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}

// resolveConfigPath returns the config path from flag, env, or "" for defaults.
func (f *rootFlags) resolveConfigPath() string {
	if f.configPath != "" {
		return f.configPath
	}
	return os.Getenv(ConfigEnv)
}

// loadConfig loads the configuration for svc.
func (f *rootFlags) loadConfig(svc Service) (*config.Config, string, error) {
	path := f.resolveConfigPath()
	cfg, err := config.LoadFor(path, svc.Defaults)
	if err != nil {
		return nil, path, fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
