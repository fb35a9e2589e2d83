// Package cli implements the offline sync command line client on cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/offlinesync/internal/client/config"
	"github.com/iudanet/offlinesync/internal/client/iocli"
	"github.com/iudanet/offlinesync/internal/client/sync"
)

// Opener opens the sync service described by cfg.
// The returned function closes the service and its store.
type Opener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (sync.Service, func() error, error)

// Глобальные флаги
type rootFlags struct {
	envFile    string
	configFile string
	serverURL  string
	dbPath     string
	dbDriver   string
	logLevel   string
	askToken   bool
}

type Cli struct {
	io      iocli.IO
	open    Opener
	cfg     *config.Config
	logger  *slog.Logger
	service sync.Service
	release func() error
	logOut  io.Writer
	flags   rootFlags
	version string
}

func New(io iocli.IO, open Opener, version string) *Cli {
	return &Cli{
		io:      io,
		open:    open,
		logOut:  os.Stderr,
		version: version,
	}
}

// Execute runs the command line args and releases the service afterwards
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(c.io)
	root.SetErr(c.logOut)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, c.close())
}

// RootCommand builds the command tree
func (c *Cli) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "offlinesync",
		Short: "Offline-first table synchronization client",
		Long: `offlinesync keeps a local copy of remote tables.

Local changes are queued and sent with "push"; server changes are
fetched with "pull". Conflicts are kept as sync errors until resolved.`,
		Version:           c.version,
		PersistentPreRunE: c.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	f := root.PersistentFlags()
	f.StringVar(&c.flags.envFile, "env-file", ".env", "dotenv file loaded when present")
	f.StringVar(&c.flags.configFile, "config", "", "configuration file (yaml, json or toml)")
	f.StringVar(&c.flags.serverURL, "server", "", "server URL (overrides "+config.KeyServerURL+")")
	f.StringVar(&c.flags.dbPath, "db", "", "local database path (overrides "+config.KeyDBPath+")")
	f.StringVar(&c.flags.dbDriver, "driver", "", "local database driver: bolt or sqlite")
	f.StringVar(&c.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&c.flags.askToken, "ask-token", false, "read the access token from the terminal")

	root.AddCommand(
		c.statusCommand(),
		c.pushCommand(),
		c.pullCommand(),
		c.purgeCommand(),
		c.insertCommand(),
		c.updateCommand(),
		c.deleteCommand(),
		c.getCommand(),
		c.errorsCommand(),
		c.resolveCommand(),
	)
	return root
}

// setup загружает конфигурацию и открывает sync service перед любой командой
func (c *Cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.flags.envFile, c.flags.configFile)
	if err != nil {
		return err
	}

	// Флаги командной строки важнее окружения
	if c.flags.serverURL != "" {
		cfg.ServerURL = c.flags.serverURL
	}
	if c.flags.dbPath != "" {
		cfg.DBPath = c.flags.dbPath
	}
	if c.flags.dbDriver != "" {
		cfg.DBDriver = c.flags.dbDriver
	}
	if c.flags.logLevel != "" {
		cfg.LogLevel = c.flags.logLevel
	}
	if c.flags.askToken {
		token, err := c.io.ReadSecret("Access token: ")
		if err != nil {
			return fmt.Errorf("failed to read access token: %w", err)
		}
		cfg.AccessToken = token
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	c.logger = slog.New(slog.NewTextHandler(c.logOut, &slog.HandlerOptions{Level: cfg.Level()}))

	service, release, err := c.open(cmd.Context(), cfg, c.logger)
	if err != nil {
		return fmt.Errorf("failed to open sync service: %w", err)
	}
	c.service = service
	c.release = release
	return nil
}

func (c *Cli) close() error {
	if c.release == nil {
		return nil
	}
	release := c.release
	c.release = nil
	return release()
}
