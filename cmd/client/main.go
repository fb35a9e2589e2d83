package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/offlinesync/internal/client/cli"
	"github.com/iudanet/offlinesync/internal/client/config"
	"github.com/iudanet/offlinesync/internal/client/iocli"
	"github.com/iudanet/offlinesync/internal/client/remote"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/client/storage/boltdb"
	"github.com/iudanet/offlinesync/internal/client/storage/sqlite"
	"github.com/iudanet/offlinesync/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// localStore локальное хранилище, которое нужно закрыть после работы
type localStore interface {
	storage.Store
	Close() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	version := fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)
	app := cli.New(iocli.NewStdio(), openService, version)
	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (localStore, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.DBPath)
	case config.DriverBolt:
		return boltdb.New(ctx, cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}

func openService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (sync.Service, func() error, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	client := remote.NewClient(cfg.ServerURL,
		remote.WithAccessToken(cfg.AccessToken),
		remote.WithTimeout(cfg.Timeout()),
		remote.WithLogger(logger.With("component", "remote")),
	)

	syncCtx, err := sync.New(ctx, store, client, sync.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	release := func() error {
		syncCtx.Close()
		if err := store.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		return nil
	}
	return syncCtx, release, nil
}
