package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/offlinesync/internal/client/pull"
	"github.com/iudanet/offlinesync/internal/client/push"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

func (c *Cli) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push [table...]",
		Short: "Send queued operations to the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPush(cmd.Context(), args)
		},
	}
}

func (c *Cli) runPush(ctx context.Context, tables []string) error {
	var (
		result *models.PushCompletionResult
		err    error
	)
	if len(tables) > 0 {
		result, err = c.service.PushTables(ctx, tables...)
	} else {
		result, err = c.service.Push(ctx)
	}

	var failed *push.PushFailedError
	if err != nil && !errors.As(err, &failed) {
		return fmt.Errorf("push failed: %w", err)
	}

	c.io.Printf("Push status: %s\n", result.Status)
	for _, syncErr := range result.UnhandledErrors() {
		c.printSyncError(syncErr)
	}
	if err != nil {
		return err
	}
	c.io.Println("✓ Push completed")
	return nil
}

type pullFlags struct {
	queryID         string
	where           []string
	pageSize        int
	pushOtherTables bool
}

func (c *Cli) pullCommand() *cobra.Command {
	var flags pullFlags
	cmd := &cobra.Command{
		Use:   "pull <table>",
		Short: "Fetch server records into the local store",
		Long: `Fetch server records into the local store.

With --query-id the pull is incremental: only records changed since the
previous pull with the same id are requested.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPull(cmd.Context(), args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.queryID, "query-id", "", "incremental pull id")
	cmd.Flags().StringArrayVar(&flags.where, "where", nil, "filter condition field=value (repeatable)")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "records per request (default MAX_PAGE_SIZE)")
	cmd.Flags().BoolVar(&flags.pushOtherTables, "push-other-tables", false, "push every table before pulling")
	return cmd
}

func (c *Cli) runPull(ctx context.Context, table string, flags pullFlags) error {
	filter, err := parseWhere(flags.where)
	if err != nil {
		return err
	}
	q := query.New(table).Where(filter)

	opts := pull.Options{PushOtherTables: flags.pushOtherTables, MaxPageSize: flags.pageSize}
	if opts.MaxPageSize == 0 && c.cfg != nil {
		opts.MaxPageSize = c.cfg.MaxPageSize
	}

	pulled, err := c.service.Pull(ctx, flags.queryID, q, opts)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	c.io.Printf("✓ Pulled %d record(s) into %s\n", pulled, table)
	return nil
}

type purgeFlags struct {
	queryID string
	where   []string
	force   bool
	yes     bool
}

func (c *Cli) purgeCommand() *cobra.Command {
	var flags purgeFlags
	cmd := &cobra.Command{
		Use:   "purge <table>",
		Short: "Delete local records and forget the pull position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPurge(cmd.Context(), args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.queryID, "query-id", "", "incremental pull id to reset")
	cmd.Flags().StringArrayVar(&flags.where, "where", nil, "filter condition field=value (repeatable)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "drop queued operations of the table")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *Cli) runPurge(ctx context.Context, table string, flags purgeFlags) error {
	filter, err := parseWhere(flags.where)
	if err != nil {
		return err
	}

	if flags.force && !flags.yes {
		answer, err := c.io.ReadInput(fmt.Sprintf("Queued operations of %s will be lost. Continue? [y/N]: ", table))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if answer != "y" && answer != "Y" && answer != "yes" {
			c.io.Println("Purge cancelled")
			return nil
		}
	}

	if err := c.service.Purge(ctx, flags.queryID, query.New(table).Where(filter), flags.force); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	c.io.Printf("✓ Purged %s\n", table)
	return nil
}
