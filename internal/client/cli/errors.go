package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/offlinesync/internal/models"
)

// Стратегии разрешения конфликта
const (
	resolveServer  = "server"
	resolveDiscard = "discard"
	resolveLocal   = "local"
)

func (c *Cli) errorsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "errors",
		Short: "List operations rejected by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runErrors(cmd.Context(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the sync errors as JSON")
	return cmd
}

func (c *Cli) runErrors(ctx context.Context, asJSON bool) error {
	syncErrors, err := c.service.Errors(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync errors: %w", err)
	}
	if asJSON {
		if syncErrors == nil {
			syncErrors = []*models.SyncError{}
		}
		return c.printJSON(syncErrors)
	}

	if len(syncErrors) == 0 {
		c.io.Println("✓ No sync errors")
		return nil
	}
	c.io.Printf("=== Sync Errors (%d) ===\n", len(syncErrors))
	for _, syncErr := range syncErrors {
		c.printSyncError(syncErr)
	}
	return nil
}

func (c *Cli) printSyncError(syncErr *models.SyncError) {
	c.io.Printf("- operation %s: %s %s/%s", syncErr.OperationID, syncErr.OperationKind, syncErr.TableName, syncErr.ItemID)
	if syncErr.StatusCode != 0 {
		c.io.Printf(" (HTTP %d)", syncErr.StatusCode)
	}
	if syncErr.IsConflict() {
		c.io.Printf(" conflict, server version %q", syncErr.Result.Version())
	}
	c.io.Println()
}

func (c *Cli) resolveCommand() *cobra.Command {
	var strategy string
	cmd := &cobra.Command{
		Use:   "resolve <operation-id>",
		Short: "Resolve a sync error",
		Long: `Resolve a sync error.

Strategies:
  server   drop the local change and keep the server record
  discard  drop the local change and the local record
  local    retry the local change over the server version`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args[0], strategy)
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", resolveServer, "server, discard or local")
	return cmd
}

func (c *Cli) runResolve(ctx context.Context, operationID, strategy string) error {
	syncErrors, err := c.service.Errors(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync errors: %w", err)
	}

	var syncErr *models.SyncError
	for _, e := range syncErrors {
		if e.OperationID == operationID {
			syncErr = e
			break
		}
	}
	if syncErr == nil {
		return fmt.Errorf("no sync error for operation %s", operationID)
	}

	switch strategy {
	case resolveServer:
		if syncErr.Result == nil {
			return fmt.Errorf("operation %s has no server record, use --strategy discard", operationID)
		}
		err = c.service.CancelAndUpdateItem(ctx, syncErr, syncErr.Result)
	case resolveDiscard:
		err = c.service.CancelAndDiscardItem(ctx, syncErr)
	case resolveLocal:
		err = c.service.UpdateOperation(ctx, syncErr, rebase(syncErr))
	default:
		return fmt.Errorf("unknown strategy %q", strategy)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve operation %s: %w", operationID, err)
	}

	c.io.Printf("✓ Resolved operation %s (%s)\n", operationID, strategy)
	return nil
}

// rebase переносит локальную запись на серверную версию
func rebase(syncErr *models.SyncError) models.Item {
	merged := syncErr.Item.Clone()
	if merged == nil {
		merged = models.Item{}
	}
	merged["id"] = syncErr.ItemID
	if syncErr.Result != nil {
		if version := syncErr.Result.Version(); version != "" {
			merged["version"] = version
		}
	}
	return merged
}
