package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queued operations and sync errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStatus(cmd.Context())
		},
	}
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Sync Status ===")
	if c.cfg != nil {
		c.io.Printf("Server:   %s\n", c.cfg.ServerURL)
		c.io.Printf("Database: %s (%s)\n", c.cfg.DBPath, c.cfg.DBDriver)
	}

	pending := c.service.PendingOperations()
	syncErrors, err := c.service.Errors(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync errors: %w", err)
	}

	c.io.Println()
	if pending > 0 {
		c.io.Printf("Pending operations: %d\n", pending)
		c.io.Println("Run 'offlinesync push' to send them to the server.")
	} else {
		c.io.Println("✓ No pending operations")
	}

	if len(syncErrors) > 0 {
		c.io.Printf("⚠️  Sync errors: %d\n", len(syncErrors))
		c.io.Println("Run 'offlinesync errors' to inspect them.")
	}
	return nil
}
