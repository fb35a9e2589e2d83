package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

func (c *Cli) insertCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "insert <table> <json>",
		Short:   "Insert a record locally and queue it for push",
		Example: `  offlinesync insert todo '{"title":"milk","done":false}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInsert(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *Cli) runInsert(ctx context.Context, table, raw string) error {
	item, err := parseItem(raw)
	if err != nil {
		return err
	}
	stored, err := c.service.Insert(ctx, table, item)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return c.printJSON(stored)
}

func (c *Cli) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "update <table> <json>",
		Short:   "Replace a local record and queue the change for push",
		Example: `  offlinesync update todo '{"id":"6f1c...","title":"oat milk"}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUpdate(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *Cli) runUpdate(ctx context.Context, table, raw string) error {
	item, err := parseItem(raw)
	if err != nil {
		return err
	}
	stored, err := c.service.Update(ctx, table, item)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return c.printJSON(stored)
}

func (c *Cli) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a local record and queue the deletion for push",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDelete(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *Cli) runDelete(ctx context.Context, table, id string) error {
	if err := c.service.Delete(ctx, table, models.Item{"id": id}); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	c.io.Printf("✓ Deleted %s/%s\n", table, id)
	return nil
}

type getFlags struct {
	where   []string
	orderBy string
	top     int
}

func (c *Cli) getCommand() *cobra.Command {
	var flags getFlags
	cmd := &cobra.Command{
		Use:   "get <table> [id]",
		Short: "Show local records",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				return c.runLookup(cmd.Context(), args[0], args[1])
			}
			return c.runList(cmd.Context(), args[0], flags)
		},
	}
	cmd.Flags().StringArrayVar(&flags.where, "where", nil, "filter condition field=value (repeatable)")
	cmd.Flags().StringVar(&flags.orderBy, "order-by", "", "order by field, prefix with - for descending")
	cmd.Flags().IntVar(&flags.top, "top", 0, "maximum number of records")
	return cmd
}

func (c *Cli) runLookup(ctx context.Context, table, id string) error {
	item, err := c.service.Lookup(ctx, table, id)
	if err != nil {
		return fmt.Errorf("failed to get %s/%s: %w", table, id, err)
	}
	return c.printJSON(item)
}

func (c *Cli) runList(ctx context.Context, table string, flags getFlags) error {
	filter, err := parseWhere(flags.where)
	if err != nil {
		return err
	}
	q := query.New(table).Where(filter)
	switch {
	case flags.orderBy == "":
	case flags.orderBy[0] == '-':
		q.OrderByDescending(flags.orderBy[1:])
	default:
		q.OrderByAscending(flags.orderBy)
	}
	if flags.top > 0 {
		q.WithTop(flags.top)
	}

	items, err := c.service.Read(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return c.printJSON(items)
}
