package sync

import (
	"context"
	"fmt"

	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/client/pull"
	"github.com/iudanet/offlinesync/internal/client/push"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
	"github.com/iudanet/offlinesync/internal/validation"
)

// Push sends every queued data operation to the server in queue order.
// A push that did not complete, or left unhandled sync errors, returns a
// *push.PushFailedError together with the result.
func (c *Context) Push(ctx context.Context) (*models.PushCompletionResult, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.pusher.Push(ctx, push.Options{})
}

// PushTables pushes only the operations queued for tables
func (c *Context) PushTables(ctx context.Context, tables ...string) (*models.PushCompletionResult, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.pusher.Push(ctx, push.Options{Tables: tables})
}

// Pull brings the server records matching q into the local store.
// A non-empty queryID makes the pull incremental.
func (c *Context) Pull(ctx context.Context, queryID string, q *query.Query, opts pull.Options) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return c.puller.Pull(ctx, queryID, q, opts)
}

// Purge deletes the local records matching q and forgets the delta token of queryID.
//
// A table with queued operations is not purged unless force is set, in which
// case its operations are dropped first. Without a queryID, a query with no
// filter resets every delta token of the table.
func (c *Context) Purge(ctx context.Context, queryID string, q *query.Query, force bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if q == nil || q.Table == "" {
		return fmt.Errorf("%w: query with a table is required", pull.ErrInvalidQuery)
	}
	if storage.IsSystemTable(q.Table) {
		return fmt.Errorf("%w: system table %s cannot be purged", pull.ErrInvalidQuery, q.Table)
	}
	if queryID != "" {
		if err := validation.ValidateQueryID(queryID); err != nil {
			return fmt.Errorf("%w: %w", pull.ErrInvalidQuery, err)
		}
	}
	table := q.Table

	if pending := c.queue.CountPending(table); pending > 0 {
		if !force {
			return fmt.Errorf("%w: %s has %d queued operations", ErrPendingOperations, table, pending)
		}
		if err := c.queue.RemoveTable(ctx, table); err != nil {
			return fmt.Errorf("failed to drop queued operations: %w", err)
		}
		c.logger.Warn("Queued operations dropped by forced purge", "table", table, "operations", pending)
	}

	switch {
	case queryID != "":
		if err := c.settings.ResetDeltaToken(ctx, table, queryID); err != nil {
			return err
		}
	case q.Filter == nil:
		if err := c.settings.ResetDeltaTokens(ctx, table); err != nil {
			return err
		}
	}

	purge := q.Clone()
	purge.Select, purge.Skip, purge.Top = nil, nil, nil
	if err := c.store.DeleteQuery(ctx, purge); err != nil {
		return fmt.Errorf("failed to purge %s: %w", table, err)
	}

	c.logger.Info("Table purged", "table", table, "query_id", queryID, "force", force)
	c.bus.Publish(ctx, events.PurgeCompletedEvent{TableName: table, QueryID: queryID})
	return nil
}
