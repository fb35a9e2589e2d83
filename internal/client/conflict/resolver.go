// Package conflict resolves sync errors left by a push.
package conflict

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/client/queue"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/client/tracking"
	"github.com/iudanet/offlinesync/internal/models"
)

// Ошибки устаревшего разрешения конфликта
var (
	ErrOperationUpdated      = fmt.Errorf("%w: the operation has been updated and cannot be updated again", models.ErrInvalidOperation)
	ErrOperationCannotCancel = fmt.Errorf("%w: the operation has been updated and cannot be cancelled", models.ErrInvalidOperation)
)

// Resolver applies the resolution the application chose for a SyncError.
// A resolution is only accepted while the operation is still exactly the one
// that failed: same id and same version.
type Resolver struct {
	queue     *queue.Queue
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger
	tracking  models.TrackingOptions
}

// NewResolver creates a conflict resolver
func NewResolver(q *queue.Queue, store storage.Store, publisher events.Publisher, trackingOptions models.TrackingOptions, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		queue:     q,
		store:     store,
		publisher: publisher,
		logger:    logger,
		tracking:  trackingOptions,
	}
}

// UpdateOperation keeps the operation queued with merged as its payload so the
// next push retries it. The SyncError is deleted.
//
// The operation version is bumped so the same SyncError cannot be resolved twice.
// For inserts and updates merged is also written to the local store. A delete
// stays a delete and the local store is left untouched.
func (r *Resolver) UpdateOperation(ctx context.Context, syncErr *models.SyncError, merged models.Item) error {
	if merged == nil {
		return fmt.Errorf("%w: merged item is required", models.ErrInvalidOperation)
	}
	if merged.ID() != syncErr.ItemID {
		return fmt.Errorf("%w: merged item id %q does not match %q", models.ErrInvalidOperation, merged.ID(), syncErr.ItemID)
	}

	return r.withOperation(ctx, syncErr, ErrOperationUpdated, func(store tracking.Store, op *models.Operation) error {
		op.Item = merged.Clone()
		if op.Kind != models.OperationDelete {
			if err := store.Upsert(ctx, op.TableName, []models.Item{merged}, false); err != nil {
				return fmt.Errorf("failed to store merged item: %w", err)
			}
		}
		op.Version++
		if err := r.queue.Update(ctx, op); err != nil {
			return err
		}
		return r.queue.DeleteError(ctx, op.ID)
	})
}

// CancelAndUpdateItem drops the operation and stores item locally.
// The write is not queued, so it is never pushed.
func (r *Resolver) CancelAndUpdateItem(ctx context.Context, syncErr *models.SyncError, item models.Item) error {
	if item == nil {
		return fmt.Errorf("%w: item is required", models.ErrInvalidOperation)
	}

	return r.withOperation(ctx, syncErr, ErrOperationCannotCancel, func(store tracking.Store, op *models.Operation) error {
		if err := r.queue.Remove(ctx, op.ID); err != nil {
			return err
		}
		if err := store.Upsert(ctx, op.TableName, []models.Item{item}, true); err != nil {
			return fmt.Errorf("failed to store item: %w", err)
		}
		return nil
	})
}

// CancelAndDiscardItem drops the operation and deletes the item locally.
func (r *Resolver) CancelAndDiscardItem(ctx context.Context, syncErr *models.SyncError) error {
	return r.withOperation(ctx, syncErr, ErrOperationCannotCancel, func(store tracking.Store, op *models.Operation) error {
		if err := r.queue.Remove(ctx, op.ID); err != nil {
			return err
		}
		if err := store.Delete(ctx, op.TableName, []string{op.ItemID}); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		return nil
	})
}

// withOperation проверяет актуальность операции под блокировкой записи
// и выполняет resolve в области отслеживания LocalConflictResolution
func (r *Resolver) withOperation(ctx context.Context, syncErr *models.SyncError, stale error, resolve func(tracking.Store, *models.Operation) error) error {
	if syncErr == nil {
		return fmt.Errorf("%w: sync error is required", models.ErrInvalidOperation)
	}

	release, err := r.queue.LockItem(ctx, syncErr.TableName, syncErr.ItemID)
	if err != nil {
		return err
	}
	defer release()

	op := r.queue.Get(syncErr.OperationID)
	if op == nil || op.Version != syncErr.OperationVersion {
		return stale
	}

	store, err := tracking.Open(r.store, models.TrackingContext{
		Source:     models.SourceLocalConflictResolution,
		TrackingID: op.TableName,
		Options:    r.tracking,
	}, r.publisher)
	if err != nil {
		return fmt.Errorf("failed to open tracked store: %w", err)
	}
	defer func() { _ = store.Close(ctx) }()

	if err := resolve(store, op); err != nil {
		return err
	}

	syncErr.Handled = true
	r.logger.Debug("Sync error resolved",
		"operation_id", op.ID,
		"table", op.TableName,
		"item_id", op.ItemID)
	return nil
}
