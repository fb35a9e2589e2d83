// Package push drains the operation queue against the remote service.
package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"golang.org/x/sync/semaphore"

	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/client/queue"
	"github.com/iudanet/offlinesync/internal/client/remote"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/client/tracking"
	"github.com/iudanet/offlinesync/internal/models"
)

// Options selects the operations a push sends
type Options struct {
	// TableKind defaults to data tables; operations on other kinds are skipped
	TableKind models.TableKind
	// Tables limits the push to the named tables (empty = all)
	Tables []string
}

// Engine is the push engine. Pushes are serialized; local mutations are not
// blocked except on the item currently being sent.
type Engine struct {
	queue     *queue.Queue
	store     storage.Store
	handler   Handler
	publisher events.Publisher
	logger    *slog.Logger
	running   *semaphore.Weighted
	tracking  models.TrackingOptions
}

// NewEngine creates a push engine
func NewEngine(q *queue.Queue, store storage.Store, handler Handler, publisher events.Publisher, trackingOptions models.TrackingOptions, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		queue:     q,
		store:     store,
		handler:   handler,
		publisher: publisher,
		logger:    logger,
		running:   semaphore.NewWeighted(1),
		tracking:  trackingOptions,
	}
}

// Push sends the queued operations selected by opts in FIFO order.
// It returns *PushFailedError carrying the result when the push was aborted or
// the server rejected operations that the completion callback did not handle.
func (e *Engine) Push(ctx context.Context, opts Options) (*models.PushCompletionResult, error) {
	if err := e.running.Acquire(ctx, 1); err != nil {
		cancelled := &models.PushCompletionResult{Status: models.PushCancelledByToken}
		return cancelled, &PushFailedError{Result: cancelled}
	}
	defer e.running.Release(1)

	if opts.TableKind == "" {
		opts.TableKind = models.TableKindData
	}

	result := &models.PushCompletionResult{Status: models.PushComplete}

	tracked, err := tracking.Open(e.store, models.TrackingContext{
		Source:  models.SourceServerPush,
		Options: e.tracking,
	}, e.publisher)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracked store: %w", err)
	}

	for _, op := range e.queue.Snapshot() {
		if op.TableKind != opts.TableKind {
			continue
		}
		if len(opts.Tables) > 0 && !slices.Contains(opts.Tables, op.TableName) {
			continue
		}
		if ctx.Err() != nil {
			result.Status = models.PushCancelledByToken
			break
		}

		status, syncErr := e.executeOperation(ctx, tracked, op)
		if syncErr != nil {
			result.Errors = append(result.Errors, syncErr)
		}
		if status != models.PushComplete {
			result.Status = status
			break
		}
	}

	// Прерванный push не возвращает ошибок, сохраненные SyncError остаются в __errors
	if result.Status != models.PushComplete {
		result.Errors = nil
	}

	// Batch закрываем даже при отмене
	_ = tracked.Close(context.WithoutCancel(ctx))

	e.logger.Info("Push finished",
		"status", result.Status,
		"errors", len(result.Errors),
		"pending", e.queue.PendingCount())

	if err := e.handler.OnPushComplete(ctx, result); err != nil {
		return result, fmt.Errorf("push completion handler failed: %w", err)
	}

	if e.publisher != nil {
		e.publisher.Publish(ctx, events.PushCompletedEvent{Result: result})
	}

	if result.Status != models.PushComplete || len(result.UnhandledErrors()) > 0 {
		return result, &PushFailedError{Result: result}
	}
	return result, nil
}

// executeOperation отправляет одну операцию под блокировкой записи
func (e *Engine) executeOperation(ctx context.Context, store storage.Store, snapshot *models.Operation) (models.PushStatus, *models.SyncError) {
	release, err := e.queue.LockItem(ctx, snapshot.TableName, snapshot.ItemID)
	if err != nil {
		return models.PushCancelledByToken, nil
	}
	defer release()

	// Операция могла измениться или исчезнуть, пока ждали блокировку
	op := e.queue.Get(snapshot.ID)
	if op == nil {
		return models.PushComplete, nil
	}

	// Локальные изменения после отмены все равно должны быть доведены до конца
	localCtx := context.WithoutCancel(ctx)
	logger := e.logger.With("operation_id", op.ID, "table", op.TableName, "item_id", op.ItemID, "kind", op.Kind)

	if err := e.queue.SetState(localCtx, op.ID, models.StateExecuting); err != nil {
		logger.Error("Failed to mark operation executing", "error", err)
		return models.PushInternalError, nil
	}

	item, execErr := e.handler.ExecuteTableOperation(ctx, op)

	if execErr == nil || (op.Kind == models.OperationDelete && remote.IsNotFound(execErr)) {
		if op.Kind != models.OperationDelete && item != nil {
			if err := store.Upsert(localCtx, op.TableName, []models.Item{item}, true); err != nil {
				logger.Error("Failed to store server result", "error", err)
				e.revert(localCtx, logger, op.ID)
				return models.PushInternalError, nil
			}
		}
		if err := e.queue.Remove(localCtx, op.ID); err != nil {
			logger.Error("Failed to remove completed operation", "error", err)
			return models.PushInternalError, nil
		}
		logger.Debug("Operation pushed")
		return models.PushComplete, nil
	}

	e.revert(localCtx, logger, op.ID)

	switch {
	case errors.Is(execErr, context.Canceled) || errors.Is(execErr, context.DeadlineExceeded):
		logger.Info("Push cancelled")
		return models.PushCancelledByToken, nil
	case errors.Is(execErr, remote.ErrNetwork):
		logger.Warn("Push aborted by network error", "error", execErr)
		return models.PushCancelledByNetworkError, nil
	case errors.Is(execErr, remote.ErrUnauthorized):
		logger.Warn("Push aborted by authentication error", "error", execErr)
		return models.PushCancelledByAuthenticationError, nil
	}

	syncErr := newSyncError(op, execErr)
	if err := e.queue.SaveError(localCtx, syncErr); err != nil {
		logger.Error("Failed to save sync error", "error", err)
		return models.PushInternalError, nil
	}
	logger.Warn("Operation rejected by server", "status_code", syncErr.StatusCode)
	return models.PushComplete, syncErr
}

// revert возвращает операцию в состояние Pending
func (e *Engine) revert(ctx context.Context, logger *slog.Logger, id string) {
	if err := e.queue.SetState(ctx, id, models.StatePending); err != nil {
		logger.Error("Failed to revert operation state", "error", err)
	}
}

func newSyncError(op *models.Operation, err error) *models.SyncError {
	syncErr := &models.SyncError{
		OperationID:      op.ID,
		OperationVersion: op.Version,
		OperationKind:    op.Kind,
		TableName:        op.TableName,
		ItemID:           op.ItemID,
		Item:             op.Item.Clone(),
		RawResult:        err.Error(),
	}

	var httpErr *remote.HTTPError
	if errors.As(err, &httpErr) {
		syncErr.StatusCode = httpErr.StatusCode
		syncErr.RawResult = httpErr.Body
		syncErr.Result = httpErr.Item
	}
	return syncErr
}
