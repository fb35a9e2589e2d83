package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

// SaveError stores the sync error of an operation. There is at most one error
// per operation: the error id is the operation id.
func (q *Queue) SaveError(ctx context.Context, syncErr *models.SyncError) error {
	syncErr.ID = syncErr.OperationID
	item, err := models.ToItem(syncErr)
	if err != nil {
		return fmt.Errorf("failed to encode sync error: %w", err)
	}
	if err := q.store.Upsert(ctx, storage.TableErrors, []models.Item{item}, false); err != nil {
		return fmt.Errorf("failed to save sync error for operation %s: %w", syncErr.OperationID, err)
	}
	return nil
}

// DeleteError removes the sync error recorded for the operation, if any.
func (q *Queue) DeleteError(ctx context.Context, operationID string) error {
	if err := q.store.Delete(ctx, storage.TableErrors, []string{operationID}); err != nil {
		return fmt.Errorf("failed to delete sync error for operation %s: %w", operationID, err)
	}
	return nil
}

// GetError returns the sync error recorded for the operation, or nil.
func (q *Queue) GetError(ctx context.Context, operationID string) (*models.SyncError, error) {
	item, err := q.store.Lookup(ctx, storage.TableErrors, operationID)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sync error: %w", err)
	}
	syncErr := &models.SyncError{}
	if err := item.Decode(syncErr); err != nil {
		return nil, err
	}
	return syncErr, nil
}

// Errors returns all recorded sync errors, ordered like their operations.
func (q *Queue) Errors(ctx context.Context) ([]*models.SyncError, error) {
	items, err := q.store.Read(ctx, query.New(storage.TableErrors))
	if err != nil {
		return nil, fmt.Errorf("failed to read sync errors: %w", err)
	}

	out := make([]*models.SyncError, 0, len(items))
	for _, item := range items {
		syncErr := &models.SyncError{}
		if err := item.Decode(syncErr); err != nil {
			return nil, err
		}
		out = append(out, syncErr)
	}

	seq := func(e *models.SyncError) int64 {
		if op := q.Get(e.OperationID); op != nil {
			return op.Sequence
		}
		// ошибки без операции в конце
		return int64(^uint64(0) >> 1)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return seq(out[i]) < seq(out[j])
	})
	return out, nil
}
