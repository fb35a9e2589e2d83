// Package queue implements the durable operation queue: the ordered log of
// local mutations waiting to be pushed, with collapsing of consecutive
// mutations on the same item and per-item mutual exclusion.
package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

// ErrOperationNotFound indicates that the operation is no longer queued
var ErrOperationNotFound = errors.New("operation not found in queue")

// Queue is the operation queue. The in-memory index is the source of truth
// for reads; every change is persisted to the operations table before it
// becomes visible, so a reader always observes a consistent (state, version).
//
// Callers serialize work on one item with LockItem; the queue itself only
// guards its index.
type Queue struct {
	store       storage.Store
	logger      *slog.Logger
	locks       *keyedLock
	ops         map[string]*models.Operation // по id операции
	byItem      map[string]string            // itemKey -> id операции
	tableCounts map[string]int64
	mu          sync.RWMutex
	nextSeq     int64
	pending     atomic.Int64
}

// New creates an empty queue backed by store. Call Load to restore persisted operations.
func New(store storage.Store, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Queue{
		store:       store,
		logger:      logger,
		locks:       newKeyedLock(),
		ops:         make(map[string]*models.Operation),
		byItem:      make(map[string]string),
		tableCounts: make(map[string]int64),
		nextSeq:     1,
	}
}

func itemKey(table, itemID string) string {
	return table + "\x00" + itemID
}

// Load rebuilds the in-memory index from the operations table.
// Operations interrupted while executing are returned to the pending state.
func (q *Queue) Load(ctx context.Context) error {
	items, err := q.store.Read(ctx, query.New(storage.TableOperations))
	if err != nil {
		return fmt.Errorf("failed to read operations: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.ops = make(map[string]*models.Operation, len(items))
	q.byItem = make(map[string]string, len(items))
	q.tableCounts = make(map[string]int64)
	q.nextSeq = 1

	for _, item := range items {
		op := &models.Operation{}
		if err := item.Decode(op); err != nil {
			return fmt.Errorf("failed to decode operation %s: %w", item.ID(), err)
		}

		if op.State == models.StateExecuting {
			// Прерванная отправка: операцию можно безопасно повторить
			op.State = models.StatePending
			if err := q.persist(ctx, op); err != nil {
				return err
			}
		}

		q.ops[op.ID] = op
		q.byItem[itemKey(op.TableName, op.ItemID)] = op.ID
		q.tableCounts[op.TableName]++
		if op.Sequence >= q.nextSeq {
			q.nextSeq = op.Sequence + 1
		}
	}
	q.pending.Store(int64(len(q.ops)))

	q.logger.Debug("Operation queue loaded", "pending", len(q.ops))
	return nil
}

// LockItem acquires the per-item lock for (table, itemID).
// Every enqueue, push execution and conflict resolution on the item runs under it.
func (q *Queue) LockItem(ctx context.Context, table, itemID string) (release func(), err error) {
	release, err = q.locks.Lock(ctx, itemKey(table, itemID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock item %s/%s: %w", table, itemID, err)
	}
	return release, nil
}

// Enqueue records a mutation. When the item already has a queued operation the
// two are collapsed in place; otherwise a new operation is appended.
// Returns the resulting operation, or nil when the mutations cancelled out.
// The caller must hold the item lock.
func (q *Queue) Enqueue(ctx context.Context, table, itemID string, kind models.OperationKind, item models.Item) (*models.Operation, error) {
	if existing := q.TryGetForItem(table, itemID); existing != nil {
		return q.collapse(ctx, existing, kind, item)
	}

	if kind != models.OperationInsert && kind != models.OperationUpdate && kind != models.OperationDelete {
		return nil, fmt.Errorf("%w: unknown operation kind %q", models.ErrInvalidOperation, kind)
	}

	tableKind := models.TableKindData
	if storage.IsSystemTable(table) {
		tableKind = models.TableKindSystem
	}

	q.mu.Lock()
	seq := q.nextSeq
	q.nextSeq++
	q.mu.Unlock()

	op := &models.Operation{
		ID:        uuid.New().String(),
		TableName: table,
		TableKind: tableKind,
		ItemID:    itemID,
		Kind:      kind,
		Item:      item.Clone(),
		Version:   1,
		Sequence:  seq,
		State:     models.StatePending,
		CreatedAt: time.Now().UTC(),
	}

	if err := q.persist(ctx, op); err != nil {
		return nil, err
	}

	q.mu.Lock()
	q.ops[op.ID] = op
	q.byItem[itemKey(table, itemID)] = op.ID
	q.tableCounts[table]++
	q.mu.Unlock()
	q.pending.Add(1)

	q.logger.Debug("Operation enqueued",
		"operation_id", op.ID,
		"table", table,
		"item_id", itemID,
		"kind", kind)

	return op.Clone(), nil
}

func (q *Queue) collapse(ctx context.Context, existing *models.Operation, kind models.OperationKind, item models.Item) (*models.Operation, error) {
	// existing - копия, очередь не меняется при ошибке
	result, err := existing.Collapse(kind, item)
	if err != nil {
		return nil, err
	}

	if result == models.Cancelled {
		if err := q.Remove(ctx, existing.ID); err != nil {
			return nil, err
		}
		q.logger.Debug("Operation cancelled by collapse",
			"operation_id", existing.ID,
			"table", existing.TableName,
			"item_id", existing.ItemID)
		return nil, nil
	}

	if err := q.Update(ctx, existing); err != nil {
		return nil, err
	}

	q.logger.Debug("Operation collapsed",
		"operation_id", existing.ID,
		"kind", existing.Kind,
		"version", existing.Version)

	return existing.Clone(), nil
}

// TryGetForItem returns a copy of the operation queued for the item, or nil.
func (q *Queue) TryGetForItem(table, itemID string) *models.Operation {
	q.mu.RLock()
	defer q.mu.RUnlock()

	id, ok := q.byItem[itemKey(table, itemID)]
	if !ok {
		return nil
	}
	return q.ops[id].Clone()
}

// Get returns a copy of the operation with id, or nil.
func (q *Queue) Get(id string) *models.Operation {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.ops[id].Clone()
}

// Update persists a modified copy of a queued operation.
func (q *Queue) Update(ctx context.Context, op *models.Operation) error {
	if q.Get(op.ID) == nil {
		return fmt.Errorf("%w: %s", ErrOperationNotFound, op.ID)
	}

	stored := op.Clone()
	if err := q.persist(ctx, stored); err != nil {
		return err
	}

	q.mu.Lock()
	q.ops[stored.ID] = stored
	q.mu.Unlock()
	return nil
}

// SetState changes the state of a queued operation.
func (q *Queue) SetState(ctx context.Context, id string, state models.OperationState) error {
	op := q.Get(id)
	if op == nil {
		return fmt.Errorf("%w: %s", ErrOperationNotFound, id)
	}
	op.State = state
	return q.Update(ctx, op)
}

// Remove deletes the operation with id together with its sync error.
// Removing an operation that is not queued is a no-op.
func (q *Queue) Remove(ctx context.Context, id string) error {
	op := q.Get(id)
	if op == nil {
		return nil
	}

	if err := q.store.Delete(ctx, storage.TableOperations, []string{id}); err != nil {
		return fmt.Errorf("failed to delete operation %s: %w", id, err)
	}
	if err := q.DeleteError(ctx, id); err != nil {
		return err
	}

	q.mu.Lock()
	delete(q.ops, id)
	key := itemKey(op.TableName, op.ItemID)
	if q.byItem[key] == id {
		delete(q.byItem, key)
	}
	q.tableCounts[op.TableName]--
	if q.tableCounts[op.TableName] <= 0 {
		delete(q.tableCounts, op.TableName)
	}
	q.mu.Unlock()
	q.pending.Add(-1)

	return nil
}

// RemoveTable drops every operation queued for table.
func (q *Queue) RemoveTable(ctx context.Context, table string) error {
	for _, op := range q.Snapshot() {
		if op.TableName != table {
			continue
		}
		release, err := q.LockItem(ctx, op.TableName, op.ItemID)
		if err != nil {
			return err
		}
		err = q.Remove(ctx, op.ID)
		release()
		if err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns copies of all queued operations in FIFO order.
func (q *Queue) Snapshot() []*models.Operation {
	q.mu.RLock()
	ops := make([]*models.Operation, 0, len(q.ops))
	for _, op := range q.ops {
		ops = append(ops, op.Clone())
	}
	q.mu.RUnlock()

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Sequence < ops[j].Sequence
	})
	return ops
}

// PendingCount returns the number of queued operations.
func (q *Queue) PendingCount() int64 {
	return q.pending.Load()
}

// CountPending returns the number of operations queued for table.
func (q *Queue) CountPending(table string) int64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.tableCounts[table]
}

// persist сохраняет операцию в системную таблицу
func (q *Queue) persist(ctx context.Context, op *models.Operation) error {
	item, err := models.ToItem(op)
	if err != nil {
		return fmt.Errorf("failed to encode operation %s: %w", op.ID, err)
	}
	if err := q.store.Upsert(ctx, storage.TableOperations, []models.Item{item}, false); err != nil {
		return fmt.Errorf("failed to save operation %s: %w", op.ID, err)
	}
	return nil
}
