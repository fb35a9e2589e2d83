// Package tracking wraps the local store so that record changes are counted
// into batches and reported on the event bus, according to a TrackingContext.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

// ErrInvalidTrackingContext is returned when a tracked store is built for a
// context that cannot emit anything.
var ErrInvalidTrackingContext = errors.New("tracking options must not be None for a non-local source")

// Store is a local store bound to one tracking scope.
// Close ends the scope; it must be called exactly once.
type Store interface {
	storage.Store
	Close(ctx context.Context) error
}

// Open returns the store to use for one scope. When no notification applies to
// tc.Source the store is returned untracked, without any lookup or batch overhead.
func Open(store storage.Store, tc models.TrackingContext, publisher events.Publisher) (Store, error) {
	if !tc.Options.NotifiesOperations(tc.Source) && !tc.Options.NotifiesBatch(tc.Source) {
		return untracked{Store: store}, nil
	}
	return NewTrackedStore(store, tc, publisher)
}

// untracked передает вызовы как есть
type untracked struct {
	storage.Store
}

func (untracked) Close(ctx context.Context) error { return nil }

// TrackedStore records every change into a batch and publishes notifications.
type TrackedStore struct {
	store     storage.Store
	publisher events.Publisher
	batch     *batch
	tc        models.TrackingContext
	closeOnce sync.Once
}

// NewTrackedStore builds the tracked wrapper for tc.
func NewTrackedStore(store storage.Store, tc models.TrackingContext, publisher events.Publisher) (*TrackedStore, error) {
	if tc.Options == models.TrackingNone && tc.Source != models.SourceLocal {
		return nil, fmt.Errorf("%w: source %s", ErrInvalidTrackingContext, tc.Source)
	}
	if publisher == nil {
		return nil, errors.New("tracked store requires a publisher")
	}
	return &TrackedStore{
		store:     store,
		publisher: publisher,
		tc:        tc,
		batch:     newBatch(uuid.New().String()),
	}, nil
}

// Upsert writes items and reports one insert or update per record.
func (s *TrackedStore) Upsert(ctx context.Context, table string, items []models.Item, fromServer bool) error {
	// Определяем тип изменения до записи
	kinds := make([]events.StoreOperationKind, len(items))
	suppressed := make([]bool, len(items))
	for i, item := range items {
		existing, err := s.store.Lookup(ctx, table, item.ID())
		if err != nil && !errors.Is(err, storage.ErrItemNotFound) {
			return fmt.Errorf("failed to lookup previous record: %w", err)
		}
		if existing == nil {
			kinds[i] = events.StoreInsert
			continue
		}
		kinds[i] = events.StoreUpdate
		suppressed[i] = s.suppressUpdate(existing, item)
	}

	if err := s.store.Upsert(ctx, table, items, fromServer); err != nil {
		return err
	}

	for i, item := range items {
		seq := s.batch.add(kinds[i])
		if suppressed[i] {
			continue
		}
		s.notify(ctx, table, item.ID(), kinds[i], seq)
	}
	return nil
}

// suppressUpdate реализует правило подавления уведомлений:
// только для серверных источников и только при совпадении версий
func (s *TrackedStore) suppressUpdate(existing, incoming models.Item) bool {
	if !s.tc.Options.Has(models.DetectRecordChanges) {
		return false
	}
	if s.tc.Source != models.SourceServerPull && s.tc.Source != models.SourceServerPush {
		return false
	}
	return existing.Version() == incoming.Version()
}

// Lookup is not tracked
func (s *TrackedStore) Lookup(ctx context.Context, table, id string) (models.Item, error) {
	return s.store.Lookup(ctx, table, id)
}

// Read is not tracked
func (s *TrackedStore) Read(ctx context.Context, q *query.Query) ([]models.Item, error) {
	return s.store.Read(ctx, q)
}

// Delete removes records and reports one delete per record that existed.
func (s *TrackedStore) Delete(ctx context.Context, table string, ids []string) error {
	existing := make([]string, 0, len(ids))
	for _, id := range ids {
		_, err := s.store.Lookup(ctx, table, id)
		if err != nil {
			if errors.Is(err, storage.ErrItemNotFound) {
				continue
			}
			return fmt.Errorf("failed to lookup record before delete: %w", err)
		}
		existing = append(existing, id)
	}

	if err := s.store.Delete(ctx, table, ids); err != nil {
		return err
	}

	s.recordDeletes(ctx, table, existing)
	return nil
}

// DeleteQuery removes matching records and reports each of them.
func (s *TrackedStore) DeleteQuery(ctx context.Context, q *query.Query) error {
	matchQuery := q.Clone()
	matchQuery.Skip, matchQuery.Top, matchQuery.Select = nil, nil, nil

	matched, err := s.store.Read(ctx, matchQuery)
	if err != nil {
		return fmt.Errorf("failed to read records before delete: %w", err)
	}

	if err := s.store.DeleteQuery(ctx, q); err != nil {
		return err
	}

	ids := make([]string, 0, len(matched))
	for _, item := range matched {
		ids = append(ids, item.ID())
	}
	s.recordDeletes(ctx, q.Table, ids)
	return nil
}

func (s *TrackedStore) recordDeletes(ctx context.Context, table string, ids []string) {
	for _, id := range ids {
		seq := s.batch.add(events.StoreDelete)
		s.notify(ctx, table, id, events.StoreDelete, seq)
	}
}

func (s *TrackedStore) notify(ctx context.Context, table, id string, kind events.StoreOperationKind, seq int) {
	if !s.tc.Options.NotifiesOperations(s.tc.Source) {
		return
	}
	s.publisher.Publish(ctx, events.StoreOperationCompletedEvent{
		Operation: events.StoreOperation{
			TableName: table,
			RecordID:  id,
			BatchID:   s.batch.id,
			Kind:      kind,
			Source:    s.tc.Source,
			Sequence:  seq,
		},
	})
}

// Batch returns a snapshot of the counts recorded so far.
func (s *TrackedStore) Batch() events.Batch {
	return s.batch.snapshot(s.tc)
}

// Close finalizes the batch and publishes the batch summary when enabled.
func (s *TrackedStore) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		if !s.tc.Options.NotifiesBatch(s.tc.Source) {
			return
		}
		s.publisher.Publish(ctx, events.StoreBatchCompletedEvent{Batch: s.Batch()})
	})
	return nil
}
