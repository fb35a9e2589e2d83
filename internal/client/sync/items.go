package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/client/tracking"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
	"github.com/iudanet/offlinesync/pkg/api"
)

// Insert stores a new record locally and queues it for push.
// A record without an id gets a new uuid. Returns the stored record.
func (c *Context) Insert(ctx context.Context, table string, item models.Item) (models.Item, error) {
	if err := checkItem(table, item, false); err != nil {
		return nil, err
	}
	item = item.Clone()
	if item.ID() == "" {
		item[api.PropertyID] = uuid.New().String()
	}

	err := c.mutate(ctx, table, item.ID(), models.OperationInsert, func(store tracking.Store, existing models.Item, pending *models.Operation) (models.Item, error) {
		if existing != nil && pending == nil {
			return nil, fmt.Errorf("%w: %s/%s", ErrItemExists, table, item.ID())
		}
		if err := store.Upsert(ctx, table, []models.Item{item}, false); err != nil {
			return nil, fmt.Errorf("failed to store item: %w", err)
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// Update replaces a local record and queues the change for push.
// The record must exist locally. When item carries no version the stored
// version is kept so the server can check it.
func (c *Context) Update(ctx context.Context, table string, item models.Item) (models.Item, error) {
	if err := checkItem(table, item, true); err != nil {
		return nil, err
	}
	item = item.Clone()

	err := c.mutate(ctx, table, item.ID(), models.OperationUpdate, func(store tracking.Store, existing models.Item, pending *models.Operation) (models.Item, error) {
		if existing == nil {
			return nil, fmt.Errorf("%s/%s: %w", table, item.ID(), storage.ErrItemNotFound)
		}
		if item.Version() == "" && existing.Version() != "" {
			item[api.PropertyVersion] = existing.Version()
		}
		if err := store.Upsert(ctx, table, []models.Item{item}, false); err != nil {
			return nil, fmt.Errorf("failed to store item: %w", err)
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// Delete removes a local record and queues the deletion for push.
// Only the id of item is used; the queued payload is the stored record.
func (c *Context) Delete(ctx context.Context, table string, item models.Item) error {
	if err := checkItem(table, item, true); err != nil {
		return err
	}
	id := item.ID()

	return c.mutate(ctx, table, id, models.OperationDelete, func(store tracking.Store, existing models.Item, pending *models.Operation) (models.Item, error) {
		if existing == nil {
			return nil, fmt.Errorf("%s/%s: %w", table, id, storage.ErrItemNotFound)
		}
		if err := store.Delete(ctx, table, []string{id}); err != nil {
			return nil, fmt.Errorf("failed to delete item: %w", err)
		}
		return existing, nil
	})
}

// Lookup returns the local record with id
func (c *Context) Lookup(ctx context.Context, table, id string) (models.Item, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.store.Lookup(ctx, table, id)
}

// Read evaluates q against the local store
func (c *Context) Read(ctx context.Context, q *query.Query) ([]models.Item, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if q == nil || q.Table == "" {
		return nil, fmt.Errorf("%w: query with a table is required", ErrInvalidItem)
	}
	return c.store.Read(ctx, q)
}

type localWrite func(store tracking.Store, existing models.Item, pending *models.Operation) (models.Item, error)

// mutate выполняет локальную запись и постановку операции в очередь под блокировкой записи.
// Допустимость операции проверяется до записи в хранилище.
func (c *Context) mutate(ctx context.Context, table, id string, kind models.OperationKind, write localWrite) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	release, err := c.queue.LockItem(ctx, table, id)
	if err != nil {
		return err
	}
	defer release()

	pending := c.queue.TryGetForItem(table, id)
	if pending != nil {
		if err := pending.Validate(kind); err != nil {
			return err
		}
	}

	existing, err := c.store.Lookup(ctx, table, id)
	if err != nil {
		if !errors.Is(err, storage.ErrItemNotFound) {
			return fmt.Errorf("failed to lookup item: %w", err)
		}
		existing = nil
	}

	store, err := tracking.Open(c.store, models.TrackingContext{
		Source:     models.SourceLocal,
		TrackingID: table,
		Options:    c.tracking,
	}, c.bus)
	if err != nil {
		return fmt.Errorf("failed to open tracked store: %w", err)
	}
	defer func() { _ = store.Close(context.WithoutCancel(ctx)) }()

	payload, err := write(store, existing, pending)
	if err != nil {
		return err
	}

	if _, err := c.queue.Enqueue(ctx, table, id, kind, payload); err != nil {
		c.restore(context.WithoutCancel(ctx), table, id, existing)
		return fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}

	c.logger.Debug("Local change recorded", "table", table, "item_id", id, "kind", kind)
	return nil
}

// restore возвращает локальную запись в состояние до неудавшейся постановки в очередь
func (c *Context) restore(ctx context.Context, table, id string, existing models.Item) {
	var err error
	if existing != nil {
		err = c.store.Upsert(ctx, table, []models.Item{existing}, false)
	} else {
		err = c.store.Delete(ctx, table, []string{id})
	}
	if err != nil {
		c.logger.Error("Failed to restore local record", "table", table, "item_id", id, "error", err)
	}
}

func checkItem(table string, item models.Item, needID bool) error {
	if table == "" {
		return fmt.Errorf("%w: table name is required", ErrInvalidItem)
	}
	if storage.IsSystemTable(table) {
		return fmt.Errorf("%w: system table %s cannot be changed directly", ErrInvalidItem, table)
	}
	if item == nil {
		return fmt.Errorf("%w: item is required", ErrInvalidItem)
	}
	if raw, ok := item[api.PropertyID]; ok {
		if _, isString := raw.(string); !isString {
			return fmt.Errorf("%w: id must be a string", ErrInvalidItem)
		}
	}
	if needID && item.ID() == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	return nil
}
