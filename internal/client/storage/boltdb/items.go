package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

// Upsert stores or replaces records in the table bucket
func (s *Storage) Upsert(ctx context.Context, table string, items []models.Item, fromServer bool) error {
	if len(items) == 0 {
		return nil
	}

	// Сериализуем записи заранее, чтобы не держать транзакцию открытой
	encoded := make(map[string][]byte, len(items))
	for _, item := range items {
		id := item.ID()
		if id == "" {
			return fmt.Errorf("failed to upsert into %s: %w", table, storage.ErrMissingID)
		}
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item %s: %w", id, err)
		}
		encoded[id] = data
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		for id, data := range encoded {
			if err := bucket.Put([]byte(id), data); err != nil {
				return fmt.Errorf("failed to save item %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert transaction failed: %w", err)
	}

	return nil
}

// Lookup retrieves a record by id
func (s *Storage) Lookup(ctx context.Context, table, id string) (models.Item, error) {
	var item models.Item

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(table))
		if bucket == nil {
			return storage.ErrItemNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrItemNotFound
		}

		// Десериализуем
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("failed to unmarshal item: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup %s/%s failed: %w", table, id, err)
	}

	return item, nil
}

// Delete removes records by id, missing ids are ignored
func (s *Storage) Delete(ctx context.Context, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(table))
		if bucket == nil {
			// Нет bucket - нечего удалять
			return nil
		}

		for _, id := range ids {
			if err := bucket.Delete([]byte(id)); err != nil {
				return fmt.Errorf("failed to delete item %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}

// DeleteQuery removes all records matching the query filter
func (s *Storage) DeleteQuery(ctx context.Context, q *query.Query) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(q.Table))
		if bucket == nil {
			return nil
		}

		var ids [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if q.Filter != nil {
				var item models.Item
				if err := json.Unmarshal(v, &item); err != nil {
					return fmt.Errorf("failed to unmarshal item: %w", err)
				}
				if !q.Filter.Match(item) {
					return nil
				}
			}
			// Ключи нельзя удалять внутри ForEach, копируем
			ids = append(ids, append([]byte(nil), k...))
			return nil
		})
		if err != nil {
			return err
		}

		for _, id := range ids {
			if err := bucket.Delete(id); err != nil {
				return fmt.Errorf("failed to delete item %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete query transaction failed: %w", err)
	}

	return nil
}

// Read returns records matching the query
func (s *Storage) Read(ctx context.Context, q *query.Query) ([]models.Item, error) {
	var items []models.Item

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(q.Table))
		if bucket == nil {
			// Нет bucket - возвращаем пустой массив
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var item models.Item
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal item: %w", err)
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", q.Table, err)
	}

	return query.Apply(items, q), nil
}
