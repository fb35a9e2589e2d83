package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

// Upsert inserts or replaces records in one transaction
func (s *Storage) Upsert(ctx context.Context, table string, items []models.Item, fromServer bool) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := `
		INSERT INTO items (table_name, id, data, from_server, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (table_name, id) DO UPDATE SET
			data = excluded.data,
			from_server = excluded.from_server,
			updated_at = excluded.updated_at
	`

	now := time.Now().Unix()
	for _, item := range items {
		id := item.ID()
		if id == "" {
			return fmt.Errorf("failed to upsert into %s: %w", table, storage.ErrMissingID)
		}

		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item %s: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, stmt, table, id, data, boolToInt(fromServer), now); err != nil {
			return fmt.Errorf("failed to upsert item %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}

	return nil
}

// Lookup retrieves a record by id
func (s *Storage) Lookup(ctx context.Context, table, id string) (models.Item, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM items WHERE table_name = ? AND id = ?`,
		table, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrItemNotFound
		}
		return nil, fmt.Errorf("lookup %s/%s failed: %w", table, id, err)
	}

	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return item, nil
}

// Delete removes records by id, missing ids are ignored
func (s *Storage) Delete(ctx context.Context, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE table_name = ? AND id = ?`, table, id); err != nil {
			return fmt.Errorf("failed to delete item %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

// DeleteQuery removes all records matching the query filter
func (s *Storage) DeleteQuery(ctx context.Context, q *query.Query) error {
	if q.Filter == nil {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE table_name = ?`, q.Table); err != nil {
			return fmt.Errorf("failed to delete table %s: %w", q.Table, err)
		}
		return nil
	}

	// Фильтр вычисляется в Go, поэтому сначала находим подходящие id
	items, err := s.readTable(ctx, q.Table)
	if err != nil {
		return err
	}

	var ids []string
	for _, item := range items {
		if q.Filter.Match(item) {
			ids = append(ids, item.ID())
		}
	}

	return s.Delete(ctx, q.Table, ids)
}

// Read returns records matching the query
func (s *Storage) Read(ctx context.Context, q *query.Query) ([]models.Item, error) {
	items, err := s.readTable(ctx, q.Table)
	if err != nil {
		return nil, err
	}
	return query.Apply(items, q), nil
}

func (s *Storage) readTable(ctx context.Context, table string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM items WHERE table_name = ? ORDER BY id`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		var item models.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// boolToInt конвертирует bool в int для SQLite
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
