package storage

import (
	"context"

	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

// Системные таблицы, которые использует движок синхронизации
const (
	TableOperations = "__operations"
	TableErrors     = "__errors"
	TableConfig     = "__config"
)

// IsSystemTable reports whether table is one of the engine's own tables.
func IsSystemTable(table string) bool {
	switch table {
	case TableOperations, TableErrors, TableConfig:
		return true
	}
	return false
}

//go:generate moq -out store_mock.go . Store

// Store defines the local store primitives the sync engine relies on.
// Implementations must be safe for concurrent use.
type Store interface {
	// Upsert inserts or replaces records by id.
	// fromServer is true when the records come from the remote service.
	Upsert(ctx context.Context, table string, items []models.Item, fromServer bool) error

	// Lookup retrieves a record by id
	// Returns ErrItemNotFound if the record doesn't exist
	Lookup(ctx context.Context, table, id string) (models.Item, error)

	// Delete removes records by id. Missing ids are ignored.
	Delete(ctx context.Context, table string, ids []string) error

	// DeleteQuery removes every record matching q. Paging and projection are ignored.
	DeleteQuery(ctx context.Context, q *query.Query) error

	// Read returns the records matching q.
	Read(ctx context.Context, q *query.Query) ([]models.Item, error)
}
