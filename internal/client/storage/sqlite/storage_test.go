package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func TestNew_RunsMigrations(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	var name string
	err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'items'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "items", name)
}

func TestStorage_FileReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "local.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, "todo", []models.Item{{"id": "1", "text": "persisted"}}, false))
	require.NoError(t, s.Close())

	// Повторное открытие не должно заново применять миграции с ошибкой
	s, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Lookup(ctx, "todo", "1")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got["text"])
}

func TestStorage_UpsertLookupDelete(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.Lookup(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	require.NoError(t, s.Upsert(ctx, "todo", []models.Item{
		{"id": "1", "text": "first", "version": "AAA"},
		{"id": "2", "text": "second"},
	}, true))

	got, err := s.Lookup(ctx, "todo", "1")
	require.NoError(t, err)
	assert.Equal(t, "first", got["text"])
	assert.Equal(t, "AAA", got.Version())

	// Одинаковые id в разных таблицах не пересекаются
	_, err = s.Lookup(ctx, "notes", "1")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	require.NoError(t, s.Upsert(ctx, "todo", []models.Item{{"id": "1", "text": "changed"}}, false))
	got, err = s.Lookup(ctx, "todo", "1")
	require.NoError(t, err)
	assert.Equal(t, "changed", got["text"])

	require.NoError(t, s.Delete(ctx, "todo", []string{"1", "missing"}))
	_, err = s.Lookup(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)
}

func TestStorage_Upsert_MissingIDRollsBack(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.Upsert(ctx, "todo", []models.Item{{"id": "1"}, {"text": "no id"}}, false)
	require.ErrorIs(t, err, storage.ErrMissingID)

	// Первая запись не должна сохраниться
	_, err = s.Lookup(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)
}

func TestStorage_ReadDeleteQuery(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.Upsert(ctx, "todo", []models.Item{
		{"id": "1", "done": true},
		{"id": "2", "done": false},
		{"id": "3", "done": true},
	}, false))

	done, err := s.Read(ctx, query.New("todo").Where(query.Compare("done", query.Eq, true)))
	require.NoError(t, err)
	assert.Len(t, done, 2)

	require.NoError(t, s.DeleteQuery(ctx, query.New("todo").Where(query.Compare("done", query.Eq, true))))
	left, err := s.Read(ctx, query.New("todo"))
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "2", left[0].ID())

	require.NoError(t, s.DeleteQuery(ctx, query.New("todo")))
	left, err = s.Read(ctx, query.New("todo"))
	require.NoError(t, err)
	assert.Empty(t, left)
}
