package sync

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/client/pull"
	"github.com/iudanet/offlinesync/internal/client/push"
	"github.com/iudanet/offlinesync/internal/client/remote"
	"github.com/iudanet/offlinesync/internal/client/remote/remotetest"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/client/storage/boltdb"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
	"github.com/iudanet/offlinesync/pkg/api"
)

const todo = "todo"

type fixture struct {
	sync   *Context
	store  *boltdb.Storage
	server *remotetest.Server
	client *remote.Client
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	server := remotetest.NewServer(t)
	client := remote.NewClient(server.URL)

	c, err := New(ctx, store, client, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return &fixture{sync: c, store: store, server: server, client: client}
}

// requests возвращает запросы к серверу с методом method
func (f *fixture) requests(method string) []remotetest.Request {
	var out []remotetest.Request
	for _, r := range f.server.Requests() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func localIDs(t *testing.T, c *Context, table string) []string {
	t.Helper()
	items, err := c.Read(context.Background(), query.New(table))
	require.NoError(t, err)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID())
	}
	sort.Strings(ids)
	return ids
}

func TestNew_LoadsQueuedOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "a", "title": "milk"})
	require.NoError(t, err)
	f.sync.Close()

	reopened, err := New(ctx, f.store, f.client)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, int64(1), reopened.PendingOperations())
}

func TestInsert_AssignsID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	stored, err := f.sync.Insert(ctx, todo, models.Item{"title": "milk"})
	require.NoError(t, err)
	require.NotEmpty(t, stored.ID())

	local, err := f.sync.Lookup(ctx, todo, stored.ID())
	require.NoError(t, err)
	assert.Equal(t, "milk", local["title"])
	assert.Equal(t, int64(1), f.sync.PendingOperations())
}

func TestInsert_ExistingRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "a"})
	require.NoError(t, err)

	// Вставка уже ожидающей записи
	_, err = f.sync.Insert(ctx, todo, models.Item{"id": "a"})
	assert.ErrorIs(t, err, models.ErrDuplicateInsert)

	_, err = f.sync.Push(ctx)
	require.NoError(t, err)

	// Запись есть локально, операций нет
	_, err = f.sync.Insert(ctx, todo, models.Item{"id": "a"})
	assert.ErrorIs(t, err, ErrItemExists)
	assert.Zero(t, f.sync.PendingOperations())
}

func TestInvalidItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name  string
		table string
		item  models.Item
	}{
		{name: "empty table", table: "", item: models.Item{"id": "a"}},
		{name: "system table", table: storage.TableOperations, item: models.Item{"id": "a"}},
		{name: "nil item", table: todo, item: nil},
		{name: "numeric id", table: todo, item: models.Item{"id": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sync.Insert(ctx, tt.table, tt.item)
			assert.ErrorIs(t, err, ErrInvalidItem)
		})
	}

	_, err := f.sync.Update(ctx, todo, models.Item{"title": "no id"})
	assert.ErrorIs(t, err, ErrInvalidItem)
	assert.ErrorIs(t, f.sync.Delete(ctx, todo, models.Item{}), ErrInvalidItem)
	assert.Zero(t, f.sync.PendingOperations())
}

var errSaveOperation = errors.New("disk full")

// operationsFailStore отказывает в сохранении операций очереди, пока включен fail
type operationsFailStore struct {
	storage.Store
	fail atomic.Bool
}

func (s *operationsFailStore) Upsert(ctx context.Context, table string, items []models.Item, fromServer bool) error {
	if table == storage.TableOperations && s.fail.Load() {
		return errSaveOperation
	}
	return s.Store.Upsert(ctx, table, items, fromServer)
}

func TestMutations_RestoreRecordWhenEnqueueFails(t *testing.T) {
	ctx := context.Background()
	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Upsert(ctx, todo, []models.Item{{"id": "b", "version": "v1", "title": "bread"}}, true))

	failing := &operationsFailStore{Store: store}
	server := remotetest.NewServer(t)
	c, err := New(ctx, failing, remote.NewClient(server.URL))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	failing.fail.Store(true)

	_, err = c.Insert(ctx, todo, models.Item{"id": "a", "title": "milk"})
	require.ErrorIs(t, err, errSaveOperation)
	_, err = c.Lookup(ctx, todo, "a")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	_, err = c.Update(ctx, todo, models.Item{"id": "b", "title": "rye"})
	require.ErrorIs(t, err, errSaveOperation)
	got, err := c.Lookup(ctx, todo, "b")
	require.NoError(t, err)
	assert.Equal(t, "bread", got["title"])

	err = c.Delete(ctx, todo, models.Item{"id": "b"})
	require.ErrorIs(t, err, errSaveOperation)
	_, err = c.Lookup(ctx, todo, "b")
	require.NoError(t, err)

	assert.Equal(t, int64(0), c.PendingOperations())

	failing.fail.Store(false)
	_, err = c.Update(ctx, todo, models.Item{"id": "b", "title": "rye"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.PendingOperations())
}

func TestUpdateDelete_MissingRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sync.Update(ctx, todo, models.Item{"id": "missing"})
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	err = f.sync.Delete(ctx, todo, models.Item{"id": "missing"})
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	assert.Zero(t, f.sync.PendingOperations())
}

func TestInsertThenUpdate_PushesOneInsert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "a", "title": "milk"})
	require.NoError(t, err)
	_, err = f.sync.Update(ctx, todo, models.Item{"id": "a", "title": "oat milk"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.sync.PendingOperations())

	result, err := f.sync.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PushComplete, result.Status)

	require.Len(t, f.server.Requests(), 1)
	inserts := f.requests("POST")
	require.Len(t, inserts, 1)
	assert.Equal(t, "oat milk", inserts[0].Body["title"])

	// Локально лежит серверная версия
	local, err := f.sync.Lookup(ctx, todo, "a")
	require.NoError(t, err)
	assert.Equal(t, f.server.Item(todo, "a").Version(), local.Version())
	assert.Zero(t, f.sync.PendingOperations())
}

func TestInsertThenDelete_NothingToPush(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "a"})
	require.NoError(t, err)
	require.NoError(t, f.sync.Delete(ctx, todo, models.Item{"id": "a"}))
	assert.Zero(t, f.sync.PendingOperations())

	_, err = f.sync.Lookup(ctx, todo, "a")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	result, err := f.sync.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PushComplete, result.Status)
	assert.Empty(t, f.server.Requests())
}

func TestUpdateAndDelete_SendVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.server.Seed(todo, models.Item{"id": "a", "title": "milk"})
	pulled, err := f.sync.Pull(ctx, "", query.New(todo), pull.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, pulled)
	version := f.server.Item(todo, "a").Version()

	// Версия берется из локальной записи
	_, err = f.sync.Update(ctx, todo, models.Item{"id": "a", "title": "bread"})
	require.NoError(t, err)
	_, err = f.sync.Push(ctx)
	require.NoError(t, err)

	patches := f.requests("PATCH")
	require.Len(t, patches, 1)
	assert.Equal(t, `"`+version+`"`, patches[0].Header.Get(api.HeaderIfMatch))
	assert.Equal(t, "bread", f.server.Item(todo, "a")["title"])
	version = f.server.Item(todo, "a").Version()

	require.NoError(t, f.sync.Delete(ctx, todo, models.Item{"id": "a"}))
	_, err = f.sync.Push(ctx)
	require.NoError(t, err)

	deletes := f.requests("DELETE")
	require.Len(t, deletes, 1)
	assert.Equal(t, `"`+version+`"`, deletes[0].Header.Get(api.HeaderIfMatch))
	assert.True(t, f.server.Item(todo, "a").IsDeleted())
	assert.Empty(t, localIDs(t, f.sync, todo))
}

func TestConflict_UpdateOperation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.server.Seed(todo, models.Item{"id": "a", "title": "milk"})
	_, err := f.sync.Pull(ctx, "", query.New(todo), pull.Options{})
	require.NoError(t, err)

	// Кто-то другой меняет запись на сервере
	f.server.Seed(todo, models.Item{"id": "a", "title": "server"})
	serverVersion := f.server.Item(todo, "a").Version()

	_, err = f.sync.Update(ctx, todo, models.Item{"id": "a", "title": "local"})
	require.NoError(t, err)

	result, err := f.sync.Push(ctx)
	var failed *push.PushFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, models.PushComplete, result.Status)

	syncErrors, err := f.sync.Errors(ctx)
	require.NoError(t, err)
	require.Len(t, syncErrors, 1)
	syncErr := syncErrors[0]
	assert.True(t, syncErr.IsConflict())
	require.NotNil(t, syncErr.Result)
	assert.Equal(t, serverVersion, syncErr.Result.Version())

	merged := syncErr.Result.Clone()
	merged["title"] = "local and server"
	require.NoError(t, f.sync.UpdateOperation(ctx, syncErr, merged))

	syncErrors, err = f.sync.Errors(ctx)
	require.NoError(t, err)
	assert.Empty(t, syncErrors)

	_, err = f.sync.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, "local and server", f.server.Item(todo, "a")["title"])
	assert.Zero(t, f.sync.PendingOperations())

	// Повторное разрешение устаревшей ошибки
	err = f.sync.CancelAndDiscardItem(ctx, syncErr)
	assert.ErrorIs(t, err, models.ErrInvalidOperation)
}

func TestConflict_CancelAndUpdateItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.server.Seed(todo, models.Item{"id": "a", "title": "milk"})
	_, err := f.sync.Pull(ctx, "", query.New(todo), pull.Options{})
	require.NoError(t, err)
	f.server.Seed(todo, models.Item{"id": "a", "title": "server"})

	_, err = f.sync.Update(ctx, todo, models.Item{"id": "a", "title": "local"})
	require.NoError(t, err)
	_, err = f.sync.Push(ctx)
	require.Error(t, err)

	syncErrors, err := f.sync.Errors(ctx)
	require.NoError(t, err)
	require.Len(t, syncErrors, 1)

	require.NoError(t, f.sync.CancelAndUpdateItem(ctx, syncErrors[0], syncErrors[0].Result))
	assert.Zero(t, f.sync.PendingOperations())

	local, err := f.sync.Lookup(ctx, todo, "a")
	require.NoError(t, err)
	assert.Equal(t, "server", local["title"])
}

func TestPull_Incremental(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.server.Seed(todo,
		models.Item{"id": "a"},
		models.Item{"id": "b"},
		models.Item{"id": "c"},
	)
	// Запись на границе запрашивается повторно
	pulled, err := f.sync.Pull(ctx, "all", query.New(todo), pull.Options{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pulled, 3)
	assert.Equal(t, []string{"a", "b", "c"}, localIDs(t, f.sync, todo))

	f.server.Seed(todo,
		models.Item{"id": "d"},
		models.Item{"id": "b", "deleted": true},
	)

	// Граница включительная: c приходит повторно
	_, err = f.sync.Pull(ctx, "all", query.New(todo), pull.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, localIDs(t, f.sync, todo))

	for _, r := range f.requests("GET") {
		assert.Equal(t, "true", r.Query.Get(api.ParamIncludeDeleted))
	}
}

func TestPull_PushesDirtyTable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "local"})
	require.NoError(t, err)
	f.server.Seed(todo, models.Item{"id": "remote"})

	_, err = f.sync.Pull(ctx, "", query.New(todo), pull.Options{})
	require.NoError(t, err)

	assert.Zero(t, f.sync.PendingOperations())
	assert.NotNil(t, f.server.Item(todo, "local"))
	assert.Equal(t, []string{"local", "remote"}, localIDs(t, f.sync, todo))

	requests := f.server.Requests()
	require.NotEmpty(t, requests)
	assert.Equal(t, "POST", requests[0].Method)
}

func TestPull_DirtyTableAfterFailedPush(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "a"})
	require.NoError(t, err)
	f.server.FailNext(remotetest.Failure{Method: "POST", Status: 500, Body: api.ErrorResponse{Error: "boom"}})

	_, err = f.sync.Pull(ctx, "", query.New(todo), pull.Options{})
	assert.ErrorIs(t, err, pull.ErrTableDirty)
	assert.Empty(t, f.requests("GET"))
	assert.Equal(t, int64(1), f.sync.PendingOperations())
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	received := make(chan events.Event, 64)
	f.sync.Subscribe(func(event events.Event) {
		if event.Name() == events.NamePurgeCompleted {
			received <- event
		}
	})

	f.server.Seed(todo, models.Item{"id": "a"}, models.Item{"id": "b"})
	_, err := f.sync.Pull(ctx, "all", query.New(todo), pull.Options{})
	require.NoError(t, err)
	token, err := f.sync.settings.GetDeltaToken(ctx, todo, "all")
	require.NoError(t, err)
	require.True(t, token.After(time.Unix(0, 0)))

	_, err = f.sync.Insert(ctx, todo, models.Item{"id": "c"})
	require.NoError(t, err)

	err = f.sync.Purge(ctx, "all", query.New(todo), false)
	require.ErrorIs(t, err, ErrPendingOperations)
	assert.Equal(t, []string{"a", "b", "c"}, localIDs(t, f.sync, todo))

	require.NoError(t, f.sync.Purge(ctx, "all", query.New(todo), true))
	assert.Zero(t, f.sync.PendingOperations())
	assert.Empty(t, localIDs(t, f.sync, todo))

	token, err = f.sync.settings.GetDeltaToken(ctx, todo, "all")
	require.NoError(t, err)
	assert.True(t, token.Equal(time.Unix(0, 0)))

	// Close дожидается доставки событий
	f.sync.Close()
	require.Len(t, received, 1)
	event := (<-received).(events.PurgeCompletedEvent)
	assert.Equal(t, todo, event.TableName)
	assert.Equal(t, "all", event.QueryID)
}

func TestPurge_FilterKeepsOtherRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.server.Seed(todo,
		models.Item{"id": "a", "done": true},
		models.Item{"id": "b", "done": false},
	)
	_, err := f.sync.Pull(ctx, "", query.New(todo), pull.Options{})
	require.NoError(t, err)

	q := query.New(todo).Where(query.Compare("done", query.Eq, true))
	require.NoError(t, f.sync.Purge(ctx, "", q, false))
	assert.Equal(t, []string{"b"}, localIDs(t, f.sync, todo))

	err = f.sync.Purge(ctx, "", query.New(storage.TableConfig), true)
	assert.ErrorIs(t, err, pull.ErrInvalidQuery)
	err = f.sync.Purge(ctx, "bad id!", query.New(todo), true)
	assert.ErrorIs(t, err, pull.ErrInvalidQuery)
}

func TestSubscribe_LocalChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	received := make(chan events.StoreOperation, 64)
	unsubscribe := f.sync.Subscribe(func(event events.Event) {
		if e, ok := event.(events.StoreOperationCompletedEvent); ok {
			received <- e.Operation
		}
	})
	defer unsubscribe()

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "a"})
	require.NoError(t, err)

	select {
	case op := <-received:
		assert.Equal(t, todo, op.TableName)
		assert.Equal(t, "a", op.RecordID)
		assert.Equal(t, events.StoreInsert, op.Kind)
		assert.Equal(t, models.SourceLocal, op.Source)
	case <-time.After(2 * time.Second):
		t.Fatal("no store operation event")
	}
}

func TestWithHandler(t *testing.T) {
	ctx := context.Background()
	handler := &push.HandlerMock{
		ExecuteTableOperationFunc: func(ctx context.Context, op *models.Operation) (models.Item, error) {
			return nil, errors.New("rejected by handler")
		},
		OnPushCompleteFunc: func(ctx context.Context, result *models.PushCompletionResult) error {
			for _, e := range result.Errors {
				e.Handled = true
			}
			return nil
		},
	}
	f := newFixture(t, WithHandler(handler), WithTrackingOptions(models.TrackingNone))

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "a"})
	require.NoError(t, err)

	result, err := f.sync.PushTables(ctx, todo)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Len(t, handler.ExecuteTableOperationCalls(), 1)
	assert.Empty(t, f.server.Requests())
}

func TestTable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	table := f.sync.Table(todo, query.OptionNone)
	assert.Equal(t, todo, table.Name())

	_, err := table.Insert(ctx, models.Item{"id": "a", "n": 1})
	require.NoError(t, err)
	_, err = table.Insert(ctx, models.Item{"id": "b", "n": 2})
	require.NoError(t, err)

	items, err := table.Read(ctx, table.Query().Where(query.Compare("n", query.Gt, 1)))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID())

	_, err = table.Read(ctx, query.New("other"))
	assert.ErrorIs(t, err, pull.ErrInvalidQuery)

	_, err = table.Push(ctx)
	require.NoError(t, err)
	assert.Len(t, f.requests("POST"), 2)

	// Таблица без $skip и $top получает одну страницу
	limited := f.sync.Table(todo, query.OptionOrderBy)
	f.server.PageSize = 1
	pulled, err := limited.Pull(ctx, "", nil, pull.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, pulled)
	last := f.requests("GET")
	require.NotEmpty(t, last)
	assert.Empty(t, last[len(last)-1].Query.Get(api.ParamTop))
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.sync.Close()
	f.sync.Close()

	_, err := f.sync.Insert(ctx, todo, models.Item{"id": "a"})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.sync.Push(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.sync.Pull(ctx, "", query.New(todo), pull.Options{})
	assert.ErrorIs(t, err, ErrClosed)
}
