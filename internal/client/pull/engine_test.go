package pull

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/client/push"
	"github.com/iudanet/offlinesync/internal/client/queue"
	"github.com/iudanet/offlinesync/internal/client/remote"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/client/storage/boltdb"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
	"github.com/iudanet/offlinesync/pkg/api"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func ts(sec int) string {
	return baseTime.Add(time.Duration(sec) * time.Second).Format(time.RFC3339Nano)
}

func filterFloor(t time.Time) string {
	return query.Compare(api.PropertyUpdatedAt, query.Ge, t).String()
}

type testEnv struct {
	store  *boltdb.Storage
	queue  *queue.Queue
	reader *ReaderMock
	pusher *PusherMock
	engine *Engine
}

func newTestEnv(t *testing.T, pages ...*remote.Page) *testEnv {
	t.Helper()
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "pull.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	q := queue.New(store, nil)
	require.NoError(t, q.Load(context.Background()))

	env := &testEnv{store: store, queue: q}
	env.reader = scriptedReader(pages...)
	env.pusher = &PusherMock{
		PushFunc: func(ctx context.Context, opts push.Options) (*models.PushCompletionResult, error) {
			return &models.PushCompletionResult{Status: models.PushComplete}, nil
		},
	}
	publisher := &events.PublisherMock{PublishFunc: func(ctx context.Context, event events.Event) {}}
	env.engine = NewEngine(env.reader, q, store, env.pusher, publisher, models.DefaultTrackingOptions, nil)
	return env
}

// scriptedReader отдает страницы по порядку, затем пустые
func scriptedReader(pages ...*remote.Page) *ReaderMock {
	next := func() (*remote.Page, error) {
		if len(pages) == 0 {
			return &remote.Page{}, nil
		}
		page := pages[0]
		pages = pages[1:]
		if page == nil {
			return nil, fmt.Errorf("%w: connection reset", remote.ErrNetwork)
		}
		return page, nil
	}
	return &ReaderMock{
		ReadFunc: func(ctx context.Context, table string, params url.Values, features api.Features) (*remote.Page, error) {
			return next()
		},
		ReadLinkFunc: func(ctx context.Context, link string, features api.Features) (*remote.Page, error) {
			return next()
		},
	}
}

func page(items ...models.Item) *remote.Page {
	return &remote.Page{Items: items}
}

func (env *testEnv) enqueue(t *testing.T, table, id string) {
	t.Helper()
	release, err := env.queue.LockItem(context.Background(), table, id)
	require.NoError(t, err)
	defer release()
	_, err = env.queue.Enqueue(context.Background(), table, id, models.OperationInsert, models.Item{"id": id, "text": "local"})
	require.NoError(t, err)
}

func TestPull_Preconditions(t *testing.T) {
	tests := []struct {
		query   *query.Query
		name    string
		queryID string
		opts    Options
	}{
		{name: "nil query", queryID: "q"},
		{name: "empty table", query: query.New("")},
		{name: "system table", query: query.New(storage.TableOperations)},
		{name: "query id with pipe", queryID: "|items", query: query.New("todo")},
		{name: "query id with punctuation", queryID: "items!", query: query.New("todo")},
		{name: "query id too long", queryID: strings.Repeat("a", 129), query: query.New("todo")},
		{name: "incremental with select", queryID: "q", query: query.New("todo").WithSelect("text")},
		{name: "incremental with orderby", queryID: "q", query: query.New("todo").OrderByAscending("text")},
		{name: "incremental with skip", queryID: "q", query: query.New("todo").WithSkip(1)},
		{name: "incremental with top", queryID: "q", query: query.New("todo").WithTop(1)},
		{name: "reserved parameter in query", query: query.New("todo").WithParameter(api.ParamIncludeDeleted, "false")},
		{
			name:  "reserved parameter in options",
			query: query.New("todo"),
			opts:  Options{Parameters: map[string]string{api.ParamIncludeDeleted: "false"}},
		},
		{name: "select", query: query.New("todo").WithSelect("text")},
		{
			name:  "orderby not supported",
			query: query.New("todo").OrderByAscending("text"),
			opts:  Options{SupportedOptions: query.OptionSkip | query.OptionTop},
		},
		{
			name:  "top not supported",
			query: query.New("todo").WithTop(10),
			opts:  Options{SupportedOptions: query.OptionSkip},
		},
		{
			name:  "skip not supported",
			query: query.New("todo").WithSkip(10),
			opts:  Options{SupportedOptions: query.OptionTop},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.enqueue(t, "todo", "dirty")

			_, err := env.engine.Pull(context.Background(), tt.queryID, tt.query, tt.opts)
			require.ErrorIs(t, err, ErrInvalidQuery)
			assert.Empty(t, env.reader.ReadCalls())
			assert.Empty(t, env.pusher.PushCalls(), "no push before validation")
		})
	}
}

func TestPull_DirtyTableGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("push cleans the table", func(t *testing.T) {
		env := newTestEnv(t, page(models.Item{"id": "1"}))
		env.enqueue(t, "todo", "1")
		env.pusher.PushFunc = func(ctx context.Context, opts push.Options) (*models.PushCompletionResult, error) {
			for _, op := range env.queue.Snapshot() {
				require.NoError(t, env.queue.Remove(ctx, op.ID))
			}
			return &models.PushCompletionResult{Status: models.PushComplete}, nil
		}

		_, err := env.engine.Pull(ctx, "", query.New("todo"), Options{})
		require.NoError(t, err)
		require.Len(t, env.pusher.PushCalls(), 1)
		assert.Equal(t, []string{"todo"}, env.pusher.PushCalls()[0].Opts.Tables)
		assert.NotEmpty(t, env.reader.ReadCalls())
	})

	t.Run("table still dirty", func(t *testing.T) {
		env := newTestEnv(t)
		env.enqueue(t, "todo", "1")
		pushErr := &push.PushFailedError{Result: &models.PushCompletionResult{Status: models.PushCancelledByNetworkError}}
		env.pusher.PushFunc = func(ctx context.Context, opts push.Options) (*models.PushCompletionResult, error) {
			return pushErr.Result, pushErr
		}

		_, err := env.engine.Pull(ctx, "", query.New("todo"), Options{})
		require.ErrorIs(t, err, ErrTableDirty)
		var failed *push.PushFailedError
		assert.ErrorAs(t, err, &failed)
		assert.Empty(t, env.reader.ReadCalls())
	})

	t.Run("other table dirty", func(t *testing.T) {
		env := newTestEnv(t)
		env.enqueue(t, "notes", "1")

		_, err := env.engine.Pull(ctx, "", query.New("todo"), Options{})
		require.NoError(t, err)
		assert.Empty(t, env.pusher.PushCalls())

		_, err = env.engine.Pull(ctx, "", query.New("todo"), Options{PushOtherTables: true})
		require.ErrorIs(t, err, ErrTableDirty)
		require.Len(t, env.pusher.PushCalls(), 1)
		assert.Nil(t, env.pusher.PushCalls()[0].Opts.Tables)
	})
}

func TestPull_IncrementalDeltaToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t,
		page(models.Item{"id": "a", "updatedAt": ts(1)}, models.Item{"id": "b", "updatedAt": ts(2)}),
		// плато: максимальная метка не выросла
		page(models.Item{"id": "c", "updatedAt": ts(2)}, models.Item{"id": "d", "updatedAt": ts(2)}),
		page(models.Item{"id": "e", "updatedAt": ts(3)}),
	)

	pulled, err := env.engine.Pull(ctx, "todo_all", query.New("todo"), Options{MaxPageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, pulled)

	calls := env.reader.ReadCalls()
	require.Len(t, calls, 4)

	epoch := time.Unix(0, 0).UTC()
	first := calls[0].Params
	assert.Equal(t, filterFloor(epoch), first.Get(api.ParamFilter))
	assert.Equal(t, "updatedAt", first.Get(api.ParamOrderBy))
	assert.Equal(t, "2", first.Get(api.ParamTop))
	assert.Empty(t, first.Get(api.ParamSkip))
	assert.Equal(t, "true", first.Get(api.ParamIncludeDeleted))
	assert.Equal(t, api.FeatureOffline|api.FeatureIncrementalPull, calls[0].Features)

	// граница сдвинулась, skip сброшен
	floor2 := baseTime.Add(2 * time.Second)
	assert.Equal(t, filterFloor(floor2), calls[1].Params.Get(api.ParamFilter))
	assert.Empty(t, calls[1].Params.Get(api.ParamSkip))

	// плато: та же граница, skip += 2
	assert.Equal(t, filterFloor(floor2), calls[2].Params.Get(api.ParamFilter))
	assert.Equal(t, "2", calls[2].Params.Get(api.ParamSkip))

	floor3 := baseTime.Add(3 * time.Second)
	assert.Equal(t, filterFloor(floor3), calls[3].Params.Get(api.ParamFilter))
	assert.Empty(t, calls[3].Params.Get(api.ParamSkip))

	token, err := storage.NewSettings(env.store).GetDeltaToken(ctx, "todo", "todo_all")
	require.NoError(t, err)
	assert.True(t, token.Equal(floor3))

	items, err := env.store.Read(ctx, query.New("todo"))
	require.NoError(t, err)
	assert.Len(t, items, 5)

	// повторный pull начинается с сохраненной границы
	_, err = env.engine.Pull(ctx, "todo_all", query.New("todo"), Options{MaxPageSize: 2})
	require.NoError(t, err)
	calls = env.reader.ReadCalls()
	assert.Equal(t, filterFloor(floor3), calls[len(calls)-1].Params.Get(api.ParamFilter))
}

func TestPull_IncrementalKeepsCallerFilter(t *testing.T) {
	env := newTestEnv(t)
	q := query.New("todo").Where(query.Compare("done", query.Eq, false))

	_, err := env.engine.Pull(context.Background(), "open", q, Options{})
	require.NoError(t, err)

	calls := env.reader.ReadCalls()
	require.Len(t, calls, 1)
	filter := calls[0].Params.Get(api.ParamFilter)
	assert.Contains(t, filter, "(done eq false)")
	assert.Contains(t, filter, "updatedAt ge datetimeoffset'1970-01-01T00:00:00.000Z'")
	assert.Equal(t, "50", calls[0].Params.Get(api.ParamTop))
}

func TestPull_InterruptedPullResumes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t,
		page(models.Item{"id": "a", "updatedAt": ts(1)}, models.Item{"id": "b", "updatedAt": ts(2)}),
		nil, // сбой сети на второй странице
	)

	pulled, err := env.engine.Pull(ctx, "q1", query.New("todo"), Options{MaxPageSize: 2})
	require.ErrorIs(t, err, remote.ErrNetwork)
	assert.Equal(t, 2, pulled)

	// первая страница применена, граница сохранена
	token, err := storage.NewSettings(env.store).GetDeltaToken(ctx, "todo", "q1")
	require.NoError(t, err)
	assert.True(t, token.Equal(baseTime.Add(2*time.Second)))

	env.reader.ReadFunc = scriptedReader(
		page(models.Item{"id": "b", "updatedAt": ts(2)}, models.Item{"id": "c", "updatedAt": ts(3)}),
	).ReadFunc

	_, err = env.engine.Pull(ctx, "q1", query.New("todo"), Options{MaxPageSize: 2})
	require.NoError(t, err)

	items, err := env.store.Read(ctx, query.New("todo").OrderByAscending("id"))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ID())
	assert.Equal(t, "c", items[2].ID())
}

func TestPull_SkipPagingWithCap(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t,
		page(models.Item{"id": "1"}, models.Item{"id": "2"}),
		page(models.Item{"id": "3"}, models.Item{"id": "4"}),
		// сервер вернул больше, чем просили
		page(models.Item{"id": "5"}, models.Item{"id": "6"}),
	)

	pulled, err := env.engine.Pull(ctx, "", query.New("todo").WithTop(5), Options{MaxPageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, pulled)

	calls := env.reader.ReadCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, "2", calls[0].Params.Get(api.ParamTop))
	assert.Empty(t, calls[0].Params.Get(api.ParamSkip))
	assert.Empty(t, calls[0].Params.Get(api.ParamOrderBy))
	assert.Equal(t, api.FeatureOffline, calls[0].Features)
	assert.Equal(t, "2", calls[1].Params.Get(api.ParamSkip))
	assert.Equal(t, "1", calls[2].Params.Get(api.ParamTop))
	assert.Equal(t, "4", calls[2].Params.Get(api.ParamSkip))

	_, err = env.store.Lookup(ctx, "todo", "6")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	// без queryId delta token не пишется
	configs, err := env.store.Read(ctx, query.New(storage.TableConfig))
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestPull_CallerSkipIsOffset(t *testing.T) {
	env := newTestEnv(t, page(models.Item{"id": "1"}))

	_, err := env.engine.Pull(context.Background(), "", query.New("todo").WithSkip(10), Options{
		Parameters: map[string]string{"tenant": "acme"},
	})
	require.NoError(t, err)

	calls := env.reader.ReadCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "10", calls[0].Params.Get(api.ParamSkip))
	assert.Equal(t, "11", calls[1].Params.Get(api.ParamSkip))
	assert.Equal(t, "acme", calls[1].Params.Get("tenant"))
}

func TestPull_TopZeroSendsNothing(t *testing.T) {
	env := newTestEnv(t)
	pulled, err := env.engine.Pull(context.Background(), "", query.New("todo").WithTop(0), Options{})
	require.NoError(t, err)
	assert.Zero(t, pulled)
	assert.Empty(t, env.reader.ReadCalls())
}

func TestPull_FollowsNextLink(t *testing.T) {
	first := page(models.Item{"id": "1"}, models.Item{"id": "2"})
	first.Link = &remote.Link{URI: "http://server/tables/todo?$skip=2&$top=2", Relation: remote.RelNext}
	second := page(models.Item{"id": "3"})
	second.Link = &remote.Link{URI: "http://server/tables/todo?$skip=3", Relation: "prev"}

	env := newTestEnv(t, first, second)
	pulled, err := env.engine.Pull(context.Background(), "", query.New("todo"), Options{MaxPageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, pulled)

	links := env.reader.ReadLinkCalls()
	require.Len(t, links, 1)
	assert.Equal(t, first.Link.URI, links[0].Link)

	// ссылка prev проигнорирована, следующая страница построена по skip
	calls := env.reader.ReadCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "3", calls[1].Params.Get(api.ParamSkip))
}

func TestPull_IgnoresDisallowedNextLink(t *testing.T) {
	first := page(models.Item{"id": "1"})
	first.Link = &remote.Link{URI: "http://server/tables/todo?$skip=1", Relation: remote.RelNext}

	env := newTestEnv(t, first, page(models.Item{"id": "2"}))
	pulled, err := env.engine.Pull(context.Background(), "", query.New("todo"), Options{
		SupportedOptions: query.OptionTop | query.OptionOrderBy,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pulled)
	assert.Empty(t, env.reader.ReadLinkCalls())
	// без поддержки skip дальше идти нельзя
	assert.Len(t, env.reader.ReadCalls(), 1)
}

func TestPull_SoftDeletes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, page(
		models.Item{"id": "1", "deleted": true},
		models.Item{"id": "3", "text": "new"},
		models.Item{"id": "missing", "deleted": true},
		models.Item{"text": "no id"},
	))
	require.NoError(t, env.store.Upsert(ctx, "todo", []models.Item{{"id": "1"}, {"id": "2"}}, true))

	_, err := env.engine.Pull(ctx, "", query.New("todo"), Options{})
	require.NoError(t, err)

	items, err := env.store.Read(ctx, query.New("todo").OrderByAscending("id"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ID())
	assert.Equal(t, "3", items[1].ID())
}

func TestPull_SkipsRecordsWithPendingOperations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.store.Upsert(ctx, "todo", []models.Item{{"id": "1", "text": "local"}}, false))
	env.enqueue(t, "todo", "1")

	p := &pager{
		engine:    env.engine,
		store:     env.store,
		query:     query.New("todo"),
		supported: query.OptionAll,
		pageSize:  DefaultPageSize,
	}
	require.NoError(t, p.apply(ctx, []models.Item{
		{"id": "1", "text": "server"},
		{"id": "2", "text": "server"},
	}))

	local, err := env.store.Lookup(ctx, "todo", "1")
	require.NoError(t, err)
	assert.Equal(t, "local", local["text"])
	_, err = env.store.Lookup(ctx, "todo", "2")
	assert.NoError(t, err)
}

func TestPull_WaitsForLocalMutationOnSameItem(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	var serverWriteSeen bool
	mutated := make(chan struct{})
	env.reader.ReadFunc = func(ctx context.Context, table string, params url.Values, features api.Features) (*remote.Page, error) {
		if len(env.reader.ReadCalls()) > 1 {
			return &remote.Page{}, nil
		}
		// локальная запись держит блокировку, пока страница применяется
		release, err := env.queue.LockItem(ctx, "todo", "1")
		require.NoError(t, err)
		go func() {
			defer close(mutated)
			defer release()
			time.Sleep(20 * time.Millisecond)
			_, err := env.store.Lookup(context.Background(), "todo", "1")
			serverWriteSeen = err == nil
			_ = env.store.Upsert(context.Background(), "todo", []models.Item{{"id": "1", "text": "local"}}, false)
			_, _ = env.queue.Enqueue(context.Background(), "todo", "1", models.OperationInsert, models.Item{"id": "1", "text": "local"})
		}()
		return page(models.Item{"id": "1", "text": "server"}), nil
	}

	_, err := env.engine.Pull(ctx, "", query.New("todo"), Options{})
	require.NoError(t, err)
	<-mutated

	assert.False(t, serverWriteSeen)
	local, err := env.store.Lookup(ctx, "todo", "1")
	require.NoError(t, err)
	assert.Equal(t, "local", local["text"])
	assert.Equal(t, int64(1), env.queue.CountPending("todo"))
}

func TestPull_PublishesCompletion(t *testing.T) {
	env := newTestEnv(t, page(models.Item{"id": "1"}))
	var got []events.PullCompletedEvent
	env.engine.publisher = &events.PublisherMock{PublishFunc: func(ctx context.Context, event events.Event) {
		if ev, ok := event.(events.PullCompletedEvent); ok {
			got = append(got, ev)
		}
	}}

	_, err := env.engine.Pull(context.Background(), "q", query.New("todo"), Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "todo", got[0].TableName)
	assert.Equal(t, "q", got[0].QueryID)
	assert.Equal(t, 1, got[0].Pulled)
	assert.NoError(t, got[0].Err)
}
