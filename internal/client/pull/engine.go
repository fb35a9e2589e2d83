// Package pull replicates remote table pages into the local store.
package pull

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/client/push"
	"github.com/iudanet/offlinesync/internal/client/queue"
	"github.com/iudanet/offlinesync/internal/client/remote"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/client/tracking"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
	"github.com/iudanet/offlinesync/pkg/api"
)

// DefaultPageSize is the page size used when MaxPageSize is not set
const DefaultPageSize = 50

//go:generate moq -out reader_mock.go . Reader
//go:generate moq -out pusher_mock.go . Pusher

// Reader reads pages of a remote table
type Reader interface {
	Read(ctx context.Context, table string, params url.Values, features api.Features) (*remote.Page, error)
	ReadLink(ctx context.Context, link string, features api.Features) (*remote.Page, error)
}

// Pusher is the push engine as seen by the dirty-table guard
type Pusher interface {
	Push(ctx context.Context, opts push.Options) (*models.PushCompletionResult, error)
}

// Options controls one pull
type Options struct {
	// Parameters are extra query string parameters sent with every request
	Parameters map[string]string
	// SupportedOptions is the set of query options the table supports.
	// The zero value means every option is supported.
	SupportedOptions query.Options
	// MaxPageSize limits the records requested per page (0 = DefaultPageSize)
	MaxPageSize int
	// PushOtherTables makes the guard push and check the whole queue, not only the pulled table
	PushOtherTables bool
}

func (o Options) supported() query.Options {
	if o.SupportedOptions == query.OptionNone {
		return query.OptionAll
	}
	return o.SupportedOptions
}

func (o Options) pageSize() int {
	if o.MaxPageSize > 0 {
		return o.MaxPageSize
	}
	return DefaultPageSize
}

// Engine is the pull engine
type Engine struct {
	reader    Reader
	queue     *queue.Queue
	store     storage.Store
	settings  *storage.Settings
	pusher    Pusher
	publisher events.Publisher
	logger    *slog.Logger
	tracking  models.TrackingOptions
}

// NewEngine creates a pull engine
func NewEngine(reader Reader, q *queue.Queue, store storage.Store, pusher Pusher, publisher events.Publisher, trackingOptions models.TrackingOptions, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		reader:    reader,
		queue:     q,
		store:     store,
		settings:  storage.NewSettings(store),
		pusher:    pusher,
		publisher: publisher,
		logger:    logger,
		tracking:  trackingOptions,
	}
}

// Pull fetches the records matching q into the local store and returns the
// number of records received.
//
// A non-empty queryID makes the pull incremental: the engine orders by
// updatedAt and resumes from the delta token stored for (table, queryID).
func (e *Engine) Pull(ctx context.Context, queryID string, q *query.Query, opts Options) (pulled int, err error) {
	if err := validate(queryID, q, opts); err != nil {
		return 0, err
	}
	table := q.Table

	defer func() {
		if e.publisher != nil {
			e.publisher.Publish(ctx, events.PullCompletedEvent{
				TableName: table,
				QueryID:   queryID,
				Pulled:    pulled,
				Err:       err,
			})
		}
	}()

	if err := e.ensureClean(ctx, table, opts); err != nil {
		return 0, err
	}

	trackingID := table
	if queryID != "" {
		trackingID = queryID
	}
	tracked, err := tracking.Open(e.store, models.TrackingContext{
		Source:     models.SourceServerPull,
		TrackingID: trackingID,
		Options:    e.tracking,
	}, e.publisher)
	if err != nil {
		return 0, fmt.Errorf("failed to open tracked store: %w", err)
	}
	defer func() { _ = tracked.Close(context.WithoutCancel(ctx)) }()

	p := &pager{
		engine:    e,
		store:     tracked,
		query:     q,
		queryID:   queryID,
		opts:      opts,
		supported: opts.supported(),
		pageSize:  opts.pageSize(),
	}
	pulled, err = p.run(ctx)

	e.logger.Info("Pull finished",
		"table", table,
		"query_id", queryID,
		"pulled", pulled,
		"error", err)

	return pulled, err
}

// ensureClean пушит таблицу, если в ней есть ожидающие операции
func (e *Engine) ensureClean(ctx context.Context, table string, opts Options) error {
	if !e.isDirty(table, opts.PushOtherTables) {
		return nil
	}

	pushOpts := push.Options{Tables: []string{table}}
	if opts.PushOtherTables {
		pushOpts.Tables = nil
	}

	e.logger.Debug("Table is dirty, pushing before pull", "table", table)
	_, pushErr := e.pusher.Push(ctx, pushOpts)

	if e.isDirty(table, opts.PushOtherTables) {
		if pushErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrTableDirty, table, pushErr)
		}
		return fmt.Errorf("%w: %s", ErrTableDirty, table)
	}
	return nil
}

func (e *Engine) isDirty(table string, anyTable bool) bool {
	if !anyTable {
		return e.queue.CountPending(table) > 0
	}
	for _, op := range e.queue.Snapshot() {
		if op.TableKind == models.TableKindData {
			return true
		}
	}
	return false
}

// pager хранит состояние постраничной загрузки одного pull
type pager struct {
	floor     time.Time
	engine    *Engine
	store     storage.Store
	query     *query.Query
	opts      Options
	queryID   string
	pageSize  int
	supported query.Options
	skip      int
}

func (p *pager) incremental() bool {
	return p.queryID != "" && p.supported.Has(query.OptionOrderBy)
}

func (p *pager) features() api.Features {
	if p.incremental() {
		return api.FeatureOffline | api.FeatureIncrementalPull
	}
	return api.FeatureOffline
}

func (p *pager) run(ctx context.Context) (int, error) {
	e := p.engine
	table := p.query.Table

	if p.query.Skip != nil {
		p.skip = *p.query.Skip
	}
	var limit *int
	if p.query.Top != nil {
		limit = p.query.Top
	}

	if p.incremental() {
		token, err := e.settings.GetDeltaToken(ctx, table, p.queryID)
		if err != nil {
			return 0, err
		}
		p.floor = token
	}

	pulled := 0
	nextLink := ""
	for {
		if limit != nil && pulled >= *limit {
			break
		}

		var page *remote.Page
		var err error
		if nextLink != "" {
			page, err = e.reader.ReadLink(ctx, nextLink, p.features())
		} else {
			page, err = e.reader.Read(ctx, table, p.params(limit, pulled), p.features())
		}
		if err != nil {
			return pulled, fmt.Errorf("failed to pull %s: %w", table, err)
		}

		items := page.Items
		if limit != nil && pulled+len(items) > *limit {
			items = items[:*limit-pulled]
		}
		if len(items) == 0 {
			break
		}

		if err := p.apply(ctx, items); err != nil {
			return pulled, err
		}
		pulled += len(items)

		if err := p.advance(ctx, items); err != nil {
			return pulled, err
		}

		nextLink = ""
		if page.Link.IsNext() && p.linkAllowed(page.Link.URI) {
			nextLink = page.Link.URI
			continue
		}

		// Без skip продолжить постраничную загрузку нельзя
		if !p.supported.Has(query.OptionSkip) && !(p.incremental() && p.skip == 0) {
			break
		}
	}

	return pulled, nil
}

// advance двигает нижнюю границу инкрементального pull.
// Граница меняется только при строгом росте максимального updatedAt;
// на плато одинаковых меток продолжаем через skip.
func (p *pager) advance(ctx context.Context, items []models.Item) error {
	if !p.incremental() {
		p.skip += len(items)
		return nil
	}

	var maxUpdatedAt time.Time
	for _, item := range items {
		if ts, ok := item.UpdatedAt(); ok && ts.After(maxUpdatedAt) {
			maxUpdatedAt = ts
		}
	}

	if maxUpdatedAt.After(p.floor) {
		p.floor = maxUpdatedAt
		p.skip = 0
		if err := p.engine.settings.SetDeltaToken(ctx, p.query.Table, p.queryID, p.floor); err != nil {
			return err
		}
		return nil
	}

	p.skip += len(items)
	return nil
}

// params строит параметры запроса очередной страницы
func (p *pager) params(limit *int, pulled int) url.Values {
	q := p.query.Clone()
	size := p.pageSize
	if limit != nil && *limit-pulled < size {
		size = *limit - pulled
	}

	if p.incremental() {
		q.Filter = query.And(q.Filter, query.Compare(api.PropertyUpdatedAt, query.Ge, p.floor))
		q.OrderBy = []query.OrderBy{{Field: api.PropertyUpdatedAt}}
	}

	q.Skip = nil
	if p.skip > 0 {
		skip := p.skip
		q.Skip = &skip
	}
	q.Top = nil
	if p.supported.Has(query.OptionTop) {
		q.Top = &size
	}

	values := q.Values()
	for k, v := range p.opts.Parameters {
		values.Set(k, v)
	}
	values.Set(api.ParamIncludeDeleted, strconv.FormatBool(true))
	return values
}

// linkAllowed проверяет, что ссылка не запрашивает неподдерживаемые опции
func (p *pager) linkAllowed(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		p.engine.logger.Warn("Ignoring malformed next link", "link", link, "error", err)
		return false
	}
	requested := query.RequestedOptions(u.Query())
	return requested&^p.supported == 0
}

// apply записывает страницу в локальное хранилище.
// Каждая запись применяется под блокировкой записи; записи с ожидающими
// локальными операциями не перезаписываются.
func (p *pager) apply(ctx context.Context, items []models.Item) error {
	table := p.query.Table
	for _, item := range items {
		id := item.ID()
		if id == "" {
			p.engine.logger.Warn("Skipping pulled record without id", "table", table)
			continue
		}
		if err := p.applyItem(ctx, table, id, item); err != nil {
			return err
		}
	}
	return nil
}

func (p *pager) applyItem(ctx context.Context, table, id string, item models.Item) error {
	release, err := p.engine.queue.LockItem(ctx, table, id)
	if err != nil {
		return err
	}
	defer release()

	if p.engine.queue.TryGetForItem(table, id) != nil {
		return nil
	}
	if item.IsDeleted() {
		if err := p.store.Delete(ctx, table, []string{id}); err != nil {
			return fmt.Errorf("failed to delete pulled record: %w", err)
		}
		return nil
	}
	if err := p.store.Upsert(ctx, table, []models.Item{item}, true); err != nil {
		return fmt.Errorf("failed to store pulled record: %w", err)
	}
	return nil
}
