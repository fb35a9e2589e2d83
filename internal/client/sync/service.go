// Package sync ties the local store, the operation queue and the push, pull
// and conflict engines into one offline sync context.
package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/iudanet/offlinesync/internal/client/conflict"
	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/client/pull"
	"github.com/iudanet/offlinesync/internal/client/push"
	"github.com/iudanet/offlinesync/internal/client/queue"
	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

//go:generate moq -out service_mock.go . Service

// Service is the offline sync API used by the command line client
type Service interface {
	Insert(ctx context.Context, table string, item models.Item) (models.Item, error)
	Update(ctx context.Context, table string, item models.Item) (models.Item, error)
	Delete(ctx context.Context, table string, item models.Item) error
	Lookup(ctx context.Context, table, id string) (models.Item, error)
	Read(ctx context.Context, q *query.Query) ([]models.Item, error)

	Push(ctx context.Context) (*models.PushCompletionResult, error)
	PushTables(ctx context.Context, tables ...string) (*models.PushCompletionResult, error)
	Pull(ctx context.Context, queryID string, q *query.Query, opts pull.Options) (int, error)
	Purge(ctx context.Context, queryID string, q *query.Query, force bool) error

	PendingOperations() int64
	Errors(ctx context.Context) ([]*models.SyncError, error)
	UpdateOperation(ctx context.Context, syncErr *models.SyncError, merged models.Item) error
	CancelAndUpdateItem(ctx context.Context, syncErr *models.SyncError, item models.Item) error
	CancelAndDiscardItem(ctx context.Context, syncErr *models.SyncError) error
}

// Remote is the remote table service: table operations for push, page reads for pull
type Remote interface {
	push.TableClient
	pull.Reader
}

// Option configures a Context
type Option func(*config)

type config struct {
	logger   *slog.Logger
	handler  push.Handler
	bus      *events.Bus
	tracking models.TrackingOptions
}

// WithLogger sets the logger used by every engine
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHandler replaces the default push handler
func WithHandler(handler push.Handler) Option {
	return func(c *config) { c.handler = handler }
}

// WithTrackingOptions sets which store notifications are published
func WithTrackingOptions(opts models.TrackingOptions) Option {
	return func(c *config) { c.tracking = opts }
}

// WithBus publishes events on bus instead of a bus owned by the context.
// The caller closes the bus.
func WithBus(bus *events.Bus) Option {
	return func(c *config) { c.bus = bus }
}

// Context is an offline sync context over one local store
type Context struct {
	store    storage.Store
	queue    *queue.Queue
	settings *storage.Settings
	pusher   *push.Engine
	puller   *pull.Engine
	resolver *conflict.Resolver
	bus      *events.Bus
	logger   *slog.Logger
	tracking models.TrackingOptions
	ownsBus  bool
	closed   atomic.Bool
}

var _ Service = (*Context)(nil)

// New loads the operation queue from store and wires the engines.
// The store is not closed by Close.
func New(ctx context.Context, store storage.Store, remote Remote, opts ...Option) (*Context, error) {
	cfg := config{tracking: models.DefaultTrackingOptions}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.handler == nil {
		cfg.handler = push.NewDefaultHandler(remote)
	}

	c := &Context{
		store:    store,
		settings: storage.NewSettings(store),
		bus:      cfg.bus,
		logger:   cfg.logger,
		tracking: cfg.tracking,
	}
	if c.bus == nil {
		c.bus = events.NewBus()
		c.ownsBus = true
	}

	c.queue = queue.New(store, cfg.logger.With("component", "queue"))
	if err := c.queue.Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load operation queue: %w", err)
	}

	c.pusher = push.NewEngine(c.queue, store, cfg.handler, c.bus, cfg.tracking, cfg.logger.With("component", "push"))
	c.puller = pull.NewEngine(remote, c.queue, store, c.pusher, c.bus, cfg.tracking, cfg.logger.With("component", "pull"))
	c.resolver = conflict.NewResolver(c.queue, store, c.bus, cfg.tracking, cfg.logger.With("component", "conflict"))

	c.logger.Info("Sync context initialized", "pending_operations", c.queue.PendingCount())
	return c, nil
}

// Subscribe registers handler for every event published by the context
func (c *Context) Subscribe(handler events.Handler) (unsubscribe func()) {
	return c.bus.Subscribe(handler)
}

// Close stops event delivery. Operations after Close fail with ErrClosed.
func (c *Context) Close() {
	if c.closed.Swap(true) {
		return
	}
	if c.ownsBus {
		c.bus.Close()
	}
}

func (c *Context) checkOpen() error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

// PendingOperations returns the number of queued operations
func (c *Context) PendingOperations() int64 {
	return c.queue.PendingCount()
}

// Errors returns the sync errors left by previous pushes, in queue order
func (c *Context) Errors(ctx context.Context) ([]*models.SyncError, error) {
	return c.queue.Errors(ctx)
}

// UpdateOperation resolves syncErr by retrying its operation with merged
func (c *Context) UpdateOperation(ctx context.Context, syncErr *models.SyncError, merged models.Item) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.resolver.UpdateOperation(ctx, syncErr, merged)
}

// CancelAndUpdateItem resolves syncErr by dropping its operation and keeping item locally
func (c *Context) CancelAndUpdateItem(ctx context.Context, syncErr *models.SyncError, item models.Item) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.resolver.CancelAndUpdateItem(ctx, syncErr, item)
}

// CancelAndDiscardItem resolves syncErr by dropping its operation and the local record
func (c *Context) CancelAndDiscardItem(ctx context.Context, syncErr *models.SyncError) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.resolver.CancelAndDiscardItem(ctx, syncErr)
}
