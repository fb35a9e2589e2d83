package sync

import (
	"context"
	"fmt"

	"github.com/iudanet/offlinesync/internal/client/pull"
	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

// Table is a handle bound to one table and the query options it supports
type Table struct {
	sync      *Context
	name      string
	supported query.Options
}

// Table returns a handle for name. A zero supported means every option.
func (c *Context) Table(name string, supported query.Options) *Table {
	if supported == query.OptionNone {
		supported = query.OptionAll
	}
	return &Table{sync: c, name: name, supported: supported}
}

// Name returns the table name
func (t *Table) Name() string { return t.name }

// Query starts a query over the table
func (t *Table) Query() *query.Query { return query.New(t.name) }

func (t *Table) Insert(ctx context.Context, item models.Item) (models.Item, error) {
	return t.sync.Insert(ctx, t.name, item)
}

func (t *Table) Update(ctx context.Context, item models.Item) (models.Item, error) {
	return t.sync.Update(ctx, t.name, item)
}

func (t *Table) Delete(ctx context.Context, item models.Item) error {
	return t.sync.Delete(ctx, t.name, item)
}

func (t *Table) Lookup(ctx context.Context, id string) (models.Item, error) {
	return t.sync.Lookup(ctx, t.name, id)
}

// Read evaluates q locally; a nil q reads the whole table
func (t *Table) Read(ctx context.Context, q *query.Query) ([]models.Item, error) {
	q, err := t.bind(q)
	if err != nil {
		return nil, err
	}
	return t.sync.Read(ctx, q)
}

// Pull pulls q (the whole table when nil) with the table's supported options
func (t *Table) Pull(ctx context.Context, queryID string, q *query.Query, opts pull.Options) (int, error) {
	q, err := t.bind(q)
	if err != nil {
		return 0, err
	}
	if opts.SupportedOptions == query.OptionNone {
		opts.SupportedOptions = t.supported
	}
	return t.sync.Pull(ctx, queryID, q, opts)
}

// Purge purges q (the whole table when nil)
func (t *Table) Purge(ctx context.Context, queryID string, q *query.Query, force bool) error {
	q, err := t.bind(q)
	if err != nil {
		return err
	}
	return t.sync.Purge(ctx, queryID, q, force)
}

// Push pushes the operations queued for the table
func (t *Table) Push(ctx context.Context) (*models.PushCompletionResult, error) {
	return t.sync.PushTables(ctx, t.name)
}

func (t *Table) bind(q *query.Query) (*query.Query, error) {
	if q == nil {
		return t.Query(), nil
	}
	if q.Table != t.name {
		return nil, fmt.Errorf("%w: query targets %q, not %q", pull.ErrInvalidQuery, q.Table, t.name)
	}
	return q, nil
}
