// Package query describes a portable table query: filter, ordering, paging,
// projection and extra parameters. It is produced by the query compiler and
// consumed read-only by the pull engine and the local stores.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/iudanet/offlinesync/pkg/api"
)

// Options is the set of query options a remote table supports.
type Options int

const (
	OptionNone    Options = 0
	OptionSkip    Options = 1
	OptionTop     Options = 2
	OptionOrderBy Options = 4
	OptionAll             = OptionSkip | OptionTop | OptionOrderBy
)

// Has reports whether opt is supported.
func (o Options) Has(opt Options) bool {
	return o&opt == opt
}

// OrderBy одно условие сортировки
type OrderBy struct {
	Field      string
	Descending bool
}

func (o OrderBy) String() string {
	if o.Descending {
		return o.Field + " desc"
	}
	return o.Field
}

// Query is the compiled form of a table query.
type Query struct {
	Filter            Expr
	Skip              *int
	Top               *int
	Parameters        map[string]string
	Table             string
	OrderBy           []OrderBy
	Select            []string
	IncludeTotalCount bool
}

// New creates an empty query over table.
func New(table string) *Query {
	return &Query{Table: table}
}

// Where adds a filter joined with "and" to any existing one.
func (q *Query) Where(e Expr) *Query {
	q.Filter = And(q.Filter, e)
	return q
}

// OrderByAscending appends an ascending ordering.
func (q *Query) OrderByAscending(field string) *Query {
	q.OrderBy = append(q.OrderBy, OrderBy{Field: field})
	return q
}

// OrderByDescending appends a descending ordering.
func (q *Query) OrderByDescending(field string) *Query {
	q.OrderBy = append(q.OrderBy, OrderBy{Field: field, Descending: true})
	return q
}

// WithSkip sets $skip.
func (q *Query) WithSkip(n int) *Query {
	q.Skip = &n
	return q
}

// WithTop sets $top.
func (q *Query) WithTop(n int) *Query {
	q.Top = &n
	return q
}

// WithSelect sets the projection.
func (q *Query) WithSelect(fields ...string) *Query {
	q.Select = append(q.Select, fields...)
	return q
}

// WithParameter adds a user defined query string parameter.
func (q *Query) WithParameter(key, value string) *Query {
	if q.Parameters == nil {
		q.Parameters = make(map[string]string)
	}
	q.Parameters[key] = value
	return q
}

// Clone returns a copy that can be modified without affecting q.
// The filter tree is immutable and therefore shared.
func (q *Query) Clone() *Query {
	c := *q
	if q.Skip != nil {
		skip := *q.Skip
		c.Skip = &skip
	}
	if q.Top != nil {
		top := *q.Top
		c.Top = &top
	}
	c.OrderBy = append([]OrderBy(nil), q.OrderBy...)
	c.Select = append([]string(nil), q.Select...)
	if q.Parameters != nil {
		c.Parameters = make(map[string]string, len(q.Parameters))
		for k, v := range q.Parameters {
			c.Parameters[k] = v
		}
	}
	return &c
}

// Values renders the query as OData query string parameters.
func (q *Query) Values() url.Values {
	v := url.Values{}
	if q.Filter != nil {
		v.Set(api.ParamFilter, q.Filter.String())
	}
	if len(q.OrderBy) > 0 {
		parts := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			parts = append(parts, o.String())
		}
		v.Set(api.ParamOrderBy, strings.Join(parts, ","))
	}
	if q.Skip != nil && *q.Skip > 0 {
		v.Set(api.ParamSkip, strconv.Itoa(*q.Skip))
	}
	if q.Top != nil {
		v.Set(api.ParamTop, strconv.Itoa(*q.Top))
	}
	if len(q.Select) > 0 {
		v.Set(api.ParamSelect, strings.Join(q.Select, ","))
	}
	if q.IncludeTotalCount {
		v.Set(api.ParamInlineCount, "allpages")
	}
	for key, value := range q.Parameters {
		v.Set(key, value)
	}
	return v
}

// RequestedOptions returns the paging and ordering options the raw query
// string asks for. Used to check server supplied next links.
func RequestedOptions(values url.Values) Options {
	var opts Options
	if values.Has(api.ParamSkip) {
		opts |= OptionSkip
	}
	if values.Has(api.ParamTop) {
		opts |= OptionTop
	}
	if values.Has(api.ParamOrderBy) {
		opts |= OptionOrderBy
	}
	return opts
}
