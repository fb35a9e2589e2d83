package pull

import (
	"fmt"

	"github.com/iudanet/offlinesync/internal/client/storage"
	"github.com/iudanet/offlinesync/internal/query"
	"github.com/iudanet/offlinesync/internal/validation"
	"github.com/iudanet/offlinesync/pkg/api"
)

// validate проверяет запрос до любого обращения к сети или хранилищу
func validate(queryID string, q *query.Query, opts Options) error {
	if q == nil {
		return fmt.Errorf("%w: query is required", ErrInvalidQuery)
	}
	if q.Table == "" {
		return fmt.Errorf("%w: table name is required", ErrInvalidQuery)
	}
	if storage.IsSystemTable(q.Table) {
		return fmt.Errorf("%w: system table %s cannot be pulled", ErrInvalidQuery, q.Table)
	}

	if queryID != "" {
		if err := validation.ValidateQueryID(queryID); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
		if len(q.Select) > 0 || len(q.OrderBy) > 0 || q.Skip != nil || q.Top != nil {
			return fmt.Errorf("%w: incremental pull query must not specify $select, $orderby, $skip or $top", ErrInvalidQuery)
		}
	}

	if _, ok := q.Parameters[api.ParamIncludeDeleted]; ok {
		return fmt.Errorf("%w: the %s parameter is reserved", ErrInvalidQuery, api.ParamIncludeDeleted)
	}
	if _, ok := opts.Parameters[api.ParamIncludeDeleted]; ok {
		return fmt.Errorf("%w: the %s parameter is reserved", ErrInvalidQuery, api.ParamIncludeDeleted)
	}

	if len(q.Select) > 0 {
		return fmt.Errorf("%w: pull query must not specify $select", ErrInvalidQuery)
	}

	supported := opts.supported()
	if len(q.OrderBy) > 0 && !supported.Has(query.OptionOrderBy) {
		return fmt.Errorf("%w: the table does not support $orderby", ErrInvalidQuery)
	}
	if q.Top != nil && !supported.Has(query.OptionTop) {
		return fmt.Errorf("%w: the table does not support $top", ErrInvalidQuery)
	}
	if q.Skip != nil && !supported.Has(query.OptionSkip) {
		return fmt.Errorf("%w: the table does not support $skip", ErrInvalidQuery)
	}
	if q.Top != nil && *q.Top < 0 {
		return fmt.Errorf("%w: $top must not be negative", ErrInvalidQuery)
	}
	if q.Skip != nil && *q.Skip < 0 {
		return fmt.Errorf("%w: $skip must not be negative", ErrInvalidQuery)
	}

	return nil
}
