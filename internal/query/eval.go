package query

import (
	"sort"

	"github.com/iudanet/offlinesync/internal/models"
)

// Apply evaluates q against an in-memory set of records: filter, ordering,
// skip, top and projection, in that order. Records without a comparable
// value for an ordering field sort first.
func Apply(items []models.Item, q *Query) []models.Item {
	if q == nil {
		return items
	}

	result := make([]models.Item, 0, len(items))
	for _, item := range items {
		if q.Filter == nil || q.Filter.Match(item) {
			result = append(result, item)
		}
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(result, func(i, j int) bool {
			for _, o := range q.OrderBy {
				cmp, ok := compareValues(result[i][o.Field], result[j][o.Field])
				if !ok {
					// nil значения идут первыми
					left, right := result[i][o.Field] == nil, result[j][o.Field] == nil
					if left == right {
						continue
					}
					cmp = 1
					if left {
						cmp = -1
					}
				}
				if cmp == 0 {
					continue
				}
				if o.Descending {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}

	if q.Skip != nil && *q.Skip > 0 {
		if *q.Skip >= len(result) {
			return []models.Item{}
		}
		result = result[*q.Skip:]
	}
	if q.Top != nil && *q.Top < len(result) {
		if *q.Top <= 0 {
			return []models.Item{}
		}
		result = result[:*q.Top]
	}

	if len(q.Select) > 0 {
		projected := make([]models.Item, 0, len(result))
		for _, item := range result {
			p := make(models.Item, len(q.Select))
			for _, field := range q.Select {
				if v, ok := item[field]; ok {
					p[field] = v
				}
			}
			projected = append(projected, p)
		}
		result = projected
	}

	return result
}
