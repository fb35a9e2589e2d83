package cli

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/internal/query"
)

// printJSON печатает значение как форматированный JSON
func (c *Cli) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')
	_, err = c.io.Write(data)
	return err
}

func parseItem(raw string) (models.Item, error) {
	var item models.Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("item must be a JSON object: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item must be a JSON object")
	}
	return item, nil
}

var conditionPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(!=|>=|<=|=|>|<)\s*(.*?)\s*$`)

var conditionOperators = map[string]query.Operator{
	"=":  query.Eq,
	"!=": query.Ne,
	">":  query.Gt,
	">=": query.Ge,
	"<":  query.Lt,
	"<=": query.Le,
}

// parseWhere строит фильтр из условий вида field=value, объединенных через and.
// Значение разбирается как JSON, иначе используется как строка.
func parseWhere(conditions []string) (query.Expr, error) {
	var filter query.Expr
	for _, condition := range conditions {
		m := conditionPattern.FindStringSubmatch(condition)
		if m == nil {
			return nil, fmt.Errorf("invalid condition %q, expected field=value", condition)
		}

		var value any
		if err := json.Unmarshal([]byte(m[3]), &value); err != nil {
			value = strings.Trim(m[3], `'`)
		}
		filter = query.And(filter, query.Compare(m[1], conditionOperators[m[2]], value))
	}
	return filter, nil
}
