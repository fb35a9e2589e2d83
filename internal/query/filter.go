package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/offlinesync/internal/models"
)

// Operator оператор сравнения в фильтре
type Operator string

const (
	Eq Operator = "eq"
	Ne Operator = "ne"
	Gt Operator = "gt"
	Ge Operator = "ge"
	Lt Operator = "lt"
	Le Operator = "le"
)

// Expr is a node of a compiled filter. It renders to OData $filter text
// for the remote service and evaluates against local records.
type Expr interface {
	String() string
	Match(item models.Item) bool
}

// Comparison compares a record field to a literal value.
type Comparison struct {
	Value any
	Field string
	Op    Operator
}

// Compare builds a comparison node.
func Compare(field string, op Operator, value any) *Comparison {
	return &Comparison{Field: field, Op: op, Value: value}
}

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Field, c.Op, formatLiteral(c.Value))
}

// Match evaluates the comparison against item.
func (c *Comparison) Match(item models.Item) bool {
	cmp, ok := compareValues(item[c.Field], c.Value)
	if !ok {
		// несравнимые значения: совпадает только ne
		return c.Op == Ne
	}
	switch c.Op {
	case Eq:
		return cmp == 0
	case Ne:
		return cmp != 0
	case Gt:
		return cmp > 0
	case Ge:
		return cmp >= 0
	case Lt:
		return cmp < 0
	case Le:
		return cmp <= 0
	}
	return false
}

// Logical joins two expressions with "and" or "or".
type Logical struct {
	Left  Expr
	Right Expr
	Op    string
}

// And returns left and right. A nil side is dropped.
func And(left, right Expr) Expr {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return &Logical{Left: left, Right: right, Op: "and"}
}

// Or returns left or right. A nil side is dropped.
func Or(left, right Expr) Expr {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return &Logical{Left: left, Right: right, Op: "or"}
}

func (l *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Left, l.Op, l.Right)
}

func (l *Logical) Match(item models.Item) bool {
	if l.Op == "or" {
		return l.Left.Match(item) || l.Right.Match(item)
	}
	return l.Left.Match(item) && l.Right.Match(item)
}

// Not negates an expression.
type Not struct {
	Expr Expr
}

func (n *Not) String() string {
	return fmt.Sprintf("not%s", n.Expr)
}

func (n *Not) Match(item models.Item) bool {
	return !n.Expr.Match(item)
}

// formatLiteral форматирует значение в литерал OData
func formatLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return "datetimeoffset'" + val.UTC().Format("2006-01-02T15:04:05.000Z07:00") + "'"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// compareValues returns -1, 0 or 1 when the record value and the literal are comparable.
func compareValues(recordValue, literal any) (int, bool) {
	if recordValue == nil || literal == nil {
		if recordValue == nil && literal == nil {
			return 0, true
		}
		return 0, false
	}

	switch lit := literal.(type) {
	case time.Time:
		var rt time.Time
		switch rv := recordValue.(type) {
		case time.Time:
			rt = rv
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, rv)
			if err != nil {
				return 0, false
			}
			rt = parsed
		default:
			return 0, false
		}
		return rt.Compare(lit), true
	case string:
		rs, ok := recordValue.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(rs, lit), true
	case bool:
		rb, ok := recordValue.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case rb == lit:
			return 0, true
		case !rb:
			return -1, true
		default:
			return 1, true
		}
	}

	lf, ok := toFloat(literal)
	if !ok {
		return 0, false
	}
	rf, ok := toFloat(recordValue)
	if !ok {
		return 0, false
	}
	switch {
	case rf < lf:
		return -1, true
	case rf > lf:
		return 1, true
	default:
		return 0, true
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
