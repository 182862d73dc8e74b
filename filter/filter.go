// Package filter evaluates declarative per-column conditions against a table.
//
// Conditions on different columns combine with AND, as do multiple operator
// clauses on the same column. Filtering is advisory: a condition naming an
// unknown column or an unknown operator is logged and skipped, it never
// aborts the pipeline.
package filter

import (
	"log/slog"
	"strings"

	"github.com/huongly92/nestmap/table"
)

// Supported operator symbols for Clause conditions.
const (
	OpEq         = "=="
	OpNeq        = "!="
	OpGt         = ">"
	OpGte        = ">="
	OpLt         = "<"
	OpLte        = "<="
	OpIn         = "in"
	OpNotIn      = "not_in"
	OpContains   = "contains"
	OpStartsWith = "startswith"
	OpEndsWith   = "endswith"
	OpBetween    = "between"
	OpIsNull     = "isnull"
)

// Predicate is a caller-supplied test over a single cell value.
type Predicate func(table.Value) bool

// Condition is one column's filter condition.
type Condition interface {
	isCondition()
}

// Equals keeps rows whose cell equals Value.
type Equals struct {
	Value table.Value
}

// OneOf keeps rows whose cell is a member of Values.
type OneOf struct {
	Values []table.Value
}

// Satisfies keeps rows whose cell satisfies the predicate. Predicate
// behavior is entirely the caller's responsibility.
type Satisfies struct {
	Pred Predicate
}

// Clauses applies every operator clause to the cell and ANDs the results.
type Clauses []Clause

// Clause is a single operator application. Value carries scalar operands;
// List carries the operands of in, not_in and between.
type Clause struct {
	Op    string
	Value table.Value
	List  []table.Value
}

func (Equals) isCondition()    {}
func (OneOf) isCondition()     {}
func (Satisfies) isCondition() {}
func (Clauses) isCondition()   {}

// Eq builds a scalar equality condition.
func Eq(v table.Value) Condition { return Equals{Value: v} }

// AnyOf builds a membership condition.
func AnyOf(vs ...table.Value) Condition { return OneOf{Values: vs} }

// Fn builds a predicate condition.
func Fn(p Predicate) Condition { return Satisfies{Pred: p} }

// Where builds an operator-clause condition.
func Where(clauses ...Clause) Condition { return Clauses(clauses) }

// Filters maps column names to conditions.
type Filters map[string]Condition

// Apply returns a new table holding the rows of t that satisfy every
// condition, in their original order. t is not modified. Diagnostics for
// skipped conditions go to log (slog.Default if nil).
func Apply(t *table.Table, filters Filters, log *slog.Logger) *table.Table {
	if log == nil {
		log = slog.Default()
	}

	type boundCond struct {
		idx  int
		cond Condition
	}
	var bound []boundCond
	for col, cond := range filters {
		idx := t.ColIndex(col)
		if idx < 0 {
			log.Warn("filter column not found, condition skipped", "column", col)
			continue
		}
		bound = append(bound, boundCond{idx: idx, cond: cond})
	}

	result := table.NewTable(t.Columns)
	for _, row := range t.Rows {
		keep := true
		for _, bc := range bound {
			if !matches(row.Values[bc.idx], bc.cond, log) {
				keep = false
				break
			}
		}
		if keep {
			result.AddRow(row.Values)
		}
	}
	return result
}

func matches(v table.Value, cond Condition, log *slog.Logger) bool {
	switch c := cond.(type) {
	case Equals:
		return table.Equal(v, c.Value)
	case OneOf:
		return member(v, c.Values)
	case Satisfies:
		return c.Pred(v)
	case Clauses:
		for _, clause := range c {
			if !matchClause(v, clause, log) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func member(v table.Value, set []table.Value) bool {
	for _, candidate := range set {
		if table.Equal(v, candidate) {
			return true
		}
	}
	return false
}

func matchClause(v table.Value, c Clause, log *slog.Logger) bool {
	switch c.Op {
	case OpEq:
		return table.Equal(v, c.Value)
	case OpNeq:
		return !table.Equal(v, c.Value)
	case OpGt:
		return ordered(v, c.Value) && table.Compare(v, c.Value) > 0
	case OpGte:
		return ordered(v, c.Value) && table.Compare(v, c.Value) >= 0
	case OpLt:
		return ordered(v, c.Value) && table.Compare(v, c.Value) < 0
	case OpLte:
		return ordered(v, c.Value) && table.Compare(v, c.Value) <= 0
	case OpIn:
		return member(v, c.List)
	case OpNotIn:
		return !member(v, c.List)
	case OpContains:
		return !v.IsNull() && strings.Contains(v.AsString(), c.Value.AsString())
	case OpStartsWith:
		return !v.IsNull() && strings.HasPrefix(v.AsString(), c.Value.AsString())
	case OpEndsWith:
		return !v.IsNull() && strings.HasSuffix(v.AsString(), c.Value.AsString())
	case OpBetween:
		if len(c.List) != 2 {
			log.Warn("between operand must be a [low, high] pair, clause skipped", "size", len(c.List))
			return true
		}
		return ordered(v, c.List[0]) && ordered(v, c.List[1]) &&
			table.Compare(v, c.List[0]) >= 0 && table.Compare(v, c.List[1]) <= 0
	case OpIsNull:
		want, _ := c.Value.AsBool()
		return v.IsNull() == want
	default:
		log.Warn("unsupported filter operator, clause skipped", "operator", c.Op)
		return true
	}
}

// ordered reports whether v and operand can be meaningfully ordered:
// both numeric or both strings, neither null. Ordering comparisons against
// incomparable operands fail the row rather than the pipeline.
func ordered(v, operand table.Value) bool {
	if v.IsNull() || operand.IsNull() {
		return false
	}
	_, vNum := v.AsFloat()
	_, oNum := operand.AsFloat()
	if vNum && oNum {
		return true
	}
	return v.Type == table.TypeString && operand.Type == table.TypeString
}
