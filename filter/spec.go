package filter

import (
	"fmt"

	"github.com/huongly92/nestmap/table"
)

// FromSpec decodes the declarative filter block of a job file into Filters.
// Per column: a scalar becomes an equality test, a sequence a membership
// test, a mapping an operator-clause set. Operator names are not validated
// here; unknown operators stay in the clause list and are skipped with a
// diagnostic at evaluation time.
func FromSpec(spec map[string]any) (Filters, error) {
	filters := make(Filters, len(spec))
	for col, raw := range spec {
		cond, err := condFromSpec(raw)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", col, err)
		}
		filters[col] = cond
	}
	return filters, nil
}

func condFromSpec(raw any) (Condition, error) {
	switch c := raw.(type) {
	case []any:
		vals, err := valueList(c)
		if err != nil {
			return nil, err
		}
		return OneOf{Values: vals}, nil
	case map[string]any:
		clauses := make(Clauses, 0, len(c))
		for op, operand := range c {
			clause := Clause{Op: op}
			switch ov := operand.(type) {
			case []any:
				vals, err := valueList(ov)
				if err != nil {
					return nil, fmt.Errorf("operator %q: %w", op, err)
				}
				clause.List = vals
			default:
				v, err := fromGoValue(ov)
				if err != nil {
					return nil, fmt.Errorf("operator %q: %w", op, err)
				}
				clause.Value = v
			}
			clauses = append(clauses, clause)
		}
		return clauses, nil
	default:
		v, err := fromGoValue(raw)
		if err != nil {
			return nil, err
		}
		return Equals{Value: v}, nil
	}
}

func valueList(raw []any) ([]table.Value, error) {
	vals := make([]table.Value, len(raw))
	for i, item := range raw {
		v, err := fromGoValue(item)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func fromGoValue(raw any) (table.Value, error) {
	switch v := raw.(type) {
	case nil:
		return table.Null(), nil
	case bool:
		return table.BoolVal(v), nil
	case int:
		return table.IntVal(int64(v)), nil
	case int64:
		return table.IntVal(v), nil
	case float64:
		// YAML integers may arrive as float64 depending on the decoder.
		if v == float64(int64(v)) {
			return table.IntVal(int64(v)), nil
		}
		return table.FloatVal(v), nil
	case string:
		return table.StrVal(v), nil
	default:
		return table.Null(), fmt.Errorf("unsupported operand type %T", raw)
	}
}
