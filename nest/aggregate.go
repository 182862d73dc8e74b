package nest

import (
	"fmt"

	"github.com/huongly92/nestmap/table"
	"github.com/shopspring/decimal"
)

// Aggregator reduces the values one column contributed to a group.
// To add a reduction: implement this interface and register it in
// aggregators.
type Aggregator interface {
	Reduce(vals []table.Value) (table.Value, error)
}

// Aggregation identifiers accepted in an aggregation spec.
const (
	AggSum     = "sum"
	AggMean    = "mean"
	AggFirst   = "first"
	AggLast    = "last"
	AggMin     = "min"
	AggMax     = "max"
	AggCollect = "collect"
)

var aggregators = map[string]Aggregator{
	AggSum:     sumAgg{},
	AggMean:    meanAgg{},
	AggFirst:   firstAgg{},
	AggLast:    lastAgg{},
	AggMin:     minAgg{},
	AggMax:     maxAgg{},
	AggCollect: collectAgg{},
	"list":     collectAgg{}, // accepted alias for collect
}

// aggregatorFor resolves an identifier, defaulting unknown names to first.
func aggregatorFor(name string) Aggregator {
	if a, ok := aggregators[name]; ok {
		return a
	}
	return firstAgg{}
}

// asDecimal converts a numeric value for exact accumulation.
func asDecimal(v table.Value) (decimal.Decimal, error) {
	switch v.Type {
	case table.TypeInt:
		return decimal.NewFromInt(v.Int), nil
	case table.TypeFloat:
		return decimal.NewFromFloat(v.Float), nil
	default:
		return decimal.Zero, fmt.Errorf("non-numeric value %v", v.AsString())
	}
}

// numericValue renders an accumulated decimal back into a table value,
// keeping int-ness when every contribution was an int.
func numericValue(d decimal.Decimal, allInt bool) table.Value {
	if allInt && d.IsInteger() {
		return table.IntVal(d.IntPart())
	}
	f, _ := d.Float64()
	return table.FloatVal(f)
}

// sumAgg sums the non-null values; all-null groups reduce to null.
type sumAgg struct{}

func (sumAgg) Reduce(vals []table.Value) (table.Value, error) {
	sum := decimal.Zero
	allInt := true
	any := false
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		d, err := asDecimal(v)
		if err != nil {
			return table.Null(), fmt.Errorf("sum: %w", err)
		}
		sum = sum.Add(d)
		any = true
		if v.Type != table.TypeInt {
			allInt = false
		}
	}
	if !any {
		return table.Null(), nil
	}
	return numericValue(sum, allInt), nil
}

// meanAgg averages the non-null values.
type meanAgg struct{}

func (meanAgg) Reduce(vals []table.Value) (table.Value, error) {
	sum := decimal.Zero
	count := 0
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		d, err := asDecimal(v)
		if err != nil {
			return table.Null(), fmt.Errorf("mean: %w", err)
		}
		sum = sum.Add(d)
		count++
	}
	if count == 0 {
		return table.Null(), nil
	}
	f, _ := sum.Div(decimal.NewFromInt(int64(count))).Float64()
	return table.FloatVal(f), nil
}

// firstAgg takes the value of the earliest row in table order.
type firstAgg struct{}

func (firstAgg) Reduce(vals []table.Value) (table.Value, error) {
	if len(vals) == 0 {
		return table.Null(), nil
	}
	return vals[0], nil
}

// lastAgg takes the value of the latest row in table order.
type lastAgg struct{}

func (lastAgg) Reduce(vals []table.Value) (table.Value, error) {
	if len(vals) == 0 {
		return table.Null(), nil
	}
	return vals[len(vals)-1], nil
}

type minAgg struct{}

func (minAgg) Reduce(vals []table.Value) (table.Value, error) {
	return extremum(vals, "min", func(cand, best decimal.Decimal) bool {
		return cand.LessThan(best)
	})
}

type maxAgg struct{}

func (maxAgg) Reduce(vals []table.Value) (table.Value, error) {
	return extremum(vals, "max", func(cand, best decimal.Decimal) bool {
		return cand.GreaterThan(best)
	})
}

func extremum(vals []table.Value, name string, better func(cand, best decimal.Decimal) bool) (table.Value, error) {
	var best decimal.Decimal
	var bestVal table.Value
	any := false
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		d, err := asDecimal(v)
		if err != nil {
			return table.Null(), fmt.Errorf("%s: %w", name, err)
		}
		if !any || better(d, best) {
			best = d
			bestVal = v
		}
		any = true
	}
	if !any {
		return table.Null(), nil
	}
	return bestVal, nil
}

// collectAgg gathers every group value into an ordered sequence, row order
// preserved and duplicates retained.
type collectAgg struct{}

func (collectAgg) Reduce(vals []table.Value) (table.Value, error) {
	items := make([]table.Value, len(vals))
	copy(items, vals)
	return table.ListVal(items), nil
}
