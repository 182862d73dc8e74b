package nest

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/huongly92/nestmap/filter"
	"github.com/huongly92/nestmap/table"
)

// Options carries the optional knobs of a transform.
type Options struct {
	// Values selects the terminal value columns. Nil means every column
	// not in the hierarchy, in table order.
	Values []string
	// Filters is applied before anything else; see package filter.
	Filters filter.Filters
	// Dedup drops exact duplicate rows (full-row equality) before nesting.
	Dedup bool
	// SortBy stable-sorts rows by the given columns before nesting.
	SortBy []string
	// Logger receives filter diagnostics. Nil means slog.Default.
	Logger *slog.Logger
}

// Transform builds a nested mapping from t, one level per hierarchy column.
// Each row walks the hierarchy outer to inner and writes its value payload
// into the terminal slot: a single value when one value column is selected,
// an ordered record otherwise. Rows that collapse onto the same full key
// path overwrite each other, last row wins. Callers needing a different
// collision policy supply an aggregation spec via TransformAggregated.
//
// Missing hierarchy or value columns fail with a *SchemaError.
func Transform(t *table.Table, hierarchy []string, opts *Options) (*Branch, error) {
	rows, keyIdx, valCols, valIdx, err := prepare(t, hierarchy, opts)
	if err != nil {
		return nil, err
	}

	root := NewBranch()
	for _, row := range rows {
		writeTerminal(root, row, keyIdx, func() Node {
			return terminal(row, valCols, valIdx)
		})
	}
	return Normalize(root).(*Branch), nil
}

// TransformAggregated is Transform with a per-column aggregation spec.
// Rows are partitioned by the full hierarchy tuple; groups emit in
// first-appearance order. Within a group each value column reduces
// independently: sum, mean, min, max, first, last, or collect (ordered
// sequence of every group value). Columns absent from the spec, and unknown
// aggregation names, default to first.
func TransformAggregated(t *table.Table, hierarchy []string, aggregate map[string]string, opts *Options) (*Branch, error) {
	rows, keyIdx, valCols, valIdx, err := prepare(t, hierarchy, opts)
	if err != nil {
		return nil, err
	}

	// Partition preserving first-appearance order of each hierarchy tuple.
	type group struct {
		row  table.Row // first row of the group, carries the key values
		vals [][]table.Value
	}
	var groups []*group
	keyMap := make(map[string]int)

	for _, row := range rows {
		parts := make([]string, len(keyIdx))
		for i, idx := range keyIdx {
			parts[i] = row.Values[idx].Key()
		}
		keyStr := strings.Join(parts, "\x00")

		gi, exists := keyMap[keyStr]
		if !exists {
			gi = len(groups)
			groups = append(groups, &group{row: row, vals: make([][]table.Value, len(valIdx))})
			keyMap[keyStr] = gi
		}
		g := groups[gi]
		for i, idx := range valIdx {
			g.vals[i] = append(g.vals[i], row.Values[idx])
		}
	}

	root := NewBranch()
	for _, g := range groups {
		reduced := make([]table.Value, len(valCols))
		for i, col := range valCols {
			agg := aggregatorFor(aggregate[col])
			v, err := agg.Reduce(g.vals[i])
			if err != nil {
				return nil, fmt.Errorf("aggregate %q: %w", col, err)
			}
			reduced[i] = v
		}

		writeTerminal(root, g.row, keyIdx, func() Node {
			if len(valCols) == 1 {
				return &Leaf{Value: reduced[0]}
			}
			return &Record{Columns: valCols, Values: reduced}
		})
	}
	return Normalize(root).(*Branch), nil
}

// prepare runs the shared front of both transforms: filter, dedup, sort,
// schema validation and column index resolution.
func prepare(t *table.Table, hierarchy []string, opts *Options) ([]table.Row, []int, []string, []int, error) {
	if opts == nil {
		opts = &Options{}
	}
	if len(hierarchy) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("hierarchy must name at least one column")
	}

	current := t
	if len(opts.Filters) > 0 {
		current = filter.Apply(current, opts.Filters, opts.Logger)
	}
	rows := current.Rows
	if opts.Dedup {
		rows = dedupRows(rows)
	}
	if len(opts.SortBy) > 0 {
		sorted, err := sortRows(current, rows, opts.SortBy)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		rows = sorted
	}

	keyIdx := make([]int, len(hierarchy))
	var missing []string
	for i, col := range hierarchy {
		idx := current.ColIndex(col)
		if idx < 0 {
			missing = append(missing, col)
		}
		keyIdx[i] = idx
	}

	valCols := opts.Values
	if valCols == nil {
		inHierarchy := make(map[string]bool, len(hierarchy))
		for _, col := range hierarchy {
			inHierarchy[col] = true
		}
		for _, col := range current.Columns {
			if !inHierarchy[col] {
				valCols = append(valCols, col)
			}
		}
	}
	valIdx := make([]int, len(valCols))
	for i, col := range valCols {
		idx := current.ColIndex(col)
		if idx < 0 {
			missing = append(missing, col)
		}
		valIdx[i] = idx
	}
	if len(missing) > 0 {
		return nil, nil, nil, nil, &SchemaError{Missing: missing}
	}
	if len(valCols) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("no value columns left after hierarchy selection")
	}

	return rows, keyIdx, valCols, valIdx, nil
}

// writeTerminal descends the hierarchy columns of row and writes the node
// produced by mk into the terminal slot.
func writeTerminal(root *Branch, row table.Row, keyIdx []int, mk func() Node) {
	current := root
	for _, idx := range keyIdx[:len(keyIdx)-1] {
		current = current.descend(row.Values[idx])
	}
	current.put(row.Values[keyIdx[len(keyIdx)-1]], mk())
}

func terminal(row table.Row, valCols []string, valIdx []int) Node {
	if len(valIdx) == 1 {
		return &Leaf{Value: row.Values[valIdx[0]]}
	}
	vals := make([]table.Value, len(valIdx))
	for i, idx := range valIdx {
		vals[i] = row.Values[idx]
	}
	return &Record{Columns: valCols, Values: vals}
}

func dedupRows(rows []table.Row) []table.Row {
	seen := make(map[string]bool, len(rows))
	var out []table.Row
	for _, row := range rows {
		parts := make([]string, len(row.Values))
		for i, v := range row.Values {
			parts[i] = v.Key()
		}
		key := strings.Join(parts, "\x00")
		if !seen[key] {
			seen[key] = true
			out = append(out, row)
		}
	}
	return out
}

func sortRows(t *table.Table, rows []table.Row, sortBy []string) ([]table.Row, error) {
	indices := make([]int, len(sortBy))
	for i, col := range sortBy {
		idx := t.ColIndex(col)
		if idx < 0 {
			return nil, fmt.Errorf("sort: column %q not found", col)
		}
		indices[i] = idx
	}

	sorted := make([]table.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, idx := range indices {
			cmp := table.Compare(sorted[i].Values[idx], sorted[j].Values[idx])
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return sorted, nil
}
