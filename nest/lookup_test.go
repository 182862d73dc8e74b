package nest

import (
	"testing"

	"github.com/huongly92/nestmap/table"
)

// regionTree builds region -> city -> product -> qty.
func regionTree(t *testing.T) *Branch {
	t.Helper()
	tbl := table.NewTable([]string{"region", "city", "product", "qty"})
	add := func(region, city, product string, qty int64) {
		tbl.AddRow([]table.Value{table.StrVal(region), table.StrVal(city), table.StrVal(product), table.IntVal(qty)})
	}
	add("north", "oslo", "saw", 3)
	add("north", "oslo", "axe", 1)
	add("north", "bergen", "saw", 5)
	add("south", "rome", "rope", 2)

	return mustTransform(t, tbl, []string{"region", "city", "product"}, &Options{Values: []string{"qty"}})
}

func strKeys(vals []table.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.AsString()
	}
	return out
}

func sameKeys(got []table.Value, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, w := range want {
		if got[i].AsString() != w {
			return false
		}
	}
	return true
}

func TestKeysAtLevelOne(t *testing.T) {
	root := regionTree(t)
	got := KeysAt(root, []table.Value{table.StrVal("north")}, 1)
	if !sameKeys(got, "oslo", "bergen") {
		t.Errorf("expected [oslo bergen], got %v", strKeys(got))
	}
}

func TestKeysAtRoot(t *testing.T) {
	root := regionTree(t)
	got := KeysAt(root, nil, 1)
	if !sameKeys(got, "north", "south") {
		t.Errorf("expected [north south], got %v", strKeys(got))
	}
}

func TestKeysAtDeeperLevel(t *testing.T) {
	root := regionTree(t)
	got := KeysAt(root, []table.Value{table.StrVal("north")}, 2)
	// Frontier crosses both cities; duplicates are kept.
	if !sameKeys(got, "saw", "axe", "saw") {
		t.Errorf("expected [saw axe saw], got %v", strKeys(got))
	}
}

func TestKeysAtMissingPath(t *testing.T) {
	root := regionTree(t)
	if got := KeysAt(root, []table.Value{table.StrVal("west")}, 1); len(got) != 0 {
		t.Errorf("expected empty result for missing path, got %v", strKeys(got))
	}
}

func TestKeysAtLevelBeyondLeaves(t *testing.T) {
	root := regionTree(t)
	if got := KeysAt(root, []table.Value{table.StrVal("south")}, 5); len(got) != 0 {
		t.Errorf("expected empty result past the leaves, got %v", strKeys(got))
	}
}

func TestKeysAtScalarShortCircuit(t *testing.T) {
	root := regionTree(t)
	path := []table.Value{table.StrVal("south"), table.StrVal("rome"), table.StrVal("rope")}
	if got := KeysAt(root, path, 1); len(got) != 0 {
		t.Errorf("expected no keys below a scalar, got %v", strKeys(got))
	}
	// Descending through a scalar is a miss too.
	longer := append(path, table.StrVal("deeper"))
	if got := KeysAt(root, longer, 1); len(got) != 0 {
		t.Errorf("expected no keys descending through a scalar, got %v", strKeys(got))
	}
}

func TestKeysAtLevelClamped(t *testing.T) {
	root := regionTree(t)
	got := KeysAt(root, []table.Value{table.StrVal("north")}, 0)
	if !sameKeys(got, "oslo", "bergen") {
		t.Errorf("expected level 0 to behave as 1, got %v", strKeys(got))
	}
}

func TestKeysAtRecordColumns(t *testing.T) {
	tbl := table.NewTable([]string{"g", "a", "b"})
	tbl.AddRow([]table.Value{table.StrVal("X"), table.IntVal(1), table.IntVal(2)})
	root := mustTransform(t, tbl, []string{"g"}, nil)

	got := KeysAt(root, []table.Value{table.StrVal("X")}, 1)
	if !sameKeys(got, "a", "b") {
		t.Errorf("expected record column names, got %v", strKeys(got))
	}
}

func TestKeysAtAllUnion(t *testing.T) {
	root := regionTree(t)
	paths := [][]table.Value{
		{table.StrVal("north"), table.StrVal("oslo")},
		{table.StrVal("north"), table.StrVal("bergen")},
		{table.StrVal("nowhere")},
	}
	got := KeysAtAll(root, paths, 1)
	if !sameKeys(got, "saw", "axe") {
		t.Errorf("expected deduplicated union [saw axe], got %v", strKeys(got))
	}
}
