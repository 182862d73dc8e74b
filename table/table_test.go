package table

import "testing"

func sampleTable() *Table {
	t := NewTable([]string{"name", "age"})
	t.AddRow([]Value{StrVal("alice"), IntVal(30)})
	t.AddRow([]Value{StrVal("bob"), Null()})
	return t
}

func TestColIndex(t *testing.T) {
	tbl := sampleTable()
	if got := tbl.ColIndex("age"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := tbl.ColIndex("missing"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}

func TestGet(t *testing.T) {
	tbl := sampleTable()
	if got := tbl.Get(0, "name"); got.Str != "alice" {
		t.Errorf("expected alice, got %v", got.AsString())
	}
	if got := tbl.Get(5, "name"); !got.IsNull() {
		t.Errorf("out-of-range row should be null, got %v", got.AsString())
	}
	if got := tbl.Get(0, "missing"); !got.IsNull() {
		t.Errorf("missing column should be null, got %v", got.AsString())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := sampleTable()
	clone := tbl.Clone()
	clone.AddRow([]Value{StrVal("carol"), IntVal(45)})
	clone.Rows[0].Values[0] = StrVal("mallory")

	if len(tbl.Rows) != 2 {
		t.Errorf("clone AddRow leaked into original, %d rows", len(tbl.Rows))
	}
	if tbl.Rows[0].Values[0].Str != "alice" {
		t.Error("clone cell write leaked into original")
	}
}

func TestKeyDistinguishesTypes(t *testing.T) {
	pairs := [][2]Value{
		{IntVal(1), StrVal("1")},
		{IntVal(1), FloatVal(1.5)},
		{BoolVal(true), StrVal("true")},
		{Null(), StrVal("null")},
		{TupleVal([]Value{IntVal(1)}), ListVal([]Value{IntVal(1)})},
	}
	for _, p := range pairs {
		if p[0].Key() == p[1].Key() {
			t.Errorf("%v and %v must have distinct keys", p[0].AsString(), p[1].AsString())
		}
	}
}

func TestKeyStable(t *testing.T) {
	v := TupleVal([]Value{IntVal(1), StrVal("x")})
	if v.Key() != v.Key() {
		t.Error("key must be deterministic")
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{IntVal(1), IntVal(1), true},
		{IntVal(1), FloatVal(1.0), true},
		{IntVal(1), StrVal("1"), false},
		{Null(), Null(), true},
		{Null(), IntVal(0), false},
		{StrVal("x"), StrVal("x"), true},
		{BoolVal(true), BoolVal(false), false},
		{TupleVal([]Value{IntVal(1), IntVal(2)}), TupleVal([]Value{IntVal(1), IntVal(2)}), true},
		{TupleVal([]Value{IntVal(1)}), TupleVal([]Value{IntVal(2)}), false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", tc.a.AsString(), tc.b.AsString(), got, tc.want)
		}
	}
}

func TestCompare(t *testing.T) {
	if Compare(IntVal(1), FloatVal(2.5)) >= 0 {
		t.Error("1 should sort before 2.5")
	}
	if Compare(StrVal("a"), StrVal("b")) >= 0 {
		t.Error("a should sort before b")
	}
	if Compare(IntVal(1), Null()) >= 0 {
		t.Error("nulls sort last")
	}
	if Compare(Null(), Null()) != 0 {
		t.Error("nulls compare equal to each other")
	}
}

func TestAsString(t *testing.T) {
	v := TupleVal([]Value{IntVal(1), StrVal("x"), Null()})
	if got := v.AsString(); got != "(1, x, null)" {
		t.Errorf("unexpected rendering %q", got)
	}
	l := ListVal([]Value{BoolVal(true), FloatVal(2.5)})
	if got := l.AsString(); got != "[true, 2.5]" {
		t.Errorf("unexpected rendering %q", got)
	}
}
