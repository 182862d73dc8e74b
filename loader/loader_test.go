package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huongly92/nestmap/table"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTemp(t, "rules.csv", "CAL_GROUP,COL,LEVEL,WEIGHT,ACTIVE\nbank,ROE,1,0.5,true\ncompany,ROA,2,,false\n")

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(tbl.Columns) != 5 || len(tbl.Rows) != 2 {
		t.Fatalf("unexpected shape: %d cols, %d rows", len(tbl.Columns), len(tbl.Rows))
	}
	if got := tbl.Get(0, "LEVEL"); got.Type != table.TypeInt || got.Int != 1 {
		t.Errorf("LEVEL: expected int 1, got %v", got.AsString())
	}
	if got := tbl.Get(0, "WEIGHT"); got.Type != table.TypeFloat || got.Float != 0.5 {
		t.Errorf("WEIGHT: expected float 0.5, got %v", got.AsString())
	}
	if got := tbl.Get(0, "ACTIVE"); got.Type != table.TypeBool || !got.Bool {
		t.Errorf("ACTIVE: expected true, got %v", got.AsString())
	}
	if got := tbl.Get(1, "WEIGHT"); !got.IsNull() {
		t.Errorf("empty cell should be null, got %v", got.AsString())
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "rules.json", `[{"g": "bank", "v": 1}, {"g": "company", "v": 2.5, "extra": "x"}]`)

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if got := tbl.Get(0, "v"); got.Type != table.TypeInt || got.Int != 1 {
		t.Errorf("integral JSON number should be int, got %v", got.AsString())
	}
	if got := tbl.Get(1, "v"); got.Type != table.TypeFloat || got.Float != 2.5 {
		t.Errorf("expected 2.5, got %v", got.AsString())
	}
	// Column union across records: missing cell is null.
	if got := tbl.Get(0, "extra"); !got.IsNull() {
		t.Errorf("missing cell should be null, got %v", got.AsString())
	}
}

func TestLoadJSONL(t *testing.T) {
	content := `{"g": "bank", "v": 1}

{"g": "company", "v": 2}
`
	tbl, err := LoadReader(strings.NewReader(content), "jsonl")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("blank lines should be skipped, got %d rows", len(tbl.Rows))
	}
}

func TestLoadJSONLBadLine(t *testing.T) {
	_, err := LoadReader(strings.NewReader("{\"ok\": 1}\nnot json\n"), "jsonl")
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should carry the line number: %v", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load("data.toml"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want table.Value
	}{
		{"42", table.IntVal(42)},
		{"-7", table.IntVal(-7)},
		{"2.5", table.FloatVal(2.5)},
		{"true", table.BoolVal(true)},
		{"FALSE", table.BoolVal(false)},
		{"", table.Null()},
		{"null", table.Null()},
		{"NULL", table.Null()},
		{"hello", table.StrVal("hello")},
		{"(1, 2)", table.StrVal("(1, 2)")}, // tuple decoding happens downstream
	}
	for _, tc := range cases {
		got := parseValue(tc.in)
		if got.Type != tc.want.Type || !table.Equal(got, tc.want) {
			t.Errorf("parseValue(%q) = %v, want %v", tc.in, got.AsString(), tc.want.AsString())
		}
	}
}

func TestCSVShortRow(t *testing.T) {
	// csv.Reader enforces field counts; trailing whitespace still trims.
	path := writeTemp(t, "pad.csv", "a, b\n 1 , x \n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Columns[1] != "b" {
		t.Errorf("header should be trimmed, got %q", tbl.Columns[1])
	}
	if got := tbl.Get(0, "b"); got.Str != "x" {
		t.Errorf("cell should be trimmed, got %q", got.Str)
	}
}
