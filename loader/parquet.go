package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huongly92/nestmap/table"
)

func loadParquetFile(filename string) (*table.Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", filename, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", filename, err)
	}

	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("cannot open parquet file %s: %w", filename, err)
	}
	return readParquet(pqFile)
}

func loadParquetReader(r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read parquet input: %w", err)
	}
	pqFile, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("cannot open parquet input: %w", err)
	}
	return readParquet(pqFile)
}

func readParquet(pqFile *parquet.File) (*table.Table, error) {
	fields := pqFile.Schema().Fields()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name()
	}

	t := table.NewTable(columns)

	reader := parquet.NewReader(pqFile)
	defer reader.Close()

	for {
		row := make(map[string]interface{})
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading parquet row: %w", err)
		}

		vals := make([]table.Value, len(columns))
		for i, col := range columns {
			v, exists := row[col]
			if !exists || v == nil {
				vals[i] = table.Null()
				continue
			}
			vals[i] = parquetValue(v)
		}
		t.AddRow(vals)
	}

	return t, nil
}

func parquetValue(v interface{}) table.Value {
	switch val := v.(type) {
	case int32:
		return table.IntVal(int64(val))
	case int64:
		return table.IntVal(val)
	case float32:
		return table.FloatVal(float64(val))
	case float64:
		return table.FloatVal(val)
	case string:
		return table.StrVal(val)
	case bool:
		return table.BoolVal(val)
	case []byte:
		return table.StrVal(string(val))
	case time.Time:
		return table.StrVal(val.Format(time.RFC3339))
	default:
		return table.StrVal(fmt.Sprintf("%v", val))
	}
}
