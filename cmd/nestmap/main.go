package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/huongly92/nestmap/job"
	"github.com/huongly92/nestmap/loader"
	"github.com/huongly92/nestmap/nest"
	"github.com/huongly92/nestmap/table"
)

func main() {
	jobPath := flag.String("job", "", "path to the transform job file")
	preview := flag.Bool("preview", false, "print the loaded table instead of transforming")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *jobPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nestmap -job <job.yaml> [-preview]")
		os.Exit(1)
	}

	j, err := job.Load(*jobPath)
	if err != nil {
		slog.Error("failed to load job", "error", err)
		os.Exit(1)
	}

	input, err := loadSource(j)
	if err != nil {
		slog.Error("failed to load source", "file", j.Source.File, "error", err)
		os.Exit(1)
	}

	if *preview || j.Output.Format == "table" {
		printTable(input)
		return
	}

	filters, err := j.ParsedFilters()
	if err != nil {
		slog.Error("invalid filters", "error", err)
		os.Exit(1)
	}

	opts := &nest.Options{
		Values:  j.Values,
		Filters: filters,
		Dedup:   j.Dedup,
		SortBy:  j.SortBy,
		Logger:  logger,
	}

	var result *nest.Branch
	if len(j.Aggregate) > 0 {
		result, err = nest.TransformAggregated(input, j.Hierarchy, j.Aggregate, opts)
	} else {
		result, err = nest.Transform(input, j.Hierarchy, opts)
	}
	if err != nil {
		slog.Error("transform failed", "error", err)
		os.Exit(1)
	}

	if j.Lookup.Enabled() {
		printKeys(result, j)
		return
	}

	switch j.Output.Format {
	case "yaml":
		out, err := yaml.Marshal(result)
		if err != nil {
			slog.Error("failed to encode result", "error", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	default:
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			slog.Error("failed to encode result", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	}
}

func loadSource(j *job.Job) (*table.Table, error) {
	if len(j.Source.Sheets) > 0 {
		if !strings.HasSuffix(strings.ToLower(j.Source.File), ".xlsx") {
			return nil, fmt.Errorf("source.sheets requires an .xlsx file, got %s", j.Source.File)
		}
		wb, err := loader.OpenWorkbook(j.Source.File)
		if err != nil {
			return nil, err
		}
		defer wb.Close()
		return wb.Union(j.Source.Sheets, j.Source.TagSheet)
	}
	return loader.Load(j.Source.File)
}

func printKeys(result *nest.Branch, j *job.Job) {
	path := make([]table.Value, len(j.Lookup.Path))
	for i, seg := range j.Lookup.Path {
		path[i] = table.StrVal(seg)
	}
	level := j.Lookup.Level
	if level == 0 {
		level = 1
	}
	for _, key := range nest.KeysAt(result, path, level) {
		fmt.Println(key.AsString())
	}
}

func printTable(t *table.Table) {
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader(t.Columns)
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			if i < len(row.Values) {
				cells[i] = row.Values[i].AsString()
			} else {
				cells[i] = "null"
			}
		}
		w.Append(cells)
	}
	w.Render()
}
