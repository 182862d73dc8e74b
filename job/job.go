// Package job loads declarative transform-job files: where the rows come
// from, how they nest, and how the result is printed.
package job

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/huongly92/nestmap/filter"
)

// Job describes one transform run.
type Job struct {
	Source    SourceConfig      `koanf:"source"`
	Hierarchy []string          `koanf:"hierarchy"`
	Values    []string          `koanf:"values"`
	Filters   map[string]any    `koanf:"filters"`
	Aggregate map[string]string `koanf:"aggregate"`
	Dedup     bool              `koanf:"dedup"`
	SortBy    []string          `koanf:"sort_by"`
	Lookup    LookupConfig      `koanf:"lookup"`
	Output    OutputConfig      `koanf:"output"`
}

// SourceConfig names the tabular source. Sheets applies to workbook files
// only: rows union in listed order, and TagSheet adds the provenance column.
type SourceConfig struct {
	File     string   `koanf:"file"`
	Sheets   []string `koanf:"sheets"`
	TagSheet bool     `koanf:"tag_sheet"`
}

// LookupConfig, when Path or Level is set, runs a key lookup on the built
// result instead of printing the whole structure.
type LookupConfig struct {
	Path  []string `koanf:"path"`
	Level int      `koanf:"level"`
}

type OutputConfig struct {
	Format string `koanf:"format"` // json | yaml | table
}

// Enabled reports whether the job asks for a lookup.
func (l LookupConfig) Enabled() bool {
	return len(l.Path) > 0 || l.Level > 0
}

// Load parses a job file, layering NESTMAP_ environment variables on top.
func Load(path string) (*Job, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"output.format": "json",
		"lookup.level":  0,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load job file: %w", err)
	}

	if err := k.Load(env.Provider("NESTMAP_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "NESTMAP_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var j Job
	if err := k.Unmarshal("", &j); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return &j, nil
}

func (j *Job) Validate() error {
	if strings.TrimSpace(j.Source.File) == "" {
		return fmt.Errorf("source.file is required")
	}
	if len(j.Hierarchy) == 0 {
		return fmt.Errorf("hierarchy must name at least one column")
	}
	switch j.Output.Format {
	case "json", "yaml", "table":
	default:
		return fmt.Errorf("invalid output.format %q (must be json, yaml or table)", j.Output.Format)
	}
	if len(j.Source.Sheets) == 0 && j.Source.TagSheet {
		return fmt.Errorf("source.tag_sheet requires source.sheets")
	}
	if j.Lookup.Level < 0 {
		return fmt.Errorf("lookup.level must be >= 0")
	}
	return nil
}

// ParsedFilters decodes the job's filter block.
func (j *Job) ParsedFilters() (filter.Filters, error) {
	if len(j.Filters) == 0 {
		return nil, nil
	}
	return filter.FromSpec(j.Filters)
}
