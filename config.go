package orderpipe

import (
	"os"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// Config declares one pipeline. It is the explicit, passed-in replacement
// for the hardcoded connection strings and project ids of ad hoc scripts.
type Config struct {
	Name        string            `yaml:"name"`
	Source      SourceConfig      `yaml:"source"`
	Transform   string            `yaml:"transform"`
	Destination DestinationConfig `yaml:"destination"`
	Stamp       bool              `yaml:"stamp_loaded_at"`
	VerifyTop   int               `yaml:"verify_top"`
}

// SourceConfig selects exactly one of: a CSV/XLS file, a relational DSN,
// or the built-in sample batch.
type SourceConfig struct {
	CSV      string `yaml:"csv"`
	Format   string `yaml:"format"`
	Encoding string `yaml:"encoding"`
	DSN      string `yaml:"dsn"`
	Query    string `yaml:"query"`
	Sample   bool   `yaml:"sample"`
}

// DestinationConfig identifies the destination table.
type DestinationConfig struct {
	Project  string `yaml:"project"`
	Dataset  string `yaml:"dataset"`
	Table    string `yaml:"table"`
	Location string `yaml:"location"`
}

// JobFile declares a set of pipelines to run in one invocation.
type JobFile struct {
	LogLevel    string   `yaml:"log_level"`
	Concurrency int      `yaml:"concurrency"`
	Pipelines   []Config `yaml:"pipelines"`
}

// LoadJobFile reads and decodes a YAML job file.
func LoadJobFile(path string) (*JobFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to read job file: %w", err)
	}

	jf := &JobFile{}
	if err := yaml.Unmarshal(raw, jf); err != nil {
		return nil, xerrors.Errorf("failed to decode job file %s: %w", path, err)
	}

	if len(jf.Pipelines) == 0 {
		return nil, xerrors.Errorf("job file %s declares no pipelines", path)
	}

	return jf, nil
}

// Pipeline builds a runnable pipeline from the configuration.
func (c *Config) Pipeline() (*Pipeline, error) {
	if c.Name == "" {
		return nil, xerrors.New("pipeline name is required")
	}

	sources := 0
	for _, set := range []bool{c.Source.CSV != "", c.Source.DSN != "", c.Source.Sample} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, xerrors.Errorf("pipeline %s: exactly one source is required, got %d", c.Name, sources)
	}

	p := &Pipeline{
		Name:            c.Name,
		CSV:             c.Source.CSV,
		DSN:             c.Source.DSN,
		Query:           c.Source.Query,
		Project:         c.Destination.Project,
		Dataset:         c.Destination.Dataset,
		Table:           c.Destination.Table,
		DatasetLocation: c.Destination.Location,
		StampLoadedAt:   c.Stamp,
		VerifyTop:       c.VerifyTop,
	}

	switch c.Source.Format {
	case "", "csv":
	case "xls":
		p.Parser = XLSParser()
	default:
		return nil, xerrors.Errorf("pipeline %s: unknown source format %q", c.Name, c.Source.Format)
	}

	if c.Source.Encoding != "" {
		enc, err := htmlindex.Get(c.Source.Encoding)
		if err != nil {
			return nil, xerrors.Errorf("pipeline %s: unknown encoding %q: %w", c.Name, c.Source.Encoding, err)
		}
		p.Encoding = enc
	}

	if c.Source.Sample {
		p.Static = SampleOrders()
		p.Schema = SampleSchema
		p.StampLoadedAt = true
	}

	switch c.Transform {
	case "", "passthrough":
	case "sales":
		p.Transformer = &SalesTransformer{}
		p.Schema = SalesSchema
		p.StampLoadedAt = true
	default:
		return nil, xerrors.Errorf("pipeline %s: unknown transform %q", c.Name, c.Transform)
	}

	return p, nil
}
