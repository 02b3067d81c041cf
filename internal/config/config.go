package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chrisconley/salesboard/specs"
	"gopkg.in/yaml.v3"
)

// DateFormat is the layout of the date_range bounds in the config file.
const DateFormat = "2006-01-02"

// Source kinds.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all salesboard configuration.
type Config struct {
	Report  ReportConfig  `yaml:"report"`
	Source  SourceConfig  `yaml:"source"`
	Logging LoggingConfig `yaml:"logging"`
}

// ReportConfig configures the metrics of a report run.
type ReportConfig struct {
	InternalDomain       string          `yaml:"internal_domain"`
	DateLayout           string          `yaml:"date_layout"`
	DateRange            DateRangeConfig `yaml:"date_range"`
	Segments             []string        `yaml:"segments"`
	TopN                 int             `yaml:"top_n"`
	CanonicalStatusOrder bool            `yaml:"canonical_status_order"`
}

// DateRangeConfig bounds are "YYYY-MM-DD"; an empty bound is open.
type DateRangeConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// SourceConfig says where the raw tables come from.
type SourceConfig struct {
	Kind string `yaml:"kind"` // csv, postgres

	// CSV file paths.
	Organizations string `yaml:"organizations"`
	Subscriptions string `yaml:"subscriptions"`
	Orders        string `yaml:"orders"`

	// PostgreSQL connection and table names.
	DatabaseURL string         `yaml:"database_url"`
	Tables      PostgresTables `yaml:"tables"`
}

// PostgresTables names the tables holding the raw rows.
type PostgresTables struct {
	Organizations string `yaml:"organizations"`
	Subscriptions string `yaml:"subscriptions"`
	Orders        string `yaml:"orders"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Report: ReportConfig{
			InternalDomain: "orion.global",
			DateLayout:     "2-1-2006",
			TopN:           10,
		},
		Source: SourceConfig{
			Kind: SourceCSV,
			Tables: PostgresTables{
				Organizations: "organizations",
				Subscriptions: "subscriptions",
				Orders:        "orders",
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load loads configuration from a YAML file over the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("SALESBOARD_DATABASE_URL"); url != "" {
		c.Source.DatabaseURL = url
	}
	if domain := os.Getenv("SALESBOARD_INTERNAL_DOMAIN"); domain != "" {
		c.Report.InternalDomain = domain
	}
}

// Validate checks the configuration for values no report run can use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Report.InternalDomain) == "" {
		return fmt.Errorf("report.internal_domain is required")
	}
	if c.Report.TopN < 0 {
		return fmt.Errorf("report.top_n must be >= 0, got %d", c.Report.TopN)
	}
	if _, err := c.Report.DateRange.ToSpec(); err != nil {
		return fmt.Errorf("invalid report.date_range: %w", err)
	}

	switch c.Source.Kind {
	case SourceCSV:
	case SourcePostgres:
		if c.Source.DatabaseURL == "" {
			return fmt.Errorf("source.database_url is required for postgres (or set SALESBOARD_DATABASE_URL)")
		}
	default:
		return fmt.Errorf("invalid source.kind: %q (valid: %s, %s)", c.Source.Kind, SourceCSV, SourcePostgres)
	}

	return nil
}

// ToSpec converts the report section into a specs.ReportConfigSpec.
func (c ReportConfig) ToSpec() (specs.ReportConfigSpec, error) {
	dateRange, err := c.DateRange.ToSpec()
	if err != nil {
		return specs.ReportConfigSpec{}, err
	}
	return specs.ReportConfigSpec{
		InternalDomain:       c.InternalDomain,
		DateLayout:           c.DateLayout,
		DateRange:            dateRange,
		Segments:             c.Segments,
		TopN:                 c.TopN,
		CanonicalStatusOrder: c.CanonicalStatusOrder,
	}, nil
}

func (r DateRangeConfig) ToSpec() (specs.DateRangeSpec, error) {
	var spec specs.DateRangeSpec
	var err error
	if r.Start != "" {
		if spec.Start, err = time.Parse(DateFormat, r.Start); err != nil {
			return specs.DateRangeSpec{}, fmt.Errorf("invalid start: %w", err)
		}
	}
	if r.End != "" {
		if spec.End, err = time.Parse(DateFormat, r.End); err != nil {
			return specs.DateRangeSpec{}, fmt.Errorf("invalid end: %w", err)
		}
	}
	if !spec.Start.IsZero() && !spec.End.IsZero() && spec.End.Before(spec.Start) {
		return specs.DateRangeSpec{}, fmt.Errorf("start must be before or equal to end")
	}
	return spec, nil
}
