package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "orion.global", cfg.Report.InternalDomain)
	assert.Equal(t, "2-1-2006", cfg.Report.DateLayout)
	assert.Equal(t, 10, cfg.Report.TopN)
	assert.Equal(t, SourceCSV, cfg.Source.Kind)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("overlays file values on defaults", func(t *testing.T) {
		t.Setenv("SALESBOARD_DATABASE_URL", "")
		t.Setenv("SALESBOARD_INTERNAL_DOMAIN", "")
		path := filepath.Join(t.TempDir(), "salesboard.yaml")
		content := `
report:
  internal_domain: corp.example
  date_range:
    start: 2025-01-01
    end: 2025-01-31
  segments: [SMB, Enterprise]
  canonical_status_order: true
source:
  organizations: orgs.csv
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "corp.example", cfg.Report.InternalDomain)
		assert.Equal(t, "2-1-2006", cfg.Report.DateLayout)
		assert.Equal(t, 10, cfg.Report.TopN)
		assert.Equal(t, []string{"SMB", "Enterprise"}, cfg.Report.Segments)
		assert.True(t, cfg.Report.CanonicalStatusOrder)
		assert.Equal(t, "orgs.csv", cfg.Source.Organizations)
		assert.Equal(t, "orders", cfg.Source.Tables.Orders)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Setenv("SALESBOARD_INTERNAL_DOMAIN", "")
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Report, cfg.Report)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("report: [unclosed"), 0644))

		_, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		t.Setenv("SALESBOARD_DATABASE_URL", "postgres://localhost/sales")
		t.Setenv("SALESBOARD_INTERNAL_DOMAIN", "env.example")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

		require.NoError(t, err)
		assert.Equal(t, "postgres://localhost/sales", cfg.Source.DatabaseURL)
		assert.Equal(t, "env.example", cfg.Report.InternalDomain)
	})
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("SALESBOARD_DATABASE_URL", "")
	t.Setenv("SALESBOARD_INTERNAL_DOMAIN", "")
	path := filepath.Join(t.TempDir(), "nested", "salesboard.yaml")

	cfg := DefaultConfig()
	cfg.Report.TopN = 3
	cfg.Source.Kind = SourcePostgres
	cfg.Source.DatabaseURL = "postgres://db/sales"

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Config)
		want   string
	}{
		"empty domain": {
			mutate: func(c *Config) { c.Report.InternalDomain = " " },
			want:   "internal_domain is required",
		},
		"negative top n": {
			mutate: func(c *Config) { c.Report.TopN = -1 },
			want:   "top_n must be >= 0",
		},
		"inverted range": {
			mutate: func(c *Config) { c.Report.DateRange = DateRangeConfig{Start: "2025-02-01", End: "2025-01-01"} },
			want:   "start must be before or equal to end",
		},
		"bad date": {
			mutate: func(c *Config) { c.Report.DateRange.Start = "01/02/2025" },
			want:   "invalid start",
		},
		"postgres without url": {
			mutate: func(c *Config) { c.Source.Kind = SourcePostgres },
			want:   "database_url is required",
		},
		"unknown source": {
			mutate: func(c *Config) { c.Source.Kind = "xlsx" },
			want:   "invalid source.kind",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestReportConfigToSpec(t *testing.T) {
	t.Run("parses the date range", func(t *testing.T) {
		cfg := DefaultConfig().Report
		cfg.DateRange = DateRangeConfig{Start: "2025-01-01", End: "2025-01-31"}

		spec, err := cfg.ToSpec()

		require.NoError(t, err)
		assert.Equal(t, "orion.global", spec.InternalDomain)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), spec.DateRange.Start)
		assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), spec.DateRange.End)
	})

	t.Run("empty bounds stay open", func(t *testing.T) {
		spec, err := DefaultConfig().Report.ToSpec()

		require.NoError(t, err)
		assert.True(t, spec.DateRange.Start.IsZero())
		assert.True(t, spec.DateRange.End.IsZero())
	})
}
