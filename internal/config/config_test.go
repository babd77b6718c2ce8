package config

import (
	"testing"
	"time"

	"hrdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "GIN_MODE", "DATA_FILE", "DATA_FORMAT", "DATA_SHEET", "DATA_JSON_PATH", "DATA_INFER_SCHEMA",
	"DATA_SQL_DRIVER", "DATA_SQL_URL", "DATA_SQL_QUERY", "DATA_WATCH", "DATA_WATCH_DEBOUNCE",
	"SYNTHETIC_ROWS", "SYNTHETIC_SEED", "DATA_LOAD_TIMEOUT", "CATALOG_FILE",
	"VIEWS_DEFAULT_BINS", "VIEWS_PARALLELISM", "PPROF_PORT", "PPROF_ENABLED",
}

func clearEnv(t *testing.T) {
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "auto", cfg.Data.Format)
	assert.Equal(t, "postgres", cfg.Data.SQLDriver)
	assert.Equal(t, "SELECT * FROM employees", cfg.Data.SQLQuery)
	assert.Equal(t, 1470, cfg.Data.SyntheticRows)
	assert.Equal(t, 500*time.Millisecond, cfg.Data.WatchDebounce)
	assert.Equal(t, 20, cfg.Views.DefaultBins)
	assert.Equal(t, 4, cfg.Views.Parallelism)
	assert.Equal(t, "6060", cfg.Profiling.Port)
	assert.True(t, cfg.Profiling.Enabled)
	assert.Equal(t, SourceSynthetic, cfg.Data.Source())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_FILE", "data/EA.xlsx")
	t.Setenv("DATA_FORMAT", "XLSX")
	t.Setenv("DATA_WATCH", "true")
	t.Setenv("DATA_WATCH_DEBOUNCE", "2s")
	t.Setenv("VIEWS_DEFAULT_BINS", "12")
	t.Setenv("PPROF_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "xlsx", cfg.Data.Format)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, 2*time.Second, cfg.Data.WatchDebounce)
	assert.Equal(t, 12, cfg.Views.DefaultBins)
	assert.False(t, cfg.Profiling.Enabled)
	assert.Equal(t, SourceFile, cfg.Data.Source())
}

func TestDataSource(t *testing.T) {
	tests := []struct {
		data DataConfig
		want string
	}{
		{DataConfig{Format: "auto"}, SourceSynthetic},
		{DataConfig{Format: "auto", File: "EA.csv"}, SourceFile},
		{DataConfig{Format: "auto", File: "EA.JSON"}, SourceJSON},
		{DataConfig{Format: "auto", File: "https://hr.example.com/employees"}, SourceJSON},
		{DataConfig{Format: "json", File: "export.txt"}, SourceJSON},
		{DataConfig{Format: "auto", File: "EA.csv", SQLURL: "postgres://hr"}, SourceSQL},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.data.Source(), "%+v", tc.data)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad format", map[string]string{"DATA_FILE": "x.csv", "DATA_FORMAT": "parquet"}},
		{"format without file", map[string]string{"DATA_FORMAT": "csv"}},
		{"watch without file", map[string]string{"DATA_WATCH": "true"}},
		{"watch a url", map[string]string{"DATA_WATCH": "true", "DATA_FILE": "https://hr.example.com/e.json"}},
		{"zero bins", map[string]string{"VIEWS_DEFAULT_BINS": "0"}},
		{"negative parallelism", map[string]string{"VIEWS_PARALLELISM": "-2"}},
		{"negative rows", map[string]string{"SYNTHETIC_ROWS": "-1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid), "got %v", err)
		})
	}
}
