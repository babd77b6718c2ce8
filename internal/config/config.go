package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"hrdash/internal/errors"
)

// Source kinds, chosen from the data settings
const (
	SourceFile      = "file"
	SourceJSON      = "json"
	SourceSQL       = "sql"
	SourceSynthetic = "synthetic"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Views     ViewsConfig
	Catalog   CatalogConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig says where the employee table comes from
type DataConfig struct {
	File          string
	Format        string // auto, csv, xlsx or json
	Sheet         string
	JSONPath      string
	InferSchema   bool // type every column from its cells instead of the employee schema
	SQLDriver     string
	SQLURL        string
	SQLQuery      string
	Watch         bool
	WatchDebounce time.Duration
	SyntheticRows int
	SyntheticSeed int64
	LoadTimeout   time.Duration
}

// ViewsConfig holds view builder and renderer settings
type ViewsConfig struct {
	DefaultBins int
	Parallelism int
}

// CatalogConfig points at an optional catalog file replacing the built-in one
type CatalogConfig struct {
	File string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Views:     *loadViewsConfig(),
		Catalog:   CatalogConfig{File: getEnvOrDefault("CATALOG_FILE", "")},
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Source returns which kind of source the data settings select. A SQL URL
// wins over a file; with neither, synthetic data is generated.
func (d DataConfig) Source() string {
	switch {
	case d.SQLURL != "":
		return SourceSQL
	case d.File == "":
		return SourceSynthetic
	case d.Format == "json" || (d.Format == "auto" && isJSONFile(d.File)):
		return SourceJSON
	default:
		return SourceFile
	}
}

func isJSONFile(path string) bool {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return true
	}
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".json") || strings.HasSuffix(lower, ".ndjson") || strings.HasSuffix(lower, ".jsonl")
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:          getEnvOrDefault("DATA_FILE", ""),
		Format:        strings.ToLower(getEnvOrDefault("DATA_FORMAT", "auto")),
		Sheet:         getEnvOrDefault("DATA_SHEET", ""),
		JSONPath:      getEnvOrDefault("DATA_JSON_PATH", ""),
		InferSchema:   getEnvBoolOrDefault("DATA_INFER_SCHEMA", false),
		SQLDriver:     getEnvOrDefault("DATA_SQL_DRIVER", "postgres"),
		SQLURL:        getEnvOrDefault("DATA_SQL_URL", ""),
		SQLQuery:      getEnvOrDefault("DATA_SQL_QUERY", "SELECT * FROM employees"),
		Watch:         getEnvBoolOrDefault("DATA_WATCH", false),
		WatchDebounce: getEnvDurationOrDefault("DATA_WATCH_DEBOUNCE", 500*time.Millisecond),
		SyntheticRows: getEnvIntOrDefault("SYNTHETIC_ROWS", 1470),
		SyntheticSeed: int64(getEnvIntOrDefault("SYNTHETIC_SEED", 42)),
		LoadTimeout:   getEnvDurationOrDefault("DATA_LOAD_TIMEOUT", 30*time.Second),
	}
}

func loadViewsConfig() *ViewsConfig {
	return &ViewsConfig{
		DefaultBins: getEnvIntOrDefault("VIEWS_DEFAULT_BINS", 20),
		Parallelism: getEnvIntOrDefault("VIEWS_PARALLELISM", 4),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", true),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	switch config.Data.Format {
	case "auto", "csv", "xlsx", "json":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("DATA_FORMAT must be auto, csv, xlsx or json, got %q", config.Data.Format))
	}
	if config.Data.Format != "auto" && config.Data.File == "" && config.Data.SQLURL == "" {
		return errors.ConfigInvalid("DATA_FORMAT is set but DATA_FILE is empty")
	}
	if config.Data.Watch && config.Data.Source() != SourceFile && config.Data.Source() != SourceJSON {
		return errors.ConfigInvalid("DATA_WATCH needs a local DATA_FILE")
	}
	if config.Data.Watch && isRemote(config.Data.File) {
		return errors.ConfigInvalid("DATA_WATCH cannot watch a URL")
	}
	if config.Data.SyntheticRows < 0 {
		return errors.ConfigInvalid("SYNTHETIC_ROWS must not be negative")
	}
	if config.Views.DefaultBins <= 0 {
		return errors.ConfigInvalid("VIEWS_DEFAULT_BINS must be positive")
	}
	if config.Views.Parallelism <= 0 {
		return errors.ConfigInvalid("VIEWS_PARALLELISM must be positive")
	}
	return nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
