// Package jsonsource loads dashboard tables from JSON arrays, NDJSON files and
// JSON HTTP endpoints.
package jsonsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hrdash/adapters/datareadiness"
	"hrdash/adapters/datareadiness/coercer"
	"hrdash/domain/datareadiness/ingestion"
	"hrdash/domain/dataset"
	"hrdash/internal"
	"hrdash/internal/errors"

	"github.com/tidwall/gjson"
)

// Config describes where the records live
type Config struct {
	Location string        `json:"location"`  // file path or http(s) URL
	DataPath string        `json:"data_path"` // gjson path to the record array, empty for the document root
	Timeout  time.Duration `json:"timeout"`
}

// Source reads an array of flat JSON objects, one object per row
type Source struct {
	config     Config
	httpClient *http.Client
	tabulator  *datareadiness.Tabulator
	logger     *internal.Logger
}

// New creates a JSON source that types cells against schema
func New(config Config, schema *dataset.Schema, logger *internal.Logger) *Source {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Source{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		tabulator:  datareadiness.NewTabulator(schema, coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())),
		logger:     logger.WithComponent("JSONSource"),
	}
}

// Name returns the configured location
func (s *Source) Name() string { return s.config.Location }

// Load fetches, flattens and types the records
func (s *Source) Load(ctx context.Context) (*dataset.Table, error) {
	grid, err := s.ReadGrid(ctx)
	if err != nil {
		return nil, err
	}
	return s.tabulator.Tabulate(grid)
}

// ReadGrid returns the records as a grid. Headers are the union of object
// keys in first-seen order; absent keys and JSON null become empty cells.
func (s *Source) ReadGrid(ctx context.Context) (*ingestion.RawGrid, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var records []gjson.Result
	if s.isNDJSON(body) {
		gjson.ForEachLine(string(body), func(line gjson.Result) bool {
			records = append(records, line)
			return true
		})
	} else {
		if !gjson.ValidBytes(body) {
			return nil, errors.Ingestion(fmt.Sprintf("invalid JSON in %s", s.config.Location))
		}
		data := gjson.ParseBytes(body)
		if s.config.DataPath != "" {
			data = data.Get(s.config.DataPath)
			if !data.Exists() {
				return nil, errors.Ingestion(fmt.Sprintf("data path '%s' not found in %s", s.config.DataPath, s.config.Location))
			}
		}
		switch {
		case data.IsArray():
			records = data.Array()
		case data.IsObject():
			records = []gjson.Result{data}
		default:
			return nil, errors.Ingestion(fmt.Sprintf("data path '%s' is not an array or object", s.config.DataPath))
		}
	}

	grid, err := toGrid(s.config.Location, records)
	if err != nil {
		return nil, err
	}
	s.logger.Info("JSON source processed (%d columns, %d rows)", len(grid.Headers), len(grid.Rows))
	return grid, nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	loc := s.config.Location
	if !strings.HasPrefix(loc, "http://") && !strings.HasPrefix(loc, "https://") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := os.ReadFile(loc)
		if err != nil {
			return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to read JSON file: %w", err))
		}
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	reqStart := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Ingestion(fmt.Sprintf("%s returned status %d", loc, resp.StatusCode))
	}
	s.logger.Debug("fetched %s in %s (%d bytes)", loc, time.Since(reqStart), len(body))
	return body, nil
}

// isNDJSON trusts the extension first, then falls back to sniffing for more
// than one top-level object
func (s *Source) isNDJSON(body []byte) bool {
	switch strings.ToLower(filepath.Ext(s.config.Location)) {
	case ".ndjson", ".jsonl":
		return true
	case ".json":
		return false
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{' && !gjson.ValidBytes(trimmed)
}

func toGrid(source string, records []gjson.Result) (*ingestion.RawGrid, error) {
	var headers []string
	index := make(map[string]int)
	for i, rec := range records {
		if !rec.IsObject() {
			return nil, errors.Ingestion(fmt.Sprintf("record %d in %s is not an object", i+1, source))
		}
		rec.ForEach(func(key, _ gjson.Result) bool {
			if _, ok := index[key.String()]; !ok {
				index[key.String()] = len(headers)
				headers = append(headers, key.String())
			}
			return true
		})
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(headers))
		rec.ForEach(func(key, value gjson.Result) bool {
			row[index[key.String()]] = cell(value)
			return true
		})
		rows[i] = row
	}
	return ingestion.NewRawGrid(source, headers, rows), nil
}

func cell(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.Number, gjson.JSON:
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	}
	return ""
}
