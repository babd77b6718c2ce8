// Package sqldb loads dashboard tables from a SQL query.
package sqldb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hrdash/adapters/datareadiness"
	"hrdash/adapters/datareadiness/coercer"
	"hrdash/domain/datareadiness/ingestion"
	"hrdash/domain/dataset"
	"hrdash/internal"
	"hrdash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// DefaultQuery reads the whole employees table
const DefaultQuery = "SELECT * FROM employees"

// Source runs one query per load and treats the result set as the table
type Source struct {
	db        *sqlx.DB
	query     string
	name      string
	tabulator *datareadiness.Tabulator
	logger    *internal.Logger
}

// Connect opens and pings a database through sqlx. The driver must be
// registered by the caller (lib/pq for postgres).
func Connect(ctx context.Context, driver, url string) (*sqlx.DB, error) {
	if url == "" {
		return nil, errors.ConfigInvalid("DATA_SQL_URL is required for a SQL source")
	}
	db, err := sqlx.ConnectContext(ctx, driver, url)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to connect to database: %w", err))
	}
	return db, nil
}

// New creates a SQL source over an open connection. name identifies the
// source in snapshots and must not carry credentials.
func New(db *sqlx.DB, query, name string, schema *dataset.Schema, logger *internal.Logger) *Source {
	if query == "" {
		query = DefaultQuery
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Source{
		db:        db,
		query:     query,
		name:      name,
		tabulator: datareadiness.NewTabulator(schema, coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())),
		logger:    logger.WithComponent("SQLSource"),
	}
}

// Name returns the source label
func (s *Source) Name() string { return s.name }

// Load runs the query and types the rows
func (s *Source) Load(ctx context.Context) (*dataset.Table, error) {
	grid, err := s.ReadGrid(ctx)
	if err != nil {
		return nil, err
	}
	return s.tabulator.Tabulate(grid)
}

// ReadGrid runs the query and renders every cell as text
func (s *Source) ReadGrid(ctx context.Context) (*ingestion.RawGrid, error) {
	start := time.Now()
	rows, err := s.db.QueryxContext(ctx, s.query)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("query failed: %w", err))
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to read columns: %w", err))
	}

	var cells [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to scan row %d: %w", len(cells)+1, err))
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = text(v)
		}
		cells = append(cells, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("row iteration failed: %w", err))
	}

	s.logger.Info("query returned %d columns, %d rows in %s", len(headers), len(cells), time.Since(start))
	return ingestion.NewRawGrid(s.name, headers, cells), nil
}

func text(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
