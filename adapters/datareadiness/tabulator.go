// Package datareadiness turns raw source grids into typed dashboard tables.
package datareadiness

import (
	"fmt"
	"strings"

	"hrdash/adapters/datareadiness/coercer"
	"hrdash/domain/datareadiness/ingestion"
	"hrdash/domain/dataset"
	"hrdash/internal/errors"
)

// Tabulator types a RawGrid against a declared schema. Declared columns keep
// their declared kind; headers the schema does not name are inferred.
type Tabulator struct {
	schema  *dataset.Schema
	coercer *coercer.TypeCoercer
}

// NewTabulator creates a tabulator. A nil schema infers every column.
func NewTabulator(schema *dataset.Schema, c *coercer.TypeCoercer) *Tabulator {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &Tabulator{schema: schema, coercer: c}
}

// Tabulate builds the table. Output columns are the declared ones in schema
// order followed by extra headers in grid order. Blank headers are dropped.
func (t *Tabulator) Tabulate(grid *ingestion.RawGrid) (*dataset.Table, error) {
	position := make(map[string]int, len(grid.Headers))
	for j, h := range grid.Headers {
		if h == "" {
			continue
		}
		if _, dup := position[h]; dup {
			return nil, t.fail(grid, ingestion.IngestionError{
				Field: h, ErrorType: ingestion.ErrorTypeDuplicate, Message: "header appears more than once",
			})
		}
		position[h] = j
	}

	var (
		columns []dataset.Column
		sources []int
		missing []string
	)
	declared := make(map[string]bool)
	if t.schema != nil {
		for _, col := range t.schema.Columns() {
			declared[col.Name] = true
			j, ok := position[col.Name]
			if !ok {
				missing = append(missing, col.Name)
				continue
			}
			columns = append(columns, col)
			sources = append(sources, j)
		}
	}
	if len(missing) > 0 {
		return nil, t.fail(grid, ingestion.IngestionError{
			Field:     strings.Join(missing, ", "),
			ErrorType: ingestion.ErrorTypeMissingColumn,
			Message:   "declared column not present in source",
		})
	}
	for j, h := range grid.Headers {
		if h == "" || declared[h] || position[h] != j {
			continue
		}
		columns = append(columns, t.coercer.InferColumn(h, grid.Column(h)))
		sources = append(sources, j)
	}

	schema, err := dataset.NewSchema(columns...)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, err)
	}

	rows := make([][]dataset.Value, len(grid.Rows))
	for i, raw := range grid.Rows {
		row := make([]dataset.Value, len(columns))
		for c, col := range columns {
			cell := raw[sources[c]]
			v, ok := t.value(col, cell)
			if !ok {
				return nil, t.fail(grid, ingestion.IngestionError{
					RowIndex:  i + 1,
					Field:     col.Name,
					Value:     cell,
					ErrorType: ingestion.ErrorTypeUnparsable,
					Message:   "not a number",
				})
			}
			row[c] = v
		}
		rows[i] = row
	}

	table, err := dataset.New(schema, rows)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, err)
	}
	return table, nil
}

func (t *Tabulator) value(col dataset.Column, cell string) (dataset.Value, bool) {
	if cell == "" {
		return dataset.NullValue(), true
	}
	if !col.IsNumeric() {
		return dataset.Text(cell), true
	}
	n, ok := t.coercer.ParseNumber(cell)
	if !ok {
		return dataset.Value{}, false
	}
	return dataset.Number(n), true
}

func (t *Tabulator) fail(grid *ingestion.RawGrid, cause ingestion.IngestionError) error {
	return &errors.AppError{
		Code:    errors.CodeIngestion,
		Message: fmt.Sprintf("failed to load %s", grid.Source),
		Cause:   cause,
	}
}
