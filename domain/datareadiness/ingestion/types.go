package ingestion

import (
	"fmt"
	"strings"
)

// RawGrid is the untyped shape every source reduces to before tabulation:
// a header row plus string cells. An empty cell is a missing value.
type RawGrid struct {
	Source  string     `json:"source"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// NewRawGrid trims headers and pads or truncates every row to the header width
func NewRawGrid(source string, headers []string, rows [][]string) *RawGrid {
	clean := make([]string, len(headers))
	for i, h := range headers {
		clean[i] = strings.TrimSpace(h)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(clean))
		for j := 0; j < len(clean) && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		out[i] = cells
	}
	return &RawGrid{Source: source, Headers: clean, Rows: out}
}

// Column returns all cells of header, or nil when the header is absent
func (g *RawGrid) Column(header string) []string {
	for j, h := range g.Headers {
		if h == header {
			col := make([]string, len(g.Rows))
			for i, row := range g.Rows {
				col[i] = row[j]
			}
			return col
		}
	}
	return nil
}

// ValueType is the storage type a column of raw cells coerces to
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeMissing ValueType = "missing"
)

// IngestionError represents a normalization failure
type IngestionError struct {
	RowIndex  int    `json:"row_index"` // 1-based data row, header excluded
	Field     string `json:"field"`
	Value     string `json:"value"`
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

func (e IngestionError) Error() string {
	if e.RowIndex > 0 {
		return fmt.Sprintf("row %d, column %q: %s (value %q)", e.RowIndex, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("column %q: %s", e.Field, e.Message)
}

// Error types
const (
	ErrorTypeMissingColumn = "missing_column"
	ErrorTypeUnparsable    = "unparsable"
	ErrorTypeDuplicate     = "duplicate_header"
)
