package excel

import (
	"context"

	"hrdash/adapters/datareadiness"
	"hrdash/adapters/datareadiness/coercer"
	"hrdash/domain/dataset"
	"hrdash/internal"
)

// FileSource loads a CSV or XLSX file as a dashboard table
type FileSource struct {
	reader    *DataReader
	tabulator *datareadiness.Tabulator
	path      string
}

// NewFileSource creates a file source that types cells against schema
func NewFileSource(config ExcelConfig, schema *dataset.Schema, logger *internal.Logger) *FileSource {
	return &FileSource{
		reader:    NewDataReader(config, logger),
		tabulator: datareadiness.NewTabulator(schema, coercer.NewTypeCoercer(config.CoercionConfig)),
		path:      config.FilePath,
	}
}

// Name returns the file path
func (s *FileSource) Name() string { return s.path }

// Load reads and types the file
func (s *FileSource) Load(ctx context.Context) (*dataset.Table, error) {
	grid, err := s.reader.ReadGrid(ctx)
	if err != nil {
		return nil, err
	}
	return s.tabulator.Tabulate(grid)
}
