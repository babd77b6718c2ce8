package excel

import (
	"path/filepath"
	"strings"

	"hrdash/adapters/datareadiness/coercer"
)

// File formats the reader understands
const (
	FormatAuto = "auto"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// DefaultSheet is read when no sheet is configured
const DefaultSheet = "Sheet1"

// ExcelConfig holds configuration for a spreadsheet data source
type ExcelConfig struct {
	FilePath       string                 `json:"file_path"`
	Format         string                 `json:"format"` // auto, csv or xlsx
	Sheet          string                 `json:"sheet"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns sensible defaults for spreadsheet processing
func DefaultExcelConfig(path string) ExcelConfig {
	return ExcelConfig{
		FilePath:       path,
		Format:         FormatAuto,
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}

// ResolveFormat maps auto to csv or xlsx by extension
func (c ExcelConfig) ResolveFormat() string {
	format := strings.ToLower(strings.TrimSpace(c.Format))
	if format != "" && format != FormatAuto {
		return format
	}
	if strings.ToLower(filepath.Ext(c.FilePath)) == ".csv" {
		return FormatCSV
	}
	return FormatXLSX
}
