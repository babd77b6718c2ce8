package excel

import (
	"encoding/csv"
	"fmt"
	"os"

	"hrdash/domain/dataset"
	"hrdash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WriteTable writes t to path as CSV or XLSX, chosen like ResolveFormat.
// Nulls become empty cells, so a written table reads back equal.
func WriteTable(config ExcelConfig, t *dataset.Table) error {
	switch format := config.ResolveFormat(); format {
	case FormatCSV:
		return writeCSV(config.FilePath, t)
	case FormatXLSX:
		sheet := config.Sheet
		if sheet == "" {
			sheet = DefaultSheet
		}
		return writeXLSX(config.FilePath, sheet, t)
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unsupported file type: %s", format))
	}
}

func cellText(v dataset.Value) string {
	if v.Null {
		return ""
	}
	return v.Label()
}

func writeCSV(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Schema().Names()); err != nil {
		return err
	}
	width := t.Schema().Len()
	record := make([]string, width)
	for i := 0; i < t.Len(); i++ {
		for c := 0; c < width; c++ {
			record[c] = cellText(t.Value(i, c))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return f.Close()
}

func writeXLSX(path, sheet string, t *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}
	width := t.Schema().Len()
	header := make([]interface{}, width)
	for c, name := range t.Schema().Names() {
		header[c] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		row := make([]interface{}, width)
		for c := 0; c < width; c++ {
			v := t.Value(i, c)
			switch {
			case v.Null:
				row[c] = nil
			case t.Schema().Column(c).IsNumeric():
				row[c] = v.Num
			default:
				row[c] = v.Str
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
