package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"hrdash/domain/datareadiness/ingestion"
	"hrdash/internal"
	"hrdash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config ExcelConfig
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &DataReader{config: config, logger: logger.WithComponent("DataReader")}
}

// ReadGrid reads the header row and every data row as trimmed strings
func (r *DataReader) ReadGrid(ctx context.Context) (*ingestion.RawGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fileType := r.config.ResolveFormat()
	r.logger.Debug("Starting to read %s file: %s", fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, errors.Ingestion(fmt.Sprintf("%s file not found: %s", strings.ToUpper(fileType), r.config.FilePath))
	}

	var (
		rows [][]string
		err  error
	)
	switch fileType {
	case FormatCSV:
		rows, err = r.readCSVRows()
	case FormatXLSX:
		rows, err = r.readExcelRows()
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported file type: %s", fileType))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.Ingestion(fmt.Sprintf("%s file has no header row: %s", strings.ToUpper(fileType), r.config.FilePath))
	}
	// a UTF-8 BOM from spreadsheet exports would otherwise stick to the first header
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	grid := ingestion.NewRawGrid(r.config.FilePath, rows[0], rows[1:])
	r.logger.Info("%s file processed (%d columns, %d rows)", strings.ToUpper(fileType), len(grid.Headers), len(grid.Rows))
	return grid, nil
}

// readExcelRows reads the configured sheet, falling back to the first sheet
// when Sheet1 does not exist and no sheet was named
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()
	r.logger.Debug("Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheet, err := r.pickSheet(f.GetSheetList())
	if err != nil {
		return nil, err
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to read %s: %w", sheet, err))
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *DataReader) pickSheet(sheets []string) (string, error) {
	want := r.config.Sheet
	if want == "" {
		want = DefaultSheet
	}
	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}
	if r.config.Sheet == "" && len(sheets) > 0 {
		r.logger.Warn("%s not found, reading first sheet %q", DefaultSheet, sheets[0])
		return sheets[0], nil
	}
	return "", errors.Ingestion(fmt.Sprintf("sheet %q not found in %s", want, r.config.FilePath))
}

// readCSVRows reads CSV data, allowing ragged rows
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to open CSV file: %w", err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeIngestion, fmt.Errorf("failed to read CSV file: %w", err))
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}
