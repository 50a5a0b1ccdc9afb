package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	apperrors "fuelcli/internal/errors"
)

// SourceReader loads the header and data rows of one source, preserving row order.
type SourceReader interface {
	LoadTable(ctx context.Context, source string) (RawTable, error)
}

// TemplateLoader returns the ordered column names of the consolidation template.
type TemplateLoader interface {
	LoadTemplateSchema(ctx context.Context, source string) ([]string, error)
}

// SpreadsheetReader reads .xlsx, legacy .xls and .csv files.
type SpreadsheetReader struct {
	logger *slog.Logger
}

// NewSpreadsheetReader creates a reader
func NewSpreadsheetReader(logger *slog.Logger) *SpreadsheetReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpreadsheetReader{logger: logger}
}

// LoadTable reads the first sheet holding data. The first non-blank row is
// the header. Any failure is a recoverable source read error.
func (r *SpreadsheetReader) LoadTable(ctx context.Context, source string) (RawTable, error) {
	name := filepath.Base(source)
	if err := ctx.Err(); err != nil {
		return RawTable{}, err
	}

	rows, decimalComma, err := r.readRows(source)
	if err != nil {
		return RawTable{}, apperrors.NewSourceReadError(name, err)
	}

	start := -1
	for i, row := range rows {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return RawTable{}, apperrors.NewSourceReadError(name, fmt.Errorf("no header row found"))
	}

	table := RawTable{
		Source: strings.TrimSuffix(name, filepath.Ext(name)),
		Header: rows[start],
		Rows:   rows[start+1:],

		DecimalComma: decimalComma,
	}

	r.logger.DebugContext(ctx, "source loaded",
		slog.String("source", name),
		slog.Int("columns", len(table.Header)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// LoadTemplateSchema returns the non-empty header cells of the template, in order.
func (r *SpreadsheetReader) LoadTemplateSchema(ctx context.Context, source string) ([]string, error) {
	table, err := r.LoadTable(ctx, source)
	if err != nil {
		return nil, err
	}

	var columns []string
	for _, h := range table.Header {
		if name := strings.TrimSpace(h); name != "" {
			columns = append(columns, name)
		}
	}
	return columns, nil
}

// readRows also reports whether text numbers use the comma as decimal
// separator. Workbook cells are read raw, so only csv can say yes.
func (r *SpreadsheetReader) readRows(source string) ([][]string, bool, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".xlsx", ".xlsm":
		rows, err := readXLSX(source)
		return rows, false, err
	case ".xls":
		rows, err := readXLS(source)
		return rows, false, err
	case ".csv":
		rows, comma, err := readCSV(source)
		return rows, comma == ';', err
	default:
		return nil, false, fmt.Errorf("unsupported file type %q", filepath.Ext(source))
	}
}

// readXLSX returns raw cell values so dates arrive as Excel serial numbers
// instead of locale-formatted text.
func readXLSX(source string) ([][]string, error) {
	f, err := excelize.OpenFile(source, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			if !blankRow(row) {
				return rows, nil
			}
		}
	}
	return nil, nil
}

func readXLS(source string) ([][]string, error) {
	book, err := xls.OpenFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy workbook: %w", err)
	}

	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("no sheets found")
	}

	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var row []string
		for _, col := range xlsRow.GetCols() {
			row = append(row, col.GetString())
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(source string) ([][]string, rune, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, 0, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, reader.Comma, nil
}

// sniffDelimiter picks ';' when the first line has more semicolons than
// commas, which is how spreadsheet software exports csv in pt-BR locales.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
