package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	apperrors "fuelcli/internal/errors"
	"fuelcli/pkg/contracts/domain"
)

// Excel limits sheet names to 31 characters and forbids a few symbols.
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")")

// Built-in number format 2 is "0.00".
const twoDecimalsNumFmt = 2

// TwoDecimalColumns are rendered with two decimals wherever they appear.
var TwoDecimalColumns = []string{"KM/L"}

// ExcelWriter writes a report as one workbook with a sheet per table.
type ExcelWriter struct {
	dir    string
	logger *slog.Logger
}

// NewExcelWriter creates a writer that saves workbooks into dir.
func NewExcelWriter(dir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{dir: dir, logger: logger}
}

// Write saves <dir>/<report name>.xlsx, replacing an existing file, and
// returns its path.
func (w *ExcelWriter) Write(ctx context.Context, report domain.Report) (string, error) {
	if len(report.Tables) == 0 {
		return "", apperrors.NewStorageError("report has no tables", nil).
			WithContext("report", report.Name)
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err).
			WithContext("path", w.dir)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", apperrors.NewStorageError("failed to create header style", err)
	}
	decimalStyle, err := f.NewStyle(&excelize.Style{NumFmt: twoDecimalsNumFmt})
	if err != nil {
		return "", apperrors.NewStorageError("failed to create number style", err)
	}

	defaultSheet := f.GetSheetName(0)
	used := make(map[string]bool)
	for i, table := range report.Tables {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		sheet := uniqueSheetName(table.Label, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return "", apperrors.NewStorageError("failed to name sheet", err).WithContext("sheet", sheet)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return "", apperrors.NewStorageError("failed to add sheet", err).WithContext("sheet", sheet)
		}

		if err := writeTable(f, sheet, table, headerStyle, decimalStyle); err != nil {
			return "", apperrors.NewStorageError("failed to write table", err).WithContext("table", table.Label)
		}
	}
	f.SetActiveSheet(0)

	path := filepath.Join(w.dir, report.Name+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(report.Tables)))
	return path, nil
}

func writeTable(f *excelize.File, sheet string, table domain.Table, headerStyle, decimalStyle int) error {
	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if len(table.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cellValue(cell)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	for _, name := range TwoDecimalColumns {
		col := table.ColumnIndex(name)
		if col < 0 || len(table.Rows) == 0 {
			continue
		}
		from, _ := excelize.CoordinatesToCellName(col+1, 2)
		to, _ := excelize.CoordinatesToCellName(col+1, len(table.Rows)+1)
		if err := f.SetCellStyle(sheet, from, to, decimalStyle); err != nil {
			return err
		}
	}
	return nil
}

// cellValue maps a cell to what excelize should store. NaN has no
// representation in a numeric cell and is left empty.
func cellValue(c domain.Cell) interface{} {
	switch c.Kind {
	case domain.CellText:
		return c.Text
	case domain.CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return nil
		}
		return c.Number
	default:
		return nil
	}
}

func uniqueSheetName(label string, used map[string]bool) string {
	base := strings.TrimSpace(sheetNameReplacer.Replace(label))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Sheet"
	}
	base = truncateRunes(base, maxSheetName)

	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
