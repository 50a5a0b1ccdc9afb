package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "fuelcli/internal/errors"
	"fuelcli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes every table of a report as its own csv file
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer rooted at dir
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write creates <dir>/<report name>/ and one NN_<label>.csv per table,
// numbered in report order. It returns the directory.
func (w *CSVWriter) Write(ctx context.Context, report domain.Report) (string, error) {
	outDir := filepath.Join(w.dir, report.Name)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create report directory", err).
			WithContext("path", outDir)
	}

	for i, table := range report.Tables {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		records := make([][]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			line := make([]string, len(row))
			for j, cell := range row {
				line[j] = formatCell(cell)
			}
			records = append(records, line)
		}

		name := fmt.Sprintf("%02d_%s.csv", i+1, fileSafe(table.Label))
		err := w.WriteCSV(ctx, filepath.Join(outDir, name), WriteOptions{
			Headers:   table.Columns,
			Records:   records,
			BOMPrefix: true,
		})
		if err != nil {
			return "", apperrors.NewStorageError("failed to write table", err).
				WithContext("table", table.Label)
		}
	}

	w.logger.InfoContext(ctx, "CSV report written",
		slog.String("path", outDir),
		slog.Int("tables", len(report.Tables)))
	return outDir, nil
}

// WriteCSV writes one csv file, replacing any previous content
func (w *CSVWriter) WriteCSV(ctx context.Context, filePath string, options WriteOptions) error {
	w.logger.DebugContext(ctx, "Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
