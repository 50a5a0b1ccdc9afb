// Package exporter persists assembled reports.
//
// Two ReportWriter implementations are provided:
//
// ExcelWriter: one workbook per report with one sheet per table. Undefined
// numbers (NaN) are written as empty cells and the KM/L column carries a
// two-decimal number format.
//
// CSVWriter: one directory per report holding a UTF-8 BOM csv per table,
// for spreadsheet software that should not need the xlsx reader.
//
// Example usage:
//
//	writers := exporter.ForFormat(config.FormatBoth, "/data/reports", logger)
//	for _, w := range writers {
//		path, err := w.Write(ctx, report)
//		...
//	}
package exporter
