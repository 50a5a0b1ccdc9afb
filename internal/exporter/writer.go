package exporter

import (
	"context"
	"log/slog"

	"fuelcli/internal/config"
	"fuelcli/pkg/contracts/domain"
)

// ReportWriter persists a report and returns where it went.
type ReportWriter interface {
	Write(ctx context.Context, report domain.Report) (string, error)
}

// ForFormat returns the writers for an output format: xlsx, csv or both.
// Unknown formats fall back to xlsx.
func ForFormat(format, dir string, logger *slog.Logger) []ReportWriter {
	switch format {
	case config.FormatCSV:
		return []ReportWriter{NewCSVWriter(dir, logger)}
	case config.FormatBoth:
		return []ReportWriter{NewExcelWriter(dir, logger), NewCSVWriter(dir, logger)}
	default:
		return []ReportWriter{NewExcelWriter(dir, logger)}
	}
}
