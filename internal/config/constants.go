package config

import "time"

// Application constants for the fuel reporting tools
const (
	// Application Info
	AppName    = "Fuel Report"
	AppVersion = "1.0.0"

	// Environment
	EnvPrefix = "FUEL"
	EnvFile   = ".env"

	// File Paths (relative to executable)
	DefaultSourcesDir  = "data/abastecimentos"
	DefaultLogsDir     = "logs"
	DefaultLogFile     = "logs/fuelcli.log"
	DefaultTemplate    = "modelo a ser seguido.xlsx"
	DefaultMetricsFile = "logs/fuelcli.prom"
	DefaultTraceFile   = "logs/traces.json"

	// Report file names
	MonthlyReportName      = "RELATORIO_COMBUSTIVEL_MENSAL"
	ConsumptionReportName  = "Relatorio_Consumo_Acumulado"
	ConsumptionDateFormat  = "20060102"
	ConsumptionSheetFormat = "02-01"

	// Output formats
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatBoth = "both"

	// Tracing exporters
	TracingNone   = "none"
	TracingStdout = "stdout"
	TracingFile   = "file"

	// ReferenceDateLayout is the layout accepted for pipeline.reference_date.
	ReferenceDateLayout = "2006-01-02"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Operation Timeouts
	DefaultRunTimeout = 15 * time.Minute
)

// Output file prefixes that are never treated as sources.
var GeneratedReportPrefixes = []string{"Relatorio_", "RELATORIO_"}

// Source file extensions accepted by discovery.
var SourceExtensions = []string{".xlsx", ".xls", ".csv"}
