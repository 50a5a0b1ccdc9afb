// Package dataprocessing turns fuel transaction spreadsheets into the
// numbers of the fuel reports.
//
// # Architecture
//
// The package is organized into the steps of a report run:
//
// 1. Reader: loads the header and rows of .xlsx, .xls and .csv sources
// 2. Normalizer: builds canonical TransactionRecords, classifying company and fuel
// 3. Period indexing: month bucket and half of month of each record
// 4. Aggregator: monthly and per-company totals with DIFERENÇA and % rows
// 5. Consolidator: per vehicle and fuel type fold of odometer and liters
// 6. DailySummary: per day and vehicle totals with rate-derived liters
//
// # Usage
//
//	reader := dataprocessing.NewSpreadsheetReader(logger)
//	table, err := reader.LoadTable(ctx, "planilhas/ocean.xlsx")
//
//	result, err := dataprocessing.NewNormalizer(logger).Normalize(ctx, []dataprocessing.RawTable{table})
//	monthly := dataprocessing.NewAggregator().Monthly(result.Records)
//
//	folded, stats, err := dataprocessing.NewConsolidator(logger).Consolidate(ctx, result.Records, refDate)
//	sheet, err := dataprocessing.Project(folded, templateColumns, "CONSOLIDADO")
//
// # Data Flow
//
//	Source files → Reader → RawTable → Normalizer → TransactionRecords → Aggregator / Consolidator → Tables
//
// # Error Handling
//
// Unreadable sources return recoverable SOURCE_READ errors so a run can
// continue with the remaining files. Unparseable dates and numbers never
// fail a run: they become absent values and are counted in NormalizeResult.
// Project is the only fatal path, returning SCHEMA_MISMATCH when the
// template names a column no consolidated record can supply.
//
// All sums are accumulated with shopspring/decimal and converted to float64
// once, so repeated runs over the same input render identical tables.
package dataprocessing
