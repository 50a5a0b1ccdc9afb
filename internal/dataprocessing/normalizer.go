package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"fuelcli/pkg/contracts/domain"
)

// RawTable is the header row and data rows of one source, as read.
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string
	// DecimalComma marks text cells written with pt-BR separators
	// (semicolon csv exports), where "1.234" means one thousand two hundred.
	DecimalComma bool
}

// NormalizeResult carries the canonical records of a run plus the anomalies
// absorbed while building them.
type NormalizeResult struct {
	Records            []domain.TransactionRecord
	UnparseableDates   int
	UnparseableNumbers int
	UnbucketedRecords  int
	// MissingColumns lists, per source, the canonical columns its header lacks.
	MissingColumns map[string][]string
}

var canonicalColumns = []string{
	ColTransactionID, ColCompanyName, ColDate, ColPlate, ColFuelType,
	ColLiters, ColAmount, ColOdometer, ColDistance, ColRate,
}

// Normalizer turns raw source tables into TransactionRecords.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize builds one record per non-empty data row of every table, in
// table then row order. Unparseable dates and numbers become absent values
// and are counted; the input tables are not modified.
func (n *Normalizer) Normalize(ctx context.Context, tables []RawTable) (NormalizeResult, error) {
	result := NormalizeResult{MissingColumns: make(map[string][]string)}

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		index := headerIndex(table.Header)
		var missing []string
		for _, col := range canonicalColumns {
			if _, ok := index[col]; !ok {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			result.MissingColumns[table.Source] = missing
			n.logger.WarnContext(ctx, "source lacks canonical columns",
				slog.String("source", table.Source),
				slog.Any("missing", missing))
		}

		before := len(result.Records)
		for _, row := range table.Rows {
			if blankRow(row) {
				continue
			}
			record := n.buildRecord(table, index, row, &result)
			result.Records = append(result.Records, record)
		}

		n.logger.DebugContext(ctx, "source normalized",
			slog.String("source", table.Source),
			slog.Int("records", len(result.Records)-before))
	}

	if result.UnparseableDates > 0 || result.UnparseableNumbers > 0 {
		n.logger.WarnContext(ctx, "unparseable fields absorbed",
			slog.Int("dates", result.UnparseableDates),
			slog.Int("numbers", result.UnparseableNumbers))
	}

	return result, nil
}

func (n *Normalizer) buildRecord(table RawTable, index map[string]int, row []string, result *NormalizeResult) domain.TransactionRecord {
	fields := make(map[string]string, len(index))
	for name, pos := range index {
		fields[name] = cellAt(row, pos)
	}

	companyLabel := strings.TrimSpace(fields[ColCompanyName])

	record := domain.TransactionRecord{
		TransactionID:      strings.TrimSpace(fields[ColTransactionID]),
		SourceCompanyLabel: companyLabel,
		Company:            ResolveCompany(companyLabel),
		VehiclePlate:       strings.TrimSpace(fields[ColPlate]),
		FuelTypeRaw:        strings.TrimSpace(fields[ColFuelType]),
		Source:             table.Source,
		Fields:             fields,
	}
	record.FuelType = ResolveFuelType(record.FuelTypeRaw)

	ts, ok := ParseTimestamp(fields[ColDate])
	if !ok {
		result.UnparseableDates++
	}
	record.Timestamp = ts
	record.Period, record.Half, _ = PeriodOf(ts)
	if !record.Bucketed() {
		result.UnbucketedRecords++
	}

	number := func(col string) decimal.NullDecimal {
		parse := ParseDecimal
		if table.DecimalComma {
			parse = ParseDecimalComma
		}
		v, ok := parse(fields[col])
		if !ok {
			result.UnparseableNumbers++
		}
		return v
	}
	record.Liters = number(ColLiters)
	record.Amount = number(ColAmount)
	record.Odometer = number(ColOdometer)
	record.Distance = number(ColDistance)
	record.RatePerUnit = number(ColRate)

	return record
}

// headerIndex maps normalized column names to positions; the first
// occurrence of a repeated name wins.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func cellAt(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
