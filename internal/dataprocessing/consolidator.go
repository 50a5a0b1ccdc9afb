package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "fuelcli/internal/errors"
	"fuelcli/pkg/contracts/domain"
)

// Columns the fold adds on top of the raw columns of the last event.
const (
	ColEfficiency          = "KM/L"
	ColAccumulatedDistance = "KM RODADO ACUMULADO"
)

// efficiencyPlaces is the rounding applied to distance per liter.
const efficiencyPlaces = 2

// ConsolidatedRecord is the fold of all events of one (plate, raw fuel type)
// group up to the reference date.
type ConsolidatedRecord struct {
	VehiclePlate string
	FuelTypeRaw  string
	Events       int
	// TotalLiters sums the liters reported on the events that carry them.
	TotalLiters decimal.Decimal
	// Distance is last minus first odometer; negative values are kept as is.
	Distance decimal.NullDecimal
	// Efficiency is Distance / TotalLiters rounded to two places.
	Efficiency decimal.NullDecimal
	// Last is the most recent event of the group.
	Last domain.TransactionRecord
}

// ConsolidateStats counts what the fold skipped.
type ConsolidateStats struct {
	Eligible         int
	AfterReference   int
	Undated          int
	MissingKey       int
	Groups           int
	DegenerateGroups int
}

type vehicleFuel struct {
	plate string
	fuel  string
}

// Consolidator folds fuel-up events per vehicle and fuel type.
type Consolidator struct {
	logger *slog.Logger
}

// NewConsolidator creates a consolidator
func NewConsolidator(logger *slog.Logger) *Consolidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{logger: logger}
}

// Consolidate keeps dated records whose calendar date is not after
// referenceDate, groups them by trimmed (plate, raw fuel type) and folds
// every group with at least two events. Single-event groups are counted as
// degenerate and skipped. Output is ordered by plate then fuel type.
func (c *Consolidator) Consolidate(ctx context.Context, records []domain.TransactionRecord, referenceDate time.Time) ([]ConsolidatedRecord, ConsolidateStats, error) {
	var stats ConsolidateStats
	cutoff := calendarDay(referenceDate)

	groups := make(map[vehicleFuel][]domain.TransactionRecord)
	for _, r := range records {
		if r.Timestamp == nil {
			stats.Undated++
			continue
		}
		if calendarDay(*r.Timestamp).After(cutoff) {
			stats.AfterReference++
			continue
		}
		key := vehicleFuel{plate: strings.TrimSpace(r.VehiclePlate), fuel: strings.TrimSpace(r.FuelTypeRaw)}
		if key.plate == "" || key.fuel == "" {
			stats.MissingKey++
			continue
		}
		stats.Eligible++
		groups[key] = append(groups[key], r)
	}

	keys := make([]vehicleFuel, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].plate != keys[j].plate {
			return keys[i].plate < keys[j].plate
		}
		return keys[i].fuel < keys[j].fuel
	})

	out := make([]ConsolidatedRecord, 0, len(keys))
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		events := groups[k]
		if len(events) < 2 {
			stats.DegenerateGroups++
			c.logger.DebugContext(ctx, "single-event group skipped",
				slog.String("plate", k.plate),
				slog.String("fuel", k.fuel))
			continue
		}
		out = append(out, fold(k, events))
	}
	stats.Groups = len(out)

	c.logger.InfoContext(ctx, "consolidation complete",
		slog.String("reference_date", cutoff.Format("2006-01-02")),
		slog.Int("eligible_records", stats.Eligible),
		slog.Int("groups", stats.Groups),
		slog.Int("degenerate_groups", stats.DegenerateGroups),
		slog.Int("after_reference", stats.AfterReference))

	return out, stats, nil
}

func fold(key vehicleFuel, events []domain.TransactionRecord) ConsolidatedRecord {
	sorted := make([]domain.TransactionRecord, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(*sorted[j].Timestamp)
	})

	first, last := sorted[0], sorted[len(sorted)-1]

	total := decimal.Zero
	for _, e := range sorted {
		if e.Liters.Valid {
			total = total.Add(e.Liters.Decimal)
		}
	}

	rec := ConsolidatedRecord{
		VehiclePlate: key.plate,
		FuelTypeRaw:  key.fuel,
		Events:       len(sorted),
		TotalLiters:  total,
		Last:         last,
	}

	if first.Odometer.Valid && last.Odometer.Valid {
		rec.Distance = decimal.NewNullDecimal(last.Odometer.Decimal.Sub(first.Odometer.Decimal))
		if total.IsPositive() {
			rec.Efficiency = decimal.NewNullDecimal(rec.Distance.Decimal.Div(total).Round(efficiencyPlaces))
		}
	}
	return rec
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Project lays the consolidated records out in the template's column
// order. Each row offers the raw columns of the group's last event, with
// LITROS, KM/L and KM RODADO ACUMULADO replaced by the folded values.
// Template names are matched after header normalization and emitted as
// given. A template column no record can supply fails with a schema
// mismatch naming it.
func Project(records []ConsolidatedRecord, template []string, label string) (domain.Table, error) {
	if len(template) == 0 {
		return domain.Table{}, apperrors.NewSchemaMismatchError(nil).
			WithContext("reason", "template has no columns")
	}

	columns := make([]string, len(template))
	keys := make([]string, len(template))
	for i, name := range template {
		columns[i] = strings.TrimSpace(name)
		keys[i] = NormalizeHeader(name)
	}

	var missing []string
	for i, key := range keys {
		if !columnAvailable(records, key) {
			missing = append(missing, columns[i])
		}
	}
	if len(missing) > 0 {
		return domain.Table{}, apperrors.NewSchemaMismatchError(missing)
	}

	table := domain.Table{Label: label, Columns: columns, Rows: make([][]domain.Cell, 0, len(records))}
	for _, rec := range records {
		row := make([]domain.Cell, len(keys))
		for i, key := range keys {
			row[i] = rec.cell(key)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func columnAvailable(records []ConsolidatedRecord, key string) bool {
	switch key {
	case ColLiters, ColEfficiency, ColAccumulatedDistance:
		return true
	}
	if len(records) == 0 {
		// nothing to check against; accept the canonical columns only
		for _, c := range canonicalColumns {
			if c == key {
				return true
			}
		}
		return false
	}
	for _, rec := range records {
		if _, ok := rec.Last.Fields[key]; ok {
			return true
		}
	}
	return false
}

func (c ConsolidatedRecord) cell(key string) domain.Cell {
	switch key {
	case ColLiters:
		return domain.NumberCell(c.TotalLiters.InexactFloat64())
	case ColEfficiency:
		return nullNumberCell(c.Efficiency)
	case ColAccumulatedDistance:
		return nullNumberCell(c.Distance)
	}
	return recordCell(c.Last, key)
}

// recordCell renders one column of a record: parsed values for the canonical
// date and numeric columns, raw text otherwise.
func recordCell(r domain.TransactionRecord, key string) domain.Cell {
	switch key {
	case ColDate:
		if r.Timestamp != nil {
			return domain.TextCell(FormatTimestamp(*r.Timestamp))
		}
	case ColAmount:
		return nullNumberCell(r.Amount)
	case ColOdometer:
		return nullNumberCell(r.Odometer)
	case ColDistance:
		return nullNumberCell(r.Distance)
	case ColRate:
		return nullNumberCell(r.RatePerUnit)
	}
	raw := r.Field(key)
	if raw == "" {
		return domain.EmptyCell()
	}
	return domain.TextCell(raw)
}

func nullNumberCell(v decimal.NullDecimal) domain.Cell {
	if !v.Valid {
		return domain.EmptyCell()
	}
	return domain.NumberCell(v.Decimal.InexactFloat64())
}
