package dataprocessing

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fuelcli/pkg/contracts/domain"
)

// DailyRow summarizes one vehicle on one calendar day.
type DailyRow struct {
	Day         time.Time
	Plate       string
	TotalAmount float64
	Distance    float64
	// EstimatedLiters sums distance / rate per event; it is not the reported LITROS.
	EstimatedLiters float64
	// MeanEfficiency averages distance / estimated liters over the events
	// where both are known; NaN when none is.
	MeanEfficiency float64
	Events         int
}

type dayPlate struct {
	day   time.Time
	plate string
}

type dailyTotals struct {
	events     int
	amount     decimal.Decimal
	distance   decimal.Decimal
	estimated  decimal.Decimal
	effSum     decimal.Decimal
	effSamples int64
}

// DailySummary groups dated records with a plate by (calendar day, plate),
// ordered by day then plate.
func DailySummary(records []domain.TransactionRecord) []DailyRow {
	totals := make(map[dayPlate]*dailyTotals)
	for _, r := range records {
		plate := strings.TrimSpace(r.VehiclePlate)
		if r.Timestamp == nil || plate == "" {
			continue
		}
		k := dayPlate{day: calendarDay(*r.Timestamp), plate: plate}
		t := totals[k]
		if t == nil {
			t = &dailyTotals{}
			totals[k] = t
		}

		t.events++
		if r.Amount.Valid {
			t.amount = t.amount.Add(r.Amount.Decimal)
		}
		if r.Distance.Valid {
			t.distance = t.distance.Add(r.Distance.Decimal)
		}
		if est := r.EstimatedLiters(); est.Valid {
			t.estimated = t.estimated.Add(est.Decimal)
			if !est.Decimal.IsZero() {
				t.effSum = t.effSum.Add(r.Distance.Decimal.Div(est.Decimal))
				t.effSamples++
			}
		}
	}

	keys := make([]dayPlate, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].day.Equal(keys[j].day) {
			return keys[i].day.Before(keys[j].day)
		}
		return keys[i].plate < keys[j].plate
	})

	rows := make([]DailyRow, 0, len(keys))
	for _, k := range keys {
		t := totals[k]
		mean := math.NaN()
		if t.effSamples > 0 {
			mean = t.effSum.Div(decimal.NewFromInt(t.effSamples)).InexactFloat64()
		}
		rows = append(rows, DailyRow{
			Day:             k.day,
			Plate:           k.plate,
			TotalAmount:     t.amount.InexactFloat64(),
			Distance:        t.distance.InexactFloat64(),
			EstimatedLiters: t.estimated.InexactFloat64(),
			MeanEfficiency:  mean,
			Events:          t.events,
		})
	}
	return rows
}
