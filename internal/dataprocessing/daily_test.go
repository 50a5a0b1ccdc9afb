package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelcli/pkg/contracts/domain"
)

func withTrip(t *testing.T, r domain.TransactionRecord, distance, rate string) domain.TransactionRecord {
	t.Helper()
	r.Distance = num(t, distance)
	r.RatePerUnit = num(t, rate)
	return r
}

func TestDailySummary(t *testing.T) {
	records := []domain.TransactionRecord{
		withTrip(t, fuelRecord(t, "OCEAN", "ZZZ-0001", "DIESEL", "2024-01-02 18:00", "40", "200", ""), "300", "10"),
		withTrip(t, fuelRecord(t, "OCEAN", "AAA-0001", "DIESEL", "2024-01-02 07:00", "40", "100", ""), "400", "8"),
		withTrip(t, fuelRecord(t, "OCEAN", "AAA-0001", "DIESEL", "2024-01-02 15:00", "40", "50", ""), "200", "4"),
		withTrip(t, fuelRecord(t, "OCEAN", "AAA-0001", "DIESEL", "2024-01-01 10:00", "40", "70", ""), "", ""),
		fuelRecord(t, "OCEAN", "", "DIESEL", "2024-01-02 10:00", "40", "70", ""),
		fuelRecord(t, "OCEAN", "AAA-0001", "DIESEL", "", "40", "70", ""),
	}

	rows := DailySummary(records)
	require.Len(t, rows, 3)

	jan1 := rows[0]
	assert.True(t, jan1.Day.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "AAA-0001", jan1.Plate)
	assert.Equal(t, 1, jan1.Events)
	assert.Equal(t, 70.0, jan1.TotalAmount)
	assert.Equal(t, 0.0, jan1.EstimatedLiters)
	assert.True(t, math.IsNaN(jan1.MeanEfficiency))

	aaa := rows[1]
	assert.Equal(t, "AAA-0001", aaa.Plate)
	assert.Equal(t, 2, aaa.Events)
	assert.Equal(t, 150.0, aaa.TotalAmount)
	assert.Equal(t, 600.0, aaa.Distance)
	assert.Equal(t, 100.0, aaa.EstimatedLiters, "400/8 + 200/4")
	assert.InDelta(t, 6.0, aaa.MeanEfficiency, 1e-9)

	zzz := rows[2]
	assert.Equal(t, "ZZZ-0001", zzz.Plate)
	assert.Equal(t, 30.0, zzz.EstimatedLiters)
}
