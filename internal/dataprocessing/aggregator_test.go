package dataprocessing

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelcli/pkg/contracts/domain"
)

func monthOf(t *testing.T, company, month string, n int, amount, liters string) []domain.TransactionRecord {
	t.Helper()
	out := make([]domain.TransactionRecord, 0, n)
	for i := 0; i < n; i++ {
		day := fmt.Sprintf("%s-%02d 09:00", month, i%28+1)
		out = append(out, fuelRecord(t, company, "ABC-1234", "DIESEL S10", day, liters, amount, ""))
	}
	return out
}

func TestAggregator_MonthlyDeltaRows(t *testing.T) {
	var records []domain.TransactionRecord
	records = append(records, monthOf(t, "OCEAN", "2024-02", 15, "100", "10")...)
	records = append(records, monthOf(t, "OCEAN", "2024-01", 10, "100", "10")...)

	rows := NewAggregator().Monthly(records)
	require.Len(t, rows, 4)

	assert.Equal(t, "2024-01", rows[0].Label())
	assert.Equal(t, 10.0, rows[0].Measures.Transactions)
	assert.Equal(t, 1000.0, rows[0].Measures.TotalAmount)
	assert.Equal(t, 100.0, rows[0].Measures.Diesel)

	assert.Equal(t, "2024-02", rows[1].Label())
	assert.Equal(t, 15.0, rows[1].Measures.Transactions)
	assert.Equal(t, 1500.0, rows[1].Measures.TotalAmount)

	diff := rows[2]
	assert.Equal(t, RowDifference, diff.Kind)
	assert.Equal(t, DifferenceLabel, diff.Label())
	assert.Equal(t, 5.0, diff.Measures.Transactions)
	assert.Equal(t, 500.0, diff.Measures.TotalAmount)
	assert.Equal(t, 50.0, diff.Measures.Diesel)
	assert.Equal(t, 0.0, diff.Measures.Gasoline)

	pct := rows[3]
	assert.Equal(t, RowPercent, pct.Kind)
	assert.Equal(t, PercentLabel, pct.Label())
	assert.Equal(t, 50.0, pct.Measures.Transactions)
	assert.Equal(t, 50.0, pct.Measures.TotalAmount)
	assert.Equal(t, 50.0, pct.Measures.Diesel)
	assert.True(t, math.IsNaN(pct.Measures.Gasoline), "zero previous value gives NaN")
	assert.True(t, math.IsNaN(pct.Measures.Arla))
}

func TestAggregator_SingleBucketHasNoDeltaRows(t *testing.T) {
	rows := NewAggregator().Monthly(monthOf(t, "AV09", "2024-03", 3, "50", "5"))
	require.Len(t, rows, 1)
	assert.Equal(t, RowBucket, rows[0].Kind)
	assert.Equal(t, 3.0, rows[0].Measures.Transactions)
}

func TestAggregator_OtherFuelCountsButHasNoLiters(t *testing.T) {
	records := []domain.TransactionRecord{
		fuelRecord(t, "OCEAN", "AAA-1111", "GNV", "2024-01-05 10:00", "30", "120", ""),
		fuelRecord(t, "OCEAN", "AAA-1111", "GASOLINA COMUM", "2024-01-06 10:00", "20", "110", ""),
		fuelRecord(t, "OCEAN", "AAA-1111", "ARLA 32", "2024-01-07 10:00", "", "40", ""),
		fuelRecord(t, "OCEAN", "AAA-1111", "DIESEL", "", "99", "99", ""),
	}

	rows := NewAggregator().Monthly(records)
	require.Len(t, rows, 1)
	m := rows[0].Measures
	assert.Equal(t, 3.0, m.Transactions)
	assert.Equal(t, 270.0, m.TotalAmount)
	assert.Equal(t, 0.0, m.Diesel)
	assert.Equal(t, 20.0, m.Gasoline)
	assert.Equal(t, 0.0, m.Arla)
}

func TestAggregator_NoRecords(t *testing.T) {
	assert.Empty(t, NewAggregator().Monthly(nil))
	assert.Empty(t, NewAggregator().ByCompany(nil))
}

func TestAggregator_ByCompany(t *testing.T) {
	var records []domain.TransactionRecord
	records = append(records, monthOf(t, "SULFOODS", "2024-01", 2, "10", "1")...)
	records = append(records, monthOf(t, "OCEAN", "2024-02", 1, "10", "1")...)
	records = append(records, monthOf(t, "OCEAN", "2024-01", 4, "10", "1")...)
	records = append(records, monthOf(t, "AV09", "2024-02", 3, "10", "1")...)

	rows := NewAggregator().ByCompany(records)
	require.Len(t, rows, 4)

	type key struct {
		company domain.Company
		period  string
		count   float64
	}
	var got []key
	for _, r := range rows {
		assert.Equal(t, RowBucket, r.Kind)
		got = append(got, key{r.Company, r.Key, r.Measures.Transactions})
	}
	assert.Equal(t, []key{
		{domain.CompanyAV09, "2024-02", 3},
		{domain.CompanyOcean, "2024-01", 4},
		{domain.CompanyOcean, "2024-02", 1},
		{domain.CompanySulfoodsLegour, "2024-01", 2},
	}, got)
}

func TestAggregator_Idempotent(t *testing.T) {
	var records []domain.TransactionRecord
	records = append(records, monthOf(t, "OCEAN", "2024-01", 7, "33.33", "3.3")...)
	records = append(records, monthOf(t, "OCEAN", "2024-02", 9, "12.07", "1.1")...)

	first := NewAggregator().Monthly(records)
	second := NewAggregator().Monthly(records)
	assert.Equal(t, fmt.Sprint(first), fmt.Sprint(second))
}
