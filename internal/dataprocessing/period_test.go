package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fuelcli/pkg/contracts/domain"
)

func TestPeriodOf(t *testing.T) {
	tests := []struct {
		name     string
		ts       *time.Time
		wantKey  string
		wantHalf domain.HalfMonth
		wantOK   bool
	}{
		{name: "first day", ts: at(t, "2024-01-01 00:00"), wantKey: "2024-01", wantHalf: domain.FirstHalf, wantOK: true},
		{name: "day 15 is first half", ts: at(t, "2024-02-15 23:59"), wantKey: "2024-02", wantHalf: domain.FirstHalf, wantOK: true},
		{name: "day 16 is second half", ts: at(t, "2024-02-16 00:00"), wantKey: "2024-02", wantHalf: domain.SecondHalf, wantOK: true},
		{name: "december", ts: at(t, "2023-12-31 12:00"), wantKey: "2023-12", wantHalf: domain.SecondHalf, wantOK: true},
		{name: "no timestamp", ts: nil, wantKey: "", wantHalf: domain.HalfNone, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, half, ok := PeriodOf(tt.ts)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, p.Key())
			assert.Equal(t, tt.wantHalf, half)
		})
	}
}

func TestPeriodKeyOrderIsChronological(t *testing.T) {
	keys := []string{
		domain.Period{Year: 2023, Month: time.December}.Key(),
		domain.Period{Year: 2024, Month: time.January}.Key(),
		domain.Period{Year: 2024, Month: time.October}.Key(),
	}
	assert.True(t, keys[0] < keys[1] && keys[1] < keys[2], "%v", keys)
}

func TestSplitByHalf(t *testing.T) {
	records := []domain.TransactionRecord{
		fuelRecord(t, "OCEAN", "AAA-1111", "DIESEL", "2024-01-03 08:00", "10", "50", ""),
		fuelRecord(t, "OCEAN", "AAA-1111", "DIESEL", "2024-01-15 08:00", "10", "50", ""),
		fuelRecord(t, "OCEAN", "AAA-1111", "DIESEL", "2024-01-16 08:00", "10", "50", ""),
		fuelRecord(t, "AV09", "BBB-2222", "ARLA", "2024-02-28 08:00", "5", "20", ""),
		fuelRecord(t, "AV09", "BBB-2222", "ARLA", "", "5", "20", ""),
	}

	first, second := SplitByHalf(records)
	assert.Len(t, first, 2)
	assert.Len(t, second, 2)

	bucketed := 0
	for _, r := range records {
		if r.Bucketed() {
			bucketed++
		}
	}
	assert.Equal(t, bucketed, len(first)+len(second), "halves cover every bucketed record exactly once")
	for _, r := range first {
		assert.LessOrEqual(t, r.Timestamp.Day(), 15)
	}
	for _, r := range second {
		assert.Greater(t, r.Timestamp.Day(), 15)
	}
}

func TestPresentCompanies(t *testing.T) {
	records := []domain.TransactionRecord{
		fuelRecord(t, "SULFOODS", "A", "DIESEL", "2024-01-03 08:00", "1", "1", ""),
		fuelRecord(t, "OCEAN", "B", "DIESEL", "2024-01-03 08:00", "1", "1", ""),
		fuelRecord(t, "OCEAN", "C", "DIESEL", "2024-01-03 08:00", "1", "1", ""),
	}

	assert.Equal(t, []domain.Company{domain.CompanyOcean, domain.CompanySulfoodsLegour}, PresentCompanies(records))
	assert.Len(t, FilterCompany(records, domain.CompanyOcean), 2)
	assert.Empty(t, FilterCompany(records, domain.CompanyAV09))
}
