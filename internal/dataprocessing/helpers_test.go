package dataprocessing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fuelcli/pkg/contracts/domain"
)

func num(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func at(t *testing.T, s string) *time.Time {
	t.Helper()
	if s == "" {
		return nil
	}
	ts, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", s, err)
	}
	return &ts
}

// fuelRecord builds a normalized record the way the normalizer would.
func fuelRecord(t *testing.T, company, plate, fuel, when, liters, amount, odometer string) domain.TransactionRecord {
	t.Helper()
	r := domain.TransactionRecord{
		SourceCompanyLabel: company,
		Company:            ResolveCompany(company),
		VehiclePlate:       plate,
		FuelTypeRaw:        fuel,
		FuelType:           ResolveFuelType(fuel),
		Timestamp:          at(t, when),
		Liters:             num(t, liters),
		Amount:             num(t, amount),
		Odometer:           num(t, odometer),
		Fields: map[string]string{
			ColCompanyName: company,
			ColPlate:       plate,
			ColFuelType:    fuel,
			ColDate:        when,
			ColLiters:      liters,
			ColAmount:      amount,
			ColOdometer:    odometer,
		},
	}
	r.Period, r.Half, _ = PeriodOf(r.Timestamp)
	return r
}
