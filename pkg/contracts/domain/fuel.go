package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is the operating company a fuel transaction is attributed to.
type Company string

const (
	CompanyOcean          Company = "OCEAN"
	CompanyAV09           Company = "AV09"
	CompanySulfoodsLegour Company = "SULFOODS + LEGOUR"
	CompanyOther          Company = "OUTROS"
)

// Companies lists every Company value in display order.
var Companies = []Company{CompanyAV09, CompanyOcean, CompanyOther, CompanySulfoodsLegour}

// FuelType is the classified kind of fuel of a transaction.
type FuelType string

const (
	FuelDiesel   FuelType = "DIESEL"
	FuelGasoline FuelType = "GASOLINA"
	FuelArla     FuelType = "ARLA"
	FuelOther    FuelType = "OUTROS"
)

// TransactionRecord is one canonical fuel event after normalization.
// Records are built once by the normalizer and treated as read-only afterwards.
type TransactionRecord struct {
	// TransactionID is informational only; it may repeat across sources.
	TransactionID      string              `json:"transaction_id"`
	SourceCompanyLabel string              `json:"source_company_label"`
	Company            Company             `json:"company"`
	Timestamp          *time.Time          `json:"timestamp,omitempty"`
	Period             Period              `json:"period"`
	Half               HalfMonth           `json:"half"`
	VehiclePlate       string              `json:"vehicle_plate"`
	FuelTypeRaw        string              `json:"fuel_type_raw"`
	FuelType           FuelType            `json:"fuel_type"`
	Liters             decimal.NullDecimal `json:"liters"`
	Amount             decimal.NullDecimal `json:"amount"`
	Odometer           decimal.NullDecimal `json:"odometer"`
	Distance           decimal.NullDecimal `json:"distance"`
	RatePerUnit        decimal.NullDecimal `json:"rate_per_unit"`

	// Source is the provenance tag of the originating file.
	Source string `json:"source"`

	// Fields holds the raw cell text keyed by normalized column name.
	Fields map[string]string `json:"fields,omitempty"`
}

// HasTimestamp reports whether the transaction date could be parsed.
func (r TransactionRecord) HasTimestamp() bool {
	return r.Timestamp != nil
}

// Bucketed reports whether the record was assigned a period bucket.
func (r TransactionRecord) Bucketed() bool {
	return r.Half != HalfNone
}

// Field returns the raw text of a column, or "" when the source had no such column.
func (r TransactionRecord) Field(column string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[column]
}

// EstimatedLiters is the rate-derived fuel quantity (distance / rate). It is a
// different quantity from the directly reported Liters and is never mixed with it.
func (r TransactionRecord) EstimatedLiters() decimal.NullDecimal {
	if !r.Distance.Valid || !r.RatePerUnit.Valid || r.RatePerUnit.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(r.Distance.Decimal.Div(r.RatePerUnit.Decimal))
}
