package dataprocessing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"fuelcli/pkg/contracts/domain"
)

// RowKind distinguishes bucket rows from the trailing delta rows.
type RowKind int

const (
	RowBucket RowKind = iota
	RowDifference
	RowPercent
)

// Labels of the delta rows as they appear in the bucket key column.
const (
	DifferenceLabel = "DIFERENÇA"
	PercentLabel    = "%"
)

// Measures are the aggregated values of one bucket (or one delta row).
type Measures struct {
	Transactions float64
	TotalAmount  float64
	Diesel       float64
	Gasoline     float64
	Arla         float64
}

// AggregateRow is one row of an aggregate table. Company is set only by ByCompany.
type AggregateRow struct {
	Kind     RowKind
	Key      string
	Company  domain.Company
	Measures Measures
}

// Label returns the text of the bucket column: the period key or the delta label.
func (r AggregateRow) Label() string {
	switch r.Kind {
	case RowDifference:
		return DifferenceLabel
	case RowPercent:
		return PercentLabel
	default:
		return r.Key
	}
}

// bucketTotals accumulates in decimal so repeated runs render identical values.
type bucketTotals struct {
	count    int64
	amount   decimal.Decimal
	diesel   decimal.Decimal
	gasoline decimal.Decimal
	arla     decimal.Decimal
}

func (b *bucketTotals) add(r domain.TransactionRecord) {
	b.count++
	if r.Amount.Valid {
		b.amount = b.amount.Add(r.Amount.Decimal)
	}
	if !r.Liters.Valid {
		return
	}
	switch r.FuelType {
	case domain.FuelDiesel:
		b.diesel = b.diesel.Add(r.Liters.Decimal)
	case domain.FuelGasoline:
		b.gasoline = b.gasoline.Add(r.Liters.Decimal)
	case domain.FuelArla:
		b.arla = b.arla.Add(r.Liters.Decimal)
	}
}

func (b *bucketTotals) values() [5]decimal.Decimal {
	return [5]decimal.Decimal{decimal.NewFromInt(b.count), b.amount, b.diesel, b.gasoline, b.arla}
}

func measuresOf(v [5]decimal.Decimal) Measures {
	return Measures{
		Transactions: v[0].InexactFloat64(),
		TotalAmount:  v[1].InexactFloat64(),
		Diesel:       v[2].InexactFloat64(),
		Gasoline:     v[3].InexactFloat64(),
		Arla:         v[4].InexactFloat64(),
	}
}

// Aggregator builds the period tables.
type Aggregator struct{}

// NewAggregator creates an aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Monthly groups the bucketed records by period key in ascending order.
// With two or more buckets it appends a DIFERENÇA row (last minus
// previous) and a % row (difference over previous times 100, NaN where the
// previous value is zero).
func (a *Aggregator) Monthly(records []domain.TransactionRecord) []AggregateRow {
	totals := make(map[string]*bucketTotals)
	for _, r := range records {
		if !r.Bucketed() {
			continue
		}
		key := r.Period.Key()
		if totals[key] == nil {
			totals[key] = &bucketTotals{}
		}
		totals[key].add(r)
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]AggregateRow, 0, len(keys)+2)
	for _, k := range keys {
		rows = append(rows, AggregateRow{Kind: RowBucket, Key: k, Measures: measuresOf(totals[k].values())})
	}

	if len(keys) >= 2 {
		last := totals[keys[len(keys)-1]].values()
		prev := totals[keys[len(keys)-2]].values()
		diff, pct := deltas(last, prev)
		rows = append(rows,
			AggregateRow{Kind: RowDifference, Measures: measuresOf(diff)},
			AggregateRow{Kind: RowPercent, Measures: pct},
		)
	}
	return rows
}

func deltas(last, prev [5]decimal.Decimal) ([5]decimal.Decimal, Measures) {
	var diff [5]decimal.Decimal
	var pct [5]float64
	hundred := decimal.NewFromInt(100)
	for i := range last {
		diff[i] = last[i].Sub(prev[i])
		if prev[i].IsZero() {
			pct[i] = math.NaN()
			continue
		}
		pct[i] = diff[i].Div(prev[i]).Mul(hundred).InexactFloat64()
	}
	return diff, Measures{
		Transactions: pct[0],
		TotalAmount:  pct[1],
		Diesel:       pct[2],
		Gasoline:     pct[3],
		Arla:         pct[4],
	}
}

type companyBucket struct {
	company domain.Company
	key     string
}

// ByCompany groups the bucketed records by (company, period key), ordered
// by company label then key. No delta rows are added.
func (a *Aggregator) ByCompany(records []domain.TransactionRecord) []AggregateRow {
	totals := make(map[companyBucket]*bucketTotals)
	for _, r := range records {
		if !r.Bucketed() {
			continue
		}
		k := companyBucket{company: r.Company, key: r.Period.Key()}
		if totals[k] == nil {
			totals[k] = &bucketTotals{}
		}
		totals[k].add(r)
	}

	keys := make([]companyBucket, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].company != keys[j].company {
			return keys[i].company < keys[j].company
		}
		return keys[i].key < keys[j].key
	})

	rows := make([]AggregateRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, AggregateRow{
			Kind:     RowBucket,
			Key:      k.key,
			Company:  k.company,
			Measures: measuresOf(totals[k].values()),
		})
	}
	return rows
}
