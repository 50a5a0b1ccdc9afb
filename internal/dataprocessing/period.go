package dataprocessing

import (
	"time"

	"fuelcli/pkg/contracts/domain"
)

// halfMonthSplitDay is the last day of the first half of a month.
const halfMonthSplitDay = 15

// PeriodOf assigns the (year, month) bucket and the half of month of a
// timestamp. It returns false for a nil timestamp.
func PeriodOf(ts *time.Time) (domain.Period, domain.HalfMonth, bool) {
	if ts == nil {
		return domain.Period{}, domain.HalfNone, false
	}
	half := domain.FirstHalf
	if ts.Day() > halfMonthSplitDay {
		half = domain.SecondHalf
	}
	return domain.Period{Year: ts.Year(), Month: ts.Month()}, half, true
}

// SplitByHalf partitions the bucketed records by half of month. Records
// without a bucket are in neither slice.
func SplitByHalf(records []domain.TransactionRecord) (first, second []domain.TransactionRecord) {
	for _, r := range records {
		switch r.Half {
		case domain.FirstHalf:
			first = append(first, r)
		case domain.SecondHalf:
			second = append(second, r)
		}
	}
	return first, second
}

// FilterCompany returns the records attributed to company, in input order.
func FilterCompany(records []domain.TransactionRecord, company domain.Company) []domain.TransactionRecord {
	var out []domain.TransactionRecord
	for _, r := range records {
		if r.Company == company {
			out = append(out, r)
		}
	}
	return out
}

// PresentCompanies returns the companies that have at least one record, in
// domain.Companies order.
func PresentCompanies(records []domain.TransactionRecord) []domain.Company {
	seen := make(map[domain.Company]bool)
	for _, r := range records {
		seen[r.Company] = true
	}
	var out []domain.Company
	for _, c := range domain.Companies {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}
