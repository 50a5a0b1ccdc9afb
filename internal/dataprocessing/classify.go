package dataprocessing

import (
	"strings"

	"fuelcli/pkg/contracts/domain"
)

// rule maps upper-cased text to a result. Rule tables are evaluated in
// order and the first match wins.
type rule[T any] struct {
	match  func(upper string) bool
	result T
}

func containsAny(needles ...string) func(string) bool {
	return func(upper string) bool {
		for _, n := range needles {
			if strings.Contains(upper, n) {
				return true
			}
		}
		return false
	}
}

var companyRules = []rule[domain.Company]{
	{match: containsAny("OCEAN"), result: domain.CompanyOcean},
	{match: containsAny("AV09"), result: domain.CompanyAV09},
	{match: containsAny("SULFOODS", "LEGOUR"), result: domain.CompanySulfoodsLegour},
}

var fuelRules = []rule[domain.FuelType]{
	{match: containsAny("DIESEL"), result: domain.FuelDiesel},
	{match: containsAny("GASOLINA", "GASOLINE", "ETANOL", "ETHANOL"), result: domain.FuelGasoline},
	{match: containsAny("ARLA"), result: domain.FuelArla},
}

func firstMatch[T any](rules []rule[T], text string, fallback T) T {
	upper := strings.ToUpper(text)
	for _, r := range rules {
		if r.match(upper) {
			return r.result
		}
	}
	return fallback
}

// ResolveCompany classifies a free-text company name. It is total:
// anything unrecognized is CompanyOther.
func ResolveCompany(name string) domain.Company {
	return firstMatch(companyRules, name, domain.CompanyOther)
}

// ResolveFuelType classifies a free-text fuel description. Empty or
// unrecognized text is FuelOther.
func ResolveFuelType(text string) domain.FuelType {
	if strings.TrimSpace(text) == "" {
		return domain.FuelOther
	}
	return firstMatch(fuelRules, text, domain.FuelOther)
}
