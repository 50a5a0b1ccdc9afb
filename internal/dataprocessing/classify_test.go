package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fuelcli/pkg/contracts/domain"
)

func TestResolveCompany(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.Company
	}{
		{name: "ocean", in: "Ocean Transportes", want: domain.CompanyOcean},
		{name: "av09 lower case", in: "transp av09 ltda", want: domain.CompanyAV09},
		{name: "sulfoods", in: "SULFOODS ALIMENTOS", want: domain.CompanySulfoodsLegour},
		{name: "legour", in: "Legour Comercio", want: domain.CompanySulfoodsLegour},
		{name: "ocean wins over av09", in: "OCEAN AV09", want: domain.CompanyOcean},
		{name: "av09 wins over legour", in: "LEGOUR AV09", want: domain.CompanyAV09},
		{name: "unknown", in: "Frota Propria", want: domain.CompanyOther},
		{name: "empty", in: "", want: domain.CompanyOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCompany(tt.in))
		})
	}
}

func TestResolveFuelType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.FuelType
	}{
		{name: "diesel s10", in: "DIESEL S10", want: domain.FuelDiesel},
		{name: "diesel lower", in: "oleo diesel comum", want: domain.FuelDiesel},
		{name: "gasolina", in: "Gasolina Comum", want: domain.FuelGasoline},
		{name: "etanol counts as gasoline", in: "ETANOL", want: domain.FuelGasoline},
		{name: "english gasoline", in: "gasoline", want: domain.FuelGasoline},
		{name: "arla", in: "ARLA 32", want: domain.FuelArla},
		{name: "gnv", in: "GNV", want: domain.FuelOther},
		{name: "empty", in: "", want: domain.FuelOther},
		{name: "blank", in: "   ", want: domain.FuelOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFuelType(tt.in))
		})
	}
}

func TestClassificationIsTotal(t *testing.T) {
	companies := map[domain.Company]bool{}
	for _, c := range domain.Companies {
		companies[c] = true
	}
	fuels := map[domain.FuelType]bool{
		domain.FuelDiesel: true, domain.FuelGasoline: true, domain.FuelArla: true, domain.FuelOther: true,
	}

	for _, in := range []string{"", "x", "OCEAN", "ARLA", "diesel", "ÉTANOL", "1234", "SULFOODS LEGOUR OCEAN"} {
		assert.True(t, companies[ResolveCompany(in)], "company for %q", in)
		assert.True(t, fuels[ResolveFuelType(in)], "fuel for %q", in)
	}
}
