package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelcli/pkg/contracts/domain"
)

var sourceHeader = []string{
	"CODIGO TRANSACAO", " Nome Reduzido ", "DATA TRANSACAO", "PLACA", "TIPO COMBUSTIVEL",
	"LITROS", "VALOR EMISSAO", "HODOMETRO OU HORIMETRO", "KM RODADOS OU HORAS TRABALHADAS",
	"KM/LITRO OU LITROS/HORA", "MOTORISTA",
}

func TestNormalizer_Normalize(t *testing.T) {
	tables := []RawTable{
		{
			Source: "ocean",
			Header: sourceHeader,
			Rows: [][]string{
				{"1", "OCEAN LOG", "45306.4166666667", " ABC-1234 ", "DIESEL S10", "40", "240,50", "10000", "400", "10", "JOAO"},
				{"", "", "", "", "", "", "", "", "", "", ""},
				{"2", "OCEAN LOG", "ontem", "ABC-1234", "DIESEL S10", "abc", "100", "", "", "", "JOAO"},
			},
		},
		{
			Source: "av09_jan",
			Header: []string{"PLACA", "LITROS", "DATA TRANSACAO", "TIPO COMBUSTIVEL"},
			Rows: [][]string{
				{"XYZ-9876", "12.5", "20/01/2024", "ARLA 32"},
				{"XYZ-9876"},
			},
		},
	}
	original := tables[0].Rows[0][3]

	result, err := NewNormalizer(nil).Normalize(context.Background(), tables)
	require.NoError(t, err)
	require.Len(t, result.Records, 4, "blank rows are dropped")

	first := result.Records[0]
	assert.Equal(t, "1", first.TransactionID)
	assert.Equal(t, "OCEAN LOG", first.SourceCompanyLabel)
	assert.Equal(t, domain.CompanyOcean, first.Company)
	assert.Equal(t, "ABC-1234", first.VehiclePlate)
	assert.Equal(t, domain.FuelDiesel, first.FuelType)
	assert.Equal(t, "DIESEL S10", first.FuelTypeRaw)
	require.NotNil(t, first.Timestamp)
	assert.Equal(t, "2024-01", first.Period.Key())
	assert.Equal(t, domain.FirstHalf, first.Half)
	assert.Equal(t, "40", first.Liters.Decimal.String())
	assert.Equal(t, "240.5", first.Amount.Decimal.String())
	assert.Equal(t, "JOAO", first.Field("MOTORISTA"))
	assert.Equal(t, "ocean", first.Source)
	assert.Equal(t, "40", first.EstimatedLiters().Decimal.String())

	second := result.Records[1]
	assert.Nil(t, second.Timestamp)
	assert.False(t, second.Bucketed())
	assert.False(t, second.Liters.Valid)
	assert.True(t, second.Amount.Valid)

	// Without a company column the label is blank, whatever the file is called.
	third := result.Records[2]
	assert.Equal(t, "", third.SourceCompanyLabel)
	assert.Equal(t, domain.CompanyOther, third.Company)
	assert.Equal(t, domain.FuelArla, third.FuelType)
	assert.Equal(t, domain.SecondHalf, third.Half)

	short := result.Records[3]
	assert.False(t, short.Liters.Valid)
	assert.Nil(t, short.Timestamp)

	assert.Equal(t, 1, result.UnparseableDates)
	assert.Equal(t, 1, result.UnparseableNumbers)
	assert.Equal(t, 2, result.UnbucketedRecords)
	assert.Contains(t, result.MissingColumns["av09_jan"], ColOdometer)
	assert.NotContains(t, result.MissingColumns, "ocean")

	assert.Equal(t, original, tables[0].Rows[0][3], "input rows are not modified")
}

func TestNormalizer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNormalizer(nil).Normalize(ctx, []RawTable{{Source: "x", Header: sourceHeader}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizer_DuplicateHeaderFirstWins(t *testing.T) {
	result, err := NewNormalizer(nil).Normalize(context.Background(), []RawTable{{
		Source: "dup",
		Header: []string{"PLACA", "placa ", "LITROS"},
		Rows:   [][]string{{"AAA-0001", "ZZZ-9999", "3"}},
	}})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "AAA-0001", result.Records[0].VehiclePlate)
}

func TestNormalizer_BlankCompanyLabelIsOther(t *testing.T) {
	result, err := NewNormalizer(nil).Normalize(context.Background(), []RawTable{{
		Source: "OCEAN_JANEIRO",
		Header: sourceHeader,
		Rows: [][]string{
			{"1", "", "15/01/2024", "ABC-1234", "DIESEL", "40", "240", "10000", "", "", ""},
			{"2", "OCEAN LOG", "16/01/2024", "ABC-1234", "DIESEL", "45", "270", "10500", "", "", ""},
		},
	}})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, domain.CompanyOther, result.Records[0].Company)
	assert.Equal(t, "OCEAN_JANEIRO", result.Records[0].Source)
	assert.Equal(t, domain.CompanyOcean, result.Records[1].Company)
}

func TestNormalizer_DecimalCommaThousands(t *testing.T) {
	rows := [][]string{{"ABC-1234", "1.234", "5.000,50"}}
	header := []string{"PLACA", "LITROS", "VALOR EMISSAO"}

	result, err := NewNormalizer(nil).Normalize(context.Background(), []RawTable{
		{Source: "semicolon", Header: header, Rows: rows, DecimalComma: true},
		{Source: "plain", Header: header, Rows: rows},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "1234", result.Records[0].Liters.Decimal.String())
	assert.Equal(t, "5000.5", result.Records[0].Amount.Decimal.String())
	assert.Equal(t, "1.234", result.Records[1].Liters.Decimal.String())
	assert.Equal(t, "5000.5", result.Records[1].Amount.Decimal.String())
}
