package operations

import (
	"fuelcli/internal/dataprocessing"
	"fuelcli/pkg/contracts/domain"
)

// Table labels, used as sheet names in the workbook.
const (
	LabelMonthly          = "ANÁLISE MENSAL - COMBUSTÍVEL"
	LabelMonthlyFirst     = "ANÁLISE 1ª QUINZENA"
	LabelMonthlySecond    = "ANÁLISE 2ª QUINZENA"
	LabelCompanySummary   = "RESUMO GERAL"
	LabelCompanyFirst     = "1ª QUINZENA"
	LabelCompanySecond    = "2ª QUINZENA"
	LabelDaily            = "RESUMO DIÁRIO"
	LabelConsolidated     = "CONSOLIDADO"
	consumptionLabelStart = "Consolidado "
)

// Column sets of the generated tables.
var (
	MonthlyColumns = []string{
		"MES_ANO", "QTD_TRANSACOES", "TOTAL_VALOR", "TOTAL_DIESEL", "TOTAL_GASOLINA", "TOTAL_ARLA",
	}
	CompanyColumns = []string{
		"EMPRESA", "MES_ANO", "TOTAL_REAIS", "DIESEL", "GASOLINA", "ARLA", "TRANSACOES",
	}
	ListingColumns = []string{
		dataprocessing.ColDate, "MES_ANO", dataprocessing.ColPlate, dataprocessing.ColFuelType,
		dataprocessing.ColLiters, dataprocessing.ColAmount,
	}
	DailyColumns = []string{
		"DIA", "PLACA", "TOTAL_REAIS", "KM_RODADOS", "LITROS_ESTIMADO", "MEDIA_KM_L", "ABASTECIMENTOS",
	}
)

// dayLayout renders the DIA column.
const dayLayout = "02/01/2006"

// MonthlyTable lays out Aggregator.Monthly rows, delta rows included.
func MonthlyTable(label string, rows []dataprocessing.AggregateRow) domain.Table {
	table := domain.Table{Label: label, Columns: MonthlyColumns, Rows: make([][]domain.Cell, 0, len(rows))}
	for _, r := range rows {
		m := r.Measures
		table.Rows = append(table.Rows, []domain.Cell{
			domain.TextCell(r.Label()),
			domain.NumberCell(m.Transactions),
			domain.NumberCell(m.TotalAmount),
			domain.NumberCell(m.Diesel),
			domain.NumberCell(m.Gasoline),
			domain.NumberCell(m.Arla),
		})
	}
	return table
}

// CompanyTable lays out Aggregator.ByCompany rows.
func CompanyTable(label string, rows []dataprocessing.AggregateRow) domain.Table {
	table := domain.Table{Label: label, Columns: CompanyColumns, Rows: make([][]domain.Cell, 0, len(rows))}
	for _, r := range rows {
		m := r.Measures
		table.Rows = append(table.Rows, []domain.Cell{
			domain.TextCell(string(r.Company)),
			domain.TextCell(r.Label()),
			domain.NumberCell(m.TotalAmount),
			domain.NumberCell(m.Diesel),
			domain.NumberCell(m.Gasoline),
			domain.NumberCell(m.Arla),
			domain.NumberCell(m.Transactions),
		})
	}
	return table
}

// ListingTable lists the records of one company in source order.
func ListingTable(company domain.Company, records []domain.TransactionRecord) domain.Table {
	table := domain.Table{Label: string(company), Columns: ListingColumns, Rows: make([][]domain.Cell, 0, len(records))}
	for _, r := range records {
		date := domain.TextCell(r.Field(dataprocessing.ColDate))
		if r.Timestamp != nil {
			date = domain.TextCell(dataprocessing.FormatTimestamp(*r.Timestamp))
		} else if date.Text == "" {
			date = domain.EmptyCell()
		}

		table.Rows = append(table.Rows, []domain.Cell{
			date,
			textOrEmpty(r.Period.Key()),
			textOrEmpty(r.VehiclePlate),
			textOrEmpty(r.FuelTypeRaw),
			nullableNumber(r.Liters.Valid, r.Liters.Decimal.InexactFloat64()),
			nullableNumber(r.Amount.Valid, r.Amount.Decimal.InexactFloat64()),
		})
	}
	return table
}

// DailyTable lays out the per day and plate summary.
func DailyTable(rows []dataprocessing.DailyRow) domain.Table {
	table := domain.Table{Label: LabelDaily, Columns: DailyColumns, Rows: make([][]domain.Cell, 0, len(rows))}
	for _, r := range rows {
		table.Rows = append(table.Rows, []domain.Cell{
			domain.TextCell(r.Day.Format(dayLayout)),
			domain.TextCell(r.Plate),
			domain.NumberCell(r.TotalAmount),
			domain.NumberCell(r.Distance),
			domain.NumberCell(r.EstimatedLiters),
			domain.NumberCell(r.MeanEfficiency),
			domain.NumberCell(float64(r.Events)),
		})
	}
	return table
}

func textOrEmpty(s string) domain.Cell {
	if s == "" {
		return domain.EmptyCell()
	}
	return domain.TextCell(s)
}

func nullableNumber(valid bool, f float64) domain.Cell {
	if !valid {
		return domain.EmptyCell()
	}
	return domain.NumberCell(f)
}
