package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Canonical column names, after NormalizeHeader.
const (
	ColTransactionID = "CODIGO TRANSACAO"
	ColCompanyName   = "NOME REDUZIDO"
	ColDate          = "DATA TRANSACAO"
	ColPlate         = "PLACA"
	ColFuelType      = "TIPO COMBUSTIVEL"
	ColLiters        = "LITROS"
	ColAmount        = "VALOR EMISSAO"
	ColOdometer      = "HODOMETRO OU HORIMETRO"
	ColDistance      = "KM RODADOS OU HORAS TRABALHADAS"
	ColRate          = "KM/LITRO OU LITROS/HORA"
)

// Excel serial day numbers accepted as dates: 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// Text layouts tried in order. Day-first layouts precede month-first ones;
// the sources are Brazilian exports.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"02.01.2006",
	"02/01/06",
}

// NormalizeHeader trims a column name, collapses inner whitespace and upper-cases it.
func NormalizeHeader(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// ParseTimestamp reads a transaction date. It accepts Excel serial numbers
// and the layouts in timestampLayouts. An empty cell yields (nil, true);
// unreadable text yields (nil, false).
func ParseTimestamp(text string) (*time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, true
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < minExcelSerial || serial > maxExcelSerial {
			return nil, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil, false
		}
		t = t.Round(time.Second)
		return &t, true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// ParseDecimal reads a numeric cell. Currency symbols and spaces are
// ignored; both "1.234,56" and "1,234.56" are understood, the right-most
// separator being the decimal one. A lone separator is always decimal, so
// "1.234" and "1,234" both read as 1.234. An empty cell yields an invalid
// value and true; unreadable text yields an invalid value and false.
func ParseDecimal(text string) (decimal.NullDecimal, bool) {
	return parseDecimal(text, false)
}

// ParseDecimalComma is ParseDecimal for sources whose decimal separator is
// the comma: a lone dot followed by exactly three digits groups thousands,
// so "1.234" reads as 1234 while "40.5" still reads as 40.5.
func ParseDecimalComma(text string) (decimal.NullDecimal, bool) {
	return parseDecimal(text, true)
}

func parseDecimal(text string, decimalComma bool) (decimal.NullDecimal, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" || s == "-" {
		return decimal.NullDecimal{}, true
	}

	s = normalizeSeparators(s, decimalComma)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

func normalizeSeparators(s string, decimalComma bool) string {
	// exponent notation ("1.5E-2") comes from raw Excel values
	if strings.ContainsAny(s, "eE") {
		return s
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	case decimalComma && lastDot > 0 && len(s)-lastDot == 4:
		return strings.Replace(s, ".", "", 1)
	}
	return s
}

// FormatTimestamp renders a timestamp the way the source exports show dates.
func FormatTimestamp(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("02/01/2006")
	}
	return t.Format("02/01/2006 15:04:05")
}
