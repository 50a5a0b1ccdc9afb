package exporter

import (
	"math"
	"strconv"
	"strings"

	"fuelcli/pkg/contracts/domain"
)

// formatFloat renders a number for CSV output. Integral values have no
// decimals, everything else keeps exactly 2 places; NaN is left empty.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return formatInt(int64(f))
	default:
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatCell renders a table cell as CSV text.
func formatCell(c domain.Cell) string {
	switch c.Kind {
	case domain.CellText:
		return c.Text
	case domain.CellNumber:
		return formatFloat(c.Number)
	default:
		return ""
	}
}

// fileSafe turns a table label into a file name component.
func fileSafe(label string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	return strings.Join(strings.Fields(replacer.Replace(label)), "_")
}
