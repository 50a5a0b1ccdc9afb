package domain

import (
	"math"
	"time"
)

// CellKind identifies what a Cell carries.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is a single value of an output table.
type Cell struct {
	Kind   CellKind `json:"kind"`
	Text   string   `json:"text,omitempty"`
	Number float64  `json:"number,omitempty"`
}

// TextCell builds a text cell.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell builds a numeric cell. NaN is allowed and means "undefined".
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// EmptyCell builds an empty cell.
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// IsNaN reports whether the cell is an undefined number.
func (c Cell) IsNaN() bool {
	return c.Kind == CellNumber && math.IsNaN(c.Number)
}

// Table is a self-contained labeled table ready to be rendered or persisted.
type Table struct {
	Label   string   `json:"label"`
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// ColumnIndex returns the position of a column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Report is the named set of tables produced by one run.
type Report struct {
	Name        string     `json:"name"`
	GeneratedAt time.Time  `json:"generated_at"`
	Tables      []Table    `json:"tables"`
	Summary     RunSummary `json:"summary"`
}

// Table returns the table with the given label.
func (r Report) Table(label string) (Table, bool) {
	for _, t := range r.Tables {
		if t.Label == label {
			return t, true
		}
	}
	return Table{}, false
}

// RunSummary reports what a run absorbed instead of failing on.
type RunSummary struct {
	SourcesFound        int      `json:"sources_found"`
	SourcesRead         int      `json:"sources_read"`
	FailedSources       []string `json:"failed_sources,omitempty"`
	Records             int      `json:"records"`
	UnparseableDates    int      `json:"unparseable_dates"`
	UnparseableNumbers  int      `json:"unparseable_numbers"`
	UnbucketedRecords   int      `json:"unbucketed_records"`
	ConsolidatedGroups  int      `json:"consolidated_groups"`
	DegenerateGroups    int      `json:"degenerate_groups"`
	ConsolidationFailed bool     `json:"consolidation_failed"`
}
