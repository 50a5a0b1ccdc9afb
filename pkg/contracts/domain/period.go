package domain

import (
	"fmt"
	"time"
)

// Period is a calendar (year, month) bucket.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Key returns the bucket key "YYYY-MM". Keys sort lexicographically in chronological order.
func (p Period) Key() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// HalfMonth splits a month at day 15.
type HalfMonth int

const (
	HalfNone HalfMonth = iota
	FirstHalf
	SecondHalf
)

func (h HalfMonth) String() string {
	switch h {
	case FirstHalf:
		return "first_half"
	case SecondHalf:
		return "second_half"
	default:
		return "none"
	}
}
