package commission

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("period must be formatted as YYYY-MM")

// Period is a calendar-month aggregation key, e.g. "2025-03".
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a "YYYY-MM" key.
func ParsePeriod(key string) (Period, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Previous returns the calendar month before p.
func (p Period) Previous() Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Period{Year: t.Year(), Month: t.Month()}
}

// Bounds returns the half-open interval [from, to) covering the month.
func (p Period) Bounds() (from, to time.Time) {
	from = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the month.
func (p Period) Contains(t time.Time) bool {
	from, to := p.Bounds()
	return !t.Before(from) && t.Before(to)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
