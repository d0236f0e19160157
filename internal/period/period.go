// Package period holds the calendar month key used to group transactions and budgets.
package period

import (
	"errors"
	"time"
)

const layout = "2006-01"

var ErrInvalidMonth = errors.New("month must be formatted as YYYY-MM")

// Month is a calendar month in YYYY-MM form.
type Month string

func Parse(s string) (Month, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", ErrInvalidMonth
	}

	return Month(t.Format(layout)), nil
}

// Of returns the month a calendar date falls in. The date's own fields are used,
// so a date stored at midnight UTC keeps its day whatever the server zone is.
func Of(t time.Time) Month {
	return Month(t.Format(layout))
}

// Current returns the month of now as observed in loc.
func Current(now time.Time, loc *time.Location) Month {
	if loc == nil {
		loc = time.UTC
	}

	return Of(now.In(loc))
}

func (m Month) String() string { return string(m) }

func (m Month) Valid() bool {
	_, err := time.Parse(layout, string(m))
	return err == nil
}

// Contains reports whether the calendar date falls in m.
func (m Month) Contains(date time.Time) bool {
	return Of(date) == m
}

// Start returns the first day of the month at midnight UTC.
func (m Month) Start() time.Time {
	t, err := time.Parse(layout, string(m))
	if err != nil {
		return time.Time{}
	}

	return t
}

// End returns the last day of the month at midnight UTC.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

func (m Month) Prev() Month {
	return Of(m.Start().AddDate(0, -1, 0))
}

func (m Month) Next() Month {
	return Of(m.Start().AddDate(0, 1, 0))
}
