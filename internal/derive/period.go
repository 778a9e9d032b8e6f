// Package derive computes read-only views over a budget snapshot.
//
// Every function is pure: it never mutates its input, never panics on
// dangling references and returns zero for any ratio whose denominator is zero.
// Dates are compared as ISO strings, which sort chronologically.
package derive

import (
	"time"

	"github.com/Veraticus/spice-budget/internal/model"
)

// Period is a closed interval of ISO dates.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Contains reports whether date falls inside the period, bounds included.
func (p Period) Contains(date string) bool {
	return date >= p.From && date <= p.To
}

// MonthPeriod returns the calendar month containing t.
func MonthPeriod(t time.Time) Period {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return Period{From: first.Format(model.DateLayout), To: last.Format(model.DateLayout)}
}

// MonthKey returns the YYYY-MM bucket of t.
func MonthKey(t time.Time) string {
	return t.Format(model.MonthLayout)
}

// ParseMonthKey parses a YYYY-MM bucket into the first instant of that month in UTC.
func ParseMonthKey(key string) (time.Time, error) {
	return time.Parse(model.MonthLayout, key)
}

// PeriodForMonthKey returns the calendar month named by a YYYY-MM key.
func PeriodForMonthKey(key string) (Period, error) {
	t, err := ParseMonthKey(key)
	if err != nil {
		return Period{}, err
	}
	return MonthPeriod(t), nil
}

// TrailingMonthKeys returns n month keys ending with the month of now, oldest first.
func TrailingMonthKeys(now time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = MonthKey(first.AddDate(0, i-(n-1), 0))
	}
	return keys
}
