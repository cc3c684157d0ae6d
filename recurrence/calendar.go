package recurrence

import (
	"time"

	"cloudeng.io/datetime"
)

const secondsPerDay = 24 * 60 * 60

var (
	// MinDate is the earliest date a recurrence can produce.
	MinDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	// MaxDate is the latest date a recurrence can produce.
	MaxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// DateOf strips the time of day from t. The calendar date is taken in t's own
// location and returned as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month of year.
func DaysInMonth(year int, month time.Month) int {
	return int(datetime.DaysInMonth(year, datetime.Month(month)))
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// addMonths moves a first-of-month date by n months.
func addMonths(first time.Time, n int) time.Time {
	return time.Date(first.Year(), first.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

func totalMonths(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// daysBetween returns the whole days from a to b; both must be normalized dates.
func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// weekdayIndex maps Monday to 0 and Sunday to 6.
func weekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// weekStart returns the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	return addDays(t, -weekdayIndex(t.Weekday()))
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func afterMax(t time.Time) bool {
	return t.After(MaxDate)
}
