package recurrence

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// Pattern is a periodic rule anchored to a reference date. The set of
// implementations is closed: *DailyPattern, *WeeklyPattern and *MonthlyPattern.
//
// A pattern's validity never depends on the bounds of the Recurrence that
// owns it.
type Pattern interface {
	// IsValid reports whether date satisfies the pattern.
	IsValid(date time.Time) bool
	// First returns the earliest valid date on or after from.
	First(from time.Time) mo.Option[time.Time]
	// Next returns the earliest valid date strictly after current.
	Next(current time.Time) mo.Option[time.Time]
	// Validate checks the pattern's configuration.
	Validate() error

	sealed()
}

// maxInterval is the number of days between MinDate and MaxDate. A longer
// interval can never repeat within the supported range.
var maxInterval = daysBetween(MinDate, MaxDate)

func intervalInRange(interval int) bool {
	return interval >= 1 && interval <= maxInterval
}

func validateInterval(interval int) error {
	if !intervalInRange(interval) {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, interval)
	}
	return nil
}

func noDate() mo.Option[time.Time] {
	return mo.None[time.Time]()
}

// bounded wraps t unless it lies before from or past MaxDate.
func bounded(from, t time.Time) mo.Option[time.Time] {
	if t.Before(from) || afterMax(t) {
		return noDate()
	}
	return mo.Some(t)
}
