package recurrence

import (
	"log/slog"
	"time"

	"github.com/samber/mo"
)

// Config holds the bounds and options of a Recurrence
type Config struct {
	// Inclusive bounds. A zero StartDate is MinDate, a zero EndDate is MaxDate.
	StartDate time.Time
	EndDate   time.Time

	// Occurrences caps the number of dates, counted from StartDate.
	Occurrences mo.Option[int]

	// CacheDates memoizes IsValidInAnyPattern per date. Cached results are
	// kept even if a pattern is modified afterwards.
	CacheDates bool

	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

// DefaultConfig covers the full date range without cap or cache
var DefaultConfig = Config{
	StartDate: MinDate,
	EndDate:   MaxDate,
}

// CachedConfig is DefaultConfig with the validity cache enabled, for
// recurrences that are queried repeatedly over overlapping windows
var CachedConfig = Config{
	StartDate:  MinDate,
	EndDate:    MaxDate,
	CacheDates: true,
}

// WithOccurrences returns a copy of c capped at n occurrences
func (c Config) WithOccurrences(n int) Config {
	c.Occurrences = mo.Some(n)
	return c
}

// Between returns a copy of c bounded to [start, end]
func (c Config) Between(start, end time.Time) Config {
	c.StartDate = start
	c.EndDate = end
	return c
}

func (c Config) bounds() (time.Time, time.Time) {
	start, end := DateOf(c.StartDate), DateOf(c.EndDate)
	if start.Before(MinDate) {
		start = MinDate
	}
	if c.EndDate.IsZero() || afterMax(end) {
		end = MaxDate
	}
	return start, end
}
