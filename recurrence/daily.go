package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// DailyPattern repeats every Interval days counted from ReferenceDate.
type DailyPattern struct {
	Interval      int
	ReferenceDate time.Time
}

// NewDailyPattern creates a pattern that matches every interval days starting at referenceDate
func NewDailyPattern(interval int, referenceDate time.Time) *DailyPattern {
	return &DailyPattern{
		Interval:      interval,
		ReferenceDate: DateOf(referenceDate),
	}
}

func (p *DailyPattern) sealed() {}

// Validate checks the interval.
func (p *DailyPattern) Validate() error {
	if p == nil {
		return ErrUnknownPattern
	}
	return validateInterval(p.Interval)
}

// IsValid reports whether date is a whole number of intervals on or after the
// reference date.
func (p *DailyPattern) IsValid(date time.Time) bool {
	if !intervalInRange(p.Interval) {
		return false
	}
	diff := daysBetween(DateOf(p.ReferenceDate), DateOf(date))
	return diff >= 0 && diff%p.Interval == 0
}

// First returns the earliest matching date on or after from.
func (p *DailyPattern) First(from time.Time) mo.Option[time.Time] {
	if !intervalInRange(p.Interval) {
		return noDate()
	}
	ref := DateOf(p.ReferenceDate)
	from = DateOf(from)
	if from.Before(ref) {
		return bounded(from, ref)
	}
	if rem := daysBetween(ref, from) % p.Interval; rem != 0 {
		return bounded(from, addDays(from, p.Interval-rem))
	}
	return bounded(from, from)
}

// Next returns the earliest matching date after current.
func (p *DailyPattern) Next(current time.Time) mo.Option[time.Time] {
	return p.First(addDays(DateOf(current), 1))
}
