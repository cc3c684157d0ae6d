package recurrence

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/mo"
)

// WeeklyPattern matches the configured weekdays of every Interval-th week.
// Weeks start on Monday and are counted from the week containing
// ReferenceDate, so days of that week before ReferenceDate also match.
type WeeklyPattern struct {
	Interval      int
	ReferenceDate time.Time
	Days          []time.Weekday
}

// NewWeeklyPattern creates a weekly pattern for the given days
func NewWeeklyPattern(interval int, referenceDate time.Time, days ...time.Weekday) *WeeklyPattern {
	return &WeeklyPattern{
		Interval:      interval,
		ReferenceDate: DateOf(referenceDate),
		Days:          days,
	}
}

func (p *WeeklyPattern) sealed() {}

// Validate checks the interval and the weekdays.
func (p *WeeklyPattern) Validate() error {
	if p == nil {
		return ErrUnknownPattern
	}
	if err := validateInterval(p.Interval); err != nil {
		return err
	}
	for _, d := range p.Days {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}
	}
	return nil
}

func (p *WeeklyPattern) weeksSinceReference(date time.Time) int {
	return daysBetween(weekStart(DateOf(p.ReferenceDate)), weekStart(date)) / 7
}

// IsValid reports whether date falls on a configured weekday of a matching week.
func (p *WeeklyPattern) IsValid(date time.Time) bool {
	if !intervalInRange(p.Interval) {
		return false
	}
	date = DateOf(date)
	weeks := p.weeksSinceReference(date)
	if weeks < 0 || weeks%p.Interval != 0 {
		return false
	}
	return slices.Contains(p.Days, date.Weekday())
}

// CurrentDay returns date's position in the interval cycle: the week offset
// modulo Interval and the Monday-based weekday index. Before the reference week
// Major is the raw, negative week offset.
func (p *WeeklyPattern) CurrentDay(date time.Time) DateSpan {
	date = DateOf(date)
	weeks := p.weeksSinceReference(date)
	if weeks >= 0 && p.Interval > 0 {
		weeks %= p.Interval
	}
	return NewDateSpan(weeks, weekdayIndex(date.Weekday()))
}

// weekdayIndexes returns the configured days as sorted, unique Monday-based indexes.
func (p *WeeklyPattern) weekdayIndexes() []int {
	idx := make([]int, 0, len(p.Days))
	for _, d := range p.Days {
		if d >= time.Sunday && d <= time.Saturday {
			idx = append(idx, weekdayIndex(d))
		}
	}
	slices.Sort(idx)
	return slices.Compact(idx)
}

// SpanUntilNextDay returns how many weeks and days to advance from current to
// reach the next configured weekday.
func (p *WeeklyPattern) SpanUntilNextDay(current time.Time, allowCurrent bool) (DateSpan, bool) {
	days := p.weekdayIndexes()
	if !intervalInRange(p.Interval) || len(days) == 0 {
		return DateSpan{}, false
	}
	pos := p.CurrentDay(current)

	candidates := make([]DateSpan, 0, len(days)+1)
	for _, d := range days {
		candidates = append(candidates, NewDateSpan(0, d))
	}
	candidates = append(candidates, NewDateSpan(p.Interval, days[0]))

	next, ok := nextSpan(candidates, pos, allowCurrent)
	if !ok {
		return DateSpan{}, false
	}
	return next.Sub(pos), true
}

func (p *WeeklyPattern) advance(date time.Time, allowCurrent bool) mo.Option[time.Time] {
	date = DateOf(date)
	span, ok := p.SpanUntilNextDay(date, allowCurrent)
	if !ok {
		return noDate()
	}
	return bounded(date, addDays(date, 7*span.Major+span.Minor))
}

// First returns the earliest matching date on or after from.
func (p *WeeklyPattern) First(from time.Time) mo.Option[time.Time] {
	return p.advance(from, true)
}

// Next returns the earliest matching date after current.
func (p *WeeklyPattern) Next(current time.Time) mo.Option[time.Time] {
	return p.advance(current, false)
}
