package recurrence

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/mo"
)

// WeekOrdinal selects which occurrence of a weekday within a month is meant.
type WeekOrdinal int

const (
	FirstWeek WeekOrdinal = iota + 1
	SecondWeek
	ThirdWeek
	FourthWeek
	LastWeek
)

func (o WeekOrdinal) String() string {
	switch o {
	case FirstWeek:
		return "first"
	case SecondWeek:
		return "second"
	case ThirdWeek:
		return "third"
	case FourthWeek:
		return "fourth"
	case LastWeek:
		return "last"
	}
	return fmt.Sprintf("WeekOrdinal(%d)", int(o))
}

// Valid reports whether o is one of the defined ordinals.
func (o WeekOrdinal) Valid() bool {
	return o >= FirstWeek && o <= LastWeek
}

// DayOfWeekInMonth is an ordinal weekday such as "last Friday".
type DayOfWeekInMonth struct {
	Ordinal WeekOrdinal
	Weekday time.Weekday
}

func (d DayOfWeekInMonth) String() string {
	return d.Ordinal.String() + " " + d.Weekday.String()
}

// DayIn resolves d to a day number of the given month. First through Fourth
// count forward from the 1st, Last counts back from the month's last day.
func (d DayOfWeekInMonth) DayIn(year int, month time.Month) int {
	if d.Ordinal == LastWeek {
		days := DaysInMonth(year, month)
		last := time.Date(year, month, days, 0, 0, 0, 0, time.UTC).Weekday()
		return days - (int(last)-int(d.Weekday)+7)%7
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	return 1 + (int(d.Weekday)-int(first)+7)%7 + 7*(int(d.Ordinal)-1)
}

// gregorianCycleMonths is the length of the Gregorian calendar's repeat cycle.
// Searching that many interval cycles visits every month shape a pattern can
// ever land on.
const gregorianCycleMonths = 400 * 12

// MonthlyPattern matches selected days of every Interval-th month counted from
// the month containing ReferenceDate. Selected days are the union of
// DaysOfMonth and the resolved DaysOfWeek.
//
// A day of month the target month does not have (31 in April) is skipped for
// that month; it is neither clamped nor rolled into the following month.
type MonthlyPattern struct {
	Interval      int
	ReferenceDate time.Time
	DaysOfMonth   []int
	DaysOfWeek    []DayOfWeekInMonth
}

// NewMonthlyPattern creates a monthly pattern on the given days of the month
func NewMonthlyPattern(interval int, referenceDate time.Time, daysOfMonth ...int) *MonthlyPattern {
	return &MonthlyPattern{
		Interval:      interval,
		ReferenceDate: DateOf(referenceDate),
		DaysOfMonth:   daysOfMonth,
	}
}

func (p *MonthlyPattern) sealed() {}

// Validate checks the interval, the days of the month and the ordinal weekdays.
func (p *MonthlyPattern) Validate() error {
	if p == nil {
		return ErrUnknownPattern
	}
	if err := validateInterval(p.Interval); err != nil {
		return err
	}
	for _, d := range p.DaysOfMonth {
		if d < 1 || d > 31 {
			return fmt.Errorf("%w: %d", ErrInvalidDayOfMonth, d)
		}
	}
	for _, d := range p.DaysOfWeek {
		if !d.Ordinal.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidOrdinal, d.Ordinal)
		}
		if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, d.Weekday)
		}
	}
	return nil
}

// ResolveDays returns the sorted day numbers the pattern selects in date's month.
func (p *MonthlyPattern) ResolveDays(date time.Time) []int {
	year, month := date.Year(), date.Month()
	daysInMonth := DaysInMonth(year, month)

	days := make([]int, 0, len(p.DaysOfMonth)+len(p.DaysOfWeek))
	for _, d := range p.DaysOfMonth {
		if d >= 1 && d <= daysInMonth {
			days = append(days, d)
		}
	}
	for _, d := range p.DaysOfWeek {
		if d.Ordinal.Valid() && d.Weekday >= time.Sunday && d.Weekday <= time.Saturday {
			days = append(days, d.DayIn(year, month))
		}
	}
	slices.Sort(days)
	return slices.Compact(days)
}

func (p *MonthlyPattern) monthsSinceReference(date time.Time) int {
	return totalMonths(date) - totalMonths(DateOf(p.ReferenceDate))
}

// IsValid reports whether date is a selected day of a matching month.
func (p *MonthlyPattern) IsValid(date time.Time) bool {
	if !intervalInRange(p.Interval) {
		return false
	}
	date = DateOf(date)
	months := p.monthsSinceReference(date)
	if months < 0 || months%p.Interval != 0 {
		return false
	}
	_, found := slices.BinarySearch(p.ResolveDays(date), date.Day())
	return found
}

// CurrentDay returns date's position in the interval cycle: the month offset
// modulo Interval and the zero-based day index. Before the reference month
// Major is the raw, negative month offset.
func (p *MonthlyPattern) CurrentDay(date time.Time) DateSpan {
	date = DateOf(date)
	months := p.monthsSinceReference(date)
	if months >= 0 && p.Interval > 0 {
		months %= p.Interval
	}
	return NewDateSpan(months, date.Day()-1)
}

// SpanUntilNextDay returns how many months and days to advance from current to
// reach the next selected day. Candidates are the selected days of the current
// cycle's month plus the first selected day of the next cycle month that has
// any; months lacking every selected day are skipped.
func (p *MonthlyPattern) SpanUntilNextDay(current time.Time, allowCurrent bool) (DateSpan, bool) {
	if !intervalInRange(p.Interval) || (len(p.DaysOfMonth) == 0 && len(p.DaysOfWeek) == 0) {
		return DateSpan{}, false
	}
	current = DateOf(current)
	pos := p.CurrentDay(current)
	cycleMonth := addMonths(firstOfMonth(current), -pos.Major)

	var candidates []DateSpan
	for _, d := range p.ResolveDays(cycleMonth) {
		candidates = append(candidates, NewDateSpan(0, d-1))
	}
	for k := 1; k <= gregorianCycleMonths; k++ {
		month := addMonths(cycleMonth, k*p.Interval)
		if afterMax(month) {
			break
		}
		if days := p.ResolveDays(month); len(days) > 0 {
			candidates = append(candidates, NewDateSpan(k*p.Interval, days[0]-1))
			break
		}
	}

	next, ok := nextSpan(candidates, pos, allowCurrent)
	if !ok {
		return DateSpan{}, false
	}
	return next.Sub(pos), true
}

// AddSpan applies a span returned by SpanUntilNextDay to date: Major months
// forward, then Minor days relative to date's day of month.
func (p *MonthlyPattern) AddSpan(date time.Time, span DateSpan) time.Time {
	date = DateOf(date)
	month := addMonths(firstOfMonth(date), span.Major)
	return time.Date(month.Year(), month.Month(), date.Day()+span.Minor, 0, 0, 0, 0, time.UTC)
}

func (p *MonthlyPattern) advance(date time.Time, allowCurrent bool) mo.Option[time.Time] {
	date = DateOf(date)
	span, ok := p.SpanUntilNextDay(date, allowCurrent)
	if !ok {
		return noDate()
	}
	return bounded(date, p.AddSpan(date, span))
}

// First returns the earliest matching date on or after from.
func (p *MonthlyPattern) First(from time.Time) mo.Option[time.Time] {
	return p.advance(from, true)
}

// Next returns the earliest matching date after current.
func (p *MonthlyPattern) Next(current time.Time) mo.Option[time.Time] {
	return p.advance(current, false)
}
