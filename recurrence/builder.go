package recurrence

import (
	"log/slog"
	"time"

	"github.com/samber/mo"
)

// Builder assembles a Recurrence step by step:
//
//	rec, err := recurrence.NewBuilder().
//		From(start).
//		StopAfter(10).
//		Every(2).Weeks().On(time.Monday, time.Thursday).
//		Monthly().On(recurrence.LastWeek, time.Friday).
//		Build()
//
// Pattern sub-builders embed the Builder, so the chain can continue with any
// Builder method. Patterns without an explicit reference date are anchored at
// the builder's start date.
type Builder struct {
	startDate   time.Time
	endDate     time.Time
	occurrences mo.Option[int]
	cacheDates  bool
	logger      *slog.Logger
	patterns    []patternBuilder
}

type patternBuilder interface {
	build(defaultReference time.Time) Pattern
}

// NewBuilder creates a builder covering the full date range
func NewBuilder() *Builder {
	return &Builder{
		startDate: MinDate,
		endDate:   MaxDate,
	}
}

// From sets the inclusive start date
func (b *Builder) From(startDate time.Time) *Builder {
	b.startDate = DateOf(startDate)
	return b
}

// Until sets the inclusive end date
func (b *Builder) Until(endDate time.Time) *Builder {
	b.endDate = DateOf(endDate)
	return b
}

// StopAfter caps the recurrence at the given number of occurrences
func (b *Builder) StopAfter(occurrences int) *Builder {
	b.occurrences = mo.Some(occurrences)
	return b
}

// CacheDates enables or disables the validity cache
func (b *Builder) CacheDates(enabled bool) *Builder {
	b.cacheDates = enabled
	return b
}

// WithLogger sets the logger for the built recurrence
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Daily adds a pattern repeating every day
func (b *Builder) Daily() *DailyBuilder {
	return b.Every(1).Days()
}

// Weekly adds a pattern repeating every week
func (b *Builder) Weekly() *WeeklyBuilder {
	return b.Every(1).Weeks()
}

// Monthly adds a pattern repeating every month
func (b *Builder) Monthly() *MonthlyBuilder {
	return b.Every(1).Months()
}

// Every starts a pattern repeating every interval days, weeks or months
func (b *Builder) Every(interval int) *IntervalBuilder {
	return &IntervalBuilder{parent: b, interval: interval}
}

// Build validates the configuration and creates the Recurrence
func (b *Builder) Build() (*Recurrence, error) {
	patterns := make([]Pattern, 0, len(b.patterns))
	for _, pb := range b.patterns {
		patterns = append(patterns, pb.build(b.startDate))
	}
	return New(Config{
		StartDate:   b.startDate,
		EndDate:     b.endDate,
		Occurrences: b.occurrences,
		CacheDates:  b.cacheDates,
		Logger:      b.logger,
	}, patterns...)
}

// IntervalBuilder picks the unit for an interval given to Builder.Every
type IntervalBuilder struct {
	parent   *Builder
	interval int
}

// Days adds a daily pattern with the interval
func (ib *IntervalBuilder) Days() *DailyBuilder {
	db := &DailyBuilder{Builder: ib.parent, interval: ib.interval}
	ib.parent.patterns = append(ib.parent.patterns, db)
	return db
}

// Weeks adds a weekly pattern with the interval
func (ib *IntervalBuilder) Weeks() *WeeklyBuilder {
	wb := &WeeklyBuilder{Builder: ib.parent, interval: ib.interval}
	ib.parent.patterns = append(ib.parent.patterns, wb)
	return wb
}

// Months adds a monthly pattern with the interval
func (ib *IntervalBuilder) Months() *MonthlyBuilder {
	mb := &MonthlyBuilder{Builder: ib.parent, interval: ib.interval}
	ib.parent.patterns = append(ib.parent.patterns, mb)
	return mb
}

// reference holds an optional explicit reference date
type reference struct {
	date mo.Option[time.Time]
}

func (r reference) or(fallback time.Time) time.Time {
	return r.date.OrElse(fallback)
}

// DailyBuilder configures a DailyPattern
type DailyBuilder struct {
	*Builder
	interval  int
	reference reference
}

// ReferenceDate anchors the pattern's interval cycle
func (db *DailyBuilder) ReferenceDate(date time.Time) *DailyBuilder {
	db.reference.date = mo.Some(DateOf(date))
	return db
}

func (db *DailyBuilder) build(defaultReference time.Time) Pattern {
	return NewDailyPattern(db.interval, db.reference.or(defaultReference))
}

// WeeklyBuilder configures a WeeklyPattern
type WeeklyBuilder struct {
	*Builder
	interval  int
	reference reference
	days      []time.Weekday
}

// ReferenceDate anchors the pattern's interval cycle
func (wb *WeeklyBuilder) ReferenceDate(date time.Time) *WeeklyBuilder {
	wb.reference.date = mo.Some(DateOf(date))
	return wb
}

// On adds weekdays to the pattern
func (wb *WeeklyBuilder) On(days ...time.Weekday) *WeeklyBuilder {
	wb.days = append(wb.days, days...)
	return wb
}

func (wb *WeeklyBuilder) build(defaultReference time.Time) Pattern {
	return NewWeeklyPattern(wb.interval, wb.reference.or(defaultReference),
		append([]time.Weekday(nil), wb.days...)...)
}

// MonthlyBuilder configures a MonthlyPattern
type MonthlyBuilder struct {
	*Builder
	interval    int
	reference   reference
	daysOfMonth []int
	daysOfWeek  []DayOfWeekInMonth
}

// ReferenceDate anchors the pattern's interval cycle
func (mb *MonthlyBuilder) ReferenceDate(date time.Time) *MonthlyBuilder {
	mb.reference.date = mo.Some(DateOf(date))
	return mb
}

// OnDays adds days of the month to the pattern
func (mb *MonthlyBuilder) OnDays(days ...int) *MonthlyBuilder {
	mb.daysOfMonth = append(mb.daysOfMonth, days...)
	return mb
}

// On adds an ordinal weekday such as (LastWeek, time.Friday) to the pattern
func (mb *MonthlyBuilder) On(ordinal WeekOrdinal, weekday time.Weekday) *MonthlyBuilder {
	mb.daysOfWeek = append(mb.daysOfWeek, DayOfWeekInMonth{Ordinal: ordinal, Weekday: weekday})
	return mb
}

func (mb *MonthlyBuilder) build(defaultReference time.Time) Pattern {
	p := NewMonthlyPattern(mb.interval, mb.reference.or(defaultReference),
		append([]int(nil), mb.daysOfMonth...)...)
	p.DaysOfWeek = append([]DayOfWeekInMonth(nil), mb.daysOfWeek...)
	return p
}
