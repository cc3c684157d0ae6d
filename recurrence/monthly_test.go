package recurrence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPattern_ResolveDays_DaysOfMonth(t *testing.T) {
	p := NewMonthlyPattern(1, day(2022, 1, 1), 1, 28, 29, 30, 31)

	tests := []struct {
		year  int
		month time.Month
		want  []int
	}{
		{2022, time.January, []int{1, 28, 29, 30, 31}},
		{2022, time.April, []int{1, 28, 29, 30}},
		{2020, time.February, []int{1, 28, 29}},
		{2022, time.February, []int{1, 28}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%02d", tt.year, tt.month), func(t *testing.T) {
			assert.Equal(t, tt.want, p.ResolveDays(day(tt.year, tt.month, 1)))
		})
	}
}

func TestMonthlyPattern_ResolveDays_LastWeekdays(t *testing.T) {
	p := &MonthlyPattern{
		Interval:      1,
		ReferenceDate: day(2022, 1, 1),
		DaysOfWeek: []DayOfWeekInMonth{
			{Ordinal: LastWeek, Weekday: time.Tuesday},
			{Ordinal: LastWeek, Weekday: time.Wednesday},
		},
	}

	tests := []struct {
		year  int
		month time.Month
		want  []int
	}{
		{2022, time.January, []int{25, 26}},
		{2022, time.February, []int{22, 23}},
		{2022, time.March, []int{29, 30}},
		{2022, time.May, []int{25, 31}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%02d", tt.year, tt.month), func(t *testing.T) {
			assert.Equal(t, tt.want, p.ResolveDays(day(tt.year, tt.month, 1)))
		})
	}
}

func TestMonthlyPattern_ResolveDays_OrdinalMondays(t *testing.T) {
	p := &MonthlyPattern{
		Interval:      1,
		ReferenceDate: day(2022, 1, 1),
		DaysOfWeek: []DayOfWeekInMonth{
			{Ordinal: FirstWeek, Weekday: time.Monday},
			{Ordinal: SecondWeek, Weekday: time.Monday},
			{Ordinal: ThirdWeek, Weekday: time.Monday},
			{Ordinal: FourthWeek, Weekday: time.Monday},
			{Ordinal: LastWeek, Weekday: time.Tuesday},
			{Ordinal: LastWeek, Weekday: time.Wednesday},
		},
	}

	assert.Equal(t, []int{3, 10, 17, 24, 25, 26}, p.ResolveDays(day(2022, 1, 15)))
}

func TestMonthlyPattern_ResolveDays_Union(t *testing.T) {
	p := &MonthlyPattern{
		Interval:      1,
		ReferenceDate: day(2022, 1, 1),
		DaysOfMonth:   []int{3, 31, 3},
		DaysOfWeek:    []DayOfWeekInMonth{{Ordinal: FirstWeek, Weekday: time.Monday}},
	}

	assert.Equal(t, []int{3, 31}, p.ResolveDays(day(2022, 1, 1)))
	assert.Equal(t, []int{3, 7}, p.ResolveDays(day(2022, 2, 1)))
}

func TestDayOfWeekInMonth_DayIn(t *testing.T) {
	tests := []struct {
		d     DayOfWeekInMonth
		year  int
		month time.Month
		want  int
	}{
		{DayOfWeekInMonth{FirstWeek, time.Saturday}, 2022, time.January, 1},
		{DayOfWeekInMonth{FirstWeek, time.Friday}, 2022, time.January, 7},
		{DayOfWeekInMonth{FourthWeek, time.Friday}, 2022, time.January, 28},
		{DayOfWeekInMonth{LastWeek, time.Monday}, 2022, time.January, 31},
		{DayOfWeekInMonth{LastWeek, time.Saturday}, 2020, time.February, 29},
		{DayOfWeekInMonth{SecondWeek, time.Sunday}, 2022, time.May, 8},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.DayIn(tt.year, tt.month))
		})
	}
}

func TestMonthlyPattern_CurrentDay(t *testing.T) {
	tests := []struct {
		interval  int
		reference time.Time
		current   time.Time
		want      DateSpan
	}{
		{1, day(2022, 1, 1), day(2022, 1, 1), NewDateSpan(0, 0)},
		{1, day(2022, 1, 1), day(2022, 2, 2), NewDateSpan(0, 1)},
		{3, day(2022, 1, 1), day(2022, 2, 15), NewDateSpan(1, 14)},
		{3, day(2022, 1, 1), day(2022, 5, 15), NewDateSpan(1, 14)},
		{3, day(2022, 1, 15), day(2022, 1, 15), NewDateSpan(0, 14)},
		{3, day(2022, 1, 15), day(2022, 3, 14), NewDateSpan(2, 13)},
		{3, day(2022, 3, 1), day(2022, 1, 10), NewDateSpan(-2, 9)},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("every %d from %s at %s", tt.interval,
			tt.reference.Format(time.DateOnly), tt.current.Format(time.DateOnly))
		t.Run(name, func(t *testing.T) {
			p := NewMonthlyPattern(tt.interval, tt.reference)
			assert.Equal(t, tt.want, p.CurrentDay(tt.current))
		})
	}
}

func TestMonthlyPattern_SpanUntilNextDay(t *testing.T) {
	tests := []struct {
		name         string
		interval     int
		reference    time.Time
		current      time.Time
		allowCurrent bool
		days         []int
		want         DateSpan
		wantDate     time.Time
	}{
		{"before first day", 1, day(2022, 1, 3), day(2022, 1, 1), false, []int{5, 25}, NewDateSpan(0, 4), day(2022, 1, 5)},
		{"between days", 1, day(2022, 1, 3), day(2022, 1, 6), false, []int{5, 25}, NewDateSpan(0, 19), day(2022, 1, 25)},
		{"current allowed", 1, day(2022, 1, 3), day(2022, 1, 5), true, []int{5, 25}, NewDateSpan(0, 0), day(2022, 1, 5)},
		{"current not allowed", 1, day(2022, 1, 3), day(2022, 1, 25), false, []int{5, 25}, NewDateSpan(1, -20), day(2022, 2, 5)},
		{"off-cycle month", 3, day(2022, 1, 3), day(2022, 2, 1), false, []int{5, 25}, NewDateSpan(2, 4), day(2022, 4, 5)},
		{"short month skipped", 1, day(2022, 2, 1), day(2022, 2, 1), false, []int{30}, NewDateSpan(1, 29), day(2022, 3, 30)},
		{"two short months skipped", 1, day(2022, 1, 1), day(2022, 1, 31), false, []int{31}, NewDateSpan(2, 0), day(2022, 3, 31)},
		{"long month in cycle", 3, day(2022, 1, 1), day(2022, 1, 1), false, []int{30}, NewDateSpan(0, 29), day(2022, 1, 30)},
		{"before reference month", 2, day(2022, 3, 10), day(2022, 1, 20), false, []int{5}, NewDateSpan(2, -15), day(2022, 3, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewMonthlyPattern(tt.interval, tt.reference, tt.days...)

			span, ok := p.SpanUntilNextDay(tt.current, tt.allowCurrent)
			require.True(t, ok)
			assert.Equal(t, tt.want, span)
			assert.Equal(t, tt.wantDate, p.AddSpan(tt.current, span))
		})
	}
}

func TestMonthlyPattern_FirstNext(t *testing.T) {
	p := NewMonthlyPattern(1, day(2022, 1, 1), 31)
	assert.Equal(t, day(2022, 3, 31), p.Next(day(2022, 1, 31)).MustGet())
	assert.Equal(t, day(2022, 3, 31), p.First(day(2022, 2, 1)).MustGet())

	lastFriday := &MonthlyPattern{
		Interval:      1,
		ReferenceDate: day(2022, 1, 1),
		DaysOfWeek:    []DayOfWeekInMonth{{Ordinal: LastWeek, Weekday: time.Friday}},
	}
	assert.Equal(t, day(2022, 1, 28), lastFriday.First(day(2022, 1, 1)).MustGet())
	assert.Equal(t, day(2022, 2, 25), lastFriday.Next(day(2022, 1, 28)).MustGet())

	beforeReference := NewMonthlyPattern(2, day(2022, 3, 10), 5)
	assert.Equal(t, day(2022, 3, 5), beforeReference.First(day(2022, 1, 1)).MustGet())
	assert.Equal(t, day(2022, 5, 5), beforeReference.Next(day(2022, 3, 5)).MustGet())
}

func TestMonthlyPattern_NeverMatches(t *testing.T) {
	// Every February, day 30: no month in the cycle has it.
	p := NewMonthlyPattern(12, day(2022, 2, 1), 30)

	assert.True(t, p.First(day(2022, 1, 1)).IsAbsent())
	assert.False(t, p.IsValid(day(2022, 3, 30)))

	empty := NewMonthlyPattern(1, day(2022, 1, 1))
	assert.True(t, empty.First(day(2022, 1, 1)).IsAbsent())
}

func TestMonthlyPattern_IsValid(t *testing.T) {
	p := NewMonthlyPattern(2, day(2022, 1, 15), 1, 31)

	assert.True(t, p.IsValid(day(2022, 1, 1)))
	assert.True(t, p.IsValid(day(2022, 1, 31)))
	assert.False(t, p.IsValid(day(2022, 2, 1)))
	assert.True(t, p.IsValid(day(2022, 3, 1)))
	assert.False(t, p.IsValid(day(2021, 11, 1)))
	assert.False(t, p.IsValid(day(2022, 1, 15)))
}

func TestMonthlyPattern_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pattern *MonthlyPattern
		wantErr error
	}{
		{"valid", NewMonthlyPattern(1, day(2022, 1, 1), 1, 31), nil},
		{"zero interval", NewMonthlyPattern(0, day(2022, 1, 1), 1), ErrInvalidInterval},
		{"day zero", NewMonthlyPattern(1, day(2022, 1, 1), 0), ErrInvalidDayOfMonth},
		{"day 32", NewMonthlyPattern(1, day(2022, 1, 1), 32), ErrInvalidDayOfMonth},
		{"bad ordinal", &MonthlyPattern{
			Interval:   1,
			DaysOfWeek: []DayOfWeekInMonth{{Ordinal: WeekOrdinal(9), Weekday: time.Monday}},
		}, ErrInvalidOrdinal},
		{"bad weekday", &MonthlyPattern{
			Interval:   1,
			DaysOfWeek: []DayOfWeekInMonth{{Ordinal: FirstWeek, Weekday: time.Weekday(-1)}},
		}, ErrInvalidWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pattern.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
