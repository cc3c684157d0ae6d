/*
Package recurrence computes calendar dates from daily, weekly and monthly
recurrence patterns.

# Basic Usage

	rec, err := recurrence.NewBuilder().
		From(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)).
		StopAfter(5).
		Every(2).Days().
		Build()
	if err != nil {
		log.Fatal(err)
	}
	for d := range rec.Dates() {
		fmt.Println(d.Format(time.DateOnly))
	}

Patterns can also be constructed directly and combined with New:

	rec, err := recurrence.New(recurrence.DefaultConfig.WithOccurrences(10),
		recurrence.NewWeeklyPattern(1, ref, time.Monday),
		&recurrence.MonthlyPattern{
			Interval:      1,
			ReferenceDate: ref,
			DaysOfWeek: []recurrence.DayOfWeekInMonth{
				{Ordinal: recurrence.LastWeek, Weekday: time.Friday},
			},
		})

# Dates

All dates are calendar dates at midnight UTC. Inputs with a time of day are
truncated to their date with DateOf.

# Occurrences

The occurrence cap counts from the recurrence's start date. Querying a window
with DatesBetween only hides dates outside the window; it never lets more than
the capped number of dates through.

# Month Lengths

A monthly day that a month does not have is skipped for that month: day 31
every month produces no date in April and continues in May.
*/
package recurrence
