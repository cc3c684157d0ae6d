package ical

import (
	"errors"
	"fmt"
	"io"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/cyp0633/recurdates/recurrence"
)

// ErrNothingToEncode is returned when a recurrence yields no rule or date.
var ErrNothingToEncode = errors.New("recurrence has nothing to encode")

// EncodeOptions controls calendar export
type EncodeOptions struct {
	ProductID string           // PRODID of the calendar
	Summary   string           // SUMMARY of every event, omitted when empty
	From      time.Time        // Window start for EncodeOccurrences (zero = recurrence start)
	To        time.Time        // Window end for EncodeOccurrences (zero = recurrence end)
	Limit     int              // Maximum events written by EncodeOccurrences (0 = unlimited)
	Now       func() time.Time // Clock for DTSTAMP (nil = time.Now)
}

// DefaultEncodeOptions provides sensible defaults for export
var DefaultEncodeOptions = EncodeOptions{
	ProductID: "-//cyp0633//recurdates//EN",
	Limit:     1000, // Reasonable limit for unbounded recurrences
}

func (o EncodeOptions) productID() string {
	if o.ProductID == "" {
		return DefaultEncodeOptions.ProductID
	}
	return o.ProductID
}

func (o EncodeOptions) now() time.Time {
	if o.Now == nil {
		return time.Now().UTC()
	}
	return o.Now().UTC()
}

func (o EncodeOptions) window(rec *recurrence.Recurrence) (time.Time, time.Time) {
	from, to := rec.StartDate(), rec.EndDate()
	if !o.From.IsZero() {
		from = o.From
	}
	if !o.To.IsZero() {
		to = o.To
	}
	return from, to
}

func newCalendar(opts EncodeOptions) *goical.Calendar {
	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, opts.productID())
	return cal
}

func newEvent(opts EncodeOptions, start time.Time) *goical.Event {
	event := goical.NewEvent()
	event.Props.SetText(goical.PropUID, uuid.NewString())
	event.Props.SetDateTime(goical.PropDateTimeStamp, opts.now())
	event.Props.SetDate(goical.PropDateTimeStart, start)
	if opts.Summary != "" {
		event.Props.SetText(goical.PropSummary, opts.Summary)
	}
	return event
}

// EncodeRules writes rec as a calendar with one VEVENT per RRULE (see Rules).
// Dates shared with an earlier event are written as EXDATE.
func EncodeRules(w io.Writer, rec *recurrence.Recurrence, opts EncodeOptions) error {
	rules, err := Rules(rec)
	if err != nil {
		return fmt.Errorf("failed to convert recurrence to rules: %w", err)
	}
	if len(rules) == 0 {
		return ErrNothingToEncode
	}

	cal := newCalendar(opts)
	for _, rule := range rules {
		event := newEvent(opts, rule.Dtstart)
		prop := goical.NewProp(goical.PropRecurrenceRule)
		prop.Value = rule.RRuleString()
		event.Props.Set(prop)
		for _, date := range rule.Exdates {
			exdate := goical.NewProp(goical.PropExceptionDates)
			exdate.SetDate(date)
			event.Props.Add(exdate)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := goical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// EncodeOccurrences writes one all-day VEVENT per date of rec within the
// options' window, stopping at opts.Limit events.
func EncodeOccurrences(w io.Writer, rec *recurrence.Recurrence, opts EncodeOptions) error {
	from, to := opts.window(rec)

	cal := newCalendar(opts)
	for _, date := range recurrence.Collect(rec.DatesBetween(from, to), opts.Limit) {
		event := newEvent(opts, date)
		// All-day events end at the start of the next day
		event.Props.SetDate(goical.PropDateTimeEnd, date.AddDate(0, 0, 1))
		cal.Children = append(cal.Children, event.Component)
	}
	if len(cal.Children) == 0 {
		return ErrNothingToEncode
	}

	if err := goical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// DecodeOccurrences reads back the event start dates of a calendar written
// by EncodeOccurrences, in document order.
func DecodeOccurrences(r io.Reader) ([]time.Time, error) {
	cal, err := goical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}

	var dates []time.Time
	for _, event := range cal.Events() {
		start, err := event.Props.DateTime(goical.PropDateTimeStart, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to read event start: %w", err)
		}
		dates = append(dates, recurrence.DateOf(start))
	}
	return dates, nil
}
