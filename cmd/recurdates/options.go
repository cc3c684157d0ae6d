package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/cyp0633/recurdates/recurrence"
)

// envConfig holds defaults read from the environment; flags override them.
type envConfig struct {
	Format  string `env:"RECURDATES_FORMAT" envDefault:"text"`
	Limit   int    `env:"RECURDATES_LIMIT" envDefault:"100"`
	Verbose bool   `env:"RECURDATES_VERBOSE"`
}

func parseEnv(environ map[string]string) (envConfig, error) {
	var cfg envConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

const (
	formatText     = "text"
	formatICS      = "ics"
	formatICSRules = "ics-rules"
	formatXCal     = "xcal"
)

type options struct {
	freq       string
	every      int
	ref        string
	from       string
	until      string
	count      int
	on         string
	days       string
	weekdays   string
	windowFrom string
	windowTo   string
	cache      bool
	format     string
	limit      int
	summary    string
	verbose    bool
}

func parseFlags(args []string, defaults envConfig, output io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("recurdates", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&o.freq, "freq", "daily", "pattern frequency (daily, weekly, monthly)")
	fs.IntVar(&o.every, "every", 1, "interval in days, weeks or months")
	fs.StringVar(&o.ref, "ref", "", "reference date anchoring the interval (default: -from, else today)")
	fs.StringVar(&o.from, "from", "", "first date of the recurrence (YYYY-MM-DD)")
	fs.StringVar(&o.until, "until", "", "last date of the recurrence (YYYY-MM-DD)")
	fs.IntVar(&o.count, "count", -1, "maximum number of occurrences (-1 = unlimited)")
	fs.StringVar(&o.on, "on", "", "weekly days, e.g. mon,wed")
	fs.StringVar(&o.days, "days", "", "monthly days of the month, e.g. 1,15,31")
	fs.StringVar(&o.weekdays, "weekdays", "", "monthly ordinal weekdays, e.g. last-fri,first-mon")
	fs.StringVar(&o.windowFrom, "window-from", "", "only print dates on or after this date")
	fs.StringVar(&o.windowTo, "window-to", "", "only print dates on or before this date")
	fs.BoolVar(&o.cache, "cache", false, "enable the validity cache")
	fs.StringVar(&o.format, "format", defaults.Format, "output format (text, ics, ics-rules, xcal)")
	fs.IntVar(&o.limit, "limit", defaults.Limit, "maximum dates printed (0 = unlimited)")
	fs.StringVar(&o.summary, "summary", "", "event summary for calendar output")
	fs.BoolVar(&o.verbose, "v", defaults.Verbose, "verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	switch o.format {
	case formatText, formatICS, formatICSRules, formatXCal:
	default:
		return nil, fmt.Errorf("unknown format %q", o.format)
	}
	return o, nil
}

// build creates the recurrence described by the options. today anchors the
// pattern when neither -ref nor -from is given.
func (o *options) build(b *recurrence.Builder, today time.Time) (*recurrence.Recurrence, error) {
	ref := today
	if o.from != "" {
		from, err := parseDate(o.from)
		if err != nil {
			return nil, fmt.Errorf("-from: %w", err)
		}
		b.From(from)
		ref = from
	}
	if o.until != "" {
		until, err := parseDate(o.until)
		if err != nil {
			return nil, fmt.Errorf("-until: %w", err)
		}
		b.Until(until)
	}
	if o.ref != "" {
		r, err := parseDate(o.ref)
		if err != nil {
			return nil, fmt.Errorf("-ref: %w", err)
		}
		ref = r
	}
	if o.count >= 0 {
		b.StopAfter(o.count)
	}
	b.CacheDates(o.cache)

	switch strings.ToLower(o.freq) {
	case "daily":
		b.Every(o.every).Days().ReferenceDate(ref)

	case "weekly":
		days, err := parseWeekdays(o.on)
		if err != nil {
			return nil, fmt.Errorf("-on: %w", err)
		}
		if len(days) == 0 {
			days = []time.Weekday{ref.Weekday()}
		}
		b.Every(o.every).Weeks().ReferenceDate(ref).On(days...)

	case "monthly":
		days, err := parseMonthDays(o.days)
		if err != nil {
			return nil, fmt.Errorf("-days: %w", err)
		}
		ordinals, err := parseOrdinalWeekdays(o.weekdays)
		if err != nil {
			return nil, fmt.Errorf("-weekdays: %w", err)
		}
		if len(days) == 0 && len(ordinals) == 0 {
			days = []int{ref.Day()}
		}
		mb := b.Every(o.every).Months().ReferenceDate(ref).OnDays(days...)
		for _, d := range ordinals {
			mb.On(d.Ordinal, d.Weekday)
		}

	default:
		return nil, fmt.Errorf("unknown frequency %q", o.freq)
	}

	return b.Build()
}

// window returns the output window; zero values mean the recurrence bounds.
func (o *options) window() (from, to time.Time, err error) {
	if o.windowFrom != "" {
		if from, err = parseDate(o.windowFrom); err != nil {
			return from, to, fmt.Errorf("-window-from: %w", err)
		}
	}
	if o.windowTo != "" {
		if to, err = parseDate(o.windowTo); err != nil {
			return from, to, fmt.Errorf("-window-to: %w", err)
		}
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

var ordinalNames = map[string]recurrence.WeekOrdinal{
	"first":  recurrence.FirstWeek,
	"second": recurrence.SecondWeek,
	"third":  recurrence.ThirdWeek,
	"fourth": recurrence.FourthWeek,
	"last":   recurrence.LastWeek,
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > 3 {
		s = s[:3]
	}
	wd, ok := weekdayNames[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", recurrence.ErrInvalidWeekday, s)
	}
	return wd, nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, item := range splitList(s) {
		wd, err := parseWeekday(item)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	return days, nil
}

func parseMonthDays(s string) ([]int, error) {
	var days []int
	for _, item := range splitList(s) {
		d, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", recurrence.ErrInvalidDayOfMonth, item)
		}
		days = append(days, d)
	}
	return days, nil
}

var errOrdinalFormat = errors.New("want ordinal-weekday, e.g. last-fri")

func parseOrdinalWeekdays(s string) ([]recurrence.DayOfWeekInMonth, error) {
	var out []recurrence.DayOfWeekInMonth
	for _, item := range splitList(s) {
		ordinal, weekday, ok := strings.Cut(strings.ToLower(item), "-")
		if !ok {
			return nil, fmt.Errorf("%q: %w", item, errOrdinalFormat)
		}
		o, ok := ordinalNames[ordinal]
		if !ok {
			return nil, fmt.Errorf("%w: %q", recurrence.ErrInvalidOrdinal, ordinal)
		}
		wd, err := parseWeekday(weekday)
		if err != nil {
			return nil, err
		}
		out = append(out, recurrence.DayOfWeekInMonth{Ordinal: o, Weekday: wd})
	}
	return out, nil
}
