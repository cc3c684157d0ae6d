package ical

import (
	"fmt"
	"slices"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/cyp0633/recurdates/recurrence"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

func toRRuleWeekday(wd time.Weekday, nth int) rrule.Weekday {
	w := rruleWeekdays[wd]
	if nth == 0 {
		return w
	}
	return w.Nth(nth)
}

func ordinalToNth(o recurrence.WeekOrdinal) int {
	if o == recurrence.LastWeek {
		return -1
	}
	return int(o)
}

// PatternRules converts a pattern into RRULE options anchored at the start of
// the pattern's interval cycle. A monthly pattern with both explicit days and
// ordinal weekdays yields two rules, because RRULE intersects BYMONTHDAY with
// BYDAY while the pattern unions them.
func PatternRules(p recurrence.Pattern) ([]rrule.ROption, error) {
	if p == nil {
		return nil, recurrence.ErrUnknownPattern
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch p := p.(type) {
	case *recurrence.DailyPattern:
		return []rrule.ROption{{
			Freq:     rrule.DAILY,
			Interval: p.Interval,
			Dtstart:  recurrence.DateOf(p.ReferenceDate),
		}}, nil

	case *recurrence.WeeklyPattern:
		if len(p.Days) == 0 {
			return nil, nil
		}
		ref := recurrence.DateOf(p.ReferenceDate)
		monday := ref.AddDate(0, 0, -((int(ref.Weekday()) + 6) % 7))
		var days []rrule.Weekday
		for _, wd := range uniqueWeekdays(p.Days) {
			days = append(days, toRRuleWeekday(wd, 0))
		}
		return []rrule.ROption{{
			Freq:      rrule.WEEKLY,
			Interval:  p.Interval,
			Wkst:      rrule.MO,
			Byweekday: days,
			Dtstart:   monday,
		}}, nil

	case *recurrence.MonthlyPattern:
		ref := recurrence.DateOf(p.ReferenceDate)
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)

		var rules []rrule.ROption
		if len(p.DaysOfMonth) > 0 {
			days := slices.Clone(p.DaysOfMonth)
			slices.Sort(days)
			rules = append(rules, rrule.ROption{
				Freq:       rrule.MONTHLY,
				Interval:   p.Interval,
				Bymonthday: slices.Compact(days),
				Dtstart:    first,
			})
		}
		if len(p.DaysOfWeek) > 0 {
			var days []rrule.Weekday
			for _, d := range p.DaysOfWeek {
				days = append(days, toRRuleWeekday(d.Weekday, ordinalToNth(d.Ordinal)))
			}
			rules = append(rules, rrule.ROption{
				Freq:      rrule.MONTHLY,
				Interval:  p.Interval,
				Byweekday: days,
				Dtstart:   first,
			})
		}
		return rules, nil
	}
	return nil, fmt.Errorf("%w: %T", recurrence.ErrUnknownPattern, p)
}

func uniqueWeekdays(days []time.Weekday) []time.Weekday {
	out := slices.Clone(days)
	slices.SortFunc(out, func(a, b time.Weekday) int {
		return (int(a)+6)%7 - (int(b)+6)%7
	})
	return slices.Compact(out)
}

// Rule is one exported RRULE together with the dates it shares with rules
// exported before it. Listing those as EXDATE keeps every date of the union
// in exactly one rule.
type Rule struct {
	rrule.ROption
	Exdates []time.Time
}

// maxExclusions bounds the EXDATEs computed when some rule has no end.
const maxExclusions = 1000

// Rules converts every pattern of rec into RRULE options bounded by the
// recurrence. Each rule starts at its first occurrence on or after StartDate,
// which keeps the rule's interval phase. Rules without any occurrence in the
// bounds are dropped. UNTIL is set when EndDate is bounded. With an occurrence
// cap a single rule gets COUNT, while several rules all end at the last capped
// date since RRULE has no count shared across rules.
//
// Dates produced by more than one rule are kept by the first and excluded from
// the others. When the export has no end, only the first maxExclusions shared
// dates are excluded.
func Rules(rec *recurrence.Recurrence) ([]Rule, error) {
	var rules []Rule
	for i, p := range rec.Patterns() {
		opts, err := PatternRules(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		for _, opt := range opts {
			r, err := rrule.NewRRule(opt)
			if err != nil {
				return nil, fmt.Errorf("pattern %d: build rule: %w", i, err)
			}
			first := r.After(rec.StartDate(), true)
			if first.IsZero() || first.After(rec.EndDate()) {
				continue
			}
			opt.Dtstart = first
			if rec.EndDate().Before(recurrence.MaxDate) {
				opt.Until = rec.EndDate()
			}
			rules = append(rules, Rule{ROption: opt})
		}
	}

	if n, capped := rec.Occurrences().Get(); capped {
		rules = capRules(rec, rules, n)
	}
	if err := excludeShared(rules); err != nil {
		return nil, fmt.Errorf("failed to exclude shared dates: %w", err)
	}
	return rules, nil
}

func capRules(rec *recurrence.Recurrence, rules []Rule, n int) []Rule {
	if n == 0 || len(rules) == 0 {
		return nil
	}
	if len(rules) == 1 {
		return []Rule{{ROption: withCount(rules[0].ROption, n)}}
	}

	dates := recurrence.Collect(rec.Dates(), n)
	if len(dates) == 0 {
		return nil
	}
	last := dates[len(dates)-1]

	capped := rules[:0]
	for _, rule := range rules {
		if rule.Dtstart.After(last) {
			continue
		}
		rule.Until = last
		capped = append(capped, rule)
	}
	return capped
}

// excludeShared merges the rules' expansions in date order and records, for
// every date several rules produce, an EXDATE on all but the first of them.
func excludeShared(rules []Rule) error {
	if len(rules) < 2 {
		return nil
	}

	limit := 0
	nexts := make([]rrule.Next, len(rules))
	heads := make([]time.Time, len(rules))
	live := make([]bool, len(rules))
	for i := range rules {
		if rules[i].Until.IsZero() && rules[i].Count == 0 {
			limit = maxExclusions
		}
		r, err := rrule.NewRRule(rules[i].ROption)
		if err != nil {
			return err
		}
		nexts[i] = r.Iterator()
		heads[i], live[i] = nexts[i]()
	}

	excluded := 0
	for limit == 0 || excluded < limit {
		var earliest time.Time
		found := false
		for i := range rules {
			if live[i] && (!found || heads[i].Before(earliest)) {
				earliest, found = heads[i], true
			}
		}
		if !found {
			return nil
		}

		owner := -1
		for i := range rules {
			if !live[i] || !heads[i].Equal(earliest) {
				continue
			}
			if owner < 0 {
				owner = i
			} else {
				rules[i].Exdates = append(rules[i].Exdates, earliest)
				excluded++
			}
			heads[i], live[i] = nexts[i]()
		}
	}
	return nil
}

// withCount swaps UNTIL for COUNT when the cap ends the rule first; RRULE
// allows only one of the two.
func withCount(opt rrule.ROption, n int) rrule.ROption {
	counted := opt
	counted.Until = time.Time{}
	counted.Count = n
	r, err := rrule.NewRRule(counted)
	if err != nil {
		return opt
	}
	dates := r.All()
	if opt.Until.IsZero() || (len(dates) > 0 && !dates[len(dates)-1].After(opt.Until)) {
		return counted
	}
	return opt
}

// RuleStrings renders the rules of rec as RRULE values (without DTSTART or
// EXDATE).
func RuleStrings(rec *recurrence.Recurrence) ([]string, error) {
	rules, err := Rules(rec)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.RRuleString())
	}
	return out, nil
}
