package recurrence

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/samber/mo"
)

// Recurrence is the union of its patterns, limited to [StartDate, EndDate] and
// optionally capped at a number of occurrences counted from StartDate.
//
// A Recurrence with CacheDates enabled mutates its cache on every validity
// query and must not be used from multiple goroutines without external
// synchronization.
type Recurrence struct {
	startDate   time.Time
	endDate     time.Time
	occurrences mo.Option[int]
	patterns    []Pattern
	cache       *dateCache
	logger      *slog.Logger
}

// New creates a recurrence from cfg and patterns. Patterns are validated here;
// the recurrence keeps references to them, so later changes to a pattern are
// visible to queries (except results already memoized by the cache).
func New(cfg Config, patterns ...Pattern) (*Recurrence, error) {
	start, end := cfg.bounds()
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if n, ok := cfg.Occurrences.Get(); ok && n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOccurrences, n)
	}
	for i, p := range patterns {
		if p == nil {
			return nil, fmt.Errorf("pattern %d: %w", i, ErrUnknownPattern)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Recurrence{
		startDate:   start,
		endDate:     end,
		occurrences: cfg.Occurrences,
		patterns:    append([]Pattern(nil), patterns...),
		logger:      logger,
	}
	if cfg.CacheDates {
		r.cache = newDateCache()
	}

	logger.Debug("recurrence created",
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
		"patterns", len(patterns),
		"cache", cfg.CacheDates)

	return r, nil
}

func (r *Recurrence) StartDate() time.Time { return r.startDate }

func (r *Recurrence) EndDate() time.Time { return r.endDate }

func (r *Recurrence) Occurrences() mo.Option[int] { return r.occurrences }

func (r *Recurrence) CacheDates() bool { return r.cache != nil }

// Patterns returns the configured patterns in order.
func (r *Recurrence) Patterns() []Pattern {
	return append([]Pattern(nil), r.patterns...)
}

// CacheStats reports validity cache usage; it is zero when caching is disabled.
func (r *Recurrence) CacheStats() CacheStats {
	if r.cache == nil {
		return CacheStats{}
	}
	return r.cache.Stats()
}

// IsValidInAnyPattern reports whether any pattern accepts date. Bounds and the
// occurrence cap are not considered.
func (r *Recurrence) IsValidInAnyPattern(date time.Time) bool {
	date = DateOf(date)
	if r.cache != nil {
		if valid, found := r.cache.Get(date); found {
			return valid
		}
	}

	valid := false
	for _, p := range r.patterns {
		if p.IsValid(date) {
			valid = true
			break
		}
	}

	if r.cache != nil {
		r.cache.Set(date, valid)
	}
	return valid
}

// Dates returns every date of the recurrence.
func (r *Recurrence) Dates() iter.Seq[time.Time] {
	return r.DatesBetween(r.startDate, r.endDate)
}

// DatesFrom returns the dates on or after from.
func (r *Recurrence) DatesFrom(from time.Time) iter.Seq[time.Time] {
	return r.DatesBetween(from, r.endDate)
}

// DatesBetween returns the dates within [from, to] intersected with the
// recurrence bounds, in ascending order. The occurrence cap applies to the
// sequence starting at StartDate, so a window never extends it: dates before
// from still count towards the cap.
//
// The sequence is computed lazily and every call starts afresh.
func (r *Recurrence) DatesBetween(from, to time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if len(r.patterns) == 0 {
			return
		}
		lo, hi := DateOf(from), DateOf(to)
		if lo.Before(r.startDate) {
			lo = r.startDate
		}
		if hi.After(r.endDate) {
			hi = r.endDate
		}
		if lo.After(hi) {
			return
		}

		limit, capped := r.occurrences.Get()
		cursor := lo
		if capped {
			cursor = r.startDate
		}

		counted := 0
		for {
			next, ok := r.firstCandidate(cursor).Get()
			if !ok || next.Before(cursor) || next.After(hi) {
				return
			}
			if r.IsValidInAnyPattern(next) {
				if capped {
					if counted >= limit {
						r.logger.Debug("occurrence cap reached",
							"occurrences", limit,
							"at", next.Format(time.DateOnly))
						return
					}
					counted++
				}
				if !next.Before(lo) && !yield(next) {
					return
				}
			}
			if !next.Before(MaxDate) {
				return
			}
			cursor = addDays(next, 1)
		}
	}
}

// firstCandidate merges the patterns: the earliest date on or after from that
// any pattern produces.
func (r *Recurrence) firstCandidate(from time.Time) mo.Option[time.Time] {
	best := noDate()
	for _, p := range r.patterns {
		candidate, ok := p.First(from).Get()
		if !ok {
			continue
		}
		if current, set := best.Get(); !set || candidate.Before(current) {
			best = mo.Some(candidate)
		}
	}
	return best
}

// Collect materializes a date sequence, stopping after limit dates when limit
// is positive.
func Collect(seq iter.Seq[time.Time], limit int) []time.Time {
	var dates []time.Time
	for d := range seq {
		dates = append(dates, d)
		if limit > 0 && len(dates) >= limit {
			break
		}
	}
	return dates
}
