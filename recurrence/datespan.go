package recurrence

import "fmt"

// DateSpan is a position or distance inside a pattern's interval cycle. Major
// counts whole pattern units (weeks or months) and Minor is a day offset.
// Arithmetic is component-wise; Minor is never carried into Major.
type DateSpan struct {
	Major int
	Minor int
}

// NewDateSpan creates a DateSpan from its components
func NewDateSpan(major, minor int) DateSpan {
	return DateSpan{Major: major, Minor: minor}
}

// Compare returns -1, 0 or +1 ordering by Major, then Minor.
func (s DateSpan) Compare(o DateSpan) int {
	switch {
	case s.Major < o.Major:
		return -1
	case s.Major > o.Major:
		return 1
	case s.Minor < o.Minor:
		return -1
	case s.Minor > o.Minor:
		return 1
	}
	return 0
}

// Less reports whether s orders before o
func (s DateSpan) Less(o DateSpan) bool {
	return s.Compare(o) < 0
}

// Add returns the component-wise sum
func (s DateSpan) Add(o DateSpan) DateSpan {
	return DateSpan{Major: s.Major + o.Major, Minor: s.Minor + o.Minor}
}

// Sub returns the component-wise difference
func (s DateSpan) Sub(o DateSpan) DateSpan {
	return DateSpan{Major: s.Major - o.Major, Minor: s.Minor - o.Minor}
}

func (s DateSpan) String() string {
	return fmt.Sprintf("(%d, %d)", s.Major, s.Minor)
}

// nextSpan picks the smallest candidate at or after current (allowCurrent) or
// strictly after it. Candidates must be sorted ascending.
func nextSpan(candidates []DateSpan, current DateSpan, allowCurrent bool) (DateSpan, bool) {
	for _, c := range candidates {
		cmp := c.Compare(current)
		if cmp > 0 || (allowCurrent && cmp == 0) {
			return c, true
		}
	}
	return DateSpan{}, false
}
