package recurrence

import "errors"

// Configuration errors returned by Validate, New and Builder.Build.
var (
	ErrInvalidInterval    = errors.New("interval must be at least 1")
	ErrInvalidDayOfMonth  = errors.New("day of month must be between 1 and 31")
	ErrInvalidOrdinal     = errors.New("invalid week ordinal")
	ErrInvalidWeekday     = errors.New("invalid weekday")
	ErrInvalidRange       = errors.New("start date is after end date")
	ErrInvalidOccurrences = errors.New("occurrences must not be negative")
	ErrUnknownPattern     = errors.New("unknown pattern")
)
