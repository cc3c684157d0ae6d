// Package ical exports recurrences as RRULE options, iCalendar (RFC 5545) and
// xCal (RFC 6321) documents.
//
// Two calendar shapes are supported. EncodeRules describes each pattern with an
// RRULE, which keeps unbounded recurrences compact but cannot express an
// occurrence cap shared by several rules. EncodeOccurrences materializes the
// dates as individual all-day events and is exact for every recurrence.
package ical
