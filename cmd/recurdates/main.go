// Command recurdates prints the dates of a daily, weekly or monthly
// recurrence as plain text, iCalendar or xCal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/cyp0633/recurdates/ical"
	"github.com/cyp0633/recurdates/recurrence"
)

func main() {
	err := run(os.Args[1:], env.ToMap(os.Environ()), os.Stdout, os.Stderr, time.Now)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, environ map[string]string, stdout, stderr io.Writer, now func() time.Time) error {
	defaults, err := parseEnv(environ)
	if err != nil {
		return err
	}
	opts, err := parseFlags(args, defaults, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	rec, err := opts.build(recurrence.NewBuilder().WithLogger(logger), recurrence.DateOf(now()))
	if err != nil {
		return fmt.Errorf("failed to build recurrence: %w", err)
	}
	from, to, err := opts.window()
	if err != nil {
		return err
	}

	logger.Debug("writing recurrence",
		"format", opts.format,
		"limit", opts.limit,
		"start", rec.StartDate().Format(time.DateOnly),
		"end", rec.EndDate().Format(time.DateOnly))

	encodeOpts := ical.DefaultEncodeOptions
	encodeOpts.Summary = opts.summary
	encodeOpts.From = from
	encodeOpts.To = to
	encodeOpts.Limit = opts.limit
	encodeOpts.Now = now

	switch opts.format {
	case formatICS:
		return ical.EncodeOccurrences(stdout, rec, encodeOpts)
	case formatICSRules:
		return ical.EncodeRules(stdout, rec, encodeOpts)
	case formatXCal:
		return ical.EncodeXML(stdout, rec, encodeOpts)
	}
	return writeText(stdout, rec, from, to, opts.limit)
}

func writeText(w io.Writer, rec *recurrence.Recurrence, from, to time.Time, limit int) error {
	if from.IsZero() {
		from = rec.StartDate()
	}
	if to.IsZero() {
		to = rec.EndDate()
	}
	for _, date := range recurrence.Collect(rec.DatesBetween(from, to), limit) {
		if _, err := fmt.Fprintln(w, date.Format(time.DateOnly)); err != nil {
			return err
		}
	}
	return nil
}
