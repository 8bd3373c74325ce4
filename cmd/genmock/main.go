// Command genmock generates snapshot fixtures for a range of dates. It drives
// the real generator with a fake clock set to local noon of each day, so the
// output matches what the scheduled command would have produced on that day.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -from 2024-01-15 \
//	  -to 2024-01-21 \
//	  -dir testdata/output
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/couchcryptid/astro-snapshots/internal/adapter/filestore"
	"github.com/couchcryptid/astro-snapshots/internal/adapter/meeus"
	"github.com/couchcryptid/astro-snapshots/internal/generator"
	"github.com/couchcryptid/astro-snapshots/internal/observability"
	"github.com/jonboulle/clockwork"
)

// maxDays bounds a single invocation.
const maxDays = 3660

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	from := flag.String("from", "", "first date, YYYY-MM-DD")
	to := flag.String("to", "", "last date, YYYY-MM-DD (defaults to -from)")
	dir := flag.String("dir", "testdata/output", "output directory")
	tz := flag.String("tz", "Europe/Rome", "IANA timezone")
	flag.Parse()

	if *from == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -from")
	}
	if *to == "" {
		*to = *from
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	days, err := dateRange(*from, *to, loc)
	if err != nil {
		return err
	}

	written, err := generateDays(context.Background(), days, loc, filestore.New(*dir))
	if err != nil {
		return err
	}
	log.Printf("%d days, %d snapshots written to %s", len(days), written, *dir)
	return nil
}

// dateRange returns local noon of every day from first to last inclusive.
func dateRange(first, last string, loc *time.Location) ([]time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", first, loc)
	if err != nil {
		return nil, fmt.Errorf("parse -from: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", last, loc)
	if err != nil {
		return nil, fmt.Errorf("parse -to: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("-to %s is before -from %s", last, first)
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if len(days) == maxDays {
			return nil, fmt.Errorf("range exceeds %d days", maxDays)
		}
		days = append(days, time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc))
	}
	return days, nil
}

func generateDays(ctx context.Context, days []time.Time, loc *time.Location, store *filestore.Store) (int, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eph := meeus.New()
	total := 0
	for _, day := range days {
		gen := generator.New(clockwork.NewFakeClockAt(day), loc, eph, store, nil, logger, observability.NewMetrics())
		res, err := gen.Run(ctx)
		if err != nil {
			return total, fmt.Errorf("generate %s: %w", day.Format("2006-01-02"), err)
		}
		total += len(res.Written)
	}
	return total, nil
}
