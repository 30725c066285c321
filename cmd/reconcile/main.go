/*
main.go - One-shot reconciliation run (the operator entry point)

PURPOSE:
  Runs one batch pass: merge both intake feeds into the ledger, cross-fill
  from the reference dataset, derive SLA deadlines for the new records,
  commit, clear the feeds.

COMMAND-LINE FLAGS:
  -ledger     Ledger workbook path (default: data/ledger.xlsx)
  -primary    Primary intake feed path (default: data/primary_feed.xlsx)
  -secondary  Secondary intake feed path (default: data/secondary_feed.xlsx)
  -reference  Reference dataset path; optional (default: data/reference.xlsx)
  -holidays   JSON holiday file merged over the built-in 2025-2026 table
  -runs-db    SQLite run-history path; empty disables history
  -as-of      Override "today" for remaining-days (YYYY-MM-DD); for replays

ENVIRONMENT:
  A .env file in the working directory is loaded first; flags beat
  environment values. SLA_LEDGER, SLA_PRIMARY_FEED, SLA_SECONDARY_FEED,
  SLA_REFERENCE, SLA_RUNS_DB mirror the flags.

EXIT CODES:
  0  success, or nothing to do
  1  failure (structural error or commit failure); the ledger is untouched
     unless the error message says the commit already happened

SEE ALSO:
  - cmd/server/main.go: The HTTP trigger around the same engine
  - ledger/reconciler.go: The run state machine
*/
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warp/sla-engine/calendar"
	"github.com/warp/sla-engine/ledger"
	"github.com/warp/sla-engine/store/sqlite"
	"github.com/warp/sla-engine/store/workbook"
)

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	ledgerPath := flag.String("ledger", envOr("SLA_LEDGER", "data/ledger.xlsx"), "ledger workbook path")
	primaryPath := flag.String("primary", envOr("SLA_PRIMARY_FEED", "data/primary_feed.xlsx"), "primary intake feed path")
	secondaryPath := flag.String("secondary", envOr("SLA_SECONDARY_FEED", "data/secondary_feed.xlsx"), "secondary intake feed path")
	referencePath := flag.String("reference", envOr("SLA_REFERENCE", "data/reference.xlsx"), "reference dataset path (optional file)")
	holidayFile := flag.String("holidays", "", "JSON holiday file merged over the built-in table")
	runsDB := flag.String("runs-db", envOr("SLA_RUNS_DB", ""), "SQLite run-history path (empty disables)")
	asOf := flag.String("as-of", "", "override today for remaining-days (YYYY-MM-DD)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	holidays := calendar.DefaultHolidays()
	if *holidayFile != "" {
		extra, err := calendar.LoadHolidays(*holidayFile)
		if err != nil {
			log.WithError(err).Fatal("invalid holiday file")
		}
		holidays = append(holidays, extra...)
	}

	rec := &ledger.Reconciler{
		Ledger:    &workbook.LedgerFile{Path: *ledgerPath},
		Primary:   &workbook.FeedFile{Path: *primaryPath, Name: "primary feed"},
		Secondary: &workbook.FeedFile{Path: *secondaryPath, Name: "secondary feed"},
		Reference: &workbook.ReferenceFile{Path: *referencePath, Log: log},
		Calendar:  calendar.New(calendar.Config{Holidays: holidays}),
		Log:       log,
	}

	if *asOf != "" {
		today, err := time.Parse("2006-01-02", *asOf)
		if err != nil {
			log.WithError(err).Fatal("invalid -as-of date")
		}
		rec.Now = func() time.Time { return today }
	}

	if *runsDB != "" {
		store, err := sqlite.New(*runsDB)
		if err != nil {
			log.WithError(err).Fatal("failed to open run-history database")
		}
		defer store.Close()
		rec.Runs = store
	}

	result := rec.Run(context.Background())
	if result.Outcome == ledger.OutcomeFailure {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
