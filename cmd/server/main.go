/*
main.go - HTTP server entry point (interactive trigger)

PURPOSE:
  Serves the reconciliation trigger and run history over HTTP for the
  operator's panel. The engine itself is the same one cmd/reconcile runs.

STARTUP SEQUENCE:
  1. Load .env and parse flags
  2. Open the run-history database
  3. Wire workbook stores, calendar and reconciler
  4. Configure the chi router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -ledger     Ledger workbook path
  -primary    Primary intake feed path
  -secondary  Secondary intake feed path
  -reference  Reference dataset path
  -holidays   JSON holiday file merged over the built-in table
  -runs-db    SQLite run-history path (default: runs.db; ":memory:" works)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait for active requests
  (30s timeout), close the database, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - cmd/reconcile/main.go: The batch entry point
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warp/sla-engine/api"
	"github.com/warp/sla-engine/calendar"
	"github.com/warp/sla-engine/ledger"
	"github.com/warp/sla-engine/store/sqlite"
	"github.com/warp/sla-engine/store/workbook"
)

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", 8080, "HTTP server port")
	ledgerPath := flag.String("ledger", envOr("SLA_LEDGER", "data/ledger.xlsx"), "ledger workbook path")
	primaryPath := flag.String("primary", envOr("SLA_PRIMARY_FEED", "data/primary_feed.xlsx"), "primary intake feed path")
	secondaryPath := flag.String("secondary", envOr("SLA_SECONDARY_FEED", "data/secondary_feed.xlsx"), "secondary intake feed path")
	referencePath := flag.String("reference", envOr("SLA_REFERENCE", "data/reference.xlsx"), "reference dataset path")
	holidayFile := flag.String("holidays", "", "JSON holiday file merged over the built-in table")
	runsDB := flag.String("runs-db", envOr("SLA_RUNS_DB", "runs.db"), "SQLite run-history path")
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

	runs, err := sqlite.New(*runsDB)
	if err != nil {
		log.WithError(err).Fatal("failed to open run-history database")
	}
	defer runs.Close()

	ledgerStore := &workbook.LedgerFile{Path: *ledgerPath}
	rec := &ledger.Reconciler{
		Ledger:    ledgerStore,
		Primary:   &workbook.FeedFile{Path: *primaryPath, Name: "primary feed"},
		Secondary: &workbook.FeedFile{Path: *secondaryPath, Name: "secondary feed"},
		Reference: &workbook.ReferenceFile{Path: *referencePath, Log: log},
		Calendar:  calendar.New(calendar.Config{Holidays: holidays}),
		Runs:      runs,
		Log:       log,
	}

	handler := api.NewHandler(rec, runs, ledgerStore)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", *port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
