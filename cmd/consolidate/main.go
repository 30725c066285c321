/*
main.go - Consolidate raw CSV exports into the primary feed

PURPOSE:
  The upstream system drops pending-work CSVs into a raw directory.
  This tool concatenates them onto the primary feed's fixed column set and
  writes the feed workbook the next reconciliation run will ingest.

COMMAND-LINE FLAGS:
  -csv  Glob pattern of export files (default: data_raw/pending_*.csv)
  -out  Primary feed workbook to write (default: data/primary_feed.xlsx)
*/
package main

import (
	"flag"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warp/sla-engine/store/workbook"
)

func main() {
	_ = godotenv.Load()

	pattern := flag.String("csv", "data_raw/pending_*.csv", "glob pattern of CSV exports")
	out := flag.String("out", "data/primary_feed.xlsx", "primary feed workbook to write")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	n, err := workbook.ConsolidateCSV(*pattern, *out)
	if err != nil {
		log.WithError(err).Fatal("consolidation failed")
	}
	log.WithFields(logrus.Fields{"rows": n, "out": *out}).Info("primary feed consolidated")
}
