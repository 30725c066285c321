/*
reconciler.go - The reconciliation-and-deadline run

PURPOSE:
  Drives one single-operator batch pass end to end:

    1. Load the ledger (dropping a stray blank row under the header) and
       bind the schema once.
    2. Build the historical key set.
    3. Normalize the primary feed; every surviving row is a candidate,
       historical membership notwithstanding (see POLICY below).
    4. Normalize the secondary feed; rows already in the historical key set
       are dropped.
    5. If no candidates resulted, stop with the NothingToDo outcome.
    6. Cross-fill the candidates from the reference dataset.
    7. Append the candidates, collecting an explicit handle per new row.
    8. Cross-fill the whole ledger (pre-existing rows included).
    9. For each appended handle with a blank deadline: resolve the rule,
       compute the deadline through the business calendar, derive
       remaining-days against "today" and classify the status.
   10. Commit in a single write; only then clear both intake feeds.

PRIMARY-FEED SUPERSEDE POLICY:
  Dedup against the historical ledger is deliberately asymmetric. The primary
  feed is the system of record for pending work and is appended
  unconditionally: a re-observed order id means a fresh observation that
  supersedes the stale row (the old row keeps its derived fields untouched).
  The secondary feed is a hand-maintained template and IS deduplicated. This
  is a named, tested policy, not an accident of implementation.

DURABILITY:
  Step 10's ordering is the run's only durability guarantee: feeds are
  cleared strictly after the ledger write succeeds, so a crash in between
  never loses un-ingested source rows.

SEE ALSO:
  - sla: rule table and status classifier applied in step 9
  - calendar: working-day arithmetic for the deadline
  - store.go: the persistence interfaces this run is written against
*/
package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/sla-engine/calendar"
	"github.com/warp/sla-engine/sla"
)

// =============================================================================
// RUN RESULT
// =============================================================================

// Outcome classifies how a run ended. Callers (batch job, HTTP trigger)
// branch on this instead of catching error subtypes.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeNothingToDo Outcome = "nothing_to_do"
	OutcomeFailure     Outcome = "failure"
)

// RunResult is the inspectable record of one reconciliation run.
type RunResult struct {
	RunID    string
	Outcome  Outcome
	Started  time.Time
	Finished time.Time

	Appended    int      // records appended to the ledger
	Computed    int      // derived-field triples written
	Skipped     int      // appended records left without a deadline
	CrossFilled int      // cells filled from the reference dataset
	NewOrderIDs []string // explicit handles of the appended records

	Err error // set when Outcome is OutcomeFailure
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler wires the stores, calendar and clock for one or more runs.
// All fields except Runs and Log are required.
type Reconciler struct {
	Ledger    LedgerStore
	Primary   FeedStore
	Secondary FeedStore
	Reference ReferenceStore
	Calendar  *calendar.Calendar

	// Runs, when set, receives every finished RunResult.
	Runs RunRecorder

	// Log defaults to logrus.StandardLogger().
	Log *logrus.Logger

	// Now supplies "today" for remaining-days computation. Evaluated once
	// per run so every record shares the same reference date. Defaults to
	// time.Now.
	Now func() time.Time
}

// Run executes one reconciliation pass. The returned result always has a
// terminal outcome; Err is non-nil only for OutcomeFailure.
func (r *Reconciler) Run(ctx context.Context) RunResult {
	result := RunResult{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	result = r.run(ctx, result)
	result.Finished = time.Now()

	log := r.logger().WithFields(logrus.Fields{
		"run_id":   result.RunID,
		"outcome":  result.Outcome,
		"appended": result.Appended,
		"computed": result.Computed,
	})
	switch result.Outcome {
	case OutcomeFailure:
		log.WithError(result.Err).Error("reconciliation run failed")
	case OutcomeNothingToDo:
		log.Info("reconciliation run found nothing to do")
	default:
		log.Info("reconciliation run committed")
	}

	if r.Runs != nil {
		if err := r.Runs.RecordRun(ctx, result); err != nil {
			r.logger().WithError(err).Warn("failed to record run history")
		}
	}
	return result
}

func (r *Reconciler) run(ctx context.Context, result RunResult) RunResult {
	fail := func(err error) RunResult {
		result.Outcome = OutcomeFailure
		result.Err = err
		return result
	}

	// Steps 1-2: load ledger, bind schema, index historical keys.
	table, err := r.Ledger.Load(ctx)
	if err != nil {
		return fail(err)
	}
	historical := table.HistoricalKeys()
	r.logger().WithField("historical_orders", len(historical)).Debug("ledger loaded")

	// Step 3: primary feed, appended unconditionally (supersede policy).
	primaryFeed, err := r.Primary.Read(ctx)
	if err != nil {
		return fail(err)
	}
	candidates, err := NormalizePrimary(primaryFeed)
	if err != nil {
		return fail(err)
	}

	// Step 4: secondary feed, deduplicated against the historical key set.
	secondaryFeed, err := r.Secondary.Read(ctx)
	if err != nil {
		return fail(err)
	}
	secondary, err := NormalizeSecondary(secondaryFeed)
	if err != nil {
		return fail(err)
	}
	for _, rec := range secondary {
		if historical[rec.OrderID] {
			continue
		}
		candidates = append(candidates, rec)
	}

	// Step 5: nothing to do is a distinct, non-destructive outcome.
	if len(candidates) == 0 {
		result.Outcome = OutcomeNothingToDo
		return result
	}

	// Reference dataset is optional; absence degrades to a logged no-op.
	ref, err := r.Reference.Read(ctx)
	if err != nil {
		return fail(err)
	}
	if len(ref) == 0 {
		r.logger().Info("reference dataset unavailable, cross-fill skipped")
	}

	// Step 6: cross-fill candidates before they are appended.
	result.CrossFilled += CrossFillRecords(candidates, ref)

	// Step 7: append, collecting explicit handles.
	handles := make([]Handle, 0, len(candidates))
	for _, rec := range candidates {
		h := table.Append(rec)
		handles = append(handles, h)
		result.NewOrderIDs = append(result.NewOrderIDs, h.OrderID)
	}
	result.Appended = len(handles)

	// Step 8: ledger-wide cross-fill catches pre-existing gaps.
	result.CrossFilled += CrossFillTable(table, ref)

	// Step 9: derived fields for the newly appended handles only.
	today := dateOnly(r.now()())
	for _, h := range handles {
		if r.computeDerived(table, h, today) {
			result.Computed++
		} else {
			result.Skipped++
		}
	}

	// Step 10: single commit, then feed cleanup.
	if err := r.Ledger.Commit(ctx, table); err != nil {
		return fail(fmt.Errorf("commit ledger: %w", err))
	}
	if err := r.Primary.Clear(ctx); err != nil {
		return fail(fmt.Errorf("ledger committed but primary feed cleanup failed: %w", err))
	}
	if err := r.Secondary.Clear(ctx); err != nil {
		return fail(fmt.Errorf("ledger committed but secondary feed cleanup failed: %w", err))
	}

	result.Outcome = OutcomeSuccess
	return result
}

// computeDerived writes the deadline/remaining/status triple for one
// appended row. Returns false when the row is skipped: deadline already set
// (immutability), no rule matched, or the status-change date is missing or
// malformed. Skipped rows keep blank derived fields and may resolve on a
// future run.
func (r *Reconciler) computeDerived(table *Table, h Handle, today time.Time) bool {
	detail := table.Get(h.Row, ColVisitDetail)

	// A first-visit label forces the C07 work-order code even when the
	// derived fields end up skipped.
	if code, ok := sla.ForcedVisitType(detail); ok {
		if table.Get(h.Row, ColVisitType) != code {
			table.Set(h.Row, ColVisitType, code)
		}
	}

	// Immutability: never recompute a non-blank deadline.
	if !isBlank(table.Get(h.Row, ColDeadlineDate)) {
		return false
	}

	days, ok := sla.Resolve(detail, table.Get(h.Row, ColVisitType))
	if !ok {
		r.logger().WithFields(logrus.Fields{
			"order_id": h.OrderID,
			"detail":   detail,
		}).Debug("no SLA rule matched, derived fields left blank")
		return false
	}

	start, err := ParseDate(table.Get(h.Row, ColStatusChangeDate))
	if err != nil {
		r.logger().WithFields(logrus.Fields{
			"order_id": h.OrderID,
			"value":    table.Get(h.Row, ColStatusChangeDate),
		}).Warn("unparseable status-change date, record skipped for SLA")
		return false
	}

	deadline := r.Calendar.AddWorkingDays(start, days)
	remaining := int(deadline.Sub(today).Hours() / 24)

	table.Set(h.Row, ColDeadlineDate, deadline.Format(DateLayout))
	table.Set(h.Row, ColDaysRemaining, strconv.Itoa(remaining))
	table.Set(h.Row, ColSLAStatus, string(sla.Classify(&remaining)))
	return true
}

func (r *Reconciler) logger() *logrus.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logrus.StandardLogger()
}

func (r *Reconciler) now() func() time.Time {
	if r.Now != nil {
		return r.Now
	}
	return time.Now
}

// =============================================================================
// DATE PARSING
// =============================================================================

// DateLayout is the canonical date format written into derived fields.
const DateLayout = "2006-01-02"

// dateLayouts are the formats the intake feeds have been observed to carry.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
	"02-01-2006",
	"01-02-06", // excelize's default short date rendering
}

// ParseDate parses a status-change date from any of the known feed formats,
// returning the date truncated to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	v := s
	if isBlank(v) {
		return time.Time{}, fmt.Errorf("blank date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
