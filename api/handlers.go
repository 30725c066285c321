/*
handlers.go - HTTP handlers over the reconciliation engine

PURPOSE:
  Exposes the batch engine to the operator's panel. Handlers parse the
  request, delegate to the engine or the run-history store, and serialize
  the result; no business logic lives here.

SINGLE-FLIGHT:
  The engine is a single-operator, single-pass design. A mutex around the
  trigger enforces that at the HTTP layer: a second concurrent trigger gets
  409 Conflict instead of a second run.

ERROR MAPPING:
  OutcomeSuccess / OutcomeNothingToDo -> 200 with the run DTO
  OutcomeFailure, structural cause    -> 422 (missing file, bad schema)
  OutcomeFailure, anything else       -> 500

SEE ALSO:
  - dto.go: Response shapes
  - server.go: Router setup
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/warp/sla-engine/ledger"
)

// RunLister reads run history. Implemented by store/sqlite.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]ledger.RunResult, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Reconciler *ledger.Reconciler
	Runs       RunLister
	Ledger     ledger.LedgerStore

	mu      sync.Mutex // single-flight guard for TriggerReconcile
	running bool
}

// NewHandler creates a handler around a wired reconciler.
func NewHandler(rec *ledger.Reconciler, runs RunLister, store ledger.LedgerStore) *Handler {
	return &Handler{Reconciler: rec, Runs: runs, Ledger: store}
}

// TriggerReconcile executes one reconciliation run.
func (h *Handler) TriggerReconcile(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		writeError(w, http.StatusConflict, "a reconciliation run is already in progress")
		return
	}
	h.running = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	result := h.Reconciler.Run(r.Context())

	status := http.StatusOK
	if result.Outcome == ledger.OutcomeFailure {
		if ledger.IsFatal(result.Err) {
			status = http.StatusUnprocessableEntity
		} else {
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, runResultDTO(result))
}

// ListRuns returns run history, newest first. ?limit=N caps the page.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		writeError(w, http.StatusNotFound, "run history is not configured")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.Runs.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, runResultDTO(run))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListOrders returns the ledger rows in canonical form. Blank derived fields
// mean the record is not yet due for classification.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	table, err := h.Ledger.Load(r.Context())
	if err != nil {
		if ledger.IsFatal(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	orders := make([]OrderDTO, 0, table.RowCount())
	for row := 0; row < table.RowCount(); row++ {
		orders = append(orders, orderDTO(table, row))
	}
	writeJSON(w, http.StatusOK, orders)
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorDTO{Error: msg})
}
