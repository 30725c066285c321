/*
errors.go - Error catalog for the reconciliation run

PURPOSE:
  All error kinds the run can surface, in one place. Structural failures
  (missing file, missing column) abort the run before any commit; per-field
  failures degrade to blank values and never appear here.

ERROR KINDS:
  MissingSourceError: A required file (ledger, either intake feed) is absent
  SchemaError:        A required column is absent after header normalization

USAGE:
  Callers branch on the run Outcome rather than on error types; these errors
  exist so the Failure outcome carries an inspectable, wrappable cause:

    if errors.Is(result.Err, ledger.ErrMissingSource) { ... }

  An empty-feed run is not an error at all: it surfaces as
  OutcomeNothingToDo with a nil Err.

SEE ALSO:
  - reconciler.go: Produces these errors and maps them onto outcomes
*/
package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingSource is returned when a required input file does not exist.
	// Fatal: the run aborts before any mutation.
	ErrMissingSource = errors.New("required source file missing")

	// ErrSchema is returned when a required column is absent after header
	// normalization. Fatal: the run aborts before commit.
	ErrSchema = errors.New("required column missing")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingSourceError names the absent file.
type MissingSourceError struct {
	Source string // "ledger", "primary feed", "secondary feed"
	Path   string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Source, e.Path)
}

func (e *MissingSourceError) Unwrap() error { return ErrMissingSource }

// SchemaError lists the canonical columns that could not be bound.
type SchemaError struct {
	Source  string // which file failed to bind
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s",
		e.Source, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsFatal reports whether err is a structural failure that aborted the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingSource) || errors.Is(err, ErrSchema)
}
