// Package booking implements the reservation core: the availability
// calculator, the table-assignment engine, the reservation state
// machine and the calendar aggregator. Everything here is a pure
// function over models already loaded from the database; the package
// never talks to the store itself, which keeps every decision
// deterministic and unit-testable.
package booking

import "errors"

// Reason is a machine-readable business rejection attached to a
// structured result. Reasons are user-facing: handlers map them to
// actionable messages rather than generic failures.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonClosed           Reason = "closed"
	ReasonNoService        Reason = "no_service"
	ReasonFull             Reason = "full"
	ReasonPastDate         Reason = "past_date"
	ReasonPartyTooLarge    Reason = "party_too_large"
	ReasonNoTableAvailable Reason = "no_table_available"
	ReasonInvalidTable     Reason = "invalid_table"
	ReasonConflict         Reason = "conflict"
)

// ErrInvalidTransition is returned for a state-machine move not listed
// in the transition table. Illegal moves indicate a caller bug, so this
// is a hard error rather than a structured rejection.
var ErrInvalidTransition = errors.New("invalid_transition")

// ErrConflict is returned when a transition into confirmed cannot keep
// its table assignment because another active reservation took one of
// the tables in the meantime.
var ErrConflict = errors.New("conflict")

// ErrValidation wraps malformed input: non-positive guest counts or
// unknown service types. Callers translate it into HTTP 400.
var ErrValidation = errors.New("validation_error")
