package booking

import (
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Event names a staff action driving the reservation state machine.
type Event string

const (
	EventConfirm  Event = "confirm"  // pending   -> confirmed
	EventRefuse   Event = "refuse"   // pending   -> canceled
	EventCancel   Event = "cancel"   // confirmed -> canceled
	EventNoShow   Event = "no_show"  // confirmed -> no_show
	EventComplete Event = "complete" // confirmed -> completed
	EventRestore  Event = "restore"  // canceled  -> confirmed
)

// transitions is the exhaustive table of legal lifecycle moves. There
// is no way out of completed or no_show; hard deletion is a repository
// operation, not a transition.
var transitions = map[model.ReservationStatus]map[Event]model.ReservationStatus{
	model.StatusPending: {
		EventConfirm: model.StatusConfirmed,
		EventRefuse:  model.StatusCanceled,
	},
	model.StatusConfirmed: {
		EventCancel:   model.StatusCanceled,
		EventNoShow:   model.StatusNoShow,
		EventComplete: model.StatusCompleted,
	},
	model.StatusCanceled: {
		EventRestore: model.StatusConfirmed,
	},
}

// Next returns the target state for an event from the given state.
func Next(from model.ReservationStatus, ev Event) (model.ReservationStatus, bool) {
	to, ok := transitions[from][ev]
	return to, ok
}

// Transition applies a lifecycle event to the reservation in place.
//
// Side effects follow the lifecycle rules: moves into canceled or
// no_show release the table assignment; moves into confirmed re-run
// the conflict scan against existing reservations and fail with
// ErrConflict when a held table is no longer free (the reservation's
// date or tables may have changed since staff last looked). Completed
// reservations keep their tables as a historical record.
//
// Illegal moves return ErrInvalidTransition and leave the reservation
// untouched; these indicate a caller bug, not a business rejection.
func Transition(res *model.Reservation, ev Event, existing []model.Reservation, loc *time.Location) error {
	to, ok := Next(res.Status, ev)
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, ev)
	}
	if to == model.StatusConfirmed && HasConflict(*res, existing, loc) {
		return ErrConflict
	}
	res.Status = to
	if to == model.StatusCanceled || to == model.StatusNoShow {
		res.TableIDs = nil
	}
	return nil
}
