package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Scenario C: confirming an unassigned pending reservation succeeds
// and leaves it unassigned.
func TestTransitionConfirmWithoutTables(t *testing.T) {
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusPending, 4)
	if err := Transition(&res, EventConfirm, nil, time.UTC); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if res.Status != model.StatusConfirmed || len(res.TableIDs) != 0 {
		t.Fatalf("expected confirmed with no tables, got %+v", res)
	}
}

// Scenario D: canceling a confirmed reservation releases its tables.
func TestTransitionCancelReleasesTables(t *testing.T) {
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 4, 10)
	if err := Transition(&res, EventCancel, nil, time.UTC); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if res.Status != model.StatusCanceled || res.TableIDs != nil {
		t.Fatalf("expected canceled with released tables, got %+v", res)
	}
	// A later conflict scan must not see the canceled reservation.
	other := reservationAt(2, res.DateTimeStart, model.ServiceMidi, model.StatusConfirmed, 4, 10)
	if HasConflict(other, []model.Reservation{res}, time.UTC) {
		t.Fatalf("canceled reservation still counted in conflict scan")
	}
}

func TestTransitionNoShowReleasesTables(t *testing.T) {
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 4, 10)
	if err := Transition(&res, EventNoShow, nil, time.UTC); err != nil {
		t.Fatalf("no_show failed: %v", err)
	}
	if res.Status != model.StatusNoShow || res.TableIDs != nil {
		t.Fatalf("expected no_show with released tables, got %+v", res)
	}
}

func TestTransitionCompleteKeepsTables(t *testing.T) {
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 4, 10)
	if err := Transition(&res, EventComplete, nil, time.UTC); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if res.Status != model.StatusCompleted || len(res.TableIDs) != 1 {
		t.Fatalf("completed reservations keep their historical assignment, got %+v", res)
	}
}

func TestTransitionRefuse(t *testing.T) {
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusPending, 4, 10)
	if err := Transition(&res, EventRefuse, nil, time.UTC); err != nil {
		t.Fatalf("refuse failed: %v", err)
	}
	if res.Status != model.StatusCanceled || res.TableIDs != nil {
		t.Fatalf("expected canceled with released tables, got %+v", res)
	}
}

func TestTransitionRestoreRevalidatesConflicts(t *testing.T) {
	start := day(2026, time.May, 10).Add(12 * time.Hour)
	res := reservationAt(1, start, model.ServiceMidi, model.StatusCanceled, 4, 10)
	taken := []model.Reservation{reservationAt(2, start, model.ServiceMidi, model.StatusConfirmed, 2, 10)}
	err := Transition(&res, EventRestore, taken, time.UTC)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on restore over a taken table, got %v", err)
	}
	if res.Status != model.StatusCanceled {
		t.Fatalf("failed restore must not change state, got %s", res.Status)
	}

	// Free table: restore succeeds back to confirmed.
	if err := Transition(&res, EventRestore, nil, time.UTC); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if res.Status != model.StatusConfirmed {
		t.Fatalf("expected confirmed after restore, got %s", res.Status)
	}
}

func TestTransitionConfirmGuardRescansConflicts(t *testing.T) {
	start := day(2026, time.May, 10).Add(12 * time.Hour)
	res := reservationAt(1, start, model.ServiceMidi, model.StatusPending, 4, 10)
	taken := []model.Reservation{reservationAt(2, start, model.ServiceMidi, model.StatusConfirmed, 2, 10)}
	if err := Transition(&res, EventConfirm, taken, time.UTC); !errors.Is(err, ErrConflict) {
		t.Fatalf("confirm with a taken table must fail conflict, got %v", err)
	}
}

// State machine closure: only the enumerated transitions succeed.
// Scenario E (completed -> anything) is covered by the full sweep.
func TestTransitionClosure(t *testing.T) {
	legal := map[model.ReservationStatus]map[Event]bool{
		model.StatusPending:   {EventConfirm: true, EventRefuse: true},
		model.StatusConfirmed: {EventCancel: true, EventNoShow: true, EventComplete: true},
		model.StatusCanceled:  {EventRestore: true},
		model.StatusCompleted: {},
		model.StatusNoShow:    {},
	}
	events := []Event{EventConfirm, EventRefuse, EventCancel, EventNoShow, EventComplete, EventRestore}
	for from, allowed := range legal {
		for _, ev := range events {
			res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, from, 2)
			err := Transition(&res, ev, nil, time.UTC)
			if allowed[ev] {
				if err != nil {
					t.Fatalf("%s + %s should succeed, got %v", from, ev, err)
				}
			} else {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("%s + %s should be invalid_transition, got %v", from, ev, err)
				}
				if res.Status != from {
					t.Fatalf("illegal move mutated state: %s -> %s", from, res.Status)
				}
			}
		}
	}
}
