package booking

import (
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func TestAggregateByDayCountsPerService(t *testing.T) {
	rs := []model.Reservation{
		reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 2),
		reservationAt(2, day(2026, time.May, 10).Add(13*time.Hour), model.ServiceMidi, model.StatusPending, 4),
		reservationAt(3, day(2026, time.May, 10).Add(19*time.Hour), model.ServiceSoir, model.StatusConfirmed, 2),
		reservationAt(4, day(2026, time.May, 11).Add(19*time.Hour), model.ServiceSoir, model.StatusConfirmed, 2),
		// outside the requested month
		reservationAt(5, day(2026, time.June, 1).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 2),
	}
	got := AggregateByDay(rs, 2026, time.May, time.UTC, true)
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d: %v", len(got), got)
	}
	if c := got["2026-05-10"]; c.Midi != 2 || c.Soir != 1 {
		t.Fatalf("2026-05-10 counts wrong: %+v", c)
	}
	if c := got["2026-05-11"]; c.Midi != 0 || c.Soir != 1 {
		t.Fatalf("2026-05-11 counts wrong: %+v", c)
	}
}

func TestAggregateByDayCanceledBehavior(t *testing.T) {
	rs := []model.Reservation{
		reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 2),
		reservationAt(2, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusCanceled, 2),
	}
	// Default behavior counts canceled reservations, like the source.
	if c := AggregateByDay(rs, 2026, time.May, time.UTC, true)["2026-05-10"]; c.Midi != 2 {
		t.Fatalf("canceled should count when included, got %+v", c)
	}
	if c := AggregateByDay(rs, 2026, time.May, time.UTC, false)["2026-05-10"]; c.Midi != 1 {
		t.Fatalf("canceled should be dropped when excluded, got %+v", c)
	}
}

func TestAggregateByDayUsesLocalDates(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 22:30 UTC on May 10 is already May 11 in Paris (CEST, UTC+2).
	rs := []model.Reservation{
		reservationAt(1, time.Date(2026, time.May, 10, 22, 30, 0, 0, time.UTC), model.ServiceSoir, model.StatusConfirmed, 2),
	}
	got := AggregateByDay(rs, 2026, time.May, paris, true)
	if c := got["2026-05-11"]; c.Soir != 1 {
		t.Fatalf("expected the booking on the Paris-local date, got %v", got)
	}
}

func TestDayReservationsSplitsByService(t *testing.T) {
	rs := []model.Reservation{
		reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 2),
		reservationAt(2, day(2026, time.May, 10).Add(19*time.Hour), model.ServiceSoir, model.StatusPending, 4),
		reservationAt(3, day(2026, time.May, 11).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 2),
	}
	midi, soir := DayReservations(rs, day(2026, time.May, 10), time.UTC)
	if len(midi) != 1 || midi[0].ID != 1 {
		t.Fatalf("midi split wrong: %+v", midi)
	}
	if len(soir) != 1 || soir[0].ID != 2 {
		t.Fatalf("soir split wrong: %+v", soir)
	}
}
