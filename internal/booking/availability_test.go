package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

var testNow = time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)

// openAllWeek returns active schedule rows for every weekday of one service.
func openAllWeek(restaurantID uint64, service model.ServiceType, capacity int) []model.Schedule {
	rows := make([]model.Schedule, 0, 7)
	for wd := 0; wd < 7; wd++ {
		rows = append(rows, model.Schedule{
			RestaurantID: restaurantID,
			Weekday:      wd,
			Service:      service,
			OpensAt:      "12:00",
			ClosesAt:     "14:30",
			Capacity:     capacity,
			IsActive:     true,
		})
	}
	return rows
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckAvailabilityAcceptsOpenDay(t *testing.T) {
	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.May, 10), Service: model.ServiceMidi, Guests: 4}
	dec, err := CheckAvailability(req, openAllWeek(1, model.ServiceMidi, 0), nil, nil, DefaultPolicy(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dec.Accepted || dec.Reason != ReasonNone {
		t.Fatalf("expected accept, got %+v", dec)
	}
}

func TestCheckAvailabilityRejectsPastDate(t *testing.T) {
	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.April, 30), Service: model.ServiceMidi, Guests: 2}
	dec, err := CheckAvailability(req, openAllWeek(1, model.ServiceMidi, 0), nil, nil, DefaultPolicy(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Accepted || dec.Reason != ReasonPastDate {
		t.Fatalf("expected past_date, got %+v", dec)
	}
}

func TestCheckAvailabilityRejectsBlockedDay(t *testing.T) {
	blocks := []model.Block{{RestaurantID: 1, Date: day(2026, time.May, 10)}}
	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.May, 10), Service: model.ServiceSoir, Guests: 2}
	dec, err := CheckAvailability(req, openAllWeek(1, model.ServiceSoir, 0), blocks, nil, DefaultPolicy(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Accepted || dec.Reason != ReasonClosed {
		t.Fatalf("expected closed, got %+v", dec)
	}
}

func TestCheckAvailabilityServiceScopedBlock(t *testing.T) {
	midi := model.ServiceMidi
	blocks := []model.Block{{RestaurantID: 1, Date: day(2026, time.May, 10), Service: &midi}}
	scheds := append(openAllWeek(1, model.ServiceMidi, 0), openAllWeek(1, model.ServiceSoir, 0)...)

	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.May, 10), Service: model.ServiceMidi, Guests: 2}
	dec, _ := CheckAvailability(req, scheds, blocks, nil, DefaultPolicy(), testNow)
	if dec.Accepted || dec.Reason != ReasonClosed {
		t.Fatalf("expected MIDI closed, got %+v", dec)
	}

	req.Service = model.ServiceSoir
	dec, _ = CheckAvailability(req, scheds, blocks, nil, DefaultPolicy(), testNow)
	if !dec.Accepted {
		t.Fatalf("SOIR should stay open under a MIDI-only block, got %+v", dec)
	}
}

func TestCheckAvailabilityRejectsNoService(t *testing.T) {
	// Open for MIDI only; asking for SOIR must yield no_service.
	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.May, 10), Service: model.ServiceSoir, Guests: 2}
	dec, err := CheckAvailability(req, openAllWeek(1, model.ServiceMidi, 0), nil, nil, DefaultPolicy(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Accepted || dec.Reason != ReasonNoService {
		t.Fatalf("expected no_service, got %+v", dec)
	}
}

func TestCheckAvailabilityRejectsFull(t *testing.T) {
	existing := []model.Reservation{
		{ID: 1, RestaurantID: 1, GuestsCount: 6, DateTimeStart: day(2026, time.May, 10).Add(12 * time.Hour), Service: model.ServiceMidi, Status: model.StatusConfirmed},
		{ID: 2, RestaurantID: 1, GuestsCount: 2, DateTimeStart: day(2026, time.May, 10).Add(12 * time.Hour), Service: model.ServiceMidi, Status: model.StatusPending},
		// canceled load must not count toward the ceiling
		{ID: 3, RestaurantID: 1, GuestsCount: 8, DateTimeStart: day(2026, time.May, 10).Add(12 * time.Hour), Service: model.ServiceMidi, Status: model.StatusCanceled},
	}
	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.May, 10), Service: model.ServiceMidi, Guests: 4}
	dec, _ := CheckAvailability(req, openAllWeek(1, model.ServiceMidi, 10), nil, existing, DefaultPolicy(), testNow)
	if dec.Accepted || dec.Reason != ReasonFull {
		t.Fatalf("expected full at 8+4 > 10, got %+v", dec)
	}

	req.Guests = 2
	dec, _ = CheckAvailability(req, openAllWeek(1, model.ServiceMidi, 10), nil, existing, DefaultPolicy(), testNow)
	if !dec.Accepted {
		t.Fatalf("expected accept at 8+2 <= 10, got %+v", dec)
	}
}

func TestCheckAvailabilityRejectsPartyTooLarge(t *testing.T) {
	policy := DefaultPolicy()
	policy.MaxPartySize = 8
	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.May, 10), Service: model.ServiceMidi, Guests: 9}
	dec, _ := CheckAvailability(req, openAllWeek(1, model.ServiceMidi, 0), nil, nil, policy, testNow)
	if dec.Accepted || dec.Reason != ReasonPartyTooLarge {
		t.Fatalf("expected party_too_large, got %+v", dec)
	}

	// Without a configured maximum large parties pass the size check.
	dec, _ = CheckAvailability(req, openAllWeek(1, model.ServiceMidi, 0), nil, nil, DefaultPolicy(), testNow)
	if !dec.Accepted {
		t.Fatalf("expected accept without a max party size, got %+v", dec)
	}
}

func TestCheckAvailabilityValidation(t *testing.T) {
	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.May, 10), Service: model.ServiceMidi, Guests: 0}
	if _, err := CheckAvailability(req, nil, nil, nil, DefaultPolicy(), testNow); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for zero guests, got %v", err)
	}
	req.Guests = 2
	req.Service = "BRUNCH"
	if _, err := CheckAvailability(req, nil, nil, nil, DefaultPolicy(), testNow); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown service, got %v", err)
	}
}

func TestCheckAvailabilityIdempotent(t *testing.T) {
	scheds := openAllWeek(1, model.ServiceMidi, 20)
	existing := []model.Reservation{
		{ID: 1, RestaurantID: 1, GuestsCount: 6, DateTimeStart: day(2026, time.May, 10).Add(12 * time.Hour), Service: model.ServiceMidi, Status: model.StatusConfirmed},
	}
	req := AvailabilityRequest{RestaurantID: 1, Date: day(2026, time.May, 10), Service: model.ServiceMidi, Guests: 4}
	first, err := CheckAvailability(req, scheds, nil, existing, DefaultPolicy(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := CheckAvailability(req, scheds, nil, existing, DefaultPolicy(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("isBookable not idempotent: %+v vs %+v", first, second)
	}
}
