package booking

import (
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// AvailabilityRequest describes one isBookable question: can this
// party be seated at this restaurant for that date and service?
type AvailabilityRequest struct {
	RestaurantID uint64
	Date         time.Time // calendar date in the restaurant's location
	Service      model.ServiceType
	Guests       int
}

// Decision is the structured answer of the availability calculator.
// Accepted decisions carry an empty reason; rejections carry exactly
// one of the availability reasons.
type Decision struct {
	Accepted bool   `json:"accepted"`
	Reason   Reason `json:"reason,omitempty"`
}

func accept() Decision          { return Decision{Accepted: true} }
func reject(r Reason) Decision  { return Decision{Accepted: false, Reason: r} }

// CheckAvailability decides whether a new booking is acceptable. It is
// a pure read: safe to call repeatedly and concurrently, it never
// mutates its inputs. Checks run in a fixed order so the returned
// reason is deterministic: past_date, closed (block), no_service
// (no open schedule row), party_too_large, full (seat ceiling).
//
// The existing slice should contain the restaurant's reservations for
// the requested date; reservations for other dates or services are
// ignored defensively. now is injected for testability and compared on
// calendar dates in the same location as req.Date.
func CheckAvailability(req AvailabilityRequest, schedules []model.Schedule, blocks []model.Block, existing []model.Reservation, policy Policy, now time.Time) (Decision, error) {
	if req.Guests < 1 {
		return Decision{}, fmt.Errorf("%w: guests_count must be >= 1", ErrValidation)
	}
	if !req.Service.Valid() {
		return Decision{}, fmt.Errorf("%w: unknown service type %q", ErrValidation, req.Service)
	}

	loc := req.Date.Location()
	today := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return reject(ReasonPastDate), nil
	}

	for _, b := range blocks {
		if b.RestaurantID == req.RestaurantID && b.Covers(day, req.Service) {
			return reject(ReasonClosed), nil
		}
	}

	sched, ok := scheduleFor(schedules, req.RestaurantID, day.Weekday(), req.Service)
	if !ok {
		return reject(ReasonNoService), nil
	}

	if policy.MaxPartySize > 0 && req.Guests > policy.MaxPartySize {
		return reject(ReasonPartyTooLarge), nil
	}

	if sched.Capacity > 0 {
		booked := bookedGuests(existing, req.RestaurantID, day, req.Service)
		if booked+req.Guests > sched.Capacity {
			return reject(ReasonFull), nil
		}
	}
	return accept(), nil
}

// scheduleFor finds the active schedule row for a weekday+service.
func scheduleFor(schedules []model.Schedule, restaurantID uint64, wd time.Weekday, service model.ServiceType) (model.Schedule, bool) {
	for _, s := range schedules {
		if s.RestaurantID == restaurantID && s.IsActive && s.Weekday == int(wd) && s.Service == service {
			return s, true
		}
	}
	return model.Schedule{}, false
}

// bookedGuests sums the party sizes of pending and confirmed
// reservations for the given local date and service. Completed and
// no-show reservations are historical; canceled ones never count.
func bookedGuests(existing []model.Reservation, restaurantID uint64, day time.Time, service model.ServiceType) int {
	total := 0
	for _, r := range existing {
		if r.RestaurantID != restaurantID || r.Service != service {
			continue
		}
		if r.Status != model.StatusPending && r.Status != model.StatusConfirmed {
			continue
		}
		if !sameDay(r.Date(day.Location()), day) {
			continue
		}
		total += r.GuestsCount
	}
	return total
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
