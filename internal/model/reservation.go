package model

import "time"

// ReservationStatus is the closed set of lifecycle states a reservation
// can be in. Transitions between states are governed exclusively by the
// booking package's state machine; repositories and handlers never set
// a status directly.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCanceled  ReservationStatus = "canceled"
	StatusNoShow    ReservationStatus = "no_show"
)

// Valid reports whether s is one of the known reservation statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// ServiceType identifies one of the two daily seating windows:
// MIDI (lunch) or SOIR (dinner).
type ServiceType string

const (
	ServiceMidi ServiceType = "MIDI"
	ServiceSoir ServiceType = "SOIR"
)

// Valid reports whether t is a known service type.
func (t ServiceType) Valid() bool {
	return t == ServiceMidi || t == ServiceSoir
}

// Reservation records a guest's booking for one service at a restaurant.
// TableIDs holds the physical tables allocated to the party; it may be
// empty when no assignment has been made (staff can confirm unassigned
// reservations). Version is an optimistic concurrency token incremented
// on every write: conditional updates compare it and fail with a stale
// write error when the row changed since it was read.
//
// Fields:
//  ID            – primary key identifier.
//  RestaurantID  – restaurant being booked.
//  FirstName     – guest first name.
//  LastName      – guest last name.
//  Phone         – guest phone number.
//  Email         – optional guest email.
//  GuestsCount   – party size (>= 1).
//  DateTimeStart – start instant of the seating.
//  Service       – MIDI or SOIR.
//  Status        – lifecycle state (see ReservationStatus).
//  TableIDs      – tables allocated to the party, possibly empty.
//  Comment       – optional free-form note from the guest or staff.
//  Reference     – human-readable booking code shown to guests.
//  Version       – optimistic concurrency token.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uint64            `json:"id"`
	RestaurantID  uint64            `json:"restaurant_id"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	Phone         string            `json:"phone"`
	Email         *string           `json:"email,omitempty"`
	GuestsCount   int               `json:"guests_count"`
	DateTimeStart time.Time         `json:"date_time_start"`
	Service       ServiceType       `json:"service"`
	Status        ReservationStatus `json:"status"`
	TableIDs      []uint64          `json:"table_ids"`
	Comment       *string           `json:"comment,omitempty"`
	Reference     string            `json:"reference"`
	Version       uint64            `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Date returns the calendar date of the seating in the given location.
// Availability checks, conflict scans and calendar grouping all work on
// restaurant-local dates, never on raw instants.
func (r Reservation) Date(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t := r.DateTimeStart.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Active reports whether the reservation occupies tables for conflict
// purposes. Canceled reservations never hold tables.
func (r Reservation) Active() bool {
	return r.Status != StatusCanceled
}
