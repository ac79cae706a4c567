// Package queue defines message payloads exchanged over the message broker.
package queue

// QueueReservationConfirmed and QueueReservationCanceled are the durable
// queue names the publisher and consumer agree on.
const (
	QueueReservationConfirmed = "reservation.confirmed"
	QueueReservationCanceled  = "reservation.canceled"
)

// ReservationEvent is published when a reservation is confirmed or
// canceled. It carries enough information for downstream consumers to
// log, notify the guest, or feed analytics without querying the primary
// database. EventID is a UUID so consumers can deduplicate redeliveries.
type ReservationEvent struct {
	EventID        string   `json:"event_id"`
	ReservationID  uint64   `json:"reservation_id"`
	Reference      string   `json:"reference"`
	RestaurantID   uint64   `json:"restaurant_id"`
	RestaurantName string   `json:"restaurant_name"`
	GuestName      string   `json:"guest_name"`
	GuestPhone     string   `json:"guest_phone"`
	GuestsCount    int      `json:"guests_count"`
	Date           string   `json:"date"`
	Service        string   `json:"service"`
	TableIDs       []uint64 `json:"table_ids,omitempty"`
	OccurredAt     string   `json:"occurred_at"`
}
