package booking

import (
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// DayCounts carries per-service reservation counts for one calendar day.
type DayCounts struct {
	Midi int `json:"midi"`
	Soir int `json:"soir"`
}

// DateKeyFormat is the calendar map key layout.
const DateKeyFormat = "2006-01-02"

// AggregateByDay groups reservations of one month by restaurant-local
// calendar date, counting per service. It is pure and derived entirely
// from the slice passed in; it performs no store access.
//
// Canceled reservations are included when includeCanceled is set —
// the month view historically counts them, and callers opt out rather
// than the aggregator silently dropping them.
func AggregateByDay(reservations []model.Reservation, year int, month time.Month, loc *time.Location, includeCanceled bool) map[string]DayCounts {
	if loc == nil {
		loc = time.UTC
	}
	out := make(map[string]DayCounts)
	for _, r := range reservations {
		if !includeCanceled && r.Status == model.StatusCanceled {
			continue
		}
		d := r.Date(loc)
		if d.Year() != year || d.Month() != month {
			continue
		}
		key := d.Format(DateKeyFormat)
		c := out[key]
		switch r.Service {
		case model.ServiceMidi:
			c.Midi++
		case model.ServiceSoir:
			c.Soir++
		}
		out[key] = c
	}
	return out
}

// DayReservations returns the reservations falling on one local date,
// split by service, for the calendar's day drill-down. Order within a
// service follows the input slice (repositories return reservations
// ordered by start time).
func DayReservations(reservations []model.Reservation, day time.Time, loc *time.Location) (midi, soir []model.Reservation) {
	if loc == nil {
		loc = time.UTC
	}
	for _, r := range reservations {
		if !sameDay(r.Date(loc), day) {
			continue
		}
		switch r.Service {
		case model.ServiceMidi:
			midi = append(midi, r)
		case model.ServiceSoir:
			soir = append(soir, r)
		}
	}
	return midi, soir
}
