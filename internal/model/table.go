package model

import "time"

// Zone is a physical area of the restaurant used for table grouping and
// assignment preference.
type Zone string

const (
	ZoneSalle      Zone = "salle"
	ZoneTerrasse   Zone = "terrasse"
	ZoneSalonPrive Zone = "salon_prive"
)

// Valid reports whether z is a known zone.
func (z Zone) Valid() bool {
	return z == ZoneSalle || z == ZoneTerrasse || z == ZoneSalonPrive
}

// Table represents a physical table in a restaurant. Capacity is the
// number of guests the table seats; IsActive is a soft availability
// flag (an inactive table is never assigned and never counts toward
// capacity) kept separate from reservation state.
type Table struct {
	ID           uint64    `json:"id"`
	RestaurantID uint64    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	Zone         Zone      `json:"zone"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
