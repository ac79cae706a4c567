package booking

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// Policy carries the tunable knobs of the engine. The zero value is
// usable; DefaultPolicy fills in the usual zone ordering.
type Policy struct {
	// MaxPartySize rejects availability checks above this party size
	// with party_too_large. Zero disables the check.
	MaxPartySize int
	// MaxTablesPerReservation bounds how many tables the automatic
	// assignment may combine for one party. Zero means the engine
	// default of 3.
	MaxTablesPerReservation int
	// ZonePriority orders zones for assignment tie-breaks; lower is
	// preferred. Unlisted zones sort last.
	ZonePriority map[model.Zone]int
	// IncludeCanceledInCalendar controls the default calendar
	// behavior. The source system counted canceled reservations in
	// its month view; keep that unless explicitly overridden.
	IncludeCanceledInCalendar bool
}

const defaultMaxTablesPerReservation = 3

// DefaultPolicy returns the engine defaults: dining room first, then
// terrace, then private room; canceled reservations counted in the
// calendar.
func DefaultPolicy() Policy {
	return Policy{
		MaxTablesPerReservation: defaultMaxTablesPerReservation,
		ZonePriority: map[model.Zone]int{
			model.ZoneSalle:      0,
			model.ZoneTerrasse:   1,
			model.ZoneSalonPrive: 2,
		},
		IncludeCanceledInCalendar: true,
	}
}

func (p Policy) maxTables() int {
	if p.MaxTablesPerReservation > 0 {
		return p.MaxTablesPerReservation
	}
	return defaultMaxTablesPerReservation
}

func (p Policy) zoneRank(z model.Zone) int {
	if r, ok := p.ZonePriority[z]; ok {
		return r
	}
	return len(p.ZonePriority) + 1
}
