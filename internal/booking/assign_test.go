package booking

import (
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func table(id uint64, capacity int, zone model.Zone) model.Table {
	return model.Table{ID: id, RestaurantID: 1, Name: "T", Capacity: capacity, Zone: zone, IsActive: true}
}

func reservationAt(id uint64, d time.Time, service model.ServiceType, status model.ReservationStatus, guests int, tableIDs ...uint64) model.Reservation {
	return model.Reservation{
		ID: id, RestaurantID: 1, GuestsCount: guests,
		DateTimeStart: d, Service: service, Status: status, TableIDs: tableIDs,
	}
}

// Scenario A: one table of capacity 4, party of 4 -> that table.
func TestAssignSingleTableFits(t *testing.T) {
	tables := []model.Table{table(10, 4, model.ZoneSalle)}
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusPending, 4)
	got := Assign(res, tables, nil, DefaultPolicy(), time.UTC)
	if !got.OK || len(got.TableIDs) != 1 || got.TableIDs[0] != 10 {
		t.Fatalf("expected table 10, got %+v", got)
	}
}

// Scenario B: the only table is held by a confirmed reservation of the
// same date+service -> soft failure no_table_available.
func TestAssignNoTableAvailable(t *testing.T) {
	tables := []model.Table{table(10, 4, model.ZoneSalle)}
	start := day(2026, time.May, 10).Add(12 * time.Hour)
	existing := []model.Reservation{reservationAt(1, start, model.ServiceMidi, model.StatusConfirmed, 4, 10)}
	res := reservationAt(2, start, model.ServiceMidi, model.StatusPending, 2)
	got := Assign(res, tables, existing, DefaultPolicy(), time.UTC)
	if got.OK || got.Reason != ReasonNoTableAvailable {
		t.Fatalf("expected no_table_available, got %+v", got)
	}
}

// Scenario D follow-up: a canceled reservation frees its table for the scan.
func TestAssignIgnoresCanceledReservations(t *testing.T) {
	tables := []model.Table{table(10, 4, model.ZoneSalle)}
	start := day(2026, time.May, 10).Add(12 * time.Hour)
	existing := []model.Reservation{reservationAt(1, start, model.ServiceMidi, model.StatusCanceled, 4, 10)}
	res := reservationAt(2, start, model.ServiceMidi, model.StatusPending, 2)
	got := Assign(res, tables, existing, DefaultPolicy(), time.UTC)
	if !got.OK || got.TableIDs[0] != 10 {
		t.Fatalf("canceled reservation must not block the table, got %+v", got)
	}
}

func TestAssignDifferentServiceDoesNotConflict(t *testing.T) {
	tables := []model.Table{table(10, 4, model.ZoneSalle)}
	start := day(2026, time.May, 10)
	existing := []model.Reservation{reservationAt(1, start.Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 4, 10)}
	res := reservationAt(2, start.Add(19*time.Hour), model.ServiceSoir, model.StatusPending, 4)
	got := Assign(res, tables, existing, DefaultPolicy(), time.UTC)
	if !got.OK {
		t.Fatalf("SOIR must not conflict with a MIDI booking, got %+v", got)
	}
}

func TestAssignBestFitPrefersSmallestSufficientTable(t *testing.T) {
	tables := []model.Table{
		table(1, 8, model.ZoneSalle),
		table(2, 4, model.ZoneSalle),
		table(3, 2, model.ZoneSalle),
		table(4, 4, model.ZoneTerrasse),
	}
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusPending, 3)
	got := Assign(res, tables, nil, DefaultPolicy(), time.UTC)
	// Two capacity-4 tables fit; zone priority puts salle before terrasse.
	if !got.OK || len(got.TableIDs) != 1 || got.TableIDs[0] != 2 {
		t.Fatalf("expected best-fit table 2, got %+v", got)
	}
}

func TestAssignTieBreaksByTableID(t *testing.T) {
	tables := []model.Table{
		table(7, 4, model.ZoneSalle),
		table(3, 4, model.ZoneSalle),
	}
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusPending, 4)
	got := Assign(res, tables, nil, DefaultPolicy(), time.UTC)
	if !got.OK || got.TableIDs[0] != 3 {
		t.Fatalf("equal tables must tie-break by ascending id, got %+v", got)
	}
}

func TestAssignCombinesTablesForLargeParty(t *testing.T) {
	tables := []model.Table{
		table(1, 4, model.ZoneSalle),
		table(2, 4, model.ZoneSalle),
		table(3, 2, model.ZoneSalle),
	}
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusPending, 6)
	got := Assign(res, tables, nil, DefaultPolicy(), time.UTC)
	if !got.OK {
		t.Fatalf("expected a combination, got %+v", got)
	}
	// Minimal covering capacity is 6: the 2-seat plus one 4-seat table.
	total := 0
	seen := map[uint64]bool{}
	for _, id := range got.TableIDs {
		seen[id] = true
		for _, tb := range tables {
			if tb.ID == id {
				total += tb.Capacity
			}
		}
	}
	if total != 6 || !seen[3] {
		t.Fatalf("expected capacity-6 combination including table 3, got %+v", got)
	}
}

func TestAssignSkipsInactiveAndForeignTables(t *testing.T) {
	inactive := table(1, 4, model.ZoneSalle)
	inactive.IsActive = false
	foreign := table(2, 4, model.ZoneSalle)
	foreign.RestaurantID = 99
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusPending, 2)
	got := Assign(res, []model.Table{inactive, foreign}, nil, DefaultPolicy(), time.UTC)
	if got.OK {
		t.Fatalf("inactive/foreign tables must never be assigned, got %+v", got)
	}
}

// Monotonic capacity: a successful assignment always covers the party.
func TestAssignNeverReturnsInsufficientCapacity(t *testing.T) {
	tables := []model.Table{
		table(1, 2, model.ZoneSalle),
		table(2, 2, model.ZoneSalle),
		table(3, 4, model.ZoneTerrasse),
	}
	for guests := 1; guests <= 12; guests++ {
		res := reservationAt(uint64(guests), day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusPending, guests)
		got := Assign(res, tables, nil, DefaultPolicy(), time.UTC)
		if !got.OK {
			continue
		}
		total := 0
		for _, id := range got.TableIDs {
			for _, tb := range tables {
				if tb.ID == id {
					total += tb.Capacity
				}
			}
		}
		if total < guests {
			t.Fatalf("guests=%d assigned capacity %d: %+v", guests, total, got)
		}
	}
}

// No double-booking: sequential assignments never share a table.
func TestAssignDisjointAcrossReservations(t *testing.T) {
	tables := []model.Table{
		table(1, 2, model.ZoneSalle),
		table(2, 4, model.ZoneSalle),
		table(3, 4, model.ZoneTerrasse),
	}
	start := day(2026, time.May, 10).Add(12 * time.Hour)
	var existing []model.Reservation
	used := map[uint64]bool{}
	for i := 1; i <= 3; i++ {
		res := reservationAt(uint64(i), start, model.ServiceMidi, model.StatusPending, 2)
		got := Assign(res, tables, existing, DefaultPolicy(), time.UTC)
		if !got.OK {
			break
		}
		for _, id := range got.TableIDs {
			if used[id] {
				t.Fatalf("table %d assigned twice", id)
			}
			used[id] = true
		}
		res.TableIDs = got.TableIDs
		res.Status = model.StatusConfirmed
		existing = append(existing, res)
	}
	if len(existing) != 3 {
		t.Fatalf("expected three parties of 2 to fit on 2+4+4 seats, placed %d", len(existing))
	}
}

// Scenario F: reassigning to a table of another restaurant fails.
func TestReassignInvalidTable(t *testing.T) {
	foreign := table(5, 4, model.ZoneSalle)
	foreign.RestaurantID = 99
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 4)
	got := Reassign(res, []uint64{5}, []model.Table{foreign}, nil, time.UTC)
	if got.OK || got.Reason != ReasonInvalidTable {
		t.Fatalf("expected invalid_table, got %+v", got)
	}

	inactive := table(6, 4, model.ZoneSalle)
	inactive.IsActive = false
	got = Reassign(res, []uint64{6}, []model.Table{inactive}, nil, time.UTC)
	if got.OK || got.Reason != ReasonInvalidTable {
		t.Fatalf("expected invalid_table for inactive table, got %+v", got)
	}
}

func TestReassignUndersizedWarnsButSucceeds(t *testing.T) {
	tables := []model.Table{table(1, 2, model.ZoneSalle)}
	res := reservationAt(1, day(2026, time.May, 10).Add(12*time.Hour), model.ServiceMidi, model.StatusConfirmed, 6)
	got := Reassign(res, []uint64{1}, tables, nil, time.UTC)
	if !got.OK {
		t.Fatalf("undersized override must still succeed, got %+v", got)
	}
	if !got.CapacityWarning {
		t.Fatalf("expected capacity warning for 2 seats vs 6 guests")
	}
}

func TestReassignConflictingTableFails(t *testing.T) {
	tables := []model.Table{table(1, 4, model.ZoneSalle), table(2, 4, model.ZoneSalle)}
	start := day(2026, time.May, 10).Add(12 * time.Hour)
	existing := []model.Reservation{reservationAt(2, start, model.ServiceMidi, model.StatusConfirmed, 4, 1)}
	res := reservationAt(1, start, model.ServiceMidi, model.StatusConfirmed, 4, 2)
	got := Reassign(res, []uint64{1}, tables, existing, time.UTC)
	if got.OK || got.Reason != ReasonConflict {
		t.Fatalf("expected conflict, got %+v", got)
	}
}
