package booking

import (
	"sort"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// AssignResult is the outcome of an automatic table assignment. When
// OK is false the reservation stays unassigned; no_table_available is
// a soft failure and must never auto-reject the reservation itself.
type AssignResult struct {
	TableIDs []uint64 `json:"table_ids"`
	OK       bool     `json:"ok"`
	Reason   Reason   `json:"reason,omitempty"`
}

// ReassignResult is the outcome of a manual staff override.
// CapacityWarning is set when the selected tables seat fewer guests
// than the party; the override still succeeds in that case, matching
// the staff workflow where an undersized allocation is deliberate.
type ReassignResult struct {
	OK              bool   `json:"ok"`
	Reason          Reason `json:"reason,omitempty"`
	CapacityWarning bool   `json:"capacity_warning,omitempty"`
}

// Assign picks tables for a reservation among the restaurant's active
// tables that are free for the reservation's date and service. The
// policy is best-fit: the combination with the smallest total capacity
// covering the party wins, preferring a single table, then fewer
// tables, then ascending capacity, zone priority and table id, so the
// result is fully deterministic and explainable to staff.
//
// existing must hold the restaurant's reservations for the target
// date+service; the occupancy scan filters again defensively and is
// re-run on every call, never cached.
func Assign(res model.Reservation, candidates []model.Table, existing []model.Reservation, policy Policy, loc *time.Location) AssignResult {
	if loc == nil {
		loc = time.UTC
	}
	day := res.Date(loc)
	occupied := occupiedTables(existing, loc, day, res.Service, res.ID)

	free := make([]model.Table, 0, len(candidates))
	for _, t := range candidates {
		if t.RestaurantID != res.RestaurantID || !t.IsActive || t.Capacity < 1 {
			continue
		}
		if occupied[t.ID] {
			continue
		}
		free = append(free, t)
	}
	sortTables(free, policy)

	// Prefer a single table: first free table in sort order that fits
	// is by construction the smallest suitable one.
	for _, t := range free {
		if t.Capacity >= res.GuestsCount {
			return AssignResult{TableIDs: []uint64{t.ID}, OK: true}
		}
	}

	if combo := bestCombination(free, res.GuestsCount, policy.maxTables()); combo != nil {
		ids := make([]uint64, len(combo))
		for i, t := range combo {
			ids[i] = t.ID
		}
		return AssignResult{TableIDs: ids, OK: true}
	}
	return AssignResult{OK: false, Reason: ReasonNoTableAvailable}
}

// Reassign validates a manual override. It fails with invalid_table
// when a selected table does not exist, belongs to another restaurant
// or is inactive, and with conflict when a selected table is already
// held by another non-canceled reservation for the same date+service.
// An undersized selection only raises CapacityWarning.
func Reassign(res model.Reservation, newTableIDs []uint64, tables []model.Table, existing []model.Reservation, loc *time.Location) ReassignResult {
	if loc == nil {
		loc = time.UTC
	}
	byID := make(map[uint64]model.Table, len(tables))
	for _, t := range tables {
		byID[t.ID] = t
	}
	total := 0
	seen := make(map[uint64]bool, len(newTableIDs))
	for _, id := range newTableIDs {
		t, ok := byID[id]
		if !ok || t.RestaurantID != res.RestaurantID || !t.IsActive {
			return ReassignResult{OK: false, Reason: ReasonInvalidTable}
		}
		if seen[id] {
			return ReassignResult{OK: false, Reason: ReasonInvalidTable}
		}
		seen[id] = true
		total += t.Capacity
	}

	day := res.Date(loc)
	occupied := occupiedTables(existing, loc, day, res.Service, res.ID)
	for _, id := range newTableIDs {
		if occupied[id] {
			return ReassignResult{OK: false, Reason: ReasonConflict}
		}
	}
	return ReassignResult{OK: true, CapacityWarning: len(newTableIDs) > 0 && total < res.GuestsCount}
}

// HasConflict reports whether keeping the reservation's current table
// assignment would double-book a table against another non-canceled
// reservation on the same date+service. Used as the guard on
// transitions into confirmed.
func HasConflict(res model.Reservation, existing []model.Reservation, loc *time.Location) bool {
	if len(res.TableIDs) == 0 {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	occupied := occupiedTables(existing, loc, res.Date(loc), res.Service, res.ID)
	for _, id := range res.TableIDs {
		if occupied[id] {
			return true
		}
	}
	return false
}

// occupiedTables collects table ids held by non-canceled reservations
// of the same restaurant-local date and service, excluding the
// reservation being (re)assigned.
func occupiedTables(existing []model.Reservation, loc *time.Location, day time.Time, service model.ServiceType, excludeID uint64) map[uint64]bool {
	occupied := make(map[uint64]bool)
	for _, r := range existing {
		if r.ID == excludeID || !r.Active() || r.Service != service {
			continue
		}
		if !sameDay(r.Date(loc), day) {
			continue
		}
		for _, id := range r.TableIDs {
			occupied[id] = true
		}
	}
	return occupied
}

// sortTables orders tables by ascending capacity, then zone priority,
// then id. This is the canonical order all assignment decisions and
// tie-breaks are expressed in.
func sortTables(ts []model.Table, policy Policy) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Capacity != ts[j].Capacity {
			return ts[i].Capacity < ts[j].Capacity
		}
		ri, rj := policy.zoneRank(ts[i].Zone), policy.zoneRank(ts[j].Zone)
		if ri != rj {
			return ri < rj
		}
		return ts[i].ID < ts[j].ID
	})
}

// bestCombination searches combinations of up to maxTables tables
// (free, already in canonical order) whose total capacity covers the
// party, minimizing total capacity, then table count, then canonical
// position. Restaurant table counts are small, so the bounded
// exhaustive search stays cheap.
func bestCombination(free []model.Table, guests, maxTables int) []model.Table {
	var best []model.Table
	bestCap := 0

	var walk func(start int, picked []model.Table, total int)
	walk = func(start int, picked []model.Table, total int) {
		if total >= guests {
			if best == nil || total < bestCap || (total == bestCap && len(picked) < len(best)) {
				best = append([]model.Table(nil), picked...)
				bestCap = total
			}
			return // adding more tables only grows capacity
		}
		if len(picked) == maxTables {
			return
		}
		for i := start; i < len(free); i++ {
			walk(i+1, append(picked, free[i]), total+free[i].Capacity)
		}
	}
	walk(0, nil, 0)
	return best
}
