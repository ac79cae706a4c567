package repository // repository defines data access for restaurant tables

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrTableNotFound is returned when a table lookup yields no rows.
var ErrTableNotFound = errors.New("table not found")

// TableRepo provides methods to work with physical tables. Rows live
// in the restaurant_tables table; assignments to reservations live in
// the reservation_tables join table owned by ReservationRepo.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

const tableCols = `id, restaurant_id, name, capacity, zone, is_active, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }, t *model.Table) error {
	return row.Scan(&t.ID, &t.RestaurantID, &t.Name, &t.Capacity, &t.Zone,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a single table record. On success the ID is populated
// and the row is read back for timestamps and defaults.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO restaurant_tables (restaurant_id, name, capacity, zone, is_active)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.RestaurantID, t.Name, t.Capacity, t.Zone, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + tableCols + ` FROM restaurant_tables WHERE id = ?`
	return scanTable(r.db.QueryRowContext(ctx, sel, t.ID), t)
}

// GetByID retrieves a table by its id (no ownership check).
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableCols + ` FROM restaurant_tables WHERE id = ?`
	var t model.Table
	if err := scanTable(r.db.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByRestaurant retrieves all tables of a restaurant ordered by
// zone then name. Inactive tables are included; the assignment engine
// filters them itself.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	const q = `SELECT ` + tableCols + ` FROM restaurant_tables
	           WHERE restaurant_id = ?
	           ORDER BY zone, name, id`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := scanTable(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update modifies name, capacity, zone and active flag. The caller is
// responsible for the capacity-immutability guard (see
// MinCapacityRequired) before lowering capacity.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE restaurant_tables
	           SET name = ?, capacity = ?, zone = ?, is_active = ?
	           WHERE id = ? AND restaurant_id = ?`
	if _, err := r.GetByID(ctx, t.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, q, t.Name, t.Capacity, t.Zone, t.IsActive, t.ID, t.RestaurantID)
	return err
}

// MinCapacityRequired returns the largest party size among non-canceled
// reservations whose whole allocation is this single table. Lowering
// the table's capacity below that value would break the capacity
// invariant of those reservations, so callers must reject it.
func (r *TableRepo) MinCapacityRequired(ctx context.Context, tableID uint64) (int, error) {
	const q = `SELECT COALESCE(MAX(res.guests_count), 0)
	           FROM reservations res
	           JOIN reservation_tables rt ON rt.reservation_id = res.id
	           WHERE rt.table_id = ?
	             AND res.status <> 'canceled'
	             AND (SELECT COUNT(*) FROM reservation_tables rt2 WHERE rt2.reservation_id = res.id) = 1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, tableID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a table. It returns ErrConflict while any non-canceled
// reservation references the table; staff should deactivate instead.
func (r *TableRepo) Delete(ctx context.Context, id, restaurantID uint64) error {
	const check = `SELECT COUNT(*)
	               FROM reservation_tables rt
	               JOIN reservations res ON res.id = rt.reservation_id
	               WHERE rt.table_id = ? AND res.status <> 'canceled'`
	var n int
	if err := r.db.QueryRowContext(ctx, check, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	const q = `DELETE FROM restaurant_tables WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, restaurantID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTableNotFound
	}
	return nil
}
