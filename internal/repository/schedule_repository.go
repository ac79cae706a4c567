package repository // repository defines data access for weekly schedules and blocks

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrScheduleNotFound is returned when a schedule lookup yields no rows.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepo stores the weekly opening plan: one row per restaurant,
// weekday and service. The availability calculator consumes these rows
// read-only.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

const scheduleCols = `id, restaurant_id, weekday, service, opens_at, closes_at, capacity, is_active, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }, s *model.Schedule) error {
	return row.Scan(&s.ID, &s.RestaurantID, &s.Weekday, &s.Service, &s.OpensAt,
		&s.ClosesAt, &s.Capacity, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

// Upsert inserts or replaces the row for (restaurant, weekday, service).
// The unique key on those columns makes the operation idempotent, so
// the back-office can resubmit the whole weekly grid at once.
func (r *ScheduleRepo) Upsert(ctx context.Context, s *model.Schedule) error {
	const q = `INSERT INTO schedules (restaurant_id, weekday, service, opens_at, closes_at, capacity, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             opens_at = VALUES(opens_at), closes_at = VALUES(closes_at),
	             capacity = VALUES(capacity), is_active = VALUES(is_active)`
	if _, err := r.db.ExecContext(ctx, q, s.RestaurantID, s.Weekday, s.Service, s.OpensAt, s.ClosesAt, s.Capacity, s.IsActive); err != nil {
		return err
	}
	const sel = `SELECT ` + scheduleCols + ` FROM schedules
	             WHERE restaurant_id = ? AND weekday = ? AND service = ?`
	return scanSchedule(r.db.QueryRowContext(ctx, sel, s.RestaurantID, s.Weekday, s.Service), s)
}

// ListByRestaurant returns the full weekly grid ordered by weekday then
// service.
func (r *ScheduleRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Schedule, error) {
	const q = `SELECT ` + scheduleCols + ` FROM schedules
	           WHERE restaurant_id = ?
	           ORDER BY weekday, service`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Schedule, 0)
	for rows.Next() {
		var s model.Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes one schedule row of a restaurant.
func (r *ScheduleRepo) Delete(ctx context.Context, id, restaurantID uint64) error {
	const q = `DELETE FROM schedules WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, restaurantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
