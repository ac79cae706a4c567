package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrBlockNotFound is returned when a block lookup yields no rows.
var ErrBlockNotFound = errors.New("block not found")

// BlockRepo stores explicit closures overriding the weekly schedule
// for specific dates. A NULL service means the whole day is closed.
type BlockRepo struct {
	db *sql.DB
}

// NewBlockRepo constructs a BlockRepo with the given DB handle.
func NewBlockRepo(db *sql.DB) *BlockRepo {
	return &BlockRepo{db: db}
}

// Create inserts a closure. Date is stored as a bare DATE column.
func (r *BlockRepo) Create(ctx context.Context, b *model.Block) error {
	const q = `INSERT INTO blocks (restaurant_id, block_date, service, reason) VALUES (?, ?, ?, ?)`
	var svc any
	if b.Service != nil {
		svc = string(*b.Service)
	}
	res, err := r.db.ExecContext(ctx, q, b.RestaurantID, b.Date.Format("2006-01-02"), svc, b.Reason)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// ListByRestaurant returns blocks within [from, to] ordered by date.
// The zero time for either bound leaves that side open.
func (r *BlockRepo) ListByRestaurant(ctx context.Context, restaurantID uint64, from, to time.Time) ([]model.Block, error) {
	q := `SELECT id, restaurant_id, block_date, service, reason, created_at FROM blocks WHERE restaurant_id = ?`
	args := []any{restaurantID}
	if !from.IsZero() {
		q += ` AND block_date >= ?`
		args = append(args, from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q += ` AND block_date <= ?`
		args = append(args, to.Format("2006-01-02"))
	}
	q += ` ORDER BY block_date, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Block, 0)
	for rows.Next() {
		var b model.Block
		var svc sql.NullString
		if err := rows.Scan(&b.ID, &b.RestaurantID, &b.Date, &svc, &b.Reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		if svc.Valid {
			s := model.ServiceType(svc.String)
			b.Service = &s
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete removes one block of a restaurant.
func (r *BlockRepo) Delete(ctx context.Context, id, restaurantID uint64) error {
	const q = `DELETE FROM blocks WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, restaurantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBlockNotFound
	}
	return nil
}
