package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrRestaurantNotFound is returned when a restaurant lookup fails.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantRepo provides methods to create and retrieve restaurants.
// It embeds a database handle to perform queries and commands.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo with the given DB handle.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

// DB exposes the underlying handle for starting transactions.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

const restaurantCols = `id, owner_id, name, address, phone, timezone, auto_accept, subscription_status, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...any) error }, m *model.Restaurant) error {
	return row.Scan(&m.ID, &m.OwnerID, &m.Name, &m.Address, &m.Phone, &m.Timezone,
		&m.AutoAccept, &m.Subscription, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a new restaurant. OwnerID and Name must be set; new
// accounts start on a trial subscription. After insert the record is
// read back so timestamps and defaults are populated.
func (r *RestaurantRepo) Create(ctx context.Context, m *model.Restaurant) error {
	if m.Timezone == "" {
		m.Timezone = "UTC"
	}
	if m.Subscription == "" {
		m.Subscription = model.SubscriptionTrialing
	}
	const q = `INSERT INTO restaurants (owner_id, name, address, phone, timezone, auto_accept, subscription_status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.OwnerID, m.Name, m.Address, m.Phone, m.Timezone, m.AutoAccept, m.Subscription)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT ` + restaurantCols + ` FROM restaurants WHERE id = ?`
	return scanRestaurant(r.db.QueryRowContext(ctx, sel, m.ID), m)
}

// GetByID retrieves a restaurant by its ID regardless of owner. It
// returns ErrRestaurantNotFound when no row is found.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	const q = `SELECT ` + restaurantCols + ` FROM restaurants WHERE id = ?`
	var m model.Restaurant
	if err := scanRestaurant(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetByIDAndOwner retrieves a restaurant only if it belongs to the
// given owner. This helper is used to enforce resource ownership.
func (r *RestaurantRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Restaurant, error) {
	const q = `SELECT ` + restaurantCols + ` FROM restaurants WHERE id = ? AND owner_id = ?`
	var m model.Restaurant
	if err := scanRestaurant(r.db.QueryRowContext(ctx, q, id, ownerID), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all restaurants ordered by name. Used by the public
// browse endpoints; callers should not expose subscription status to
// guests.
func (r *RestaurantRepo) List(ctx context.Context) ([]model.Restaurant, error) {
	const q = `SELECT ` + restaurantCols + ` FROM restaurants ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Restaurant, 0)
	for rows.Next() {
		var m model.Restaurant
		if err := scanRestaurant(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListByOwner returns the owner's restaurants ordered by name.
func (r *RestaurantRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Restaurant, error) {
	const q = `SELECT ` + restaurantCols + ` FROM restaurants WHERE owner_id = ? ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Restaurant, 0)
	for rows.Next() {
		var m model.Restaurant
		if err := scanRestaurant(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update modifies the mutable fields of a restaurant owned by ownerID.
// Ownership is verified first so a foreign restaurant yields
// ErrForbidden rather than a silent no-op.
func (r *RestaurantRepo) Update(ctx context.Context, m *model.Restaurant, ownerID uint64) error {
	cur, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if cur.OwnerID != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE restaurants
	           SET name = ?, address = ?, phone = ?, timezone = ?, auto_accept = ?
	           WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, m.Name, m.Address, m.Phone, m.Timezone, m.AutoAccept, m.ID)
	return err
}

// UpdateSubscription sets the billing status flag. The billing system
// is external; admins mirror its webhooks through this call.
func (r *RestaurantRepo) UpdateSubscription(ctx context.Context, id uint64, status model.SubscriptionStatus) error {
	const q = `UPDATE restaurants SET subscription_status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}
