package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides CRUD operations for reservations and their
// table assignments. Assignments live in the reservation_tables join
// table and are loaded alongside each reservation. All timestamp
// fields are stored in UTC.
//
// Every write increments the version column; the versioned update
// methods are conditional on the version read by the caller and return
// ErrStaleWrite when the row changed underneath them. That is the
// optimistic-concurrency guard standing in for multi-operation
// transactions across the conflict scan.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for starting transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, restaurant_id, first_name, last_name, phone, email, guests_count,
	date_time_start, service, status, comment, reference, version, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }, m *model.Reservation) error {
	var email, comment sql.NullString
	err := row.Scan(&m.ID, &m.RestaurantID, &m.FirstName, &m.LastName, &m.Phone, &email,
		&m.GuestsCount, &m.DateTimeStart, &m.Service, &m.Status, &comment,
		&m.Reference, &m.Version, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}
	if email.Valid {
		v := email.String
		m.Email = &v
	}
	if comment.Valid {
		v := comment.String
		m.Comment = &v
	}
	return nil
}

// Create inserts a new reservation and its table assignments in one
// transaction. The caller sets Status (pending, or confirmed under
// auto-accept) and Reference; Version starts at 1. On success the
// generated ID, timestamps and defaults are populated.
func (r *ReservationRepo) Create(ctx context.Context, m *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO reservations
	           (restaurant_id, first_name, last_name, phone, email, guests_count,
	            date_time_start, service, status, comment, reference, version)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`
	res, err := tx.ExecContext(ctx, q, m.RestaurantID, m.FirstName, m.LastName, m.Phone,
		m.Email, m.GuestsCount, m.DateTimeStart.UTC(), m.Service, m.Status, m.Comment, m.Reference)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	if err := insertAssignmentsTx(ctx, tx, m.ID, m.TableIDs); err != nil {
		return err
	}

	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	tables := m.TableIDs
	if err := scanReservation(tx.QueryRowContext(ctx, sel, m.ID), m); err != nil {
		return err
	}
	m.TableIDs = tables

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertAssignmentsTx bulk-inserts reservation_tables rows in a single
// statement. Passing an empty slice has no effect and returns nil.
func insertAssignmentsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, tableIDs []uint64) error {
	if len(tableIDs) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_tables (reservation_id, table_id) VALUES `
	args := make([]any, 0, len(tableIDs)*2)
	for i, tid := range tableIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, reservationID, tid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID returns a reservation with its table assignment loaded.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	var m model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := r.loadAssignments(ctx, []*model.Reservation{&m}); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByReferenceAndPhone is the guest lookup: the booking code plus the
// phone it was made with. Phone acts as a weak shared secret so codes
// alone cannot be enumerated.
func (r *ReservationRepo) GetByReferenceAndPhone(ctx context.Context, reference, phone string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE reference = ? AND phone = ? LIMIT 1`
	var m model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, strings.TrimSpace(reference), strings.TrimSpace(phone)), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := r.loadAssignments(ctx, []*model.Reservation{&m}); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByRestaurantBetween returns the restaurant's reservations whose
// start instant falls in [from, to), ordered by start time, with table
// assignments populated. This is the read feeding the availability
// calculator, the conflict scan and the calendar aggregator.
func (r *ReservationRepo) ListByRestaurantBetween(ctx context.Context, restaurantID uint64, from, to time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
	           WHERE restaurant_id = ? AND date_time_start >= ? AND date_time_start < ?
	           ORDER BY date_time_start, id`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var m model.Reservation
		if err := scanReservation(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	refs := make([]*model.Reservation, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.loadAssignments(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

// loadAssignments populates TableIDs for all reservations in a single
// IN query, ordered by table id for deterministic output.
func (r *ReservationRepo) loadAssignments(ctx context.Context, rs []*model.Reservation) error {
	if len(rs) == 0 {
		return nil
	}
	index := make(map[uint64]*model.Reservation, len(rs))
	ids := make([]any, 0, len(rs))
	placeholders := make([]string, 0, len(rs))
	for _, m := range rs {
		m.TableIDs = []uint64{}
		index[m.ID] = m
		ids = append(ids, m.ID)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT reservation_id, table_id FROM reservation_tables
	      WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY reservation_id, table_id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rid, tid uint64
		if err := rows.Scan(&rid, &tid); err != nil {
			return err
		}
		if m, ok := index[rid]; ok {
			m.TableIDs = append(m.TableIDs, tid)
		}
	}
	return rows.Err()
}

// UpdateStatus transitions the status under the version guard. When
// clearTables is set the assignment rows are removed in the same
// transaction (cancel, refuse, no-show release their tables). Returns
// ErrStaleWrite when the version no longer matches and
// ErrReservationNotFound when the row is gone (the retention sweep may
// have deleted it between reads).
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus, clearTables bool, expectedVersion uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE reservations SET status = ?, version = version + 1
	           WHERE id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, q, status, id, expectedVersion)
	if err != nil {
		return err
	}
	if err := checkVersionedResult(ctx, tx, res, id); err != nil {
		return err
	}
	if clearTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_tables WHERE reservation_id = ?`, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateTables replaces the table assignment under the version guard.
func (r *ReservationRepo) UpdateTables(ctx context.Context, id uint64, tableIDs []uint64, expectedVersion uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE reservations SET version = version + 1 WHERE id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, q, id, expectedVersion)
	if err != nil {
		return err
	}
	if err := checkVersionedResult(ctx, tx, res, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_tables WHERE reservation_id = ?`, id); err != nil {
		return err
	}
	if err := insertAssignmentsTx(ctx, tx, id, tableIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateDetails rewrites the guest-facing fields under the version
// guard. Date, service and party size changes invalidate any table
// assignment judgment, so callers re-run the conflict scan before
// confirming afterwards.
func (r *ReservationRepo) UpdateDetails(ctx context.Context, m *model.Reservation, expectedVersion uint64) error {
	const q = `UPDATE reservations
	           SET first_name = ?, last_name = ?, phone = ?, email = ?, guests_count = ?,
	               date_time_start = ?, service = ?, comment = ?, version = version + 1
	           WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, q, m.FirstName, m.LastName, m.Phone, m.Email,
		m.GuestsCount, m.DateTimeStart.UTC(), m.Service, m.Comment, m.ID, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
		return ErrStaleWrite
	}
	return nil
}

// Delete hard-deletes a reservation and its assignment rows. This is
// irreversible and allowed from any state.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_tables WHERE reservation_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeleteCanceledBefore removes canceled reservations created before the
// cutoff. Used by the retention sweep; returns how many rows went away.
func (r *ReservationRepo) DeleteCanceledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const clean = `DELETE rt FROM reservation_tables rt
	               JOIN reservations res ON res.id = rt.reservation_id
	               WHERE res.status = 'canceled' AND res.created_at < ?`
	if _, err := tx.ExecContext(ctx, clean, cutoff.UTC()); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE status = 'canceled' AND created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}

// checkVersionedResult distinguishes a stale write from a vanished row
// after a conditional update matched nothing.
func checkVersionedResult(ctx context.Context, tx *sql.Tx, res sql.Result, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	return ErrStaleWrite
}
