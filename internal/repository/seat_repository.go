package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"

	"github.com/omarhegazy/event-ticketing/internal/model"
)

// SeatRepo provides methods to work with the seats table.  Reads order
// rows lexicographically by row label and numerically by seat number so
// that seat maps render deterministically.  All timestamps are UTC.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions that
// span seats and bookings.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// ListAvailable returns all seats of a tier that have not been claimed,
// ordered by row label then seat number.
func (r *SeatRepo) ListAvailable(ctx context.Context, tier string) ([]model.Seat, error) {
	return r.listByAvailability(ctx, tier, true)
}

// ListBooked returns the positions of all claimed seats of a tier, the
// complement of ListAvailable, in the same order.
func (r *SeatRepo) ListBooked(ctx context.Context, tier string) ([]model.SeatRef, error) {
	seats, err := r.listByAvailability(ctx, tier, false)
	if err != nil {
		return nil, err
	}
	refs := make([]model.SeatRef, 0, len(seats))
	for _, s := range seats {
		refs = append(refs, model.SeatRef{RowLabel: s.RowLabel, SeatNumber: s.SeatNumber})
	}
	return refs, nil
}

func (r *SeatRepo) listByAvailability(ctx context.Context, tier string, available bool) ([]model.Seat, error) {
	const q = `SELECT id, tier, row_label, seat_number, is_available, created_at
	           FROM seats
	           WHERE tier = ? AND is_available = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, tier, available)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.Tier, &s.RowLabel, &s.SeatNumber, &s.IsAvailable, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LayoutBounds returns, per row label, the highest seat number seeded for
// the tier.  Callers use it to verify that later operations stay within
// the seeded bounds.
func (r *SeatRepo) LayoutBounds(ctx context.Context, tier string) (map[string]uint32, error) {
	const q = `SELECT row_label, MAX(seat_number)
	           FROM seats
	           WHERE tier = ?
	           GROUP BY row_label
	           ORDER BY row_label`
	rows, err := r.db.QueryContext(ctx, q, tier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bounds := make(map[string]uint32)
	for rows.Next() {
		var label string
		var max uint32
		if err := rows.Scan(&label, &max); err != nil {
			return nil, err
		}
		bounds[label] = max
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bounds, nil
}

// CountByTier returns the total number of seeded seats for a tier,
// regardless of availability.  The seeder uses it to keep seeding
// idempotent.
func (r *SeatRepo) CountByTier(ctx context.Context, tier string) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE tier = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, tier).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateBulk inserts multiple seats in a single statement.  It is used by
// the seed step only; availability defaults to true in the database.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (tier, row_label, seat_number) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, seat.Tier, seat.RowLabel, seat.SeatNumber)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ClaimTx flips one seat's availability flag from true to false within the
// provided transaction and returns the claimed seat's ID.  The UPDATE is
// conditional on is_available so that two bookings racing for the same
// seat cannot both succeed: the loser sees zero affected rows and gets
// ErrSeatUnavailable, rolling back its whole transaction.  A seat missing
// from the table entirely yields ErrSeatNotFound.
func (r *SeatRepo) ClaimTx(ctx context.Context, tx *sql.Tx, tier, rowLabel string, seatNumber uint32) (uint64, error) {
	const upd = `UPDATE seats SET is_available = 0
	             WHERE tier = ? AND row_label = ? AND seat_number = ? AND is_available = 1`
	res, err := tx.ExecContext(ctx, upd, tier, rowLabel, seatNumber)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Distinguish a contested seat from one that was never seeded.
		const sel = `SELECT id FROM seats WHERE tier = ? AND row_label = ? AND seat_number = ?`
		var id uint64
		if err := tx.QueryRowContext(ctx, sel, tier, rowLabel, seatNumber).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, ErrSeatNotFound
			}
			return 0, err
		}
		return 0, ErrSeatUnavailable
	}
	const sel = `SELECT id FROM seats WHERE tier = ? AND row_label = ? AND seat_number = ?`
	var id uint64
	if err := tx.QueryRowContext(ctx, sel, tier, rowLabel, seatNumber).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
