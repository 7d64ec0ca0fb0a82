package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/omarhegazy/event-ticketing/internal/layout"
	"github.com/omarhegazy/event-ticketing/internal/model"
	"github.com/omarhegazy/event-ticketing/internal/utils"
)

// BookingRepo persists bookings and their seat claims.  Create is the
// single write path of the system: one transaction claims the seats,
// inserts the booking row and inserts one booking_seats row per claimed
// seat.  There is intentionally no way to perform these steps separately —
// a partial booking can never be observed.
type BookingRepo struct {
	db    *sql.DB
	seats *SeatRepo
}

// NewBookingRepo returns a BookingRepo bound to the given database.  The
// seat repository supplies the conditional claim used inside the booking
// transaction.
func NewBookingRepo(db *sql.DB, seats *SeatRepo) *BookingRepo {
	return &BookingRepo{db: db, seats: seats}
}

// CreateBookingInput carries the validated customer input for one booking.
// Callers are expected to have run format validation already; Create
// re-checks only what it must own: layout bounds and seat availability.
type CreateBookingInput struct {
	CustomerName  string
	Phone         string
	Email         *string
	Tier          string
	Seats         []model.SeatRef
	PaymentMethod string
	ReceiptRef    *string
}

// Create claims every requested seat, inserts the booking and its seat
// claims, and commits — or rolls the whole thing back.  It returns the
// persisted booking on success.
//
// Error contract:
//  ErrSeatOutOfLayout  – a seat is outside the tier's seeded layout.
//  ErrSeatUnavailable  – a seat was already claimed; nothing was written.
//  ErrSeatNotFound     – a seat inside the layout was never seeded.
// Any other error is a database failure; the transaction is rolled back in
// every non-commit path, so a retry cannot double-claim or orphan rows.
func (r *BookingRepo) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if len(in.Seats) == 0 {
		return nil, fmt.Errorf("create booking: empty seat list")
	}
	tier, ok := layout.Get(in.Tier)
	if !ok {
		return nil, ErrSeatOutOfLayout
	}
	for _, s := range in.Seats {
		if !layout.Contains(in.Tier, s.RowLabel, s.SeatNumber) {
			return nil, ErrSeatOutOfLayout
		}
	}

	// Claim in a fixed (row, number) order so two transactions over
	// overlapping seat sets take their row locks in the same sequence.
	// Unordered claims can deadlock in InnoDB, which would surface as a
	// database error instead of the ErrSeatUnavailable conflict.
	claims := make([]model.SeatRef, len(in.Seats))
	copy(claims, in.Seats)
	sort.Slice(claims, func(i, j int) bool {
		if claims[i].RowLabel != claims[j].RowLabel {
			return claims[i].RowLabel < claims[j].RowLabel
		}
		return claims[i].SeatNumber < claims[j].SeatNumber
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Claim seats first: the conditional UPDATE both reserves the row and
	// detects contention, so the booking row is only written for seats
	// this transaction now owns.
	seatIDs := make([]uint64, 0, len(claims))
	for _, s := range claims {
		id, err := r.seats.ClaimTx(ctx, tx, in.Tier, s.RowLabel, s.SeatNumber)
		if err != nil {
			return nil, err
		}
		seatIDs = append(seatIDs, id)
	}

	b := &model.Booking{
		ID:            utils.NewBookingID(),
		CustomerName:  in.CustomerName,
		Phone:         in.Phone,
		Email:         in.Email,
		Tier:          in.Tier,
		SeatCount:     uint32(len(in.Seats)),
		TotalCents:    tier.PriceCents * uint32(len(in.Seats)),
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: model.PaymentPending,
		ReceiptRef:    in.ReceiptRef,
	}
	const ins = `INSERT INTO bookings
	             (id, customer_name, phone, email, tier, seat_count, total_cents, payment_method, payment_status, receipt_ref)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins,
		b.ID, b.CustomerName, b.Phone, b.Email, b.Tier, b.SeatCount,
		b.TotalCents, b.PaymentMethod, b.PaymentStatus, b.ReceiptRef,
	); err != nil {
		return nil, err
	}

	query := `INSERT INTO booking_seats (booking_id, seat_id, row_label, seat_number) VALUES `
	args := make([]interface{}, 0, len(claims)*4)
	for i, s := range claims {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, b.ID, seatIDs[i], s.RowLabel, s.SeatNumber)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	// Query back timestamps set by the database.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// GetByID returns one booking and its seat claims ordered by row then seat
// number.  ErrBookingNotFound is returned when the ID is unknown.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, []model.BookingSeat, error) {
	const q = `SELECT id, customer_name, phone, email, tier, seat_count, total_cents,
	                  payment_method, payment_status, receipt_ref, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	var email, receipt sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.CustomerName, &b.Phone, &email, &b.Tier, &b.SeatCount,
		&b.TotalCents, &b.PaymentMethod, &b.PaymentStatus, &receipt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}
	if email.Valid {
		v := email.String
		b.Email = &v
	}
	if receipt.Valid {
		v := receipt.String
		b.ReceiptRef = &v
	}

	const seatQ = `SELECT id, booking_id, seat_id, row_label, seat_number, created_at
	               FROM booking_seats
	               WHERE booking_id = ?
	               ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	seats := make([]model.BookingSeat, 0, b.SeatCount)
	for rows.Next() {
		var s model.BookingSeat
		if err := rows.Scan(&s.ID, &s.BookingID, &s.SeatID, &s.RowLabel, &s.SeatNumber, &s.CreatedAt); err != nil {
			return nil, nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &b, seats, nil
}

// ListForReview returns recent bookings for the payment reviewer, newest
// first, optionally filtered by payment status.  Limit is capped at 200.
func (r *BookingRepo) ListForReview(ctx context.Context, status string, limit int) ([]model.Booking, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	q := `SELECT id, customer_name, phone, email, tier, seat_count, total_cents,
	             payment_method, payment_status, receipt_ref, created_at, updated_at
	      FROM bookings`
	args := make([]interface{}, 0, 2)
	if status != "" {
		q += ` WHERE payment_status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		var email, receipt sql.NullString
		if err := rows.Scan(
			&b.ID, &b.CustomerName, &b.Phone, &email, &b.Tier, &b.SeatCount,
			&b.TotalCents, &b.PaymentMethod, &b.PaymentStatus, &receipt,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if email.Valid {
			v := email.String
			b.Email = &v
		}
		if receipt.Valid {
			v := receipt.String
			b.ReceiptRef = &v
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdatePaymentStatus records the reviewer's verdict.  Only pending
// bookings may transition; attempting to re-review one that is already
// confirmed or failed returns ErrInvalidTransition.  An unknown ID
// returns ErrBookingNotFound.
func (r *BookingRepo) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	const upd = `UPDATE bookings SET payment_status = ?, updated_at = CURRENT_TIMESTAMP
	             WHERE id = ? AND payment_status = ?`
	res, err := r.db.ExecContext(ctx, upd, status, id, model.PaymentPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 0 {
		return nil
	}
	const sel = `SELECT payment_status FROM bookings WHERE id = ?`
	var current string
	if err := r.db.QueryRowContext(ctx, sel, id).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	return ErrInvalidTransition
}
