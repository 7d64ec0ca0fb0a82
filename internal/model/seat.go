package model

import "time"

// Seat describes one physical seat of the event.  Seats are uniquely
// identified by their tier, row label and seat number, and are seeded
// once from the static layout before sales open.
//
// Fields:
//  ID          – primary key identifier.
//  Tier        – price tier the seat belongs to ("vip" or "classic").
//  RowLabel    – letter designating the row.
//  SeatNumber  – 1-based position of the seat within the row.
//  IsAvailable – false once the seat has been claimed by a booking.
//  CreatedAt   – creation timestamp.
type Seat struct {
	ID          uint64    // seats.id
	Tier        string    // seats.tier
	RowLabel    string    // seats.row_label
	SeatNumber  uint32    // seats.seat_number
	IsAvailable bool      // seats.is_available
	CreatedAt   time.Time // seats.created_at
}

// SeatRef identifies a seat by position only, without the database ID.
// It is the shape clients send when choosing seats and the shape the
// booked-seat listing returns.
type SeatRef struct {
	RowLabel   string `json:"row"`
	SeatNumber uint32 `json:"number"`
}
