package model

import "time"

// Payment status values for a booking.  A booking is created as pending
// and moves to confirmed or failed when a human reviews the payment
// receipt out of band.
const (
	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
	PaymentFailed    = "failed"
)

// Booking records a customer's purchase of one or more seats in a single
// tier.  Its ID is a human-shareable string embedding a timestamp and a
// random suffix, generated by utils.NewBookingID.
//
// Fields:
//  ID            – generated booking identifier (e.g. "BK-MF2K81QX-7H3D").
//  CustomerName  – full name as entered by the customer.
//  Phone         – Egyptian mobile number, 11 digits starting with 01.
//  Email         – optional contact email.
//  Tier          – tier all seats of the booking belong to.
//  SeatCount     – number of seats; equals the number of BookingSeat rows.
//  TotalCents    – total price in piasters for all seats.
//  PaymentMethod – how the customer said they paid (e.g. "vodafone_cash").
//  PaymentStatus – pending, confirmed or failed.
//  ReceiptRef    – optional reference to the uploaded receipt.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp (payment review).
type Booking struct {
	ID            string    // bookings.id
	CustomerName  string    // bookings.customer_name
	Phone         string    // bookings.phone
	Email         *string   // bookings.email (nullable)
	Tier          string    // bookings.tier
	SeatCount     uint32    // bookings.seat_count
	TotalCents    uint32    // bookings.total_cents
	PaymentMethod string    // bookings.payment_method
	PaymentStatus string    // bookings.payment_status
	ReceiptRef    *string   // bookings.receipt_ref (nullable)
	CreatedAt     time.Time // bookings.created_at
	UpdatedAt     time.Time // bookings.updated_at
}

// BookingSeat is the claim of one seat by one booking.  The row label and
// seat number are copied from the seat so that booking listings and
// ticket rendering need no join back to the seats table.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – reference to the booking.
//  SeatID     – reference to the claimed seat.
//  RowLabel   – denormalized copy of seats.row_label.
//  SeatNumber – denormalized copy of seats.seat_number.
//  CreatedAt  – creation timestamp.
type BookingSeat struct {
	ID         uint64    // booking_seats.id
	BookingID  string    // booking_seats.booking_id
	SeatID     uint64    // booking_seats.seat_id
	RowLabel   string    // booking_seats.row_label
	SeatNumber uint32    // booking_seats.seat_number
	CreatedAt  time.Time // booking_seats.created_at
}
