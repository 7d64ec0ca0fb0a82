// Package repository defines data access for seats, bookings and booking
// seats.  The sentinel errors below let handlers distinguish failure
// scenarios without string matching: ErrSeatUnavailable maps to HTTP 409,
// ErrSeatOutOfLayout to 422 and the not-found errors to 404.
package repository

import "errors"

// ErrSeatUnavailable is returned when a booking attempts to claim a seat
// whose availability flag has already been flipped by another booking.
// The conditional UPDATE enforcing this runs inside the booking
// transaction, so the whole write rolls back and may be retried with
// different seats.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrSeatOutOfLayout is returned when a requested (row, number) pair does
// not exist in the seeded layout for the tier.
var ErrSeatOutOfLayout = errors.New("seat outside tier layout")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrInvalidTransition is returned when a payment review tries to move a
// booking out of a terminal status.  Only pending bookings may be
// confirmed or failed.
var ErrInvalidTransition = errors.New("invalid payment status transition")
