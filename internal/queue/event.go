// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omarhegazy/event-ticketing/internal/model"
)

// BookingCreatedEvent is published when a booking commits.  It feeds the
// payment-review log so the reviewer sees new bookings without polling
// the API, and carries enough to match an incoming WhatsApp receipt
// without querying the primary database.
type BookingCreatedEvent struct {
	EventID       string   `json:"event_id"`
	BookingID     string   `json:"booking_id"`
	CustomerName  string   `json:"customer_name"`
	Phone         string   `json:"phone"`
	Tier          string   `json:"tier"`
	SeatLabels    []string `json:"seats"`
	TotalCents    uint32   `json:"total_cents"`
	PaymentMethod string   `json:"payment_method"`
	CreatedAt     string   `json:"created_at"`
}

// NewBookingCreatedEvent builds the event for a freshly committed booking.
// The EventID is a UUID so consumers can deduplicate redeliveries.
func NewBookingCreatedEvent(b *model.Booking, seats []model.SeatRef) BookingCreatedEvent {
	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		labels = append(labels, fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber))
	}
	return BookingCreatedEvent{
		EventID:       uuid.NewString(),
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		Phone:         b.Phone,
		Tier:          b.Tier,
		SeatLabels:    labels,
		TotalCents:    b.TotalCents,
		PaymentMethod: b.PaymentMethod,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
