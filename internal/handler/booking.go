package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/event-ticketing/internal/config"
	"github.com/omarhegazy/event-ticketing/internal/layout"
	"github.com/omarhegazy/event-ticketing/internal/model"
	"github.com/omarhegazy/event-ticketing/internal/queue"
	"github.com/omarhegazy/event-ticketing/internal/repository"
	queue_publisher "github.com/omarhegazy/event-ticketing/internal/service"
	"github.com/omarhegazy/event-ticketing/internal/ticket"
	"github.com/omarhegazy/event-ticketing/internal/validate"
)

// BookingHandler drives the booking flow: validating customer input,
// invoking the transactional writer and serving booking details and
// per-seat ticket downloads.  It holds no state of its own — the
// in-progress selection lives entirely on the client until the create
// call.
type BookingHandler struct {
	BookingRepo *repository.BookingRepo // transactional booking writes and reads
	SeatRepo    *repository.SeatRepo    // availability reads for validation
	Cfg         config.Config           // event fields printed on tickets
}

// NewBookingHandler constructs a BookingHandler.  Both repositories must
// be non-nil.
func NewBookingHandler(bookingRepo *repository.BookingRepo, seatRepo *repository.SeatRepo, cfg config.Config) *BookingHandler {
	if bookingRepo == nil || seatRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{BookingRepo: bookingRepo, SeatRepo: seatRepo, Cfg: cfg}
}

// createBookingRequest is the JSON body of POST /v1/bookings.
type createBookingRequest struct {
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Tier          string          `json:"tier"`
	Quantity      int             `json:"quantity"`
	Seats         []model.SeatRef `json:"seats"`
	PaymentMethod string          `json:"payment_method"`
	ReceiptRef    string          `json:"receipt_ref"`
}

// requestLang picks the response language from the lang query parameter,
// falling back to the Accept-Language header.
func requestLang(c echo.Context) string {
	if l := c.QueryParam("lang"); l != "" {
		return l
	}
	return c.Request().Header.Get("Accept-Language")
}

// ticketURLs builds the per-seat download paths for a booking.
func ticketURLs(bookingID string, seats []model.BookingSeat) []string {
	urls := make([]string, 0, len(seats))
	for _, s := range seats {
		urls = append(urls, fmt.Sprintf("/v1/bookings/%s/tickets/%s/%d", bookingID, s.RowLabel, s.SeatNumber))
	}
	return urls
}

// whatsAppLink builds the prefilled deep link the customer opens to send
// their payment confirmation.  Payment verification is a human,
// out-of-band step; the link just carries the booking reference, name and
// phone so the reviewer can match the receipt.
func (h *BookingHandler) whatsAppLink(bookingID, name, phone string) string {
	if h.Cfg.WhatsAppNumber == "" {
		return ""
	}
	text := fmt.Sprintf("Booking %s - %s - %s", bookingID, name, phone)
	return fmt.Sprintf("https://wa.me/%s?text=%s", h.Cfg.WhatsAppNumber, url.QueryEscape(text))
}

// CreateBooking handles POST /v1/bookings.  It validates the customer's
// input against the field rules and current availability, then performs
// the single transactional write (claim seats + booking row + seat
// claims).  On contention it answers 409 with the seats that are gone so
// the client can reopen the picker; nothing is partially written.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	lang := requestLang(c)
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, ok := layout.Get(body.Tier); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tier"})
	}

	ctx := c.Request().Context()
	// Remaining capacity feeds the quantity clamp.  Unlike the public
	// availability endpoint this read is part of a write flow, so a
	// failure here is fail-stop: the customer is told to retry.
	booked, err := h.SeatRepo.ListBooked(ctx, body.Tier)
	if err != nil {
		c.Logger().Errorf("list booked seats tier=%s: %v", body.Tier, err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "availability check failed, try again"})
	}
	remaining := layout.TotalCapacity(body.Tier) - len(booked)

	fieldErrs := validate.BookingInput(validate.BookingRequest{
		Name:          body.Name,
		Phone:         body.Phone,
		Email:         body.Email,
		Quantity:      body.Quantity,
		Seats:         body.Seats,
		PaymentMethod: body.PaymentMethod,
	}, remaining, lang)
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrs})
	}

	in := repository.CreateBookingInput{
		CustomerName:  body.Name,
		Phone:         validate.NormalizePhone(body.Phone),
		Tier:          body.Tier,
		Seats:         body.Seats,
		PaymentMethod: body.PaymentMethod,
	}
	if body.Email != "" {
		in.Email = &body.Email
	}
	if body.ReceiptRef != "" {
		in.ReceiptRef = &body.ReceiptRef
	}

	b, err := h.BookingRepo.Create(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":       "some seats are no longer available",
				"unavailable": h.contestedSeats(c, body.Tier, body.Seats),
			})
		case errors.Is(err, repository.ErrSeatOutOfLayout), errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat outside tier layout"})
		default:
			c.Logger().Errorf("create booking: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
		}
	}

	// Publish for the payment-review feed; a broker outage must not fail
	// the booking that is already committed.
	if err := queue_publisher.PublishBookingCreated(ctx, queue.NewBookingCreatedEvent(b, body.Seats)); err != nil {
		c.Logger().Warnf("publish booking.created %s: %v", b.ID, err)
	}

	seats := make([]model.BookingSeat, 0, len(body.Seats))
	for _, s := range body.Seats {
		seats = append(seats, model.BookingSeat{BookingID: b.ID, RowLabel: s.RowLabel, SeatNumber: s.SeatNumber})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":     b.ID,
		"payment_status": b.PaymentStatus,
		"total_cents":    b.TotalCents,
		"tickets":        ticketURLs(b.ID, seats),
		"whatsapp_link":  h.whatsAppLink(b.ID, b.CustomerName, b.Phone),
	})
}

// contestedSeats returns the subset of requested seats currently booked,
// best effort: on a read failure the full request is reported.
func (h *BookingHandler) contestedSeats(c echo.Context, tier string, requested []model.SeatRef) []model.SeatRef {
	booked, err := h.SeatRepo.ListBooked(c.Request().Context(), tier)
	if err != nil {
		return requested
	}
	taken := make(map[model.SeatRef]struct{}, len(booked))
	for _, s := range booked {
		taken[s] = struct{}{}
	}
	contested := make([]model.SeatRef, 0, len(requested))
	for _, s := range requested {
		if _, ok := taken[s]; ok {
			contested = append(contested, s)
		}
	}
	return contested
}

// GetBooking handles GET /v1/bookings/:id.  It returns the booking, its
// seats ordered by row then number, and the ticket download URLs.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id := c.Param("id")
	b, seats, err := h.BookingRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		c.Logger().Errorf("get booking %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	seatRefs := make([]model.SeatRef, 0, len(seats))
	for _, s := range seats {
		seatRefs = append(seatRefs, model.SeatRef{RowLabel: s.RowLabel, SeatNumber: s.SeatNumber})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":     b.ID,
		"name":           b.CustomerName,
		"phone":          b.Phone,
		"tier":           b.Tier,
		"seat_count":     b.SeatCount,
		"total_cents":    b.TotalCents,
		"payment_method": b.PaymentMethod,
		"payment_status": b.PaymentStatus,
		"seats":          seatRefs,
		"tickets":        ticketURLs(b.ID, seats),
		"created_at":     b.CreatedAt,
	})
}

// DownloadTicket handles GET /v1/bookings/:id/tickets/:row/:number.  It
// verifies the seat belongs to the booking, renders the ticket face and
// streams it as a PNG attachment named "Ticket-<id>-<row><number>.png".
// Render failures answer 500 with an error body — a failed download must
// be visible, never an empty response.
func (h *BookingHandler) DownloadTicket(c echo.Context) error {
	id := c.Param("id")
	rowLabel := c.Param("row")
	num64, err := strconv.ParseUint(c.Param("number"), 10, 32)
	if err != nil || num64 == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat number"})
	}
	seatNumber := uint32(num64)

	b, seats, err := h.BookingRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		c.Logger().Errorf("get booking %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	owned := false
	for _, s := range seats {
		if s.RowLabel == rowLabel && s.SeatNumber == seatNumber {
			owned = true
			break
		}
	}
	if !owned {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not part of booking"})
	}

	tier, _ := layout.Get(b.Tier)
	tk := ticket.Ticket{
		BookingID:    b.ID,
		CustomerName: b.CustomerName,
		TierLabel:    tier.NameEN,
		RowLabel:     rowLabel,
		SeatNumber:   seatNumber,
		EventName:    h.Cfg.EventNameEN,
		EventDate:    h.Cfg.EventDate,
		PriceCents:   tier.PriceCents,
	}

	// Render into memory first so a failure can still answer with a JSON
	// error instead of a truncated stream.
	var buf bytes.Buffer
	if err := ticket.EncodePNG(&buf, tk); err != nil {
		c.Logger().Errorf("render ticket %s %s%d: %v", b.ID, rowLabel, seatNumber, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render ticket"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, tk.Filename()))
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
