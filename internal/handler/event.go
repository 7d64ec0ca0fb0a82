// Package handler exposes HTTP handlers for the public booking flow and
// the admin payment-review surface.  This file defines the public event
// and seat-availability endpoints.  These routes require no
// authentication so the booking page can be rendered by anonymous
// visitors.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/event-ticketing/internal/config"
	"github.com/omarhegazy/event-ticketing/internal/layout"
	"github.com/omarhegazy/event-ticketing/internal/model"
	"github.com/omarhegazy/event-ticketing/internal/repository"
	"github.com/omarhegazy/event-ticketing/internal/validate"
)

// EventHandler serves static event information and live seat availability.
type EventHandler struct {
	SeatRepo *repository.SeatRepo // read access to seats
	Cfg      config.Config        // event presentation fields
}

// NewEventHandler constructs an EventHandler.  The seat repository must
// be non-nil.
func NewEventHandler(seatRepo *repository.SeatRepo, cfg config.Config) *EventHandler {
	if seatRepo == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{SeatRepo: seatRepo, Cfg: cfg}
}

// tierView is one tier in the public event response.
type tierView struct {
	ID         string `json:"id"`
	NameEN     string `json:"name_en"`
	NameAR     string `json:"name_ar"`
	PriceCents uint32 `json:"price_cents"`
	Capacity   int    `json:"capacity"`
}

// GetEvent handles GET /v1/event.  It returns the bilingual event
// metadata along with every tier's name, price and total capacity.  The
// response is static per deployment; clients cache it freely.
func (h *EventHandler) GetEvent(c echo.Context) error {
	tiers := make([]tierView, 0, len(layout.Tiers()))
	for _, t := range layout.Tiers() {
		tiers = append(tiers, tierView{
			ID:         t.ID,
			NameEN:     t.NameEN,
			NameAR:     t.NameAR,
			PriceCents: t.PriceCents,
			Capacity:   layout.TotalCapacity(t.ID),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name_en":         h.Cfg.EventNameEN,
		"name_ar":         h.Cfg.EventNameAR,
		"date":            h.Cfg.EventDate,
		"venue_en":        h.Cfg.VenueEN,
		"venue_ar":        h.Cfg.VenueAR,
		"whatsapp_number": h.Cfg.WhatsAppNumber,
		"tiers":           tiers,
	})
}

// rowView describes one row of the layout in availability responses.
type rowView struct {
	Row   string `json:"row"`
	Seats uint32 `json:"seats"`
}

// GetTierSeats handles GET /v1/tiers/:tier/seats.  It returns the static
// layout plus the current available/booked partition and the remaining
// count already clamped against the per-booking cap.
//
// Reads are fail-soft: when the store cannot be queried the handler logs
// the failure and responds 200 with empty availability and degraded=true
// rather than failing the page — clients treat empty as "unknown", not as
// "sold out".
func (h *EventHandler) GetTierSeats(c echo.Context) error {
	tierID := c.Param("tier")
	tier, ok := layout.Get(tierID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown tier"})
	}

	rows := make([]rowView, 0, len(tier.Rows))
	for _, r := range tier.Rows {
		rows = append(rows, rowView{Row: r.Label, Seats: r.Seats})
	}

	ctx := c.Request().Context()
	available, errA := h.SeatRepo.ListAvailable(ctx, tierID)
	booked, errB := h.SeatRepo.ListBooked(ctx, tierID)
	if errA != nil || errB != nil {
		if errA != nil {
			c.Logger().Errorf("list available seats tier=%s: %v", tierID, errA)
		}
		if errB != nil {
			c.Logger().Errorf("list booked seats tier=%s: %v", tierID, errB)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"tier":      tierID,
			"layout":    rows,
			"available": []model.SeatRef{},
			"booked":    []model.SeatRef{},
			"remaining": 0,
			"max_seats": 0,
			"degraded":  true,
		})
	}

	availRefs := make([]model.SeatRef, 0, len(available))
	for _, s := range available {
		availRefs = append(availRefs, model.SeatRef{RowLabel: s.RowLabel, SeatNumber: s.SeatNumber})
	}
	remaining := layout.TotalCapacity(tierID) - len(booked)
	return c.JSON(http.StatusOK, echo.Map{
		"tier":      tierID,
		"layout":    rows,
		"available": availRefs,
		"booked":    booked,
		"remaining": remaining,
		"max_seats": validate.ClampQuantity(validate.MaxSeatsPerBooking, remaining),
		"degraded":  false,
	})
}
