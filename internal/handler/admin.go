package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/event-ticketing/internal/config"
	"github.com/omarhegazy/event-ticketing/internal/model"
	"github.com/omarhegazy/event-ticketing/internal/repository"
	"github.com/omarhegazy/event-ticketing/internal/utils"
)

// AdminHandler implements the payment-review surface.  Payment for this
// event is verified by a human reading receipts sent over WhatsApp; these
// endpoints are how that reviewer records the verdict.  There is a single
// reviewer account configured through the environment — no user table.
type AdminHandler struct {
	BookingRepo *repository.BookingRepo
	Cfg         config.Config
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(bookingRepo *repository.BookingRepo, cfg config.Config) *AdminHandler {
	if bookingRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{BookingRepo: bookingRepo, Cfg: cfg}
}

// Login handles POST /v1/admin/login.  It checks the configured reviewer
// credentials and returns a short-lived access token.  The same 401 is
// returned for a wrong username and a wrong password.
func (h *AdminHandler) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Username != h.Cfg.AdminUser || !utils.VerifyPassword(h.Cfg.AdminPassHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, body.Username, h.Cfg.AccessTTLMin)
	if err != nil {
		c.Logger().Errorf("sign admin token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
	})
}

// ListBookings handles GET /v1/admin/bookings.  It returns recent
// bookings, newest first, optionally filtered by ?status= and bounded by
// ?limit= (default and maximum enforced by the repository).
func (h *AdminHandler) ListBookings(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", model.PaymentPending, model.PaymentConfirmed, model.PaymentFailed:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	items, err := h.BookingRepo.ListForReview(c.Request().Context(), status, limit)
	if err != nil {
		c.Logger().Errorf("list bookings for review: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ReviewPayment handles PATCH /v1/admin/bookings/:id/payment.  The body
// carries the verdict: {"status": "confirmed"} or {"status": "failed"}.
// Only pending bookings may transition; re-reviewing answers 409.
func (h *AdminHandler) ReviewPayment(c echo.Context) error {
	id := c.Param("id")
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Status != model.PaymentConfirmed && body.Status != model.PaymentFailed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be confirmed or failed"})
	}
	err := h.BookingRepo.UpdatePaymentStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already reviewed"})
		default:
			c.Logger().Errorf("review payment %s: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "payment_status": body.Status})
}
