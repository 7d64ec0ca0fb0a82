package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/omarhegazy/event-ticketing/internal/handler"    // handlers implementing the booking flow
	"github.com/omarhegazy/event-ticketing/internal/middleware" // JWT middleware for the review surface
)

// RegisterRoutes registers routes that do not depend on any handler
// state.  Currently it exposes only a health check, used by load
// balancers to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated booking-flow endpoints:
// event metadata, per-tier seat availability, booking creation and
// retrieval, and per-seat ticket downloads.  These routes carry the whole
// customer journey; the system's trust boundary deliberately leaves them
// open.  The cache middleware wraps only the event and availability
// routes: those responses are the same for every caller, while booking
// detail and tickets are per-customer and change on payment review, so
// they must never be served from a shared cache.  Any extra middleware
// (the rate limiter) applies to the whole group.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, bk *handler.BookingHandler, cache echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1", extra...)
	// Static event info: names, date, venue, tiers and prices.
	g.GET("/event", ev.GetEvent, cache)
	// Live availability for one tier: layout, available, booked, remaining.
	g.GET("/tiers/:tier/seats", ev.GetTierSeats, cache)
	// The single write path of the system.
	g.POST("/bookings", bk.CreateBooking)
	// Booking detail with ticket URLs, shareable by booking ID.
	g.GET("/bookings/:id", bk.GetBooking)
	// One PNG per seat, downloaded sequentially by the client.
	g.GET("/bookings/:id/tickets/:row/:number", bk.DownloadTicket)
}

// RegisterAdmin registers the payment-review surface.  Login is open;
// everything else requires a reviewer token signed with jwtSecret.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	e.POST("/v1/admin/login", a.Login)

	g := e.Group("/v1/admin")
	g.Use(middleware.AdminAuth(jwtSecret))
	g.GET("/bookings", a.ListBookings)
	g.PATCH("/bookings/:id/payment", a.ReviewPayment)
}
