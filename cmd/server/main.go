package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/omarhegazy/event-ticketing/internal/config"
	"github.com/omarhegazy/event-ticketing/internal/database"
	"github.com/omarhegazy/event-ticketing/internal/handler"
	"github.com/omarhegazy/event-ticketing/internal/middleware"
	"github.com/omarhegazy/event-ticketing/internal/queue"
	"github.com/omarhegazy/event-ticketing/internal/repository"
	"github.com/omarhegazy/event-ticketing/internal/router"
)

func main() {
	_ = godotenv.Load() // best effort; production passes real env vars
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: when unavailable the limiter and cache become
	// pass-through and availability reads always hit MySQL.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db, seatRepo)

	eventHandler := handler.NewEventHandler(seatRepo, cfg)
	bookingHandler := handler.NewBookingHandler(bookingRepo, seatRepo, cfg)
	adminHandler := handler.NewAdminHandler(bookingRepo, cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, eventHandler, bookingHandler, respCache, rateLimit)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// The consumer feeds logs/payment_review.log from booking.created
	// messages; it reconnects forever and never takes the server down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
