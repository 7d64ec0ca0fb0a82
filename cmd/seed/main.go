// Command seed pre-creates every seat described by the static layout.
// It is the one-time setup step before sales open: each tier that has no
// seats yet gets all of its rows inserted with availability true.  Tiers
// that already contain seats are skipped, so re-running the command is
// safe and never resets availability on sold seats.  Every run ends by
// verifying the seeded per-row bounds against the static layout, which
// catches a table seeded under an older layout before sales open on it.
package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/omarhegazy/event-ticketing/internal/config"
	"github.com/omarhegazy/event-ticketing/internal/database"
	"github.com/omarhegazy/event-ticketing/internal/layout"
	"github.com/omarhegazy/event-ticketing/internal/model"
	"github.com/omarhegazy/event-ticketing/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	seatRepo := repository.NewSeatRepo(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, tier := range layout.Tiers() {
		existing, err := seatRepo.CountByTier(ctx, tier.ID)
		if err != nil {
			log.Fatalf("count seats tier=%s: %v", tier.ID, err)
		}
		if existing > 0 {
			log.Printf("tier %s already seeded (%d seats), skipping", tier.ID, existing)
			continue
		}

		seats := make([]model.Seat, 0, layout.TotalCapacity(tier.ID))
		for _, row := range tier.Rows {
			for n := uint32(1); n <= row.Seats; n++ {
				seats = append(seats, model.Seat{Tier: tier.ID, RowLabel: row.Label, SeatNumber: n})
			}
		}
		if err := seatRepo.CreateBulk(ctx, seats); err != nil {
			log.Fatalf("seed tier=%s: %v", tier.ID, err)
		}
		log.Printf("seeded tier %s with %d seats", tier.ID, len(seats))
	}

	for _, tier := range layout.Tiers() {
		bounds, err := seatRepo.LayoutBounds(ctx, tier.ID)
		if err != nil {
			log.Fatalf("layout bounds tier=%s: %v", tier.ID, err)
		}
		if problems := boundsMismatch(tier, bounds); len(problems) > 0 {
			log.Fatalf("tier %s does not match the layout: %s", tier.ID, strings.Join(problems, "; "))
		}
		log.Printf("tier %s verified: %d rows match the layout", tier.ID, len(tier.Rows))
	}
}

// boundsMismatch compares the seeded per-row seat maxima of one tier
// against the static layout and describes every difference.  An empty
// result means the table matches the chart the handlers sell from.
func boundsMismatch(tier layout.Tier, bounds map[string]uint32) []string {
	var problems []string
	seen := make(map[string]bool, len(tier.Rows))
	for _, row := range tier.Rows {
		seen[row.Label] = true
		max, ok := bounds[row.Label]
		if !ok {
			problems = append(problems, fmt.Sprintf("row %s missing", row.Label))
			continue
		}
		if max != row.Seats {
			problems = append(problems, fmt.Sprintf("row %s seeded up to seat %d, layout ends at %d", row.Label, max, row.Seats))
		}
	}
	extras := make([]string, 0)
	for label := range bounds {
		if !seen[label] {
			extras = append(extras, fmt.Sprintf("row %s not in layout", label))
		}
	}
	sort.Strings(extras)
	return append(problems, extras...)
}
