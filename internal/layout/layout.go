// Package layout holds the static seating plan for the event.  The plan is
// configuration, not state: every seat that can ever be sold is described
// here as a tier, a row letter and a per-row seat count.  The database is
// seeded from this table once and all later bounds checks refer back to it.
package layout

// Tier identifiers.  These strings are stored verbatim in the seats and
// bookings tables, so they must never change once seats have been seeded.
const (
	TierVIP     = "vip"
	TierClassic = "classic"
)

// Row pairs a row letter with the number of seats in that row.  Seat
// numbers within a row are 1-based and contiguous.
type Row struct {
	Label string // row letter, e.g. "A"
	Seats uint32 // number of seats in the row
}

// Tier describes one price tier of the event: its bilingual display names,
// the ticket price and the ordered list of rows.
//
// Fields:
//  ID        – stable identifier ("vip" or "classic").
//  NameEN    – English display name.
//  NameAR    – Arabic display name.
//  PriceCents – ticket price in piasters (EGP cents).
//  Rows      – ordered rows, front of the hall first.
type Tier struct {
	ID         string `json:"id"`
	NameEN     string `json:"name_en"`
	NameAR     string `json:"name_ar"`
	PriceCents uint32 `json:"price_cents"`
	Rows       []Row  `json:"-"`
}

// tiers lists both tiers in display order.  The VIP tier is a few dense
// rows near the stage (23 seats); the classic tier is the remaining rows
// (254 seats).
var tiers = []Tier{
	{
		ID:         TierVIP,
		NameEN:     "VIP",
		NameAR:     "في آي بي",
		PriceCents: 150000,
		Rows: []Row{
			{Label: "A", Seats: 7},
			{Label: "B", Seats: 8},
			{Label: "C", Seats: 8},
		},
	},
	{
		ID:         TierClassic,
		NameEN:     "Classic",
		NameAR:     "كلاسيك",
		PriceCents: 75000,
		Rows: []Row{
			{Label: "A", Seats: 20},
			{Label: "B", Seats: 18},
			{Label: "C", Seats: 18},
			{Label: "D", Seats: 18},
			{Label: "E", Seats: 18},
			{Label: "F", Seats: 18},
			{Label: "G", Seats: 18},
			{Label: "H", Seats: 18},
			{Label: "I", Seats: 18},
			{Label: "J", Seats: 18},
			{Label: "K", Seats: 18},
			{Label: "L", Seats: 18},
			{Label: "M", Seats: 18},
			{Label: "N", Seats: 18},
		},
	},
}

// Tiers returns all tiers in display order.  The returned slice must be
// treated as read-only.
func Tiers() []Tier { return tiers }

// Get returns the tier with the given ID, or false when the ID is unknown.
func Get(tierID string) (Tier, bool) {
	for _, t := range tiers {
		if t.ID == tierID {
			return t, true
		}
	}
	return Tier{}, false
}

// Rows returns the ordered rows of a tier.  Unknown tiers yield nil.
func Rows(tierID string) []Row {
	t, ok := Get(tierID)
	if !ok {
		return nil
	}
	return t.Rows
}

// TotalCapacity returns the sum of all row counts for a tier.  Unknown
// tiers have zero capacity.
func TotalCapacity(tierID string) int {
	total := 0
	for _, r := range Rows(tierID) {
		total += int(r.Seats)
	}
	return total
}

// Contains reports whether (row, number) falls inside the seeded bounds of
// the tier: the row letter must exist and the seat number must be in
// [1, row count].  Every write path checks this before touching the store.
func Contains(tierID, rowLabel string, seatNumber uint32) bool {
	for _, r := range Rows(tierID) {
		if r.Label == rowLabel {
			return seatNumber >= 1 && seatNumber <= r.Seats
		}
	}
	return false
}
