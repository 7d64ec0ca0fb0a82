package utils // package utils provides helpers shared across handlers and repositories

import (
	"fmt"
	"math/rand"
	"time"
)

// Booking IDs are human-shareable: customers read them over WhatsApp when
// confirming payment.  The format is "BK-<timestamp>-<suffix>" where the
// timestamp is the creation instant in milliseconds encoded in base36 and
// the suffix is four random base36 characters.  The random suffix reduces
// collision probability between bookings created in the same millisecond;
// the ID is not cryptographically unique and the database enforces the
// primary key either way.
const (
	bookingIDPrefix = "BK"
	suffixAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixLen       = 4
)

// NewBookingID returns a fresh booking identifier such as
// "BK-MF2K81QX-7H3D".
func NewBookingID() string {
	ts := formatBase36(time.Now().UTC().UnixMilli())
	suffix := make([]byte, suffixLen)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return fmt.Sprintf("%s-%s-%s", bookingIDPrefix, ts, string(suffix))
}

// formatBase36 encodes a non-negative integer in base36.
func formatBase36(n int64) string {
	if n == 0 {
		return "0"
	}
	var b [16]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = suffixAlphabet[n%36]
		n /= 36
	}
	return string(b[i:])
}
