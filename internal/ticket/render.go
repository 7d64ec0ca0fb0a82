// Package ticket renders the downloadable ticket face for one seat of a
// confirmed booking.  Rendering is a pure function of its inputs: the
// same Ticket always draws the same image.  Every fallible step surfaces
// an error; a render must never silently produce nothing.
package ticket

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Canvas geometry.  The barcode strip occupies the bottom of the face.
const (
	canvasW = 900
	canvasH = 380

	barcodeX      = 40
	barcodeY      = 300
	barcodeBarW   = 2.0
	barcodeBarH   = 48.0
	barcodeBarGap = 1.0
)

// Ticket carries everything drawn on one ticket face.
type Ticket struct {
	BookingID    string
	CustomerName string
	TierLabel    string
	RowLabel     string
	SeatNumber   uint32
	EventName    string
	EventDate    string
	PriceCents   uint32
}

// Filename returns the download name for this ticket,
// "Ticket-<bookingID>-<row><number>.png".
func (t Ticket) Filename() string {
	return fmt.Sprintf("Ticket-%s-%s%d.png", t.BookingID, t.RowLabel, t.SeatNumber)
}

// validate rejects tickets that cannot be drawn meaningfully.
func (t Ticket) validate() error {
	if t.BookingID == "" {
		return fmt.Errorf("render ticket: empty booking id")
	}
	if t.RowLabel == "" || t.SeatNumber == 0 {
		return fmt.Errorf("render ticket: incomplete seat %q %d", t.RowLabel, t.SeatNumber)
	}
	return nil
}

var (
	fontOnce sync.Once
	fontErr  error
	sfnt     *opentype.Font
)

// loadFace parses the bundled Go Regular font once and derives a face of
// the requested size.  Parse or face errors propagate to the caller.
func loadFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		sfnt, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	face, err := opentype.NewFace(sfnt, &opentype.FaceOptions{
		Size: size, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}

// Barcode encodes a payload as a sequence of bars.  Each byte becomes
// eight bars, most significant bit first; a set bit is a dark bar.  The
// encoding is trivially reversible (see DecodeBarcode) but cosmetic only,
// it is not a scannable symbology.
func Barcode(payload string) []bool {
	bars := make([]bool, 0, len(payload)*8)
	for _, b := range []byte(payload) {
		for bit := 7; bit >= 0; bit-- {
			bars = append(bars, b&(1<<uint(bit)) != 0)
		}
	}
	return bars
}

// DecodeBarcode inverts Barcode.  Inputs whose length is not a multiple
// of eight are rejected.
func DecodeBarcode(bars []bool) (string, error) {
	if len(bars)%8 != 0 {
		return "", fmt.Errorf("decode barcode: %d bars is not a whole number of bytes", len(bars))
	}
	out := make([]byte, 0, len(bars)/8)
	for i := 0; i < len(bars); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if bars[i+j] {
				b |= 1
			}
		}
		out = append(out, b)
	}
	return string(out), nil
}

// barcodePayload is the string encoded in the decorative barcode.
func (t Ticket) barcodePayload() string {
	return fmt.Sprintf("%s-%s%d", t.BookingID, t.RowLabel, t.SeatNumber)
}

// Render draws the ticket face and returns the raster image.  Layout is
// deterministic; the only input-dependent variation is the text itself
// and the barcode derived from the booking ID and seat.
func Render(t Ticket) (image.Image, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	titleFace, err := loadFace(34)
	if err != nil {
		return nil, err
	}
	labelFace, err := loadFace(16)
	if err != nil {
		return nil, err
	}
	valueFace, err := loadFace(24)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(canvasW, canvasH)

	// Background and accent band.
	dc.SetRGB(0.98, 0.97, 0.94)
	dc.Clear()
	dc.SetRGB(0.11, 0.13, 0.24)
	dc.DrawRectangle(0, 0, canvasW, 90)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(titleFace)
	dc.DrawString(t.EventName, 40, 58)
	dc.SetFontFace(labelFace)
	dc.DrawStringAnchored(t.EventDate, canvasW-40, 52, 1, 0.5)

	dc.SetRGB(0.11, 0.13, 0.24)
	drawField := func(label, value string, x, y float64) {
		dc.SetFontFace(labelFace)
		dc.DrawString(strings.ToUpper(label), x, y)
		dc.SetFontFace(valueFace)
		dc.DrawString(value, x, y+30)
	}
	drawField("Name", t.CustomerName, 40, 140)
	drawField("Tier", t.TierLabel, 40, 210)
	drawField("Seat", fmt.Sprintf("%s%d", t.RowLabel, t.SeatNumber), 300, 210)
	drawField("Price", fmt.Sprintf("%d EGP", t.PriceCents/100), 460, 210)
	drawField("Booking", t.BookingID, 460, 140)

	// Decorative barcode strip.
	dc.SetRGB(0.11, 0.13, 0.24)
	x := float64(barcodeX)
	for _, dark := range Barcode(t.barcodePayload()) {
		if dark {
			dc.DrawRectangle(x, barcodeY, barcodeBarW, barcodeBarH)
			dc.Fill()
		}
		x += barcodeBarW + barcodeBarGap
	}
	dc.SetFontFace(labelFace)
	dc.DrawString(t.barcodePayload(), barcodeX, barcodeY+barcodeBarH+16)

	return dc.Image(), nil
}

// EncodePNG renders the ticket and writes it as PNG.  Encoding errors are
// returned, not swallowed.
func EncodePNG(w io.Writer, t Ticket) error {
	img, err := Render(t)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode ticket png: %w", err)
	}
	return nil
}
