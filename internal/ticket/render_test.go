package ticket

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTicket() Ticket {
	return Ticket{
		BookingID:    "BK-MF2K81QX-7H3D",
		CustomerName: "Test User",
		TierLabel:    "VIP",
		RowLabel:     "A",
		SeatNumber:   1,
		EventName:    "Layali Zaman",
		EventDate:    "2026-10-15 20:00",
		PriceCents:   150000,
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Ticket-BK-MF2K81QX-7H3D-A1.png", sampleTicket().Filename())
}

func TestRenderProducesCanvas(t *testing.T) {
	img, err := Render(sampleTicket())
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, canvasW, b.Dx())
	assert.Equal(t, canvasH, b.Dy())
}

func TestRenderRejectsIncompleteTicket(t *testing.T) {
	tk := sampleTicket()
	tk.BookingID = ""
	_, err := Render(tk)
	assert.Error(t, err)

	tk = sampleTicket()
	tk.SeatNumber = 0
	_, err = Render(tk)
	assert.Error(t, err)

	tk = sampleTicket()
	tk.RowLabel = ""
	_, err = Render(tk)
	assert.Error(t, err)
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, sampleTicket()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, canvasW, img.Bounds().Dx())
}

func TestBarcodeRoundTrip(t *testing.T) {
	payload := sampleTicket().barcodePayload()
	assert.Equal(t, "BK-MF2K81QX-7H3D-A1", payload)

	bars := Barcode(payload)
	assert.Len(t, bars, len(payload)*8)

	decoded, err := DecodeBarcode(bars)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodeBarcodeRejectsPartialBytes(t *testing.T) {
	_, err := DecodeBarcode(make([]bool, 13))
	assert.Error(t, err)
}

func TestRenderDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, EncodePNG(&a, sampleTicket()))
	require.NoError(t, EncodePNG(&b, sampleTicket()))
	assert.Equal(t, a.Bytes(), b.Bytes())
}
