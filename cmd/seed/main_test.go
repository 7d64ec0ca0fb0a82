package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarhegazy/event-ticketing/internal/layout"
)

func vipBounds() map[string]uint32 {
	vip, _ := layout.Get(layout.TierVIP)
	bounds := make(map[string]uint32, len(vip.Rows))
	for _, row := range vip.Rows {
		bounds[row.Label] = row.Seats
	}
	return bounds
}

func TestBoundsMatchCleanSeed(t *testing.T) {
	vip, ok := layout.Get(layout.TierVIP)
	require.True(t, ok)
	assert.Empty(t, boundsMismatch(vip, vipBounds()))
}

func TestBoundsMismatchReported(t *testing.T) {
	vip, ok := layout.Get(layout.TierVIP)
	require.True(t, ok)

	short := vipBounds()
	short["A"] = 5 // layout says 7
	problems := boundsMismatch(vip, short)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "row A seeded up to seat 5")

	missing := vipBounds()
	delete(missing, "C")
	problems = boundsMismatch(vip, missing)
	require.Len(t, problems, 1)
	assert.Equal(t, "row C missing", problems[0])

	extra := vipBounds()
	extra["Z"] = 4
	problems = boundsMismatch(vip, extra)
	require.Len(t, problems, 1)
	assert.Equal(t, "row Z not in layout", problems[0])
}
