package geometry

import (
	"math"
	"testing"

	"github.com/mvp-joe/gerber2nc/internal/board"
	"github.com/stretchr/testify/assert"
)

// Test Plan for polylines and simplification:
// - Signed area follows winding
// - Self-intersection detection separates a square from a bow tie
// - simplifyRing reduces a fine circle while staying within tolerance
// - simplifyRing leaves short or open polylines alone

func square() Polyline {
	return Polyline{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0}}
}

func TestPolyline_Area(t *testing.T) {
	t.Parallel()

	sq := square()
	assert.InDelta(t, 4, sq.Area(), 1e-12)

	rev := make(Polyline, len(sq))
	for i := range sq {
		rev[i] = sq[len(sq)-1-i]
	}
	assert.InDelta(t, -4, rev.Area(), 1e-12)
	assert.True(t, rev.Closed())
}

func TestPolyline_SelfIntersects(t *testing.T) {
	t.Parallel()

	assert.False(t, square().SelfIntersects())

	bowtie := Polyline{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}, {X: 0, Y: 0}}
	assert.True(t, bowtie.SelfIntersects())
}

func TestSimplifyRing_Circle(t *testing.T) {
	t.Parallel()

	const n = 720
	ring := make(Polyline, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / n
		ring = append(ring, board.Point{X: 5 * math.Cos(a), Y: 5 * math.Sin(a)})
	}
	ring = append(ring, ring[0])

	got := simplifyRing(ring, 0.03)
	assert.True(t, got.Closed())
	assert.Less(t, len(got), len(ring)/4)
	assert.False(t, got.SelfIntersects())
	for _, q := range got {
		assert.InDelta(t, 5, math.Hypot(q.X, q.Y), 1e-9, "kept vertices come from the input")
	}
	assert.InDelta(t, math.Pi*25, got.Area(), math.Pi*25*0.02)
}

func TestSimplifyRing_LeavesSmallInputAlone(t *testing.T) {
	t.Parallel()

	sq := square()
	assert.Equal(t, sq, simplifyRing(sq, 1))

	open := Polyline{{X: 0, Y: 0}, {X: 1, Y: 0.001}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}}
	assert.Equal(t, open, simplifyRing(open, 0.01))
	assert.Equal(t, sq, simplifyRing(sq, 0))
}
