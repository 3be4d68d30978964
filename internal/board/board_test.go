package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for board model:
// - An extent that was never updated is invalid with zero width/height
// - The first update sets min == max == the point (no margin)
// - Margins grow the box on every side
// - Merge folds two extents and ignores an empty one
// - Shifting a closed outline by (0,0) returns the identical sequence
// - Shift moves traces, pads, holes and outlines by -offset
// - Aperture variants report their trace width

func TestExtent_NeverUpdatedIsInvalid(t *testing.T) {
	t.Parallel()

	var e Extent
	assert.False(t, e.Valid())
	assert.Equal(t, 0.0, e.Width())
	assert.Equal(t, 0.0, e.Height())
}

func TestExtent_FirstUpdateWins(t *testing.T) {
	t.Parallel()

	var e Extent
	e.Update(-5, 1e10, 0)

	require.True(t, e.Valid())
	assert.Equal(t, -5.0, e.XMin)
	assert.Equal(t, -5.0, e.XMax)
	assert.Equal(t, 1e10, e.YMin)
	assert.Equal(t, 1e10, e.YMax)
}

func TestExtent_UpdateWithMargin(t *testing.T) {
	t.Parallel()

	var e Extent
	e.Update(10, 10, 1.5)
	e.Update(20, 12, 0.6)

	assert.InDelta(t, 8.5, e.XMin, 1e-9)
	assert.InDelta(t, 20.6, e.XMax, 1e-9)
	assert.InDelta(t, 8.5, e.YMin, 1e-9)
	assert.InDelta(t, 12.6, e.YMax, 1e-9)
	assert.InDelta(t, 12.1, e.Width(), 1e-9)
	assert.InDelta(t, 4.1, e.Height(), 1e-9)
	assert.Equal(t, Point{X: 8.5, Y: 8.5}, e.Min())
}

func TestExtent_Merge(t *testing.T) {
	t.Parallel()

	var a, b, empty Extent
	a.Update(0, 0, 0)
	b.Update(5, -3, 0)

	a.Merge(empty)
	assert.Equal(t, 0.0, a.Width())

	a.Merge(b)
	assert.Equal(t, 5.0, a.Width())
	assert.Equal(t, 3.0, a.Height())

	var c Extent
	c.Merge(b)
	assert.True(t, c.Valid())
	assert.Equal(t, Point{X: 5, Y: -3}, c.Min())
}

func TestOutline_ShiftByZeroIsIdentity(t *testing.T) {
	t.Parallel()

	o := Outline{{0, 0}, {10, 0}, {10, 5}, {0, 5}, {0, 0}}
	require.True(t, o.Closed())

	shifted := o.Shift(Point{})
	assert.Equal(t, o, shifted)
	assert.Equal(t, o[0], shifted[0])
	assert.True(t, shifted.Closed())
}

func TestShift_MovesEverything(t *testing.T) {
	t.Parallel()

	offset := Point{X: 1, Y: 2}

	traces := ShiftTraces([]Trace{{Start: Point{1, 2}, End: Point{3, 4}, Width: 0.2}}, offset)
	assert.Equal(t, Trace{Start: Point{0, 0}, End: Point{2, 2}, Width: 0.2}, traces[0])

	pads := ShiftPads([]Pad{{Position: Point{5, 5}, Aperture: Circle{Diameter: 1}}}, offset)
	assert.Equal(t, Point{4, 3}, pads[0].Position)
	assert.Equal(t, Circle{Diameter: 1}, pads[0].Aperture)

	holes := ShiftHoles([]Hole{{Position: Point{1, 2}, Diameter: 0.8}}, offset)
	assert.Equal(t, Hole{Position: Point{0, 0}, Diameter: 0.8}, holes[0])

	assert.Nil(t, Outline(nil).Shift(offset))
	assert.False(t, Outline{{0, 0}, {1, 1}}.Closed())
}

func TestAperture_TraceWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		aperture Aperture
		want     float64
	}{
		{"circle", Circle{Diameter: 0.25}, 0.25},
		{"rectangle", Rectangle{Width: 1.5, Height: 2}, 1.5},
		{"unknown", Unknown{Code: "O"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.aperture.TraceWidth())
		})
	}
}
