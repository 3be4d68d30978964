package parsers

import (
	"strings"
	"testing"

	"github.com/mvp-joe/gerber2nc/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Drill File Parser:
// - KiCad metric file with explicit decimals yields holes with tool diameters
// - Fritzing inch file with implied decimals is scaled by 10000 and 25.4
// - Metric implied decimals are scaled by 1000
// - Decimal detection is file-global: lines without a point follow explicit mode
// - Tool numbers compare numerically (T01 selects T1)
// - Unknown tools fall back to the default diameter
// - Coordinates with no tool selected are diagnosed and skipped
// - Comment lines are ignored, even when they look like coordinates
// - Partial coordinate lines are diagnosed and skipped, never dropped silently
// - Holes update the extent with no margin
// - Nil input yields an empty layer

func parseDrill(t *testing.T, src string) (*DrillLayer, *board.Extent) {
	t.Helper()
	ext := &board.Extent{}
	layer := ParseDrill(strings.NewReader(src), ext)
	require.NotNil(t, layer)
	return layer, ext
}

func TestParseDrill_KiCadMetric(t *testing.T) {
	t.Parallel()

	src := `M48
; DRILL file {KiCad 7.0.0} date 2024-01-01
; FORMAT={-:-/ absolute / metric / decimal}
FMAT,2
METRIC
T1C0.800
%
G90
G05
T1
X10.0Y10.0
M30
`
	layer, ext := parseDrill(t, src)

	require.Len(t, layer.Holes, 1)
	assert.True(t, layer.ExplicitDecimals)
	assert.Equal(t, board.Hole{Position: board.Point{X: 10, Y: 10}, Diameter: 0.8}, layer.Holes[0])
	assert.Equal(t, map[int]float64{1: 0.8}, layer.Tools)
	assert.Empty(t, layer.Diagnostics)

	require.True(t, ext.Valid())
	assert.Equal(t, 10.0, ext.XMin)
	assert.Equal(t, 10.0, ext.XMax)
	assert.Equal(t, 10.0, ext.YMin)
	assert.Equal(t, 10.0, ext.YMax)
}

func TestParseDrill_FritzingInchImplied(t *testing.T) {
	t.Parallel()

	src := `M48
INCH
T1C0.038
T2C0.125
%
T01
X010000Y005000
X020000Y005000
T02
X000000Y000000
M30
`
	layer, _ := parseDrill(t, src)

	assert.False(t, layer.ExplicitDecimals)
	require.Len(t, layer.Holes, 3)

	assert.InDelta(t, 25.4, layer.Holes[0].Position.X, 1e-9)
	assert.InDelta(t, 12.7, layer.Holes[0].Position.Y, 1e-9)
	assert.InDelta(t, 0.038*25.4, layer.Holes[0].Diameter, 1e-9)
	assert.InDelta(t, 50.8, layer.Holes[1].Position.X, 1e-9)
	assert.InDelta(t, 0.125*25.4, layer.Holes[2].Diameter, 1e-9)
}

func TestParseDrill_MetricImplied(t *testing.T) {
	t.Parallel()

	src := `METRIC,TZ
T3C1.000
T3
X10000Y20000
`
	layer, _ := parseDrill(t, src)

	require.Len(t, layer.Holes, 1)
	assert.InDelta(t, 10.0, layer.Holes[0].Position.X, 1e-9)
	assert.InDelta(t, 20.0, layer.Holes[0].Position.Y, 1e-9)
}

func TestParseDrill_DecimalDetectionIsFileGlobal(t *testing.T) {
	t.Parallel()

	src := `METRIC
T1C1.0
T1
X10Y20
X1.5Y2.5
`
	layer, _ := parseDrill(t, src)

	require.True(t, layer.ExplicitDecimals)
	require.Len(t, layer.Holes, 2)
	assert.Equal(t, board.Point{X: 10, Y: 20}, layer.Holes[0].Position)
	assert.Equal(t, board.Point{X: 1.5, Y: 2.5}, layer.Holes[1].Position)
}

func TestParseDrill_UnknownToolUsesDefault(t *testing.T) {
	t.Parallel()

	src := `METRIC
T2
X1.0Y1.0
`
	layer, _ := parseDrill(t, src)

	require.Len(t, layer.Holes, 1)
	assert.Equal(t, DefaultToolDiameter, layer.Holes[0].Diameter)
}

func TestParseDrill_NoToolSelected(t *testing.T) {
	t.Parallel()

	src := `METRIC
T1C0.6
X1.0Y1.0
T1
X2.0Y2.0
T0
X3.0Y3.0
`
	layer, ext := parseDrill(t, src)

	require.Len(t, layer.Holes, 1)
	assert.Equal(t, board.Point{X: 2, Y: 2}, layer.Holes[0].Position)
	assert.Equal(t, 2, layer.Diagnostics.Count(MalformedStatement))
	assert.Equal(t, 0.0, ext.Width())
}

func TestParseDrill_PartialCoordinates(t *testing.T) {
	t.Parallel()

	src := `METRIC
T1C0.8
T1
X10.0Y10.0
X12.5
Y7.0
X1,0Y2.0
M30
`
	layer, _ := parseDrill(t, src)

	require.Len(t, layer.Holes, 1)
	assert.Equal(t, board.Point{X: 10, Y: 10}, layer.Holes[0].Position)
	require.Len(t, layer.Diagnostics, 3)
	assert.Equal(t, 3, layer.Diagnostics.Count(MalformedStatement))
	assert.Equal(t, 5, layer.Diagnostics[0].Line)
	assert.Contains(t, layer.Diagnostics[2].Message, "X1,0Y2.0")
}

func TestParseDrill_CommentsIgnored(t *testing.T) {
	t.Parallel()

	src := `; X1.5Y1.5 this is a comment
METRIC
T1C0.8
T1
X1000Y2000
`
	layer, _ := parseDrill(t, src)

	assert.False(t, layer.ExplicitDecimals)
	require.Len(t, layer.Holes, 1)
	assert.InDelta(t, 1.0, layer.Holes[0].Position.X, 1e-9)
	assert.InDelta(t, 2.0, layer.Holes[0].Position.Y, 1e-9)
}

func TestParseDrill_NilReader(t *testing.T) {
	t.Parallel()

	ext := &board.Extent{}
	layer := ParseDrill(nil, ext)

	assert.Empty(t, layer.Holes)
	assert.Empty(t, layer.Tools)
	assert.False(t, ext.Valid())
}

func TestDrillLayer_Shift(t *testing.T) {
	t.Parallel()

	layer, _ := parseDrill(t, "METRIC\nT1C0.8\nT1\nX5.0Y6.0\n")
	layer.Shift(board.Point{X: 5, Y: 6})

	assert.Equal(t, board.Point{}, layer.Holes[0].Position)
}
