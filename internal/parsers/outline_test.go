package parsers

import (
	"strings"
	"testing"

	"github.com/mvp-joe/gerber2nc/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Board Outline Parser:
// - A closed rectangle produces five vertices and no diagnostics
// - Extents grow by the edge margin
// - A move after the first vertex is diagnosed but the point is kept
// - An unclosed outline is diagnosed and returned as-is
// - A leading move is kept without a diagnostic
// - Inch outlines are converted
// - Nil input yields an empty outline without touching the extent

const closedOutline = `%FSLAX46Y46*%
%MOMM*%
%ADD10C,0.100000*%
D10*
X0Y0D02*
X50000000Y0D01*
X50000000Y30000000D01*
X0Y30000000D01*
X0Y0D01*
M02*
`

func TestParseOutline_ClosedRectangle(t *testing.T) {
	t.Parallel()

	ext := &board.Extent{}
	layer := ParseOutline(strings.NewReader(closedOutline), ext)

	require.Len(t, layer.Outline, 5)
	assert.True(t, layer.Closed())
	assert.Empty(t, layer.Diagnostics)
	assert.InDelta(t, 50.0, layer.Outline[2].X, 1e-9)
	assert.InDelta(t, 30.0, layer.Outline[2].Y, 1e-9)

	assert.InDelta(t, -MarginEdge, ext.XMin, 1e-9)
	assert.InDelta(t, 50+MarginEdge, ext.XMax, 1e-9)
	assert.InDelta(t, 30+2*MarginEdge, ext.Height(), 1e-9)
}

func TestParseOutline_MoveAfterFirstVertex(t *testing.T) {
	t.Parallel()

	src := `X0Y0D02*
X10000000Y0D01*
X10000000Y10000000D02*
X0Y10000000D01*
X0Y0D01*
`
	layer := ParseOutline(strings.NewReader(src), &board.Extent{})

	assert.Len(t, layer.Outline, 5)
	assert.Equal(t, 1, layer.Diagnostics.Count(AmbiguousGeometry))
	assert.True(t, layer.Closed())
}

func TestParseOutline_NotClosed(t *testing.T) {
	t.Parallel()

	src := `X0Y0D02*
X10000000Y0D01*
X10000000Y10000000D01*
`
	layer := ParseOutline(strings.NewReader(src), &board.Extent{})

	require.Len(t, layer.Outline, 3)
	assert.False(t, layer.Closed())
	require.Len(t, layer.Diagnostics, 1)
	assert.Equal(t, AmbiguousGeometry, layer.Diagnostics[0].Kind)
	assert.Contains(t, layer.Diagnostics[0].Message, "not closed")
}

func TestParseOutline_LeadingMoveKept(t *testing.T) {
	t.Parallel()

	src := `X5000000Y5000000D02*
X6000000Y5000000D01*
X5000000Y5000000D01*
`
	layer := ParseOutline(strings.NewReader(src), &board.Extent{})

	require.Len(t, layer.Outline, 3)
	assert.InDelta(t, 5.0, layer.Outline[0].X, 1e-9)
	assert.InDelta(t, 5.0, layer.Outline[0].Y, 1e-9)
	assert.Empty(t, layer.Diagnostics)
}

func TestParseOutline_Inches(t *testing.T) {
	t.Parallel()

	src := `%MOIN*%
X0Y0D02*
X1000000Y0D01*
X0Y0D01*
`
	layer := ParseOutline(strings.NewReader(src), &board.Extent{})

	require.Len(t, layer.Outline, 3)
	assert.Equal(t, Inches, layer.Units)
	assert.InDelta(t, 25.4, layer.Outline[1].X, 1e-6)
}

func TestParseOutline_NilReader(t *testing.T) {
	t.Parallel()

	ext := &board.Extent{}
	layer := ParseOutline(nil, ext)

	assert.Empty(t, layer.Outline)
	assert.Empty(t, layer.Diagnostics)
	assert.False(t, ext.Valid())
}

func TestOutlineLayer_ShiftByZero(t *testing.T) {
	t.Parallel()

	layer := ParseOutline(strings.NewReader(closedOutline), &board.Extent{})
	before := append(board.Outline(nil), layer.Outline...)

	layer.Shift(board.Point{})

	assert.Equal(t, before, layer.Outline)
	assert.True(t, layer.Closed())
}
