package parsers

import (
	"io"

	"github.com/mvp-joe/gerber2nc/internal/board"
)

// OutlineLayer is the result of parsing a board-outline Gerber file.
type OutlineLayer struct {
	Outline     board.Outline
	Units       Units
	Diagnostics Diagnostics
}

// Closed reports whether the outline ends where it starts.
func (o *OutlineLayer) Closed() bool {
	return o.Outline.Closed()
}

// Shift translates the outline by -offset.
func (o *OutlineLayer) Shift(offset board.Point) {
	o.Outline = o.Outline.Shift(offset)
}

// ParseOutline parses an outline command stream into its vertex list. A nil
// reader yields an empty outline. A move after the first vertex and an
// unclosed outline are recorded as diagnostics; the points are kept as-is.
func ParseOutline(r io.Reader, extents *board.Extent) *OutlineLayer {
	layer := &OutlineLayer{}
	units := newUnitState()
	var position board.Point

	err := scanGerber(r, func(st statement) {
		if st.extended {
			if !units.apply(st.text) && !isIgnoredExtended(st.text) && !isApertureDef(st.text) {
				layer.Diagnostics.add(st.line, MalformedStatement, "unrecognized extended command %q", st.text)
			}
			return
		}

		if isIgnoredCommand(st.text) || apertureSelPattern.MatchString(st.text) {
			return
		}

		c, ok := parseCoordOp(st.text, units.scale())
		if !ok {
			layer.Diagnostics.add(st.line, MalformedStatement, "unrecognized command %q", st.text)
			return
		}

		if c.hasX {
			position.X = c.x
		}
		if c.hasY {
			position.Y = c.y
		}

		extents.Update(position.X, position.Y, MarginEdge)

		if len(layer.Outline) > 0 && c.op != 1 {
			layer.Diagnostics.add(st.line, AmbiguousGeometry, "outline should be drawn as one continuous path")
		}
		layer.Outline = append(layer.Outline, position)
	})
	if err != nil {
		layer.Diagnostics.add(0, MalformedStatement, "read error: %v", err)
	}
	layer.Units = units.units

	if len(layer.Outline) > 0 && !layer.Outline.Closed() {
		layer.Diagnostics.add(0, AmbiguousGeometry, "outline is not closed")
	}

	return layer
}

func isApertureDef(text string) bool {
	return apertureDefPattern.MatchString(text)
}
