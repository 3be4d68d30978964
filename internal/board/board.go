// Package board holds the geometric model shared by every parser and by the
// geometry engine. All coordinates are millimetres.
package board

import "fmt"

// Point is a 2D coordinate. X grows to the right, Y grows up the board.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// Trace is a straight copper segment drawn with a round aperture of Width.
type Trace struct {
	Start Point
	End   Point
	Width float64
}

// Shift returns the trace translated by -offset.
func (t Trace) Shift(offset Point) Trace {
	return Trace{Start: t.Start.Sub(offset), End: t.End.Sub(offset), Width: t.Width}
}

// Pad is an aperture footprint stamped at Position.
type Pad struct {
	Position Point
	Aperture Aperture
}

// Shift returns the pad translated by -offset.
func (p Pad) Shift(offset Point) Pad {
	return Pad{Position: p.Position.Sub(offset), Aperture: p.Aperture}
}

// Hole is a drilled hole.
type Hole struct {
	Position Point
	Diameter float64
}

// Shift returns the hole translated by -offset.
func (h Hole) Shift(offset Point) Hole {
	return Hole{Position: h.Position.Sub(offset), Diameter: h.Diameter}
}

// Outline is the ordered board edge. It should form a closed ring
// (first == last) but nothing enforces it.
type Outline []Point

// Closed reports whether the outline has points and ends where it starts.
func (o Outline) Closed() bool {
	return len(o) > 0 && o[0] == o[len(o)-1]
}

// Shift returns a translated copy of the outline.
func (o Outline) Shift(offset Point) Outline {
	if o == nil {
		return nil
	}
	out := make(Outline, len(o))
	for i, p := range o {
		out[i] = p.Sub(offset)
	}
	return out
}

// ShiftTraces translates every trace by -offset.
func ShiftTraces(traces []Trace, offset Point) []Trace {
	out := make([]Trace, len(traces))
	for i, t := range traces {
		out[i] = t.Shift(offset)
	}
	return out
}

// ShiftPads translates every pad by -offset.
func ShiftPads(pads []Pad, offset Point) []Pad {
	out := make([]Pad, len(pads))
	for i, p := range pads {
		out[i] = p.Shift(offset)
	}
	return out
}

// ShiftHoles translates every hole by -offset.
func ShiftHoles(holes []Hole, offset Point) []Hole {
	out := make([]Hole, len(holes))
	for i, h := range holes {
		out[i] = h.Shift(offset)
	}
	return out
}
