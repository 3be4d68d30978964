package geometry

import (
	"maps"
	"math"
	"slices"

	clipper "github.com/ctessum/go.clipper"
	"github.com/mvp-joe/gerber2nc/internal/board"
)

// shapes collects copper primitives as clipper input before the union.
// Traces of one width share an offsetter so each width is a single clipper
// pass however many segments use it.
type shapes struct {
	resolution float64
	traces     map[clipper.CInt]clipper.Paths // by radius in clipper units
	polygons   clipper.Paths
	count      int
}

func newShapes(resolution float64) *shapes {
	return &shapes{resolution: resolution, traces: make(map[clipper.CInt]clipper.Paths)}
}

// trace adds a segment thickened to width with round ends.
func (s *shapes) trace(a, b board.Point, width float64) {
	if a == b {
		s.disk(a, width/2)
		return
	}
	r := toUnits(width / 2)
	s.traces[r] = append(s.traces[r], toPath(a, b))
	s.count++
}

// disk adds a circle approximated by a regular polygon whose edges stay
// within resolution of the circle.
func (s *shapes) disk(center board.Point, radius float64) {
	steps := 8
	if radius > s.resolution {
		steps = max(steps, int(math.Ceil(math.Pi/math.Acos(1-s.resolution/radius))))
	}
	points := make([]board.Point, steps)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(steps)
		points[i] = board.Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	s.polygons = append(s.polygons, toPath(points...))
	s.count++
}

// box adds an axis-aligned rectangle, counter-clockwise like every other
// polygon so the non-zero union never cancels overlaps.
func (s *shapes) box(center board.Point, halfW, halfH float64) {
	s.polygons = append(s.polygons, toPath(
		board.Point{X: center.X - halfW, Y: center.Y - halfH},
		board.Point{X: center.X + halfW, Y: center.Y - halfH},
		board.Point{X: center.X + halfW, Y: center.Y + halfH},
		board.Point{X: center.X - halfW, Y: center.Y + halfH},
	))
	s.count++
}

// merge unions everything collected so far.
func (s *shapes) merge() clipper.Paths {
	all := append(clipper.Paths(nil), s.polygons...)
	for _, radius := range slices.Sorted(maps.Keys(s.traces)) {
		co := clipper.NewClipperOffset()
		co.ArcTolerance = s.resolution * unitsPerMM
		co.AddPaths(s.traces[radius], clipper.JtRound, clipper.EtOpenRound)
		all = append(all, co.Execute(float64(radius))...)
	}
	return union(all)
}
