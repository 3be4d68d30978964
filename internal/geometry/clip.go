package geometry

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
	"github.com/mvp-joe/gerber2nc/internal/board"
)

// unitsPerMM is the fixed-point scale of clipper coordinates (10 nm).
const unitsPerMM = 1e5

func toUnits(v float64) clipper.CInt {
	return clipper.CInt(math.Round(v * unitsPerMM))
}

func fromUnits(v clipper.CInt) float64 {
	return float64(v) / unitsPerMM
}

func toPath(points ...board.Point) clipper.Path {
	path := make(clipper.Path, 0, len(points))
	for _, p := range points {
		path = append(path, &clipper.IntPoint{X: toUnits(p.X), Y: toUnits(p.Y)})
	}
	return path
}

// ring converts a clipper polygon to a closed Polyline, keeping its winding.
func ring(path clipper.Path) Polyline {
	if len(path) == 0 {
		return nil
	}
	out := make(Polyline, 0, len(path)+1)
	for _, p := range path {
		out = append(out, board.Point{X: fromUnits(p.X), Y: fromUnits(p.Y)})
	}
	return append(out, out[0])
}

// union merges polygons under the non-zero rule. Output polygons are
// strictly simple: islands that touch at a vertex come back as separate
// rings, never as one ring that visits a point twice.
func union(paths clipper.Paths) clipper.Paths {
	if len(paths) == 0 {
		return nil
	}
	c := clipper.NewClipper(clipper.IoStrictlySimple)
	c.AddPaths(paths, clipper.PtSubject, true)
	out, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return out
}

// offset grows closed polygons by d millimetres with round joins whose
// chords stay within resolution of the true arc.
func offset(paths clipper.Paths, d, resolution float64) clipper.Paths {
	if len(paths) == 0 {
		return nil
	}
	if d == 0 {
		return paths
	}
	co := clipper.NewClipperOffset()
	co.ArcTolerance = resolution * unitsPerMM
	co.AddPaths(paths, clipper.JtRound, clipper.EtClosedPolygon)
	return union(co.Execute(d * unitsPerMM))
}
