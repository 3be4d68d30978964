package geometry

import (
	"math"

	"github.com/mvp-joe/gerber2nc/internal/board"
)

// simplifyRing simplifies a closed ring. The ring is split at the vertex
// farthest from its start so both halves anchor on stable points. If the
// result degenerates or crosses itself the original ring is returned.
func simplifyRing(ring Polyline, tolerance float64) Polyline {
	if !ring.Closed() || len(ring) < 5 || tolerance <= 0 {
		return ring
	}

	pts := ring[:len(ring)-1]
	far, farDist := 0, -1.0
	for i, q := range pts {
		if d := math.Hypot(q.X-pts[0].X, q.Y-pts[0].Y); d > farDist {
			far, farDist = i, d
		}
	}
	if far == 0 {
		return ring
	}

	keep := make([]bool, len(ring))
	keep[0], keep[far], keep[len(ring)-1] = true, true, true
	markKept(ring, 0, far, tolerance, keep)
	markKept(ring, far, len(ring)-1, tolerance, keep)

	out := make(Polyline, 0, len(ring))
	for i, k := range keep {
		if k {
			out = append(out, ring[i])
		}
	}
	if len(out) < 4 || out.SelfIntersects() {
		return ring
	}
	return out
}

// markKept flags the vertices between first and last that must survive.
// It uses an explicit stack; rings from large boards are long.
func markKept(p Polyline, first, last int, tolerance float64, keep []bool) {
	type span struct{ a, b int }
	stack := []span{{first, last}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, dmax := -1, tolerance
		for i := s.a + 1; i < s.b; i++ {
			if d := segmentDistance(p[i], p[s.a], p[s.b]); d > dmax {
				idx, dmax = i, d
			}
		}
		if idx < 0 {
			continue
		}
		keep[idx] = true
		stack = append(stack, span{s.a, idx}, span{idx, s.b})
	}
}

func segmentDistance(p, a, b board.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
