package geometry

import "github.com/mvp-joe/gerber2nc/internal/board"

// Polyline is an ordered vertex list. Boundary rings are closed: the last
// vertex repeats the first.
type Polyline []board.Point

// Closed reports whether the polyline ends where it starts.
func (p Polyline) Closed() bool {
	return len(p) > 1 && p[0] == p[len(p)-1]
}

// Area is the signed shoelace area: positive for counter-clockwise rings,
// negative for clockwise ones. An open polyline is treated as closed.
func (p Polyline) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Bounds returns the bounding box of the vertices.
func (p Polyline) Bounds() Bounds {
	if len(p) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: p[0], Max: p[0]}
	for _, q := range p[1:] {
		b.Min.X = min(b.Min.X, q.X)
		b.Min.Y = min(b.Min.Y, q.Y)
		b.Max.X = max(b.Max.X, q.X)
		b.Max.Y = max(b.Max.Y, q.Y)
	}
	return b
}

// SelfIntersects reports whether any two non-adjacent segments of the
// polyline touch or cross.
func (p Polyline) SelfIntersects() bool {
	n := len(p) - 1 // segments
	if n < 3 {
		return false
	}
	closed := p.Closed()

	boxes := make([]Bounds, n)
	for i := 0; i < n; i++ {
		boxes[i] = Polyline{p[i], p[i+1]}.Bounds()
	}

	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if closed && i == 0 && j == n-1 {
				continue // share the closing vertex
			}
			if !overlap(boxes[i], boxes[j]) {
				continue
			}
			if segmentsIntersect(p[i], p[i+1], p[j], p[j+1]) {
				return true
			}
		}
	}
	return false
}

func overlap(a, b Bounds) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X && a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

func cross(o, a, b board.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func segmentsIntersect(a, b, c, d board.Point) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(c, d, a)) ||
		(d2 == 0 && onSegment(c, d, b)) ||
		(d3 == 0 && onSegment(a, b, c)) ||
		(d4 == 0 && onSegment(a, b, d))
}

// onSegment assumes p is collinear with a-b.
func onSegment(a, b, p board.Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}
