// Package geometry turns parsed copper primitives into a planar region and
// extracts offset boundaries from it.
//
// A Region is the polygon union of every trace and pad footprint, held in
// clipper's fixed-point coordinates. Inflating it is a round-joined polygon
// offset followed by a union, so islands that meet under inflation merge
// into a single envelope instead of overlapping outlines.
package geometry

import (
	"fmt"
	"log"
	"math"

	clipper "github.com/ctessum/go.clipper"
	"github.com/mvp-joe/gerber2nc/internal/board"
)

// Defaults, in millimetres.
const (
	DefaultResolution = 0.02
	DefaultTolerance  = 0.03
)

// Options controls how round geometry is approximated.
type Options struct {
	// Resolution is the largest distance a polygon edge may stray from the
	// arc it approximates, for trace ends, round pads and offset corners.
	Resolution float64
}

// DefaultOptions returns the approximation defaults.
func DefaultOptions() Options {
	return Options{Resolution: DefaultResolution}
}

func (o Options) withDefaults() Options {
	if !(o.Resolution > 0) {
		o.Resolution = DefaultResolution
	}
	return o
}

// Diagnostic describes a primitive that could not contribute copper.
type Diagnostic struct {
	Kind    string // "trace" or "pad"
	Index   int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %d: %s", d.Kind, d.Index, d.Message)
}

// Region is an immutable union of copper shapes, optionally inflated.
type Region struct {
	paths      clipper.Paths
	count      int
	resolution float64
}

// Build unions traces and pads into a single region with default options.
// Primitives that cannot produce copper are skipped and logged.
func Build(traces []board.Trace, pads []board.Pad) *Region {
	r, diags := BuildWithDiagnostics(traces, pads, DefaultOptions())
	for _, d := range diags {
		log.Printf("Warning: skipped %s", d)
	}
	return r
}

// BuildWithDiagnostics is Build that returns skipped primitives instead of
// logging them. Zero-sized primitives are dropped silently; they have no
// area to contribute.
func BuildWithDiagnostics(traces []board.Trace, pads []board.Pad, opts Options) (*Region, []Diagnostic) {
	opts = opts.withDefaults()
	s := newShapes(opts.Resolution)
	var diags []Diagnostic

	for _, t := range traces {
		if !(t.Width > 0) || !finite(t.Start) || !finite(t.End) {
			continue
		}
		s.trace(t.Start, t.End, t.Width)
	}

	for i, p := range pads {
		if !finite(p.Position) {
			continue
		}
		switch ap := p.Aperture.(type) {
		case board.Circle:
			if ap.Diameter > 0 {
				s.disk(p.Position, ap.Diameter/2)
			}
		case board.Rectangle:
			if ap.Width > 0 && ap.Height > 0 {
				s.box(p.Position, ap.Width/2, ap.Height/2)
			}
		case board.Unknown:
			diags = append(diags, Diagnostic{Kind: "pad", Index: i, Message: fmt.Sprintf("unsupported aperture %s", ap)})
		case nil:
			diags = append(diags, Diagnostic{Kind: "pad", Index: i, Message: "no aperture"})
		default:
			diags = append(diags, Diagnostic{Kind: "pad", Index: i, Message: fmt.Sprintf("unhandled aperture type %T", ap)})
		}
	}

	return &Region{paths: s.merge(), count: s.count, resolution: opts.Resolution}, diags
}

func finite(p board.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Empty reports whether the region covers no area.
func (r *Region) Empty() bool {
	return r == nil || len(r.paths) == 0
}

// Len is the number of primitives in the union.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}
	return r.count
}

// Islands counts the disjoint pieces of copper, not their holes.
func (r *Region) Islands() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, path := range r.paths {
		if ring(path).Area() > 0 {
			n++
		}
	}
	return n
}

// Inflate returns the region grown outward by d. The receiver is unchanged.
func (r *Region) Inflate(d float64) *Region {
	if r.Empty() {
		return &Region{}
	}
	return &Region{
		paths:      offset(r.paths, d, r.resolution),
		count:      r.count,
		resolution: r.resolution,
	}
}

// Boundary extracts the closed boundary rings of the region, simplified
// with Douglas-Peucker within tolerance. Zero or a negative tolerance keeps
// every vertex. Outer rings run counter-clockwise and holes clockwise.
func (r *Region) Boundary(tolerance float64) []Polyline {
	if r.Empty() {
		return nil
	}
	rings := make([]Polyline, 0, len(r.paths))
	for _, path := range r.paths {
		rg := ring(path)
		if len(rg) < 4 {
			continue
		}
		if tolerance > 0 {
			rg = simplifyRing(rg, tolerance)
		}
		rings = append(rings, rg)
	}
	return rings
}
