// Package toolpath computes isolation-milling passes around a copper region.
package toolpath

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/gerber2nc/internal/geometry"
)

// ErrInvalidParams is returned when pass parameters cannot produce
// increasing offsets.
var ErrInvalidParams = errors.New("invalid toolpath parameters")

// Params describes the passes to cut.
type Params struct {
	// Offset is the distance of the first pass from the copper.
	Offset float64
	// Passes is the number of concentric passes.
	Passes int
	// Spacing is the distance between consecutive passes.
	Spacing float64
}

// Validate checks that the offsets are non-negative and strictly increasing.
func (p Params) Validate() error {
	switch {
	case p.Passes < 0:
		return fmt.Errorf("%w: passes must be >= 0, got %d", ErrInvalidParams, p.Passes)
	case p.Offset < 0:
		return fmt.Errorf("%w: offset must be >= 0, got %g", ErrInvalidParams, p.Offset)
	case p.Passes >= 2 && !(p.Spacing > 0):
		return fmt.Errorf("%w: spacing must be > 0 for %d passes, got %g", ErrInvalidParams, p.Passes, p.Spacing)
	}
	return nil
}

// Offsets returns offset[i] = Offset + i*Spacing for every pass.
func (p Params) Offsets() []float64 {
	if p.Passes <= 0 {
		return nil
	}
	out := make([]float64, p.Passes)
	for i := range out {
		out[i] = p.Offset + float64(i)*p.Spacing
	}
	return out
}

// Pass is every boundary ring at one offset.
type Pass struct {
	Index  int
	Offset float64
	Paths  []geometry.Polyline
}

// Area is the net area enclosed by the pass: outer rings count positive
// and holes negative.
func (p Pass) Area() float64 {
	var a float64
	for _, path := range p.Paths {
		a += path.Area()
	}
	return a
}

// Set holds passes in ascending offset order.
type Set struct {
	Passes []Pass
}

// Empty reports whether the set has no paths at all.
func (s *Set) Empty() bool {
	return s.PathCount() == 0
}

// PathCount is the total number of polylines across all passes.
func (s *Set) PathCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, p := range s.Passes {
		n += len(p.Paths)
	}
	return n
}

// Paths flattens the set into one list, pass by pass.
func (s *Set) Paths() []geometry.Polyline {
	if s == nil {
		return nil
	}
	out := make([]geometry.Polyline, 0, s.PathCount())
	for _, p := range s.Passes {
		out = append(out, p.Paths...)
	}
	return out
}
