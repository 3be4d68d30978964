package geometry

import "github.com/mvp-joe/gerber2nc/internal/board"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max board.Point
}
