package board

// Extent accumulates the bounding box of everything the parsers see.
// The zero value is an empty extent; the first Update wins.
type Extent struct {
	XMin, XMax float64
	YMin, YMax float64

	valid bool
}

// Update expands the extent to include (x, y) grown by margin on every side.
func (e *Extent) Update(x, y, margin float64) {
	if !e.valid {
		e.XMin, e.XMax = x-margin, x+margin
		e.YMin, e.YMax = y-margin, y+margin
		e.valid = true
		return
	}
	e.XMin = min(e.XMin, x-margin)
	e.XMax = max(e.XMax, x+margin)
	e.YMin = min(e.YMin, y-margin)
	e.YMax = max(e.YMax, y+margin)
}

// Merge folds another extent into e.
func (e *Extent) Merge(o Extent) {
	if !o.valid {
		return
	}
	if !e.valid {
		*e = o
		return
	}
	e.XMin = min(e.XMin, o.XMin)
	e.XMax = max(e.XMax, o.XMax)
	e.YMin = min(e.YMin, o.YMin)
	e.YMax = max(e.YMax, o.YMax)
}

// Valid reports whether at least one point has been recorded.
func (e Extent) Valid() bool {
	return e.valid
}

// Width is the board width in mm, or 0 for an empty extent.
func (e Extent) Width() float64 {
	if !e.valid {
		return 0
	}
	return e.XMax - e.XMin
}

// Height is the board height in mm, or 0 for an empty extent.
func (e Extent) Height() float64 {
	if !e.valid {
		return 0
	}
	return e.YMax - e.YMin
}

// Min is the lower-left corner, the offset that moves the board to the origin.
func (e Extent) Min() Point {
	return Point{X: e.XMin, Y: e.YMin}
}
