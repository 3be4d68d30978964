package board

import "fmt"

// Aperture is the shape used to flash pads and to set trace widths.
//
// The set of variants is closed: Circle, Rectangle and Unknown. Consumers
// switch over the concrete type; a new shape has to be added here first.
type Aperture interface {
	// TraceWidth is the stroke width used when the aperture draws a line.
	TraceWidth() float64

	aperture()
}

// Circle is a round aperture.
type Circle struct {
	Diameter float64
}

// Rectangle is an axis-aligned rectangular aperture.
type Rectangle struct {
	Width  float64
	Height float64
}

// Unknown records an aperture whose shape code is not supported. It never
// produces copper.
type Unknown struct {
	Code string
}

func (c Circle) TraceWidth() float64    { return c.Diameter }
func (r Rectangle) TraceWidth() float64 { return r.Width }
func (Unknown) TraceWidth() float64     { return 0 }

func (Circle) aperture()    {}
func (Rectangle) aperture() {}
func (Unknown) aperture()   {}

func (c Circle) String() string    { return fmt.Sprintf("circle %.3f", c.Diameter) }
func (r Rectangle) String() string { return fmt.Sprintf("rectangle %.3fx%.3f", r.Width, r.Height) }
func (u Unknown) String() string   { return fmt.Sprintf("unknown %q", u.Code) }
