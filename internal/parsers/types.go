// Package parsers turns Gerber copper and outline layers and Excellon drill
// files into the board model.
//
// Parsers never fail on bad input: statements they cannot interpret are
// skipped and recorded as Diagnostics on the returned layer. Every parser
// takes the shared *board.Extent and grows it with each coordinate it
// accepts.
package parsers

import (
	"fmt"
	"log"
)

const (
	// GerberScale converts fixed-point Gerber integers (6 decimal places) to units.
	GerberScale = 1e-6

	// MMPerInch converts inches to millimetres.
	MMPerInch = 25.4

	// DrillFormatInch is the implied-decimal divisor for inch drill files (2.4 format).
	DrillFormatInch = 10000.0

	// DrillFormatMetric is the implied-decimal divisor for metric drill files (3.3 format).
	DrillFormatMetric = 1000.0

	// DefaultToolDiameter is used for holes whose tool was never defined.
	DefaultToolDiameter = 0.8

	// Extent margins in mm around each kind of coordinate.
	MarginPad   = 1.5
	MarginTrace = 0.6
	MarginEdge  = 0.2
)

// Units is the unit mode of a layer.
type Units int

const (
	Millimeters Units = iota
	Inches
)

func (u Units) String() string {
	if u == Inches {
		return "inch"
	}
	return "mm"
}

// multiplier is the number of millimetres per unit.
func (u Units) multiplier() float64 {
	if u == Inches {
		return MMPerInch
	}
	return 1.0
}

// Kind classifies a diagnostic.
type Kind int

const (
	// MalformedStatement is an unrecognised or partially matched statement.
	MalformedStatement Kind = iota
	// AmbiguousGeometry is geometry the caller may want to reject: an open or
	// discontinuous outline, an unknown aperture shape.
	AmbiguousGeometry
)

func (k Kind) String() string {
	switch k {
	case MalformedStatement:
		return "malformed"
	case AmbiguousGeometry:
		return "ambiguous"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diagnostic is a non-fatal problem found while parsing.
type Diagnostic struct {
	Line    int // 1-based source line, 0 when not tied to a line
	Kind    Kind
	Message string
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

// Diagnostics is the list of problems recorded by one parse.
type Diagnostics []Diagnostic

// Count returns how many diagnostics of kind k were recorded.
func (ds Diagnostics) Count(k Kind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// add records and logs a diagnostic.
func (ds *Diagnostics) add(line int, kind Kind, format string, args ...any) {
	d := Diagnostic{Line: line, Kind: kind, Message: fmt.Sprintf(format, args...)}
	*ds = append(*ds, d)
	log.Printf("Warning: %s", d)
}

// Verbose enables per-statement debug logging.
var Verbose bool

func debugf(format string, args ...any) {
	if Verbose {
		log.Printf(format, args...)
	}
}
