package parsers

import (
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mvp-joe/gerber2nc/internal/board"
)

var (
	apertureDefPattern = regexp.MustCompile(`^ADD(\d+)([^,]+),(.+)$`)
	apertureSelPattern = regexp.MustCompile(`^(?:G54)?D(\d+)$`)
)

// minUserAperture is the first aperture number available to user definitions.
// D01-D03 are operation codes and D04-D09 are reserved.
const minUserAperture = 10

// CopperLayer is the result of parsing a copper-layer Gerber file.
type CopperLayer struct {
	Traces      []board.Trace
	Pads        []board.Pad
	Apertures   map[int]board.Aperture
	Units       Units
	Diagnostics Diagnostics
}

// Shift translates every trace and pad by -offset.
func (c *CopperLayer) Shift(offset board.Point) {
	c.Traces = board.ShiftTraces(c.Traces, offset)
	c.Pads = board.ShiftPads(c.Pads, offset)
}

// copperParser holds the state carried across statements.
type copperParser struct {
	layer    *CopperLayer
	extents  *board.Extent
	units    unitState
	current  int // selected aperture, -1 when none
	position board.Point
}

// ParseCopper parses a copper-layer command stream. A nil reader yields an
// empty layer. Read errors are recorded as diagnostics; whatever was parsed
// before the error is kept.
func ParseCopper(r io.Reader, extents *board.Extent) *CopperLayer {
	p := &copperParser{
		layer: &CopperLayer{
			Apertures: make(map[int]board.Aperture),
		},
		extents: extents,
		units:   newUnitState(),
		current: -1,
	}

	if err := scanGerber(r, p.process); err != nil {
		p.layer.Diagnostics.add(0, MalformedStatement, "read error: %v", err)
	}
	p.layer.Units = p.units.units

	return p.layer
}

func (p *copperParser) process(st statement) {
	if st.extended {
		p.processExtended(st)
		return
	}
	p.processCommand(st)
}

// processExtended handles unit mode, format and aperture definitions.
func (p *copperParser) processExtended(st statement) {
	if p.units.apply(st.text) {
		return
	}

	if m := apertureDefPattern.FindStringSubmatch(st.text); m != nil {
		p.defineAperture(st.line, m[1], m[2], m[3])
		return
	}

	if isIgnoredExtended(st.text) {
		return
	}
	p.layer.Diagnostics.add(st.line, MalformedStatement, "unrecognized extended command %q", st.text)
}

func (p *copperParser) defineAperture(line int, idText, code, paramText string) {
	id, err := strconv.Atoi(idText)
	if err != nil {
		p.layer.Diagnostics.add(line, MalformedStatement, "bad aperture number %q", idText)
		return
	}

	params, err := parseParams(paramText)
	if err != nil {
		p.layer.Diagnostics.add(line, MalformedStatement, "bad parameters for aperture D%d: %v", id, err)
		return
	}
	// Aperture sizes are in the layer's unit, like coordinates.
	mult := p.units.units.multiplier()
	for i := range params {
		params[i] *= mult
	}

	var ap board.Aperture
	switch code {
	case "C":
		ap = board.Circle{Diameter: params[0]}

	case "R":
		width := params[0]
		height := width
		if len(params) > 1 {
			height = params[1]
		}
		ap = board.Rectangle{Width: width, Height: height}

	case "RoundRect":
		// Approximated by its bounding rectangle; corner rounding is dropped.
		if len(params) < 5 {
			p.layer.Diagnostics.add(line, MalformedStatement, "RoundRect aperture D%d needs 5 parameters, got %d", id, len(params))
			return
		}
		r := params[0]
		x1, y1, x2, y2 := params[1], params[2], params[3], params[4]
		ap = board.Rectangle{
			Width:  math.Abs(x1) + math.Abs(x2) + 2*r,
			Height: math.Abs(y1) + math.Abs(y2) + 2*r,
		}

	default:
		ap = board.Unknown{Code: code}
		p.layer.Diagnostics.add(line, AmbiguousGeometry, "unsupported aperture shape %q for D%d", code, id)
	}

	if _, exists := p.layer.Apertures[id]; exists {
		p.layer.Diagnostics.add(line, MalformedStatement, "aperture D%d redefined", id)
	}
	p.layer.Apertures[id] = ap
	debugf("Aperture D%d: %v", id, ap)
}

// parseParams splits an 'X'-separated aperture parameter list.
func parseParams(text string) ([]float64, error) {
	fields := strings.Split(text, "X")
	params := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		params = append(params, v)
	}
	return params, nil
}

// processCommand handles aperture selection and coordinate operations.
func (p *copperParser) processCommand(st statement) {
	if isIgnoredCommand(st.text) {
		return
	}

	if m := apertureSelPattern.FindStringSubmatch(st.text); m != nil {
		if num, err := strconv.Atoi(m[1]); err == nil && num >= minUserAperture {
			p.current = num
		}
		return
	}

	c, ok := parseCoordOp(st.text, p.units.scale())
	if !ok {
		if strings.HasPrefix(st.text, "G02") || strings.HasPrefix(st.text, "G03") {
			p.layer.Diagnostics.add(st.line, MalformedStatement, "circular interpolation is not supported: %q", st.text)
			return
		}
		p.layer.Diagnostics.add(st.line, MalformedStatement, "unrecognized command %q", st.text)
		return
	}

	target := p.position
	if c.hasX {
		target.X = c.x
	}
	if c.hasY {
		target.Y = c.y
	}

	switch c.op {
	case 1:
		p.extents.Update(target.X, target.Y, MarginTrace)
		p.draw(st.line, target)
	case 2:
		p.extents.Update(target.X, target.Y, MarginTrace)
	case 3:
		p.extents.Update(target.X, target.Y, MarginPad)
		p.flash(st.line, target)
	default:
		p.layer.Diagnostics.add(st.line, MalformedStatement, "unknown operation D0%d", c.op)
	}

	p.position = target
}

// selected returns the current aperture, recording a diagnostic when there
// is nothing usable to draw with.
func (p *copperParser) selected(line int) (board.Aperture, bool) {
	if p.current < 0 {
		p.layer.Diagnostics.add(line, MalformedStatement, "operation with no aperture selected")
		return nil, false
	}
	ap, ok := p.layer.Apertures[p.current]
	if !ok {
		p.layer.Diagnostics.add(line, MalformedStatement, "aperture D%d is not defined", p.current)
		return nil, false
	}
	if _, unknown := ap.(board.Unknown); unknown {
		p.layer.Diagnostics.add(line, AmbiguousGeometry, "aperture D%d has unsupported shape, skipped", p.current)
		return nil, false
	}
	return ap, true
}

func (p *copperParser) draw(line int, target board.Point) {
	ap, ok := p.selected(line)
	if !ok {
		return
	}
	width := ap.TraceWidth()
	if width <= 0 {
		p.layer.Diagnostics.add(line, AmbiguousGeometry, "zero-width trace to %v dropped", target)
		return
	}
	p.layer.Traces = append(p.layer.Traces, board.Trace{Start: p.position, End: target, Width: width})
}

func (p *copperParser) flash(line int, target board.Point) {
	ap, ok := p.selected(line)
	if !ok {
		return
	}
	p.layer.Pads = append(p.layer.Pads, board.Pad{Position: target, Aperture: ap})
}
