package parsers

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1024 * 1024

// statement is one '*'-terminated Gerber statement with its source line.
type statement struct {
	line     int
	text     string // without the '*' terminator and the '%' delimiters
	extended bool
	block    []string // every statement of the enclosing %...% block
}

// scanGerber splits a Gerber stream into statements. Extended blocks may span
// several lines; ordinary lines may carry several '*'-terminated statements.
func scanGerber(r io.Reader, fn func(statement)) error {
	if r == nil {
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		pending   strings.Builder
		blockLine int
		lineNum   int
	)

	emitBlock := func(line int, raw string) {
		body := strings.Trim(raw, "%")
		var parts []string
		for _, p := range strings.Split(body, "*") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		for _, p := range parts {
			fn(statement{line: line, text: p, extended: true, block: parts})
			// Macro bodies are not statements of their own.
			if strings.HasPrefix(p, "AM") {
				return
			}
		}
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if pending.Len() > 0 {
			pending.WriteString(line)
			if strings.HasSuffix(line, "%") {
				emitBlock(blockLine, pending.String())
				pending.Reset()
			}
			continue
		}

		if strings.HasPrefix(line, "%") {
			if len(line) > 1 && strings.HasSuffix(line, "%") {
				emitBlock(lineNum, line)
			} else {
				blockLine = lineNum
				pending.WriteString(line)
			}
			continue
		}

		for _, part := range strings.Split(line, "*") {
			if part = strings.TrimSpace(part); part != "" {
				fn(statement{line: lineNum, text: part})
			}
		}
	}

	if pending.Len() > 0 {
		emitBlock(blockLine, pending.String())
	}

	return scanner.Err()
}

var (
	// X<int>Y<int>D0<op>, with optional G01 prefix and modal X or Y.
	coordPattern  = regexp.MustCompile(`^(?:G0?1)?(?:X([+-]?\d+))?(?:Y([+-]?\d+))?D0?([0-9])$`)
	formatPattern = regexp.MustCompile(`^FS[LT]?[AI]?X(\d)(\d)Y(\d)(\d)`)
)

// coordOp is a parsed coordinate operation.
type coordOp struct {
	x, y       float64
	hasX, hasY bool
	op         int
}

// parseCoordOp matches a coordinate statement. The boolean is false when the
// statement is not a coordinate operation at all.
func parseCoordOp(text string, scale float64) (coordOp, bool) {
	m := coordPattern.FindStringSubmatch(text)
	if m == nil || (m[1] == "" && m[2] == "") {
		return coordOp{}, false
	}

	var c coordOp
	if m[1] != "" {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return coordOp{}, false
		}
		c.x, c.hasX = float64(v)*scale, true
	}
	if m[2] != "" {
		v, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return coordOp{}, false
		}
		c.y, c.hasY = float64(v)*scale, true
	}
	c.op = int(m[3][0] - '0')
	return c, true
}

// unitState tracks the unit mode and coordinate format of a Gerber layer.
type unitState struct {
	units    Units
	decimals int
}

func newUnitState() unitState {
	return unitState{units: Millimeters, decimals: 6}
}

// scale converts a raw coordinate integer into millimetres.
func (u unitState) scale() float64 {
	return math.Pow10(-u.decimals) * u.units.multiplier()
}

// apply interprets unit and format statements, reporting whether it did.
func (u *unitState) apply(text string) bool {
	switch {
	case strings.HasPrefix(text, "MOMM"):
		u.units = Millimeters
		debugf("Units: millimeters")
		return true
	case strings.HasPrefix(text, "MOIN"):
		u.units = Inches
		debugf("Units: inches")
		return true
	}
	if m := formatPattern.FindStringSubmatch(text); m != nil {
		u.decimals = int(m[2][0] - '0')
		return true
	}
	return false
}

// ignoredExtended lists extended statements that carry no geometry we use.
var ignoredExtended = []string{"AM", "LP", "LM", "LR", "LS", "TF", "TA", "TO", "TD", "IP", "IN", "LN", "OF", "SR", "SF", "MI", "AS", "IR", "AB"}

func isIgnoredExtended(text string) bool {
	for _, p := range ignoredExtended {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// isIgnoredCommand reports statements that are valid Gerber but have no
// effect on straight-segment geometry.
func isIgnoredCommand(text string) bool {
	switch text {
	case "G01", "G1", "G36", "G37", "G70", "G71", "G74", "G75", "G90", "G91", "M00", "M01", "M02":
		return true
	}
	return strings.HasPrefix(text, "G04") || strings.HasPrefix(text, "G4 ")
}
