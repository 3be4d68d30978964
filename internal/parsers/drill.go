package parsers

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mvp-joe/gerber2nc/internal/board"
)

var (
	toolDefPattern    = regexp.MustCompile(`^T(\d+)C([\d.]+)`)
	toolSelectPattern = regexp.MustCompile(`^T(\d+)$`)
	drillCoordPattern = regexp.MustCompile(`^X(-?[\d.]+)Y(-?[\d.]+)`)
)

// DrillLayer is the result of parsing an Excellon drill file.
type DrillLayer struct {
	Holes []board.Hole

	// Tools maps tool numbers to diameters in mm.
	Tools map[int]float64

	// ExplicitDecimals is true when coordinates carry a decimal point
	// (KiCad) rather than an implied one (Fritzing).
	ExplicitDecimals bool

	Diagnostics Diagnostics
}

// Shift translates every hole by -offset.
func (d *DrillLayer) Shift(offset board.Point) {
	d.Holes = board.ShiftHoles(d.Holes, offset)
}

// ParseDrill parses an Excellon drill stream. A nil reader yields an empty
// layer. The coordinate format is detected once for the whole file before
// any hole is read.
func ParseDrill(r io.Reader, extents *board.Extent) *DrillLayer {
	layer := &DrillLayer{Tools: make(map[int]float64)}
	if r == nil {
		return layer
	}

	lines, err := readLines(r)
	if err != nil {
		layer.Diagnostics.add(0, MalformedStatement, "read error: %v", err)
	}

	layer.ExplicitDecimals = detectDecimalFormat(lines)
	debugf("Decimal coordinates: %v", layer.ExplicitDecimals)

	unitsMult := 1.0
	coordScale := 1.0
	currentTool := -1

	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "METRIC"):
			unitsMult = 1.0
			if !layer.ExplicitDecimals {
				coordScale = DrillFormatMetric
			}
			debugf("Units: metric")
		case strings.Contains(upper, "INCH"):
			unitsMult = MMPerInch
			if !layer.ExplicitDecimals {
				coordScale = DrillFormatInch
			}
			debugf("Units: inches")
		}

		if m := toolDefPattern.FindStringSubmatch(line); m != nil {
			tool, _ := strconv.Atoi(m[1])
			diameter, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				layer.Diagnostics.add(lineNum, MalformedStatement, "bad tool diameter %q", m[2])
				continue
			}
			layer.Tools[tool] = diameter * unitsMult
			debugf("Tool T%d: %.3fmm", tool, layer.Tools[tool])
			continue
		}

		if m := toolSelectPattern.FindStringSubmatch(line); m != nil {
			tool, _ := strconv.Atoi(m[1])
			if tool == 0 {
				currentTool = -1
			} else {
				currentTool = tool
			}
			continue
		}

		if m := drillCoordPattern.FindStringSubmatch(line); m != nil {
			if currentTool < 0 {
				layer.Diagnostics.add(lineNum, MalformedStatement, "hole %q with no tool selected", line)
				continue
			}

			x, errX := parseDrillCoord(m[1], coordScale, unitsMult)
			y, errY := parseDrillCoord(m[2], coordScale, unitsMult)
			if errX != nil || errY != nil {
				layer.Diagnostics.add(lineNum, MalformedStatement, "bad hole coordinate %q", line)
				continue
			}

			diameter, ok := layer.Tools[currentTool]
			if !ok {
				diameter = DefaultToolDiameter
			}
			layer.Holes = append(layer.Holes, board.Hole{Position: board.Point{X: x, Y: y}, Diameter: diameter})
			extents.Update(x, y, 0)

			debugf("Hole (%.1f, %.1f), diameter: %.2fmm", x, y, diameter)
			continue
		}

		if strings.HasPrefix(upper, "X") || strings.HasPrefix(upper, "Y") {
			layer.Diagnostics.add(lineNum, MalformedStatement, "unrecognized coordinate line %q", line)
		}
	}

	return layer
}

// detectDecimalFormat reports whether any coordinate line has a decimal
// point in its X field. KiCad writes X1.234Y5.678, Fritzing X012345Y067890.
func detectDecimalFormat(lines []string) bool {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !drillCoordPattern.MatchString(line) {
			continue
		}
		xField, _, _ := strings.Cut(line, "Y")
		if strings.Contains(xField, ".") {
			return true
		}
	}
	return false
}

// parseDrillCoord converts one coordinate token to mm. A literal decimal
// point wins; otherwise the token is an integer in the implied format.
func parseDrillCoord(token string, scale, unitsMult float64) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}
	if strings.Contains(token, ".") {
		return v * unitsMult, nil
	}
	return v / scale * unitsMult, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
