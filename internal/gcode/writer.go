package gcode

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/google/uuid"
	"github.com/mvp-joe/gerber2nc/internal/board"
	"github.com/mvp-joe/gerber2nc/internal/geometry"
	"github.com/mvp-joe/gerber2nc/internal/output"
)

// Job is everything needed to mill one board. Coordinates must already be
// shifted so the board starts at the origin.
type Job struct {
	Toolpaths   []geometry.Polyline
	Outline     board.Outline
	Holes       []board.Hole
	BoardHeight float64
}

// Generator emits G-code programs.
type Generator struct {
	params Params
}

// NewGenerator creates a generator. Depths must cut below the surface, so a
// positive cut depth is negated.
func NewGenerator(params Params) *Generator {
	if params.CutDepth > 0 {
		log.Printf("Warning: cut depth %g is positive - converting to %g", params.CutDepth, -params.CutDepth)
		params.CutDepth = -params.CutDepth
	}
	if params.EdgeCutDepth > 0 {
		log.Printf("Warning: edge cut depth %g is positive - converting to %g", params.EdgeCutDepth, -params.EdgeCutDepth)
		params.EdgeCutDepth = -params.EdgeCutDepth
	}
	return &Generator{params: params}
}

// Params returns the effective settings.
func (g *Generator) Params() Params {
	return g.params
}

// Write emits the program for job and returns the job id recorded in its
// header comment.
func (g *Generator) Write(w io.Writer, job Job) (uuid.UUID, error) {
	id := uuid.New()
	pw := &programWriter{w: bufio.NewWriter(w)}

	g.writeHeader(pw, id)
	g.writeTraceMilling(pw, job.Toolpaths)
	g.writeEdgeCuts(pw, job.Outline)
	g.writeDrilling(pw, job.Holes)
	g.writeFooter(pw, job.BoardHeight)

	if pw.err != nil {
		return uuid.Nil, fmt.Errorf("failed to write gcode: %w", pw.err)
	}
	if err := pw.w.Flush(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to flush gcode: %w", err)
	}
	return id, nil
}

// WriteFile writes the program to path atomically (temp file then rename).
func (g *Generator) WriteFile(path string, job Job) (uuid.UUID, error) {
	var id uuid.UUID
	err := output.WriteFile(path, func(w io.Writer) error {
		var err error
		id, err = g.Write(w, job)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (g *Generator) writeHeader(w *programWriter, id uuid.UUID) {
	p := g.params
	w.line("%")
	w.printf("(job %s)", id)
	w.line("G21  ; Set units to mm")
	w.line("G90  ; Absolute positioning")
	w.printf("G0 Z%s  ; Move to safe height", num(p.SafeHeight))
	w.line("(Load 0.2mm engraving tool)")
	w.line("T1 M06")
	w.printf("S%d M3  ; Start spindle clockwise", p.SpindleSpeed)
}

func (g *Generator) writeTraceMilling(w *programWriter, paths []geometry.Polyline) {
	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		g.cut(w, path, g.params.CutDepth)
	}
}

func (g *Generator) writeEdgeCuts(w *programWriter, outline board.Outline) {
	if len(outline) == 0 {
		return
	}
	w.line("(Mill edge cut mark)")
	g.cut(w, outline, g.params.EdgeCutDepth)
	w.line("M5  ; Stop spindle")
}

// cut plunges at the first point, feeds through the rest and retracts.
func (g *Generator) cut(w *programWriter, points []board.Point, depth float64) {
	p := g.params
	for i, pt := range points {
		if i == 0 {
			w.printf("G0 X%.2f Y%.2f", pt.X, pt.Y)
			w.line("G0 Z0.1")
			w.printf("G1 Z%.3f F%d", depth, p.PlungeFeedRate)
			w.printf("G1 F%d", p.FeedRate)
			continue
		}
		w.printf("G1 X%.2f Y%.2f", pt.X, pt.Y)
	}
	w.printf("G0 Z%s", num(p.SafeHeight))
}

// SplitHoles separates holes at the large-hole threshold. Holes exactly at
// the threshold count as small.
func SplitHoles(holes []board.Hole, threshold float64) (small, large []board.Hole) {
	for _, h := range holes {
		if h.Diameter > threshold {
			large = append(large, h)
		} else {
			small = append(small, h)
		}
	}
	return small, large
}

func (g *Generator) writeDrilling(w *programWriter, holes []board.Hole) {
	if len(holes) == 0 {
		return
	}
	small, large := SplitHoles(holes, g.params.LargeHoleThreshold)
	g.drill(w, "(Load small drill)", "T2 M06", small)
	g.drill(w, "(Load large drill)", "T3 M06", large)
}

func (g *Generator) drill(w *programWriter, comment, toolChange string, holes []board.Hole) {
	if len(holes) == 0 {
		return
	}
	p := g.params
	w.line(comment)
	w.line(toolChange)
	w.printf("S%d M3  ; Start spindle", p.SpindleSpeed)
	for _, h := range holes {
		w.printf("G0 X%.2f Y%.2f", h.Position.X, h.Position.Y)
		w.printf("G0 Z%.2f", p.HoleStart)
		w.printf("G1 Z%.2f F%d", p.HoleDepth, p.PlungeFeedRate)
		w.printf("G0 Z%s", num(p.SafeHeight))
	}
}

func (g *Generator) writeFooter(w *programWriter, boardHeight float64) {
	w.line("M5  ; Stop spindle")
	w.printf("G0 X0 Y%.1f Z50  ; Return home", boardHeight)
	w.line("M30  ; End of program")
	w.line("%")
}

// num formats a value with the fewest digits that round-trip.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// programWriter keeps the first write error so emitters can stay linear.
type programWriter struct {
	w   *bufio.Writer
	err error
}

func (pw *programWriter) line(s string) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.w.WriteString(s + "\n")
}

func (pw *programWriter) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, format+"\n", args...)
}
