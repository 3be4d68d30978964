// Package converter runs the full pipeline from fabrication files to a
// milling job: read, parse, shift to the origin, build the copper region and
// compute toolpaths.
//
// Copper is required. A missing or unreadable outline or drill file is
// logged as a warning and the board is converted without it. Parsed layers
// are cached by content hash so repeated conversions in watch mode only
// re-parse what changed.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mvp-joe/gerber2nc/internal/board"
	"github.com/mvp-joe/gerber2nc/internal/cache"
	"github.com/mvp-joe/gerber2nc/internal/gcode"
	"github.com/mvp-joe/gerber2nc/internal/geometry"
	"github.com/mvp-joe/gerber2nc/internal/parsers"
	"github.com/mvp-joe/gerber2nc/internal/preview"
	"github.com/mvp-joe/gerber2nc/internal/project"
	"github.com/mvp-joe/gerber2nc/internal/toolpath"
)

// ErrFatalInput is returned when the board cannot be converted at all: the
// copper layer is missing or unreadable, or no file contained a coordinate.
var ErrFatalInput = errors.New("fatal input")

// Layer kinds used in cache keys.
const (
	kindCopper  = "copper"
	kindOutline = "outline"
	kindDrill   = "drill"
)

// Options configures a Converter.
type Options struct {
	Params   toolpath.Params
	Geometry geometry.Options
	Engine   toolpath.Options
	// CacheSize bounds the parse cache. Zero uses cache.DefaultCapacity.
	CacheSize int
}

// Input is the raw content of one conversion. Nil Outline or Drill means
// the file is absent.
type Input struct {
	Copper  []byte
	Outline []byte
	Drill   []byte
}

// Result is a converted board. Every coordinate is shifted so the board's
// lower-left corner, margins included, sits at the origin.
type Result struct {
	Copper  *parsers.CopperLayer
	Outline *parsers.OutlineLayer
	Drill   *parsers.DrillLayer

	// Extent is the combined extent before shifting.
	Extent board.Extent
	Width  float64
	Height float64

	Region      *geometry.Region
	Toolpaths   *toolpath.Set
	Diagnostics []geometry.Diagnostic
}

// Job returns the G-code job for the result.
func (r *Result) Job() gcode.Job {
	job := gcode.Job{
		Toolpaths:   r.Toolpaths.Paths(),
		BoardHeight: r.Height,
	}
	if r.Outline != nil {
		job.Outline = r.Outline.Outline
	}
	if r.Drill != nil {
		job.Holes = r.Drill.Holes
	}
	return job
}

// Scene returns the preview scene for the result.
func (r *Result) Scene() preview.Scene {
	s := preview.Scene{
		Width:     r.Width,
		Height:    r.Height,
		Traces:    r.Copper.Traces,
		Pads:      r.Copper.Pads,
		Toolpaths: r.Toolpaths.Paths(),
	}
	if r.Outline != nil {
		s.Outline = r.Outline.Outline
	}
	if r.Drill != nil {
		s.Holes = r.Drill.Holes
	}
	return s
}

// parsed is one cached parse: the layer plus the extent it contributed.
type parsed struct {
	copper  *parsers.CopperLayer
	outline *parsers.OutlineLayer
	drill   *parsers.DrillLayer
	extent  board.Extent
}

// Converter turns board files into toolpaths. It is safe for concurrent use.
type Converter struct {
	params   toolpath.Params
	geometry geometry.Options
	engine   *toolpath.Engine
	cache  *cache.Cache[parsed]
}

// New creates a converter. Params are validated up front so a bad
// configuration fails before any file is read.
func New(opts Options) (*Converter, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	c, err := cache.New[parsed](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Converter{
		params:   opts.Params,
		geometry: opts.Geometry,
		engine:   toolpath.NewEngine(opts.Engine),
		cache:    c,
	}, nil
}

// Close releases the parse cache.
func (c *Converter) Close() {
	c.cache.Close()
}

// CacheStats reports parse cache effectiveness.
func (c *Converter) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// ConvertFiles reads the discovered files and converts them.
func (c *Converter) ConvertFiles(ctx context.Context, files *project.Files) (*Result, error) {
	in, err := ReadInput(files)
	if err != nil {
		return nil, err
	}
	return c.Convert(ctx, in)
}

// ReadInput loads the discovered files. Only the copper layer is required.
func ReadInput(files *project.Files) (Input, error) {
	var in Input
	if files.Copper == "" {
		return in, fmt.Errorf("%w: no copper layer", ErrFatalInput)
	}
	data, err := os.ReadFile(files.Copper)
	if err != nil {
		return in, fmt.Errorf("%w: failed to read copper layer: %v", ErrFatalInput, err)
	}
	in.Copper = data
	in.Outline = readOptional(files.Outline, "edge cuts")
	in.Drill = readOptional(files.Drill, "drill file")
	return in, nil
}

func readOptional(path, what string) []byte {
	if path == "" {
		log.Printf("Warning: no %s found, continuing without it", what)
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: failed to read %s %s, continuing without it: %v", what, path, err)
		return nil
	}
	return data
}

// Convert parses the input and computes toolpaths. The context is checked
// between stages and before every toolpath pass.
func (c *Converter) Convert(ctx context.Context, in Input) (*Result, error) {
	if in.Copper == nil {
		return nil, fmt.Errorf("%w: no copper layer", ErrFatalInput)
	}

	copper := c.parse(kindCopper, in.Copper)
	outline := c.parse(kindOutline, in.Outline)
	drill := c.parse(kindDrill, in.Drill)

	var extent board.Extent
	extent.Merge(copper.extent)
	extent.Merge(outline.extent)
	extent.Merge(drill.extent)
	if !extent.Valid() {
		return nil, fmt.Errorf("%w: no coordinates found in any input", ErrFatalInput)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	offset := extent.Min()
	res := &Result{
		Extent: extent,
		Width:  extent.Width(),
		Height: extent.Height(),
	}
	log.Printf("Board size: %.1f x %.1f mm", res.Width, res.Height)

	// Shift copies so cached layers keep their original coordinates.
	cu := *copper.copper
	cu.Shift(offset)
	res.Copper = &cu
	if in.Outline != nil {
		ol := *outline.outline
		ol.Shift(offset)
		res.Outline = &ol
	}
	if in.Drill != nil {
		dr := *drill.drill
		dr.Shift(offset)
		res.Drill = &dr
	}

	res.Region, res.Diagnostics = geometry.BuildWithDiagnostics(res.Copper.Traces, res.Copper.Pads, c.geometry)
	for _, d := range res.Diagnostics {
		log.Printf("Warning: %s", d)
	}
	log.Printf("Built copper region from %d traces and %d pads", len(res.Copper.Traces), len(res.Copper.Pads))

	set, err := c.engine.Compute(ctx, res.Region, c.params)
	if err != nil {
		return nil, err
	}
	res.Toolpaths = set
	log.Printf("Generated %d toolpaths in %d passes", set.PathCount(), len(set.Passes))

	return res, nil
}

// parse returns the cached parse of data, parsing on a miss. Nil data
// parses as an empty layer and is not cached.
func (c *Converter) parse(kind string, data []byte) parsed {
	if data == nil {
		return parseLayer(kind, nil)
	}
	v, hit := c.cache.GetOrCompute(cache.KeyFor(kind, data), func() parsed {
		return parseLayer(kind, data)
	})
	if hit {
		log.Printf("Using cached %s layer", kind)
	}
	return v
}

// parseLayer parses one layer against a fresh extent so the result can be
// reused independently of the other layers.
func parseLayer(kind string, data []byte) parsed {
	var p parsed
	r := reader(data)
	switch kind {
	case kindCopper:
		p.copper = parsers.ParseCopper(r, &p.extent)
	case kindOutline:
		p.outline = parsers.ParseOutline(r, &p.extent)
	case kindDrill:
		p.drill = parsers.ParseDrill(r, &p.extent)
	}
	return p
}

// reader returns a nil interface for absent content.
func reader(data []byte) io.Reader {
	if data == nil {
		return nil
	}
	return bytes.NewReader(data)
}
