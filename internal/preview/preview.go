// Package preview renders a converted board to a PNG so toolpaths can be
// checked before milling. Colours follow KiCad's dark theme: copper in red,
// edge cuts in yellow, toolpaths in white and holes in black.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/mvp-joe/gerber2nc/internal/board"
	"github.com/mvp-joe/gerber2nc/internal/geometry"
	"github.com/mvp-joe/gerber2nc/internal/output"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ErrEmptyBoard is returned when the board has no area to draw.
var ErrEmptyBoard = errors.New("board has no area")

var (
	ColorBackground      = color.RGBA{0x20, 0x20, 0x20, 0xff}
	ColorPCB             = color.RGBA{0x00, 0x50, 0x00, 0xff}
	ColorCopper          = color.RGBA{0xc8, 0x34, 0x34, 0xff}
	ColorCopperHighlight = color.RGBA{0xe8, 0x50, 0x50, 0xff}
	ColorEdgeCuts        = color.RGBA{0xf0, 0xe1, 0x4a, 0xff}
	ColorToolpath        = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColorHoleFill        = color.RGBA{0x00, 0x00, 0x00, 0xff}
	ColorHoleOutline     = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Scene is the shifted board content to draw.
type Scene struct {
	Width, Height float64
	Traces        []board.Trace
	Pads          []board.Pad
	Outline       board.Outline
	Toolpaths     []geometry.Polyline
	Holes         []board.Hole
}

// Options controls rendering.
type Options struct {
	// Scale is pixels per millimetre.
	Scale float64
	// MaxSize caps the longest image side in pixels; Scale shrinks to fit.
	MaxSize int
	// Title is drawn in the top-left corner when set.
	Title string
}

// DefaultOptions returns 25 px/mm capped at 4000 px.
func DefaultOptions() Options {
	return Options{Scale: 25, MaxSize: 4000}
}

// Render draws the scene.
func Render(s Scene, opts Options) (*image.RGBA, error) {
	if !(s.Width > 0) || !(s.Height > 0) {
		return nil, ErrEmptyBoard
	}
	if !(opts.Scale > 0) {
		opts.Scale = DefaultOptions().Scale
	}
	if opts.MaxSize > 0 {
		if longest := math.Max(s.Width, s.Height) * opts.Scale; longest > float64(opts.MaxSize) {
			opts.Scale = float64(opts.MaxSize) / math.Max(s.Width, s.Height)
		}
	}

	c := newCanvas(s.Width, s.Height, opts.Scale)

	bg := ColorPCB
	if len(s.Outline) > 0 {
		bg = ColorBackground
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if len(s.Outline) >= 3 {
		c.fillPolygon(s.Outline, ColorPCB)
	}
	for _, t := range s.Traces {
		c.strokeSegment(t.Start, t.End, math.Max(t.Width*c.scale, 1), true, ColorCopper)
	}
	for _, p := range s.Pads {
		c.drawPad(p)
	}
	if len(s.Outline) >= 2 {
		c.strokePolyline(s.Outline, 2, ColorEdgeCuts)
	}
	for _, path := range s.Toolpaths {
		c.strokePolyline(path, 2, ColorToolpath)
	}
	for _, h := range s.Holes {
		r := h.Diameter / 2
		c.fillCircle(h.Position, r+1/c.scale, ColorHoleOutline)
		c.fillCircle(h.Position, r, ColorHoleFill)
	}

	if opts.Title != "" {
		if err := c.label(opts.Title); err != nil {
			return nil, err
		}
	}
	return c.img, nil
}

// WritePNG renders the scene and writes it to path.
func WritePNG(path string, s Scene, opts Options) error {
	img, err := Render(s, opts)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}

	err = output.WriteFile(path, func(w io.Writer) error {
		return png.Encode(w, img)
	})
	if err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}

// canvas maps board millimetres to pixels with Y pointing down.
type canvas struct {
	img    *image.RGBA
	z      *vector.Rasterizer
	scale  float64
	height int
}

func newCanvas(width, height, scale float64) *canvas {
	w := max(1, int(math.Ceil(width*scale)))
	h := max(1, int(math.Ceil(height*scale)))
	return &canvas{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		z:      vector.NewRasterizer(w, h),
		scale:  scale,
		height: h,
	}
}

func (c *canvas) px(p board.Point) (float32, float32) {
	return float32(p.X * c.scale), float32(float64(c.height) - p.Y*c.scale)
}

func (c *canvas) begin() {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Over
}

func (c *canvas) fill(col color.Color) {
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *canvas) fillPolygon(points []board.Point, col color.Color) {
	c.begin()
	x, y := c.px(points[0])
	c.z.MoveTo(x, y)
	for _, p := range points[1:] {
		x, y := c.px(p)
		c.z.LineTo(x, y)
	}
	c.z.ClosePath()
	c.fill(col)
}

func (c *canvas) fillCircle(center board.Point, radius float64, col color.Color) {
	rpx := radius * c.scale
	if rpx <= 0 {
		return
	}
	n := max(12, int(2*math.Pi*rpx/2))
	cx, cy := c.px(center)

	c.begin()
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := cx + float32(rpx*math.Cos(a))
		y := cy + float32(rpx*math.Sin(a))
		if i == 0 {
			c.z.MoveTo(x, y)
		} else {
			c.z.LineTo(x, y)
		}
	}
	c.z.ClosePath()
	c.fill(col)
}

func (c *canvas) fillRect(center board.Point, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	hw, hh := w/2, h/2
	c.fillPolygon([]board.Point{
		{X: center.X - hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y + hh},
		{X: center.X - hw, Y: center.Y + hh},
	}, col)
}

// strokeSegment draws a segment widthPx pixels wide, optionally with round caps.
func (c *canvas) strokeSegment(a, b board.Point, widthPx float64, round bool, col color.Color) {
	ax, ay := c.px(a)
	bx, by := c.px(b)
	dx, dy := float64(bx-ax), float64(by-ay)
	l := math.Hypot(dx, dy)
	half := widthPx / 2

	if l > 0 {
		nx, ny := float32(-dy/l*half), float32(dx/l*half)
		c.begin()
		c.z.MoveTo(ax+nx, ay+ny)
		c.z.LineTo(bx+nx, by+ny)
		c.z.LineTo(bx-nx, by-ny)
		c.z.LineTo(ax-nx, ay-ny)
		c.z.ClosePath()
		c.fill(col)
	}
	if round {
		r := half / c.scale
		c.fillCircle(a, r, col)
		c.fillCircle(b, r, col)
	}
}

func (c *canvas) strokePolyline(points []board.Point, widthPx float64, col color.Color) {
	for i := 1; i < len(points); i++ {
		c.strokeSegment(points[i-1], points[i], widthPx, false, col)
	}
}

func (c *canvas) drawPad(p board.Pad) {
	outline := 1 / c.scale
	switch ap := p.Aperture.(type) {
	case board.Circle:
		c.fillCircle(p.Position, ap.Diameter/2, ColorCopperHighlight)
		c.fillCircle(p.Position, ap.Diameter/2-outline, ColorCopper)
	case board.Rectangle:
		c.fillRect(p.Position, ap.Width, ap.Height, ColorCopperHighlight)
		c.fillRect(p.Position, ap.Width-2*outline, ap.Height-2*outline, ColorCopper)
	case board.Unknown:
		// no footprint
	}
}

func (c *canvas) label(text string) error {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(ColorToolpath),
		Face: face,
		Dot:  fixed.P(6, 18),
	}
	d.DrawString(text)
	return nil
}
