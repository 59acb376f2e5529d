package preview

import (
	"math"
	"strings"

	"cadvision/internal/cad"
	"cadvision/internal/entity"
)

// Glyphs used by Render.
const (
	GlyphGeometry   = '#'
	GlyphAnnotation = '.'
)

// Options sizes the preview.
type Options struct {
	Width  int
	Height int
	// CellAspect is the height of a terminal cell divided by its width.
	CellAspect float64
}

// DefaultOptions returns a 72x24 canvas with 2:1 cells.
func DefaultOptions() Options {
	return Options{Width: 72, Height: 24, CellAspect: 2}
}

// projection maps model coordinates to canvas cells, keeping the drawing's
// proportions and centering it.
type projection struct {
	box        cad.Box
	scale      float64
	aspect     float64
	offX, offY float64
	height     int
}

func newProjection(box cad.Box, opts Options) projection {
	aspect := opts.CellAspect
	if aspect <= 0 {
		aspect = 2
	}
	w := math.Max(box.Width(), 1e-9)
	h := math.Max(box.Height(), 1e-9)
	cols := float64(opts.Width - 1)
	rows := float64(opts.Height - 1)
	scale := math.Min(cols/w, rows*aspect/h)

	return projection{
		box:    box,
		scale:  scale,
		aspect: aspect,
		offX:   (cols - box.Width()*scale) / 2,
		offY:   (rows - box.Height()*scale/aspect) / 2,
		height: opts.Height,
	}
}

func (p projection) cell(pt entity.Point) (int, int) {
	x := (pt.X-p.box.MinX)*p.scale + p.offX
	y := (pt.Y-p.box.MinY)*p.scale/p.aspect + p.offY
	return int(math.Round(x)), p.height - 1 - int(math.Round(y))
}

// Render rasterises doc onto a canvas. Rendered dimensions are drawn with the
// annotation glyph and their labels as text.
func Render(doc *cad.Document, opts Options) *Canvas {
	c := NewCanvas(opts.Width, opts.Height)
	opts.Width, opts.Height = c.Width(), c.Height()
	box := doc.Bounds()
	if box.Empty() {
		return c
	}
	p := newProjection(box, opts)

	for _, o := range doc.Objects {
		dim, ok := o.(*cad.AngularDimension)
		if !ok {
			drawObject(c, p, o, GlyphGeometry)
			continue
		}
		r := dim.Rendering()
		if r == nil {
			continue
		}
		for _, part := range r.Objects() {
			drawObject(c, p, part, GlyphAnnotation)
		}
		if r.Label != nil {
			x, y := p.cell(r.Label.At)
			c.Text(x, y, strings.ReplaceAll(r.Label.Value, "%%d", "°"))
		}
	}
	return c
}

func drawObject(c *Canvas, p projection, o cad.Object, glyph rune) {
	switch v := o.(type) {
	case *cad.Line:
		x0, y0 := p.cell(v.Start)
		x1, y1 := p.cell(v.End)
		c.Line(x0, y0, x1, y1, glyph)
	case *cad.Circle:
		drawCurve(c, p, v.Radius, 1, glyph, func(t float64) entity.Point {
			return entity.Polar(v.Center, v.Radius, t*360)
		})
	case *cad.Arc:
		drawCurve(c, p, v.Radius, v.Sweep()/360, glyph, v.PointAt)
	}
}

// drawCurve samples at roughly one point per cell along the curve and joins
// the samples with straight segments.
func drawCurve(c *Canvas, p projection, radius, fraction float64, glyph rune, at func(t float64) entity.Point) {
	steps := int(math.Ceil(2 * math.Pi * radius * fraction * p.scale))
	if steps < 8 {
		steps = 8
	}
	px, py := p.cell(at(0))
	for i := 1; i <= steps; i++ {
		x, y := p.cell(at(float64(i) / float64(steps)))
		c.Line(px, py, x, y, glyph)
		px, py = x, y
	}
}
