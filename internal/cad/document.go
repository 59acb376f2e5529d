// Package cad builds a drafting document from entity records and writes it
// as DXF.
package cad

import (
	"errors"
	"math"

	"cadvision/internal/entity"
)

// Layer names used in written files.
const (
	LayerGeometry   = "0"
	LayerDimensions = "DIMENSIONS"
)

// ErrNotRendered is returned when a document holding an angular dimension
// whose geometry was never produced is saved.
var ErrNotRendered = errors.New("angular dimension has not been rendered")

// Object is a drawable item in model space.
type Object interface {
	Kind() entity.Kind
	// Bounds returns the axis-aligned extent of the object.
	Bounds() Box
}

// Line is a straight segment.
type Line struct {
	Start, End entity.Point
}

// Circle is a full circle.
type Circle struct {
	Center entity.Point
	Radius float64
}

// Arc is a counter-clockwise arc in degrees.
type Arc struct {
	Center     entity.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// Text is a single-line label anchored at its lower-left corner.
type Text struct {
	Value  string
	At     entity.Point
	Height float64
}

func (*Line) Kind() entity.Kind   { return entity.KindLine }
func (*Circle) Kind() entity.Kind { return entity.KindCircle }
func (*Arc) Kind() entity.Kind    { return entity.KindArc }

func (l *Line) Bounds() Box {
	var b Box
	b.Add(l.Start)
	b.Add(l.End)
	return b
}

func (c *Circle) Bounds() Box {
	var b Box
	b.Add(entity.Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius})
	b.Add(entity.Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius})
	return b
}

func (a *Arc) Bounds() Box {
	ea := a.geometry()
	var b Box
	b.Add(ea.PointAt(0))
	b.Add(ea.PointAt(1))
	for _, deg := range []float64{0, 90, 180, 270} {
		if ea.Covers(deg) {
			b.Add(entity.Polar(a.Center, a.Radius, deg))
		}
	}
	return b
}

func (a *Arc) geometry() entity.Arc {
	return entity.Arc{Center: a.Center, Radius: a.Radius, StartAngle: a.StartAngle, EndAngle: a.EndAngle}
}

// PointAt returns the point reached after fraction t of the CCW sweep.
func (a *Arc) PointAt(t float64) entity.Point {
	return a.geometry().PointAt(t)
}

// Sweep returns the counter-clockwise extent in degrees.
func (a *Arc) Sweep() float64 {
	return a.geometry().Sweep()
}

// Box is an axis-aligned bounding box. The zero value is empty.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
	valid                  bool
}

// Add grows the box to include p.
func (b *Box) Add(p entity.Point) {
	if !b.valid {
		*b = Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y, valid: true}
		return
	}
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// Union grows the box to include o.
func (b *Box) Union(o Box) {
	if !o.valid {
		return
	}
	b.Add(entity.Point{X: o.MinX, Y: o.MinY})
	b.Add(entity.Point{X: o.MaxX, Y: o.MaxY})
}

// Empty reports whether nothing was added.
func (b Box) Empty() bool { return !b.valid }

// Width is the horizontal extent.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height is the vertical extent.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Document is a single model-space layout.
type Document struct {
	Objects []Object
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Add appends an object.
func (d *Document) Add(o Object) {
	d.Objects = append(d.Objects, o)
}

// Bounds returns the extent of every object, rendered dimensions included.
func (d *Document) Bounds() Box {
	var b Box
	for _, o := range d.Objects {
		b.Union(o.Bounds())
	}
	return b
}

// Dimensions returns the angular dimensions in document order.
func (d *Document) Dimensions() []*AngularDimension {
	var dims []*AngularDimension
	for _, o := range d.Objects {
		if dim, ok := o.(*AngularDimension); ok {
			dims = append(dims, dim)
		}
	}
	return dims
}

// Render renders every dimension that has not been rendered yet.
func (d *Document) Render() {
	for _, dim := range d.Dimensions() {
		if !dim.Rendered() {
			dim.Render()
		}
	}
}

// CheckRendered returns ErrNotRendered if any dimension lacks geometry.
func (d *Document) CheckRendered() error {
	for _, dim := range d.Dimensions() {
		if !dim.Rendered() {
			return ErrNotRendered
		}
	}
	return nil
}
