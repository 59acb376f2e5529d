package cad

import (
	"fmt"
	"math"

	"cadvision/internal/entity"
)

// degreeSign is the DXF control code for the degree symbol.
const degreeSign = "%%d"

// AngularDimension annotates the CCW angle from StartAngle to EndAngle
// around Center. The dimension line is an arc at Radius+Distance.
// It is written as plain geometry, so Render must run before saving.
type AngularDimension struct {
	Center     entity.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Distance   float64
	Style      DimStyle

	rendering *Rendering
}

// Rendering is the drawable geometry of a dimension.
type Rendering struct {
	Extensions []*Line
	DimLine    *Arc
	Arrows     []*Line
	Label      *Text
}

// Objects returns every rendered primitive.
func (r *Rendering) Objects() []Object {
	objs := make([]Object, 0, len(r.Extensions)+len(r.Arrows)+1)
	for _, l := range r.Extensions {
		objs = append(objs, l)
	}
	objs = append(objs, r.DimLine)
	for _, l := range r.Arrows {
		objs = append(objs, l)
	}
	return objs
}

func (*AngularDimension) Kind() entity.Kind { return entity.KindAngularDimension }

// Bounds covers the rendered geometry, or the dimension arc before rendering.
func (d *AngularDimension) Bounds() Box {
	if d.rendering == nil {
		return d.dimLine().Bounds()
	}
	var b Box
	for _, o := range d.rendering.Objects() {
		b.Union(o.Bounds())
	}
	if t := d.rendering.Label; t != nil {
		b.Add(t.At)
	}
	return b
}

// Measured is the angle shown in the label, in degrees.
func (d *AngularDimension) Measured() float64 {
	return entity.CCWSweep(d.StartAngle, d.EndAngle)
}

// Label formats the measured angle with the style precision.
func (d *AngularDimension) Label() string {
	return fmt.Sprintf("%.*f%s", d.Style.Precision, d.Measured(), degreeSign)
}

// Rendered reports whether Render has been called.
func (d *AngularDimension) Rendered() bool {
	return d.rendering != nil
}

// Rendering returns the geometry produced by Render, or nil.
func (d *AngularDimension) Rendering() *Rendering {
	return d.rendering
}

func (d *AngularDimension) dimLine() *Arc {
	return &Arc{
		Center:     d.Center,
		Radius:     d.Radius + d.Distance,
		StartAngle: d.StartAngle,
		EndAngle:   d.EndAngle,
	}
}

// Render computes extension lines, the dimension arc, arrowheads and the
// label. Calling it again recomputes the geometry.
func (d *AngularDimension) Render() *Rendering {
	s := d.Style
	line := d.dimLine()
	r := &Rendering{DimLine: line}

	extFrom := d.Radius + s.ExtOffset
	extTo := line.Radius + s.ExtBeyond
	if d.Distance < 0 {
		extFrom = d.Radius - s.ExtOffset
		extTo = line.Radius - s.ExtBeyond
	}
	for _, deg := range []float64{d.StartAngle, d.EndAngle} {
		r.Extensions = append(r.Extensions, &Line{
			Start: entity.Polar(d.Center, extFrom, deg),
			End:   entity.Polar(d.Center, extTo, deg),
		})
	}

	// Arrowheads point outward at both ends; their barbs lie along the
	// tangent pointing into the arc.
	r.Arrows = append(r.Arrows, arrowhead(s, entity.Polar(d.Center, line.Radius, d.StartAngle), d.StartAngle+90)...)
	r.Arrows = append(r.Arrows, arrowhead(s, entity.Polar(d.Center, line.Radius, d.EndAngle), d.EndAngle-90)...)

	mid := line.geometry().AngleAt(0.5)
	r.Label = &Text{
		Value:  d.Label(),
		At:     entity.Polar(d.Center, line.Radius+s.TextGap, mid),
		Height: s.TextHeight,
	}

	d.rendering = r
	return r
}

// arrowhead returns the lines of an arrow with its tip at tip, opening
// towards direction back (degrees).
func arrowhead(s DimStyle, tip entity.Point, back float64) []*Line {
	barb := func(offset float64) entity.Point {
		rad := (back + offset) * math.Pi / 180
		return entity.Point{
			X: tip.X + s.ArrowSize*math.Cos(rad),
			Y: tip.Y + s.ArrowSize*math.Sin(rad),
			Z: tip.Z,
		}
	}
	left, right := barb(s.ArrowAngle), barb(-s.ArrowAngle)
	lines := []*Line{{Start: tip, End: left}, {Start: tip, End: right}}
	if s.Arrow == ArrowClosed {
		lines = append(lines, &Line{Start: left, End: right})
	}
	return lines
}
