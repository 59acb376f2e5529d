package cad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadvision/internal/entity"
)

const eps = 1e-9

func TestAngularDimension_Render(t *testing.T) {
	dim := &AngularDimension{
		Center:     entity.Point{},
		Radius:     3,
		StartAngle: 0,
		EndAngle:   90,
		Distance:   2,
		Style:      DefaultStyle(),
	}
	assert.False(t, dim.Rendered())
	r := dim.Render()
	require.True(t, dim.Rendered())

	assert.Equal(t, 5.0, r.DimLine.Radius)
	assert.InDelta(t, 90, r.DimLine.Sweep(), eps)

	require.Len(t, r.Extensions, 2)
	assert.InDelta(t, 3.0625, r.Extensions[0].Start.X, eps)
	assert.InDelta(t, 5.18, r.Extensions[0].End.X, eps)
	assert.InDelta(t, 5.18, r.Extensions[1].End.Y, eps)

	// Open arrows: two barbs per end.
	require.Len(t, r.Arrows, 4)
	assert.InDelta(t, 5, r.Arrows[0].Start.X, eps)
	assert.Greater(t, r.Arrows[0].End.Y, 0.0)
	assert.InDelta(t, 5, r.Arrows[2].Start.Y, eps)
	assert.Greater(t, r.Arrows[2].End.X, 0.0)

	assert.Equal(t, "90.00%%d", r.Label.Value)
	assert.InDelta(t, 45, math.Atan2(r.Label.At.Y, r.Label.At.X)*180/math.Pi, 1e-6)
}

func TestAngularDimension_ClosedArrowsAndWrap(t *testing.T) {
	style, _ := LookupStyle("Standard")
	dim := &AngularDimension{Radius: 1, StartAngle: 350, EndAngle: 10, Distance: 1, Style: style}
	r := dim.Render()

	assert.Len(t, r.Arrows, 6)
	assert.InDelta(t, 20, dim.Measured(), eps)
	assert.Equal(t, "20%%d", r.Label.Value)
	// The label sits on the short CCW side through 0 degrees.
	assert.Greater(t, r.Label.At.X, 0.0)
}

func TestDocument_NotRendered(t *testing.T) {
	doc := NewDocument()
	doc.Add(&AngularDimension{Radius: 1, EndAngle: 90, Style: DefaultStyle()})
	assert.ErrorIs(t, doc.CheckRendered(), ErrNotRendered)

	doc.Render()
	assert.NoError(t, doc.CheckRendered())
}

func TestArc_CCWFrom90To270(t *testing.T) {
	a := &Arc{Center: entity.Point{}, Radius: 1, StartAngle: 90, EndAngle: 270}
	assert.InDelta(t, 180, a.Sweep(), eps)

	mid := a.PointAt(0.5)
	assert.InDelta(t, -1, mid.X, eps)
	assert.InDelta(t, 0, mid.Y, eps)

	b := a.Bounds()
	assert.InDelta(t, -1, b.MinX, eps)
	assert.InDelta(t, 0, b.MaxX, eps)
	assert.InDelta(t, -1, b.MinY, eps)
	assert.InDelta(t, 1, b.MaxY, eps)
}

func TestDocument_Bounds(t *testing.T) {
	doc := NewDocument()
	doc.Add(&Line{Start: entity.Point{X: -2, Y: 1}, End: entity.Point{X: 4, Y: 3}})
	doc.Add(&Circle{Center: entity.Point{X: 0, Y: 0}, Radius: 1})
	b := doc.Bounds()
	assert.InDelta(t, -2, b.MinX, eps)
	assert.InDelta(t, -1, b.MinY, eps)
	assert.InDelta(t, 4, b.MaxX, eps)
	assert.InDelta(t, 3, b.MaxY, eps)
	assert.InDelta(t, 6, b.Width(), eps)
	assert.InDelta(t, 4, b.Height(), eps)
}
