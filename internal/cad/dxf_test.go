package cad

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadvision/internal/entity"
)

const dxfPrecision = 1e-6

func assertPointNear(t *testing.T, want, got entity.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, dxfPrecision)
	assert.InDelta(t, want.Y, got.Y, dxfPrecision)
	assert.InDelta(t, want.Z, got.Z, dxfPrecision)
}

func TestSaveDXF_RoundTrip(t *testing.T) {
	in := decode(t, `{"entities": [
		{"type": "LINE", "params": {"start_point": [0, 0], "end_point": [10.5, -3.25]}},
		{"type": "CIRCLE", "params": {"center": [2, 3], "radius": 1.5}},
		{"type": "ARC", "params": {"center": [0, 0], "radius": 4, "start_angle": 90, "end_angle": 270}}
	]}`)
	doc, _ := Materialize(in, Options{})

	path := filepath.Join(t.TempDir(), "out", "part.dxf")
	require.NoError(t, SaveDXF(doc, path))

	out, err := ReadDXF(path, ReadOptions{})
	require.NoError(t, err)
	require.Equal(t, in.Len(), out.Len())

	for i := range in.Entities {
		require.Equal(t, in.Entities[i].Kind(), out.Entities[i].Kind(), "entity %d", i)
	}

	line := out.Entities[0].(entity.Line)
	assertPointNear(t, entity.Point{}, line.Start)
	assertPointNear(t, entity.Point{X: 10.5, Y: -3.25}, line.End)

	circle := out.Entities[1].(entity.Circle)
	assertPointNear(t, entity.Point{X: 2, Y: 3}, circle.Center)
	assert.InDelta(t, 1.5, circle.Radius, dxfPrecision)

	arc := out.Entities[2].(entity.Arc)
	assert.InDelta(t, 4, arc.Radius, dxfPrecision)
	assert.InDelta(t, 90, arc.StartAngle, dxfPrecision)
	assert.InDelta(t, 270, arc.EndAngle, dxfPrecision)
	assert.InDelta(t, 180, arc.Sweep(), dxfPrecision)
}

func TestSaveDXF_CircleExampleReopens(t *testing.T) {
	doc, _ := Materialize(decode(t, `{"entities":[{"type":"CIRCLE","params":{"center":[0,0],"radius":5}}]}`), Options{})
	path := filepath.Join(t.TempDir(), "circle.dxf")
	require.NoError(t, SaveDXF(doc, path))

	out, err := ReadDXF(path, ReadOptions{})
	require.NoError(t, err)
	require.Len(t, out.Entities, 1)
	c := out.Entities[0].(entity.Circle)
	assertPointNear(t, entity.Point{}, c.Center)
	assert.InDelta(t, 5, c.Radius, dxfPrecision)
}

func TestSaveDXF_DimensionsOnOwnLayer(t *testing.T) {
	doc, _ := Materialize(decode(t, `{"entities": [
		{"type": "LINE", "params": {"start_point": [0, 0], "end_point": [1, 0]}},
		{"type": "ANGULAR_DIMENSION", "params": {"center": [0, 0], "radius": 3, "start_angle": 0, "end_angle": 90}}
	]}`), Options{})

	path := filepath.Join(t.TempDir(), "dim.dxf")
	require.NoError(t, SaveDXF(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), LayerDimensions)
	assert.Contains(t, string(data), "90.00%%d")

	geometry, err := ReadDXF(path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, geometry.Len())

	all, err := ReadDXF(path, ReadOptions{IncludeAnnotations: true})
	require.NoError(t, err)
	// line + 2 extension lines + dimension arc + 4 arrow barbs
	assert.Equal(t, 8, all.Len())
}

func TestSaveDXF_RejectsUnrendered(t *testing.T) {
	doc := NewDocument()
	doc.Add(&AngularDimension{Radius: 1, EndAngle: 90, Style: DefaultStyle()})
	path := filepath.Join(t.TempDir(), "x.dxf")

	assert.ErrorIs(t, SaveDXF(doc, path), ErrNotRendered)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReadDXF_Missing(t *testing.T) {
	_, err := ReadDXF(filepath.Join(t.TempDir(), "nope.dxf"), ReadOptions{})
	assert.Error(t, err)
}
