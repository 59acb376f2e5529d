package cad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cadvision/internal/entity"
)

func decode(t *testing.T, doc string) *entity.Collection {
	t.Helper()
	coll, err := entity.Decode([]byte(doc))
	require.NoError(t, err)
	return coll
}

func TestMaterialize_OneObjectPerEntityInOrder(t *testing.T) {
	coll := decode(t, `{"entities": [
		{"type": "ARC", "params": {"center": [1, 1], "radius": 2, "start_angle": 0, "end_angle": 90}},
		{"type": "LINE", "params": {"start_point": [0, 0], "end_point": [10, 0]}},
		{"type": "ANGULAR_DIMENSION", "params": {"center": [0, 0], "radius": 3, "start_angle": 0, "end_angle": 45}},
		{"type": "CIRCLE", "params": {"center": [5, 5], "radius": 1}}
	]}`)

	doc, report := Materialize(coll, Options{})
	require.Len(t, doc.Objects, 4)

	kinds := make([]entity.Kind, len(doc.Objects))
	for i, o := range doc.Objects {
		kinds[i] = o.Kind()
	}
	assert.Equal(t, []entity.Kind{entity.KindArc, entity.KindLine, entity.KindAngularDimension, entity.KindCircle}, kinds)
	assert.Equal(t, 4, report.Total())
	assert.Empty(t, report.Skipped)
	assert.NoError(t, doc.CheckRendered())
}

func TestMaterialize_SkipsUnknownTypes(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	coll := decode(t, `{"entities": [
		{"type": "SPLINE", "params": {}},
		{"type": "LINE", "params": {"start_point": [0, 0], "end_point": [1, 1]}},
		{"type": "HATCH"}
	]}`)

	doc, report := Materialize(coll, Options{Logger: zap.New(core)})
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, entity.KindLine, doc.Objects[0].Kind())
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "SPLINE", report.Skipped[0].Type)
	assert.Equal(t, 2, report.Skipped[1].Index)
	assert.Equal(t, 2, logs.FilterMessage("skipping unsupported entity type").Len())
}

func TestMaterialize_CircleExample(t *testing.T) {
	coll := decode(t, `{"entities":[{"type":"CIRCLE","params":{"center":[0,0],"radius":5}}]}`)
	doc, _ := Materialize(coll, Options{})

	require.Len(t, doc.Objects, 1)
	c, ok := doc.Objects[0].(*Circle)
	require.True(t, ok)
	assert.Equal(t, entity.Point{}, c.Center)
	assert.Equal(t, 5.0, c.Radius)
}

func TestMaterialize_DimensionStyles(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	coll := decode(t, `{"entities": [
		{"type": "ANGULAR_DIMENSION", "params": {"center": [0, 0], "radius": 3, "start_angle": 0, "end_angle": 90}},
		{"type": "ANGULAR_DIMENSION", "params": {"center": [0, 0], "radius": 3, "start_angle": 0, "end_angle": 90, "dimstyle": "standard", "distance": 1}},
		{"type": "ANGULAR_DIMENSION", "params": {"center": [0, 0], "radius": 3, "start_angle": 0, "end_angle": 90, "dimstyle": "FANCY"}}
	]}`)

	doc, report := Materialize(coll, Options{Logger: zap.New(core)})
	dims := doc.Dimensions()
	require.Len(t, dims, 3)

	assert.Equal(t, entity.DefaultDimensionStyle, dims[0].Style.Name)
	assert.Equal(t, 2.0, dims[0].Distance)
	assert.Equal(t, "Standard", dims[1].Style.Name)
	assert.Equal(t, 1.0, dims[1].Distance)
	assert.Equal(t, entity.DefaultDimensionStyle, dims[2].Style.Name)

	assert.Equal(t, 1, report.StyleFallbacks)
	assert.Equal(t, 1, logs.FilterMessage("unknown dimension style, using default").Len())
}

func TestMaterialize_NilCollection(t *testing.T) {
	doc, report := Materialize(nil, Options{})
	assert.Empty(t, doc.Objects)
	assert.Equal(t, 0, report.Total())
	assert.True(t, doc.Bounds().Empty())
}

func TestLookupStyle(t *testing.T) {
	s, ok := LookupStyle("ez_curved")
	require.True(t, ok)
	assert.Equal(t, ArrowOpen, s.Arrow)

	_, ok = LookupStyle("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"EZ_CURVED", "Standard"}, StyleNames())
}
