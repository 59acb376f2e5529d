package cad

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	dxfentity "github.com/yofu/dxf/entity"

	"cadvision/internal/entity"
)

// SaveDXF writes doc as an ASCII DXF file. Geometry goes on layer "0" and
// rendered dimension geometry on layer "DIMENSIONS". The file is replaced
// if it exists.
func SaveDXF(doc *Document, path string) error {
	if err := doc.CheckRendered(); err != nil {
		return err
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerDimensions, color.Red, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerDimensions, err)
	}

	for i, o := range doc.Objects {
		layer := LayerGeometry
		objs := []Object{o}
		var label *Text
		if dim, ok := o.(*AngularDimension); ok {
			layer = LayerDimensions
			objs = dim.Rendering().Objects()
			label = dim.Rendering().Label
		}
		if err := d.ChangeLayer(layer); err != nil {
			return fmt.Errorf("failed to select layer %s: %w", layer, err)
		}
		for _, obj := range objs {
			if err := writePrimitive(d, obj); err != nil {
				return fmt.Errorf("object %d (%s): %w", i, o.Kind(), err)
			}
		}
		if label != nil {
			if _, err := d.Text(label.Value, label.At.X, label.At.Y, label.At.Z, label.Height); err != nil {
				return fmt.Errorf("object %d label: %w", i, err)
			}
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writePrimitive(d *drawing.Drawing, o Object) error {
	var err error
	switch v := o.(type) {
	case *Line:
		_, err = d.Line(v.Start.X, v.Start.Y, v.Start.Z, v.End.X, v.End.Y, v.End.Z)
	case *Circle:
		_, err = d.Circle(v.Center.X, v.Center.Y, v.Center.Z, v.Radius)
	case *Arc:
		_, err = d.Arc(v.Center.X, v.Center.Y, v.Center.Z, v.Radius, v.StartAngle, v.EndAngle)
	default:
		err = fmt.Errorf("unsupported primitive %T", o)
	}
	return err
}

// ReadOptions configures ReadDXF.
type ReadOptions struct {
	// IncludeAnnotations also returns primitives on the DIMENSIONS layer.
	IncludeAnnotations bool
}

// ReadDXF opens a DXF file and returns its lines, circles and arcs as
// entity records in file order. Other entity types are ignored.
func ReadDXF(path string, opts ReadOptions) (*entity.Collection, error) {
	d, err := dxf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	coll := &entity.Collection{}
	for _, e := range d.Entities() {
		if !opts.IncludeAnnotations {
			if l := e.Layer(); l != nil && l.Name() == LayerDimensions {
				continue
			}
		}
		switch v := e.(type) {
		case *dxfentity.Line:
			coll.Entities = append(coll.Entities, entity.Line{Start: point(v.Start), End: point(v.End)})
		case *dxfentity.Arc:
			coll.Entities = append(coll.Entities, entity.Arc{
				Center:     point(v.Center),
				Radius:     v.Radius,
				StartAngle: v.Angle[0],
				EndAngle:   v.Angle[1],
			})
		case *dxfentity.Circle:
			coll.Entities = append(coll.Entities, entity.Circle{Center: point(v.Center), Radius: v.Radius})
		}
	}
	return coll, nil
}

func point(coords []float64) entity.Point {
	var p entity.Point
	if len(coords) > 0 {
		p.X = coords[0]
	}
	if len(coords) > 1 {
		p.Y = coords[1]
	}
	if len(coords) > 2 {
		p.Z = coords[2]
	}
	return p
}
