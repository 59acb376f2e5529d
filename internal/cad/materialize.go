package cad

import (
	"go.uber.org/zap"

	"cadvision/internal/entity"
)

// Options configures Materialize.
type Options struct {
	// DefaultStyle is used when a dimension names an unknown style.
	DefaultStyle string
	Logger       *zap.Logger
}

// Report summarises a materialization.
type Report struct {
	Created        map[entity.Kind]int
	Skipped        []entity.Skipped
	StyleFallbacks int
}

// Total is the number of objects created.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Created {
		n += c
	}
	return n
}

// Materialize creates one object per recognized entity, in order, and
// renders every angular dimension. Skipped records are logged and counted.
func Materialize(coll *entity.Collection, opts Options) (*Document, *Report) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fallback, ok := LookupStyle(opts.DefaultStyle)
	if !ok {
		fallback = DefaultStyle()
	}

	doc := NewDocument()
	report := &Report{Created: make(map[entity.Kind]int)}
	if coll == nil {
		return doc, report
	}

	for _, skip := range coll.Skipped {
		log.Warn("skipping unsupported entity type",
			zap.Int("index", skip.Index),
			zap.String("type", skip.Type))
		report.Skipped = append(report.Skipped, skip)
	}

	for _, e := range coll.Entities {
		switch v := e.(type) {
		case entity.Line:
			doc.Add(&Line{Start: v.Start, End: v.End})
		case entity.Circle:
			doc.Add(&Circle{Center: v.Center, Radius: v.Radius})
		case entity.Arc:
			doc.Add(&Arc{Center: v.Center, Radius: v.Radius, StartAngle: v.StartAngle, EndAngle: v.EndAngle})
		case entity.AngularDimension:
			style, ok := LookupStyle(v.Style)
			if !ok {
				log.Warn("unknown dimension style, using default",
					zap.String("style", v.Style),
					zap.String("default", fallback.Name))
				style = fallback
				report.StyleFallbacks++
			}
			dim := &AngularDimension{
				Center:     v.Center,
				Radius:     v.Radius,
				StartAngle: v.StartAngle,
				EndAngle:   v.EndAngle,
				Distance:   v.Distance,
				Style:      style,
			}
			dim.Render()
			doc.Add(dim)
		default:
			continue
		}
		report.Created[e.Kind()]++
	}

	log.Debug("document materialized",
		zap.Int("objects", len(doc.Objects)),
		zap.Int("skipped", len(report.Skipped)))
	return doc, report
}
