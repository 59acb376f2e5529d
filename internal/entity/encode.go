package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Indent is the indentation used for every JSON document written by this
// module.
const Indent = "    "

// MarshalJSON writes a point as [x, y], or [x, y, z] when Z is non-zero.
func (p Point) MarshalJSON() ([]byte, error) {
	coords := []float64{p.X, p.Y}
	if p.Z != 0 {
		coords = append(coords, p.Z)
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, c := range coords {
		if i > 0 {
			buf.WriteString(", ")
		}
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("entity: non-finite coordinate %v", c)
		}
		buf.WriteString(strconv.FormatFloat(c, 'f', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

type lineParams struct {
	StartPoint Point `json:"start_point"`
	EndPoint   Point `json:"end_point"`
}

type circleParams struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

type arcParams struct {
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

type angularDimensionParams struct {
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Distance   float64 `json:"distance"`
	DimStyle   string  `json:"dimstyle"`
}

type record struct {
	Type   Kind `json:"type"`
	Params any  `json:"params"`
}

type document struct {
	Entities []record `json:"entities"`
}

func toRecord(e Entity) record {
	switch v := e.(type) {
	case Line:
		return record{Type: KindLine, Params: lineParams{StartPoint: v.Start, EndPoint: v.End}}
	case Circle:
		return record{Type: KindCircle, Params: circleParams{Center: v.Center, Radius: v.Radius}}
	case Arc:
		return record{Type: KindArc, Params: arcParams{
			Center: v.Center, Radius: v.Radius, StartAngle: v.StartAngle, EndAngle: v.EndAngle,
		}}
	case AngularDimension:
		return record{Type: KindAngularDimension, Params: angularDimensionParams{
			Center: v.Center, Radius: v.Radius, StartAngle: v.StartAngle, EndAngle: v.EndAngle,
			Distance: v.Distance, DimStyle: v.Style,
		}}
	default:
		panic(fmt.Sprintf("entity: unhandled entity type %T", e))
	}
}

// Encode writes the canonical entity document: root key "entities", one
// record per recognized entity in order, 4-space indentation and a trailing
// newline. Skipped records are not written.
func Encode(c *Collection) ([]byte, error) {
	doc := document{Entities: []record{}}
	if c != nil {
		for _, e := range c.Entities {
			doc.Entities = append(doc.Entities, toRecord(e))
		}
	}
	return MarshalIndent(doc)
}

// MarshalIndent encodes v with the module's JSON conventions: 4-space
// indentation, no HTML escaping, trailing newline. Map keys are sorted by
// encoding/json, which keeps field order stable across runs.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
