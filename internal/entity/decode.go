package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeOptions controls defaults for optional ANGULAR_DIMENSION params.
type DecodeOptions struct {
	DefaultDistance float64
	DefaultStyle    string
}

// DefaultDecodeOptions returns the built-in defaults.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		DefaultDistance: DefaultDimensionDistance,
		DefaultStyle:    DefaultDimensionStyle,
	}
}

// Decode parses an entity document with the default options.
func Decode(data []byte) (*Collection, error) {
	return DecodeWith(data, DefaultDecodeOptions())
}

// DecodeWith parses and validates an entity document. Malformed JSON yields a
// *SyntaxError; schema violations yield a *ValidationError listing every
// problem found. Records with an unrecognized type are collected in
// Collection.Skipped rather than rejected.
func DecodeWith(data []byte, opts DecodeOptions) (*Collection, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		if err == nil {
			err = fmt.Errorf("invalid JSON")
		}
		return nil, &SyntaxError{Err: err}
	}

	verr := &ValidationError{}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		verr.add(-1, "", "document root must be a JSON object")
		return nil, verr
	}

	rawList, ok := root["entities"]
	if !ok {
		verr.add(-1, "entities", "required root key is missing")
		return nil, verr
	}
	var records []json.RawMessage
	if isNull(rawList) || json.Unmarshal(rawList, &records) != nil {
		verr.add(-1, "entities", "must be an array")
		return nil, verr
	}

	coll := &Collection{Entities: make([]Entity, 0, len(records))}
	for i, raw := range records {
		e, skipped := decodeRecord(i, raw, opts, verr)
		if skipped != nil {
			coll.Skipped = append(coll.Skipped, *skipped)
			continue
		}
		if e != nil {
			coll.Entities = append(coll.Entities, e)
		}
	}

	if len(verr.Problems) > 0 {
		return nil, verr
	}
	return coll, nil
}

func decodeRecord(index int, raw json.RawMessage, opts DecodeOptions, verr *ValidationError) (Entity, *Skipped) {
	var record map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &record) != nil {
		verr.add(index, "", "record must be an object")
		return nil, nil
	}

	rawType, ok := record["type"]
	if !ok {
		verr.add(index, "type", "required")
		return nil, nil
	}
	var tag string
	if isNull(rawType) || json.Unmarshal(rawType, &tag) != nil {
		verr.add(index, "type", "must be a string")
		return nil, nil
	}
	kind, known := ParseKind(tag)
	if !known {
		return nil, &Skipped{Index: index, Type: tag}
	}

	var params map[string]json.RawMessage
	rawParams, ok := record["params"]
	if !ok {
		verr.add(index, "params", "required")
		return nil, nil
	}
	if isNull(rawParams) || json.Unmarshal(rawParams, &params) != nil {
		verr.add(index, "params", "must be an object")
		return nil, nil
	}

	p := paramReader{index: index, params: params, verr: verr}
	before := len(verr.Problems)

	var e Entity
	switch kind {
	case KindLine:
		e = Line{
			Start: p.point("start_point"),
			End:   p.point("end_point"),
		}
	case KindCircle:
		e = Circle{
			Center: p.point("center"),
			Radius: p.number("radius"),
		}
	case KindArc:
		e = Arc{
			Center:     p.point("center"),
			Radius:     p.number("radius"),
			StartAngle: p.number("start_angle"),
			EndAngle:   p.number("end_angle"),
		}
	case KindAngularDimension:
		e = AngularDimension{
			Center:     p.point("center"),
			Radius:     p.number("radius"),
			StartAngle: p.number("start_angle"),
			EndAngle:   p.number("end_angle"),
			Distance:   p.optionalNumber("distance", opts.DefaultDistance),
			Style:      p.optionalString("dimstyle", opts.DefaultStyle),
		}
	default:
		panic(fmt.Sprintf("entity: unhandled kind %s", kind))
	}

	if len(verr.Problems) > before {
		return nil, nil
	}
	return e, nil
}

type paramReader struct {
	index  int
	params map[string]json.RawMessage
	verr   *ValidationError
}

func (p paramReader) field(name string) string {
	return "params." + name
}

func (p paramReader) number(name string) float64 {
	raw, ok := p.params[name]
	if !ok {
		p.verr.add(p.index, p.field(name), "required")
		return 0
	}
	v, err := parseNumber(raw)
	if err != nil {
		p.verr.add(p.index, p.field(name), "%v", err)
	}
	return v
}

func (p paramReader) optionalNumber(name string, def float64) float64 {
	raw, ok := p.params[name]
	if !ok || isNull(raw) {
		return def
	}
	v, err := parseNumber(raw)
	if err != nil {
		p.verr.add(p.index, p.field(name), "%v", err)
	}
	return v
}

func (p paramReader) optionalString(name, def string) string {
	raw, ok := p.params[name]
	if !ok || isNull(raw) {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.verr.add(p.index, p.field(name), "must be a string")
		return def
	}
	if s == "" {
		return def
	}
	return s
}

func (p paramReader) point(name string) Point {
	raw, ok := p.params[name]
	if !ok {
		p.verr.add(p.index, p.field(name), "required")
		return Point{}
	}
	var coords []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &coords) != nil {
		p.verr.add(p.index, p.field(name), "must be an array of 2 or 3 numbers")
		return Point{}
	}
	if len(coords) < 2 || len(coords) > 3 {
		p.verr.add(p.index, p.field(name), "must have 2 or 3 components, got %d", len(coords))
		return Point{}
	}
	var values [3]float64
	for i, c := range coords {
		v, err := parseNumber(c)
		if err != nil {
			p.verr.add(p.index, fmt.Sprintf("%s[%d]", p.field(name), i), "%v", err)
			return Point{}
		}
		values[i] = v
	}
	return Point{X: values[0], Y: values[1], Z: values[2]}
}

func parseNumber(raw json.RawMessage) (float64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("must be a number, got %s", jsonTypeName(v))
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("number out of range: %s", n)
	}
	return f, nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
