// Package entity defines the geometric entity records exchanged between the
// extractor and the materializer. The record set is closed: every kind is a
// concrete type in this package, and decoding rejects anything that does not
// carry the fields its kind requires.
package entity

import (
	"strings"
)

// Kind is the type tag of an entity record.
type Kind string

const (
	KindLine             Kind = "LINE"
	KindCircle           Kind = "CIRCLE"
	KindArc              Kind = "ARC"
	KindAngularDimension Kind = "ANGULAR_DIMENSION"
)

// Defaults applied to ANGULAR_DIMENSION records that omit them.
const (
	DefaultDimensionStyle    = "EZ_CURVED"
	DefaultDimensionDistance = 2.0
)

// Kinds lists the recognized tags in schema order.
func Kinds() []Kind {
	return []Kind{KindLine, KindCircle, KindArc, KindAngularDimension}
}

// ParseKind maps a tag from model output to a Kind. Matching ignores case and
// surrounding whitespace.
func ParseKind(tag string) (Kind, bool) {
	normalized := Kind(strings.ToUpper(strings.TrimSpace(tag)))
	for _, k := range Kinds() {
		if k == normalized {
			return k, true
		}
	}
	return "", false
}

// Entity is one of Line, Circle, Arc or AngularDimension.
type Entity interface {
	Kind() Kind
	isEntity()
}

// Point is a 2D or 3D coordinate. Z is zero for planar drawings.
type Point struct {
	X, Y, Z float64
}

// Line is a straight segment.
type Line struct {
	Start Point
	End   Point
}

// Circle is a full circle.
type Circle struct {
	Center Point
	Radius float64
}

// Arc is a circular arc traversed counter-clockwise from StartAngle to
// EndAngle, both in degrees.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// AngularDimension annotates the angle swept counter-clockwise from
// StartAngle to EndAngle around Center. Distance offsets the dimension line
// from Radius.
type AngularDimension struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Distance   float64
	Style      string
}

func (Line) Kind() Kind             { return KindLine }
func (Circle) Kind() Kind           { return KindCircle }
func (Arc) Kind() Kind              { return KindArc }
func (AngularDimension) Kind() Kind { return KindAngularDimension }

func (Line) isEntity()             {}
func (Circle) isEntity()           {}
func (Arc) isEntity()              {}
func (AngularDimension) isEntity() {}

// Skipped records an input record whose tag is not a recognized Kind.
type Skipped struct {
	Index int
	Type  string
}

// Collection is an ordered list of entities as received from the model.
type Collection struct {
	Entities []Entity
	Skipped  []Skipped
}

// Len returns the number of recognized entities.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entities)
}

// CountByKind tallies recognized entities per kind.
func (c *Collection) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	if c == nil {
		return counts
	}
	for _, e := range c.Entities {
		counts[e.Kind()]++
	}
	return counts
}
