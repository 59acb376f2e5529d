package cad

import (
	"sort"
	"strings"

	"cadvision/internal/entity"
)

// Arrow shapes drawn at the ends of a dimension line.
const (
	ArrowOpen   = "OPEN_30"
	ArrowClosed = "CLOSED"
)

// DimStyle controls how an angular dimension is rendered.
type DimStyle struct {
	Name string
	// Arrow is ArrowOpen or ArrowClosed.
	Arrow     string
	ArrowSize float64
	// ArrowAngle is the half-angle of the arrowhead in degrees.
	ArrowAngle float64
	TextHeight float64
	// TextGap separates the label from the dimension line.
	TextGap float64
	// ExtOffset is the gap between the measured radius and the extension line.
	ExtOffset float64
	// ExtBeyond extends the extension line past the dimension line.
	ExtBeyond float64
	// Precision is the number of decimals in the label.
	Precision int
}

var styles = map[string]DimStyle{
	entity.DefaultDimensionStyle: {
		Name:       entity.DefaultDimensionStyle,
		Arrow:      ArrowOpen,
		ArrowSize:  0.25,
		ArrowAngle: 15,
		TextHeight: 0.25,
		TextGap:    0.1,
		ExtOffset:  0.0625,
		ExtBeyond:  0.18,
		Precision:  2,
	},
	"Standard": {
		Name:       "Standard",
		Arrow:      ArrowClosed,
		ArrowSize:  0.18,
		ArrowAngle: 10,
		TextHeight: 0.18,
		TextGap:    0.09,
		ExtOffset:  0.0625,
		ExtBeyond:  0.18,
		Precision:  0,
	},
}

// LookupStyle finds a registered style by name. Names compare
// case-insensitively.
func LookupStyle(name string) (DimStyle, bool) {
	if s, ok := styles[name]; ok {
		return s, true
	}
	for key, s := range styles {
		if strings.EqualFold(key, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return DimStyle{}, false
}

// DefaultStyle returns the EZ_CURVED style.
func DefaultStyle() DimStyle {
	return styles[entity.DefaultDimensionStyle]
}

// StyleNames lists the registered styles.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
