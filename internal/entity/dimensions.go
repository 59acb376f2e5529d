package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Dimension is one labelled measurement read off a drawing.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DimensionReport is the root of a dimension-extraction document. EntityCount
// and EntityNames are present only when the model was asked to count entities.
type DimensionReport struct {
	Dimensions  []Dimension `json:"dimensions"`
	EntityCount *int        `json:"entity_count,omitempty"`
	EntityNames []string    `json:"entity_names,omitempty"`
}

// DecodeDimensions parses a dimension report. A numeric value is kept as its
// literal text so "150" and 150 read the same.
func DecodeDimensions(data []byte) (*DimensionReport, error) {
	if !json.Valid(data) {
		return nil, &SyntaxError{Err: fmt.Errorf("invalid JSON")}
	}
	var raw struct {
		Dimensions  *[]map[string]json.RawMessage `json:"dimensions"`
		EntityCount *json.Number                  `json:"entity_count"`
		EntityNames []string                      `json:"entity_names"`
	}
	verr := &ValidationError{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		verr.add(-1, "", "does not match the dimension schema: %v", err)
		return nil, verr
	}
	if raw.Dimensions == nil {
		verr.add(-1, "dimensions", "required root key is missing")
		return nil, verr
	}

	report := &DimensionReport{EntityNames: raw.EntityNames}
	if raw.EntityCount != nil {
		n, err := raw.EntityCount.Int64()
		if err != nil {
			verr.add(-1, "entity_count", "must be an integer")
		} else {
			count := int(n)
			report.EntityCount = &count
		}
	}

	for i, item := range *raw.Dimensions {
		name, err := literalText(item["name"])
		if err != nil {
			verr.Problems = append(verr.Problems, Problem{Index: i, Field: "name", Reason: err.Error()})
			continue
		}
		value, err := literalText(item["value"])
		if err != nil {
			verr.Problems = append(verr.Problems, Problem{Index: i, Field: "value", Reason: err.Error()})
			continue
		}
		report.Dimensions = append(report.Dimensions, Dimension{Name: name, Value: value})
	}

	if len(verr.Problems) > 0 {
		return nil, verr
	}
	return report, nil
}

func literalText(raw json.RawMessage) (string, error) {
	if raw == nil || isNull(raw) {
		return "", fmt.Errorf("required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("must be a string or number")
}

// Markdown renders the report as a markdown section with a table of
// dimensions, suitable for terminal rendering.
func (r *DimensionReport) Markdown(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(r.Dimensions) == 0 {
		b.WriteString("_No dimensions found._\n")
	} else {
		b.WriteString("| # | Name | Value |\n|---|---|---|\n")
		for i, d := range r.Dimensions {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, escapeCell(d.Name), escapeCell(d.Value))
		}
	}
	if r.EntityCount != nil {
		fmt.Fprintf(&b, "\n**Entities:** %d", *r.EntityCount)
		if len(r.EntityNames) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(r.EntityNames, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
