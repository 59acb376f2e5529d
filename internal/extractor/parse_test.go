package extractor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_Recovers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		text string
	}{
		{
			name: "bare json unchanged",
			raw:  `{"entities": [{"type": "LINE"}]}`,
			text: `{"entities": [{"type": "LINE"}]}`,
		},
		{
			name: "bare json with surrounding whitespace",
			raw:  "\n  {\"entities\": []}\n",
			text: `{"entities": []}`,
		},
		{
			name: "inline fence with language tag",
			raw:  "```json { \"entities\": [] } ```",
			text: `{ "entities": [] }`,
		},
		{
			name: "multi-line fence",
			raw:  "Here you go:\n```json\n{\"dimensions\": []}\n```\nLet me know.",
			text: `{"dimensions": []}`,
		},
		{
			name: "fence without tag",
			raw:  "```\n{\"a\": 1}\n```",
			text: `{"a": 1}`,
		},
		{
			name: "fence glued to brace",
			raw:  "```{\"a\": 1}```",
			text: `{"a": 1}`,
		},
		{
			name: "prose around object",
			raw:  `The "entities" are: {"entities": [{"note": "a } brace"}]} hope that helps`,
			text: `{"entities": [{"note": "a } brace"}]}`,
		},
		{
			name: "array in prose kept whole",
			raw:  "Here it is:\n[{\"type\": \"LINE\"}, {\"type\": \"CIRCLE\"}]",
			text: `[{"type": "LINE"}, {"type": "CIRCLE"}]`,
		},
		{
			name: "object preferred over bracketed aside",
			raw:  `See note [1]: {"entities": []}`,
			text: `{"entities": []}`,
		},
		{
			name: "first parseable candidate wins",
			raw:  `{not json} then {"ok": true}`,
			text: `{"ok": true}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseResponse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.text, p.Text)
		})
	}
}

func TestParseResponse_KeepsNumberLiterals(t *testing.T) {
	p, err := ParseResponse(`{"radius": 2.50}`)
	require.NoError(t, err)
	want := map[string]any{"radius": json.Number("2.50")}
	if diff := cmp.Diff(want, p.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResponse_Failures(t *testing.T) {
	tests := map[string]string{
		"empty":        "   ",
		"prose":        "I could not find any entities in this drawing.",
		"truncated":    `{"entities": [{"type": "LINE", "params": {"start_point": [0,`,
		"lone fence":   "```json\n{\"entities\": [",
		"bad in fence": "```json\n{entities: []}\n```",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResponse(raw)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, raw, perr.Raw)
			assert.Error(t, perr.Err)
		})
	}
}

func TestParseResponse_TruncatedArrayIsNotSplit(t *testing.T) {
	raw := "Result:\n[{\"type\": \"LINE\"}, {\"type\": \"CIR"
	_, err := ParseResponse(raw)
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, raw, perr.Raw)
}

func TestParseResponse_CandidateIsFenceBody(t *testing.T) {
	_, err := ParseResponse("```json\n[1, 2,\n```")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "[1, 2,", perr.Candidate)
}

func TestFindJSONCandidates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", `prefix {"key": "value"} suffix`, []string{`{"key": "value"}`}},
		{"nested", `start {"a": {"b": "c"}} end`, []string{`{"a": {"b": "c"}}`}},
		{"multiple", `obj1 {"id": 1} obj2 {"id": 2}`, []string{`{"id": 1}`, `{"id": 2}`}},
		{"string with braces", `{"key": "value with } inside"}`, []string{`{"key": "value with } inside"}`}},
		{"escaped quote", `{"key": "value with \" inside"}`, []string{`{"key": "value with \" inside"}`}},
		{"escaped backslash", `{"key": "a \\ b"}`, []string{`{"key": "a \\ b"}`}},
		{"incomplete", `prefix { incomplete`, nil},
		{"malformed braces", `} { valid } {`, []string{`{ valid }`}},
		{"quote in prose", `a 5" pipe {"d": 5}`, []string{`{"d": 5}`}},
		{"empty object", `{}`, []string{`{}`}},
		{"top-level array", `got [{"a": 1}, {"b": 2}] ok`, []string{`[{"a": 1}, {"b": 2}]`}},
		{"array then object", `[1] and {"x": [2]}`, []string{`[1]`, `{"x": [2]}`}},
		{"bracket in string", `{"note": "see [1"}`, []string{`{"note": "see [1"}`}},
		{"mismatched closer", `{"a": [1}`, nil},
		{"unclosed array hides inner object", `[{"a": 1}, {"b"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findJSONCandidates(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("findJSONCandidates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
