package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const fence = "```"

// Payload is a JSON value recovered from a model response.
type Payload struct {
	// Text is the candidate exactly as it appeared in the response, trimmed.
	Text string
	// Value is the decoded document. Numbers are kept as json.Number so the
	// model's literals survive re-encoding.
	Value any
}

// ParseError reports a response that contained no parseable JSON.
type ParseError struct {
	Raw       string
	Candidate string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errEmpty = errors.New("response is empty")

// ParseResponse recovers a JSON document from free-form model output.
//
// The whole response is tried first, then the text between the first and
// last ``` fence (an optional language tag after the opening fence is
// dropped), then each balanced top-level object in turn, then the first
// balanced top-level array.
func ParseResponse(raw string) (*Payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ParseError{Raw: raw, Err: errEmpty}
	}

	v, firstErr := decodeJSON(trimmed)
	if firstErr == nil {
		return &Payload{Text: trimmed, Value: v}, nil
	}
	candidate, lastErr := trimmed, firstErr

	if inner, ok := fencedBlock(raw); ok {
		v, err := decodeJSON(inner)
		if err == nil {
			return &Payload{Text: inner, Value: v}, nil
		}
		candidate, lastErr = inner, err
	}

	// A bracketed aside such as "[1]" must not shadow a later object.
	var array *Payload
	for _, c := range findJSONCandidates(raw) {
		v, err := decodeJSON(c)
		if err != nil {
			candidate, lastErr = c, err
			continue
		}
		if _, isArray := v.([]any); !isArray {
			return &Payload{Text: c, Value: v}, nil
		}
		if array == nil {
			array = &Payload{Text: c, Value: v}
		}
	}
	if array != nil {
		return array, nil
	}

	return nil, &ParseError{Raw: raw, Candidate: candidate, Err: lastErr}
}

// fencedBlock returns the trimmed text between the first fence and the last
// one. A single fence with nothing closing it yields false.
func fencedBlock(raw string) (string, bool) {
	open := strings.Index(raw, fence)
	if open < 0 {
		return "", false
	}
	end := strings.LastIndex(raw, fence)
	if end <= open {
		return "", false
	}
	inner := raw[open+len(fence) : end]
	inner = stripLanguageTag(inner)
	return strings.TrimSpace(inner), true
}

// stripLanguageTag removes a leading word such as "json" when it is directly
// followed by whitespace.
func stripLanguageTag(s string) string {
	i := 0
	for i < len(s) {
		r := rune(s[i])
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+') {
			break
		}
		i++
	}
	if i == 0 || i == len(s) {
		return s
	}
	if s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' {
		return s[i:]
	}
	return s
}

func decodeJSON(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errEmpty
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
