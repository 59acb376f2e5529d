package entity

import (
	"fmt"
	"strings"
)

// SyntaxError reports input that is not JSON at all.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("entity document is not valid JSON: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Problem is a single schema violation. Index is -1 for document-level
// problems.
type Problem struct {
	Index  int
	Field  string
	Reason string
}

func (p Problem) String() string {
	if p.Index < 0 {
		if p.Field == "" {
			return p.Reason
		}
		return fmt.Sprintf("%s: %s", p.Field, p.Reason)
	}
	if p.Field == "" {
		return fmt.Sprintf("entities[%d]: %s", p.Index, p.Reason)
	}
	return fmt.Sprintf("entities[%d].%s: %s", p.Index, p.Field, p.Reason)
}

// ValidationError reports well-formed JSON that does not match the entity
// schema.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("entity document failed validation (%d problem(s)): %s",
		len(e.Problems), strings.Join(parts, "; "))
}

func (e *ValidationError) add(index int, field, format string, args ...any) {
	e.Problems = append(e.Problems, Problem{
		Index:  index,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	})
}
