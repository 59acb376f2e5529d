package extractor

// findJSONCandidates returns every balanced top-level {...} or [...] span in
// s, in order. Braces and brackets inside JSON strings (including escaped
// quotes) do not count, and a closer must match the innermost opener.
//
// Scanning stops at an opener that is never closed or at a mismatched
// closer, so the inner objects of truncated output are not returned.
//
// Iterating bytes is safe for the ASCII delimiters because UTF-8 never uses
// ASCII bytes inside a multi-byte sequence.
func findJSONCandidates(s string) []string {
	var candidates []string
	for i := 0; i < len(s); {
		span, next := scanSpan(s, i)
		if span == "" {
			break
		}
		candidates = append(candidates, span)
		i = next
	}
	return candidates
}

// scanSpan looks for the next balanced span starting at or after from. It
// returns the span, empty if none closed, and the index just past it.
func scanSpan(s string, from int) (string, int) {
	var stack []byte
	start := -1
	inString := false
	escape := false

	for i := from; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			// Quotes outside a span are prose.
			if len(stack) > 0 {
				inString = true
			}
		case '{', '[':
			if len(stack) == 0 {
				start = i
			}
			stack = append(stack, closerFor(b))
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			if stack[len(stack)-1] != b {
				return "", len(s)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return s[start : i+1], i + 1
			}
		}
	}
	return "", len(s)
}

func closerFor(open byte) byte {
	if open == '[' {
		return ']'
	}
	return '}'
}
