package llm

import "encoding/json"

// ExtractJSONArray finds the first well-formed JSON array substring in a
// completion. Models wrap their output in prose or markdown fences often
// enough that assuming clean JSON is a losing bet.
func ExtractJSONArray(text string) ([]byte, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '[' {
			continue
		}
		if end, ok := matchBracket(text, start); ok {
			candidate := []byte(text[start : end+1])
			if json.Valid(candidate) {
				return candidate, true
			}
		}
	}
	return nil, false
}

// matchBracket finds the index of the bracket closing the array opened at
// start, skipping brackets inside JSON strings.
func matchBracket(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
