package classifier

import (
	"errors"
	"strings"
)

// ErrNoJSONObject indicates the response text held no balanced object.
var ErrNoJSONObject = errors.New("no JSON object found in text")

// ExtractJSONObject returns the first balanced {...} span in text.
// Model responses often wrap the object in prose or code fences, and the
// surrounding text may itself contain braces, so this is a real scan:
// brace depth is only counted outside JSON string literals, and escape
// sequences inside strings are skipped.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONObject
}
