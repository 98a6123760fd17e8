package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// firstJSONObject returns the first balanced {...} span in s. Models sometimes
// wrap the payload in prose even when told not to; scanning for the object is
// cheaper than another round trip.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// DecodeObject parses a model completion into v. It strips a Markdown code
// fence first, and on a parse failure falls back to the first balanced JSON
// object found in the text before giving up.
func DecodeObject(completion string, v any) error {
	text := stripCodeBlock(completion)
	firstErr := json.Unmarshal([]byte(text), v)
	if firstErr == nil {
		return nil
	}
	if obj, ok := firstJSONObject(text); ok {
		if err := json.Unmarshal([]byte(obj), v); err == nil {
			return nil
		}
	}
	return fmt.Errorf("parse completion json: %w (raw: %s)", firstErr, truncate(text, 200))
}
