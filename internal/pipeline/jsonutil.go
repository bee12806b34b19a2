package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoJSON indicates the oracle output contained no parseable JSON object.
var ErrNoJSON = eris.New("pipeline: no JSON object in oracle output")

// stripFences removes markdown code fences wrapping the oracle output.
func stripFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(text)
}

// extractJSONObject pulls a JSON object out of untrusted oracle output.
// Tier 1: strip code fences and try the text as-is. Tier 2: scan for the
// outermost balanced {...} with string-aware brace counting. Returns
// ErrNoJSON when both tiers fail.
func extractJSONObject(text string) (string, error) {
	cleaned := stripFences(text)

	if json.Valid([]byte(cleaned)) && strings.HasPrefix(cleaned, "{") {
		return cleaned, nil
	}

	start := strings.Index(cleaned, "{")
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]

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
				candidate := cleaned[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, nil
				}
				return "", ErrNoJSON
			}
		}
	}

	return "", ErrNoJSON
}

// decodeOracleJSON extracts and unmarshals a JSON object from oracle output.
func decodeOracleJSON(text string, v any) error {
	obj, err := extractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return eris.Wrap(err, "pipeline: decode oracle JSON")
	}
	return nil
}
