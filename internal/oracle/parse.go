package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseJSONObject extracts a JSON object from model output, tolerating
// markdown code fences and surrounding prose. A parse failure is a
// malformed-response fault.
func parseJSONObject(content string) (map[string]any, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrMalformed)
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractObjectCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			return parsed, nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON object found", ErrMalformed)
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractObjectCandidate returns the outermost {...} span, for responses
// that wrap the object in explanatory text.
func extractObjectCandidate(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}

// validateShape checks the parsed object against the given schema and
// decodes it into out on success.
func validateShape(parsed map[string]any, schemaName string, validate func(any) error, out any) error {
	if err := validate(parsed); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, schemaName, err)
	}

	raw, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, schemaName, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, schemaName, err)
	}
	return nil
}
