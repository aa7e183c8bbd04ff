package schema

import "strings"

// Normalize validates a candidate value against the field's declared type
// and enumeration, returning the value in canonical form. ok is false when
// the value is empty, null, or fails validation; such values must be
// dropped before merge rather than stored.
func Normalize(f Field, v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	switch f.Type {
	case TypeString:
		s, ok := asString(v)
		if !ok || s == "" {
			return nil, false
		}
		return s, true

	case TypeEnum:
		s, ok := asString(v)
		if !ok || s == "" {
			return nil, false
		}
		canon := strings.ToLower(strings.ReplaceAll(s, " ", "_"))
		for _, allowed := range f.Enum {
			if canon == allowed {
				return allowed, true
			}
		}
		return nil, false

	case TypeStringList:
		items, ok := asStringList(v)
		if !ok || len(items) == 0 {
			return nil, false
		}
		return items, true

	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		default:
			return nil, false
		}
	}

	return nil, false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func asStringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return trimList(list), true
	case []any:
		items := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			items = append(items, s)
		}
		return trimList(items), true
	case string:
		// A bare string is accepted as a single-element list.
		s := strings.TrimSpace(list)
		if s == "" {
			return nil, true
		}
		return []string{s}, true
	}
	return nil, false
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
