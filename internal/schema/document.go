package schema

// A document is the parsed media plan payload: a nested map of scalars,
// arrays, and objects as produced by encoding/json. The helpers here never
// mutate the maps they are given.

// DocumentVersion returns the schema version embedded at
// meta.schema_version, if present.
func DocumentVersion(doc map[string]any) (string, bool) {
	meta, ok := doc["meta"].(map[string]any)
	if !ok {
		return "", false
	}
	version, ok := meta["schema_version"].(string)
	return version, ok && version != ""
}

// copyDocument returns a deep copy of a document so migration steps can
// reshape their output without touching the caller's maps.
func copyDocument(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return copyDocument(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	default:
		// Scalars (string, float64, bool, nil) are immutable.
		return v
	}
}

func childMap(doc map[string]any, key string) map[string]any {
	m, _ := doc[key].(map[string]any)
	return m
}

func childSlice(doc map[string]any, key string) []any {
	s, _ := doc[key].([]any)
	return s
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]any, key string) (float64, bool) {
	n, ok := m[key].(float64)
	return n, ok
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
