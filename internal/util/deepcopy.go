package util

// DeepCopy returns a structurally independent copy of a JSON-shaped value
// (maps, slices, scalars). Scalars are returned as-is since they are
// immutable. Values of other types are returned unchanged; callers that
// store non-JSON types share them knowingly.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, val := range t {
			cp[k] = DeepCopy(val)
		}
		return cp
	case []any:
		cp := make([]any, len(t))
		for i, val := range t {
			cp[i] = DeepCopy(val)
		}
		return cp
	default:
		return v
	}
}
