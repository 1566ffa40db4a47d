package analysis

import "math"

// Sanitize walks a payload tree and replaces every NaN and infinite float
// with nil, so the tree is encodable by encoding/json without error.
// The transform is total over the value kinds pipelines produce and
// idempotent: sanitizing twice equals sanitizing once.
func Sanitize(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Sanitize(val)
		}
		return out
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = Sanitize(f)
		}
		return out
	case [][]float64:
		out := make([]any, len(t))
		for i, row := range t {
			out[i] = Sanitize(row)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = Sanitize(m)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case ChartSpec:
		return Sanitize(t.toMap())
	case []ChartSpec:
		out := make([]any, len(t))
		for i, c := range t {
			out[i] = Sanitize(c.toMap())
		}
		return out
	default:
		// Strings, bools, ints and nil pass through untouched.
		return v
	}
}
