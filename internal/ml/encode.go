package ml

// LabelEncoder maps category strings to integer codes in first-seen order.
// Encoding tables are request-scoped; they are never persisted.
type LabelEncoder struct {
	Classes []string
	codes   map[string]int
}

// FitTransform assigns codes to the given values and returns them.
func (e *LabelEncoder) FitTransform(values []string) []int {
	e.codes = make(map[string]int)
	e.Classes = nil
	out := make([]int, len(values))
	for i, v := range values {
		code, ok := e.codes[v]
		if !ok {
			code = len(e.Classes)
			e.codes[v] = code
			e.Classes = append(e.Classes, v)
		}
		out[i] = code
	}
	return out
}

// Label returns the original category for a code, or "" when out of range.
func (e *LabelEncoder) Label(code int) string {
	if code < 0 || code >= len(e.Classes) {
		return ""
	}
	return e.Classes[code]
}
