package analysis

import "fmt"

// FailureKind classifies why a pipeline run failed.
type FailureKind string

const (
	FailValidation  FailureKind = "validation"
	FailData        FailureKind = "data_sufficiency"
	FailAlgorithm   FailureKind = "algorithm"
)

// Failure carries a human-readable message and the stage that produced it.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Stage   string      `json:"stage"`
	Message string      `json:"message"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s (%s)", f.Stage, f.Message, f.Kind)
}

// Result is the envelope every pipeline returns: either a sanitized payload
// or a tagged failure, never both. Pipelines return failures as values;
// nothing panics past a pipeline entry point.
type Result struct {
	Kind    string         `json:"analysis_kind"`
	Payload map[string]any `json:"payload,omitempty"`
	Failure *Failure       `json:"failure,omitempty"`
}

// OK reports whether the run succeeded.
func (r Result) OK() bool { return r.Failure == nil }

// success wraps a payload, routing it through the sanitizer so the envelope
// is always serializable by strict JSON encoders.
func success(kind string, payload map[string]any) Result {
	return Result{Kind: kind, Payload: asMap(Sanitize(payload))}
}

func fail(kind string, fk FailureKind, format string, args ...any) Result {
	return Result{
		Kind:    kind,
		Failure: &Failure{Kind: fk, Stage: kind, Message: fmt.Sprintf(format, args...)},
	}
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}
