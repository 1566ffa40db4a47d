package analysis

import (
	"fmt"

	"datalens-backend/internal/tabular"
)

const KindQuick = "quick"

// Request is a typed analysis request. Fields beyond Kind are read only by
// the pipelines that need them.
type Request struct {
	Kind              string       `json:"analysis_kind"`
	Columns           []string     `json:"columns,omitempty"`
	TargetColumn      string       `json:"target_column,omitempty"`
	FeatureColumns    []string     `json:"feature_columns,omitempty"`
	NClusters         int          `json:"n_clusters,omitempty"`
	CorrelationMethod string       `json:"correlation_method,omitempty"`
	Chart             ChartRequest `json:"chart,omitempty"`
}

// Run cleans the table and routes the request to the matching pipeline.
// Panics inside a pipeline are converted to algorithm failures so nothing
// escapes the dispatcher.
func Run(t tabular.Table, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = fail(req.Kind, FailAlgorithm, "analysis panicked: %v", r)
		}
	}()

	cleaned := tabular.Clean(t)
	switch req.Kind {
	case KindDescriptive:
		return Descriptive(cleaned, req.Columns)
	case KindCorrelation:
		return Correlation(cleaned, req.CorrelationMethod)
	case KindRegression:
		return Regression(cleaned, req.TargetColumn, req.FeatureColumns)
	case KindClustering:
		return Clustering(cleaned, req.NClusters, req.FeatureColumns)
	case KindClassification:
		return Classification(cleaned, req.TargetColumn, req.FeatureColumns)
	case KindVisualization:
		return Visualize(cleaned, req.Chart)
	case KindQuick:
		return Quick(cleaned)
	default:
		return fail(req.Kind, FailValidation, "unsupported analysis kind %q", req.Kind)
	}
}

// Quick runs the exploratory bundle over an already cleaned table. Each
// sub-analysis succeeds or fails independently.
func Quick(t tabular.Table) Result {
	parts := []struct {
		name string
		run  func() Result
	}{
		{"dataset_info", func() Result {
			return success("dataset_info", map[string]any{"info": tabular.Describe(t).Map()})
		}},
		{KindDescriptive, func() Result { return Descriptive(t, nil) }},
		{KindCorrelation, func() Result { return Correlation(t, "") }},
		{KindQuality, func() Result { return Quality(t) }},
		{KindInsights, func() Result { return Insights(t) }},
		{KindVizRecommend, func() Result { return RecommendVisualizations(t) }},
	}

	results := make(map[string]any, len(parts))
	for _, part := range parts {
		res := runGuarded(part.name, part.run)
		entry := map[string]any{"success": res.OK()}
		if res.OK() {
			entry["result"] = res.Payload
		} else {
			entry["error"] = res.Failure.Message
		}
		results[part.name] = entry
	}
	return success(KindQuick, map[string]any{"analyses": results})
}

func runGuarded(name string, run func() Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = fail(name, FailAlgorithm, "analysis panicked: %v", r)
		}
	}()
	return run()
}

// String implements fmt.Stringer for log lines.
func (r Result) String() string {
	if r.OK() {
		return fmt.Sprintf("%s: ok", r.Kind)
	}
	return fmt.Sprintf("%s: failed (%s)", r.Kind, r.Failure.Message)
}
