package analysis

// ChartSpec is a declarative description of a chart for the frontend to
// render. Data keys depend on the chart kind (bins/counts for histograms,
// x/y for scatter and line, labels/values for bars, and so on).
type ChartSpec struct {
	Kind   string
	Title  string
	XLabel string
	YLabel string
	Data   map[string]any
}

func (c ChartSpec) toMap() map[string]any {
	return map[string]any{
		"chart_type": c.Kind,
		"title":      c.Title,
		"x_label":    c.XLabel,
		"y_label":    c.YLabel,
		"data":       c.Data,
	}
}
