package analysis

import (
	"fmt"
	"math"

	"datalens-backend/internal/tabular"
)

const KindVisualization = "visualization"

// ChartRequest selects one chart to build from a table.
type ChartRequest struct {
	ChartType string `json:"chart_type"`
	Column    string `json:"column,omitempty"`
	XColumn   string `json:"x_column,omitempty"`
	YColumn   string `json:"y_column,omitempty"`
	GroupBy   string `json:"group_by,omitempty"`
}

// Visualize builds a single declarative chart spec from a cleaned table.
func Visualize(t tabular.Table, req ChartRequest) Result {
	var (
		spec ChartSpec
		err  *Failure
	)
	switch req.ChartType {
	case "histogram":
		spec, err = vizHistogram(t, req)
	case "scatter", "line":
		spec, err = vizXY(t, req)
	case "bar":
		spec, err = vizBar(t, req)
	case "box":
		spec, err = vizBox(t, req)
	case "heatmap":
		spec, err = vizHeatmap(t)
	default:
		return fail(KindVisualization, FailValidation, "unsupported chart type %q", req.ChartType)
	}
	if err != nil {
		return Result{Kind: KindVisualization, Failure: err}
	}
	return success(KindVisualization, map[string]any{"chart": spec})
}

func vizFailure(format string, args ...any) *Failure {
	return &Failure{Kind: FailValidation, Stage: KindVisualization, Message: fmt.Sprintf(format, args...)}
}

func numericColumn(t tabular.Table, name string) (tabular.Column, *Failure) {
	if name == "" {
		return tabular.Column{}, vizFailure("column parameter is required")
	}
	col, ok := t.Column(name)
	if !ok {
		return tabular.Column{}, vizFailure("column %q not found", name)
	}
	if col.Kind != tabular.KindNumeric {
		return tabular.Column{}, vizFailure("column %q is not numeric", name)
	}
	return col, nil
}

func vizHistogram(t tabular.Table, req ChartRequest) (ChartSpec, *Failure) {
	name := req.Column
	if name == "" {
		name = req.XColumn
	}
	col, fe := numericColumn(t, name)
	if fe != nil {
		return ChartSpec{}, fe
	}
	spec, ok := histogramChart(col)
	if !ok {
		return ChartSpec{}, vizFailure("column %q has no numeric values", name)
	}
	return spec, nil
}

func vizXY(t tabular.Table, req ChartRequest) (ChartSpec, *Failure) {
	xCol, fe := numericColumn(t, req.XColumn)
	if fe != nil {
		return ChartSpec{}, fe
	}
	yCol, fe := numericColumn(t, req.YColumn)
	if fe != nil {
		return ChartSpec{}, fe
	}

	xs, ys := xCol.Floats(), yCol.Floats()
	var x, y []float64
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
	}
	return ChartSpec{
		Kind:   req.ChartType,
		Title:  fmt.Sprintf("%s vs %s", yCol.Name, xCol.Name),
		XLabel: xCol.Name,
		YLabel: yCol.Name,
		Data:   map[string]any{"x": x, "y": y},
	}, nil
}

func vizBar(t tabular.Table, req ChartRequest) (ChartSpec, *Failure) {
	name := req.Column
	if name == "" {
		name = req.XColumn
	}
	if name == "" {
		return ChartSpec{}, vizFailure("column parameter is required")
	}
	col, ok := t.Column(name)
	if !ok {
		return ChartSpec{}, vizFailure("column %q not found", name)
	}
	spec, ok := topValuesChart(col)
	if !ok {
		return ChartSpec{}, vizFailure("column %q has too few distinct values for a bar chart", name)
	}
	return spec, nil
}

func vizBox(t tabular.Table, req ChartRequest) (ChartSpec, *Failure) {
	name := req.Column
	if name == "" {
		name = req.YColumn
	}
	col, fe := numericColumn(t, name)
	if fe != nil {
		return ChartSpec{}, fe
	}

	groups := map[string][]float64{}
	order := []string{}
	if req.GroupBy != "" {
		groupCol, ok := t.Column(req.GroupBy)
		if !ok {
			return ChartSpec{}, vizFailure("group column %q not found", req.GroupBy)
		}
		for i, cell := range groupCol.Cells {
			if cell.Kind != tabular.CellText || col.Cells[i].Kind != tabular.CellNumber {
				continue
			}
			if _, seen := groups[cell.Text]; !seen {
				order = append(order, cell.Text)
			}
			groups[cell.Text] = append(groups[cell.Text], col.Cells[i].Num)
		}
	} else {
		order = []string{col.Name}
		groups[col.Name] = col.NumericValues()
	}

	series := make([]map[string]any, 0, len(order))
	for _, label := range order {
		vals := groups[label]
		if len(vals) == 0 {
			continue
		}
		series = append(series, map[string]any{
			"label":  label,
			"min":    quantile(vals, 0),
			"q1":     quantile(vals, 0.25),
			"median": quantile(vals, 0.5),
			"q3":     quantile(vals, 0.75),
			"max":    quantile(vals, 1),
		})
	}
	title := fmt.Sprintf("Distribution of %s", col.Name)
	if req.GroupBy != "" {
		title = fmt.Sprintf("%s by %s", col.Name, req.GroupBy)
	}
	return ChartSpec{
		Kind:   "box",
		Title:  title,
		XLabel: req.GroupBy,
		YLabel: col.Name,
		Data:   map[string]any{"series": series},
	}, nil
}

func vizHeatmap(t tabular.Table) (ChartSpec, *Failure) {
	numeric := t.NumericColumns()
	if len(numeric) < 2 {
		return ChartSpec{}, vizFailure("need at least 2 numeric columns for a heatmap")
	}
	names := make([]string, len(numeric))
	series := make([][]float64, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name
		series[i] = col.Floats()
	}
	matrix := make([][]float64, len(numeric))
	for i := range matrix {
		matrix[i] = make([]float64, len(numeric))
		for j := range matrix[i] {
			matrix[i][j] = pairCorrelation(series[i], series[j], "pearson")
		}
	}
	spec, _ := heatmapChart(names, matrix)
	return spec, nil
}
