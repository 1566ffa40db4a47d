package analysis

import (
	"fmt"
	"strconv"

	"datalens-backend/internal/ml"
	"datalens-backend/internal/tabular"
)

const KindClustering = "clustering"

// DefaultClusters is the cluster count used when a request leaves it unset.
const DefaultClusters = 3

// Clustering partitions the table's rows with k-means over the given numeric
// features (all numeric columns by default). Features are median-imputed and
// standardized before fitting; reported centers are mapped back to the
// original feature space.
func Clustering(t tabular.Table, k int, features []string) Result {
	if k <= 0 {
		k = DefaultClusters
	}

	var featureCols []tabular.Column
	if len(features) == 0 {
		featureCols = t.NumericColumns()
		if len(featureCols) == 0 {
			return fail(KindClustering, FailValidation, "no numeric columns available for clustering")
		}
	} else {
		for _, name := range features {
			col, ok := t.Column(name)
			if !ok {
				return fail(KindClustering, FailValidation, "feature column %q not found", name)
			}
			if col.Kind != tabular.KindNumeric {
				return fail(KindClustering, FailValidation, "feature column %q is not numeric", name)
			}
			featureCols = append(featureCols, col)
		}
	}
	if t.Rows() < k {
		return fail(KindClustering, FailData, "need at least %d rows for %d clusters, have %d", k, k, t.Rows())
	}

	featureNames := make([]string, len(featureCols))
	imputed := make([][]float64, len(featureCols))
	for j, col := range featureCols {
		featureNames[j] = col.Name
		imputed[j] = imputeMedian(col.Floats())
	}
	x, _ := dropNonFiniteRows(imputed, make([]float64, t.Rows()))
	if len(x) < k {
		return fail(KindClustering, FailData, "need at least %d usable rows for %d clusters, have %d", k, k, len(x))
	}

	var scaler ml.StandardScaler
	scaled := scaler.FitTransform(x)

	model := ml.NewKMeans(k)
	if err := model.Fit(scaled); err != nil {
		return fail(KindClustering, FailAlgorithm, "clustering failed: %v", err)
	}
	centers := scaler.InverseTransform(model.Centroids)

	sizes := make([]int, k)
	for _, label := range model.Labels {
		sizes[label]++
	}

	summary := make(map[string]any, k)
	for c := 0; c < k; c++ {
		means := make(map[string]any, len(featureNames))
		for j, name := range featureNames {
			sum := 0.0
			for i, label := range model.Labels {
				if label == c {
					sum += x[i][j]
				}
			}
			if sizes[c] > 0 {
				means[name] = round(sum/float64(sizes[c]), 4)
			}
		}
		summary[strconv.Itoa(c)] = map[string]any{"size": sizes[c], "means": means}
	}

	payload := map[string]any{
		"n_clusters":      k,
		"features":        featureNames,
		"labels":          model.Labels,
		"centers":         centers,
		"inertia":         round(model.Inertia, 4),
		"cluster_summary": summary,
		"charts":          clusteringCharts(x, centers, model.Labels, sizes, featureNames, scaled, k),
	}
	return success(KindClustering, payload)
}

func clusteringCharts(x, centers [][]float64, labels []int, sizes []int, features []string, scaled [][]float64, k int) []ChartSpec {
	var charts []ChartSpec

	if len(features) >= 2 {
		charts = append(charts, clusterScatter(x, centers, labels, features, 2))
	}
	if len(features) >= 3 {
		charts = append(charts, clusterScatter(x, centers, labels, features, 3))
	}

	labelsAxis := make([]string, k)
	values := make([]float64, k)
	for c := 0; c < k; c++ {
		labelsAxis[c] = strconv.Itoa(c)
		values[c] = float64(sizes[c])
	}
	charts = append(charts, ChartSpec{
		Kind:   "bar",
		Title:  "Cluster Sizes",
		XLabel: "Cluster",
		YLabel: "Members",
		Data:   map[string]any{"labels": labelsAxis, "values": values},
	})

	charts = append(charts, elbowChart(scaled, k))
	return charts
}

func clusterScatter(x, centers [][]float64, labels []int, features []string, dims int) ChartSpec {
	data := map[string]any{"labels": labels}
	axes := []string{"x", "y", "z"}
	for d := 0; d < dims; d++ {
		series := make([]float64, len(x))
		centerSeries := make([]float64, len(centers))
		for i, row := range x {
			series[i] = row[d]
		}
		for i, c := range centers {
			centerSeries[i] = c[d]
		}
		data[axes[d]] = series
		data["center_"+axes[d]] = centerSeries
	}

	kind := "scatter"
	title := fmt.Sprintf("Clusters: %s vs %s", features[0], features[1])
	if dims == 3 {
		kind = "scatter3d"
		title = fmt.Sprintf("Clusters: %s, %s, %s", features[0], features[1], features[2])
	}
	return ChartSpec{
		Kind:   kind,
		Title:  title,
		XLabel: features[0],
		YLabel: features[1],
		Data:   data,
	}
}

// elbowChart refits k-means for k = 1..min(10, k+2), bounded by the row
// count, and plots the resulting inertias.
func elbowChart(scaled [][]float64, k int) ChartSpec {
	maxK := k + 2
	if maxK > 10 {
		maxK = 10
	}
	if maxK > len(scaled) {
		maxK = len(scaled)
	}

	ks := make([]float64, 0, maxK)
	inertias := make([]float64, 0, maxK)
	for kk := 1; kk <= maxK; kk++ {
		m := ml.NewKMeans(kk)
		if err := m.Fit(scaled); err != nil {
			continue
		}
		ks = append(ks, float64(kk))
		inertias = append(inertias, m.Inertia)
	}
	return ChartSpec{
		Kind:   "line",
		Title:  "Elbow Curve",
		XLabel: "k",
		YLabel: "Inertia",
		Data:   map[string]any{"x": ks, "y": inertias},
	}
}
