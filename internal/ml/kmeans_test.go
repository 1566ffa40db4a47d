package ml

import "testing"

func blobs() [][]float64 {
	return [][]float64{
		{1, 1}, {1.2, 0.8}, {0.9, 1.1},
		{10, 10}, {10.2, 9.8}, {9.9, 10.1},
	}
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	m := NewKMeans(2)
	if err := m.Fit(blobs()); err != nil {
		t.Fatalf("expected fit to succeed, got %v", err)
	}

	if m.Labels[0] != m.Labels[1] || m.Labels[1] != m.Labels[2] {
		t.Fatalf("expected first blob in one cluster, got %v", m.Labels)
	}
	if m.Labels[3] != m.Labels[4] || m.Labels[4] != m.Labels[5] {
		t.Fatalf("expected second blob in one cluster, got %v", m.Labels)
	}
	if m.Labels[0] == m.Labels[3] {
		t.Fatalf("expected blobs in different clusters, got %v", m.Labels)
	}
	if m.Inertia < 0 {
		t.Fatalf("expected non-negative inertia, got %v", m.Inertia)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	a := NewKMeans(2)
	b := NewKMeans(2)
	if err := a.Fit(blobs()); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if err := b.Fit(blobs()); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Fatalf("expected identical labels, got %v vs %v", a.Labels, b.Labels)
		}
	}
	if a.Inertia != b.Inertia {
		t.Fatalf("expected identical inertia, got %v vs %v", a.Inertia, b.Inertia)
	}
}

func TestKMeansFewerRowsThanClusters(t *testing.T) {
	m := NewKMeans(5)
	if err := m.Fit([][]float64{{1}, {2}, {3}}); err == nil {
		t.Fatalf("expected error when rows < k")
	}
}
