package cvrp

import "math"

// DistanceMatrix provides pairwise Euclidean distances between nodes.
//
// Two storage modes exist:
//   - precomputed: a dense n×n float64 slice filled at Build time
//     (O(n²) memory, O(1) lookup);
//   - on demand: only coordinates are kept and every lookup computes
//     the distance (O(n) memory, a sqrt per lookup).
//
// The mode is chosen by the builder from Config.PrecomputeDistanceSizeLimit.
// Rounding, when enabled, applies math.Round before storage (or before
// returning, in on-demand mode), so both modes agree to the last bit.
type DistanceMatrix struct {
	dim     int
	data    []float64 // nil in on-demand mode
	coords  []Coordinate
	rounded bool
}

// newDistanceMatrix builds the matrix over coords. When precompute is
// false the coordinates are retained and distances are computed per query.
func newDistanceMatrix(coords []Coordinate, precompute, rounded bool) *DistanceMatrix {
	m := &DistanceMatrix{
		dim:     len(coords),
		coords:  coords,
		rounded: rounded,
	}
	if !precompute {
		return m
	}

	m.data = make([]float64, m.dim*m.dim)
	var i, j int
	for i = 0; i < m.dim; i++ {
		for j = i + 1; j < m.dim; j++ {
			d := m.compute(i, j)
			m.data[i*m.dim+j] = d
			m.data[j*m.dim+i] = d
		}
	}

	return m
}

// compute returns the (possibly rounded) Euclidean distance between i and j.
func (m *DistanceMatrix) compute(i, j int) float64 {
	dx := m.coords[i].X - m.coords[j].X
	dy := m.coords[i].Y - m.coords[j].Y
	d := math.Sqrt(dx*dx + dy*dy)
	if m.rounded {
		d = math.Round(d)
	}

	return d
}

// Get returns the distance between nodes i and j.
func (m *DistanceMatrix) Get(i, j int) float64 {
	if m.data != nil {
		return m.data[i*m.dim+j]
	}

	return m.compute(i, j)
}

// Dim returns the matrix order (number of nodes, depot included).
func (m *DistanceMatrix) Dim() int { return m.dim }

// Precomputed reports whether the dense table was materialized.
func (m *DistanceMatrix) Precomputed() bool { return m.data != nil }

// Rounded reports whether entries are rounded to the nearest integer.
func (m *DistanceMatrix) Rounded() bool { return m.rounded }
