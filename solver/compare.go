package solver

// Epsilon is the tolerance of all cost comparisons. Costs are sums of
// float64 distances; strict comparisons on them would turn rounding noise
// into accepted "improvements" and break local search termination.
const Epsilon = 1e-6

// ApproxLt reports a < b beyond tolerance.
func ApproxLt(a, b float64) bool { return a < b-Epsilon }

// ApproxGt reports a > b beyond tolerance.
func ApproxGt(a, b float64) bool { return a > b+Epsilon }

// ApproxEq reports |a-b| within tolerance.
func ApproxEq(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}

	return d < Epsilon
}

// ApproxLte reports a ≤ b within tolerance.
func ApproxLte(a, b float64) bool { return a < b || ApproxEq(a, b) }

// ApproxGte reports a ≥ b within tolerance.
func ApproxGte(a, b float64) bool { return a > b || ApproxEq(a, b) }
