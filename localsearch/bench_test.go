// Package localsearch_test — benchmarks for the education hot path.
//
// Policy (matching the repo-wide benchmark conventions):
//   - Deterministic geometry (rippled circle) and fixed seeds.
//   - All inputs built outside the timer; the loop measures one full
//     education pass (granular RI sweeps + SWAP*) per iteration.
//   - Instances sized to finish quickly on CI while still exercising
//     the O(n·Γ) sweep and the insertion caches.
package localsearch_test

import (
	"math"
	"testing"

	"github.com/martsime/hybridcvrp/cvrp"
	"github.com/martsime/hybridcvrp/localsearch"
	"github.com/martsime/hybridcvrp/solver"
)

// benchContext builds n customers on a rippled circle around the depot,
// demands 1..3, capacity 10, deterministic stream.
func benchContext(tb testing.TB, n int) *solver.Context {
	tb.Helper()

	cfg := cvrp.DefaultConfig()
	cfg.Deterministic = true
	cfg.Seed = 1
	cfg.PenaltyCapacity = 10

	b := cvrp.NewProblemBuilder()
	b.AddNode(0, 0, 0, 0)
	for i := 1; i <= n; i++ {
		th := 2.0 * math.Pi * float64(i) / float64(n)
		r := 50.0 + float64((i*5)%7) // deterministic ripple, no ties
		b.AddNode(i, int64(1+i%3), r*math.Cos(th), r*math.Sin(th))
	}
	b.AddCapacity(10)

	problem, err := b.Build(&cfg)
	if err != nil {
		tb.Fatalf("Build: %v", err)
	}

	return solver.NewContext(problem, &cfg)
}

// benchIndividual segments the identity tour into naive routes of three
// customers, leaving plenty of work for the local search.
func benchIndividual(ctx *solver.Context) *solver.Individual {
	n := ctx.Problem.NumCustomers()
	genotype := make([]int, n)
	for i := range genotype {
		genotype[i] = i + 1
	}
	ind := solver.NewIndividual(genotype, 0)
	ind.Phenotype = make([][]int, ctx.Problem.VehicleBound())
	route := 0
	for start := 0; start < n; start += 3 {
		end := start + 3
		if end > n {
			end = n
		}
		ind.Phenotype[route] = append([]int(nil), genotype[start:end]...)
		route++
	}
	ind.Evaluate(ctx)

	return ind
}

// benchRun measures one full education pass on a fresh clone per
// iteration (the clone is O(n), negligible against the search).
func benchRun(b *testing.B, n int) {
	ctx := benchContext(b, n)
	ls := localsearch.New(ctx)
	base := benchIndividual(ctx)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ind := base.Clone()
		ls.Run(ctx, ind, 1.0)
	}
}

// BenchmarkLocalSearch_Run_n50 educates a 50-customer instance.
func BenchmarkLocalSearch_Run_n50(b *testing.B) { benchRun(b, 50) }

// BenchmarkLocalSearch_Run_n150 educates a 150-customer instance.
func BenchmarkLocalSearch_Run_n150(b *testing.B) { benchRun(b, 150) }
