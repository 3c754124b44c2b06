package localsearch_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martsime/hybridcvrp/cvrp"
	"github.com/martsime/hybridcvrp/localsearch"
	"github.com/martsime/hybridcvrp/solver"
)

// newSquareContext builds the 4-customer square instance: depot (0,0),
// customers (1,0), (-1,0), (0,1), (0,-1), unit demands, capacity 2.
func newSquareContext(t *testing.T, mutate func(*cvrp.Config)) *solver.Context {
	t.Helper()

	cfg := cvrp.DefaultConfig()
	cfg.Deterministic = true
	cfg.Seed = 23
	cfg.PenaltyCapacity = 10
	if mutate != nil {
		mutate(&cfg)
	}

	b := cvrp.NewProblemBuilder()
	b.AddNode(1, 0, 0, 0)
	b.AddNode(2, 1, 1, 0)
	b.AddNode(3, 1, -1, 0)
	b.AddNode(4, 1, 0, 1)
	b.AddNode(5, 1, 0, -1)
	b.AddCapacity(2)

	problem, err := b.Build(&cfg)
	require.NoError(t, err)

	return solver.NewContext(problem, &cfg)
}

// makeIndividual builds an evaluated individual from explicit routes,
// padded to the full vehicle bound.
func makeIndividual(ctx *solver.Context, routes ...[]int) *solver.Individual {
	genotype := make([]int, 0, ctx.Problem.NumCustomers())
	phenotype := make([][]int, ctx.Problem.VehicleBound())
	for i, route := range routes {
		phenotype[i] = append([]int(nil), route...)
		genotype = append(genotype, route...)
	}
	ind := solver.NewIndividual(genotype, 0)
	ind.Phenotype = phenotype
	ind.Evaluate(ctx)

	return ind
}

// TestRun_FindsAdjacentPairing starts from the worst pairing (opposite
// customers share a route, total cost 8) and expects the local search to
// reach the optimal adjacent pairing at 4 + 2√2.
func TestRun_FindsAdjacentPairing(t *testing.T) {
	ctx := newSquareContext(t, nil)
	ls := localsearch.New(ctx)

	ind := makeIndividual(ctx, []int{1, 2}, []int{3, 4})
	require.InDelta(t, 8.0, ind.PenalizedCost(), 1e-9)

	ls.Run(ctx, ind, 1.0)

	require.NoError(t, ind.Validate(ctx.Problem.NumCustomers()))
	assert.True(t, ind.IsFeasible())
	assert.InDelta(t, 4+2*math.Sqrt2, ind.PenalizedCost(), 1e-6)
	assert.Equal(t, 2, ind.NumNonemptyRoutes())
}

// TestRun_NeverWorsens educates a batch of random individuals; every
// accepted move strictly improves, so the final cost can never exceed
// the initial one.
func TestRun_NeverWorsens(t *testing.T) {
	ctx := newSquareContext(t, nil)
	ls := localsearch.New(ctx)

	for i := 0; i < 25; i++ {
		ind := solver.NewRandomIndividual(ctx, uint64(i))
		// Naive split: two customers per route in genotype order.
		routes := make([][]int, 0, 2)
		for start := 0; start < len(ind.Genotype); start += 2 {
			end := start + 2
			if end > len(ind.Genotype) {
				end = len(ind.Genotype)
			}
			routes = append(routes, append([]int(nil), ind.Genotype[start:end]...))
		}
		for r, route := range routes {
			ind.Phenotype[r] = route
		}
		ind.Evaluate(ctx)
		before := ind.PenalizedCost()

		ls.Run(ctx, ind, 1.0)

		require.NoError(t, ind.Validate(ctx.Problem.NumCustomers()))
		assert.LessOrEqual(t, ind.PenalizedCost(), before+solver.Epsilon)
	}
}

// TestRun_RepairPenaltyRestoresFeasibility loads an infeasible
// individual and educates it under a 10× penalty multiplier; on this
// instance the overload is always worth repairing.
func TestRun_RepairPenaltyRestoresFeasibility(t *testing.T) {
	ctx := newSquareContext(t, nil)
	ls := localsearch.New(ctx)

	// Three customers on the first route: overload 1.
	ind := makeIndividual(ctx, []int{1, 3, 2}, []int{4})
	require.False(t, ind.IsFeasible())

	ls.Run(ctx, ind, 10.0)

	require.NoError(t, ind.Validate(ctx.Problem.NumCustomers()))
	assert.True(t, ind.IsFeasible(), "100-per-unit overload must be moved out")
}

// TestRun_LeavesOptimumAlone re-educating the optimum must not change
// its cost.
func TestRun_LeavesOptimumAlone(t *testing.T) {
	ctx := newSquareContext(t, nil)
	ls := localsearch.New(ctx)

	ind := makeIndividual(ctx, []int{1, 4}, []int{3, 2})
	want := ind.PenalizedCost()

	ls.Run(ctx, ind, 1.0)

	assert.InDelta(t, want, ind.PenalizedCost(), 1e-9)
}
