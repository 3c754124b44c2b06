package localsearch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martsime/hybridcvrp/cvrp"
	"github.com/martsime/hybridcvrp/solver"
)

// newDeltaContext builds six customers on a line at x = 1..6, unit
// demands, capacity 3, penalty 10 — small enough that every move's cost
// can be checked against a full re-evaluation, tight enough that
// inter-route moves change overloads and exercise the penalty term.
func newDeltaContext(t *testing.T) *solver.Context {
	t.Helper()

	cfg := cvrp.DefaultConfig()
	cfg.Deterministic = true
	cfg.Seed = 41
	cfg.PenaltyCapacity = 10

	b := cvrp.NewProblemBuilder()
	b.AddNode(0, 0, 0, 0)
	for i := 1; i <= 6; i++ {
		b.AddNode(i, 1, float64(i), 0)
	}
	b.AddCapacity(3)

	problem, err := b.Build(&cfg)
	require.NoError(t, err)

	return solver.NewContext(problem, &cfg)
}

// loadRoutes builds an evaluated individual from explicit routes, padded
// to the vehicle bound, and loads it into the linked view.
func loadRoutes(ctx *solver.Context, ls *LocalSearch, routes ...[]int) *solver.Individual {
	genotype := make([]int, 0, ctx.Problem.NumCustomers())
	phenotype := make([][]int, ctx.Problem.VehicleBound())
	for i, route := range routes {
		phenotype[i] = append([]int(nil), route...)
		genotype = append(genotype, route...)
	}
	ind := solver.NewIndividual(genotype, 0)
	ind.Phenotype = phenotype
	ind.Evaluate(ctx)

	ls.reset()
	ls.loadIndividual(ind)

	return ind
}

// routeCostSum totals the incrementally maintained route costs.
func routeCostSum(ls *LocalSearch) float64 {
	total := 0.0
	for i := range ls.routes {
		total += ls.routes[i].Cost
	}

	return total
}

// TestMoves_DeltaMatchesReevaluation applies every RI move once and
// checks that its O(1) Delta agrees with a from-scratch re-evaluation of
// the resulting individual: oldCost + Delta == recomputed cost.
func TestMoves_DeltaMatchesReevaluation(t *testing.T) {
	cases := []struct {
		name   string
		move   Move
		routes [][]int
		u, v   int
	}{
		{"RelocateSingle", RelocateSingle{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 2, 5},
		{"RelocateSingle intra", RelocateSingle{}, [][]int{{2, 1, 3}, {4, 5, 6}}, 2, 1},
		{"RelocateDouble", RelocateDouble{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 1, 5},
		{"RelocateDoubleReverse", RelocateDoubleReverse{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 1, 5},
		{"SwapOneWithOne", SwapOneWithOne{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 2, 5},
		{"SwapTwoWithOne", SwapTwoWithOne{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 1, 5},
		{"SwapTwoWithTwo", SwapTwoWithTwo{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 1, 4},
		{"TwoOptIntraReverse", TwoOptIntraReverse{}, [][]int{{1, 3, 2, 4}, {5, 6}}, 1, 2},
		{"TwoOptInterReverse", TwoOptInterReverse{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 2, 5},
		{"TwoOptInter", TwoOptInter{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 2, 5},
		{"TwoOptInter overloading", TwoOptInter{}, [][]int{{1, 2}, {3, 4, 5, 6}}, 1, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newDeltaContext(t)
			ls := New(ctx)
			ind := loadRoutes(ctx, ls, tc.routes...)
			before := ind.PenalizedCost()

			u := &ls.nodes[tc.u]
			v := &ls.nodes[tc.v]

			delta := tc.move.Delta(ls, u, v)
			require.NotZero(t, delta, "case must pass the move's applicability guards")

			tc.move.Perform(ls, u, v)

			// Incrementally maintained aggregates vs a full recompute.
			incremental := routeCostSum(ls)
			ls.updateIndividual(ind)

			assert.InDelta(t, before+delta, ind.PenalizedCost(), 1e-6,
				"Delta disagrees with re-evaluation")
			assert.InDelta(t, incremental, ind.PenalizedCost(), 1e-6,
				"route aggregates disagree with re-evaluation")
		})
	}
}

// TestMoves_DepotAnchoredDelta covers the depot-anchored variants: v is
// a route's start depot, as used by the depot and empty-route bundles.
func TestMoves_DepotAnchoredDelta(t *testing.T) {
	cases := []struct {
		name       string
		move       Move
		routes     [][]int
		u          int
		depotRoute int
	}{
		// Relocate 2 to the front of the second route.
		{"RelocateSingle to route front", RelocateSingle{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 2, 1},
		// Relocate 2 into an empty route slot.
		{"RelocateSingle opens empty route", RelocateSingle{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 2, 2},
		// Swap the tail after 2 into an empty route.
		{"TwoOptInter opens empty route", TwoOptInter{}, [][]int{{1, 2, 3}, {4, 5, 6}}, 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newDeltaContext(t)
			ls := New(ctx)
			ind := loadRoutes(ctx, ls, tc.routes...)
			before := ind.PenalizedCost()

			u := &ls.nodes[tc.u]
			v := ls.routes[tc.depotRoute].StartDepot

			delta := tc.move.Delta(ls, u, v)
			require.NotZero(t, delta)

			tc.move.Perform(ls, u, v)

			incremental := routeCostSum(ls)
			ls.updateIndividual(ind)

			assert.InDelta(t, before+delta, ind.PenalizedCost(), 1e-6)
			assert.InDelta(t, incremental, ind.PenalizedCost(), 1e-6)
		})
	}
}

// TestSwapStar_AgreesWithReevaluation prices the SWAP* exchange through
// the insertion caches and checks the applied result against a full
// re-evaluation; on the unit cross the opposite pairing must improve to
// the adjacent one at 4 + 2√2.
func TestSwapStar_AgreesWithReevaluation(t *testing.T) {
	cfg := cvrp.DefaultConfig()
	cfg.Deterministic = true
	cfg.Seed = 43
	cfg.PenaltyCapacity = 10

	b := cvrp.NewProblemBuilder()
	b.AddNode(1, 0, 0, 0)
	b.AddNode(2, 1, 1, 0)
	b.AddNode(3, 1, -1, 0)
	b.AddNode(4, 1, 0, 1)
	b.AddNode(5, 1, 0, -1)
	b.AddCapacity(2)

	problem, err := b.Build(&cfg)
	require.NoError(t, err)
	ctx := solver.NewContext(problem, &cfg)

	ls := New(ctx)
	ind := loadRoutes(ctx, ls, []int{1, 2}, []int{3, 4})
	before := ind.PenalizedCost()
	require.InDelta(t, 8.0, before, 1e-9)

	improved := ls.swapStar(&ls.routes[0], &ls.routes[1])
	require.True(t, improved, "opposite pairing must admit a SWAP* improvement")

	incremental := routeCostSum(ls)
	ls.updateIndividual(ind)

	require.NoError(t, ind.Validate(ctx.Problem.NumCustomers()))
	assert.InDelta(t, incremental, ind.PenalizedCost(), 1e-6,
		"SWAP* aggregates disagree with re-evaluation")
	assert.Less(t, ind.PenalizedCost(), before)
	assert.InDelta(t, 4+2*math.Sqrt2, ind.PenalizedCost(), 1e-6)
}
