package ruin

import (
	"math"
	"sort"

	"github.com/martsime/hybridcvrp/solver"
)

// Recreater reinserts every unassigned customer into the solution.
type Recreater interface {
	Run(ctx *solver.Context, sol *Solution)
}

// GreedyBlink inserts customers at their cheapest position, skipping any
// candidate position with probability beta (the "blink"), which keeps
// the reconstruction from being fully deterministic and lets the
// annealing loop escape local structure.
type GreedyBlink struct {
	beta float64
}

// NewGreedyBlink reads the blink probability from config.
func NewGreedyBlink(ctx *solver.Context) *GreedyBlink {
	return &GreedyBlink{beta: ctx.Config.BlinkProbability}
}

// sortUnassigned orders the removed customers before reinsertion. The
// order is drawn per recreate: shuffle (4/11), descending demand (4/11),
// farthest from depot (2/11), closest to depot (1/11).
func (g *GreedyBlink) sortUnassigned(ctx *solver.Context, sol *Solution) {
	problem := ctx.Problem
	switch draw := ctx.Rand.Intn(11); {
	case draw < 4:
		ctx.Rand.Shuffle(sol.Unassigned)
	case draw < 8:
		sort.SliceStable(sol.Unassigned, func(i, j int) bool {
			return problem.Demand(sol.Unassigned[i]) > problem.Demand(sol.Unassigned[j])
		})
	case draw < 10:
		sort.SliceStable(sol.Unassigned, func(i, j int) bool {
			return problem.Distance(sol.Unassigned[i], 0) > problem.Distance(sol.Unassigned[j], 0)
		})
	default:
		sort.SliceStable(sol.Unassigned, func(i, j int) bool {
			return problem.Distance(sol.Unassigned[i], 0) < problem.Distance(sol.Unassigned[j], 0)
		})
	}
}

// Run reinserts all unassigned customers. Each customer goes to the
// cheapest non-blinked position among the routes with enough slack;
// when no route can take it feasibly, the cheapest penalized position
// over all routes is used instead (opening an empty route slot counts
// as both).
func (g *GreedyBlink) Run(ctx *solver.Context, sol *Solution) {
	g.sortUnassigned(ctx, sol)
	problem := ctx.Problem

	updatedRoutes := make(map[int]bool, len(sol.RuinedRoutes))
	for routeIndex := range sol.RuinedRoutes {
		updatedRoutes[routeIndex] = true
	}

	for len(sol.Unassigned) > 0 {
		customer := sol.Unassigned[0]
		sol.Unassigned = sol.Unassigned[1:]
		demand := problem.Demand(customer)

		bestRoute := -1
		bestIndex := 0
		bestDistance := math.Inf(1)

		for routeIndex := range sol.Routes {
			route := &sol.Routes[routeIndex]
			if route.Overload+demand > 0 {
				continue
			}
			for index := 0; index <= len(route.Nodes); index++ {
				// Blink: skip this position outright.
				if g.beta > 0 && ctx.Rand.Float64() < g.beta {
					continue
				}
				delta := route.DeltaDistance(ctx, index, customer)
				if delta < bestDistance {
					bestDistance = delta
					bestIndex = index
					bestRoute = routeIndex
				}
			}
		}

		if bestRoute < 0 {
			// No feasible position anywhere: cheapest penalized position.
			bestCost := math.Inf(1)
			for routeIndex := range sol.Routes {
				route := &sol.Routes[routeIndex]
				overloadCost := solver.RouteCost(0, route.Overload+demand, ctx.Config.PenaltyCapacity)
				for index := 0; index <= len(route.Nodes); index++ {
					cost := route.DeltaDistance(ctx, index, customer) + overloadCost
					if cost < bestCost {
						bestCost = cost
						bestIndex = index
						bestRoute = routeIndex
					}
				}
			}
		}

		sol.Routes[bestRoute].Add(ctx, bestIndex, customer)
		updatedRoutes[bestRoute] = true
	}

	sol.Evaluate(ctx, updatedRoutes)
	clear(sol.RuinedRoutes)
}
