package ruin

import (
	"math"

	"github.com/martsime/hybridcvrp/solver"
)

// Ruiner removes customers from a solution, leaving them in Unassigned.
type Ruiner interface {
	Run(ctx *solver.Context, sol *Solution)
}

// AdjacentStringRemoval is the SISR-style destroy operator: strings of
// consecutive customers are removed from the routes serving the
// neighbourhood of a random seed customer.
type AdjacentStringRemoval struct {
	// cavg is the average number of customers removed per ruin.
	cavg int
	// lmax bounds the cardinality of a removed string.
	lmax int
	// alpha is the geometric parameter of the preserved segment length
	// in the split-string variant.
	alpha float64
}

// NewAdjacentStringRemoval reads the operator parameters from config.
func NewAdjacentStringRemoval(ctx *solver.Context) *AdjacentStringRemoval {
	return &AdjacentStringRemoval{
		cavg:  ctx.Config.AverageRuinCardinality,
		lmax:  ctx.Config.MaxRuinStringLength,
		alpha: ctx.Config.RuinAlpha,
	}
}

// averageTourCardinality is the mean route length over all route slots.
func (a *AdjacentStringRemoval) averageTourCardinality(sol *Solution) float64 {
	total := 0.0
	for i := range sol.Routes {
		total += float64(len(sol.Routes[i].Nodes))
	}

	return math.Round(total / float64(len(sol.Routes)))
}

// Run removes strings around a random seed customer until the target
// number of routes has been ruined.
func (a *AdjacentStringRemoval) Run(ctx *solver.Context, sol *Solution) {
	// Maximum string cardinality for this ruin.
	lsMax := math.Min(a.averageTourCardinality(sol), float64(a.lmax))

	// Number of strings to remove, uniform in {1..⌈4·c̄/(1+lsMax)⌉−1}.
	ksMax := 4.0*float64(a.cavg)/(1.0+lsMax) - 1.0
	ks := int(ctx.Rand.Float64()*ksMax) + 1

	seed := ctx.Rand.IntRange(1, ctx.Problem.Dim())

	for _, neighbor := range ctx.Problem.Neighbors(seed) {
		if contains(sol.Unassigned, neighbor) {
			continue
		}
		neighborRoute := sol.Locations[neighbor].RouteIndex
		if sol.RuinedRoutes[neighborRoute] {
			continue
		}

		ltMax := math.Min(lsMax, float64(len(sol.Routes[neighborRoute].Nodes)))
		lt := int(ctx.Rand.Float64()*ltMax) + 1

		a.ruinRoute(ctx, sol, neighbor, neighborRoute, lt)

		if len(sol.RuinedRoutes) >= ks {
			break
		}
	}
}

// ruinRoute removes a string of length lt around node, or a split string
// that spares a geometrically distributed middle segment.
func (a *AdjacentStringRemoval) ruinRoute(ctx *solver.Context, sol *Solution, node, routeIndex, lt int) {
	nodeIndex := sol.Locations[node].NodeIndex
	route := &sol.Routes[routeIndex]
	routeLength := len(route.Nodes)

	if ctx.Rand.Float64() < 0.5 {
		// String: remove lt consecutive customers covering nodeIndex.
		minStart := nodeIndex - lt + 1
		if minStart < 0 {
			minStart = 0
		}
		maxStart := routeLength - lt
		if nodeIndex < maxStart {
			maxStart = nodeIndex
		}
		start := minStart
		if minStart < maxStart {
			start = ctx.Rand.IntRange(minStart, maxStart+1)
		}
		for i := 0; i < lt; i++ {
			sol.Unassigned = append(sol.Unassigned, route.Remove(ctx, start))
		}
	} else {
		// Split string: remove lt+m customers except a preserved middle
		// segment of geometric length m.
		mMax := routeLength - lt
		m := 1
		if mMax > 0 {
			for m < mMax && ctx.Rand.Float64() > a.alpha {
				m++
			}
		} else {
			m = 0
		}
		removeSize := lt + m

		minStart := nodeIndex - removeSize + 1
		if minStart < 0 {
			minStart = 0
		}
		maxStart := routeLength - removeSize
		if nodeIndex < maxStart {
			maxStart = nodeIndex
		}
		start := minStart
		if minStart < maxStart {
			start = ctx.Rand.IntRange(minStart, maxStart+1)
		}

		mIndex := ctx.Rand.IntRange(start, start+lt)

		// Walk backwards so earlier indices stay valid while removing.
		for index := start + lt + m - 1; index >= start; index-- {
			if index >= mIndex+m || index < mIndex {
				sol.Unassigned = append(sol.Unassigned, route.Remove(ctx, index))
			}
		}
	}

	sol.RuinedRoutes[routeIndex] = true
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}

	return false
}
