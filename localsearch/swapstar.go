package localsearch

import (
	"math"

	"github.com/martsime/hybridcvrp/solver"
)

// bestSwapStar is the running best SWAP* candidate: u leaves r1 and goes
// after posU in r2, v leaves r2 and goes after posV in r1. A nil u or v
// degrades the move to a plain relocation.
type bestSwapStar struct {
	cost float64
	u    *Node
	v    *Node
	posU *Node
	posV *Node
}

// swapStar evaluates all customer exchanges between r1 and r2 where each
// customer is reinserted at its best position in the other route (not
// necessarily the vacated one), plus all single relocations between the
// two routes, and applies the best candidate iff it strictly improves.
//
// Complexity: O(|r1|·|r2|) on stale caches via preprocessInsertions,
// then O(|r1|·|r2|) candidate pricing with O(1) per pair.
func (ls *LocalSearch) swapStar(r1, r2 *Route) bool {
	problem := ls.ctx.Problem
	best := bestSwapStar{cost: math.Inf(1)}

	ls.preprocessInsertions(r1, r2)
	ls.preprocessInsertions(r2, r1)

	posOverload := func(overload int64) float64 {
		if overload > 0 {
			return float64(overload) * ls.penaltyCapacity
		}

		return 0
	}

	// Pairwise exchanges u ∈ r1, v ∈ r2.
	for u := r1.StartDepot.Successor; !u.IsDepot(); u = u.Successor {
		for v := r2.StartDepot.Successor; !v.IsDepot(); v = v.Successor {
			uDemand := problem.Demand(u.Number)
			vDemand := problem.Demand(v.Number)

			deltaPenaltyR1 := posOverload(r1.Overload-uDemand+vDemand) - posOverload(r1.Overload)
			deltaPenaltyR2 := posOverload(r2.Overload+uDemand-vDemand) - posOverload(r2.Overload)

			// Preliminary filter: removal gains plus penalty change must
			// not already exceed zero, otherwise no insertion can win.
			if u.DeltaRemoval+v.DeltaRemoval+deltaPenaltyR1+deltaPenaltyR2 > 0 {
				continue
			}

			posU, deltaInsertU := ls.cheapestInsertAndRemoval(u, v)
			posV, deltaInsertV := ls.cheapestInsertAndRemoval(v, u)

			cost := u.DeltaRemoval + deltaPenaltyR1 + deltaInsertU +
				v.DeltaRemoval + deltaPenaltyR2 + deltaInsertV
			if cost < best.cost {
				best = bestSwapStar{cost: cost, u: u, v: v, posU: posU, posV: posV}
			}
		}
	}

	// Relocations of u ∈ r1 into r2; the cached best position is free.
	for u := r1.StartDepot.Successor; !u.IsDepot(); u = u.Successor {
		loc := &ls.bestInserts[r2.Index][u.Number].Locations[0]
		if loc.After == nil {
			continue
		}
		uDemand := problem.Demand(u.Number)
		cost := u.DeltaRemoval + loc.Cost +
			posOverload(r1.Overload-uDemand) - posOverload(r1.Overload) +
			posOverload(r2.Overload+uDemand) - posOverload(r2.Overload)
		if cost < best.cost {
			best = bestSwapStar{cost: cost, u: u, posU: loc.After}
		}
	}

	// Relocations of v ∈ r2 into r1.
	for v := r2.StartDepot.Successor; !v.IsDepot(); v = v.Successor {
		loc := &ls.bestInserts[r1.Index][v.Number].Locations[0]
		if loc.After == nil {
			continue
		}
		vDemand := problem.Demand(v.Number)
		cost := v.DeltaRemoval + loc.Cost +
			posOverload(r1.Overload+vDemand) - posOverload(r1.Overload) +
			posOverload(r2.Overload-vDemand) - posOverload(r2.Overload)
		if cost < best.cost {
			best = bestSwapStar{cost: cost, v: v, posV: loc.After}
		}
	}

	if best.cost > -solver.Epsilon {
		return false
	}

	ls.moveCount++

	if best.u != nil && best.posU != nil {
		insertNodeAfter(best.u, best.posU)
	}
	if best.v != nil && best.posV != nil {
		insertNodeAfter(best.v, best.posV)
	}

	ls.updateRoute(r1)
	ls.updateRoute(r2)

	return true
}
