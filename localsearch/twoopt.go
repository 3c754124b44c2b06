package localsearch

import "github.com/martsime/hybridcvrp/solver"

// TwoOptIntraReverse is the classic 2-opt inside one route: remove arcs
// (u,x) and (v,y) with u before v, reverse the segment x..v.
type TwoOptIntraReverse struct{}

// Name implements Move.
func (TwoOptIntraReverse) Name() string { return "TwoOptIntraReverse" }

// Delta implements Move. Load is untouched, so the delta is pure distance.
func (TwoOptIntraReverse) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	r1 := u.Route
	r2 := v.Route
	if r1.Index != r2.Index {
		return 0
	}

	x := u.Successor
	y := v.Successor

	if u.Position > v.Position || x.Number == v.Number {
		return 0
	}

	return -problem.Distance(u.Number, x.Number) -
		problem.Distance(v.Number, y.Number) +
		problem.Distance(u.Number, v.Number) +
		problem.Distance(x.Number, y.Number)
}

// Perform implements Move.
func (TwoOptIntraReverse) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	x := u.Successor
	y := v.Successor

	backwardReverse(v, x, nil)
	linkNodes(u, v)
	linkNodes(x, y)

	ls.updateRoute(r1)
}

// TwoOptInterReverse is 2-opt between two routes with reversal: the head
// of r1 up to u joins the reversed head of r2 up to v, and the reversed
// tail of r1 joins the tail of r2.
type TwoOptInterReverse struct{}

// Name implements Move.
func (TwoOptInterReverse) Name() string { return "TwoOptInterReverse" }

// Delta implements Move. Cumulative distances and loads give both new
// route aggregates in O(1).
func (TwoOptInterReverse) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	r1 := u.Route
	r2 := v.Route
	if r1.Index == r2.Index {
		return 0
	}

	x := u.Successor
	y := v.Successor
	cap := problem.Capacity()

	distanceOne := u.CumDistance + v.CumDistance + problem.Distance(u.Number, v.Number)
	distanceTwo := r1.Distance - x.CumDistance + r2.Distance - y.CumDistance +
		problem.Distance(x.Number, y.Number)
	overloadOne := u.CumLoad + v.CumLoad - cap
	overloadTwo := r1.Load - u.CumLoad + r2.Load - v.CumLoad - cap

	oldCost := r1.Cost + r2.Cost
	newCost := solver.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solver.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

// Perform implements Move.
func (TwoOptInterReverse) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route
	x := u.Successor
	y := v.Successor

	if !v.IsDepot() {
		backwardReverse(v, nil, r1.EndDepot)
	} else {
		v = r1.EndDepot
	}
	linkNodes(u, v)
	if !x.IsDepot() {
		forwardReverse(x, nil, r2.StartDepot)
	} else {
		x = r2.StartDepot
	}
	linkNodes(x, y)

	ls.updateRoute(r1)
	ls.updateRoute(r2)
}

// TwoOptInter is 2-opt between two routes without reversal: the tails
// after u and v swap routes.
type TwoOptInter struct{}

// Name implements Move.
func (TwoOptInter) Name() string { return "TwoOptInter" }

// Delta implements Move.
func (TwoOptInter) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	r1 := u.Route
	r2 := v.Route
	if r1.Index == r2.Index {
		return 0
	}

	x := u.Successor
	y := v.Successor
	cap := problem.Capacity()

	distanceOne := u.CumDistance + r2.Distance - y.CumDistance +
		problem.Distance(u.Number, y.Number)
	distanceTwo := v.CumDistance + r1.Distance - x.CumDistance +
		problem.Distance(v.Number, x.Number)
	overloadOne := u.CumLoad + r2.Load - v.CumLoad - cap
	overloadTwo := v.CumLoad + r1.Load - u.CumLoad - cap

	oldCost := r1.Cost + r2.Cost
	newCost := solver.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solver.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

// Perform implements Move.
func (TwoOptInter) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route
	x := u.Successor
	y := v.Successor

	linkNodes(u, y)
	linkNodes(v, x)
	replaceEndDepot(v, r2.EndDepot)
	replaceEndDepot(u, r1.EndDepot)

	ls.updateRoute(r1)
	ls.updateRoute(r2)
}
