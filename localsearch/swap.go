package localsearch

import "github.com/martsime/hybridcvrp/solver"

// SwapOneWithOne exchanges the positions of u and v.
type SwapOneWithOne struct{}

// Name implements Move.
func (SwapOneWithOne) Name() string { return "SwapOneWithOne" }

// Delta implements Move.
func (SwapOneWithOne) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	uPrev := u.Predecessor
	x := u.Successor
	vPrev := v.Predecessor
	y := v.Successor

	r1 := u.Route
	r2 := v.Route

	// Adjacent nodes: the rewiring below would double-count arcs.
	if u.Number == y.Number || u.Number == vPrev.Number {
		return 0
	}

	distanceOne := r1.Distance -
		problem.Distance(uPrev.Number, u.Number) -
		problem.Distance(u.Number, x.Number) +
		problem.Distance(uPrev.Number, v.Number) +
		problem.Distance(v.Number, x.Number)

	distanceTwo := r2.Distance -
		problem.Distance(vPrev.Number, v.Number) -
		problem.Distance(v.Number, y.Number) +
		problem.Distance(vPrev.Number, u.Number) +
		problem.Distance(u.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		uDemand := problem.Demand(u.Number)
		vDemand := problem.Demand(v.Number)
		overloadOne += vDemand - uDemand
		overloadTwo += uDemand - vDemand
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solver.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solver.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

// Perform implements Move.
func (SwapOneWithOne) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	vPrev := v.Predecessor
	y := v.Successor

	linkNodes(uPrev, v)
	linkNodes(v, x)
	linkNodes(vPrev, u)
	linkNodes(u, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

// SwapTwoWithOne exchanges the pair (u, x=succ(u)) with v.
type SwapTwoWithOne struct{}

// Name implements Move.
func (SwapTwoWithOne) Name() string { return "SwapTwoWithOne" }

// Delta implements Move.
func (SwapTwoWithOne) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	uPrev := u.Predecessor
	x := u.Successor
	if x.IsDepot() {
		return 0
	}
	xNext := x.Successor
	vPrev := v.Predecessor
	y := v.Successor

	r1 := u.Route
	r2 := v.Route

	if u.Number == vPrev.Number || x.Number == vPrev.Number || u.Number == y.Number {
		return 0
	}

	distanceOne := r1.Distance -
		problem.Distance(uPrev.Number, u.Number) -
		problem.Distance(u.Number, x.Number) -
		problem.Distance(x.Number, xNext.Number) +
		problem.Distance(uPrev.Number, v.Number) +
		problem.Distance(v.Number, xNext.Number)

	distanceTwo := r2.Distance -
		problem.Distance(vPrev.Number, v.Number) -
		problem.Distance(v.Number, y.Number) +
		problem.Distance(vPrev.Number, u.Number) +
		problem.Distance(u.Number, x.Number) +
		problem.Distance(x.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		uDemand := problem.Demand(u.Number)
		vDemand := problem.Demand(v.Number)
		xDemand := problem.Demand(x.Number)
		overloadOne += vDemand - uDemand - xDemand
		overloadTwo += uDemand + xDemand - vDemand
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solver.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solver.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

// Perform implements Move.
func (SwapTwoWithOne) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	xNext := x.Successor
	vPrev := v.Predecessor
	y := v.Successor

	linkNodes(uPrev, v)
	linkNodes(v, xNext)
	linkNodes(vPrev, u)
	linkNodes(x, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

// SwapTwoWithTwo exchanges the pair (u, x=succ(u)) with (v, y=succ(v)).
type SwapTwoWithTwo struct{}

// Name implements Move.
func (SwapTwoWithTwo) Name() string { return "SwapTwoWithTwo" }

// Delta implements Move.
func (SwapTwoWithTwo) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	uPrev := u.Predecessor
	x := u.Successor
	if x.IsDepot() {
		return 0
	}
	xNext := x.Successor
	vPrev := v.Predecessor
	y := v.Successor
	if y.IsDepot() {
		return 0
	}
	yNext := y.Successor

	r1 := u.Route
	r2 := v.Route

	if u.Number == y.Number || v.Number == x.Number ||
		y.Number == uPrev.Number || v.Number == xNext.Number {
		return 0
	}

	distanceOne := r1.Distance -
		problem.Distance(uPrev.Number, u.Number) -
		problem.Distance(u.Number, x.Number) -
		problem.Distance(x.Number, xNext.Number) +
		problem.Distance(uPrev.Number, v.Number) +
		problem.Distance(v.Number, y.Number) +
		problem.Distance(y.Number, xNext.Number)

	distanceTwo := r2.Distance -
		problem.Distance(vPrev.Number, v.Number) -
		problem.Distance(v.Number, y.Number) -
		problem.Distance(y.Number, yNext.Number) +
		problem.Distance(vPrev.Number, u.Number) +
		problem.Distance(u.Number, x.Number) +
		problem.Distance(x.Number, yNext.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		uPair := problem.Demand(u.Number) + problem.Demand(x.Number)
		vPair := problem.Demand(v.Number) + problem.Demand(y.Number)
		overloadOne += vPair - uPair
		overloadTwo += uPair - vPair
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solver.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solver.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

// Perform implements Move.
func (SwapTwoWithTwo) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	xNext := x.Successor
	vPrev := v.Predecessor
	y := v.Successor
	yNext := y.Successor

	linkNodes(uPrev, v)
	linkNodes(y, xNext)
	linkNodes(vPrev, u)
	linkNodes(x, yNext)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}
