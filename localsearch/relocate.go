package localsearch

import "github.com/martsime/hybridcvrp/solver"

// RelocateSingle moves u directly after v.
type RelocateSingle struct{}

// Name implements Move.
func (RelocateSingle) Name() string { return "RelocateSingle" }

// Delta implements Move. With x = succ(u) and y = succ(v), the move
// rewires (uPrev,u,x) → (uPrev,x) and (v,y) → (v,u,y).
func (RelocateSingle) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	uPrev := u.Predecessor
	x := u.Successor
	y := v.Successor

	r1 := u.Route
	r2 := v.Route

	// u already follows v.
	if y.Number == u.Number {
		return 0
	}

	distanceOne := r1.Distance -
		problem.Distance(uPrev.Number, u.Number) -
		problem.Distance(u.Number, x.Number) +
		problem.Distance(uPrev.Number, x.Number)

	distanceTwo := r2.Distance -
		problem.Distance(v.Number, y.Number) +
		problem.Distance(v.Number, u.Number) +
		problem.Distance(u.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		uDemand := problem.Demand(u.Number)
		overloadOne -= uDemand
		overloadTwo += uDemand
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solver.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solver.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

// Perform implements Move.
func (RelocateSingle) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	y := v.Successor

	linkNodes(uPrev, x)
	linkNodes(v, u)
	linkNodes(u, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

// RelocateDouble moves the pair (u, x=succ(u)) directly after v.
type RelocateDouble struct{}

// Name implements Move.
func (RelocateDouble) Name() string { return "RelocateDouble" }

// Delta implements Move.
func (RelocateDouble) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	uPrev := u.Predecessor
	x := u.Successor
	if x.IsDepot() {
		return 0
	}
	xNext := x.Successor
	y := v.Successor

	r1 := u.Route
	r2 := v.Route

	// Overlapping segments: nothing to do.
	if u.Number == y.Number || v.Number == x.Number {
		return 0
	}

	distanceOne := r1.Distance -
		problem.Distance(uPrev.Number, u.Number) -
		problem.Distance(u.Number, x.Number) -
		problem.Distance(x.Number, xNext.Number) +
		problem.Distance(uPrev.Number, xNext.Number)

	distanceTwo := r2.Distance -
		problem.Distance(v.Number, y.Number) +
		problem.Distance(v.Number, u.Number) +
		problem.Distance(u.Number, x.Number) +
		problem.Distance(x.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		moved := problem.Demand(u.Number) + problem.Demand(x.Number)
		overloadOne -= moved
		overloadTwo += moved
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solver.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solver.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

// Perform implements Move.
func (RelocateDouble) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	xNext := x.Successor
	y := v.Successor

	linkNodes(uPrev, xNext)
	linkNodes(v, u)
	linkNodes(x, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

// RelocateDoubleReverse moves the pair (u, x=succ(u)) after v in reversed
// order, i.e. (v, x, u, y).
type RelocateDoubleReverse struct{}

// Name implements Move.
func (RelocateDoubleReverse) Name() string { return "RelocateDoubleReverse" }

// Delta implements Move.
func (RelocateDoubleReverse) Delta(ls *LocalSearch, u, v *Node) float64 {
	problem := ls.ctx.Problem

	uPrev := u.Predecessor
	x := u.Successor
	if x.IsDepot() {
		return 0
	}
	xNext := x.Successor
	y := v.Successor

	r1 := u.Route
	r2 := v.Route

	if u.Number == y.Number || v.Number == x.Number {
		return 0
	}

	distanceOne := r1.Distance -
		problem.Distance(uPrev.Number, u.Number) -
		problem.Distance(u.Number, x.Number) -
		problem.Distance(x.Number, xNext.Number) +
		problem.Distance(uPrev.Number, xNext.Number)

	distanceTwo := r2.Distance -
		problem.Distance(v.Number, y.Number) +
		problem.Distance(v.Number, x.Number) +
		problem.Distance(x.Number, u.Number) +
		problem.Distance(u.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		moved := problem.Demand(u.Number) + problem.Demand(x.Number)
		overloadOne -= moved
		overloadTwo += moved
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solver.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solver.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

// Perform implements Move.
func (RelocateDoubleReverse) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	xNext := x.Successor
	y := v.Successor

	linkNodes(uPrev, xNext)
	linkNodes(v, x)
	linkNodes(x, u)
	linkNodes(u, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}
