package localsearch

import "math"

// InsertLocation is one candidate insertion: placing a customer directly
// after After, at the given distance delta.
type InsertLocation struct {
	Cost  float64
	After *Node
}

// reset invalidates the location.
func (l *InsertLocation) reset() {
	l.Cost = math.Inf(1)
	l.After = nil
}

// ThreeBestInserts keeps the three cheapest insertion positions of one
// customer into one route, ascending on cost, plus the move counter value
// the cache was computed at. SWAP* consults it instead of rescanning the
// route for every candidate pair.
type ThreeBestInserts struct {
	Locations      [3]InsertLocation
	LastCalculated int64
}

// Reset invalidates all three slots.
func (t *ThreeBestInserts) Reset() {
	for i := range t.Locations {
		t.Locations[i].reset()
	}
}

// Add inserts loc into the sorted top three, dropping the most expensive.
func (t *ThreeBestInserts) Add(loc InsertLocation) {
	switch {
	case loc.Cost > t.Locations[2].Cost:
		// Worse than all three: drop.
	case loc.Cost > t.Locations[1].Cost:
		t.Locations[2] = loc
	case loc.Cost > t.Locations[0].Cost:
		t.Locations[2] = t.Locations[1]
		t.Locations[1] = loc
	default:
		t.Locations[2] = t.Locations[1]
		t.Locations[1] = t.Locations[0]
		t.Locations[0] = loc
	}
}

// preprocessInsertions prepares SWAP* for moving customers of r1 into r2:
// it refreshes every u's removal gain within r1 and, when r2 changed
// since the cache was filled, recomputes u's three best insertion
// positions in r2 (the slot right after r2's start depot included).
//
// Complexity: O(|r1|·|r2|) when the cache is stale, O(|r1|) otherwise.
func (ls *LocalSearch) preprocessInsertions(r1, r2 *Route) {
	problem := ls.ctx.Problem

	for u := r1.StartDepot.Successor; !u.IsDepot(); u = u.Successor {
		uPrev := u.Predecessor
		x := u.Successor
		u.DeltaRemoval = problem.Distance(uPrev.Number, x.Number) -
			problem.Distance(uPrev.Number, u.Number) -
			problem.Distance(u.Number, x.Number)

		cache := &ls.bestInserts[r2.Index][u.Number]
		if r2.LastModified <= cache.LastCalculated {
			continue
		}
		cache.Reset()
		cache.LastCalculated = ls.moveCount

		first := r2.StartDepot.Successor
		cache.Add(InsertLocation{
			Cost: problem.Distance(0, u.Number) +
				problem.Distance(u.Number, first.Number) -
				problem.Distance(0, first.Number),
			After: r2.StartDepot,
		})
		for v := first; !v.IsDepot(); v = v.Successor {
			y := v.Successor
			cache.Add(InsertLocation{
				Cost: problem.Distance(v.Number, u.Number) +
					problem.Distance(u.Number, y.Number) -
					problem.Distance(v.Number, y.Number),
				After: v,
			})
		}
	}
}

// cheapestInsertAndRemoval returns the best position for u inside v's
// route assuming v leaves it: cached slots adjacent to v are rejected,
// and taking over v's own position is always considered.
func (ls *LocalSearch) cheapestInsertAndRemoval(u, v *Node) (*Node, float64) {
	problem := ls.ctx.Problem
	r2 := v.Route
	cache := &ls.bestInserts[r2.Index][u.Number]

	bestNode := cache.Locations[0].After
	bestCost := cache.Locations[0].Cost
	found := bestNode != nil && bestNode.Number != v.Number &&
		bestNode.Successor.Number != v.Number

	if !found && cache.Locations[1].After != nil {
		bestNode = cache.Locations[1].After
		bestCost = cache.Locations[1].Cost
		found = bestNode.Number != v.Number && bestNode.Successor.Number != v.Number
		if !found && cache.Locations[2].After != nil {
			bestNode = cache.Locations[2].After
			bestCost = cache.Locations[2].Cost
			found = true
		}
	}

	vPrev := v.Predecessor
	y := v.Successor
	deltaCost := problem.Distance(vPrev.Number, u.Number) +
		problem.Distance(u.Number, y.Number) -
		problem.Distance(vPrev.Number, y.Number)

	if !found || deltaCost < bestCost {
		bestNode = vPrev
		bestCost = deltaCost
	}

	return bestNode, bestCost
}
