package genetic

import "github.com/martsime/hybridcvrp/solver"

// splitInf is the unreachable-state marker of the DP tables.
const splitInf = 1e30

// splitNode caches, per giant-tour position, everything the DP weight
// function reads: the customer demand, its depot distance, and the
// distance to the next customer of the tour.
type splitNode struct {
	demand        int64
	distanceDepot float64
	distanceNext  float64
}

// intDeque is the monotone double-ended queue of the linear Split. It is
// a plain ring-free slice deque; sizes are tiny and reused per call.
type intDeque struct {
	items []int
}

func (q *intDeque) reset()         { q.items = q.items[:0] }
func (q *intDeque) len() int       { return len(q.items) }
func (q *intDeque) empty() bool    { return len(q.items) == 0 }
func (q *intDeque) front() int     { return q.items[0] }
func (q *intDeque) back() int      { return q.items[len(q.items)-1] }
func (q *intDeque) nextFront() int { return q.items[1] }
func (q *intDeque) pushBack(v int) { q.items = append(q.items, v) }
func (q *intDeque) popBack()       { q.items = q.items[:len(q.items)-1] }
func (q *intDeque) popFront()      { q.items = q.items[1:] }

// Split decodes a giant tour into the route partition of minimum
// penalized cost under the current capacity penalty. The auxiliary DAG
// over tour positions is solved either by the linear-time monotone-deque
// procedure or by a bounded Bellman sweep, per Config.LinearSplit. When
// the unlimited-fleet shortest path uses more routes than allowed, a
// second pass with one DP row per vehicle enforces the fleet bound.
//
// All DP scratch is allocated once and reused across calls.
type Split struct {
	// pathCost[k][i] is the cheapest cost of serving the first i tour
	// positions with k routes (row 0 is the unlimited-fleet pass).
	pathCost     [][]float64
	predecessors [][]int

	nodes       []splitNode
	cumDistance []float64
	cumLoad     []int64

	queue intDeque

	vehicleCap int64
	penalty    float64
}

// NewSplit sizes the DP tables for the problem's vehicle bound.
func NewSplit(ctx *solver.Context) *Split {
	dim := ctx.Problem.Dim()
	rows := ctx.Problem.VehicleBound() + 1

	s := &Split{
		pathCost:     make([][]float64, rows),
		predecessors: make([][]int, rows),
		nodes:        make([]splitNode, dim),
		cumDistance:  make([]float64, dim),
		cumLoad:      make([]int64, dim),
		vehicleCap:   ctx.Problem.Capacity(),
		penalty:      ctx.Config.PenaltyCapacity,
	}
	for r := 0; r < rows; r++ {
		s.pathCost[r] = make([]float64, dim)
		s.predecessors[r] = make([]int, dim)
	}

	return s
}

// load refreshes the per-position caches from the individual's genotype.
func (s *Split) load(ctx *solver.Context, ind *solver.Individual) {
	s.penalty = ctx.Config.PenaltyCapacity
	dim := ctx.Problem.Dim()

	for i := 1; i < dim; i++ {
		gene := ind.Genotype[i-1]
		node := &s.nodes[i]
		node.demand = ctx.Problem.Demand(gene)
		node.distanceDepot = ctx.Problem.Distance(gene, 0)
		if i < dim-1 {
			node.distanceNext = ctx.Problem.Distance(gene, ind.Genotype[i])
		} else {
			node.distanceNext = -splitInf
		}
		s.cumDistance[i] = s.cumDistance[i-1] + s.nodes[i-1].distanceNext
		s.cumLoad[i] = s.cumLoad[i-1] + node.demand
	}
}

// reset marks every DP state unreachable. The limited-fleet pass resets
// all rows; the unlimited pass only needs row 0. Column 0 stays 0: a
// prefix of zero customers costs nothing for any fleet size.
func (s *Split) reset(limitedFleet bool) {
	rows := 1
	if limitedFleet {
		rows = len(s.pathCost)
	}
	for r := 0; r < rows; r++ {
		s.pathCost[r][0] = 0
		for c := 1; c < len(s.pathCost[r]); c++ {
			s.pathCost[r][c] = splitInf
		}
	}
}

// propagate prices extending the k-route prefix ending at position i
// with one more route covering positions i+1..j.
func (s *Split) propagate(i, j, k int) float64 {
	cost := s.pathCost[k][i] + s.cumDistance[j] - s.cumDistance[i+1] +
		s.nodes[i+1].distanceDepot + s.nodes[j].distanceDepot
	if overload := s.cumLoad[j] - s.cumLoad[i] - s.vehicleCap; overload > 0 {
		cost += s.penalty * float64(overload)
	}

	return cost
}

// dominates reports that predecessor i renders j useless for every
// future position (capacity-extended dominance of the monotone deque).
func (s *Split) dominates(i, j, k int) bool {
	return s.pathCost[k][j]+s.nodes[j+1].distanceDepot >
		s.pathCost[k][i]+s.nodes[i+1].distanceDepot+
			s.cumDistance[j+1]-s.cumDistance[i+1]+
			s.penalty*float64(s.cumLoad[j]-s.cumLoad[i])
}

// dominatesRight reports that the newer predecessor j beats i from the
// back of the deque onward.
func (s *Split) dominatesRight(i, j, k int) bool {
	return s.pathCost[k][j]+s.nodes[j+1].distanceDepot <
		s.pathCost[k][i]+s.nodes[i+1].distanceDepot+
			s.cumDistance[j+1]-s.cumDistance[i+1]+solver.Epsilon
}

// Run splits the individual's giant tour, preferring the unlimited-fleet
// pass and falling back to the fleet-bounded DP when it produces more
// than maxVehicles routes. Afterwards the individual's routes are in
// canonical polar order and its evaluation is fresh.
func (s *Split) Run(ctx *solver.Context, ind *solver.Individual, maxVehicles int) {
	if lb := ctx.Problem.VehicleLowerBound(); maxVehicles < lb {
		maxVehicles = lb
	}
	if bound := ctx.Problem.VehicleBound(); maxVehicles > bound {
		maxVehicles = bound
	}
	s.load(ctx, ind)

	if !s.split(ctx, ind, maxVehicles) {
		s.splitLimitedFleet(ctx, ind, maxVehicles)
	}
	ind.SortRoutes(ctx)
	ind.Evaluate(ctx)
}

// split is the unlimited-fleet pass. It reports whether the resulting
// number of routes respects maxVehicles.
func (s *Split) split(ctx *solver.Context, ind *solver.Individual, maxVehicles int) bool {
	s.reset(false)
	dim := ctx.Problem.Dim()

	if ctx.Config.LinearSplit {
		s.queue.reset()
		s.queue.pushBack(0)

		for i := 1; i < dim; i++ {
			front := s.queue.front()
			s.pathCost[0][i] = s.propagate(front, i, 0)
			s.predecessors[0][i] = front

			if i < dim-1 {
				if !s.dominates(s.queue.back(), i, 0) {
					for s.queue.len() > 0 && s.dominatesRight(s.queue.back(), i, 0) {
						s.queue.popBack()
					}
					s.queue.pushBack(i)
				}
				for s.queue.len() > 1 &&
					s.propagate(s.queue.front(), i+1, 0) >
						s.propagate(s.queue.nextFront(), i+1, 0)-solver.Epsilon {
					s.queue.popFront()
				}
			}
		}
	} else {
		s.bellman(ctx, ind, 0, 0, 0)
	}

	// Walk the predecessors back into routes.
	ind.Phenotype = ind.Phenotype[:0]
	end := dim - 1
	for end > 0 {
		begin := s.predecessors[0][end]
		route := make([]int, 0, end-begin)
		for index := begin; index < end; index++ {
			route = append(route, ind.Genotype[index])
		}
		ind.Phenotype = append(ind.Phenotype, route)
		end = begin
	}

	numVehicles := len(ind.Phenotype)
	s.padRoutes(ctx, ind)

	return numVehicles <= maxVehicles
}

// splitLimitedFleet is the fleet-bounded pass: one DP row per vehicle.
// It reports whether a full path back to position 0 exists.
func (s *Split) splitLimitedFleet(ctx *solver.Context, ind *solver.Individual, maxVehicles int) bool {
	s.reset(true)
	dim := ctx.Problem.Dim()

	if ctx.Config.LinearSplit {
		for k := 0; k < maxVehicles; k++ {
			s.queue.reset()
			s.queue.pushBack(k)

			for i := k + 1; i < dim; i++ {
				if s.queue.empty() {
					break
				}
				front := s.queue.front()
				s.pathCost[k+1][i] = s.propagate(front, i, k)
				s.predecessors[k+1][i] = front

				if i < dim-1 {
					if !s.dominates(s.queue.back(), i, k) {
						for s.queue.len() > 0 && s.dominatesRight(s.queue.back(), i, k) {
							s.queue.popBack()
						}
						s.queue.pushBack(i)
					}
					for s.queue.len() > 1 &&
						s.propagate(s.queue.front(), i+1, k) >
							s.propagate(s.queue.nextFront(), i+1, k)-solver.Epsilon {
						s.queue.popFront()
					}
				}
			}
		}
	} else {
		for k := 0; k < maxVehicles; k++ {
			s.bellman(ctx, ind, k, k+1, k)
		}
	}

	// Cheapest path using at most maxVehicles routes.
	last := dim - 1
	minCost := s.pathCost[maxVehicles][last]
	numRoutes := maxVehicles
	for k := 1; k < maxVehicles; k++ {
		if s.pathCost[k][last] < minCost {
			minCost = s.pathCost[k][last]
			numRoutes = k
		}
	}

	ind.Phenotype = ind.Phenotype[:0]
	end := last
	for k := numRoutes; k > 0; k-- {
		begin := s.predecessors[k][end]
		route := make([]int, 0, end-begin)
		for index := begin; index < end; index++ {
			route = append(route, ind.Genotype[index])
		}
		ind.Phenotype = append(ind.Phenotype, route)
		end = begin
	}
	s.padRoutes(ctx, ind)

	return end == 0
}

// bellman is the O(n·B) sweep over route start positions, bounded by the
// capacity slack factor. The unlimited pass reads and writes row 0; the
// limited pass reads row k and writes row k+1.
func (s *Split) bellman(ctx *solver.Context, ind *solver.Individual, srcRow, dstRow, startIndex int) {
	dim := ctx.Problem.Dim()
	slack := float64(ctx.Problem.Capacity()) * ctx.Config.SplitCapacityFactor
	limited := dstRow != srcRow

	for from := startIndex; from < dim-1; from++ {
		if limited && s.pathCost[srcRow][from] > splitInf/10 {
			break
		}
		var load int64
		var cost float64
		for to := from + 1; to < dim; to++ {
			gene := ind.Genotype[to-1]
			if float64(load)+float64(ctx.Problem.Demand(gene)) > slack {
				break
			}
			load += ctx.Problem.Demand(gene)
			if to == from+1 {
				cost = ctx.Problem.Distance(0, gene)
			} else {
				cost += ctx.Problem.Distance(ind.Genotype[to-2], gene)
			}
			newPathCost := s.pathCost[srcRow][from] + cost + ctx.Problem.Distance(gene, 0)
			if overload := load - s.vehicleCap; overload > 0 {
				newPathCost += float64(overload) * s.penalty
			}
			if newPathCost < s.pathCost[dstRow][to] {
				s.pathCost[dstRow][to] = newPathCost
				s.predecessors[dstRow][to] = from
			}
		}
	}
}

// padRoutes extends the phenotype with empty routes up to the fleet
// bound, so every individual carries the same number of route slots.
func (s *Split) padRoutes(ctx *solver.Context, ind *solver.Individual) {
	for len(ind.Phenotype) < ctx.Problem.VehicleBound() {
		ind.Phenotype = append(ind.Phenotype, nil)
	}
}
