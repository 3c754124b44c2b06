package localsearch

import (
	"fmt"

	"github.com/martsime/hybridcvrp/solver"
)

// LocalSearch owns the linked route view and all scratch state of the
// education phase. It is allocated once per engine and reused across
// individuals: Run reloads the linked lists, searches to a local optimum
// and writes the result back into the individual.
type LocalSearch struct {
	ctx *solver.Context

	nodes       []Node
	startDepots []Node
	endDepots   []Node
	routes      []Route

	// customers is the shuffled visiting order of phase A.
	customers []int

	// bestInserts caches, per (route, customer), the three cheapest
	// insertion positions used by SWAP*.
	bestInserts [][]ThreeBestInserts

	neighborMoves   []Move
	depotMoves      []Move
	emptyRouteMoves []Move
	swapStarEnabled bool

	moveCount int64

	// penaltyCapacity is the capacity penalty of this search, possibly a
	// multiple of the engine penalty (repair runs use a 10× multiplier).
	penaltyCapacity float64
}

// New allocates the search scratch for the given context. The node and
// route slices are sized once from the problem's vehicle bound; pointers
// into them stay valid for the engine's lifetime.
func New(ctx *solver.Context) *LocalSearch {
	dim := ctx.Problem.Dim()
	numVehicles := ctx.Problem.VehicleBound()

	ls := &LocalSearch{
		ctx:             ctx,
		nodes:           make([]Node, dim),
		startDepots:     make([]Node, numVehicles),
		endDepots:       make([]Node, numVehicles),
		routes:          make([]Route, numVehicles),
		customers:       make([]int, dim-1),
		bestInserts:     make([][]ThreeBestInserts, numVehicles),
		penaltyCapacity: ctx.Config.PenaltyCapacity,
	}

	for i := range ls.nodes {
		ls.nodes[i] = Node{Number: i, Angle: ctx.Problem.Angle(i)}
	}
	for i := 0; i < dim-1; i++ {
		ls.customers[i] = i + 1
	}
	for r := 0; r < numVehicles; r++ {
		ls.routes[r] = Route{
			Index:      r,
			StartDepot: &ls.startDepots[r],
			EndDepot:   &ls.endDepots[r],
		}
		ls.bestInserts[r] = make([]ThreeBestInserts, dim)
	}

	ls.buildMoves()

	return ls
}

// buildMoves assembles the three move bundles from the config toggles.
func (ls *LocalSearch) buildMoves() {
	cfg := ls.ctx.Config

	add := func(dst *[]Move, enabled bool, m Move) {
		if enabled {
			*dst = append(*dst, m)
		}
	}

	add(&ls.neighborMoves, cfg.RelocateSingle, RelocateSingle{})
	add(&ls.neighborMoves, cfg.RelocateDouble, RelocateDouble{})
	add(&ls.neighborMoves, cfg.RelocateDoubleReverse, RelocateDoubleReverse{})
	add(&ls.neighborMoves, cfg.SwapOneWithOne, SwapOneWithOne{})
	add(&ls.neighborMoves, cfg.SwapTwoWithOne, SwapTwoWithOne{})
	add(&ls.neighborMoves, cfg.SwapTwoWithTwo, SwapTwoWithTwo{})
	add(&ls.neighborMoves, cfg.TwoOptIntraReverse, TwoOptIntraReverse{})
	add(&ls.neighborMoves, cfg.TwoOptInterReverse, TwoOptInterReverse{})
	add(&ls.neighborMoves, cfg.TwoOptInter, TwoOptInter{})

	add(&ls.depotMoves, cfg.RelocateSingle, RelocateSingle{})
	add(&ls.depotMoves, cfg.RelocateDouble, RelocateDouble{})
	add(&ls.depotMoves, cfg.RelocateDoubleReverse, RelocateDoubleReverse{})
	add(&ls.depotMoves, cfg.TwoOptInterReverse, TwoOptInterReverse{})
	add(&ls.depotMoves, cfg.TwoOptInter, TwoOptInter{})

	add(&ls.emptyRouteMoves, cfg.RelocateSingle, RelocateSingle{})
	add(&ls.emptyRouteMoves, cfg.RelocateDouble, RelocateDouble{})
	add(&ls.emptyRouteMoves, cfg.RelocateDoubleReverse, RelocateDoubleReverse{})
	add(&ls.emptyRouteMoves, cfg.TwoOptInter, TwoOptInter{})

	ls.swapStarEnabled = cfg.SwapStar
}

// Penalty returns the capacity penalty the search prices overloads with.
func (ls *LocalSearch) Penalty() float64 { return ls.penaltyCapacity }

// Run educates the individual: load its routes into the linked view,
// descend to a local optimum of the move neighbourhood under the given
// penalty multiplier, then write routes, genotype and evaluation back.
func (ls *LocalSearch) Run(ctx *solver.Context, ind *solver.Individual, penaltyMultiplier float64) {
	ls.ctx = ctx
	ls.reset()
	ls.penaltyCapacity = ctx.Config.PenaltyCapacity * penaltyMultiplier
	ls.loadIndividual(ind)
	ls.search()
	ls.updateIndividual(ind)
}

// reset rewinds the move counter and the per-node test stamps.
func (ls *LocalSearch) reset() {
	ls.moveCount = 0
	for i := range ls.nodes {
		ls.nodes[i].LastTested = -1
	}
}

// loadIndividual links the phenotype's routes into the node view and
// refreshes every route aggregate and insertion cache stamp.
func (ls *LocalSearch) loadIndividual(ind *solver.Individual) {
	if len(ind.Phenotype) != len(ls.routes) {
		panic(fmt.Sprintf("localsearch: individual has %d routes, scratch has %d",
			len(ind.Phenotype), len(ls.routes)))
	}
	for routeIndex, route := range ind.Phenotype {
		last := &ls.startDepots[routeIndex]
		last.Successor = nil
		last.Predecessor = nil
		for _, number := range route {
			node := &ls.nodes[number]
			linkNodes(last, node)
			last = node
		}
		end := &ls.endDepots[routeIndex]
		end.Successor = nil
		linkNodes(last, end)

		r := &ls.routes[routeIndex]
		r.LastTestedSwapStar = -1
		for number := range ls.bestInserts[routeIndex] {
			cache := &ls.bestInserts[routeIndex][number]
			cache.Reset()
			cache.LastCalculated = -1
		}
		ls.updateRoute(r)
	}
}

// search alternates the granular RI sweep and the SWAP* pass until a full
// round yields no improving move.
func (ls *LocalSearch) search() {
	loopCount := 0
	improvement := true

	for improvement {
		improvement = false

		// Phase A: customers in fresh random order each round.
		ls.ctx.Rand.Shuffle(ls.customers)

	customers:
		for _, uIndex := range ls.customers {
			cor := ls.ctx.Problem.Neighbors(uIndex)
			// Occasionally reshuffle the neighbour order in place, so ties
			// are not always broken the same way across rounds.
			if len(cor) > 0 && ls.ctx.Rand.Intn(len(cor)) == 0 {
				ls.ctx.Rand.Shuffle(cor)
			}

			u := &ls.nodes[uIndex]
			lastTestU := u.LastTested
			u.LastTested = ls.moveCount

		neighbors:
			for _, vIndex := range cor {
				v := &ls.nodes[vIndex]
				routeU := u.Route
				routeV := v.Route

				// Skip the pair when neither route changed since u was
				// last used as pivot.
				if loopCount != 0 &&
					routeU.LastModified <= lastTestU && routeV.LastModified <= lastTestU {
					continue
				}

				for _, m := range ls.neighborMoves {
					if delta := m.Delta(ls, u, v); delta+solver.Epsilon < 0 {
						ls.moveCount++
						m.Perform(ls, u, v)
						improvement = true
						continue neighbors
					}
				}
				// When v opens its route, also try u against the depot
				// position right before v.
				if vPred := v.Predecessor; vPred.IsDepot() {
					for _, m := range ls.depotMoves {
						if delta := m.Delta(ls, u, vPred); delta+solver.Epsilon < 0 {
							ls.moveCount++
							m.Perform(ls, u, vPred)
							improvement = true
							continue neighbors
						}
					}
				}
			}

			// From the second round on, try opening an empty route with u.
			if loopCount > 0 {
				if emptyIndex := ls.firstEmptyRoute(); emptyIndex >= 0 {
					v := ls.routes[emptyIndex].StartDepot
					for _, m := range ls.emptyRouteMoves {
						if delta := m.Delta(ls, u, v); delta+solver.Epsilon < 0 {
							ls.moveCount++
							m.Perform(ls, u, v)
							improvement = true
							continue customers
						}
					}
				}
			}
		}

		// Phase B: SWAP* on route pairs with overlapping polar sectors.
		if ls.swapStarEnabled {
			for r1 := range ls.routes {
				route1 := &ls.routes[r1]
				lastTested := route1.LastTestedSwapStar
				route1.LastTestedSwapStar = ls.moveCount
				for r2 := r1 + 1; r2 < len(ls.routes); r2++ {
					route2 := &ls.routes[r2]
					if route1.IsEmpty() || route2.IsEmpty() {
						continue
					}
					if loopCount != 0 &&
						route1.LastModified <= lastTested && route2.LastModified <= lastTested {
						continue
					}
					if !route1.Sector.Overlaps(&route2.Sector) {
						continue
					}
					if ls.swapStar(route1, route2) {
						improvement = true
					}
				}
			}
		}

		loopCount++
	}
}

// firstEmptyRoute returns the lowest-index empty route, or -1. A fixed
// pick keeps deterministic runs reproducible.
func (ls *LocalSearch) firstEmptyRoute() int {
	for i := range ls.routes {
		if ls.routes[i].IsEmpty() {
			return i
		}
	}

	return -1
}

// updateRoute walks the route once and refreshes every aggregate: the
// per-node positions and cumulative distance/load, the route distance,
// load, overload, sector and penalized cost, and the modification stamp.
//
// Complexity: O(route length); it runs only after accepted moves.
func (ls *LocalSearch) updateRoute(route *Route) {
	problem := ls.ctx.Problem

	var (
		distance     float64
		load         int64
		numCustomers int
	)

	last := route.StartDepot
	last.Route = route
	last.Position = 0
	last.CumDistance = 0
	last.CumLoad = 0
	route.Sector.Reset()

	position := 1
	for node := last.Successor; node != nil; node = node.Successor {
		distance += problem.Distance(last.Number, node.Number)
		load += problem.Demand(node.Number)

		if !node.IsDepot() {
			route.Sector.Extend(node.Angle)
			numCustomers++
		}
		node.CumDistance = distance
		node.CumLoad = load
		node.Route = route
		node.Position = position
		position++
		last = node
	}

	route.Distance = distance
	route.Load = load
	route.Overload = load - problem.Capacity()
	route.NumCustomers = numCustomers
	route.LastModified = ls.moveCount
	route.StartDepot.Predecessor = nil
	route.EndDepot.Successor = nil
	route.Cost = solver.RouteCost(distance, route.Overload, ls.penaltyCapacity)
}

// updateIndividual writes the linked view back into the individual:
// phenotype routes, concatenated genotype, canonical route order and a
// fresh evaluation. A coverage mismatch here means a move corrupted the
// linked lists, which is a programmer bug: fail fast.
func (ls *LocalSearch) updateIndividual(ind *solver.Individual) {
	ind.Genotype = ind.Genotype[:0]
	total := 0
	for routeIndex := range ls.routes {
		customers := ls.routes[routeIndex].Customers()
		ind.Genotype = append(ind.Genotype, customers...)
		ind.Phenotype[routeIndex] = customers
		total += len(customers)
	}
	if total != ls.ctx.Problem.NumCustomers() {
		panic(fmt.Sprintf("localsearch: route view covers %d customers, want %d",
			total, ls.ctx.Problem.NumCustomers()))
	}

	ind.SortRoutes(ls.ctx)
	ind.Evaluate(ls.ctx)
}
