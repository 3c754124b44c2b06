package solver

import (
	"fmt"
	"math"
	"sort"
)

// Individual is one candidate solution under both of its representations:
// the giant tour (Genotype, a permutation of customers 1..N without depot
// markers) and the route view (Phenotype, one slice of customers per
// vehicle slot; empty routes are kept so every individual carries exactly
// VehicleBound routes). The concatenation of the phenotype in route order
// always equals the genotype.
//
// Fitness is the biased fitness assigned by the population on insertion;
// it is meaningless outside population ranking.
type Individual struct {
	Number     uint64
	Genotype   []int
	Phenotype  [][]int
	Fitness    float64
	Evaluation SolutionEvaluation
}

// NewIndividual wraps a giant tour. The phenotype stays empty until Split.
func NewIndividual(genotype []int, number uint64) *Individual {
	return &Individual{
		Number:     number,
		Genotype:   genotype,
		Phenotype:  nil,
		Fitness:    math.Inf(1),
		Evaluation: NewSolutionEvaluation(),
	}
}

// NewRandomIndividual creates an individual with a uniformly random giant
// tour and the full complement of (empty) route slots.
func NewRandomIndividual(ctx *Context, number uint64) *Individual {
	n := ctx.Problem.NumCustomers()
	genotype := make([]int, n)
	for i := range genotype {
		genotype[i] = i + 1
	}
	ctx.Rand.Shuffle(genotype)

	ind := NewIndividual(genotype, number)
	ind.Phenotype = make([][]int, ctx.Problem.VehicleBound())

	return ind
}

// Evaluate refreshes the cached evaluation from the phenotype.
func (ind *Individual) Evaluate(ctx *Context) {
	ind.Evaluation.Evaluate(ctx, ind.Phenotype)
}

// IsFeasible reports whether the individual violates no capacity.
func (ind *Individual) IsFeasible() bool { return ind.Evaluation.Feasible }

// PenalizedCost returns the cached penalized cost.
func (ind *Individual) PenalizedCost() float64 { return ind.Evaluation.PenalizedCost }

// Successor returns the node visited right after node; 0 is the depot.
func (ind *Individual) Successor(node int) int { return ind.Evaluation.Successors[node] }

// Predecessor returns the node visited right before node; 0 is the depot.
func (ind *Individual) Predecessor(node int) int { return ind.Evaluation.Predecessors[node] }

// NumNonemptyRoutes counts the routes that visit at least one customer.
func (ind *Individual) NumNonemptyRoutes() int {
	count := 0
	for _, route := range ind.Phenotype {
		if len(route) > 0 {
			count++
		}
	}

	return count
}

// BrokenPairsDistance counts the arcs present in one individual but not
// the other. Both individuals must have been evaluated. The count is the
// raw number of broken pairs; divide by the customer count to get the
// normalized metric.
func (ind *Individual) BrokenPairsDistance(other *Individual) int64 {
	var distance int64
	size := len(ind.Genotype) + 1

	for node := 1; node < size; node++ {
		// Arc out of node differs in both directions.
		if ind.Successor(node) != other.Successor(node) &&
			ind.Successor(node) != other.Predecessor(node) {
			distance++
		}
		// node starts a route here but not there.
		if ind.Predecessor(node) == 0 && other.Predecessor(node) != 0 &&
			other.Successor(node) != 0 {
			distance++
		}
	}

	return distance
}

// SortRoutes orders the phenotype by the polar angle of each route's
// centroid around the depot and rewrites the genotype to match. Empty
// routes sort last. Keeping a canonical route order makes the broken
// pairs metric and crossover independent of split bookkeeping order.
func (ind *Individual) SortRoutes(ctx *Context) {
	type routeAngle struct {
		angle float64
		index int
	}

	angles := make([]routeAngle, len(ind.Phenotype))
	depot := ctx.Problem.Node(0).Coord

	for routeIndex, route := range ind.Phenotype {
		if len(route) == 0 {
			// Beyond π, so empty routes land after every real one.
			angles[routeIndex] = routeAngle{angle: 10.0, index: routeIndex}
			continue
		}
		var x, y float64
		for _, node := range route {
			coord := ctx.Problem.Node(node).Coord
			x += coord.X
			y += coord.Y
		}
		x = x/float64(len(route)) - depot.X
		y = y/float64(len(route)) - depot.Y
		angles[routeIndex] = routeAngle{angle: math.Atan2(y, x), index: routeIndex}
	}

	sort.SliceStable(angles, func(i, j int) bool { return angles[i].angle < angles[j].angle })

	sorted := make([][]int, len(ind.Phenotype))
	for i, ra := range angles {
		sorted[i] = ind.Phenotype[ra.index]
	}
	ind.Phenotype = sorted

	index := 0
	for _, route := range ind.Phenotype {
		for _, node := range route {
			ind.Genotype[index] = node
			index++
		}
	}
}

// Clone returns a deep copy, evaluation included.
func (ind *Individual) Clone() *Individual {
	out := &Individual{
		Number:     ind.Number,
		Genotype:   append([]int(nil), ind.Genotype...),
		Phenotype:  make([][]int, len(ind.Phenotype)),
		Fitness:    ind.Fitness,
		Evaluation: ind.Evaluation.Clone(),
	}
	for i, route := range ind.Phenotype {
		out.Phenotype[i] = append([]int(nil), route...)
	}

	return out
}

// Validate checks the coverage invariant: the genotype is a permutation
// of 1..N and the phenotype visits exactly the same customers once.
// It is meant for tests and debug assertions, not for hot paths.
func (ind *Individual) Validate(numCustomers int) error {
	if len(ind.Genotype) != numCustomers {
		return fmt.Errorf("solver: genotype has %d genes, want %d", len(ind.Genotype), numCustomers)
	}
	seen := make([]bool, numCustomers+1)
	for _, node := range ind.Genotype {
		if node < 1 || node > numCustomers {
			return fmt.Errorf("solver: genotype gene %d out of range", node)
		}
		if seen[node] {
			return fmt.Errorf("solver: customer %d duplicated in genotype", node)
		}
		seen[node] = true
	}

	inRoutes := make([]bool, numCustomers+1)
	count := 0
	for _, route := range ind.Phenotype {
		for _, node := range route {
			if node < 1 || node > numCustomers {
				return fmt.Errorf("solver: phenotype node %d out of range", node)
			}
			if inRoutes[node] {
				return fmt.Errorf("solver: customer %d duplicated in phenotype", node)
			}
			inRoutes[node] = true
			count++
		}
	}
	if count != numCustomers {
		return fmt.Errorf("solver: phenotype visits %d customers, want %d", count, numCustomers)
	}

	return nil
}
