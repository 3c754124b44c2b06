package ruin

import (
	"fmt"
	"math"

	"github.com/martsime/hybridcvrp/solver"
)

// Route is the flat route representation of the ruin-and-recreate
// neighbourhood: a customer slice plus incrementally maintained distance
// and overload. Removal and insertion update both in O(1) before the
// slice is touched.
type Route struct {
	Nodes    []int
	Distance float64
	// Overload is load − capacity; empty routes carry −capacity.
	Overload int64
}

// Remove deletes the customer at index and returns it.
func (r *Route) Remove(ctx *solver.Context, index int) int {
	prev := 0
	if index > 0 {
		prev = r.Nodes[index-1]
	}
	next := 0
	if index < len(r.Nodes)-1 {
		next = r.Nodes[index+1]
	}

	node := r.Nodes[index]
	r.Distance += -ctx.Problem.Distance(prev, node) -
		ctx.Problem.Distance(node, next) +
		ctx.Problem.Distance(prev, next)
	r.Overload -= ctx.Problem.Demand(node)

	r.Nodes = append(r.Nodes[:index], r.Nodes[index+1:]...)

	return node
}

// DeltaDistance prices inserting node before position index.
func (r *Route) DeltaDistance(ctx *solver.Context, index, node int) float64 {
	prev := 0
	if index > 0 {
		prev = r.Nodes[index-1]
	}
	next := 0
	if index < len(r.Nodes) {
		next = r.Nodes[index]
	}

	return -ctx.Problem.Distance(prev, next) +
		ctx.Problem.Distance(prev, node) +
		ctx.Problem.Distance(node, next)
}

// Add inserts node before position index.
func (r *Route) Add(ctx *solver.Context, index, node int) {
	r.Distance += r.DeltaDistance(ctx, index, node)
	r.Overload += ctx.Problem.Demand(node)

	r.Nodes = append(r.Nodes, 0)
	copy(r.Nodes[index+1:], r.Nodes[index:])
	r.Nodes[index] = node
}

// CopyFrom makes r an exact copy of other, reusing r's slice.
func (r *Route) CopyFrom(other *Route) {
	r.Distance = other.Distance
	r.Overload = other.Overload
	r.Nodes = append(r.Nodes[:0], other.Nodes...)
}

// NodeLocation is the reverse map entry of one customer: which route it
// sits on and at which index.
type NodeLocation struct {
	RouteIndex int
	NodeIndex  int
}

// Solution is one candidate of the annealing loop. Routes always span
// the full vehicle bound; Unassigned holds customers removed by ruin and
// is empty between iterations.
type Solution struct {
	Routes       []Route
	Unassigned   []int
	RuinedRoutes map[int]bool
	Locations    []NodeLocation
	Cost         float64
}

// NewSolution allocates an empty solution sized for the problem.
func NewSolution(ctx *solver.Context) *Solution {
	dim := ctx.Problem.Dim()
	numRoutes := ctx.Problem.VehicleBound()

	routes := make([]Route, numRoutes)
	for i := range routes {
		routes[i].Overload = -ctx.Problem.Capacity()
	}

	return &Solution{
		Routes:       routes,
		Unassigned:   make([]int, 0, dim),
		RuinedRoutes: make(map[int]bool, numRoutes),
		Locations:    make([]NodeLocation, dim),
		Cost:         math.Inf(1),
	}
}

// Load copies an evaluated individual into the solution.
func (s *Solution) Load(ind *solver.Individual) {
	if len(ind.Phenotype) != len(s.Routes) {
		panic(fmt.Sprintf("ruin: individual has %d routes, solution has %d",
			len(ind.Phenotype), len(s.Routes)))
	}
	for routeIndex := range s.Routes {
		route := &s.Routes[routeIndex]
		route.Nodes = append(route.Nodes[:0], ind.Phenotype[routeIndex]...)
		route.Distance = ind.Evaluation.Routes[routeIndex].Distance
		route.Overload = ind.Evaluation.Routes[routeIndex].Overload

		for nodeIndex, node := range route.Nodes {
			s.Locations[node] = NodeLocation{RouteIndex: routeIndex, NodeIndex: nodeIndex}
		}
	}
	s.Unassigned = s.Unassigned[:0]
	clear(s.RuinedRoutes)
}

// CopyFrom makes s an exact copy of other, reusing allocations.
func (s *Solution) CopyFrom(other *Solution) {
	s.Cost = other.Cost
	copy(s.Locations, other.Locations)
	for i := range s.Routes {
		s.Routes[i].CopyFrom(&other.Routes[i])
	}
	s.Unassigned = append(s.Unassigned[:0], other.Unassigned...)
}

// IsFeasible reports whether no route is overloaded.
func (s *Solution) IsFeasible() bool {
	for i := range s.Routes {
		if s.Routes[i].Overload > 0 {
			return false
		}
	}

	return true
}

// Evaluate recomputes the total penalized cost and refreshes the
// locations of the given routes.
func (s *Solution) Evaluate(ctx *solver.Context, updatedRoutes map[int]bool) {
	s.Reevaluate(ctx)

	for routeIndex := range updatedRoutes {
		for nodeIndex, node := range s.Routes[routeIndex].Nodes {
			s.Locations[node] = NodeLocation{RouteIndex: routeIndex, NodeIndex: nodeIndex}
		}
	}
}

// Reevaluate recomputes only the total penalized cost, e.g. after a
// penalty change.
func (s *Solution) Reevaluate(ctx *solver.Context) {
	penalty := ctx.Config.PenaltyCapacity
	total := 0.0
	for i := range s.Routes {
		total += solver.RouteCost(s.Routes[i].Distance, s.Routes[i].Overload, penalty)
	}
	s.Cost = total
}

// WriteIndividual copies the solution back into an individual and
// re-evaluates it. Calling it with unassigned customers is a bug.
func (s *Solution) WriteIndividual(ctx *solver.Context, ind *solver.Individual) {
	if len(s.Unassigned) != 0 {
		panic(fmt.Sprintf("ruin: %d customers unassigned while exporting a solution",
			len(s.Unassigned)))
	}
	ind.Genotype = ind.Genotype[:0]
	for routeIndex := range s.Routes {
		route := s.Routes[routeIndex].Nodes
		ind.Phenotype[routeIndex] = append(ind.Phenotype[routeIndex][:0], route...)
		ind.Genotype = append(ind.Genotype, route...)
	}

	ind.SortRoutes(ctx)
	ind.Evaluate(ctx)
}
