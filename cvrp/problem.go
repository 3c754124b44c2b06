package cvrp

import (
	"fmt"
	"math"
	"sort"
)

// Problem is the immutable CVRP instance: depot + customers, a vehicle
// capacity, precomputed distances, granular neighbour lists and polar
// angles. Built once by ProblemBuilder.Build and owned by the engine
// for its lifetime.
type Problem struct {
	nodes   []Node
	vehicle Vehicle
	dist    *DistanceMatrix

	// Flat neighbour storage: the neighbours of customer i occupy
	// correlations[i*numCorrelations : i*numCorrelations+granularities[i]],
	// ordered by increasing distance from i. Row 0 (the depot) is unused.
	correlations    []int
	granularities   []int
	numCorrelations int

	// Integer polar angle of every node around the depot, in [0, maxAngle).
	angles []int32

	vehicleLowerBound int
	vehicleBound      int
}

// Dim returns the number of nodes including the depot.
func (p *Problem) Dim() int { return len(p.nodes) }

// NumCustomers returns the number of customer nodes.
func (p *Problem) NumCustomers() int { return len(p.nodes) - 1 }

// Node returns the node at internal index i (0 is the depot).
func (p *Problem) Node(i int) Node { return p.nodes[i] }

// Demand returns the demand of node i.
func (p *Problem) Demand(i int) int64 { return p.nodes[i].Demand }

// Capacity returns the shared vehicle capacity.
func (p *Problem) Capacity() int64 { return p.vehicle.Cap }

// Distance returns the distance between nodes i and j.
func (p *Problem) Distance(i, j int) float64 { return p.dist.Get(i, j) }

// Distances exposes the underlying matrix for bulk readers.
func (p *Problem) Distances() *DistanceMatrix { return p.dist }

// Neighbors returns the granular neighbour list of customer i: its
// granularity nearest customers ordered by increasing distance. The
// returned slice aliases internal storage and must not be modified
// except by the local search shuffle, which owns the problem for the
// run's lifetime.
func (p *Problem) Neighbors(i int) []int {
	start := i * p.numCorrelations

	return p.correlations[start : start+p.granularities[i]]
}

// Granularity returns the neighbour list length of customer i.
func (p *Problem) Granularity(i int) int { return p.granularities[i] }

// Angle returns the integer polar angle of node i around the depot.
func (p *Problem) Angle(i int) int32 { return p.angles[i] }

// TotalDemand returns the sum of all customer demands.
func (p *Problem) TotalDemand() int64 {
	var total int64
	for _, n := range p.nodes {
		total += n.Demand
	}

	return total
}

// MaxDemand returns the largest single customer demand.
func (p *Problem) MaxDemand() int64 {
	var max int64
	for _, n := range p.nodes {
		if n.Demand > max {
			max = n.Demand
		}
	}

	return max
}

// VehicleLowerBound is the bin-packing lower bound ⌈totalDemand/cap⌉
// on the number of routes of any feasible solution.
func (p *Problem) VehicleLowerBound() int { return p.vehicleLowerBound }

// VehicleBound is the fleet size the solver allocates routes for. Every
// individual carries exactly this many routes, empty ones included.
func (p *Problem) VehicleBound() int { return p.vehicleBound }

// ProblemBuilder accumulates nodes and a capacity, then assembles a
// Problem. The depot is the node with the smallest id; ids need not be
// contiguous. This is the entry point both the CLI and embedding hosts
// use to load instances.
type ProblemBuilder struct {
	nodes   []Node
	vehicle *Vehicle
}

// NewProblemBuilder returns an empty builder.
func NewProblemBuilder() *ProblemBuilder {
	return &ProblemBuilder{}
}

// AddNode records one node. The node with the smallest id becomes the depot.
func (b *ProblemBuilder) AddNode(id int, demand int64, x, y float64) {
	b.nodes = append(b.nodes, Node{ID: id, Coord: Coordinate{X: x, Y: y}, Demand: demand})
}

// AddCapacity records the homogeneous vehicle capacity.
func (b *ProblemBuilder) AddCapacity(cap int64) {
	b.vehicle = &Vehicle{Cap: cap}
}

// Build validates the accumulated instance and assembles the Problem:
// nodes are ordered so the depot sits at index 0, the distance matrix is
// materialized (or left on demand above the configured size limit),
// neighbour lists and polar angles are computed, and the fleet bound is
// derived. Build also clamps cfg.NumVehicles to the derived bound so the
// solver never allocates an absurd number of route slots.
//
// Complexity: O(n² log n) dominated by the neighbour list sorts.
func (b *ProblemBuilder) Build(cfg *Config) (*Problem, error) {
	if len(b.nodes) == 0 {
		return nil, ErrNoNodes
	}
	if b.vehicle == nil {
		return nil, ErrNoVehicle
	}
	if len(b.nodes) < 2 {
		return nil, ErrTooFewNodes
	}
	if b.vehicle.Cap <= 0 {
		return nil, ErrBadCapacity
	}

	// The depot is the node with the smallest id, per the instance format
	// convention; the remaining nodes keep their relative order by id.
	nodes := make([]Node, len(b.nodes))
	copy(nodes, b.nodes)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for i := 1; i < len(nodes); i++ {
		if nodes[i].ID == nodes[i-1].ID {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateNode, nodes[i].ID)
		}
	}
	for i, n := range nodes {
		if n.Demand < 0 {
			return nil, fmt.Errorf("%w: node %d", ErrBadDemand, n.ID)
		}
		if i > 0 && n.Demand > b.vehicle.Cap {
			return nil, fmt.Errorf("%w: node %d demand %d > cap %d",
				ErrDemandExceedsCapacity, n.ID, n.Demand, b.vehicle.Cap)
		}
	}
	// The depot never consumes capacity, whatever the file says.
	nodes[0].Demand = 0

	p := &Problem{
		nodes:   nodes,
		vehicle: *b.vehicle,
	}

	coords := make([]Coordinate, len(nodes))
	for i, n := range nodes {
		coords[i] = n.Coord
	}
	precompute := len(nodes) <= cfg.PrecomputeDistanceSizeLimit
	p.dist = newDistanceMatrix(coords, precompute, cfg.RoundDistances)

	p.buildNeighbors(cfg.LocalSearchGranularity)
	p.buildAngles()

	// Fleet bound: bin-packing lower bound with slack for the split and
	// the ruin step to open fresh routes, capped by the customer count.
	lb := int((p.TotalDemand() + p.vehicle.Cap - 1) / p.vehicle.Cap)
	if lb < 1 {
		lb = 1
	}
	p.vehicleLowerBound = lb
	bound := 2*lb + 2
	if bound > p.NumCustomers() {
		bound = p.NumCustomers()
	}
	if bound < lb {
		bound = lb
	}
	if cfg.NumVehicles > 0 && cfg.NumVehicles < bound {
		bound = cfg.NumVehicles
	}
	p.vehicleBound = bound
	cfg.NumVehicles = bound

	return p, nil
}

// buildNeighbors fills the flat correlation slice with, per customer, the
// granularity nearest other customers by distance. The depot is excluded:
// depot arcs are always evaluated explicitly by the moves themselves.
func (p *Problem) buildNeighbors(granularity int) {
	dim := p.Dim()
	limit := granularity
	if limit > dim-2 {
		limit = dim - 2
	}
	if limit < 0 {
		limit = 0
	}
	p.numCorrelations = limit
	p.correlations = make([]int, dim*limit)
	p.granularities = make([]int, dim)

	order := make([]int, 0, dim-1)
	for i := 1; i < dim; i++ {
		order = order[:0]
		for j := 1; j < dim; j++ {
			if j != i {
				order = append(order, j)
			}
		}
		sort.SliceStable(order, func(a, b int) bool {
			return p.dist.Get(i, order[a]) < p.dist.Get(i, order[b])
		})
		n := limit
		if n > len(order) {
			n = len(order)
		}
		copy(p.correlations[i*limit:i*limit+n], order[:n])
		p.granularities[i] = n
	}
}

// buildAngles precomputes the integer polar angle of every node around
// the depot, matching the CircleSector resolution.
func (p *Problem) buildAngles() {
	p.angles = make([]int32, p.Dim())
	depot := p.nodes[0].Coord
	for i := range p.nodes {
		x := p.nodes[i].Coord.X - depot.X
		y := p.nodes[i].Coord.Y - depot.Y
		angle := int32(math.Round(math.Atan2(y, x) / math.Pi * 32768.0))
		p.angles[i] = modAngle(angle)
	}
}
