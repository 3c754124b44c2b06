package cvrp

import "errors"

// Sentinel errors returned by the problem builder and config validation.
var (
	// ErrNoNodes indicates Build was called before any node was added.
	ErrNoNodes = errors.New("cvrp: no nodes added to the builder")

	// ErrNoVehicle indicates Build was called before AddCapacity.
	ErrNoVehicle = errors.New("cvrp: no vehicle capacity added to the builder")

	// ErrTooFewNodes indicates the instance has fewer than two nodes
	// (a depot plus at least one customer is required).
	ErrTooFewNodes = errors.New("cvrp: instance needs a depot and at least one customer")

	// ErrBadCapacity indicates a non-positive vehicle capacity.
	ErrBadCapacity = errors.New("cvrp: vehicle capacity must be positive")

	// ErrBadDemand indicates a negative customer demand.
	ErrBadDemand = errors.New("cvrp: customer demand must be non-negative")

	// ErrDemandExceedsCapacity indicates a single customer demand larger
	// than the vehicle capacity, which makes the instance infeasible.
	ErrDemandExceedsCapacity = errors.New("cvrp: customer demand exceeds vehicle capacity")

	// ErrDuplicateNode indicates two nodes were added with the same id.
	ErrDuplicateNode = errors.New("cvrp: duplicate node id")

	// ErrBadTimeLimit indicates a non-positive time limit in the config.
	ErrBadTimeLimit = errors.New("cvrp: time limit must be positive")

	// ErrBadPopulation indicates inconsistent population sizing parameters.
	ErrBadPopulation = errors.New("cvrp: population parameters must be positive")

	// ErrBadGranularity indicates a non-positive local search granularity.
	ErrBadGranularity = errors.New("cvrp: local search granularity must be positive")

	// ErrBadProportion indicates a feasibility target outside (0,1).
	ErrBadProportion = errors.New("cvrp: feasibility proportion target must be in (0,1)")

	// ErrBadTemperature indicates a non-positive annealing temperature.
	ErrBadTemperature = errors.New("cvrp: annealing temperatures must be positive")

	// ErrBadRuinParams indicates non-positive ruin cardinality or string length.
	ErrBadRuinParams = errors.New("cvrp: ruin parameters must be positive")

	// ErrBadProbability indicates a probability parameter outside [0,1].
	ErrBadProbability = errors.New("cvrp: probability parameters must be in [0,1]")
)

// Coordinate is a planar node position. Distances are Euclidean.
type Coordinate struct {
	X float64
	Y float64
}

// Node is a single location of the instance. The depot carries demand 0.
type Node struct {
	ID     int
	Coord  Coordinate
	Demand int64
}

// Vehicle describes the homogeneous fleet: every route shares one capacity.
type Vehicle struct {
	Cap int64
}
