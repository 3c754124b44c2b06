// Package cvrp defines the immutable problem model for the Capacitated
// Vehicle Routing Problem and the configuration consumed by the solver.
//
// A Problem is assembled through a ProblemBuilder (AddNode / AddCapacity /
// Build) and is read-only afterwards. Build precomputes everything the
// search needs:
//
//   - a dense distance matrix (optionally rounded to integers, optionally
//     computed on demand above a configurable size limit),
//   - a granular neighbour list per customer (the Γ nearest customers,
//     depot excluded), stored as one flat correlation slice,
//   - polar angles of every node around the depot, used by the circle
//     sector pruning of SWAP* in the local search.
//
// Conventions:
//   - Node index 0 is always the depot; customers are 1..N.
//   - Demands and loads are integers; distances and costs are float64.
//     When Config.RoundDistances is set, matrix entries are rounded at
//     load so every downstream component sees one consistent metric.
//
// All validation failures are reported through sentinel errors declared
// in types.go.
package cvrp
