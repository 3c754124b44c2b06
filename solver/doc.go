// Package solver carries the shared machinery of the search: the run
// Context (problem + config + random stream + deadline), the Individual
// representation with its route evaluation, the search history, and the
// generic Solver loop driving any Metaheuristic until termination.
//
// The engine is single-threaded and cooperative: the only yield point is
// the deadline check between iterations. Randomness flows through one
// explicit stream owned by the Context, never through package-level
// state, so a deterministic run with a fixed seed reproduces the exact
// sequence of decisions.
package solver
