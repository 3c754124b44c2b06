// Package hybridcvrp is a hybrid metaheuristic solver for the
// Capacitated Vehicle Routing Problem: a genetic search over giant-tour
// individuals combined with granular local search and a ruin-and-
// recreate mutation under simulated annealing.
//
// 🚚 What is hybridcvrp?
//
//	A pure-Go solver that brings together:
//		• Problem model: immutable instances with precomputed distances,
//		  granular neighbour lists and polar angles (cvrp/)
//		• Split: optimal decoding of giant tours into capacity-penalized
//		  routes via a linear monotone-deque DP (genetic/)
//		• Education: granular relocate/swap/2-opt moves plus SWAP* with
//		  circle-sector pruning (localsearch/)
//		• Mutation: adjacent-string-removal ruin and greedy-blink
//		  recreate inside a geometric annealing schedule (ruin/)
//		• Population: feasible/infeasible pools with biased fitness,
//		  broken-pairs diversity and clone-preferring survivor
//		  selection (genetic/)
//		• Instance parsing for TSPLIB/DIMACS files (tsplib/)
//
// The engine is single-threaded and cooperative: one generational loop,
// one explicit random stream, and a wall-clock deadline consulted at
// iteration boundaries. A deterministic run with a fixed seed reproduces
// the exact search trajectory.
//
// Quick start:
//
//	cfg := cvrp.DefaultConfig()
//	cfg.TimeLimit = 10
//
//	b := cvrp.NewProblemBuilder()
//	b.AddNode(1, 0, 0, 0)  // depot
//	b.AddNode(2, 1, 1, 0)
//	b.AddNode(3, 1, -1, 0)
//	b.AddCapacity(2)
//	problem, err := b.Build(&cfg)
//	...
//	ctx := solver.NewContext(problem, &cfg)
//	engine := genetic.New(ctx)
//	solver.New(ctx, engine).Run()
//	best := engine.BestSolution()
//
// The cmd/hybridcvrp binary wraps the same flow behind a CLI.
package hybridcvrp
