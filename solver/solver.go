package solver

import "log"

// Metaheuristic is the contract between the Solver loop and a search
// engine. Iterate performs one unit of work (one generation, one batch of
// annealing steps, …) and is expected to consult ctx.Terminate at its
// own boundaries; Terminated reports that the engine will do no further
// work.
type Metaheuristic interface {
	Iterate(ctx *Context)
	Terminated() bool
}

// Solver drives a Metaheuristic until it terminates. The loop itself
// holds no search state: everything lives in the context and the engine.
type Solver struct {
	Ctx  *Context
	Meta Metaheuristic
}

// New pairs a context with an engine.
func New(ctx *Context, meta Metaheuristic) *Solver {
	return &Solver{Ctx: ctx, Meta: meta}
}

// Run iterates the engine to completion. The time limit is enforced
// cooperatively by the engine via ctx.Terminate; when it returns the
// current iteration completes and the best solution is retained in the
// search history.
func (s *Solver) Run() {
	for !s.Meta.Terminated() {
		s.Meta.Iterate(s.Ctx)
	}
	log.Printf("Time: %v, Completed", s.Ctx.Elapsed())
}
