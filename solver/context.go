package solver

import (
	"time"

	"github.com/martsime/hybridcvrp/cvrp"
)

// Context bundles everything a search component needs: the immutable
// problem, the mutable configuration (the live capacity penalty lives
// there), the random stream, the wall-clock deadline and the search
// history. It is passed explicitly into every randomized or time-bounded
// operation instead of hiding behind package state.
type Context struct {
	Problem *cvrp.Problem
	Config  *cvrp.Config
	Rand    *Random
	History *SearchHistory

	startTime time.Time
	deadline  time.Time

	// initialPenalty remembers the configured penalty so phases that
	// self-adapt it (elite education) can restore the baseline.
	initialPenalty float64
}

// NewContext builds the run context. The deadline starts ticking here:
// callers should construct the context right before Solver.Run.
func NewContext(problem *cvrp.Problem, cfg *cvrp.Config) *Context {
	start := time.Now()

	return &Context{
		Problem:        problem,
		Config:         cfg,
		Rand:           NewRandom(cfg.Deterministic, cfg.Seed),
		History:        NewSearchHistory(start),
		startTime:      start,
		deadline:       start.Add(time.Duration(cfg.TimeLimit) * time.Second),
		initialPenalty: cfg.PenaltyCapacity,
	}
}

// Elapsed returns the wall time since the context was created.
func (c *Context) Elapsed() time.Duration { return time.Since(c.startTime) }

// ElapsedSeconds returns Elapsed as floating seconds, for log lines.
func (c *Context) ElapsedSeconds() float64 { return c.Elapsed().Seconds() }

// StartTime returns the instant the run started.
func (c *Context) StartTime() time.Time { return c.startTime }

// Deadline returns the wall-clock instant the run must stop at.
func (c *Context) Deadline() time.Time { return c.deadline }

// Terminate reports whether the time limit has been reached. It is the
// only suspension point of the engine; reaching it is the normal
// terminator, not an error.
func (c *Context) Terminate() bool { return !time.Now().Before(c.deadline) }

// ResetPenalty restores the capacity penalty to its configured value.
// Used after elite education, which adapts the penalty on its own.
func (c *Context) ResetPenalty() { c.Config.PenaltyCapacity = c.initialPenalty }
