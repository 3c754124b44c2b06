package solver_test

import (
	"testing"

	"github.com/martsime/hybridcvrp/cvrp"
	"github.com/martsime/hybridcvrp/solver"
)

// newSquareContext builds a deterministic context over the 4-customer
// square instance: depot (0,0), customers 1..4 at (1,0), (-1,0), (0,1),
// (0,-1), unit demands, capacity 2.
func newSquareContext(t *testing.T, mutate func(*cvrp.Config)) *solver.Context {
	t.Helper()

	cfg := cvrp.DefaultConfig()
	cfg.Deterministic = true
	cfg.Seed = 42
	cfg.PenaltyCapacity = 10
	if mutate != nil {
		mutate(&cfg)
	}

	b := cvrp.NewProblemBuilder()
	b.AddNode(1, 0, 0, 0)
	b.AddNode(2, 1, 1, 0)
	b.AddNode(3, 1, -1, 0)
	b.AddNode(4, 1, 0, 1)
	b.AddNode(5, 1, 0, -1)
	b.AddCapacity(2)

	problem, err := b.Build(&cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	return solver.NewContext(problem, &cfg)
}

func TestContext_Deadline(t *testing.T) {
	ctx := newSquareContext(t, func(c *cvrp.Config) { c.TimeLimit = 3600 })
	if ctx.Terminate() {
		t.Error("fresh context with an hour budget should not terminate")
	}
	if ctx.Deadline().Sub(ctx.StartTime()).Seconds() != 3600 {
		t.Error("deadline does not honour the time limit")
	}
}

func TestContext_ResetPenalty(t *testing.T) {
	ctx := newSquareContext(t, nil)
	initial := ctx.Config.PenaltyCapacity
	ctx.Config.PenaltyCapacity *= 7
	ctx.ResetPenalty()
	if ctx.Config.PenaltyCapacity != initial {
		t.Errorf("penalty = %v after reset, want %v", ctx.Config.PenaltyCapacity, initial)
	}
}
