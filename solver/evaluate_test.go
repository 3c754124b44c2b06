package solver_test

import (
	"math"
	"testing"

	"github.com/martsime/hybridcvrp/solver"
)

func TestEvaluate_FeasibleSolution(t *testing.T) {
	ctx := newSquareContext(t, nil)

	// Two feasible routes: {1,3} and {2,4} (customers (1,0),(0,1) and
	// (-1,0),(0,-1)). Route distance = 1 + √2 + 1 each.
	ev := solver.NewSolutionEvaluation()
	ev.Evaluate(ctx, [][]int{{1, 3}, {2, 4}})

	wantRoute := 2 + math.Sqrt2
	if math.Abs(ev.Routes[0].Distance-wantRoute) > 1e-9 {
		t.Errorf("route 0 distance = %v, want %v", ev.Routes[0].Distance, wantRoute)
	}
	if ev.Routes[0].Load != 2 || ev.Routes[0].Overload != 0 {
		t.Errorf("route 0 load/overload = %d/%d, want 2/0", ev.Routes[0].Load, ev.Routes[0].Overload)
	}
	if !ev.Feasible {
		t.Error("solution should be feasible")
	}
	if ev.CapacityExcess != 0 {
		t.Errorf("capacity excess = %d, want 0", ev.CapacityExcess)
	}
	if math.Abs(ev.Distance-2*wantRoute) > 1e-9 {
		t.Errorf("total distance = %v, want %v", ev.Distance, 2*wantRoute)
	}
	// No excess: penalized cost equals distance.
	if math.Abs(ev.PenalizedCost-ev.Distance) > 1e-9 {
		t.Errorf("penalized cost = %v, want %v", ev.PenalizedCost, ev.Distance)
	}
}

func TestEvaluate_PenalizedCostIdentity(t *testing.T) {
	ctx := newSquareContext(t, nil)

	// One overloaded route carrying all four customers plus one empty.
	ev := solver.NewSolutionEvaluation()
	ev.Evaluate(ctx, [][]int{{1, 3, 2, 4}, {}})

	if ev.Feasible {
		t.Error("overloaded solution reported feasible")
	}
	if ev.CapacityExcess != 2 {
		t.Errorf("capacity excess = %d, want 2", ev.CapacityExcess)
	}
	want := ev.Distance + ctx.Config.PenaltyCapacity*float64(ev.CapacityExcess)
	if math.Abs(ev.PenalizedCost-want) > 1e-9 {
		t.Errorf("penalized cost = %v, want distance + P·excess = %v", ev.PenalizedCost, want)
	}
}

func TestEvaluate_PredecessorsAndSuccessors(t *testing.T) {
	ctx := newSquareContext(t, nil)

	ev := solver.NewSolutionEvaluation()
	ev.Evaluate(ctx, [][]int{{1, 3}, {2, 4}})

	// Route 0: depot → 1 → 3 → depot.
	if ev.Predecessors[1] != 0 || ev.Successors[1] != 3 {
		t.Errorf("node 1 links = (%d,%d), want (0,3)", ev.Predecessors[1], ev.Successors[1])
	}
	if ev.Predecessors[3] != 1 || ev.Successors[3] != 0 {
		t.Errorf("node 3 links = (%d,%d), want (1,0)", ev.Predecessors[3], ev.Successors[3])
	}
	// Route 1: depot → 2 → 4 → depot.
	if ev.Predecessors[2] != 0 || ev.Successors[2] != 4 {
		t.Errorf("node 2 links = (%d,%d), want (0,4)", ev.Predecessors[2], ev.Successors[2])
	}
}

func TestRouteCost(t *testing.T) {
	if got := solver.RouteCost(10, -3, 100); got != 10 {
		t.Errorf("slack route cost = %v, want 10", got)
	}
	if got := solver.RouteCost(10, 3, 100); got != 310 {
		t.Errorf("overloaded route cost = %v, want 310", got)
	}
}

func TestEmptyRoutesCostNothing(t *testing.T) {
	ctx := newSquareContext(t, nil)

	ev := solver.NewSolutionEvaluation()
	ev.Evaluate(ctx, [][]int{{1, 3}, {2, 4}, {}, {}})

	if ev.Routes[2].Distance != 0 || ev.Routes[2].PenalizedCost != 0 {
		t.Error("empty route should contribute nothing")
	}
}
