package ruin

import (
	"fmt"
	"math"
	"time"

	"github.com/martsime/hybridcvrp/solver"
)

// updateInterval is the batch size of Search: penalty updates (elite
// education only) happen once per batch; completion and the deadline are
// checked after every iteration.
const updateInterval = 1000

// RuinRecreate is the simulated-annealing harness around one ruin and
// one recreate operator. It is allocated once and reloaded per use; the
// three solutions (working, current candidate, best) reuse their
// allocations across iterations.
//
// Two schedules exist: the mutation schedule (⌈γ·N⌉ iterations, fixed
// penalty) and the elite-education schedule (⌈γᴱ·N⌉ iterations or a
// wall-clock fraction, self-adapting penalty).
type RuinRecreate struct {
	ruin     Ruiner
	recreate Recreater

	// solution is the accepted working state, current the candidate the
	// operators mutate, best the incumbent of this annealing run.
	solution *Solution
	current  *Solution
	best     *Solution
	hasBest  bool

	totalIterations int
	iteration       int

	minTemp       float64
	maxTemp       float64
	temp          float64
	coolingFactor float64

	// updatePenalty marks the elite-education mode: the capacity penalty
	// drifts toward feasibility while the schedule runs.
	updatePenalty bool

	// Time-based schedule (elite education only): when timeBased is set,
	// completion follows the wall clock instead of the iteration count; the
	// temperature still cools by the per-iteration geometric factor.
	timeBased     bool
	scheduleStart time.Time
	scheduleEnd   time.Time

	// scratch individual used to push new bests into the search history.
	scratch *solver.Individual
}

// New builds the harness in mutation mode.
func New(ctx *solver.Context) *RuinRecreate {
	rr := &RuinRecreate{
		ruin:     NewAdjacentStringRemoval(ctx),
		recreate: NewGreedyBlink(ctx),
		solution: NewSolution(ctx),
		current:  NewSolution(ctx),
		best:     NewSolution(ctx),
	}
	rr.scratch = solver.NewIndividual(make([]int, ctx.Problem.NumCustomers()), 0)
	rr.scratch.Phenotype = make([][]int, ctx.Problem.VehicleBound())
	rr.SetupMutation(ctx)

	return rr
}

// SetupMutation arms the short generational schedule.
func (rr *RuinRecreate) SetupMutation(ctx *solver.Context) {
	cfg := ctx.Config
	rr.totalIterations = int(math.Ceil(cfg.RRGamma * float64(ctx.Problem.NumCustomers())))
	rr.minTemp = cfg.RRFinalTemp
	rr.maxTemp = cfg.RRStartTemp
	rr.updatePenalty = false
	rr.timeBased = false
}

// SetupEliteEducation arms the long intensification schedule. With
// EliteEducationTimeBased the budget is a fraction of the time limit;
// otherwise it is ⌈γᴱ·N⌉ iterations.
func (rr *RuinRecreate) SetupEliteEducation(ctx *solver.Context) {
	cfg := ctx.Config
	rr.totalIterations = int(math.Ceil(cfg.EliteEducationGamma * float64(ctx.Problem.NumCustomers())))
	rr.minTemp = cfg.EliteEducationFinalTemp
	rr.maxTemp = cfg.EliteEducationStartTemp
	rr.updatePenalty = true
	rr.timeBased = cfg.EliteEducationTimeBased
	if rr.timeBased {
		budget := time.Duration(cfg.EliteEducationTimeFraction *
			float64(time.Duration(cfg.TimeLimit)*time.Second))
		rr.scheduleStart = time.Now()
		rr.scheduleEnd = rr.scheduleStart.Add(budget)
	}
}

// Load starts a fresh annealing run from the given individual.
func (rr *RuinRecreate) Load(ctx *solver.Context, ind *solver.Individual) {
	rr.solution.Load(ind)
	rr.solution.Reevaluate(ctx)
	rr.current.CopyFrom(rr.solution)
	rr.best.CopyFrom(rr.solution)
	rr.hasBest = true

	rr.coolingFactor = rr.calculateCoolingFactor()
	rr.temp = rr.maxTemp
	rr.iteration = 0
	if rr.timeBased {
		rr.scheduleStart = time.Now()
	}
}

// Complete reports whether the schedule is exhausted.
func (rr *RuinRecreate) Complete(ctx *solver.Context) bool {
	if ctx.Terminate() {
		return true
	}
	if rr.timeBased {
		return !time.Now().Before(rr.scheduleEnd)
	}

	return rr.iteration >= rr.totalIterations
}

// BestCost returns the incumbent cost of this annealing run.
func (rr *RuinRecreate) BestCost() float64 {
	if !rr.hasBest {
		return math.Inf(1)
	}

	return rr.best.Cost
}

// WriteBest copies the incumbent back into the individual.
func (rr *RuinRecreate) WriteBest(ctx *solver.Context, ind *solver.Individual) {
	if rr.hasBest {
		rr.best.WriteIndividual(ctx, ind)
	}
}

// calculateCoolingFactor derives the geometric factor that moves the
// temperature from maxTemp to minTemp over the whole schedule.
func (rr *RuinRecreate) calculateCoolingFactor() float64 {
	if rr.totalIterations <= 0 || solver.ApproxEq(rr.maxTemp, 0) {
		return 1.0
	}
	target := rr.minTemp
	if solver.ApproxEq(target, 0) {
		target = 1e-6
	}

	return math.Pow(target/rr.maxTemp, 1.0/float64(rr.totalIterations))
}

// Search runs up to one batch of annealing iterations. The caller loops
// until Complete; keeping batches short makes the generational engine's
// deadline checks responsive.
func (rr *RuinRecreate) Search(ctx *solver.Context) {
	for i := 1; i <= updateInterval; i++ {
		if i == updateInterval && rr.updatePenalty {
			// Elite education adapts the penalty toward the feasibility
			// boundary: relax while feasible, tighten while not.
			if rr.solution.IsFeasible() {
				ctx.Config.PenaltyCapacity *= ctx.Config.PenaltyDecMultiplier
			} else {
				ctx.Config.PenaltyCapacity *= ctx.Config.PenaltyIncMultiplier
			}
			rr.best.Reevaluate(ctx)
			rr.solution.Reevaluate(ctx)
			rr.current.Reevaluate(ctx)
		}

		costBefore := rr.current.Cost
		rr.ruin.Run(ctx, rr.current)
		rr.recreate.Run(ctx, rr.current)

		// Metropolis acceptance at the current temperature.
		if solver.ApproxLt(rr.current.Cost, costBefore-rr.temp*math.Log(ctx.Rand.Float64())) {
			if !rr.hasBest || solver.ApproxLt(rr.current.Cost, rr.best.Cost) {
				rr.updateBest(ctx)
			}
			rr.solution.CopyFrom(rr.current)
		}
		rr.current.CopyFrom(rr.solution)

		rr.temp *= rr.coolingFactor
		if rr.temp < rr.minTemp {
			rr.temp = rr.minTemp
		}
		rr.iteration++

		if rr.Complete(ctx) {
			break
		}
	}
}

// updateBest promotes the current candidate to incumbent and, when it is
// feasible and beats the global best, records it in the search history.
func (rr *RuinRecreate) updateBest(ctx *solver.Context) {
	rr.best.CopyFrom(rr.current)
	rr.hasBest = true

	if rr.current.IsFeasible() && solver.ApproxLt(rr.current.Cost, ctx.History.BestCost) {
		rr.current.WriteIndividual(ctx, rr.scratch)
		ctx.History.AddMessage(fmt.Sprintf("New best: %.2f", rr.scratch.PenalizedCost()))
		ctx.History.Add(rr.scratch)
	}
}
