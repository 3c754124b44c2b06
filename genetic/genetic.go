package genetic

import (
	"fmt"
	"log"
	"math"

	"github.com/martsime/hybridcvrp/localsearch"
	"github.com/martsime/hybridcvrp/ruin"
	"github.com/martsime/hybridcvrp/solver"
)

// feasibilityDelta is the tolerance band δ around the feasibility target
// inside which the penalty controller leaves the penalty alone.
const feasibilityDelta = 0.05

// State is the phase of the engine's lifecycle.
type State int

// Engine states, in their natural order of progression.
const (
	StateCreated State = iota
	StateEliteEducation
	StateInitialization
	StateCycle
	StateTerminated
)

// GeneticAlgorithm is the generational engine: it seeds the population
// with educated random individuals, then repeats select → crossover →
// Split → educate → insert, adapting the capacity penalty toward the
// feasibility target, intensifying elites with the long ruin-and-
// recreate schedule, and restarting the population on stagnation while
// preserving the global best.
type GeneticAlgorithm struct {
	state State

	population *Population
	split      *Split
	ls         *localsearch.LocalSearch
	rr         *ruin.RuinRecreate

	child          *solver.Individual
	numInitialized int

	// elitePending schedules an elite-education pass for the next hook
	// point, set when an inserted child ranks among the elites.
	elitePending bool

	iterations        int
	nextPenaltyUpdate int
	nextLogInterval   int

	bestSolution    *solver.Individual
	bestIteration   int
	currentBestCost float64
}

// New assembles the engine and all of its reusable scratch.
func New(ctx *solver.Context) *GeneticAlgorithm {
	return &GeneticAlgorithm{
		state:           StateCreated,
		population:      NewPopulation(ctx),
		split:           NewSplit(ctx),
		ls:              localsearch.New(ctx),
		rr:              ruin.New(ctx),
		child:           solver.NewRandomIndividual(ctx, 0),
		currentBestCost: math.Inf(1),
	}
}

// BestSolution returns the global best feasible individual, or nil when
// none was found yet. The returned clone is owned by the engine.
func (ga *GeneticAlgorithm) BestSolution() *solver.Individual { return ga.bestSolution }

// Terminated implements solver.Metaheuristic.
func (ga *GeneticAlgorithm) Terminated() bool { return ga.state == StateTerminated }

// Iterate implements solver.Metaheuristic: one state-machine step. The
// deadline is checked here, so the current generation always completes
// before the engine stops.
func (ga *GeneticAlgorithm) Iterate(ctx *solver.Context) {
	if ctx.Terminate() {
		ga.state = StateTerminated
	}

	switch ga.state {
	case StateCreated:
		if ga.eliteEducationEnabled(ctx) {
			// Warm-up: one individual dives through the long schedule
			// before the population is seeded.
			ga.state = StateEliteEducation
			ga.split.Run(ctx, ga.child, ctx.Config.NumVehicles)
			ga.educate(ctx)
			ga.rr.SetupEliteEducation(ctx)
			ga.rr.Load(ctx, ga.child)
		} else {
			ga.state = StateInitialization
		}

	case StateEliteEducation:
		if !ga.rr.Complete(ctx) {
			ga.rr.Search(ctx)
		} else {
			ga.state = StateInitialization
			ga.rr.WriteBest(ctx, ga.child)
			ga.updateBest(ctx, ga.child)
			ga.population.Add(ctx, ga.child.Clone(), false)
			ga.rr.SetupMutation(ctx)
			ctx.ResetPenalty()
			ga.log(ctx)
		}

	case StateInitialization:
		if ga.numInitialized < ctx.Config.InitialIndividuals {
			ga.child = solver.NewRandomIndividual(ctx, uint64(ga.numInitialized))
			ga.split.Run(ctx, ga.child, ctx.Config.NumVehicles)
			ga.educate(ctx)
			ga.population.Add(ctx, ga.child.Clone(), true)
			ga.numInitialized++
		} else {
			ga.state = StateCycle
		}

	case StateCycle:
		// Hook point: an elite inserted last generation earns the best
		// elite an intensification pass before the next crossover.
		if ga.elitePending {
			ga.elitePending = false
			ga.eliteEducate(ctx)
		}

		parentOne := ga.population.GetParent(ctx)
		parentTwo := ga.population.GetParent(ctx)
		ga.child = ga.crossover(ctx, parentOne, parentTwo)

		// The child's fleet is capped at the routes its first parent uses;
		// Split raises the cap to the bin-packing lower bound when needed.
		ga.split.Run(ctx, ga.child, parentOne.NumNonemptyRoutes())

		ga.educate(ctx)

		inserted := ga.child.Clone()
		ga.population.Add(ctx, inserted, true)
		if ga.eliteEducationEnabled(ctx) {
			if rank := ga.population.Feasible.IndexOf(inserted); rank >= 0 && rank < ctx.Config.NumElites {
				ga.elitePending = true
			}
		}

		if ga.iterations >= ga.nextPenaltyUpdate {
			ga.updatePenalty(ctx)
		}
		if ga.iterations >= ga.nextLogInterval {
			ga.log(ctx)
		}

		if ga.iterations-ga.bestIteration > ctx.Config.MaxIterationsWithoutImprovement {
			ga.reset(ctx)
		}
		if ctx.Config.MaxIterations > 0 && ga.iterations >= ctx.Config.MaxIterations {
			ga.state = StateTerminated
		}

		ga.iterations++

	case StateTerminated:
	}
}

// crossover picks two distinct cut points and applies OX. A single-gene
// tour has no distinct cut points; the child is then a copy of parent
// one.
func (ga *GeneticAlgorithm) crossover(ctx *solver.Context, parentOne, parentTwo *solver.Individual) *solver.Individual {
	length := len(parentOne.Genotype)
	if length < 2 {
		child := solver.NewIndividual(append([]int(nil), parentOne.Genotype...),
			ga.population.TotalIndividuals())
		child.Phenotype = make([][]int, ctx.Problem.VehicleBound())

		return child
	}
	start := ctx.Rand.Intn(length)
	end := start
	for end == start {
		end = ctx.Rand.Intn(length)
	}

	return ga.crossoverOX(ctx, parentOne, parentTwo, start, end)
}

// crossoverOX builds the child genotype: the interval start..end (cyclic,
// inclusive) comes from parent one in place, the remaining positions are
// filled with parent two's customers in parent two's order.
func (ga *GeneticAlgorithm) crossoverOX(ctx *solver.Context, parentOne, parentTwo *solver.Individual, start, end int) *solver.Individual {
	length := len(parentOne.Genotype)
	wrap := func(index int) int {
		if index == length {
			return 0
		}

		return index
	}

	genotype := append([]int(nil), parentOne.Genotype...)
	added := make([]bool, length+1)

	index := start
	for {
		added[genotype[index]] = true
		if index == end {
			index = wrap(index + 1)
			break
		}
		index = wrap(index + 1)
	}

	for _, gene := range parentTwo.Genotype {
		if !added[gene] {
			added[gene] = true
			genotype[index] = gene
			index = wrap(index + 1)
		}
	}

	child := solver.NewIndividual(genotype, ga.population.TotalIndividuals())
	child.Phenotype = make([][]int, ctx.Problem.VehicleBound())

	return child
}

// educate improves the freshly split child: local search descent, one
// ruin-and-recreate annealing run, and a probabilistic repair attempt
// under a 10× penalty when the child is still infeasible. The repaired
// clone joins the population on its own; the unrepaired child remains
// the generational child so infeasible genes keep circulating.
func (ga *GeneticAlgorithm) educate(ctx *solver.Context) {
	if ctx.Config.LSEnabled {
		ga.ls.Run(ctx, ga.child, 1.0)
	}

	if ctx.Config.RRMutation && ctx.Rand.Float64() < ctx.Config.RRProbability {
		ga.rr.Load(ctx, ga.child)
		for !ga.rr.Complete(ctx) {
			ga.rr.Search(ctx)
		}
		ga.rr.WriteBest(ctx, ga.child)
	}

	if !ga.child.IsFeasible() && ctx.Rand.Float64() < ctx.Config.RepairProbability {
		unrepaired := ga.child.Clone()
		if ctx.Config.LSEnabled {
			ga.ls.Run(ctx, ga.child, 10.0)
		}
		if ga.child.IsFeasible() {
			ga.updateBest(ctx, ga.child)
			ga.population.Add(ctx, ga.child.Clone(), false)
		}
		ga.child = unrepaired
	}

	ga.updateBest(ctx, ga.child)
}

// eliteEducationEnabled gates both the warm-up dive and the per-insert
// hooks on the config switch and the problem size limit.
func (ga *GeneticAlgorithm) eliteEducationEnabled(ctx *solver.Context) bool {
	return ctx.Config.EliteEducation &&
		ctx.Problem.NumCustomers() > ctx.Config.EliteEducationProblemSizeLimit
}

// eliteEducate intensifies the best feasible elite under the long
// annealing schedule: a clone dives through ruin-and-recreate; when at
// least one annealing step improved it, Split and local search are
// re-run; the clone then replaces the elite iff strictly better by
// penalized cost.
func (ga *GeneticAlgorithm) eliteEducate(ctx *solver.Context) {
	elite := ga.population.Feasible.Best()
	if elite == nil {
		return
	}

	clone := elite.Clone()
	before := clone.PenalizedCost()

	ga.rr.SetupEliteEducation(ctx)
	ga.rr.Load(ctx, clone)
	for !ga.rr.Complete(ctx) {
		ga.rr.Search(ctx)
	}
	ga.rr.WriteBest(ctx, clone)
	ga.rr.SetupMutation(ctx)
	ctx.ResetPenalty()

	if solver.ApproxLt(clone.PenalizedCost(), before) {
		ga.split.Run(ctx, clone, clone.NumNonemptyRoutes())
		if ctx.Config.LSEnabled {
			ga.ls.Run(ctx, clone, 1.0)
		}
	}

	if !solver.ApproxLt(clone.PenalizedCost(), before) {
		return
	}
	ga.updateBest(ctx, clone)
	ga.population.Feasible.RemoveIndividual(ctx, elite)
	ga.population.Add(ctx, clone, false)
}

// updateBest promotes ind when it is feasible and strictly better than
// the best of this population era; the global best (search history) is
// only touched when ind also beats it.
func (ga *GeneticAlgorithm) updateBest(ctx *solver.Context, ind *solver.Individual) {
	if !ind.IsFeasible() || !solver.ApproxLt(ind.PenalizedCost(), ga.currentBestCost) {
		return
	}
	ga.bestIteration = ga.iterations
	ga.currentBestCost = ind.PenalizedCost()

	if solver.ApproxLt(ga.currentBestCost, ctx.History.BestCost) {
		ga.bestSolution = ind.Clone()
		ctx.History.AddMessage(fmt.Sprintf("New best: %.2f", ind.PenalizedCost()))
		ctx.History.Add(ind)
	}
}

// updatePenalty nudges the capacity penalty toward the feasibility
// target: too few feasible inserts raise it, too many lower it, always
// within [PenaltyMin, PenaltyMax]. The infeasible pool is re-evaluated
// afterwards since its costs depend on the penalty.
func (ga *GeneticAlgorithm) updatePenalty(ctx *solver.Context) {
	ga.nextPenaltyUpdate += ctx.Config.PenaltyUpdateInterval

	fraction := ga.population.HistoryFraction()
	cfg := ctx.Config
	if fraction < cfg.FeasibilityProportionTarget-feasibilityDelta {
		cfg.PenaltyCapacity *= cfg.PenaltyIncMultiplier
	} else if fraction > cfg.FeasibilityProportionTarget+feasibilityDelta {
		cfg.PenaltyCapacity *= cfg.PenaltyDecMultiplier
	}
	if cfg.PenaltyCapacity < cfg.PenaltyMin {
		cfg.PenaltyCapacity = cfg.PenaltyMin
	}
	if cfg.PenaltyCapacity > cfg.PenaltyMax {
		cfg.PenaltyCapacity = cfg.PenaltyMax
	}

	ga.population.Infeasible.Reevaluate(ctx)
}

// reset clears both subpopulations after stagnation. The global best
// stays in the history and in bestSolution; the engine replays its
// start-up phases on the fresh population.
func (ga *GeneticAlgorithm) reset(ctx *solver.Context) {
	ctx.History.AddMessage("Resetting")
	ga.population = NewPopulation(ctx)
	ga.numInitialized = 0
	ga.elitePending = false
	ga.nextPenaltyUpdate = ga.iterations
	ga.nextLogInterval = ga.iterations
	ga.currentBestCost = math.Inf(1)
	ga.bestIteration = ga.iterations
	ga.state = StateCreated
}

// log emits one progress line at the configured interval.
func (ga *GeneticAlgorithm) log(ctx *solver.Context) {
	ga.nextLogInterval += ctx.Config.LogInterval

	customers := float64(ctx.Problem.NumCustomers())
	log.Printf(
		"T(s): %.2f | Iter: %6d %4d | Feas %d %.2f %.2f | Inf %d %.2f %.2f | Div %.2f %.2f | Feas %.2f | Pen %.2f",
		ctx.ElapsedSeconds(),
		ga.iterations,
		ga.iterations-ga.bestIteration,
		ga.population.Feasible.Size(),
		ga.population.Feasible.BestCost(),
		ga.population.Feasible.AverageCost(ctx),
		ga.population.Infeasible.Size(),
		ga.population.Infeasible.BestCost(),
		ga.population.Infeasible.AverageCost(ctx),
		ga.population.Feasible.Diversity(ctx)/customers,
		ga.population.Infeasible.Diversity(ctx)/customers,
		ga.population.HistoryFraction(),
		ctx.Config.PenaltyCapacity,
	)
}
