package genetic_test

import (
	"math"
	"strings"
	"testing"

	"github.com/martsime/hybridcvrp/cvrp"
	"github.com/martsime/hybridcvrp/genetic"
	"github.com/martsime/hybridcvrp/solver"
)

// quickConfig returns a config sized for fast engine tests: tiny
// population, no elite-education warm-up, deterministic stream.
func quickConfig(seed int64) cvrp.Config {
	cfg := cvrp.DefaultConfig()
	cfg.Deterministic = true
	cfg.Seed = seed
	cfg.TimeLimit = 30
	cfg.EliteEducation = false
	cfg.MinPopulationSize = 5
	cfg.PopulationLambda = 5
	cfg.InitialIndividuals = 10
	cfg.NumElites = 2
	cfg.NumDiversityClosest = 2
	cfg.PenaltyCapacity = 10

	return cfg
}

func buildProblem(t *testing.T, cfg *cvrp.Config, nodes [][4]float64, capacity int64) *solver.Context {
	t.Helper()
	b := cvrp.NewProblemBuilder()
	for _, n := range nodes {
		b.AddNode(int(n[0]), int64(n[1]), n[2], n[3])
	}
	b.AddCapacity(capacity)
	problem, err := b.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	return solver.NewContext(problem, cfg)
}

// TestEngine_TrivialTwoCustomers: depot (0,0), customers (1,0) and
// (-1,0) with unit demands and capacity 2, rounded distances. The
// optimal tour 0-1-2-0 costs 4.
func TestEngine_TrivialTwoCustomers(t *testing.T) {
	cfg := quickConfig(7)
	cfg.RoundDistances = true
	cfg.MaxIterations = 100

	ctx := buildProblem(t, &cfg, [][4]float64{
		{1, 0, 0, 0},
		{2, 1, 1, 0},
		{3, 1, -1, 0},
	}, 2)

	engine := genetic.New(ctx)
	solver.New(ctx, engine).Run()

	best := engine.BestSolution()
	if best == nil {
		t.Fatal("no feasible solution found")
	}
	if err := best.Validate(ctx.Problem.NumCustomers()); err != nil {
		t.Fatalf("best solution corrupt: %v", err)
	}
	if best.Evaluation.Distance != 4 {
		t.Errorf("best distance = %v, want 4", best.Evaluation.Distance)
	}
	if best.NumNonemptyRoutes() != 1 {
		t.Errorf("best uses %d routes, want 1", best.NumNonemptyRoutes())
	}
}

// TestEngine_SingleCustomer: the smallest instance yields the single
// out-and-back route.
func TestEngine_SingleCustomer(t *testing.T) {
	cfg := quickConfig(3)
	cfg.MaxIterations = 20
	cfg.InitialIndividuals = 3

	ctx := buildProblem(t, &cfg, [][4]float64{
		{1, 0, 0, 0},
		{2, 2, 3, 4},
	}, 5)

	engine := genetic.New(ctx)
	solver.New(ctx, engine).Run()

	best := engine.BestSolution()
	if best == nil {
		t.Fatal("no feasible solution found")
	}
	if best.NumNonemptyRoutes() != 1 || best.Evaluation.Distance != 10 {
		t.Errorf("best = %d routes, distance %v; want 1 route of distance 10",
			best.NumNonemptyRoutes(), best.Evaluation.Distance)
	}
}

// TestEngine_CapacityForcing: four unit-demand customers on the unit
// cross with capacity 2 force exactly two routes; the optimum pairs
// adjacent customers for a total of 4 + 2√2.
func TestEngine_CapacityForcing(t *testing.T) {
	cfg := quickConfig(11)
	cfg.MaxIterations = 300

	ctx := buildProblem(t, &cfg, [][4]float64{
		{1, 0, 0, 0},
		{2, 1, 1, 0},
		{3, 1, -1, 0},
		{4, 1, 0, 1},
		{5, 1, 0, -1},
	}, 2)

	engine := genetic.New(ctx)
	solver.New(ctx, engine).Run()

	best := engine.BestSolution()
	if best == nil {
		t.Fatal("no feasible solution found")
	}
	if got := best.NumNonemptyRoutes(); got != 2 {
		t.Errorf("best uses %d routes, want exactly 2", got)
	}
	want := 4 + 2*math.Sqrt2
	if math.Abs(best.Evaluation.Distance-want) > 1e-6 {
		t.Errorf("best distance = %v, want %v", best.Evaluation.Distance, want)
	}
}

// TestEngine_Determinism: identical seeds reproduce the identical best
// solution and the identical sequence of improvement messages.
func TestEngine_Determinism(t *testing.T) {
	run := func() (*solver.Individual, []string) {
		cfg := quickConfig(99)
		cfg.MaxIterations = 150

		ctx := buildProblem(t, &cfg, [][4]float64{
			{1, 0, 0, 0},
			{2, 1, 1, 0},
			{3, 1, -1, 0},
			{4, 1, 0, 1},
			{5, 1, 0, -1},
			{6, 1, 2, 2},
			{7, 1, -2, -2},
		}, 3)

		engine := genetic.New(ctx)
		solver.New(ctx, engine).Run()

		var messages []string
		for _, m := range ctx.History.Messages() {
			messages = append(messages, m.Message)
		}

		return engine.BestSolution(), messages
	}

	bestA, messagesA := run()
	bestB, messagesB := run()

	if bestA == nil || bestB == nil {
		t.Fatal("runs found no feasible solution")
	}
	if bestA.PenalizedCost() != bestB.PenalizedCost() {
		t.Errorf("best costs differ: %v vs %v", bestA.PenalizedCost(), bestB.PenalizedCost())
	}
	if len(bestA.Genotype) != len(bestB.Genotype) {
		t.Fatal("genotype lengths differ")
	}
	for i := range bestA.Genotype {
		if bestA.Genotype[i] != bestB.Genotype[i] {
			t.Fatalf("genotypes differ at %d", i)
		}
	}
	if len(messagesA) != len(messagesB) {
		t.Fatalf("message counts differ: %d vs %d", len(messagesA), len(messagesB))
	}
	for i := range messagesA {
		if messagesA[i] != messagesB[i] {
			t.Errorf("message %d differs: %q vs %q", i, messagesA[i], messagesB[i])
		}
	}
}

// TestEngine_StagnationRestart: a tiny stagnation threshold triggers at
// least one restart, and the global best never regresses across them.
func TestEngine_StagnationRestart(t *testing.T) {
	cfg := quickConfig(5)
	cfg.MaxIterations = 200
	cfg.MaxIterationsWithoutImprovement = 10

	ctx := buildProblem(t, &cfg, [][4]float64{
		{1, 0, 0, 0},
		{2, 1, 1, 0},
		{3, 1, -1, 0},
		{4, 1, 0, 1},
		{5, 1, 0, -1},
	}, 2)

	engine := genetic.New(ctx)
	solver.New(ctx, engine).Run()

	restarts := 0
	for _, m := range ctx.History.Messages() {
		if strings.Contains(m.Message, "Resetting") {
			restarts++
		}
	}
	if restarts == 0 {
		t.Error("expected at least one restart")
	}

	// Best costs recorded in the history are monotonically decreasing.
	prev := math.Inf(1)
	for _, entry := range ctx.History.Entries() {
		if entry.Solution.Cost > prev {
			t.Errorf("history regressed: %v after %v", entry.Solution.Cost, prev)
		}
		prev = entry.Solution.Cost
	}
	if engine.BestSolution() == nil {
		t.Fatal("no best solution after restarts")
	}
}

// TestEngine_TimeLimitHonored: with no iteration bound the wall clock is
// the only terminator; the run must stop shortly after the limit with a
// feasible solution in hand.
func TestEngine_TimeLimitHonored(t *testing.T) {
	if testing.Short() {
		t.Skip("runs for a full wall-clock second")
	}

	cfg := quickConfig(29)
	cfg.TimeLimit = 1
	cfg.MaxIterations = 0
	cfg.InitialIndividuals = 20

	nodes := [][4]float64{{0, 0, 0, 0}}
	for i := 1; i <= 60; i++ {
		nodes = append(nodes, [4]float64{
			float64(i), float64(1 + i%3), float64((i * 7) % 50), float64((i * 13) % 50),
		})
	}
	ctx := buildProblem(t, &cfg, nodes, 10)

	engine := genetic.New(ctx)
	solver.New(ctx, engine).Run()

	elapsed := ctx.Elapsed().Seconds()
	if elapsed < 1.0 || elapsed > 2.5 {
		t.Errorf("terminated after %.2fs, want within [1.0, 2.5]s", elapsed)
	}

	best := engine.BestSolution()
	if best == nil {
		t.Fatal("no feasible solution within the time limit")
	}
	if err := best.Validate(ctx.Problem.NumCustomers()); err != nil {
		t.Fatalf("best solution corrupt: %v", err)
	}
	if !best.IsFeasible() {
		t.Error("best solution is not feasible")
	}
}

// TestEngine_EliteEducationWarmup runs the long-schedule warm-up path
// on a small instance with a tiny schedule.
func TestEngine_EliteEducationWarmup(t *testing.T) {
	cfg := quickConfig(13)
	cfg.MaxIterations = 60
	cfg.EliteEducation = true
	cfg.EliteEducationProblemSizeLimit = 1
	cfg.EliteEducationGamma = 3
	cfg.EliteEducationStartTemp = 5
	cfg.EliteEducationFinalTemp = 1

	ctx := buildProblem(t, &cfg, [][4]float64{
		{1, 0, 0, 0},
		{2, 1, 1, 0},
		{3, 1, -1, 0},
		{4, 1, 0, 1},
		{5, 1, 0, -1},
	}, 2)

	engine := genetic.New(ctx)
	solver.New(ctx, engine).Run()

	best := engine.BestSolution()
	if best == nil {
		t.Fatal("no feasible solution found")
	}
	if err := best.Validate(ctx.Problem.NumCustomers()); err != nil {
		t.Fatalf("best solution corrupt: %v", err)
	}
}
