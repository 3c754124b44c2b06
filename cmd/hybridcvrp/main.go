// Command hybridcvrp runs the hybrid genetic search on one CVRP
// instance:
//
//	hybridcvrp [flags] <instance>
//
// Flags override values from the optional YAML config file. Exit code 0
// means a completed run (the time limit is the normal terminator);
// configuration and instance errors exit non-zero before the search
// starts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/martsime/hybridcvrp/cvrp"
	"github.com/martsime/hybridcvrp/genetic"
	"github.com/martsime/hybridcvrp/solver"
	"github.com/martsime/hybridcvrp/tsplib"
)

func main() {
	var (
		configPath = flag.String("c", "", "Path to a YAML config file")
		outputPath = flag.String("o", "", "Path to the solution output file")
		timeLimit  = flag.Int("t", 0, "Time limit in seconds (overrides config)")
		iterations = flag.Int("i", 0, "Max iterations without improvement (overrides config)")
		rounded    = flag.Bool("r", false, "Round distances to the nearest integer")
		seed       = flag.Int64("s", 0, "Deterministic seed (0 keeps the config value)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <instance>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	instancePath := flag.Arg(0)

	cfg := cvrp.DefaultConfig()
	if *configPath != "" {
		if err := cfg.PatchFromFile(*configPath); err != nil {
			log.Printf("At %s: %s", *configPath, err)
			os.Exit(1)
		}
	}

	// Flags win over the file.
	cfg.InstancePath = instancePath
	if *outputPath != "" {
		cfg.SolutionPath = *outputPath
	}
	if *timeLimit > 0 {
		cfg.TimeLimit = *timeLimit
	}
	if *iterations > 0 {
		cfg.MaxIterationsWithoutImprovement = *iterations
	}
	if *rounded {
		cfg.RoundDistances = true
	}
	if *seed != 0 {
		cfg.Deterministic = true
		cfg.Seed = *seed
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}

	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid config: %s", err)
		os.Exit(1)
	}

	log.Printf("Loading problem file: %s", instancePath)
	instance, err := tsplib.ParseFile(instancePath)
	if err != nil {
		log.Printf("At %s: %s", instancePath, err)
		os.Exit(1)
	}
	problem, err := instance.Builder().Build(&cfg)
	if err != nil {
		log.Printf("At %s: %s", instancePath, err)
		os.Exit(1)
	}
	log.Printf("Problem load complete: %d customers, capacity %d",
		problem.NumCustomers(), problem.Capacity())
	if cfg.Deterministic {
		log.Printf("Deterministic with seed: %d", cfg.Seed)
	}

	ctx := solver.NewContext(problem, &cfg)
	engine := genetic.New(ctx)
	solver.New(ctx, engine).Run()

	best := engine.BestSolution()
	if best == nil {
		log.Println("No feasible solution found")
		os.Exit(0)
	}

	sol := solver.BuildSolution(ctx, best)
	solver.PrintSolution(os.Stdout, sol)

	if cfg.SolutionPath != "" {
		if err := solver.WriteSolutionFile(cfg.SolutionPath, sol); err != nil {
			log.Printf("At %s: %s", cfg.SolutionPath, err)
		}
	}
}
