package solver_test

import (
	"os"

	"github.com/martsime/hybridcvrp/solver"
)

// ExamplePrintSolution shows the classic CVRP text form of a solution.
func ExamplePrintSolution() {
	sol := solver.Solution{
		Cost:   42,
		Routes: [][]int{{3, 1}, {2, 4, 5}},
	}
	solver.PrintSolution(os.Stdout, sol)

	// Output:
	// Route #1: 3 1
	// Route #2: 2 4 5
	// Cost 42
}
