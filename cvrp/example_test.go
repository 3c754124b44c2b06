package cvrp_test

import (
	"fmt"

	"github.com/martsime/hybridcvrp/cvrp"
)

// ExampleProblemBuilder loads a 3-4-5 triangle instance and inspects the
// precomputed model.
func ExampleProblemBuilder() {
	cfg := cvrp.DefaultConfig()

	b := cvrp.NewProblemBuilder()
	b.AddNode(1, 0, 0, 0) // depot
	b.AddNode(2, 4, 3, 0)
	b.AddNode(3, 2, 3, 4)
	b.AddCapacity(5)

	problem, err := b.Build(&cfg)
	if err != nil {
		fmt.Println("build failed:", err)
		return
	}

	fmt.Println("customers:", problem.NumCustomers())
	fmt.Println("capacity:", problem.Capacity())
	fmt.Println("d(depot,1):", problem.Distance(0, 1))
	fmt.Println("d(1,2):", problem.Distance(1, 2))
	fmt.Println("total demand:", problem.TotalDemand())

	// Output:
	// customers: 2
	// capacity: 5
	// d(depot,1): 3
	// d(1,2): 4
	// total demand: 6
}
