// Package genetic implements the population layer of the hybrid genetic
// search: the Split decoder turning giant tours into optimal route
// partitions, the two-subpopulation manager with biased fitness and
// broken-pairs diversity, and the generational engine tying selection,
// OX crossover, education (Split → local search → ruin-and-recreate),
// penalty control, elite education and restarts together.
package genetic
