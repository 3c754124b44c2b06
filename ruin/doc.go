// Package ruin implements the ruin-and-recreate mutation of the hybrid
// genetic search: an adjacent-string-removal destroy step, a greedy
// reinsertion with blinks, and the simulated-annealing acceptance loop
// that drives both the per-generation mutation and the long elite
// education schedule.
//
// Ruin picks a random seed customer and, walking its granular neighbour
// list, removes a string (or a split string that preserves a geometric
// middle segment) from each visited route until the target number of
// routes is ruined. Recreate reinserts the removed customers in a
// randomized order, placing each at its cheapest position while skipping
// any candidate position with the configured blink probability.
//
// The surrounding annealing loop cools geometrically from the start to
// the final temperature over ⌈γ·N⌉ iterations and accepts a candidate
// when cost < current − T·ln(U). Elite education runs the same loop with
// its own schedule and lets the capacity penalty adapt along the way.
package ruin
