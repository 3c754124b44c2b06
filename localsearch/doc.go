// Package localsearch implements the education phase of the hybrid
// genetic search: a granular route-improvement descent over a
// doubly-linked view of the routes, followed by SWAP* exchanges between
// geometrically overlapping routes.
//
// Phase A (granular RI) visits customers in random order and, for each
// customer u, evaluates a fixed bundle of moves against every neighbour v
// of u's granular neighbour list: single and double relocations (plain
// and reversed), one-with-one / two-with-one / two-with-two swaps, and
// intra-/inter-route 2-opt variants. A move is applied iff it strictly
// decreases the penalized cost.
//
// Phase B (SWAP*) considers route pairs whose polar circle sectors
// overlap and exchanges one customer from each route, inserting each
// into the best position of the other route (not necessarily the
// vacated one), using a per-route cache of the three best insertion
// positions per customer.
//
// Both phases share penalty-aware costs, so infeasible intermediate
// states are explored and priced rather than forbidden. The search
// terminates when neither phase finds an improving move: every accepted
// move strictly decreases the penalized cost, so the descent is finite.
package localsearch
