// Package tsplib parses CVRP instances in the TSPLIB/DIMACS text format:
// a header with DIMENSION and CAPACITY, a NODE_COORD_SECTION with one
// "id x y" line per node, and a DEMAND_SECTION with one "id demand" line
// per node. Values may be separated by spaces, tabs or colons. The node
// with the smallest id is the depot by convention.
package tsplib
