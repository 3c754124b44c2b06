package localsearch

import "github.com/martsime/hybridcvrp/cvrp"

// Node is one location inside the linked route view. Customer nodes are
// allocated once per search and re-linked on every load; each route owns
// a private pair of depot sentinels (Number 0) so route boundaries are
// ordinary links.
type Node struct {
	Number int
	Angle  int32

	Successor   *Node
	Predecessor *Node
	Route       *Route

	// Position is the index within the route, depot = 0.
	Position int

	// LastTested is the move counter value when this node was last used
	// as the pivot u; stale routes are skipped against it.
	LastTested int64

	// CumDistance and CumLoad are running totals from the route start up
	// to and including this node, maintained by updateRoute.
	CumDistance float64
	CumLoad     int64

	// DeltaRemoval is the distance change of removing this node from its
	// route, cached by the SWAP* preprocessing.
	DeltaRemoval float64
}

// IsDepot reports whether the node is a depot sentinel.
func (n *Node) IsDepot() bool { return n.Number == 0 }

// Route is one vehicle tour in the linked view, with the aggregates every
// move delta needs in O(1).
type Route struct {
	Index int

	StartDepot *Node
	EndDepot   *Node

	NumCustomers int

	// LastModified is the move counter value of the last change; paired
	// with Node.LastTested to skip unchanged route/customer combinations.
	LastModified       int64
	LastTestedSwapStar int64

	Sector cvrp.CircleSector

	Distance float64
	Load     int64
	// Overload is Load − capacity; negative means slack.
	Overload int64
	// Cost is the penalized route cost under the search's penalty.
	Cost float64
}

// IsEmpty reports whether the route visits no customer.
func (r *Route) IsEmpty() bool { return r.NumCustomers == 0 }

// Customers collects the customer numbers of the route in visit order.
func (r *Route) Customers() []int {
	out := make([]int, 0, r.NumCustomers)
	for node := r.StartDepot.Successor; node != nil && !node.IsDepot(); node = node.Successor {
		out = append(out, node.Number)
	}

	return out
}

// linkNodes makes b the successor of a.
func linkNodes(a, b *Node) {
	a.Successor = b
	b.Predecessor = a
}

// insertNodeAfter unlinks u from its current position and re-links it
// directly after v. Aggregates are not touched; callers update routes.
func insertNodeAfter(u, v *Node) {
	uPrev := u.Predecessor
	uNext := u.Successor
	vNext := v.Successor
	linkNodes(uPrev, uNext)
	linkNodes(v, u)
	linkNodes(u, vNext)
}

// forwardReverse reverses the links of the chain following from, walking
// successors. When the walk reaches the end of the chain and newFirst is
// non-nil, newFirst becomes the predecessor of the last reversed node.
// When to is non-nil the reversal stops after processing it.
func forwardReverse(from, to, newFirst *Node) {
	node := from.Successor
	for node != nil {
		next := node.Successor
		if next == nil && newFirst != nil {
			linkNodes(newFirst, from)
		} else {
			linkNodes(node, from)
		}
		if to != nil && node == to {
			break
		}
		from = node
		node = next
	}
}

// backwardReverse reverses the links of the chain preceding from, walking
// predecessors. When the walk reaches the start of the chain and newLast
// is non-nil, from's reversed tail is attached to newLast. When to is
// non-nil the reversal stops after processing it.
func backwardReverse(from, to, newLast *Node) {
	node := from.Predecessor
	for node != nil {
		next := node.Predecessor
		if next == nil && newLast != nil {
			linkNodes(from, newLast)
		} else {
			linkNodes(from, node)
		}
		if to != nil && node == to {
			break
		}
		from = node
		node = next
	}
}

// replaceEndDepot walks forward from the given node and substitutes the
// chain's final depot sentinel with endDepot. Used by the inter-route
// 2-opt whose tail swap moves a suffix between routes.
func replaceEndDepot(from, endDepot *Node) {
	next := from.Successor
	for next != nil {
		if next.Successor == nil {
			linkNodes(from, endDepot)
		}
		from = next
		next = next.Successor
	}
}
