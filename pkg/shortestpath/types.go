// Package shortestpath finds single-source, single-destination shortest paths
// over the current edge costs of a network.
//
// The search is label-setting (Dijkstra) over non-negative costs:
//
//   - Each call owns its scratch labels (distance, predecessor, settled);
//     nothing is stored on the network, so searches cannot leak state into
//     each other.
//   - Distances are optional values (a label is either unreached or carries
//     a distance), never a large sentinel number.
//   - The priority queue orders by (distance, node ID). Ties therefore break
//     by node insertion order and repeated searches over the same cost
//     snapshot return the same path.
//   - The search stops as soon as the destination is settled.
//   - Relaxation reads each edge's cached cost; costs are never re-evaluated
//     during a search.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E) (lazy decrease-key may push up to E heap entries)
//
// Errors (sentinel):
//
//   - ErrNilNetwork   if the network is nil.
//   - ErrUnknownNode  if origin or destination is not a node of the network.
//   - ErrUnreachable  if no path connects origin to destination.
//   - ErrInvalidCost  if a relaxed edge has a negative or NaN cost.
//
// Example usage:
//
//	p, err := shortestpath.Find(net, a.ID, d.ID)
//	if errors.Is(err, shortestpath.ErrUnreachable) {
//	    // no route
//	}
//	fmt.Println(p.Cost, p)
package shortestpath

import (
	"errors"
	"fmt"

	"github.com/matzehuels/msaflow/pkg/network"
)

// Sentinel errors returned by Find.
var (
	// ErrNilNetwork indicates that a nil *network.Network was passed to Find.
	ErrNilNetwork = errors.New("shortestpath: network is nil")

	// ErrUnknownNode indicates that the origin or destination ID is not a
	// node of the network.
	ErrUnknownNode = errors.New("shortestpath: unknown node")

	// ErrUnreachable indicates that the destination cannot be reached from
	// the origin with the non-ignored edges.
	ErrUnreachable = errors.New("shortestpath: unreachable destination")

	// ErrInvalidCost indicates that an edge's cached cost is negative or NaN,
	// which label-setting search cannot handle.
	ErrInvalidCost = errors.New("shortestpath: negative or NaN edge cost")
)

// Options configures a search.
//
// Ignored – edges excluded from expansion (for k-shortest-path style
// variants). A nil or empty set ignores nothing.
type Options struct {
	Ignored map[network.EdgeID]bool
}

// Option represents a functional option for configuring Find.
type Option func(*Options)

// WithIgnored excludes the given edges from the search. May be passed more
// than once; the sets accumulate.
func WithIgnored(ids ...network.EdgeID) Option {
	return func(o *Options) {
		if len(ids) == 0 {
			return
		}
		if o.Ignored == nil {
			o.Ignored = make(map[network.EdgeID]bool, len(ids))
		}
		for _, id := range ids {
			o.Ignored[id] = true
		}
	}
}

// Path is an ordered sequence of edges from an origin to a destination.
type Path struct {
	Edges []*network.Edge
	Cost  float64 // Sum of the edges' cached costs at search time
}

// CostError reports the edge whose cached cost stopped the search. It matches
// ErrInvalidCost with errors.Is.
type CostError struct {
	Edge *network.Edge
	Cost float64
}

func (e *CostError) Error() string {
	return fmt.Sprintf("%v: edge %s cost=%v", ErrInvalidCost, e.Edge.Name, e.Cost)
}

func (e *CostError) Is(target error) bool { return target == ErrInvalidCost }
