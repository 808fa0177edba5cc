package shortestpath

import (
	"container/heap"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/msaflow/pkg/network"
)

// Find computes a shortest path from origin to dest using the edges' current
// cached costs.
//
// If origin == dest the result is an empty path of cost 0. The returned
// path is simple (no repeated nodes) because every node is settled at most
// once.
func Find(net *network.Network, origin, dest network.NodeID, opts ...Option) (Path, error) {
	var cfg Options
	for _, opt := range opts {
		opt(&cfg)
	}

	if net == nil {
		return Path{}, ErrNilNetwork
	}
	if net.NodeByID(origin) == nil {
		return Path{}, fmt.Errorf("%w: origin %d", ErrUnknownNode, origin)
	}
	if net.NodeByID(dest) == nil {
		return Path{}, fmt.Errorf("%w: destination %d", ErrUnknownNode, dest)
	}
	if origin == dest {
		return Path{}, nil
	}

	r := &runner{
		net:    net,
		opts:   cfg,
		labels: make([]label, net.NodeCount()),
		pq:     make(nodePQ, 0, net.NodeCount()),
	}
	if err := r.run(origin, dest); err != nil {
		return Path{}, err
	}

	if !r.labels[dest].settled {
		return Path{}, fmt.Errorf("%w: %s to %s", ErrUnreachable,
			net.NodeByID(origin).Name, net.NodeByID(dest).Name)
	}
	return r.path(origin, dest)
}

// label is the per-search scratch state of one node.
type label struct {
	dist    float64
	reached bool          // dist is meaningful
	settled bool          // dist is final
	pred    *network.Edge // edge used to reach this node, nil for the origin
}

// runner holds the mutable state for a single search.
type runner struct {
	net    *network.Network
	opts   Options
	labels []label // indexed by NodeID
	pq     nodePQ
}

func (r *runner) run(origin, dest network.NodeID) error {
	r.labels[origin] = label{dist: 0, reached: true}
	heap.Push(&r.pq, nodeItem{id: origin, dist: 0})

	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(nodeItem)
		u := item.id
		if r.labels[u].settled {
			continue // stale heap entry
		}
		r.labels[u].settled = true
		if u == dest {
			return nil
		}
		if err := r.relax(u); err != nil {
			return err
		}
	}
	return nil
}

// relax examines each non-ignored edge leaving u and improves the target's
// label on a strictly shorter distance.
func (r *runner) relax(u network.NodeID) error {
	du := r.labels[u].dist
	for _, e := range r.net.Outgoing(u) {
		if r.opts.Ignored[e.ID] {
			continue
		}
		c := e.Cost()
		if c < 0 || math.IsNaN(c) {
			return &CostError{Edge: e, Cost: c}
		}

		v := &r.labels[e.To]
		if v.settled {
			continue
		}
		nd := du + c
		if v.reached && nd >= v.dist {
			continue
		}
		v.dist = nd
		v.reached = true
		v.pred = e
		heap.Push(&r.pq, nodeItem{id: e.To, dist: nd})
	}
	return nil
}

// path walks the predecessor edges back from dest and reverses them.
func (r *runner) path(origin, dest network.NodeID) (Path, error) {
	var edges []*network.Edge
	for v := dest; v != origin; {
		e := r.labels[v].pred
		if e == nil || len(edges) >= len(r.labels) {
			// Settled nodes other than the origin always have a predecessor;
			// reaching here means the labels are corrupt.
			return Path{}, fmt.Errorf("%w: broken predecessor chain at %s", ErrUnreachable, r.net.NodeByID(v).Name)
		}
		edges = append(edges, e)
		v = e.From
	}
	slices.Reverse(edges)
	return Path{Edges: edges, Cost: r.labels[dest].dist}, nil
}

// Nodes returns the node sequence of the path, origin first.
// An empty path has no nodes.
func (p Path) Nodes() []network.NodeID {
	if len(p.Edges) == 0 {
		return nil
	}
	ids := make([]network.NodeID, 0, len(p.Edges)+1)
	ids = append(ids, p.Edges[0].From)
	for _, e := range p.Edges {
		ids = append(ids, e.To)
	}
	return ids
}

// String renders the path as its edge names joined by " - ", the format used
// in assignment reports.
func (p Path) String() string {
	names := make([]string, len(p.Edges))
	for i, e := range p.Edges {
		names[i] = e.Name
	}
	return strings.Join(names, " - ")
}

// nodeItem is a heap entry: a node and the distance it was pushed with.
type nodeItem struct {
	id   network.NodeID
	dist float64
}

// nodePQ is a min-heap of nodeItem ordered by distance, then node ID.
// Outdated entries stay in the heap and are skipped when popped.
type nodePQ []nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
