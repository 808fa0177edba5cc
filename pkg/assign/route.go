package assign

import (
	"strconv"
	"strings"

	"github.com/matzehuels/msaflow/pkg/network"
	"github.com/matzehuels/msaflow/pkg/shortestpath"
)

// RouteKey is the structural identity of a route: its edge IDs in order.
type RouteKey string

// KeyOf returns the RouteKey of an edge sequence.
func KeyOf(edges []*network.Edge) RouteKey {
	var b strings.Builder
	for i, e := range edges {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(int(e.ID)))
	}
	return RouteKey(b.String())
}

// Route is a simple path between an OD pair together with its assigned flow.
type Route struct {
	Key   RouteKey
	Edges []*network.Edge
	Flow  float64
}

// Cost returns the sum of the current costs of the route's edges.
func (r *Route) Cost() float64 {
	var c float64
	for _, e := range r.Edges {
		c += e.Cost()
	}
	return c
}

// String renders the route as "A-B - B-D".
func (r *Route) String() string {
	return shortestpath.Path{Edges: r.Edges}.String()
}

// PairRoutes holds every route discovered for one OD pair, in discovery order.
type PairRoutes struct {
	Pair   network.ODPair
	Routes []*Route

	index map[RouteKey]*Route
}

// Route looks up a tracked route by key.
func (p *PairRoutes) Route(key RouteKey) (*Route, bool) {
	r, ok := p.index[key]
	return r, ok
}

// Flow returns the total flow over the pair's routes.
func (p *PairRoutes) Flow() float64 {
	var f float64
	for _, r := range p.Routes {
		f += r.Flow
	}
	return f
}

// track returns the route for path, appending it with zero flow when unseen.
func (p *PairRoutes) track(path shortestpath.Path) (*Route, bool) {
	key := KeyOf(path.Edges)
	if r, ok := p.index[key]; ok {
		return r, false
	}
	r := &Route{Key: key, Edges: path.Edges}
	p.Routes = append(p.Routes, r)
	p.index[key] = r
	return r, true
}

// RouteTable is the set of routes tracked per OD pair. Pairs keep the
// network's OD insertion order and routes are only ever appended.
type RouteTable struct {
	pairs []*PairRoutes
	byKey map[string]*PairRoutes
}

func newRouteTable(ods []network.ODPair) *RouteTable {
	t := &RouteTable{
		pairs: make([]*PairRoutes, len(ods)),
		byKey: make(map[string]*PairRoutes, len(ods)),
	}
	for i, od := range ods {
		p := &PairRoutes{Pair: od, index: make(map[RouteKey]*Route)}
		t.pairs[i] = p
		t.byKey[od.Key()] = p
	}
	return t
}

// Pairs returns the per-pair route sets in OD insertion order.
func (t *RouteTable) Pairs() []*PairRoutes { return t.pairs }

// Pair returns the routes of the OD pair with the given "O|D" key.
func (t *RouteTable) Pair(key string) (*PairRoutes, bool) {
	p, ok := t.byKey[key]
	return p, ok
}

// Len returns the total number of tracked routes.
func (t *RouteTable) Len() int {
	n := 0
	for _, p := range t.pairs {
		n += len(p.Routes)
	}
	return n
}
