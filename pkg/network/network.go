package network

import (
	"math"
	"slices"

	apperr "github.com/matzehuels/msaflow/pkg/errors"
)

// Network is a directed traffic network with cost functions and OD demand.
//
// The zero value is not usable; create networks with New.
type Network struct {
	name      string
	funcs     map[string]*CostFunction
	funcOrder []string
	nodes     []*Node
	byName    map[string]NodeID
	edges     []*Edge
	outgoing  [][]*Edge // NodeID -> outgoing edges, in insertion order
	od        []ODPair
	odIndex   map[string]int
}

// New creates an empty network with the given display name.
func New(name string) *Network {
	return &Network{
		name:    name,
		funcs:   make(map[string]*CostFunction),
		byName:  make(map[string]NodeID),
		odIndex: make(map[string]int),
	}
}

// Name returns the network's display name.
func (n *Network) Name() string { return n.name }

// AddFunction registers a cost function. Redefining a name is a definition
// error.
func (n *Network) AddFunction(f *CostFunction) error {
	if _, exists := n.funcs[f.Name]; exists {
		return apperr.New(apperr.ErrCodeInvalidDefinition, "cost function %q defined twice", f.Name)
	}
	n.funcs[f.Name] = f
	n.funcOrder = append(n.funcOrder, f.Name)
	return nil
}

// DefineFunction parses and registers a cost function in one step.
func (n *Network) DefineFunction(name string, params []string, body string) (*CostFunction, error) {
	f, err := NewCostFunction(name, params, body)
	if err != nil {
		return nil, err
	}
	if err := n.AddFunction(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Function returns the cost function with the given name.
func (n *Network) Function(name string) (*CostFunction, bool) {
	f, ok := n.funcs[name]
	return f, ok
}

// Functions returns the registered cost functions in definition order.
func (n *Network) Functions() []*CostFunction {
	out := make([]*CostFunction, len(n.funcOrder))
	for i, name := range n.funcOrder {
		out[i] = n.funcs[name]
	}
	return out
}

// AddNode adds a node and returns its ID. Names must be non-empty and unique.
func (n *Network) AddNode(name string) (NodeID, error) {
	if name == "" {
		return 0, apperr.New(apperr.ErrCodeInvalidNetwork, "node name cannot be empty")
	}
	if _, exists := n.byName[name]; exists {
		return 0, apperr.New(apperr.ErrCodeInvalidNetwork, "duplicate node %q", name)
	}
	id := NodeID(len(n.nodes))
	n.nodes = append(n.nodes, &Node{ID: id, Name: name})
	n.byName[name] = id
	n.outgoing = append(n.outgoing, nil)
	return id, nil
}

// AddEdge adds a directed edge from → to bound to the named cost function.
//
// constants are bound to the function's constants in declaration order and
// their count must match. The edge's initial cost is evaluated at zero flow.
// Referencing an unknown function is a reference error
// (ErrCodeUnknownFunction); unknown nodes or a constant-count mismatch are
// ErrCodeInvalidNetwork.
func (n *Network) AddEdge(from, to, function string, constants []float64) (*Edge, error) {
	src, ok := n.Node(from)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeInvalidNetwork, "edge %s-%s: unknown source node %q", from, to, from)
	}
	dst, ok := n.Node(to)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeInvalidNetwork, "edge %s-%s: unknown target node %q", from, to, to)
	}
	fn, ok := n.funcs[function]
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnknownFunction, "edge %s-%s references unknown cost function %q", from, to, function)
	}
	if len(constants) != len(fn.Constants) {
		return nil, apperr.New(apperr.ErrCodeInvalidNetwork,
			"edge %s-%s: cost function %q expects %d constants, got %d",
			from, to, function, len(fn.Constants), len(constants))
	}

	e, err := newEdge(EdgeID(len(n.edges)), src, dst, fn, slices.Clone(constants))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidNetwork, err, "edge %s-%s", from, to)
	}
	n.edges = append(n.edges, e)
	n.outgoing[src.ID] = append(n.outgoing[src.ID], e)
	return e, nil
}

// AddBidirectionalEdge adds a → b and b → a with the same function and
// constants. The two edges carry independent flows.
func (n *Network) AddBidirectionalEdge(a, b, function string, constants []float64) (*Edge, *Edge, error) {
	fwd, err := n.AddEdge(a, b, function, constants)
	if err != nil {
		return nil, nil, err
	}
	rev, err := n.AddEdge(b, a, function, constants)
	if err != nil {
		return nil, nil, err
	}
	return fwd, rev, nil
}

// AddODPair adds travel demand between two existing nodes.
// Origin and destination must differ, demand must be non-negative, and a
// pair may only be declared once.
func (n *Network) AddODPair(origin, destination string, demand float64) error {
	o, ok := n.Node(origin)
	if !ok {
		return apperr.New(apperr.ErrCodeInvalidNetwork, "od pair %s|%s: unknown origin %q", origin, destination, origin)
	}
	d, ok := n.Node(destination)
	if !ok {
		return apperr.New(apperr.ErrCodeInvalidNetwork, "od pair %s|%s: unknown destination %q", origin, destination, destination)
	}
	if o.ID == d.ID {
		return apperr.New(apperr.ErrCodeInvalidNetwork, "od pair %s|%s: origin equals destination", origin, destination)
	}
	if demand < 0 || math.IsNaN(demand) {
		return apperr.New(apperr.ErrCodeInvalidNetwork, "od pair %s|%s: demand must be non-negative (got %v)", origin, destination, demand)
	}
	key := origin + "|" + destination
	if _, exists := n.odIndex[key]; exists {
		return apperr.New(apperr.ErrCodeInvalidNetwork, "od pair %s declared twice", key)
	}
	n.odIndex[key] = len(n.od)
	n.od = append(n.od, ODPair{Origin: o.ID, Destination: d.ID, Demand: demand, key: key})
	return nil
}

// Node returns the node with the given name.
func (n *Network) Node(name string) (*Node, bool) {
	id, ok := n.byName[name]
	if !ok {
		return nil, false
	}
	return n.nodes[id], true
}

// NodeByID returns the node with the given ID, or nil if out of range.
func (n *Network) NodeByID(id NodeID) *Node {
	if id < 0 || int(id) >= len(n.nodes) {
		return nil
	}
	return n.nodes[id]
}

// Nodes returns all nodes in insertion order. The slice is a copy; the
// nodes are shared.
func (n *Network) Nodes() []*Node { return slices.Clone(n.nodes) }

// Edges returns all edges in insertion order. The slice is a copy; the
// edges are shared, so SetFlow on them mutates the network.
func (n *Network) Edges() []*Edge { return slices.Clone(n.edges) }

// Edge returns the edge with the given ID, or nil if out of range.
func (n *Network) Edge(id EdgeID) *Edge {
	if id < 0 || int(id) >= len(n.edges) {
		return nil
	}
	return n.edges[id]
}

// Outgoing returns the edges leaving the node, in insertion order.
// The returned slice must not be modified.
func (n *Network) Outgoing(id NodeID) []*Edge {
	if id < 0 || int(id) >= len(n.outgoing) {
		return nil
	}
	return n.outgoing[id]
}

// ODPairs returns the OD pairs in declaration order.
func (n *Network) ODPairs() []ODPair { return slices.Clone(n.od) }

// ODPair returns the pair with the given "<origin>|<destination>" key.
func (n *Network) ODPair(key string) (ODPair, bool) {
	i, ok := n.odIndex[key]
	if !ok {
		return ODPair{}, false
	}
	return n.od[i], true
}

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int { return len(n.nodes) }

// EdgeCount returns the number of edges.
func (n *Network) EdgeCount() int { return len(n.edges) }

// TotalDemand returns the sum of all OD demands.
func (n *Network) TotalDemand() float64 {
	var sum float64
	for _, p := range n.od {
		sum += p.Demand
	}
	return sum
}

// ResetFlows sets every edge's flow and auxiliary flow to zero and
// recomputes the costs.
func (n *Network) ResetFlows() error {
	for _, e := range n.edges {
		e.AuxFlow = 0
		if err := e.SetFlow(0); err != nil {
			return err
		}
	}
	return nil
}
