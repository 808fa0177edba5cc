// Package network holds the topology and the mutable per-edge cost state of
// a traffic network.
//
// # Overview
//
// A [Network] is a directed multigraph of [Node] values connected by [Edge]
// values. Every edge is bound to a [CostFunction], an arithmetic expression
// over one free parameter (the edge flow) and a list of named constants whose
// values are declared per edge. Travel demand is expressed as [ODPair] values.
//
// Build a network incrementally:
//
//	net := network.New("braess")
//	net.DefineFunction("bpr", []string{"f"}, "t*(1+0.15*(f/c)^4)")
//	net.AddNode("A")
//	net.AddNode("B")
//	net.AddEdge("A", "B", "bpr", []float64{10, 100}) // t=10, c=100
//	net.AddODPair("A", "B", 50)
//
// Constant values bind to the function's constants in order of their first
// appearance in the expression (t, then c above).
//
// # Indices
//
// Name lookups and outgoing-edge lists are indexed when nodes and edges are
// added, so [Network.Node] and [Network.Outgoing] are O(1). Nodes and edges
// are identified by their insertion index ([NodeID], [EdgeID]); two edges
// declared between the same pair of nodes stay distinct.
//
// # Cost State
//
// An edge's flow and cost are only changed together through [Edge.SetFlow],
// which re-evaluates the cost function at the new flow. [Edge.AuxFlow] is a
// scratch accumulator owned by the assignment engine.
//
// Shortest-path scratch state (distances, predecessors) is not stored here;
// nodes are immutable topology.
//
// # Preconditions
//
// Cost functions are assumed non-negative and non-decreasing in flow. This is
// not checked: the equilibrium guarantees of the assignment depend on it, but
// the network accepts whatever the input declares.
//
// # Concurrency
//
// A Network is not safe for concurrent mutation. Read-only access (lookups,
// reading costs) from several goroutines is safe while no flow is being set.
package network
