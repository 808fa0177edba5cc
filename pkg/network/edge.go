package network

import (
	"fmt"

	"github.com/matzehuels/msaflow/pkg/expr"
)

// NodeID identifies a node by its insertion index.
type NodeID int

// EdgeID identifies an edge by its insertion index.
type EdgeID int

// Node is a vertex of the network. Nodes are immutable after creation.
type Node struct {
	ID   NodeID
	Name string // Unique node name
}

// Edge is a directed arc with a flow-dependent cost.
//
// Flow and cost are kept consistent: the only way to change the flow is
// SetFlow, which recomputes the cost before returning.
type Edge struct {
	ID     EdgeID
	From   NodeID
	To     NodeID
	Name   string // "<from>-<to>", used in reports and route strings
	Func   *CostFunction
	Params []float64 // Constant values, aligned with Func.Constants

	// AuxFlow accumulates route flows during an assignment iteration.
	AuxFlow float64

	flow     float64
	cost     float64
	bindings expr.Bindings
}

func newEdge(id EdgeID, from, to *Node, fn *CostFunction, params []float64) (*Edge, error) {
	e := &Edge{
		ID:       id,
		From:     from.ID,
		To:       to.ID,
		Name:     from.Name + "-" + to.Name,
		Func:     fn,
		Params:   params,
		bindings: fn.bindings(params),
	}
	if err := e.SetFlow(0); err != nil {
		return nil, err
	}
	return e, nil
}

// Flow returns the current flow on the edge.
func (e *Edge) Flow() float64 { return e.flow }

// Cost returns the cost function evaluated at the current flow.
func (e *Edge) Cost() float64 { return e.cost }

// SetFlow assigns the edge flow and recomputes its cost.
// On error the edge keeps its previous flow and cost.
func (e *Edge) SetFlow(flow float64) error {
	e.bindings[e.Func.Param] = flow
	cost, err := e.Func.Expr.Eval(e.bindings)
	if err != nil {
		e.bindings[e.Func.Param] = e.flow
		return fmt.Errorf("edge %s: %w", e.Name, err)
	}
	e.flow = flow
	e.cost = cost
	return nil
}

// CostAt evaluates the edge's cost function at an arbitrary flow without
// changing the edge.
func (e *Edge) CostAt(flow float64) (float64, error) {
	return e.Func.Eval(flow, e.Params)
}

func (e *Edge) String() string { return e.Name }

// ODPair is an origin-destination demand. Immutable after construction.
type ODPair struct {
	Origin      NodeID
	Destination NodeID
	Demand      float64
	key         string
}

// Key returns the "<origin>|<destination>" label of the pair.
func (p ODPair) Key() string { return p.key }

func (p ODPair) String() string { return p.key }
