package assign

import (
	"errors"
	"math"

	apperr "github.com/matzehuels/msaflow/pkg/errors"
)

// ErrNoDemand is returned by Evaluate when the network's total demand is zero,
// which leaves UE and AEC undefined.
var ErrNoDemand = errors.New("assign: total demand is zero")

// Summary is the evaluation of an assignment.
type Summary struct {
	Network    string `json:"network"`
	Iterations int    `json:"iterations"`

	// UE is the demand-weighted average route travel time.
	UE float64 `json:"ue"`
	// DeviatingFlow is the flow on routes costlier than their pair's best.
	DeviatingFlow float64 `json:"deviating_flow"`
	// AEC is the Average Excess Cost: flow-weighted excess over each pair's
	// best route cost, divided by total demand.
	AEC float64 `json:"aec"`

	TotalDemand     float64 `json:"total_demand"`
	TotalTravelTime float64 `json:"total_travel_time"`

	Nodes []string     `json:"nodes"`
	Pairs []PairReport `json:"pairs"`
	Edges []EdgeReport `json:"edges"`
}

// PairReport describes the routes of one OD pair.
type PairReport struct {
	OD      string        `json:"od"`
	Demand  float64       `json:"demand"`
	MinCost float64       `json:"min_cost"`
	Routes  []RouteReport `json:"routes"`
}

// RouteReport describes one tracked route.
type RouteReport struct {
	Route     string   `json:"route"`
	Key       RouteKey `json:"key"`
	Flow      float64  `json:"flow"`
	Cost      float64  `json:"cost"` // rounded to 2 decimals
	Deviating bool     `json:"deviating"`
	Deviation float64  `json:"deviation"` // Flow when Deviating, else 0
}

// EdgeReport is the final state of one edge.
type EdgeReport struct {
	Name string  `json:"name"`
	From string  `json:"from"`
	To   string  `json:"to"`
	Cost float64 `json:"cost"`
	Flow float64 `json:"flow"`
}

// Evaluate computes the equilibrium measures of a finished assignment from
// the route flows and the edges' current costs.
//
// Route costs are rounded half-to-even to two decimals before routes are
// compared, so float noise does not mark equal-cost routes as deviating.
// Total travel time uses the unrounded costs.
func Evaluate(res *Result) (*Summary, error) {
	if res == nil || res.Network == nil || res.Routes == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "no assignment result to evaluate")
	}

	s := &Summary{
		Network:    res.Network.Name(),
		Iterations: res.Iterations,
		Pairs:      make([]PairReport, 0, len(res.Routes.pairs)),
	}

	var deltaTop float64
	for _, p := range res.Routes.pairs {
		pr := PairReport{
			OD:      p.Pair.Key(),
			Demand:  p.Pair.Demand,
			MinCost: math.Inf(1),
			Routes:  make([]RouteReport, 0, len(p.Routes)),
		}
		for _, r := range p.Routes {
			cost := r.Cost()
			s.TotalTravelTime += cost * r.Flow
			cost = roundCost(cost)
			pr.MinCost = math.Min(pr.MinCost, cost)
			pr.Routes = append(pr.Routes, RouteReport{
				Route: r.String(),
				Key:   r.Key,
				Flow:  r.Flow,
				Cost:  cost,
			})
		}
		for i := range pr.Routes {
			rr := &pr.Routes[i]
			if rr.Cost > pr.MinCost {
				rr.Deviating = true
				rr.Deviation = rr.Flow
				s.DeviatingFlow += rr.Flow
			}
			deltaTop += rr.Flow * (rr.Cost - pr.MinCost)
		}
		if len(pr.Routes) == 0 {
			pr.MinCost = 0
		}
		s.TotalDemand += p.Pair.Demand
		s.Pairs = append(s.Pairs, pr)
	}

	if s.TotalDemand == 0 {
		return nil, apperr.Wrap(apperr.ErrCodeNoDemand, ErrNoDemand,
			"network %q has no OD demand", s.Network)
	}
	s.UE = s.TotalTravelTime / s.TotalDemand
	s.AEC = deltaTop / s.TotalDemand

	nodes := res.Network.Nodes()
	s.Nodes = make([]string, len(nodes))
	for i, n := range nodes {
		s.Nodes[i] = n.Name
	}
	for _, e := range res.Network.Edges() {
		s.Edges = append(s.Edges, EdgeReport{
			Name: e.Name,
			From: nodes[e.From].Name,
			To:   nodes[e.To].Name,
			Cost: e.Cost(),
			Flow: e.Flow(),
		})
	}
	return s, nil
}

// roundCost rounds to two decimals, halves to even.
func roundCost(c float64) float64 {
	return math.RoundToEven(c*100) / 100
}
