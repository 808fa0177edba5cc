package assign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/msaflow/pkg/errors"
	"github.com/matzehuels/msaflow/pkg/network"
	"github.com/matzehuels/msaflow/pkg/observability"
	"github.com/matzehuels/msaflow/pkg/shortestpath"
)

// Options configures an assignment run.
type Options struct {
	// Iterations is the number of MSA iterations. Must be at least 1.
	Iterations int

	// Logger receives per-iteration debug output. Nil discards it.
	Logger *log.Logger

	// Trace evaluates the assignment after every iteration and records the
	// result in Result.Trace. This roughly doubles the cost of a run.
	Trace bool

	// OnIteration, if set, is called after each iteration's barrier.
	OnIteration func(IterationStats)
}

// IterationStats describes the state after one iteration.
type IterationStats struct {
	Iteration int     `json:"iteration"`
	Phi       float64 `json:"phi"`
	NewRoutes int     `json:"new_routes"` // routes discovered in this iteration
	Routes    int     `json:"routes"`     // routes tracked so far

	// Set only when Options.Trace is enabled.
	UE  float64 `json:"ue,omitempty"`
	AEC float64 `json:"aec,omitempty"`
}

// Result is the outcome of Run: the route table and the network whose edges
// carry the final flows and costs.
type Result struct {
	Network    *network.Network
	Iterations int
	Routes     *RouteTable
	Trace      []IterationStats
	Elapsed    time.Duration
}

// Run assigns the network's OD demand with the Method of Successive Averages.
//
// Edge flows are reset to zero before the first iteration, so running the
// same network twice gives the same result. The context is checked between
// iterations; an iteration, once started, always completes.
//
// An OD pair whose destination cannot be reached aborts the run with an
// ErrCodeUnreachable error naming the pair; no partial result is returned.
func Run(ctx context.Context, net *network.Network, opts Options) (res *Result, err error) {
	if net == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "network is nil")
	}
	if err := apperr.ValidateIterations(opts.Iterations); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	start := time.Now()
	hooks := observability.Assignment()
	hooks.OnAssignStart(ctx, net.Name(), len(net.ODPairs()))
	defer func() {
		hooks.OnAssignComplete(ctx, net.Name(), opts.Iterations, time.Since(start), err)
	}()

	if err := net.ResetFlows(); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "reset edge flows")
	}

	a := &assigner{
		net:    net,
		edges:  net.Edges(),
		table:  newRouteTable(net.ODPairs()),
		best:   make([]*Route, len(net.ODPairs())),
		logger: logger,
	}
	res = &Result{Network: net, Iterations: opts.Iterations, Routes: a.table}

	for n := 1; n <= opts.Iterations; n++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("assignment stopped before iteration %d: %w", n, err)
		}

		stats, err := a.iterate(n)
		if err != nil {
			return nil, err
		}
		if opts.Trace {
			if sum, err := Evaluate(res); err == nil {
				stats.UE = sum.UE
				stats.AEC = sum.AEC
			} else if !apperr.Is(err, apperr.ErrCodeNoDemand) {
				return nil, err
			}
			res.Trace = append(res.Trace, stats)
		}

		logger.Debug("iteration", "n", n, "phi", stats.Phi, "new_routes", stats.NewRoutes, "routes", stats.Routes)
		hooks.OnIteration(ctx, net.Name(), n, stats.NewRoutes)
		if opts.OnIteration != nil {
			opts.OnIteration(stats)
		}
	}

	res.Elapsed = time.Since(start)
	logger.Debug("assignment complete",
		"network", net.Name(),
		"iterations", opts.Iterations,
		"routes", a.table.Len(),
		"duration", res.Elapsed)
	return res, nil
}

// assigner carries the state shared by the iterations of one run.
type assigner struct {
	net    *network.Network
	edges  []*network.Edge
	table  *RouteTable
	best   []*Route // current all-or-nothing route per pair, aligned with table.pairs
	logger *log.Logger
}

// iterate performs iteration n: all-or-nothing, blending, then the barrier.
func (a *assigner) iterate(n int) (IterationStats, error) {
	phi := 1.0 / float64(n)
	stats := IterationStats{Iteration: n, Phi: phi}

	for _, e := range a.edges {
		e.AuxFlow = 0
	}

	// All-or-nothing on the costs frozen by the previous barrier.
	for i, p := range a.table.pairs {
		path, err := shortestpath.Find(a.net, p.Pair.Origin, p.Pair.Destination)
		if err != nil {
			if errors.Is(err, shortestpath.ErrUnreachable) {
				return stats, apperr.Wrap(apperr.ErrCodeUnreachable, err,
					"unreachable destination for OD pair %s", p.Pair.Key())
			}
			var ce *shortestpath.CostError
			if errors.As(err, &ce) {
				return stats, apperr.Wrap(apperr.ErrCodeInvalidDefinition, err,
					"edge %s: cost function %s gives invalid cost %v at flow %v",
					ce.Edge.Name, ce.Edge.Func.Name, ce.Cost, ce.Edge.Flow())
			}
			return stats, apperr.Wrap(apperr.ErrCodeInternal, err,
				"shortest path for OD pair %s", p.Pair.Key())
		}
		r, added := p.track(path)
		if added {
			stats.NewRoutes++
			a.logger.Debug("new route", "od", p.Pair.Key(), "route", r.String(), "iteration", n)
		}
		a.best[i] = r
	}

	// Blend every tracked route toward its all-or-nothing target.
	for i, p := range a.table.pairs {
		for _, r := range p.Routes {
			target := 0.0
			if r == a.best[i] {
				target = p.Pair.Demand
			}
			r.Flow = math.Max(r.Flow+phi*(target-r.Flow), 0)
			for _, e := range r.Edges {
				e.AuxFlow += r.Flow
			}
		}
	}

	// Barrier: costs change only after every pair has been routed.
	for _, e := range a.edges {
		if err := e.SetFlow(e.AuxFlow); err != nil {
			return stats, apperr.Wrap(apperr.ErrCodeInternal, err, "update edge %s", e.Name)
		}
	}

	stats.Routes = a.table.Len()
	return stats, nil
}
