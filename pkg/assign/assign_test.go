package assign

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/msaflow/pkg/errors"
	"github.com/matzehuels/msaflow/pkg/network"
	"github.com/matzehuels/msaflow/pkg/shortestpath"
)

type edgeSpec struct {
	from, to string
	fn       string
	consts   []float64
}

type odSpec struct {
	o, d   string
	demand float64
}

// newNet builds a network with the functions "const" (k), "lin" (t+f) and
// "bpr" (t*(1+0.15*(f/c)^4)).
func newNet(t *testing.T, nodes []string, edges []edgeSpec, ods []odSpec) *network.Network {
	t.Helper()
	net := network.New("test")
	for _, fn := range []struct{ name, body string }{
		{"const", "k"},
		{"lin", "t + f"},
		{"bpr", "t * (1 + 0.15 * (f / c)^4)"},
	} {
		_, err := net.DefineFunction(fn.name, []string{"f"}, fn.body)
		require.NoError(t, err)
	}
	for _, n := range nodes {
		_, err := net.AddNode(n)
		require.NoError(t, err)
	}
	for _, e := range edges {
		_, err := net.AddEdge(e.from, e.to, e.fn, e.consts)
		require.NoError(t, err)
	}
	for _, od := range ods {
		require.NoError(t, net.AddODPair(od.o, od.d, od.demand))
	}
	return net
}

func fourNode(t *testing.T) *network.Network {
	return newNet(t, []string{"A", "B", "C", "D"}, []edgeSpec{
		{"A", "B", "const", []float64{1}},
		{"B", "D", "const", []float64{1}},
		{"A", "C", "const", []float64{2}},
		{"C", "D", "const", []float64{2}},
	}, []odSpec{{"A", "D", 10}})
}

func twoLinear(t *testing.T) *network.Network {
	// Equilibrium: x1 = 15, x2 = 5, both routes cost 25.
	return newNet(t, []string{"A", "B"}, []edgeSpec{
		{"A", "B", "lin", []float64{10}},
		{"A", "B", "lin", []float64{20}},
	}, []odSpec{{"A", "B", 20}})
}

func grid(t *testing.T, ods []odSpec) *network.Network {
	return newNet(t, []string{"A", "B", "C", "D", "E"}, []edgeSpec{
		{"A", "B", "bpr", []float64{4, 10}},
		{"A", "C", "bpr", []float64{6, 15}},
		{"B", "C", "lin", []float64{1}},
		{"B", "D", "bpr", []float64{5, 10}},
		{"C", "D", "bpr", []float64{3, 12}},
		{"C", "E", "bpr", []float64{8, 20}},
		{"D", "E", "bpr", []float64{2, 8}},
		{"B", "E", "const", []float64{20}},
	}, ods)
}

var gridODs = []odSpec{{"A", "E", 30}, {"B", "D", 12}, {"A", "D", 8}, {"C", "E", 5}}

func run(t *testing.T, net *network.Network, opts Options) *Result {
	t.Helper()
	res, err := Run(context.Background(), net, opts)
	require.NoError(t, err)
	return res
}

func TestRunFourNodeConstantCost(t *testing.T) {
	res := run(t, fourNode(t), Options{Iterations: 50})

	p, ok := res.Routes.Pair("A|D")
	require.True(t, ok)
	require.Len(t, p.Routes, 1)
	assert.Equal(t, "A-B - B-D", p.Routes[0].String())
	assert.InDelta(t, 10.0, p.Routes[0].Flow, 1e-9)

	sum, err := Evaluate(res)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, sum.UE, 1e-9)
	assert.Zero(t, sum.AEC)
	assert.Zero(t, sum.DeviatingFlow)
	assert.Equal(t, 10.0, sum.TotalDemand)
}

func TestRunFourNodeSingleIteration(t *testing.T) {
	res := run(t, fourNode(t), Options{Iterations: 1})

	p, ok := res.Routes.Pair("A|D")
	require.True(t, ok)
	require.Len(t, p.Routes, 1)
	assert.Equal(t, "A-B - B-D", p.Routes[0].String())
	assert.Equal(t, 10.0, p.Routes[0].Flow)

	sum, err := Evaluate(res)
	require.NoError(t, err)
	assert.Equal(t, 2.0, sum.UE)
	assert.Zero(t, sum.AEC)
}

func TestRunSingleEdgeCarriesDemand(t *testing.T) {
	for _, iters := range []int{1, 2, 3, 7, 100} {
		net := newNet(t, []string{"A", "B"},
			[]edgeSpec{{"A", "B", "lin", []float64{1}}},
			[]odSpec{{"A", "B", 10}})
		res := run(t, net, Options{Iterations: iters})

		p, _ := res.Routes.Pair("A|B")
		require.Len(t, p.Routes, 1)
		assert.Equal(t, 10.0, p.Routes[0].Flow, "iterations=%d", iters)
		e := net.Edge(0)
		assert.Equal(t, 10.0, e.Flow(), "iterations=%d", iters)
		assert.Equal(t, 11.0, e.Cost(), "iterations=%d", iters)
	}
}

func TestRunFlowsNonNegativeAndConserved(t *testing.T) {
	net := grid(t, gridODs)
	res := run(t, net, Options{Iterations: 200})

	for _, p := range res.Routes.Pairs() {
		for _, r := range p.Routes {
			assert.GreaterOrEqual(t, r.Flow, 0.0, "route %s", r)
		}
		assert.InDelta(t, p.Pair.Demand, p.Flow(), 1e-6, "pair %s", p.Pair)
	}
	for _, e := range net.Edges() {
		assert.GreaterOrEqual(t, e.Flow(), 0.0, "edge %s", e)
		want, err := e.CostAt(e.Flow())
		require.NoError(t, err)
		assert.Equal(t, want, e.Cost(), "edge %s cost matches its flow", e)
	}
}

func TestRunRouteTableOnlyGrows(t *testing.T) {
	prev := 0
	short, err := Run(context.Background(), grid(t, gridODs), Options{
		Iterations: 60,
		OnIteration: func(s IterationStats) {
			assert.GreaterOrEqual(t, s.Routes, prev)
			assert.Equal(t, prev+s.NewRoutes, s.Routes)
			prev = s.Routes
		},
	})
	require.NoError(t, err)
	assert.Equal(t, short.Routes.Len(), prev)

	// A longer run extends each pair's route list without reordering it.
	long := run(t, grid(t, gridODs), Options{Iterations: 120})
	for i, p := range short.Routes.Pairs() {
		lp := long.Routes.Pairs()[i]
		require.GreaterOrEqual(t, len(lp.Routes), len(p.Routes))
		for j, r := range p.Routes {
			assert.Equal(t, r.Key, lp.Routes[j].Key, "pair %s route %d", p.Pair, j)
			got, ok := p.Route(r.Key)
			require.True(t, ok)
			assert.Same(t, r, got)
		}
	}
}

func TestRunParallelEdgesAreDistinctRoutes(t *testing.T) {
	net := newNet(t, []string{"A", "B"}, []edgeSpec{
		{"A", "B", "lin", []float64{0}},
		{"A", "B", "lin", []float64{0}},
	}, []odSpec{{"A", "B", 10}})
	res := run(t, net, Options{Iterations: 2})

	p, _ := res.Routes.Pair("A|B")
	require.Len(t, p.Routes, 2)
	assert.Equal(t, RouteKey("0"), p.Routes[0].Key)
	assert.Equal(t, RouteKey("1"), p.Routes[1].Key)
	assert.Equal(t, p.Routes[0].String(), p.Routes[1].String())
	assert.Equal(t, 5.0, p.Routes[0].Flow)
	assert.Equal(t, 5.0, p.Routes[1].Flow)
	assert.Equal(t, 5.0, net.Edge(0).Flow())
	assert.Equal(t, 5.0, net.Edge(1).Flow())
}

func TestRunTwoRoutesConverge(t *testing.T) {
	res := run(t, twoLinear(t), Options{Iterations: 1000, Trace: true})
	require.Len(t, res.Trace, 1000)

	sum, err := Evaluate(res)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, sum.UE, 0.1)
	assert.Less(t, sum.AEC, 0.1)
	assert.InDelta(t, 15.0, res.Network.Edge(0).Flow(), 0.1)
	assert.InDelta(t, 5.0, res.Network.Edge(1).Flow(), 0.1)

	early := maxAEC(res.Trace[:10])
	late := maxAEC(res.Trace[500:])
	assert.Greater(t, early, 1.0)
	assert.Less(t, late, early/10)
	assert.Equal(t, sum.AEC, res.Trace[999].AEC)
}

func TestRunBPRRoutesConverge(t *testing.T) {
	net := newNet(t, []string{"A", "B"}, []edgeSpec{
		{"A", "B", "bpr", []float64{10, 40}},
		{"A", "B", "bpr", []float64{12, 40}},
	}, []odSpec{{"A", "B", 80}})
	res := run(t, net, Options{Iterations: 1000, Trace: true})

	early := maxAEC(res.Trace[:20])
	late := maxAEC(res.Trace[900:])
	assert.Greater(t, early, 1.0)
	assert.Less(t, late, early/5)
	assert.Less(t, res.Trace[999].AEC, 0.1)
}

func maxAEC(trace []IterationStats) float64 {
	m := 0.0
	for _, s := range trace {
		m = max(m, s.AEC)
	}
	return m
}

func TestRunUnreachable(t *testing.T) {
	net := newNet(t, []string{"A", "B"},
		[]edgeSpec{{"A", "B", "const", []float64{1}}},
		[]odSpec{{"A", "B", 5}, {"B", "A", 5}})

	res, err := Run(context.Background(), net, Options{Iterations: 10})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, apperr.Is(err, apperr.ErrCodeUnreachable))
	assert.ErrorIs(t, err, shortestpath.ErrUnreachable)
	assert.Equal(t, "unreachable destination for OD pair B|A", apperr.UserMessage(err))
}

func TestRunNegativeCost(t *testing.T) {
	net := newNet(t, []string{"A", "B"},
		[]edgeSpec{{"A", "B", "lin", []float64{-5}}},
		[]odSpec{{"A", "B", 2}})

	res, err := Run(context.Background(), net, Options{Iterations: 3})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidDefinition))
	assert.ErrorIs(t, err, shortestpath.ErrInvalidCost)
	assert.Equal(t, "edge A-B: cost function lin gives invalid cost -5 at flow 0", apperr.UserMessage(err))
}

func TestRunInvalidOptions(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{Iterations: 1})
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidInput))

	for _, n := range []int{0, -3} {
		_, err = Run(context.Background(), fourNode(t), Options{Iterations: n})
		assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidInput), "iterations=%d", n)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, fourNode(t), Options{Iterations: 10})
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	_, err = Run(ctx, fourNode(t), Options{
		Iterations: 100,
		OnIteration: func(s IterationStats) {
			calls++
			if s.Iteration == 3 {
				cancel()
			}
		},
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 3, calls)
}

func TestRunIterationCallback(t *testing.T) {
	var phis []float64
	res := run(t, fourNode(t), Options{
		Iterations:  4,
		OnIteration: func(s IterationStats) { phis = append(phis, s.Phi) },
	})
	assert.Equal(t, []float64{1, 0.5, 1.0 / 3, 0.25}, phis)
	assert.Nil(t, res.Trace, "trace is only recorded on request")
}

func TestRunDeterministic(t *testing.T) {
	a := run(t, grid(t, gridODs), Options{Iterations: 150})
	b := run(t, grid(t, gridODs), Options{Iterations: 150})

	sa, err := Evaluate(a)
	require.NoError(t, err)
	sb, err := Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}

func TestRunRepeatableOnSameNetwork(t *testing.T) {
	net := grid(t, gridODs)
	first, err := Evaluate(run(t, net, Options{Iterations: 40}))
	require.NoError(t, err)
	second, err := Evaluate(run(t, net, Options{Iterations: 40}))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunIndependentOfODOrder(t *testing.T) {
	reversed := make([]odSpec, len(gridODs))
	for i, od := range gridODs {
		reversed[len(gridODs)-1-i] = od
	}
	a := run(t, grid(t, gridODs), Options{Iterations: 100})
	b := run(t, grid(t, reversed), Options{Iterations: 100})

	for _, e := range a.Network.Edges() {
		other := b.Network.Edge(e.ID)
		assert.InDelta(t, e.Flow(), other.Flow(), 1e-9, "edge %s", e)
	}
}

func TestEvaluateNoDemand(t *testing.T) {
	net := newNet(t, []string{"A", "B"},
		[]edgeSpec{{"A", "B", "lin", []float64{1}}},
		[]odSpec{{"A", "B", 0}})

	res := run(t, net, Options{Iterations: 5, Trace: true})
	assert.Len(t, res.Trace, 5)

	sum, err := Evaluate(res)
	assert.Nil(t, sum)
	assert.ErrorIs(t, err, ErrNoDemand)
	assert.True(t, apperr.Is(err, apperr.ErrCodeNoDemand))
}

func TestEvaluateNil(t *testing.T) {
	_, err := Evaluate(nil)
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidInput))
}

func TestEvaluateDeviations(t *testing.T) {
	res := run(t, twoLinear(t), Options{Iterations: 2})
	// After two iterations: x1 = x2 = 10, costs 20 and 30.
	sum, err := Evaluate(res)
	require.NoError(t, err)

	require.Len(t, sum.Pairs, 1)
	pr := sum.Pairs[0]
	assert.Equal(t, "A|B", pr.OD)
	assert.Equal(t, 20.0, pr.MinCost)
	require.Len(t, pr.Routes, 2)

	assert.False(t, pr.Routes[0].Deviating)
	assert.Equal(t, 20.0, pr.Routes[0].Cost)
	assert.True(t, pr.Routes[1].Deviating)
	assert.Equal(t, 30.0, pr.Routes[1].Cost)
	assert.Equal(t, 10.0, pr.Routes[1].Deviation)

	assert.Equal(t, 10.0, sum.DeviatingFlow)
	assert.Equal(t, 25.0, sum.UE) // (10*20 + 10*30) / 20
	assert.Equal(t, 5.0, sum.AEC) // 10*(30-20) / 20
	assert.Equal(t, 500.0, sum.TotalTravelTime)

	require.Len(t, sum.Edges, 2)
	assert.Equal(t, EdgeReport{Name: "A-B", From: "A", To: "B", Cost: 20, Flow: 10}, sum.Edges[0])
}

func TestRoundCost(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.234, 1.23},
		{1.235000001, 1.24},
		{0.125, 0.12}, // exact half rounds to even
		{0.375, 0.38},
		{2, 2},
		{19.999999999, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundCost(tt.in), "roundCost(%v)", tt.in)
	}
}

func TestKeyOf(t *testing.T) {
	net := fourNode(t)
	edges := net.Edges()
	assert.Equal(t, RouteKey("0.1"), KeyOf(edges[:2]))
	assert.Equal(t, RouteKey("2.3"), KeyOf(edges[2:]))
	assert.Equal(t, RouteKey(""), KeyOf(nil))
}
