package network

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/msaflow/pkg/errors"
)

func bprNetwork(t *testing.T) *Network {
	t.Helper()
	net := New("test")
	_, err := net.DefineFunction("bpr", []string{"f"}, "t*(1+0.15*(f/c)^4)")
	require.NoError(t, err)
	for _, name := range []string{"A", "B", "C"} {
		_, err := net.AddNode(name)
		require.NoError(t, err)
	}
	return net
}

func TestNewCostFunction(t *testing.T) {
	f, err := NewCostFunction("bpr", []string{"f"}, "t*(1+a*(f/c)^b)")
	require.NoError(t, err)
	assert.Equal(t, "f", f.Param)
	assert.Equal(t, []string{"t", "a", "c", "b"}, f.Constants)

	cost, err := f.Eval(100, []float64{10, 0.15, 100, 4})
	require.NoError(t, err)
	assert.InDelta(t, 11.5, cost, 1e-9)
}

func TestNewCostFunctionFlowFree(t *testing.T) {
	f, err := NewCostFunction("const", []string{"f"}, "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, f.Constants)

	cost, err := f.Eval(1e6, []float64{3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, cost)
}

func TestNewCostFunctionDefinitionErrors(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		body   string
		want   string
	}{
		{"two params", []string{"f", "g"}, "f+g", "f, g"},
		{"no params", nil, "1", "exactly one parameter"},
		{"empty param", []string{" "}, "1", "empty parameter"},
		{"syntax", []string{"f"}, "f+*", "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCostFunction("bad", tt.params, tt.body)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidDefinition), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAddEdge(t *testing.T) {
	net := bprNetwork(t)
	e, err := net.AddEdge("A", "B", "bpr", []float64{10, 100})
	require.NoError(t, err)

	assert.Equal(t, EdgeID(0), e.ID)
	assert.Equal(t, "A-B", e.Name)
	assert.Equal(t, 0.0, e.Flow())
	assert.Equal(t, 10.0, e.Cost(), "initial cost is evaluated at zero flow")

	out := net.Outgoing(e.From)
	require.Len(t, out, 1)
	assert.Same(t, e, out[0])
	assert.Empty(t, net.Outgoing(e.To))
}

func TestAddEdgeErrors(t *testing.T) {
	net := bprNetwork(t)

	_, err := net.AddEdge("A", "B", "missing", []float64{1, 2})
	assert.True(t, apperr.Is(err, apperr.ErrCodeUnknownFunction), "got %v", err)
	assert.Contains(t, err.Error(), "missing")

	_, err = net.AddEdge("A", "Z", "bpr", []float64{1, 2})
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidNetwork), "got %v", err)

	_, err = net.AddEdge("Z", "A", "bpr", []float64{1, 2})
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidNetwork), "got %v", err)

	_, err = net.AddEdge("A", "B", "bpr", []float64{1})
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidNetwork), "got %v", err)

	assert.Equal(t, 0, net.EdgeCount(), "failed edges must not be added")
}

func TestParallelEdgesStayDistinct(t *testing.T) {
	net := bprNetwork(t)
	e1, err := net.AddEdge("A", "B", "bpr", []float64{10, 100})
	require.NoError(t, err)
	e2, err := net.AddEdge("A", "B", "bpr", []float64{20, 100})
	require.NoError(t, err)

	assert.NotEqual(t, e1.ID, e2.ID)
	assert.Equal(t, e1.Name, e2.Name)
	assert.Len(t, net.Outgoing(e1.From), 2)
}

func TestAddBidirectionalEdge(t *testing.T) {
	net := bprNetwork(t)
	fwd, rev, err := net.AddBidirectionalEdge("A", "B", "bpr", []float64{10, 100})
	require.NoError(t, err)

	assert.Equal(t, "A-B", fwd.Name)
	assert.Equal(t, "B-A", rev.Name)

	require.NoError(t, fwd.SetFlow(100))
	assert.Equal(t, 0.0, rev.Flow(), "reverse edge keeps an independent flow")
	assert.Equal(t, 10.0, rev.Cost())
	assert.InDelta(t, 11.5, fwd.Cost(), 1e-9)
}

func TestSetFlowKeepsCostFresh(t *testing.T) {
	net := bprNetwork(t)
	e, err := net.AddEdge("A", "B", "bpr", []float64{10, 100})
	require.NoError(t, err)

	for _, f := range []float64{0, 50, 100, 200, 0} {
		require.NoError(t, e.SetFlow(f))
		want, err := e.CostAt(f)
		require.NoError(t, err)
		assert.Equal(t, f, e.Flow())
		assert.Equal(t, want, e.Cost())
	}
}

func TestSetFlowIdempotent(t *testing.T) {
	net := bprNetwork(t)
	e, err := net.AddEdge("A", "B", "bpr", []float64{7.3, 900})
	require.NoError(t, err)

	require.NoError(t, e.SetFlow(1234.567))
	first := e.Cost()
	require.NoError(t, e.SetFlow(1234.567))
	assert.Equal(t, math.Float64bits(first), math.Float64bits(e.Cost()))
}

func TestAddNodeErrors(t *testing.T) {
	net := New("n")
	_, err := net.AddNode("")
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidNetwork))

	_, err = net.AddNode("A")
	require.NoError(t, err)
	_, err = net.AddNode("A")
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidNetwork))
}

func TestAddFunctionTwice(t *testing.T) {
	net := New("n")
	_, err := net.DefineFunction("g", []string{"f"}, "f")
	require.NoError(t, err)
	_, err = net.DefineFunction("g", []string{"f"}, "2*f")
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidDefinition))

	fns := net.Functions()
	require.Len(t, fns, 1)
	assert.Equal(t, "f", fns[0].Source)
}

func TestAddODPair(t *testing.T) {
	net := bprNetwork(t)
	require.NoError(t, net.AddODPair("A", "C", 10))
	require.NoError(t, net.AddODPair("B", "C", 5))

	pairs := net.ODPairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "A|C", pairs[0].Key())
	assert.Equal(t, 15.0, net.TotalDemand())

	p, ok := net.ODPair("B|C")
	require.True(t, ok)
	assert.Equal(t, 5.0, p.Demand)

	tests := []struct {
		name     string
		o, d     string
		demand   float64
		wantCode apperr.Code
	}{
		{"same endpoints", "A", "A", 1, apperr.ErrCodeInvalidNetwork},
		{"negative demand", "A", "B", -1, apperr.ErrCodeInvalidNetwork},
		{"nan demand", "A", "B", math.NaN(), apperr.ErrCodeInvalidNetwork},
		{"unknown origin", "Z", "B", 1, apperr.ErrCodeInvalidNetwork},
		{"unknown destination", "A", "Z", 1, apperr.ErrCodeInvalidNetwork},
		{"duplicate", "A", "C", 3, apperr.ErrCodeInvalidNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := net.AddODPair(tt.o, tt.d, tt.demand)
			assert.True(t, apperr.Is(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestResetFlows(t *testing.T) {
	net := bprNetwork(t)
	e, err := net.AddEdge("A", "B", "bpr", []float64{10, 100})
	require.NoError(t, err)
	require.NoError(t, e.SetFlow(300))
	e.AuxFlow = 42

	require.NoError(t, net.ResetFlows())
	assert.Equal(t, 0.0, e.Flow())
	assert.Equal(t, 0.0, e.AuxFlow)
	assert.Equal(t, 10.0, e.Cost())
}

func TestLookups(t *testing.T) {
	net := bprNetwork(t)
	n, ok := net.Node("B")
	require.True(t, ok)
	assert.Equal(t, NodeID(1), n.ID)
	assert.Same(t, n, net.NodeByID(1))
	assert.Nil(t, net.NodeByID(99))
	assert.Nil(t, net.Edge(0))
	assert.Nil(t, net.Outgoing(-1))

	_, ok = net.Node("nope")
	assert.False(t, ok)
	assert.Equal(t, 3, net.NodeCount())
}
