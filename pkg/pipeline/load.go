package pipeline

import (
	"context"
	"strings"
	"time"

	msaio "github.com/matzehuels/msaflow/pkg/io"
	"github.com/matzehuels/msaflow/pkg/network"
	"github.com/matzehuels/msaflow/pkg/observability"
)

// Load parses the network file source in opts.Source.
func Load(ctx context.Context, opts Options) (*network.Network, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Name)
	start := time.Now()

	net, err := msaio.ReadNetwork(strings.NewReader(opts.Source), opts.Name)

	var nodes, edges int
	if net != nil {
		nodes, edges = net.NodeCount(), net.EdgeCount()
	}
	hooks.OnLoadComplete(ctx, opts.Name, nodes, edges, time.Since(start), err)
	return net, err
}
