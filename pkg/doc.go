// Package pkg holds the msaflow libraries for static traffic assignment.
//
// # Overview
//
// msaflow loads a road network (cost functions, nodes, edges and an
// origin-destination demand matrix) and computes a user-equilibrium flow
// pattern with the Method of Successive Averages (MSA). Each iteration routes
// every OD pair's demand on its current shortest path and blends the result
// into the running flows with step 1/n.
//
// # Architecture
//
//	network file
//	     ↓
//	[io] parse ──→ [network] (built from [expr] cost functions)
//	     ↓
//	[assign] MSA iterations, using [shortestpath] for all-or-nothing loading
//	     ↓
//	[assign.Evaluate] UE, AEC and per-route deviations
//	     ↓
//	[io] text/JSON reports, [render] DOT/SVG graphs
//
// [pipeline] runs these stages with caching through [cache], and is shared
// by the CLI and the HTTP server. Runs submitted over HTTP are kept in
// [store].
//
// # Quick Start
//
//	net, _ := io.ImportNetwork("braess.net")
//	res, _ := assign.Run(ctx, net, assign.Options{Iterations: 1000})
//	summary, _ := assign.Evaluate(res)
//	_ = io.WriteReport(os.Stdout, summary)
//
// # Main Packages
//
// [expr] - Arithmetic expressions for edge cost functions, compiled once and
// evaluated at each flow update.
//
// [network] - Nodes, directed edges with cost functions, and OD pairs. Edge
// costs are cached and recomputed only when the flow changes.
//
// [shortestpath] - Deterministic Dijkstra over the cached edge costs.
//
// [assign] - The MSA loop, the route table, and equilibrium evaluation.
//
// [io] - Network file parser and result reports.
//
// [render] - Graphviz output of the loaded network.
//
// [pipeline] - Load → assign → render orchestration with result caching.
//
// [cache] - File, Redis and no-op caches behind one interface.
//
// [store] - In-memory and MongoDB stores for runs.
//
// [observability] - Hooks for metrics and tracing, no-op by default.
//
// [errors] - Structured errors with codes shared by the CLI and the API.
//
// # Testing
//
//	go test ./...                    # All tests
//	go test ./pkg/assign/...         # Specific package
//	go test -run Example ./pkg/...   # Examples only
//
// The MongoDB store test runs only when MSAFLOW_TEST_MONGO_URI is set.
//
// [expr]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/expr
// [network]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/network
// [shortestpath]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/shortestpath
// [assign]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/assign
// [io]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/errors
//
// [assign.Evaluate]: https://pkg.go.dev/github.com/matzehuels/msaflow/pkg/assign#Evaluate
package pkg
