// Package assign computes static user-equilibrium traffic assignments with the
// Method of Successive Averages (MSA) and measures how close a result is to
// equilibrium.
//
// # Algorithm
//
// Run performs a fixed number of iterations. Iteration n uses the step size
// phi = 1/n and proceeds in three phases:
//
//  1. All-or-nothing: for every OD pair, find the shortest route on the edge
//     costs frozen at the end of the previous iteration. Unseen routes join
//     the pair's route table with flow 0.
//  2. Blending: every tracked route moves toward its all-or-nothing target,
//     flow = max((1-phi)*flow + phi*target, 0), where target is the pair's
//     demand for the current best route and 0 otherwise. Route flows
//     accumulate onto the edges' auxiliary flow.
//  3. Barrier: every edge takes its auxiliary flow and recomputes its cost.
//
// No edge cost changes before every OD pair has been routed, so the result
// does not depend on the order in which pairs are processed.
//
// # Routes
//
// Routes are identified by a [RouteKey] derived from their ordered edge IDs.
// Two parallel edges between the same nodes therefore produce distinct
// routes even though their display strings are equal.
//
// # Evaluation
//
// Evaluate turns a finished [Result] into a [Summary]: average travel time
// (UE), total deviating flow and the Average Excess Cost (AEC). AEC is 0
// exactly at equilibrium and shrinks as iterations increase.
//
// # Example
//
//	res, err := assign.Run(ctx, net, assign.Options{Iterations: 1000})
//	if err != nil {
//	    return err
//	}
//	sum, err := assign.Evaluate(res)
//	fmt.Printf("UE=%.2f AEC=%.6f\n", sum.UE, sum.AEC)
package assign
