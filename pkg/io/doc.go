// Package io reads network files and writes assignment reports.
//
// # Network Files
//
// A network file is line oriented. Everything after '#' is a comment and
// blank lines are ignored:
//
//	function bpr (f) t*(1+0.15*(f/c)^4)
//	node A
//	node B
//	dedge A-B A B bpr 10 40   # directed edge A→B
//	edge  B-C B C bpr 12 40   # two independent edges, B→C and C→B
//	od A|C A C 80
//
// Keywords:
//   - function <name> (<param>) <expression>: a cost function with exactly
//     one free parameter. Every other variable of the expression is a
//     constant, bound positionally by the edges that use the function.
//   - node <name>
//   - dedge <id> <from> <to> <function> <constants...>: a directed edge.
//   - edge <id> <a> <b> <function> <constants...>: a pair of directed edges.
//   - od <id> <origin> <destination> <demand>: trip demand. Pairs whose
//     origin equals their destination are skipped.
//
// Functions and nodes must be declared before the edges that reference
// them. Use [ImportNetwork] for a file path or [ReadNetwork] for any
// io.Reader. Errors carry the offending line number and keep the error code
// of the underlying failure (INVALID_DEFINITION, UNKNOWN_FUNCTION or
// INVALID_NETWORK).
//
// # Reports
//
// [WriteReport] renders an evaluated assignment as the tab-separated text
// report: a header, one row per tracked route, the UE/deviation/AEC
// summary, and the final edge table. [ExportReport] writes it to
// <dir>/<network>_<H>h<M>m<S>s. [WriteEdgeTable] prints just the edge
// table, as shown on the console after a run.
//
// [WriteJSON] and [ReadJSON] serialize the same summary as JSON.
package io
