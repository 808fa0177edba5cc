// Package expr parses and evaluates the arithmetic expressions used as edge
// cost functions.
//
// # Overview
//
// A cost function is a single arithmetic expression over one free variable
// (the edge flow) and any number of named constants bound per edge, for
// example the BPR-style
//
//	t*(1+0.15*(f/c)^4)
//
// [Parse] turns the source into a small typed tree of [Num], [Var], [Unary],
// [Binary] and [Call] nodes. Evaluation is a pure function of the tree and a
// [Bindings] map: no hidden state, so evaluating the same expression with the
// same bindings always yields bit-identical results.
//
// # Grammar
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "^" unary ]
//	primary = number | ident | ident "(" expr { "," expr } ")" | "(" expr ")"
//
// "^" is right-associative and binds tighter than unary minus, so -x^2 is
// -(x^2). Supported functions are exp, log, sqrt, abs, min and max.
//
// # Variables
//
// [Variables] lists the distinct variable names of an expression in order of
// first appearance. Network construction relies on that order to bind the
// constant values declared on an edge line to the function's constants.
package expr
