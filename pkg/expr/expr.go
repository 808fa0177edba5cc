package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnboundVariable is returned by Eval when the expression references a
// variable that has no value in the bindings.
var ErrUnboundVariable = errors.New("unbound variable")

// Bindings maps variable names to values.
type Bindings map[string]float64

// Expr is a node of a parsed expression tree.
type Expr interface {
	// Eval computes the value of the expression under b.
	Eval(b Bindings) (float64, error)
	// String renders the expression in fully parenthesised form.
	String() string
}

// Num is a numeric literal.
type Num struct{ Value float64 }

// Var is a reference to a named variable.
type Var struct{ Name string }

// Unary is a prefix "+" or "-".
type Unary struct {
	Op byte
	X  Expr
}

// Binary is an infix arithmetic operation: one of + - * / ^.
type Binary struct {
	Op   byte
	L, R Expr
}

// Call is a call to one of the built-in math functions.
type Call struct {
	Func string
	Args []Expr
}

type function struct {
	minArgs, maxArgs int // maxArgs < 0 means variadic
	fn               func(args []float64) float64
}

var functions = map[string]function{
	"exp":  {1, 1, func(a []float64) float64 { return math.Exp(a[0]) }},
	"log":  {1, 1, func(a []float64) float64 { return math.Log(a[0]) }},
	"sqrt": {1, 1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":  {1, 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"min": {1, -1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {1, -1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

func (n Num) Eval(Bindings) (float64, error) { return n.Value, nil }

func (n Num) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

func (v Var) Eval(b Bindings) (float64, error) {
	x, ok := b[v.Name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnboundVariable, v.Name)
	}
	return x, nil
}

func (v Var) String() string { return v.Name }

func (u Unary) Eval(b Bindings) (float64, error) {
	x, err := u.X.Eval(b)
	if err != nil {
		return 0, err
	}
	if u.Op == '-' {
		return -x, nil
	}
	return x, nil
}

func (u Unary) String() string { return "(" + string(u.Op) + u.X.String() + ")" }

func (e Binary) Eval(b Bindings) (float64, error) {
	l, err := e.L.Eval(b)
	if err != nil {
		return 0, err
	}
	r, err := e.R.Eval(b)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		return l / r, nil
	case '^':
		return math.Pow(l, r), nil
	}
	return 0, fmt.Errorf("unknown operator %q", e.Op)
}

func (e Binary) String() string {
	return "(" + e.L.String() + " " + string(e.Op) + " " + e.R.String() + ")"
}

func (c Call) Eval(b Bindings) (float64, error) {
	fn, ok := functions[c.Func]
	if !ok {
		return 0, fmt.Errorf("unknown function %q", c.Func)
	}
	args := make([]float64, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Eval(b)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return fn.fn(args), nil
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Func + "(" + strings.Join(parts, ", ") + ")"
}

// Variables returns the distinct variable names referenced by e, in order of
// first appearance (left to right).
func Variables(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Var:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case Unary:
			walk(n.X)
		case Binary:
			walk(n.L)
			walk(n.R)
		case Call:
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return names
}
