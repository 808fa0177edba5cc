package network

import (
	"slices"
	"strings"

	apperr "github.com/matzehuels/msaflow/pkg/errors"
	"github.com/matzehuels/msaflow/pkg/expr"
)

// CostFunction is a named flow-dependent cost expression.
type CostFunction struct {
	Name      string    // Function name referenced by edges
	Param     string    // Free parameter, bound to the edge flow
	Constants []string  // Remaining variables, in order of first appearance
	Expr      expr.Expr // Parsed expression
	Source    string    // Expression source as declared
}

// NewCostFunction parses body and builds a cost function.
//
// params is the declared parameter list. Exactly one free parameter is
// supported; any other count is a definition error naming the offending
// parameter set. A syntax error in body is also a definition error.
func NewCostFunction(name string, params []string, body string) (*CostFunction, error) {
	if name == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidDefinition, "cost function name cannot be empty")
	}
	if len(params) != 1 {
		return nil, apperr.New(apperr.ErrCodeInvalidDefinition,
			"cost function %q must declare exactly one parameter (parameters defined: %s)",
			name, strings.Join(params, ", "))
	}
	param := strings.TrimSpace(params[0])
	if param == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidDefinition, "cost function %q has an empty parameter name", name)
	}

	e, err := expr.Parse(body)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDefinition, err, "cost function %q", name)
	}

	constants := slices.DeleteFunc(expr.Variables(e), func(v string) bool { return v == param })

	return &CostFunction{
		Name:      name,
		Param:     param,
		Constants: constants,
		Expr:      e,
		Source:    body,
	}, nil
}

// bindings returns a fresh binding map with the constants set and the free
// parameter at zero. The caller owns the map.
func (f *CostFunction) bindings(values []float64) expr.Bindings {
	b := make(expr.Bindings, len(f.Constants)+1)
	for i, c := range f.Constants {
		b[c] = values[i]
	}
	b[f.Param] = 0
	return b
}

// Eval evaluates the function at flow with the given constant values.
// values must line up with f.Constants.
func (f *CostFunction) Eval(flow float64, values []float64) (float64, error) {
	if len(values) != len(f.Constants) {
		return 0, apperr.New(apperr.ErrCodeInvalidNetwork,
			"cost function %q expects %d constants (%s), got %d",
			f.Name, len(f.Constants), strings.Join(f.Constants, ", "), len(values))
	}
	b := f.bindings(values)
	b[f.Param] = flow
	return f.Expr.Eval(b)
}
