package config

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/Knetic/govaluate.v3"
)

// CenterX is the x value that asks for a centered window.
const CenterX = -1

// Vars are the values available to geometry expressions.
type Vars struct {
	ScreenWidth  int
	ScreenHeight int
	WindowWidth  int
	WindowHeight int
}

func (v Vars) parameters() map[string]interface{} {
	return map[string]interface{}{
		"screen_width":  float64(v.ScreenWidth),
		"screen_height": float64(v.ScreenHeight),
		"window_width":  float64(v.WindowWidth),
		"window_height": float64(v.WindowHeight),
	}
}

var exprFunctions = map[string]govaluate.ExpressionFunction{
	"min": func(args ...interface{}) (interface{}, error) {
		return fold(args, math.Min)
	},
	"max": func(args ...interface{}) (interface{}, error) {
		return fold(args, math.Max)
	},
}

func fold(args []interface{}, f func(a, b float64) float64) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expects at least one argument")
	}
	acc, ok := args[0].(float64)
	if !ok {
		return nil, fmt.Errorf("argument 1 is not a number")
	}
	for i, a := range args[1:] {
		n, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("argument %d is not a number", i+2)
		}
		acc = f(acc, n)
	}
	return acc, nil
}

func compile(expr string) (*govaluate.EvaluableExpression, error) {
	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, exprFunctions)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	for _, v := range e.Vars() {
		if _, ok := (Vars{}).parameters()[v]; !ok {
			return nil, fmt.Errorf("unknown variable %q in %q", v, expr)
		}
	}
	return e, nil
}

// Eval evaluates a numeric expression and rounds it to the nearest integer.
func Eval(expr string, vars Vars) (int, error) {
	e, err := compile(expr)
	if err != nil {
		return 0, err
	}
	out, err := e.Evaluate(vars.parameters())
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	n, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("expression %q is not numeric", expr)
	}
	return int(math.Round(n)), nil
}

// Resolve evaluates the startup geometry. An empty or "center" X yields
// CenterX; an empty Y yields 0.
func (g GeometryConfig) Resolve(vars Vars) (x, y, w, h int, err error) {
	if w, err = Eval(g.Width, vars); err != nil {
		return 0, 0, 0, 0, err
	}
	if h, err = Eval(g.Height, vars); err != nil {
		return 0, 0, 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("geometry %dx%d is not positive", w, h)
	}

	x = CenterX
	if !isCenter(g.X) {
		if x, err = Eval(g.X, vars); err != nil {
			return 0, 0, 0, 0, err
		}
	}
	if strings.TrimSpace(g.Y) != "" && x != CenterX {
		if y, err = Eval(g.Y, vars); err != nil {
			return 0, 0, 0, 0, err
		}
	}
	return x, y, w, h, nil
}

func isCenter(expr string) bool {
	expr = strings.TrimSpace(expr)
	return expr == "" || strings.EqualFold(expr, "center")
}
