// Package calc evaluates the arithmetic typed into the in-game calculator.
// Expressions run in a Lua state after a whitelist check, so only numbers,
// operators and a few math functions reach the interpreter.
package calc

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Shopify/go-lua"
)

// MaxExpressionLength bounds calculator input
const MaxExpressionLength = 200

var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrNotFinite         = errors.New("result is not a finite number")
)

var (
	allowedChars = regexp.MustCompile(`^[0-9a-z.+\-*/^%(),\s]*$`)
	identifiers  = regexp.MustCompile(`[a-z]+`)
)

// functions maps calculator names to the Lua math library
var functions = map[string]string{
	"sqrt":  "math.sqrt",
	"abs":   "math.abs",
	"floor": "math.floor",
	"ceil":  "math.ceil",
	"sin":   "math.sin",
	"cos":   "math.cos",
	"tan":   "math.tan",
	"log":   "math.log",
	"exp":   "math.exp",
	"pi":    "math.pi",
}

// Eval evaluates an arithmetic expression such as "2*(3+4)^2" or "sqrt(2)".
func Eval(expr string) (float64, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" || len(expr) > MaxExpressionLength {
		return 0, ErrInvalidExpression
	}
	if !allowedChars.MatchString(expr) || strings.Contains(expr, "--") || strings.Contains(expr, "..") {
		return 0, ErrInvalidExpression
	}

	var unknown string
	source := identifiers.ReplaceAllStringFunc(expr, func(name string) string {
		fn, ok := functions[name]
		if !ok {
			unknown = name
			return name
		}
		return fn
	})
	if unknown != "" {
		return 0, fmt.Errorf("%w: unknown name %q", ErrInvalidExpression, unknown)
	}

	state := lua.NewState()
	lua.Require(state, "math", lua.MathOpen, true)
	state.Pop(1)

	if err := lua.LoadString(state, "return "+source); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	if state.TypeOf(-1) != lua.TypeNumber {
		state.Pop(1)
		return 0, ErrInvalidExpression
	}
	v, _ := state.ToNumber(-1)
	state.Pop(1)

	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotFinite
	}
	return v, nil
}
