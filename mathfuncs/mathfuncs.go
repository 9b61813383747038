// Package mathfuncs provides sets of common mathematical functions which can
// be connected to an exevalator.Engine.
package mathfuncs

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/zephyrtronium/exevalator"
)

// Set is a named collection of functions.
type Set map[string]exevalator.Func

// Connector is anything functions can be connected to, normally an
// *exevalator.Engine.
type Connector interface {
	ConnectFunction(name string, fn exevalator.Func) error
}

// Connect connects every function in s to c, in order of name. It stops at
// the first failure.
func Connect(c Connector, s Set) error {
	for _, name := range Names(s) {
		if err := c.ConnectFunction(name, s[name]); err != nil {
			return fmt.Errorf("connecting %s: %w", name, err)
		}
	}
	return nil
}

// Names returns the names of the functions in s in sorted order.
func Names(s Set) []string {
	return slices.Sorted(maps.Keys(s))
}

// Math is the set of functions from package math, computed in float64.
// Arguments outside a function's domain produce NaN, as in package math.
var Math = Set{
	"sin":   exevalator.Monadic(math.Sin),
	"cos":   exevalator.Monadic(math.Cos),
	"tan":   exevalator.Monadic(math.Tan),
	"asin":  exevalator.Monadic(math.Asin),
	"acos":  exevalator.Monadic(math.Acos),
	"atan":  exevalator.Monadic(math.Atan),
	"abs":   exevalator.Monadic(math.Abs),
	"sqrt":  exevalator.Monadic(math.Sqrt),
	"exp":   exevalator.Monadic(math.Exp),
	"ln":    exevalator.Monadic(math.Log),
	"log10": exevalator.Monadic(math.Log10),
	"log2":  exevalator.Monadic(math.Log2),
	"pow":   exevalator.Dyadic(math.Pow),

	// constants
	"pi": exevalator.Niladic(func() float64 { return math.Pi }),
	"e":  exevalator.Niladic(func() float64 { return math.E }),
}

// Preset returns the function set with the given name: "none", "math", or
// "precise". prec is the precision in bits for the precise set and is ignored
// otherwise.
func Preset(name string, prec uint) (Set, error) {
	switch name {
	case "", "none":
		return Set{}, nil
	case "math":
		return Math, nil
	case "precise":
		return Precise(prec), nil
	default:
		return nil, fmt.Errorf("unknown function preset %q", name)
	}
}
