package mathfuncs

import (
	"errors"
	"maps"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
	"github.com/zephyrtronium/exevalator"
)

// DefaultPrec is the precision used by Precise when given zero.
const DefaultPrec = 128

// Precise returns a function set like Math, except that exponentials,
// logarithms, powers, and square roots are computed as big.Floats with prec
// bits before rounding to float64. Trigonometric functions are not available
// at high precision and use package math.
//
// Unlike Math, the functions in the precise set fail with a *DomainError when
// an argument is outside the function's domain.
func Precise(prec uint) Set {
	if prec == 0 {
		prec = DefaultPrec
	}
	s := maps.Clone(Math)
	s["exp"] = bigMonadic{"exp", prec, false, bigfloat.Exp, math.Exp}
	s["ln"] = bigMonadic{"ln", prec, true, bigfloat.Log, math.Log}
	s["log10"] = bigMonadic{"log10", prec, true, logBase(10), math.Log10}
	s["log2"] = bigMonadic{"log2", prec, true, logBase(2), math.Log2}
	s["sqrt"] = bigMonadic{"sqrt", prec, true, (*big.Float).Sqrt, math.Sqrt}
	s["pow"] = bigPow{prec}
	s["pi"] = exevalator.Niladic(func() float64 {
		var z big.Float
		z.SetPrec(prec)
		r, _ := bigfloat.Pi(&z).Float64()
		return r
	})
	s["e"] = exevalator.Niladic(func() float64 {
		var z, one big.Float
		one.SetPrec(prec).SetInt64(1)
		z.SetPrec(prec)
		r, _ := bigfloat.Exp(&z, &one).Float64()
		return r
	})
	return s
}

func logBase(b int64) func(z, x *big.Float) *big.Float {
	return func(z, x *big.Float) *big.Float {
		var base big.Float
		base.SetPrec(z.Prec()).SetInt64(b)
		bigfloat.Log(z, x)
		bigfloat.Log(&base, &base)
		return z.Quo(z, &base)
	}
}

// bigMonadic is a function of one argument computed in big.Float. Zero and
// non-finite arguments use the float64 fallback.
type bigMonadic struct {
	name string
	prec uint
	// nonneg is whether the domain excludes negative numbers.
	nonneg   bool
	f        func(z, x *big.Float) *big.Float
	fallback func(float64) float64
}

func (m bigMonadic) Invoke(args []float64) (r float64, err error) {
	if len(args) != 1 {
		return 0, &exevalator.ArityError{Want: 1, Got: len(args)}
	}
	x := args[0]
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return m.fallback(x), nil
	}
	if m.nonneg && x < 0 {
		return 0, &DomainError{X: x, Arg: 1, Func: m.name}
	}
	defer domain(m.name, x, 1, &err)
	var in, out big.Float
	in.SetPrec(m.prec).SetFloat64(x)
	out.SetPrec(m.prec)
	r, _ = m.f(&out, &in).Float64()
	return r, nil
}

// bigPow computes x**y in big.Float for positive x.
type bigPow struct {
	prec uint
}

func (p bigPow) Invoke(args []float64) (r float64, err error) {
	if len(args) != 2 {
		return 0, &exevalator.ArityError{Want: 2, Got: len(args)}
	}
	x, y := args[0], args[1]
	if !(x > 0) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		// Negative bases, zero, and non-finite values follow math.Pow.
		return math.Pow(x, y), nil
	}
	defer domain("pow", x, 1, &err)
	var bx, by, z big.Float
	bx.SetPrec(p.prec).SetFloat64(x)
	by.SetPrec(p.prec).SetFloat64(y)
	z.SetPrec(p.prec)
	r, _ = bigfloat.Pow(&z, &bx, &by).Float64()
	return r, nil
}

// domain converts a big.ErrNaN panic into a *DomainError. Other panics
// continue.
func domain(name string, x float64, arg int, err *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if !ok {
		panic(r)
	}
	var nan big.ErrNaN
	if !errors.As(e, &nan) {
		panic(r)
	}
	*err = &DomainError{X: x, Arg: arg, Func: name, nan: nan}
}

// DomainError is an error returned when a function is called on arguments
// outside its domain. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string

	nan big.ErrNaN
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return err.nan
}

var (
	_ exevalator.Func = bigMonadic{}
	_ exevalator.Func = bigPow{}
)
