package mathfuncs_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/exevalator"
	"github.com/zephyrtronium/exevalator/mathfuncs"
)

func engineWith(t *testing.T, s mathfuncs.Set) *exevalator.Engine {
	t.Helper()
	e := exevalator.New()
	require.NoError(t, mathfuncs.Connect(e, s))
	_, err := e.DeclareVariable("x")
	require.NoError(t, err)
	return e
}

func TestMath(t *testing.T) {
	e := engineWith(t, mathfuncs.Math)
	tests := []struct {
		expr string
		want float64
	}{
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"tan(0)", 0},
		{"asin(1)", math.Pi / 2},
		{"acos(1)", 0},
		{"atan(1)", math.Pi / 4},
		{"abs(-2.5)", 2.5},
		{"sqrt(16)", 4},
		{"pow(2, 10)", 1024},
		{"exp(0)", 1},
		{"ln(e())", 1},
		{"log10(100)", 2},
		{"log2(8)", 3},
		{"pi()", math.Pi},
		{"sin(pi() / 6) * 2", 1},
		{"sqrt(pow(3, 2) + pow(4, 2))", 5},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Eval(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMathDomain(t *testing.T) {
	e := engineWith(t, mathfuncs.Math)
	r, err := e.Eval("ln(-1)")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(r))
}

func TestArity(t *testing.T) {
	for name, s := range map[string]mathfuncs.Set{"math": mathfuncs.Math, "precise": mathfuncs.Precise(64)} {
		t.Run(name, func(t *testing.T) {
			e := engineWith(t, s)
			for _, expr := range []string{"sin()", "sqrt(1, 2)", "pow(2)", "exp(1, 2)", "pi(1)"} {
				_, err := e.Eval(expr)
				require.Error(t, err, expr)
				assert.ErrorIs(t, err, exevalator.FunctionError, expr)
				var arity *exevalator.ArityError
				assert.ErrorAs(t, err, &arity, expr)
			}
		})
	}
}

func TestPrecise(t *testing.T) {
	e := engineWith(t, mathfuncs.Precise(128))
	tests := []struct {
		expr string
		want float64
	}{
		{"exp(1)", math.E},
		{"exp(-2)", math.Exp(-2)},
		{"exp(0)", 1},
		{"ln(10)", math.Ln10},
		{"ln(0)", math.Inf(-1)},
		{"log10(1000)", 3},
		{"log2(1024)", 10},
		{"sqrt(2)", math.Sqrt2},
		{"pow(2, 0.5)", math.Sqrt2},
		{"pow(-2, 3)", -8},
		{"pow(0, 0)", 1},
		{"pi()", math.Pi},
		{"e()", math.E},
		{"sin(0)", 0},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Eval(tt.expr)
			require.NoError(t, err)
			if math.IsInf(tt.want, 0) {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-14)
		})
	}
}

func TestPreciseDomain(t *testing.T) {
	e := engineWith(t, mathfuncs.Precise(0))
	for _, expr := range []string{"ln(-1)", "log10(-5)", "log2(-0.5)", "sqrt(-4)"} {
		t.Run(expr, func(t *testing.T) {
			_, err := e.Eval(expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, exevalator.FunctionError)
			var de *mathfuncs.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, 1, de.Arg)
			assert.Less(t, de.X, 0.0)
			var nan big.ErrNaN
			assert.True(t, errors.As(err, &nan))
		})
	}
}

func TestDomainErrorMessage(t *testing.T) {
	err := &mathfuncs.DomainError{X: -1.5, Arg: 1, Func: "ln"}
	assert.Equal(t, "-1.5 outside domain of ln (argument 1)", err.Error())
	err = &mathfuncs.DomainError{X: -2}
	assert.Equal(t, "-2 outside domain", err.Error())
}

func TestPreset(t *testing.T) {
	s, err := mathfuncs.Preset("none", 0)
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = mathfuncs.Preset("math", 0)
	require.NoError(t, err)
	assert.Equal(t, mathfuncs.Names(mathfuncs.Math), mathfuncs.Names(s))

	s, err = mathfuncs.Preset("precise", 256)
	require.NoError(t, err)
	assert.Equal(t, mathfuncs.Names(mathfuncs.Math), mathfuncs.Names(s))

	_, err = mathfuncs.Preset("complex", 0)
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	names := mathfuncs.Names(mathfuncs.Math)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "log10")
	assert.Len(t, names, 15)
}

func TestConnectTwice(t *testing.T) {
	e := exevalator.New()
	require.NoError(t, mathfuncs.Connect(e, mathfuncs.Set{"sin": exevalator.Monadic(math.Sin)}))
	err := mathfuncs.Connect(e, mathfuncs.Math)
	require.Error(t, err)
	assert.ErrorIs(t, err, exevalator.FunctionAlreadyConnected)
	// Names before "sin" were connected before the failure.
	_, err = e.Eval("abs(-1)")
	assert.NoError(t, err)
	_, err = e.Eval("tan(1)")
	assert.ErrorIs(t, err, exevalator.FunctionNotFound)
}
