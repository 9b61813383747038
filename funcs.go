package exevalator

// Func is a function which can be called from expressions.
type Func interface {
	// Invoke evaluates the function. args holds the values of the arguments
	// in the call, left to right. The slice is owned by the engine and is
	// overwritten on every call, so Invoke must not keep it.
	//
	// If the function cannot be evaluated for args, e.g. because there are
	// the wrong number of them, Invoke should return an error. The engine
	// reports it as an Error with reason FunctionError which unwraps to the
	// returned error. A panic in Invoke is reported the same way, unwrapping
	// to the panic value if it is an error.
	Invoke(args []float64) (float64, error)
}

// FuncOf adapts an ordinary function to a Func. It may be called with any
// number of arguments.
type FuncOf func(args []float64) (float64, error)

// Invoke calls f(args).
func (f FuncOf) Invoke(args []float64) (float64, error) {
	return f(args)
}

type niladic struct {
	f func() float64
}

func (n niladic) Invoke(args []float64) (float64, error) {
	if len(args) != 0 {
		return 0, &ArityError{Want: 0, Got: len(args)}
	}
	return n.f(), nil
}

// Niladic wraps a function of no arguments, generally one which produces a
// constant, into a Func. Calls with any arguments fail with an *ArityError.
func Niladic(f func() float64) Func {
	return niladic{f}
}

type monadic struct {
	f func(x float64) float64
}

func (m monadic) Invoke(args []float64) (float64, error) {
	if len(args) != 1 {
		return 0, &ArityError{Want: 1, Got: len(args)}
	}
	return m.f(args[0]), nil
}

// Monadic wraps a function of one argument into a Func, e.g. Monadic(math.Sin).
// Calls with other than one argument fail with an *ArityError.
func Monadic(f func(x float64) float64) Func {
	return monadic{f}
}

type dyadic struct {
	f func(x, y float64) float64
}

func (d dyadic) Invoke(args []float64) (float64, error) {
	if len(args) != 2 {
		return 0, &ArityError{Want: 2, Got: len(args)}
	}
	return d.f(args[0], args[1]), nil
}

// Dyadic wraps a function of two arguments into a Func, e.g. Dyadic(math.Pow).
func Dyadic(f func(x, y float64) float64) Func {
	return dyadic{f}
}

var (
	_ Func = FuncOf(nil)
	_ Func = niladic{}
	_ Func = monadic{}
	_ Func = dyadic{}
)
