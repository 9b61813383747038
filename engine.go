package exevalator

import (
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"unicode/utf8"
)

// Engine evaluates expressions using its own variables and functions. It is
// not safe to use an Engine concurrently.
//
// Every error returned by an Engine's methods is an *Error.
type Engine struct {
	mem   memory
	vars  map[string]int
	funcs map[string]Func

	// tree is the compiled form of src. It is nil until the first successful
	// compilation.
	tree *evalNode
	src  string

	msgs Messages
	log  *slog.Logger
}

// Option is an option for creating an Engine.
type Option interface {
	apply(e *Engine)
}

type (
	msgsopt Messages
	logopt  struct{ log *slog.Logger }
)

func (o msgsopt) apply(e *Engine) { e.msgs = Messages(o) }
func (o logopt) apply(e *Engine)  { e.log = o.log }

// WithMessages sets the message table used for the text of errors returned
// by the engine. The default is English.
func WithMessages(msgs Messages) Option {
	return msgsopt(msgs)
}

// WithLogger sets a logger for the engine. The engine logs compilations at
// debug level. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return logopt{log}
}

// New creates an Engine with no variables and no functions.
func New(opts ...Option) *Engine {
	e := Engine{
		vars:  make(map[string]int),
		funcs: make(map[string]Func),
		msgs:  english,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&e)
		}
	}
	if e.msgs == nil {
		e.msgs = english
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	return &e
}

// Eval evaluates an expression. If expr is the same text as the last
// expression the engine compiled, the compiled form is reused; otherwise it is
// compiled anew, resolving variable and function names as they are now.
//
// If compiling fails, the engine still holds the previous compiled
// expression, so Reeval continues to evaluate it.
func (e *Engine) Eval(expr string) (r float64, err error) {
	defer e.catch(&err)
	if utf8.RuneCountInString(expr) > MaxExpressionCharCount {
		return 0, e.fail(newError(TooLongExpression, strconv.Itoa(MaxExpressionCharCount)))
	}
	if e.tree == nil || e.src != expr {
		tree, err := e.compile(expr)
		if err != nil {
			return 0, e.fail(err)
		}
		e.tree, e.src = tree, expr
	}
	r, err = e.tree.eval(e.mem.vals)
	if err != nil {
		return 0, e.fail(err)
	}
	return r, nil
}

// Reeval evaluates the last expression the engine compiled again, using the
// current values of variables. It fails with ReevalNotAvailable if nothing has
// been compiled yet.
func (e *Engine) Reeval() (r float64, err error) {
	defer e.catch(&err)
	if e.tree == nil {
		return 0, e.fail(newError(ReevalNotAvailable))
	}
	r, err = e.tree.eval(e.mem.vals)
	if err != nil {
		return 0, e.fail(err)
	}
	return r, nil
}

func (e *Engine) compile(expr string) (*evalNode, error) {
	ast, err := parseExpr(expr)
	if err != nil {
		e.log.Debug("rejected expression", slog.String("expr", expr), slog.Any("err", err))
		return nil, err
	}
	tree, err := compile(ast, e.vars, e.funcs)
	if err != nil {
		e.log.Debug("failed to compile expression", slog.String("expr", expr), slog.Any("err", err))
		return nil, err
	}
	e.log.Debug("compiled expression", slog.String("expr", expr), slog.Any("tree", tree))
	return tree, nil
}

// DeclareVariable creates a variable with value 0 and returns its address.
// Declaring a name twice fails with VariableAlreadyDeclared.
func (e *Engine) DeclareVariable(name string) (int, error) {
	if utf8.RuneCountInString(name) > MaxNameCharCount {
		return 0, e.fail(newError(TooLongVariableName, strconv.Itoa(MaxNameCharCount)))
	}
	if _, ok := e.vars[name]; ok {
		return 0, e.fail(newError(VariableAlreadyDeclared, name))
	}
	addr, ok := e.mem.alloc()
	if !ok {
		return 0, e.fail(newError(TooManyVariables, strconv.Itoa(MaxVariableCount)))
	}
	e.vars[name] = addr
	return addr, nil
}

// WriteVariable sets the value of a declared variable.
func (e *Engine) WriteVariable(name string, v float64) error {
	addr, err := e.address(name)
	if err != nil {
		return err
	}
	return e.WriteVariableAt(addr, v)
}

// WriteVariableAt sets the value of the variable at an address returned by
// DeclareVariable. This skips looking up the name, for loops which update
// variables often.
func (e *Engine) WriteVariableAt(addr int, v float64) error {
	if !e.mem.valid(addr) {
		return e.fail(newError(InvalidVariableAddress, strconv.Itoa(addr)))
	}
	e.mem.vals[addr] = v
	return nil
}

// ReadVariable returns the value of a declared variable.
func (e *Engine) ReadVariable(name string) (float64, error) {
	addr, err := e.address(name)
	if err != nil {
		return 0, err
	}
	return e.ReadVariableAt(addr)
}

// ReadVariableAt returns the value of the variable at an address returned by
// DeclareVariable.
func (e *Engine) ReadVariableAt(addr int) (float64, error) {
	if !e.mem.valid(addr) {
		return 0, e.fail(newError(InvalidVariableAddress, strconv.Itoa(addr)))
	}
	return e.mem.vals[addr], nil
}

func (e *Engine) address(name string) (int, error) {
	if utf8.RuneCountInString(name) > MaxNameCharCount {
		return 0, e.fail(newError(VariableNotFound, name))
	}
	addr, ok := e.vars[name]
	if !ok {
		return 0, e.fail(newError(VariableNotFound, name))
	}
	return addr, nil
}

// ConnectFunction makes a function available to expressions under a name.
// Connecting a name twice fails with FunctionAlreadyConnected. A nil fn
// panics.
func (e *Engine) ConnectFunction(name string, fn Func) error {
	if fn == nil {
		panic("exevalator: ConnectFunction with nil Func")
	}
	if utf8.RuneCountInString(name) > MaxNameCharCount {
		return e.fail(newError(TooLongFunctionName, strconv.Itoa(MaxNameCharCount)))
	}
	if _, ok := e.funcs[name]; ok {
		return e.fail(newError(FunctionAlreadyConnected, name))
	}
	e.funcs[name] = fn
	return nil
}

// Variables returns the names of declared variables and their addresses.
// The map is a copy.
func (e *Engine) Variables() map[string]int {
	return maps.Clone(e.vars)
}

// fail converts err to an *Error in the engine's language.
func (e *Engine) fail(err error) *Error {
	r := asError(err)
	if r.msgs == nil {
		r.msgs = e.msgs
	}
	return r
}

// catch turns a panic inside the engine into an error with reason
// UnexpectedError. Panics in connected functions never reach it; calls report
// them as FunctionError.
func (e *Engine) catch(err *error) {
	p := recover()
	if p == nil {
		return
	}
	perr, ok := p.(error)
	if !ok {
		perr = fmt.Errorf("%v", p)
	}
	e.log.Error("recovered panic during evaluation", slog.Any("panic", p))
	*err = e.fail(wrapError(UnexpectedError, perr, perr.Error()))
}
