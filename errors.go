package exevalator

import (
	"errors"
	"strconv"
)

// Reason identifies the kind of failure described by an Error. A Reason is
// itself an error so that it can be the target of errors.Is:
//
//	if errors.Is(err, exevalator.VariableNotFound) { ... }
type Reason int8

const (
	reasonNone Reason = iota

	// Tokenizing.
	EmptyExpression
	TooManyTokens
	DeficientOpenParenthesis
	DeficientClosedParenthesis
	EmptyParenthesis
	RightOperandRequired
	LeftOperandRequired
	RightOperatorRequired
	LeftOperatorRequired
	UnknownUnaryPrefixOperator
	UnknownBinaryOperator
	UnknownOperatorSyntax

	// Parsing.
	ExceedsMaxAstDepth
	UnexpectedPartialExpression

	// Compiling and evaluating.
	InvalidNumberLiteral
	InvalidMemoryAddress
	FunctionError
	VariableNotFound
	FunctionNotFound

	// Engine operations.
	TooLongExpression
	UnexpectedError
	ReevalNotAvailable
	TooLongVariableName
	TooLongFunctionName
	VariableAlreadyDeclared
	FunctionAlreadyConnected
	InvalidVariableAddress
	TooManyVariables

	reasonCount
)

var reasonNames = [reasonCount]string{
	reasonNone:                  "None",
	EmptyExpression:             "EmptyExpression",
	TooManyTokens:               "TooManyTokens",
	DeficientOpenParenthesis:    "DeficientOpenParenthesis",
	DeficientClosedParenthesis:  "DeficientClosedParenthesis",
	EmptyParenthesis:            "EmptyParenthesis",
	RightOperandRequired:        "RightOperandRequired",
	LeftOperandRequired:         "LeftOperandRequired",
	RightOperatorRequired:       "RightOperatorRequired",
	LeftOperatorRequired:        "LeftOperatorRequired",
	UnknownUnaryPrefixOperator:  "UnknownUnaryPrefixOperator",
	UnknownBinaryOperator:       "UnknownBinaryOperator",
	UnknownOperatorSyntax:       "UnknownOperatorSyntax",
	ExceedsMaxAstDepth:          "ExceedsMaxAstDepth",
	UnexpectedPartialExpression: "UnexpectedPartialExpression",
	InvalidNumberLiteral:        "InvalidNumberLiteral",
	InvalidMemoryAddress:        "InvalidMemoryAddress",
	FunctionError:               "FunctionError",
	VariableNotFound:            "VariableNotFound",
	FunctionNotFound:            "FunctionNotFound",
	TooLongExpression:           "TooLongExpression",
	UnexpectedError:             "UnexpectedError",
	ReevalNotAvailable:          "ReevalNotAvailable",
	TooLongVariableName:         "TooLongVariableName",
	TooLongFunctionName:         "TooLongFunctionName",
	VariableAlreadyDeclared:     "VariableAlreadyDeclared",
	FunctionAlreadyConnected:    "FunctionAlreadyConnected",
	InvalidVariableAddress:      "InvalidVariableAddress",
	TooManyVariables:            "TooManyVariables",
}

func (r Reason) String() string {
	if r < 0 || r >= reasonCount {
		return "Reason(" + strconv.Itoa(int(r)) + ")"
	}
	return reasonNames[r]
}

// Error returns the name of r, the same as String.
func (r Reason) Error() string {
	return r.String()
}

// ParseReason returns the Reason with the given name, as returned by
// Reason.String.
func ParseReason(name string) (Reason, bool) {
	for r := reasonNone + 1; r < reasonCount; r++ {
		if reasonNames[r] == name {
			return r, true
		}
	}
	return reasonNone, false
}

// Error is an error resulting from invalid input or invalid use of an Engine.
// Every error returned by an Engine is an *Error.
type Error struct {
	// Reason is the kind of failure.
	Reason Reason
	// Args are the parameters of the message, e.g. the offending token or
	// name. Their meaning depends on Reason.
	Args []string

	msgs Messages
	err  error
}

func newError(r Reason, args ...string) *Error {
	return &Error{Reason: r, Args: args}
}

// wrapError creates an error of the given reason which unwraps to err.
func wrapError(r Reason, err error, args ...string) *Error {
	return &Error{Reason: r, Args: args, err: err}
}

func (err *Error) Error() string {
	msgs := err.msgs
	if msgs == nil {
		msgs = english
	}
	return msgs.Format(err.Reason, err.Args...)
}

// Unwrap returns the error that caused err, if any. Errors returned by
// functions connected to an Engine are available this way through an error
// with reason FunctionError.
func (err *Error) Unwrap() error {
	return err.err
}

// Is reports whether target is err's Reason.
func (err *Error) Is(target error) bool {
	r, ok := target.(Reason)
	return ok && r == err.Reason
}

// InternalError indicates a violated invariant inside the engine, i.e. a bug
// rather than bad input. An Engine reports it wrapped in an Error with reason
// UnexpectedError.
type InternalError struct {
	// Msg describes the violated invariant.
	Msg string
}

func (err *InternalError) Error() string {
	return "exevalator: internal error: " + err.Msg
}

// ArityError is returned by the Func adapters when they are called with the
// wrong number of arguments.
type ArityError struct {
	// Want is the number of arguments the function accepts.
	Want int
	// Got is the number of arguments in the call.
	Got int
}

func (err *ArityError) Error() string {
	return "incorrect number of arguments: want " + strconv.Itoa(err.Want) + ", got " + strconv.Itoa(err.Got)
}

var (
	_ error = Reason(0)
	_ error = (*Error)(nil)
	_ error = (*InternalError)(nil)
	_ error = (*ArityError)(nil)

	_ interface{ Unwrap() error } = (*Error)(nil)
)

// asError converts any error into an *Error. An *Error anywhere in err's
// chain is returned as is, so that domain errors are never wrapped twice.
// Anything else becomes UnexpectedError.
func asError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return wrapError(UnexpectedError, err, err.Error())
}
