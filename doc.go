// Package exevalator implements a small engine for evaluating arithmetic
// expressions over float64.
//
// An expression is made of decimal number literals, the binary operators
// + - * /, unary minus, parentheses, variables, and calls to functions supplied
// by the host program, e.g. "2 * f(x, 3.5e-1) - -y". There is nothing else: no
// control flow, no types other than float64, no functions defined inside the
// expression language.
//
// An Engine owns the values of its variables and the functions connected to
// it. Evaluating the same text twice in a row reuses the tree compiled for the
// first evaluation, so a loop which changes variables between evaluations of
// one formula pays for parsing only once. Reeval skips even the comparison of
// the text.
//
// An Engine is not safe to use concurrently. Use one Engine per goroutine.
package exevalator
