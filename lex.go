package exevalator

import (
	"regexp"
	"strconv"
	"strings"
)

type token struct {
	kind tokenKind
	text string
	// op is the operator for operator and separator tokens.
	op *operator
}

func (t token) String() string {
	return t.kind.String() + ":" + strconv.Quote(t.text)
}

// leaf returns whether the token is a literal or a variable.
func (t token) leaf() bool {
	return t.kind == tokenLiteral || t.kind == tokenVariable
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenLiteral is a number literal.
	tokenLiteral
	// tokenOperator is a prefix or binary operator, or the opening or closing
	// parenthesis of a function call.
	tokenOperator
	// tokenParen is a grouping parenthesis.
	tokenParen
	// tokenSeparator is a comma separating function arguments.
	tokenSeparator
	// tokenVariable is a variable name.
	tokenVariable
	// tokenFunction is the name of a called function.
	tokenFunction
)

func (k tokenKind) String() string {
	switch k {
	case tokenLiteral:
		return "NumberLiteral"
	case tokenOperator:
		return "Operator"
	case tokenParen:
		return "Parenthesis"
	case tokenSeparator:
		return "Separator"
	case tokenVariable:
		return "VariableIdentifier"
	case tokenFunction:
		return "FunctionIdentifier"
	default:
		return "None"
	}
}

// literalPrefix matches the longest number literal at the start of a string.
// An exponent sign belongs to the literal, so "1e-5" is one token.
var literalPrefix = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isSplitter(c byte) bool {
	return strings.IndexByte(Splitters, c) >= 0
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// word is an unclassified token.
type word struct {
	text string
	// literal is set for words which begin with a digit. They are checked
	// as number literals when compiled.
	literal bool
}

// split breaks an expression into words. Splitters are always single words,
// whitespace separates words, and a number literal is taken whole where a
// word begins with a digit. Any characters after a literal up to the next
// whitespace or splitter stay in the same word, so "1.2.3" and "1e" are single
// words which fail to compile rather than silently separate tokens.
func split(expr string) []word {
	var words []word
	start := -1
	flush := func(end int) {
		if start >= 0 {
			words = append(words, word{text: expr[start:end]})
			start = -1
		}
	}
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case isSpace(c):
			flush(i)
			i++
		case isSplitter(c):
			flush(i)
			words = append(words, word{text: expr[i : i+1]})
			i++
		case start < 0 && isDigit(c):
			j := i + len(literalPrefix.FindString(expr[i:]))
			for j < len(expr) && !isSpace(expr[j]) && !isSplitter(expr[j]) {
				j++
			}
			words = append(words, word{text: expr[i:j], literal: true})
			i = j
		default:
			if start < 0 {
				start = i
			}
			i++
		}
	}
	flush(len(expr))
	return words
}

// tokenize splits and classifies an expression and checks that the tokens
// are in a sensible order.
func tokenize(expr string) ([]token, error) {
	words := split(expr)
	if len(words) == 0 {
		return nil, newError(EmptyExpression)
	}
	if len(words) > MaxTokenCount {
		return nil, newError(TooManyTokens, strconv.Itoa(MaxTokenCount))
	}
	toks, err := classify(words)
	if err != nil {
		return nil, err
	}
	if err := checkBalance(toks); err != nil {
		return nil, err
	}
	if err := checkEmptyParens(toks); err != nil {
		return nil, err
	}
	if err := checkPlacement(toks); err != nil {
		return nil, err
	}
	return toks, nil
}

func classify(words []word) ([]token, error) {
	toks := make([]token, 0, len(words))
	// calls is the set of parenthesis depths at which a function call is open.
	calls := make(map[int]bool)
	depth := 0
	for i, w := range words {
		var tok token
		switch {
		case w.literal:
			tok = token{kind: tokenLiteral, text: w.text}
		case w.text == "(":
			depth++
			if len(toks) > 0 && toks[len(toks)-1].kind == tokenFunction {
				calls[depth] = true
				tok = token{kind: tokenOperator, text: w.text, op: opCallBegin}
			} else {
				tok = token{kind: tokenParen, text: w.text}
			}
		case w.text == ")":
			if calls[depth] {
				delete(calls, depth)
				tok = token{kind: tokenOperator, text: w.text, op: opCallEnd}
			} else {
				tok = token{kind: tokenParen, text: w.text}
			}
			depth--
		case w.text == ",":
			tok = token{kind: tokenSeparator, text: w.text, op: opCallSep}
		case len(w.text) == 1 && isSplitter(w.text[0]):
			op, err := classifyOperator(w.text, toks)
			if err != nil {
				return nil, err
			}
			tok = token{kind: tokenOperator, text: w.text, op: op}
		case i+1 < len(words) && words[i+1].text == "(":
			tok = token{kind: tokenFunction, text: w.text}
		default:
			tok = token{kind: tokenVariable, text: w.text}
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// classifyOperator decides whether an operator symbol is a prefix or a binary
// operator from the token before it.
func classifyOperator(sym string, prev []token) (*operator, error) {
	var last *token
	if len(prev) > 0 {
		last = &prev[len(prev)-1]
	}
	switch {
	case last == nil,
		last.text == "(",
		last.text == ",",
		last.kind == tokenOperator && last.op.kind != opCall:
		op := prefixOp(sym[0])
		if op == nil {
			return nil, newError(UnknownUnaryPrefixOperator, sym)
		}
		return op, nil
	case last.text == ")", last.leaf():
		op := binaryOp(sym[0])
		if op == nil {
			return nil, newError(UnknownBinaryOperator, sym)
		}
		return op, nil
	default:
		return nil, newError(UnknownOperatorSyntax, sym)
	}
}

// checkBalance checks that parentheses, including those of function calls,
// are balanced.
func checkBalance(toks []token) error {
	depth := 0
	for _, tok := range toks {
		switch tok.text {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth < 0 {
			return newError(DeficientOpenParenthesis)
		}
	}
	if depth > 0 {
		return newError(DeficientClosedParenthesis)
	}
	return nil
}

// checkEmptyParens checks that grouping parentheses are not empty. The
// parentheses of a call with no arguments are fine.
func checkEmptyParens(toks []token) error {
	n := 0
	for _, tok := range toks {
		if tok.kind != tokenParen {
			n++
			continue
		}
		if tok.text == "(" {
			n = 0
		} else if n == 0 {
			return newError(EmptyParenthesis)
		}
	}
	return nil
}

// checkPlacement checks that operators have operands and that operands are
// joined by operators.
func checkPlacement(toks []token) error {
	for i, tok := range toks {
		var prev, next token
		if i > 0 {
			prev = toks[i-1]
		}
		if i+1 < len(toks) {
			next = toks[i+1]
		}
		nextOpen := next.text == "("
		nextCall := next.kind == tokenOperator && next.op == opCallBegin
		// operand is whether the next token can begin a right operand.
		operand := next.leaf() || nextOpen ||
			next.kind == tokenFunction ||
			(next.kind == tokenOperator && next.op.kind == opPrefix)

		switch {
		case tok.kind == tokenOperator && tok.op.kind == opPrefix:
			if !operand {
				return newError(RightOperandRequired, tok.text)
			}
		case tok.kind == tokenSeparator, tok.kind == tokenOperator && tok.op.kind == opBinary:
			if !operand {
				return newError(RightOperandRequired, tok.text)
			}
			if !prev.leaf() && prev.text != ")" {
				return newError(LeftOperandRequired, tok.text)
			}
		case tok.leaf():
			if !nextCall && (nextOpen || next.leaf()) {
				return newError(RightOperatorRequired, tok.text)
			}
			if prev.text == ")" || prev.leaf() {
				return newError(LeftOperatorRequired, tok.text)
			}
		}
	}
	return nil
}
