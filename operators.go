package exevalator

import "math"

type opKind int8

const (
	opNone opKind = iota
	// opPrefix is a unary prefix operator, e.g. the - in -x.
	opPrefix
	// opBinary is a binary infix operator.
	opBinary
	// opCall is one of the parts of a function call: the opening
	// parenthesis, the closing parenthesis, or the argument separator.
	opCall
)

func (k opKind) String() string {
	switch k {
	case opPrefix:
		return "UnaryPrefix"
	case opBinary:
		return "Binary"
	case opCall:
		return "Call"
	default:
		return "None"
	}
}

type assoc int8

const (
	assocLeft assoc = iota
	assocRight
)

// operator describes the syntax of an operator. Lower precedence values bind
// more tightly.
type operator struct {
	kind   opKind
	symbol byte
	prec   int
	assoc  assoc
}

// leastPrec is the precedence of tokens which end an operand, so that every
// pending operator completes before them.
const leastPrec = math.MaxInt

var (
	opAdd = &operator{kind: opBinary, symbol: '+', prec: 400, assoc: assocLeft}
	opSub = &operator{kind: opBinary, symbol: '-', prec: 400, assoc: assocLeft}
	opMul = &operator{kind: opBinary, symbol: '*', prec: 300, assoc: assocLeft}
	opDiv = &operator{kind: opBinary, symbol: '/', prec: 300, assoc: assocLeft}
	opNeg = &operator{kind: opPrefix, symbol: '-', prec: 200, assoc: assocRight}

	opCallBegin = &operator{kind: opCall, symbol: '(', prec: 100, assoc: assocLeft}
	opCallEnd   = &operator{kind: opCall, symbol: ')', prec: leastPrec, assoc: assocLeft}
	opCallSep   = &operator{kind: opCall, symbol: ',', prec: leastPrec, assoc: assocLeft}
)

// Splitters contains the characters which always form tokens on their own.
const Splitters = "+-*/(),"

// prefixOp and binaryOp look up operators by symbol.
func prefixOp(c byte) *operator {
	if c == '-' {
		return opNeg
	}
	return nil
}

func binaryOp(c byte) *operator {
	switch c {
	case '+':
		return opAdd
	case '-':
		return opSub
	case '*':
		return opMul
	case '/':
		return opDiv
	}
	return nil
}

// takesRight returns whether an operator with precedence o.prec takes the
// operand to its right directly when the next operator after that operand has
// precedence next. Ties go to left-associative operators.
func (o *operator) takesRight(next int) bool {
	return o.prec < next || (o.prec == next && o.assoc == assocLeft)
}
