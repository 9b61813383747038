package exevalator

import (
	"errors"
	"regexp"
	"strconv"
)

// literalExact matches exactly the number literals the language accepts.
var literalExact = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// compile converts a syntax tree into evaluator nodes, resolving names
// against the given tables.
func compile(n *astNode, vars map[string]int, funcs map[string]Func) (*evalNode, error) {
	tok := n.tok
	switch tok.kind {
	case tokenLiteral:
		v, err := parseLiteral(tok.text)
		if err != nil {
			return nil, err
		}
		return &evalNode{kind: evalNum, num: v}, nil
	case tokenVariable:
		addr, ok := vars[tok.text]
		if !ok {
			return nil, newError(VariableNotFound, tok.text)
		}
		return &evalNode{kind: evalVar, addr: addr}, nil
	case tokenFunction:
		// The call node consumes the name itself.
		return &evalNode{kind: evalNop, name: tok.text}, nil
	case tokenOperator:
		return compileOperator(n, vars, funcs)
	default:
		return nil, &InternalError{Msg: "compiling token " + tok.String()}
	}
}

func compileOperator(n *astNode, vars map[string]int, funcs map[string]Func) (*evalNode, error) {
	op := n.tok.op
	children := make([]*evalNode, len(n.children))
	for i, c := range n.children {
		e, err := compile(c, vars, funcs)
		if err != nil {
			return nil, err
		}
		children[i] = e
	}
	switch op.kind {
	case opPrefix:
		if len(children) != 1 || op != opNeg {
			return nil, &InternalError{Msg: "prefix operator " + n.tok.String() + " with " + strconv.Itoa(len(children)) + " operands"}
		}
		return &evalNode{kind: evalNeg, left: children[0]}, nil
	case opBinary:
		if len(children) != 2 {
			return nil, &InternalError{Msg: "binary operator " + n.tok.String() + " with " + strconv.Itoa(len(children)) + " operands"}
		}
		r := evalNode{left: children[0], right: children[1]}
		switch op {
		case opAdd:
			r.kind = evalAdd
		case opSub:
			r.kind = evalSub
		case opMul:
			r.kind = evalMul
		case opDiv:
			r.kind = evalDiv
		default:
			return nil, &InternalError{Msg: "unknown binary operator " + n.tok.String()}
		}
		return &r, nil
	case opCall:
		if op != opCallBegin || len(children) == 0 || children[0].kind != evalNop {
			return nil, &InternalError{Msg: "malformed call " + n.tok.String()}
		}
		name := children[0].name
		fn := funcs[name]
		if fn == nil {
			return nil, newError(FunctionNotFound, name)
		}
		args := children[1:]
		return &evalNode{
			kind: evalCall,
			name: name,
			fn:   fn,
			args: args,
			buf:  make([]float64, len(args)),
		}, nil
	default:
		return nil, &InternalError{Msg: "compiling operator " + n.tok.String()}
	}
}

// parseLiteral converts a number literal to its value. Literals too large
// for float64 are infinite.
func parseLiteral(s string) (float64, error) {
	if !literalExact.MatchString(s) {
		return 0, newError(InvalidNumberLiteral, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, newError(InvalidNumberLiteral, s)
	}
	return v, nil
}
