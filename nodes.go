package exevalator

import (
	"fmt"
	"strconv"
	"strings"
)

// evalNode is a node of a compiled expression. Names are already resolved:
// variables to addresses and functions to their Func.
type evalNode struct {
	kind evalKind

	num  float64
	addr int
	name string
	fn   Func

	left  *evalNode
	right *evalNode

	// args are the argument nodes of a call. buf holds their values while
	// the function is invoked; it is reused by every evaluation.
	args []*evalNode
	buf  []float64
}

type evalKind int8

const (
	evalNone evalKind = iota

	evalNum  // num
	evalVar  // mem[addr]
	evalNeg  // -left
	evalAdd  // left + right
	evalSub  // left - right
	evalMul  // left * right
	evalDiv  // left / right
	evalCall // fn(args...), name is the function name
	evalNop  // 0, stands in for the function name under a call
)

func (k evalKind) String() string {
	switch k {
	case evalNum:
		return "Num"
	case evalVar:
		return "Var"
	case evalNeg:
		return "Neg"
	case evalAdd:
		return "Add"
	case evalSub:
		return "Sub"
	case evalMul:
		return "Mul"
	case evalDiv:
		return "Div"
	case evalCall:
		return "Call"
	case evalNop:
		return "Nop"
	default:
		return "evalKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// eval computes the value of the expression under n using the variable values
// in mem.
func (n *evalNode) eval(mem []float64) (float64, error) {
	switch n.kind {
	case evalNum:
		return n.num, nil
	case evalVar:
		if n.addr < 0 || n.addr >= len(mem) {
			return 0, newError(InvalidMemoryAddress, strconv.Itoa(n.addr))
		}
		return mem[n.addr], nil
	case evalNeg:
		x, err := n.left.eval(mem)
		if err != nil {
			return 0, err
		}
		return -x, nil
	case evalAdd, evalSub, evalMul, evalDiv:
		x, err := n.left.eval(mem)
		if err != nil {
			return 0, err
		}
		y, err := n.right.eval(mem)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case evalAdd:
			return x + y, nil
		case evalSub:
			return x - y, nil
		case evalMul:
			return x * y, nil
		default:
			return x / y, nil
		}
	case evalCall:
		for i, a := range n.args {
			v, err := a.eval(mem)
			if err != nil {
				return 0, err
			}
			n.buf[i] = v
		}
		r, err := n.invoke()
		if err != nil {
			return 0, wrapError(FunctionError, err, n.name, err.Error())
		}
		return r, nil
	case evalNop:
		return 0, nil
	default:
		return 0, &InternalError{Msg: "evaluating node of kind " + n.kind.String()}
	}
}

// invoke calls the function of a call node with the argument values in buf.
// A panic in the function becomes its error.
func (n *evalNode) invoke() (r float64, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		perr, ok := p.(error)
		if !ok {
			perr = fmt.Errorf("%v", p)
		}
		r, err = 0, perr
	}()
	return n.fn.Invoke(n.buf)
}

var infix = [...]string{evalAdd: " + ", evalSub: " - ", evalMul: " * ", evalDiv: " / "}

func (n *evalNode) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node fully parenthesized. Variables appear by address, since
// that is all the node knows about them.
func (n *evalNode) fmt(b *strings.Builder) {
	switch n.kind {
	case evalNum:
		b.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case evalVar:
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n.addr))
	case evalNeg:
		b.WriteString("(-")
		n.left.fmt(b)
		b.WriteByte(')')
	case evalAdd, evalSub, evalMul, evalDiv:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString(infix[n.kind])
		n.right.fmt(b)
		b.WriteByte(')')
	case evalCall:
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteByte(')')
	case evalNop:
		b.WriteString("nop")
	default:
		// Invalid nodes use invalid characters.
		b.WriteString("#?#")
	}
}
