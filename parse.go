package exevalator

// The parser builds a syntax tree from tokens with a single pass over an
// explicit stack. Each operator knows the precedence of the next operator to
// its right, which decides whether it takes the following operand right away
// or waits on the stack for a later fold to give it a complete subtree.

// lidKind marks the start of a region of the parser stack holding the
// operands of one parenthesized group, one call, or one call argument.
type lidKind int8

const (
	lidNone lidKind = iota
	lidParen
	lidCall
	lidSeparator
)

// stackItem is either a node or a lid, never both.
type stackItem struct {
	node *astNode
	lid  lidKind
}

type parser struct {
	stack []stackItem
}

func (p *parser) push(n *astNode) {
	p.stack = append(p.stack, stackItem{node: n})
}

func (p *parser) pushLid(lid lidKind) {
	p.stack = append(p.stack, stackItem{lid: lid})
}

// popNode pops a node from the stack. It is an error if the top of the stack
// is empty or a lid.
func (p *parser) popNode() (*astNode, error) {
	if len(p.stack) == 0 {
		return nil, newError(UnexpectedPartialExpression)
	}
	it := p.stack[len(p.stack)-1]
	if it.lid != lidNone {
		return nil, newError(UnexpectedPartialExpression)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return it.node, nil
}

// popPartial pops nodes down to and including the nearest lid of the given
// kind, returning the nodes in the order they were pushed. Separator lids
// along the way are discarded.
func (p *parser) popPartial(lid lidKind) ([]*astNode, error) {
	k := len(p.stack) - 1
	for k >= 0 && p.stack[k].lid != lid {
		k--
	}
	if k < 0 {
		return nil, newError(UnexpectedPartialExpression)
	}
	var nodes []*astNode
	for _, it := range p.stack[k+1:] {
		switch it.lid {
		case lidNone:
			nodes = append(nodes, it.node)
		case lidSeparator:
			// discard
		default:
			return nil, newError(UnexpectedPartialExpression)
		}
	}
	clear(p.stack[k:])
	p.stack = p.stack[:k]
	return nodes, nil
}

// pending returns the operator node on top of the stack if it is still
// missing its right operand and should take an operand followed by an
// operator of precedence next.
func (p *parser) pending(next int) *astNode {
	if len(p.stack) == 0 {
		return nil
	}
	n := p.stack[len(p.stack)-1].node
	if n == nil || n.tok.kind != tokenOperator || !n.tok.op.takesRight(next) {
		return nil
	}
	switch {
	case n.tok.op.kind == opPrefix && len(n.children) == 0:
		return n
	case n.tok.op.kind == opBinary && len(n.children) == 1:
		return n
	}
	return nil
}

// nextPrecedences returns, for each token, the precedence of the first
// operator after it. An open parenthesis counts as the tightest binding
// operator and a close parenthesis as the loosest.
func nextPrecedences(toks []token) []int {
	r := make([]int, len(toks))
	last := leastPrec
	for i := len(toks) - 1; i >= 0; i-- {
		r[i] = last
		tok := toks[i]
		switch {
		case tok.op != nil:
			last = tok.op.prec
		case tok.kind == tokenParen && tok.text == "(":
			last = 0
		case tok.kind == tokenParen:
			last = leastPrec
		}
	}
	return r
}

// parse builds the syntax tree of a tokenized expression. The tokens must
// have passed the checks in tokenize.
func parse(toks []token) (*astNode, error) {
	next := nextPrecedences(toks)
	p := parser{stack: make([]stackItem, 0, len(toks))}
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		var n *astNode
		switch tok.kind {
		case tokenLiteral, tokenVariable, tokenFunction:
			p.push(&astNode{tok: tok})
			continue
		case tokenSeparator:
			p.pushLid(lidSeparator)
			continue
		case tokenParen:
			if tok.text == "(" {
				p.pushLid(lidParen)
				continue
			}
			nodes, err := p.popPartial(lidParen)
			if err != nil {
				return nil, err
			}
			if len(nodes) != 1 {
				return nil, newError(UnexpectedPartialExpression)
			}
			n = nodes[0]
		case tokenOperator:
			n = &astNode{tok: tok}
			switch tok.op.kind {
			case opPrefix, opBinary:
				if tok.op.kind == opBinary {
					left, err := p.popNode()
					if err != nil {
						return nil, err
					}
					n.children = append(n.children, left)
				}
				if tok.op.takesRight(next[i]) {
					if i+1 >= len(toks) || !toks[i+1].leaf() {
						return nil, &InternalError{Msg: "operator " + tok.String() + " takes a non-leaf operand"}
					}
					n.children = append(n.children, &astNode{tok: toks[i+1]})
					i++
				}
			case opCall:
				switch tok.op {
				case opCallBegin:
					callee, err := p.popNode()
					if err != nil {
						return nil, err
					}
					if callee.tok.kind != tokenFunction {
						return nil, &InternalError{Msg: "call of " + callee.tok.String()}
					}
					n.children = append(n.children, callee)
					p.push(n)
					p.pushLid(lidCall)
					continue
				case opCallEnd:
					args, err := p.popPartial(lidCall)
					if err != nil {
						return nil, err
					}
					n, err = p.popNode()
					if err != nil {
						return nil, err
					}
					if n.tok.op != opCallBegin {
						return nil, &InternalError{Msg: "call end matched " + n.tok.String()}
					}
					n.children = append(n.children, args...)
				default:
					return nil, &InternalError{Msg: "unexpected call operator " + tok.String()}
				}
			default:
				return nil, &InternalError{Msg: "unexpected operator " + tok.String()}
			}
		default:
			return nil, &InternalError{Msg: "unexpected token " + tok.String()}
		}
		// Complete any waiting operators which bind more tightly than what
		// follows.
		for op := p.pending(next[i]); op != nil; op = p.pending(next[i]) {
			p.stack = p.stack[:len(p.stack)-1]
			op.children = append(op.children, n)
			n = op
		}
		p.push(n)
	}
	if len(p.stack) != 1 || p.stack[0].lid != lidNone {
		return nil, newError(UnexpectedPartialExpression)
	}
	root := p.stack[0].node
	if err := root.checkDepth(1, MaxAstDepth); err != nil {
		return nil, err
	}
	return root, nil
}
