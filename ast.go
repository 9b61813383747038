package exevalator

import (
	"strconv"
	"strings"
)

// astNode is a node in the syntax tree of an expression. Operator nodes have
// their operands as children. A call node's first child is the function name,
// followed by the arguments.
type astNode struct {
	tok      token
	children []*astNode
}

// checkDepth checks that no node under n is deeper than max, where n itself
// is at depth.
func (n *astNode) checkDepth(depth, max int) error {
	if depth > max {
		return newError(ExceedsMaxAstDepth, strconv.Itoa(max))
	}
	for _, c := range n.children {
		if err := c.checkDepth(depth+1, max); err != nil {
			return err
		}
	}
	return nil
}

const astIndent = "  "

// markup writes the tree under n in an XML-like form, one node per line.
func (n *astNode) markup(b *strings.Builder, indent int) {
	pre := strings.Repeat(astIndent, indent)
	b.WriteString(pre)
	b.WriteByte('<')
	b.WriteString(n.tok.kind.String())
	b.WriteString(` word="`)
	b.WriteString(n.tok.text)
	b.WriteByte('"')
	if n.tok.op != nil {
		b.WriteString(` optype="`)
		b.WriteString(n.tok.op.kind.String())
		b.WriteString(`" precedence="`)
		if n.tok.op.prec == leastPrec {
			b.WriteString("least")
		} else {
			b.WriteString(strconv.Itoa(n.tok.op.prec))
		}
		b.WriteByte('"')
	}
	if len(n.children) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
	for _, c := range n.children {
		b.WriteByte('\n')
		c.markup(b, indent+1)
	}
	b.WriteByte('\n')
	b.WriteString(pre)
	b.WriteString("</")
	b.WriteString(n.tok.kind.String())
	b.WriteByte('>')
}

// DumpAST parses an expression and returns its syntax tree in an XML-like
// text form, for debugging. Names are not resolved, so the expression may use
// variables and functions which do not exist.
func DumpAST(expr string) (string, error) {
	root, err := parseExpr(expr)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	root.markup(&b, 0)
	return b.String(), nil
}

// parseExpr runs the tokenizer and parser on an expression.
func parseExpr(expr string) (*astNode, error) {
	if len([]rune(expr)) > MaxExpressionCharCount {
		return nil, newError(TooLongExpression, strconv.Itoa(MaxExpressionCharCount))
	}
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	return parse(toks)
}
