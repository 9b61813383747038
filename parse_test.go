package exevalator

import (
	"errors"
	"strings"
	"testing"
)

// sexpr formats a syntax tree as an s-expression, e.g. (+ 1 (* 2 3)).
func sexpr(n *astNode) string {
	if len(n.children) == 0 {
		return n.tok.text
	}
	var b strings.Builder
	b.WriteByte('(')
	switch n.tok.op {
	case opCallBegin:
		b.WriteString("call")
	case opNeg:
		b.WriteString("neg")
	default:
		b.WriteString(n.tok.text)
	}
	for _, c := range n.children {
		b.WriteByte(' ')
		b.WriteString(sexpr(c))
	}
	b.WriteByte(')')
	return b.String()
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"literal", "1", "1"},
		{"variable", "x", "x"},
		{"neg", "-x", "(neg x)"},
		{"negneg", "- - 2", "(neg (neg 2))"},
		{"add", "1+2", "(+ 1 2)"},
		{"add3", "1+2+3", "(+ (+ 1 2) 3)"},
		{"sub3", "1-2-3", "(- (- 1 2) 3)"},
		{"div3", "1/2/3", "(/ (/ 1 2) 3)"},
		{"mixed-add", "1-2+3", "(+ (- 1 2) 3)"},
		{"mul-first", "1*2+3", "(+ (* 1 2) 3)"},
		{"mul-second", "1+2*3", "(+ 1 (* 2 3))"},
		{"mul-middle", "1.2 + 3.4 * 5.6 + 7.8", "(+ (+ 1.2 (* 3.4 5.6)) 7.8)"},
		{"neg-operand", "1.2 + 3.4 / -5.6 * 7.8", "(+ 1.2 (* (/ 3.4 (neg 5.6)) 7.8))"},
		{"neg-binds-tighter", "-2*3", "(* (neg 2) 3)"},
		{"sub-neg", "1 - -2", "(- 1 (neg 2))"},
		{"paren-left", "(1+2)*3", "(* (+ 1 2) 3)"},
		{"paren-right", "2*(3+4)", "(* 2 (+ 3 4))"},
		{"paren-nested", "1+((2+(3+4)+5)+6)", "(+ 1 (+ (+ (+ 2 (+ 3 4)) 5) 6))"},
		{"paren-neg", "-(1+2)*3", "(* (neg (+ 1 2)) 3)"},
		{"paren-only", "((x))", "x"},
		{"call0", "f()", "(call f)"},
		{"call1", "f(x)", "(call f x)"},
		{"call2", "f(1,2)", "(call f 1 2)"},
		{"call-args", "f(1+2, -3, x*y)", "(call f (+ 1 2) (neg 3) (* x y))"},
		{"call-arg-precedence", "f(1+2*3, 4)", "(call f (+ 1 (* 2 3)) 4)"},
		{"call-nested", "funC(funC(funA(), funB(2.5)), funB(1.0))",
			"(call funC (call funC (call funA) (call funB 2.5)) (call funB 1.0))"},
		{"call-times", "2*f(3)", "(* 2 (call f 3))"},
		{"neg-call", "-f(2)*3", "(* (neg (call f 2)) 3)"},
		{"call-in-sum", "1 + f(2) * 3", "(+ 1 (* (call f 2) 3))"},
		{"exponent", "1.2E+3 - 4e-2", "(- 1.2E+3 4e-2)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root, err := parseExpr(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if got := sexpr(root); got != c.want {
				t.Errorf("wrong tree for %q:\n\twant %s\n\tgot  %s", c.src, c.want, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		reason Reason
	}{
		{"comma-in-paren", "(1, 2)", UnexpectedPartialExpression},
		{"comma-top", "1, 2", UnexpectedPartialExpression},
		{"call-then-paren", "f(1) (2)", UnexpectedPartialExpression},
		{"variable-then-call", "x f(1)", UnexpectedPartialExpression},
		{"too-long", strings.Repeat(" ", MaxExpressionCharCount) + "1", TooLongExpression},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root, err := parseExpr(c.src)
			if err == nil {
				t.Fatalf("%q parsed to %s without error", c.src, sexpr(root))
			}
			if !errors.Is(err, c.reason) {
				t.Errorf("%q gave %v, want reason %v", c.src, err, c.reason)
			}
		})
	}
}

func TestParseDepth(t *testing.T) {
	// Each minus adds a level above the literal.
	ok := strings.Repeat("-", MaxAstDepth-1) + "1"
	if _, err := parseExpr(ok); err != nil {
		t.Errorf("depth %d failed: %v", MaxAstDepth, err)
	}
	deep := "-" + ok
	_, err := parseExpr(deep)
	if !errors.Is(err, ExceedsMaxAstDepth) {
		t.Errorf("depth %d gave %v, want ExceedsMaxAstDepth", MaxAstDepth+1, err)
	}
}

func TestNextPrecedences(t *testing.T) {
	toks, err := tokenize("1 + (2 * f(3, x)) - 4")
	if err != nil {
		t.Fatal(err)
	}
	// tokens: 1 + ( 2 * f ( 3 , x ) ) - 4
	want := []int{400, 0, 300, 300, 100, 100, leastPrec, leastPrec, leastPrec, leastPrec, leastPrec, 400, leastPrec, leastPrec}
	got := nextPrecedences(toks)
	if len(got) != len(want) {
		t.Fatalf("want %d precedences, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d %v: want %d, got %d", i, toks[i], want[i], got[i])
		}
	}
}

func TestDumpAST(t *testing.T) {
	got, err := DumpAST("1 + f(x)")
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`<Operator word="+" optype="Binary" precedence="400">`,
		`  <NumberLiteral word="1" />`,
		`  <Operator word="(" optype="Call" precedence="100">`,
		`    <FunctionIdentifier word="f" />`,
		`    <VariableIdentifier word="x" />`,
		`  </Operator>`,
		`</Operator>`,
	}, "\n")
	if got != want {
		t.Errorf("wrong markup:\nwant:\n%s\ngot:\n%s", want, got)
	}
	if _, err := DumpAST(""); !errors.Is(err, EmptyExpression) {
		t.Errorf("empty expression gave %v", err)
	}
}
