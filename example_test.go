package exevalator_test

import (
	"fmt"
	"math"

	"github.com/zephyrtronium/exevalator"
)

func Example() {
	e := exevalator.New()
	r, err := e.Eval("1.2 + 3.4 * 5.6")
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f\n", r)

	// Output:
	// 20.24
}

func ExampleEngine_WriteVariableAt() {
	e := exevalator.New()
	x, _ := e.DeclareVariable("x")
	for i := 1; i <= 3; i++ {
		e.WriteVariableAt(x, float64(i))
		// The text is the same every time, so it is compiled only once.
		r, _ := e.Eval("x * x + 1")
		fmt.Println(r)
	}

	// Output:
	// 2
	// 5
	// 10
}

func ExampleEngine_Reeval() {
	e := exevalator.New()
	e.DeclareVariable("t")
	e.Eval("2 * t - 1")
	for _, t := range []float64{0, 0.5, 1} {
		e.WriteVariable("t", t)
		r, _ := e.Reeval()
		fmt.Println(r)
	}

	// Output:
	// -1
	// 0
	// 1
}

func ExampleEngine_ConnectFunction() {
	e := exevalator.New()
	e.ConnectFunction("hypot", exevalator.Dyadic(math.Hypot))
	e.ConnectFunction("sum", exevalator.FuncOf(func(args []float64) (float64, error) {
		var s float64
		for _, x := range args {
			s += x
		}
		return s, nil
	}))
	r, _ := e.Eval("hypot(3, 4) + sum(1, 2, 3)")
	fmt.Println(r)
	_, err := e.Eval("hypot(3)")
	fmt.Println(err)

	// Output:
	// 11
	// Function Error ('hypot'): incorrect number of arguments: want 2, got 1
}

func ExampleMessagesFor() {
	e := exevalator.New(exevalator.WithMessages(exevalator.MessagesFor("ja-JP")))
	_, err := e.Eval("(1 + 2")
	fmt.Println(err)

	// Output:
	// 閉じ括弧 ')' の数が足りません。
}

func ExampleDumpAST() {
	s, _ := exevalator.DumpAST("-x * 2")
	fmt.Println(s)

	// Output:
	// <Operator word="*" optype="Binary" precedence="300">
	//   <Operator word="-" optype="UnaryPrefix" precedence="200">
	//     <VariableIdentifier word="x" />
	//   </Operator>
	//   <NumberLiteral word="2" />
	// </Operator>
}
