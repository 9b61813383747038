package exevalator_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/exevalator"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("1 + 2 * -x")
	f.Add("f(x, (1), -2e+3)")
	f.Add("((1)")
	f.Add("1,2")
	f.Fuzz(func(t *testing.T, s string) {
		e := exevalator.New()
		e.DeclareVariable("x")
		e.ConnectFunction("f", exevalator.FuncOf(func(args []float64) (float64, error) {
			return float64(len(args)), nil
		}))
		_, err := e.Eval(s)
		if err == nil {
			return
		}
		var ee *exevalator.Error
		if !errors.As(err, &ee) {
			t.Fatalf("%q gave non-*Error %T: %v", s, err, err)
		}
		if ee.Reason == exevalator.UnexpectedError {
			t.Fatalf("%q gave unexpected error: %v", s, err)
		}
	})
}

func FuzzDumpAST(f *testing.F) {
	f.Add("x")
	f.Add("- - 1 / (2)")
	f.Fuzz(func(t *testing.T, s string) {
		exevalator.DumpAST(s)
	})
}
