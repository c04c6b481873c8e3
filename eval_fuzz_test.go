//go:build go1.18
// +build go1.18

package bigexpr_test

import (
	"math/big"
	"testing"

	"github.com/zephyrtronium/bigexpr"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("x + y z")
	f.Add("exp^2 x / 3")
	f.Add("log(x, 2) - sqrt y")
	f.Fuzz(func(t *testing.T, s string) {
		bigexpr.EvalString(s, bigexpr.SetVar("x", big.NewInt(3)), bigexpr.SetVar("y", big.NewRat(1, 2)))
	})
}
