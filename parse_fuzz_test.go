//go:build go1.18
// +build go1.18

package bigexpr_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/bigexpr"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("pi(x)")
	f.Add("{x - [y - (z)]}")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := bigexpr.Parse(strings.NewReader(s), bigexpr.Declare("x", bigexpr.TypeInt), bigexpr.Declare("y", bigexpr.TypeFloat))
		if err != nil {
			return
		}
		// Every parsed expression can be planned.
		if _, err := e.Plan(); err != nil {
			t.Errorf("couldn't plan %q: %v", s, err)
		}
	})
}
