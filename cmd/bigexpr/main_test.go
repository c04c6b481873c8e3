package main

import (
	"bytes"
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zephyrtronium/bigexpr"
)

func TestRoot(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"int", []string{"2^10"}, "1024\n"},
		{"several", []string{"2^10", "1/3 + 1/6"}, "1024\n1/2\n"},
		{"error", []string{"1/0"}, "outside domain of /"},
		{"echo", []string{"--echo", "1 + 2"}, "([1] + [2]) : 3\n"},
		{"plan", []string{"--plan", "2 + 3 4"}, "AddMul(Int, Int, Int) -> Int"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			root := newRootCmd()
			root.SetOut(&out)
			root.SetArgs(c.args)
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), c.want) {
				t.Errorf("output %q lacks %q", out.String(), c.want)
			}
		})
	}
}

func TestInputFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "exprs")
	if err := os.WriteFile(name, []byte("2^10"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--in", name, "1 + 1"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "1024\n2\n" {
		t.Errorf("want %q, got %q", "1024\n2\n", got)
	}
}

func TestInputsClose(t *testing.T) {
	name := filepath.Join(t.TempDir(), "exprs")
	// Longer than a bufio buffer, so reads must reach the file again.
	src := strings.Repeat("1 + ", 4096) + "1"
	if err := os.WriteFile(name, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	ins, done, err := inputs(name, []string{"2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 2 {
		t.Fatalf("want 2 inputs, got %d", len(ins))
	}
	if r, _, err := ins[0].ReadRune(); err != nil || r != '1' {
		t.Fatalf("first rune: %q, %v", r, err)
	}
	done()
	_, err = io.ReadAll(ins[0].(io.Reader))
	if !errors.Is(err, os.ErrClosed) {
		t.Errorf("reading after done: want %v, got %v", os.ErrClosed, err)
	}
	// Without a file there is nothing to close.
	_, done, err = inputs("", []string{"1"})
	if err != nil {
		t.Fatal(err)
	}
	done()
}

func TestRules(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"rules", "--op", "+=*"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], "OP") {
		t.Fatalf("wrong rules table:\n%s", out.String())
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "AddMul") {
			t.Errorf("filter let through %q", l)
		}
	}
}

func TestAssignment(t *testing.T) {
	cases := []struct {
		line, name, src string
	}{
		{"x = 1", "x", " 1"},
		{"x1 =y", "x1", "y"},
		{"1x = 2", "", "1x = 2"},
		{"x + y", "", "x + y"},
		{" = 3", "", " = 3"},
		{"a b = 3", "", "a b = 3"},
	}
	for _, c := range cases {
		name, src := assignment(c.line)
		if name != c.name || src != c.src {
			t.Errorf("assignment(%q): want (%q, %q), got (%q, %q)", c.line, c.name, c.src, name, src)
		}
	}
}

func TestReplLine(t *testing.T) {
	x := big.NewInt(2)
	ctx := bigexpr.NewContext().Set("x", x)
	sess := newSession(ctx)
	steps := []struct {
		line string
		want string
		err  bool
	}{
		{"x + 1", "3\n", false},
		{"y = x / 4", "1/2\n", false},
		{"x = x + x x", "6\n", false},
		{"x = x + x x", "42\n", false},
		{"z = y + x", "85/2\n", false},
		{":vars", "x : Int = 42\ny : Rat = 1/2\nz : Rat = 85/2\n", false},
		{":plan x + y", "slots:", false},
		{":bogus", "", true},
		{"w + 1", "", true},
	}
	for _, s := range steps {
		var out bytes.Buffer
		err := sess.line(&out, s.line)
		if (err != nil) != s.err {
			t.Errorf("%q: wrong error %v", s.line, err)
			continue
		}
		if !strings.Contains(out.String(), s.want) {
			t.Errorf("%q: output %q lacks %q", s.line, out.String(), s.want)
		}
	}
	if x.Int64() != 2 {
		t.Errorf("Set didn't copy the variable, x is now %v", x)
	}
}

func TestReplReassign(t *testing.T) {
	ctx := bigexpr.NewContext()
	sess := newSession(ctx)
	var out bytes.Buffer
	steps := []struct {
		line string
		want string
		// same is whether x keeps the storage it had before the line.
		same bool
	}{
		{"x = 3", "3", false},
		{"x = x * x", "9", true},
		{"x = x + 1", "10", true},
		{"x = x / 4", "5/2", false},
		{"x = x - 1/2", "2", true},
		{"y = x", "2", true},
	}
	for _, s := range steps {
		before := sess.owned["x"]
		out.Reset()
		if err := sess.line(&out, s.line); err != nil {
			t.Fatalf("%q: %v", s.line, err)
		}
		if got := strings.TrimSpace(out.String()); got != s.want {
			t.Errorf("%q: want %s, got %s", s.line, s.want, got)
		}
		after := sess.owned["x"]
		if (before == after) != s.same {
			t.Errorf("%q: storage reuse should be %t", s.line, s.same)
		}
		if got := bigexpr.Format(ctx.Lookup("x")); got != bigexpr.Format(after) {
			t.Errorf("%q: context holds %s, session %s", s.line, got, bigexpr.Format(after))
		}
	}
	// y is independent of x.
	if err := sess.line(&out, "x = 7"); err != nil {
		t.Fatal(err)
	}
	if got := bigexpr.Format(ctx.Lookup("y")); got != "2" {
		t.Errorf("y changed with x: %s", got)
	}
}
