package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/bigexpr"
)

const historyFile = ".bigexpr_history"

func replCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `Read expressions line by line and print their values.

  name = expr   evaluates expr and assigns it to a variable
  :plan expr    prints the evaluation plan of expr
  :vars         lists variables and their types
  :quit         exits`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := s.context()
			if err != nil {
				return err
			}
			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			home, _ := os.UserHomeDir()
			hist := filepath.Join(home, historyFile)
			if f, err := os.Open(hist); err == nil {
				ln.ReadHistory(f)
				f.Close()
			}
			defer func() {
				if f, err := os.Create(hist); err == nil {
					ln.WriteHistory(f)
					f.Close()
				}
			}()

			out := cmd.OutOrStdout()
			sess := newSession(ctx)
			for {
				line, err := ln.Prompt("> ")
				if err != nil {
					if err == io.EOF || err == liner.ErrPromptAborted {
						fmt.Fprintln(out)
						return nil
					}
					return errors.Wrap(err, "reading line")
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				ln.AppendHistory(line)
				if line == ":quit" || line == ":q" {
					return nil
				}
				if err := sess.line(out, line); err != nil {
					fmt.Fprintln(out, err)
				}
			}
		},
	}
}

// session is the state of a REPL.
type session struct {
	ctx *bigexpr.Context
	// owned holds the values of variables assigned in the session. Each is
	// bound in ctx, so evaluating into one updates the variable.
	owned map[string]bigexpr.Value
}

func newSession(ctx *bigexpr.Context) *session {
	return &session{ctx: ctx, owned: make(map[string]bigexpr.Value)}
}

// line handles one line of REPL input.
func (s *session) line(out io.Writer, line string) error {
	ctx := s.ctx
	switch {
	case line == ":vars":
		for _, name := range ctx.Names() {
			fmt.Fprintf(out, "%s : %v = %s\n", name, ctx.Vars()[name], bigexpr.Format(ctx.Lookup(name)))
		}
		return nil
	case strings.HasPrefix(line, ":plan"):
		e, err := bigexpr.ParseString(strings.TrimPrefix(line, ":plan"), bigexpr.DeclareVars(ctx.Vars()))
		if err != nil {
			return err
		}
		p, err := e.Plan()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p)
		return nil
	case strings.HasPrefix(line, ":"):
		return errors.Errorf("unknown command %q", strings.Fields(line)[0])
	}
	name, src := assignment(line)
	e, err := bigexpr.ParseString(src, bigexpr.DeclareVars(ctx.Vars()))
	if err != nil {
		return err
	}
	if dst := s.owned[name]; dst != nil && bigexpr.TypeOf(dst) == e.Type() {
		if err := ctx.EvalInto(dst, e); err != nil {
			return err
		}
		fmt.Fprintln(out, bigexpr.Format(dst))
		return nil
	}
	v, err := ctx.Eval(e)
	if err != nil {
		return err
	}
	if name != "" {
		ctx.Bind(name, v)
		s.owned[name] = v
	}
	fmt.Fprintln(out, bigexpr.Format(v))
	return nil
}

// assignment splits "name = expr" into its parts. If line is not an
// assignment, name is empty.
func assignment(line string) (name, src string) {
	l, r, ok := strings.Cut(line, "=")
	if !ok {
		return "", line
	}
	l = strings.TrimSpace(l)
	if l == "" {
		return "", line
	}
	for i, c := range l {
		if c != '_' && !unicode.IsLetter(c) && (i == 0 || !unicode.IsDigit(c)) {
			return "", line
		}
	}
	return l, r
}
