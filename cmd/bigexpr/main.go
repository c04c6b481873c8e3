package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zephyrtronium/bigexpr"
)

func main() {
	if newRootCmd().Execute() != nil {
		os.Exit(1)
	}
}

// settings are the values of flags and configuration shared by every
// command.
type settings struct {
	v       *viper.Viper
	log     *zap.Logger
	verbose bool
}

func newRootCmd() *cobra.Command {
	s := &settings{v: viper.New()}
	var (
		inname, cfg    string
		nl, echo, plan bool
	)
	root := &cobra.Command{
		Use:   "bigexpr [expr...]",
		Short: "Evaluate arbitrary-precision expressions",
		Long: `Evaluate expressions over integers, rationals, floats, polynomials, and
matrices. Expressions come from the arguments, or from --in or stdin if there
are none.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init(cfg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			s.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := s.context()
			if err != nil {
				return err
			}
			ins, done, err := inputs(inname, args)
			if err != nil {
				return err
			}
			defer done()
			opts := []bigexpr.ParseOption{bigexpr.DeclareVars(ctx.Vars())}
			if nl {
				opts = append(opts, bigexpr.StopOn('\n'))
			}
			var exprs []*bigexpr.Expr
			for _, in := range ins {
				for {
					// First check whether we're done with the input.
					if _, _, err := in.ReadRune(); err != nil {
						if err == io.EOF {
							break
						}
						return errors.Wrap(err, "reading input")
					}
					in.UnreadRune()
					e, err := bigexpr.Parse(in, opts...)
					if err != nil {
						return err
					}
					exprs = append(exprs, e)
				}
			}
			out := cmd.OutOrStdout()
			verb := s.v.GetString("fmt")
			for _, e := range exprs {
				if echo {
					fmt.Fprintf(out, "%v : ", e)
				}
				if plan {
					p, err := e.Plan()
					if err != nil {
						fmt.Fprintln(out, err)
						continue
					}
					fmt.Fprintln(out, p)
				}
				r, err := ctx.Eval(e)
				if err != nil {
					fmt.Fprintln(out, err)
					continue
				}
				fmt.Fprintln(out, format(verb, r))
			}
			return nil
		},
	}

	s.flags(root.PersistentFlags(), &cfg)

	lf := root.Flags()
	lf.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	lf.BoolVarP(&nl, "lines", "n", false, "parse separate input lines as separate expressions")
	lf.BoolVar(&echo, "echo", false, "print parse trees")
	lf.BoolVar(&plan, "plan", false, "print evaluation plans")

	root.AddCommand(replCmd(s), rulesCmd(s))
	return root
}

// flags adds the flags shared by every command to fs and binds those that
// configuration files may also set.
func (s *settings) flags(fs *pflag.FlagSet, cfg *string) {
	fs.StringVar(cfg, "config", "", "configuration file (prec, fmt, given)")
	fs.UintP("prec", "p", 64, "precision of float calculations in bits")
	fs.String("fmt", "", "fmt verb for results (default natural form)")
	fs.StringArray("given", nil, "name=value variable definition (any number of times)")
	fs.BoolVarP(&s.verbose, "verbose", "v", false, "log planning decisions")
	for _, name := range []string{"prec", "fmt", "given"} {
		s.v.BindPFlag(name, fs.Lookup(name))
	}
}

// init loads configuration and creates the logger.
func (s *settings) init(cfg string) error {
	s.v.SetEnvPrefix("BIGEXPR")
	s.v.AutomaticEnv()
	if cfg != "" {
		s.v.SetConfigFile(cfg)
		if err := s.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", cfg)
		}
	}
	var err error
	if s.verbose {
		s.log, err = zap.NewDevelopment()
	} else {
		s.log, err = zap.NewProduction()
	}
	return errors.Wrap(err, "creating logger")
}

// context creates an evaluation context with the configured precision and
// variables.
func (s *settings) context() (*bigexpr.Context, error) {
	prec := s.v.GetUint("prec")
	if prec == 0 {
		return nil, errors.New("precision must be positive")
	}
	ctx := bigexpr.NewContext(bigexpr.Prec(prec), bigexpr.Logger(s.log))
	for _, g := range s.v.GetStringSlice("given") {
		name, val, ok := strings.Cut(g, "=")
		if !ok {
			return nil, errors.Errorf(`variable definitions must be "name=value", not %q`, g)
		}
		name, val = strings.TrimSpace(name), strings.TrimSpace(val)
		v, err := value(ctx, val)
		if err != nil {
			return nil, errors.Wrapf(err, "setting %s", name)
		}
		ctx.Set(name, v)
	}
	return ctx, nil
}

// value interprets text as a literal value or else as an expression over the
// variables defined so far.
func value(ctx *bigexpr.Context, text string) (bigexpr.Value, error) {
	if v, err := bigexpr.ParseValue(text, ctx.Prec()); err == nil {
		return v, nil
	}
	e, err := bigexpr.ParseString(text, bigexpr.DeclareVars(ctx.Vars()))
	if err != nil {
		return nil, err
	}
	return ctx.Eval(e)
}

func format(verb string, v bigexpr.Value) string {
	if verb == "" {
		return bigexpr.Format(v)
	}
	return fmt.Sprintf(verb, v)
}

// inputs opens the sources of expressions. The caller must call done once it
// has finished reading them.
func inputs(inname string, args []string) (ins []io.RuneScanner, done func(), err error) {
	done = func() {}
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening input")
		}
		done = func() { f.Close() }
		ins = append(ins, bufio.NewReader(f))
	case inname == "-", len(args) == 0:
		ins = append(ins, bufio.NewReader(os.Stdin))
	}
	for _, arg := range args {
		ins = append(ins, strings.NewReader(arg))
	}
	return ins, done, nil
}
