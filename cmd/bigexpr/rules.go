package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/bigexpr"
)

func rulesCmd(s *settings) *cobra.Command {
	var op string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the primitive rules of the default registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OP\tOPERANDS\tRESULT\tSCRATCH")
			n := 0
			for _, r := range bigexpr.Default.Rules() {
				if op != "" && r.Op.String() != op && r.Op.Symbol() != op {
					continue
				}
				fmt.Fprintf(w, "%v\t%v\t%v\t%d\n", r.Op, r.Args, r.Result, r.Scratch)
				n++
			}
			s.log.Debug("listed rules", zap.Int("count", n))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&op, "op", "", "list only rules for this operation, by name or symbol")
	return cmd
}
