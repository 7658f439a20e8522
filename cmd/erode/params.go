package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"erosim/internal/core"
	"erosim/internal/sims/erosion"
)

func newParamsCmd() *cobra.Command {
	var flags configFlags
	cmd := &cobra.Command{
		Use:   "params",
		Short: "List the effective parameters and their --set keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(osfs.New("."))
			if err != nil {
				return err
			}
			return printParams(cmd.OutOrStdout(), erosion.Snapshot(cfg))
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func printParams(w io.Writer, snap core.ParameterSnapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range snap.Groups {
		fmt.Fprintf(tw, "[%s]\n", g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.Key, p.Type, p.Value, p.Label)
		}
	}
	return tw.Flush()
}
