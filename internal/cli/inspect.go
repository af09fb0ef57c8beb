// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lexnet/bfs"
	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/dfs"
	"github.com/katalvlaran/lexnet/dijkstra"
	"github.com/katalvlaran/lexnet/persist"
)

// ErrRejected is returned by accept when no path consumes the sequence.
var ErrRejected = errors.New("cli: sequence rejected")

func (c *CLI) newAcceptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <network> <token>...",
		Short: "Match an input token sequence and print the best output",
		Args:  cobra.MinimumNArgs(1),
		Example: `  lexnet accept decoder.lexnet K AE T D AO G`,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := persist.LoadFile(args[0])
			if err != nil {
				return err
			}
			m, ok := n.Accept(args[1:])
			if !ok {
				return fmt.Errorf("%w: %s", ErrRejected, strings.Join(args[1:], " "))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "outputs: %s\n", strings.Join(m.Outputs, " "))
			fmt.Fprintf(out, "score: %.6f\n", m.Score)
			fmt.Fprintf(out, "total: %.6f\n", m.Total)
			fmt.Fprintf(out, "paths: %d\n", m.Paths)
			return nil
		},
	}
	return cmd
}

func (c *CLI) newEqualCommand() *cobra.Command {
	var tolerance float64

	cmd := &cobra.Command{
		Use:   "equal <a> <b>",
		Short: "Check two networks for structural equivalence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tolerance < 0 || math.IsNaN(tolerance) {
				return fmt.Errorf("equal: invalid tolerance %v", tolerance)
			}
			a, b, err := loadPair(args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.Equivalent(b, core.WithTolerance(tolerance)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "equivalent")
			return nil
		},
	}

	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Absolute weight tolerance")
	return cmd
}

func (c *CLI) newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <network>",
		Short: "Print the header and shape of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := persist.LoadFile(args[0])
			if err != nil {
				return err
			}
			res, err := bfs.Walk(n)
			if err != nil {
				return err
			}
			depth := 0
			for _, d := range res.Depth {
				depth = max(depth, d)
			}
			cycle, err := dfs.FindCycle(n)
			if err != nil {
				return err
			}
			backoffCycle, err := dfs.FindCycle(n, dfs.WithFilterContext(dfs.OnlyBackoff))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "domain: %s\n", n.Domain())
			fmt.Fprintf(out, "counts: %t\n", n.Counts())
			fmt.Fprintf(out, "recurrent: %t\n", n.Recurrent())
			fmt.Fprintf(out, "inputs: %s (%d)\n", n.Inputs().Name(), n.Inputs().Len())
			fmt.Fprintf(out, "outputs: %s (%d)\n", n.Outputs().Name(), n.Outputs().Len())
			fmt.Fprintf(out, "nodes: %d\n", n.NodeCount())
			fmt.Fprintf(out, "edges: %d\n", n.EdgeCount())
			fmt.Fprintf(out, "depth: %d\n", depth)
			fmt.Fprintf(out, "cyclic: %t\n", cycle != nil)
			if backoffCycle != nil {
				fmt.Fprintf(out, "backoff-cycle: %v\n", backoffCycle)
			}
			for _, k := range n.MetaKeys() {
				v, _ := n.Meta(k)
				fmt.Fprintf(out, "meta.%s: %s\n", k, v)
			}
			return nil
		},
	}
	return cmd
}

func (c *CLI) newWordsCommand() *cobra.Command {
	var (
		beam      float64
		noBackoff bool
	)

	cmd := &cobra.Command{
		Use:   "words <network>",
		Short: "List the best-scoring input sequence for every output",
		Args:  cobra.ExactArgs(1),
		Example: `  lexnet words lexicon.lexnet
  lexnet words decoder.lexnet --beam 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := persist.LoadFile(args[0])
			if err != nil {
				return err
			}
			opts := []dijkstra.Option{}
			if cmd.Flags().Changed("beam") {
				opts = append(opts, dijkstra.WithMaxCost(beam))
			}
			if noBackoff {
				opts = append(opts, dijkstra.WithoutBackoff())
			}
			best, err := dijkstra.BestEmissions(n, opts...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, b := range best {
				inputs := make([]string, len(b.Inputs))
				for i, code := range b.Inputs {
					inputs[i] = n.Inputs().MustToken(code)
				}
				fmt.Fprintf(out, "%s\t%.6f\t%s\n", n.Outputs().MustToken(b.Output), b.Score, strings.Join(inputs, " "))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&beam, "beam", 0, "Skip paths costing more than this (negated log weight)")
	cmd.Flags().BoolVar(&noBackoff, "no-backoff", false, "Do not follow backoff edges")
	return cmd
}
