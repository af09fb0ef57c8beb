// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/internal/config"
	"github.com/katalvlaran/lexnet/merge"
	"github.com/katalvlaran/lexnet/persist"
)

func (c *CLI) newMergeCommand() *cobra.Command {
	var push string

	cmd := &cobra.Command{
		Use:   "merge <words> <lexicon> <output>",
		Short: "Compose a word network with a lexicon into a phone-level network",
		Args:  cobra.ExactArgs(3),
		Example: `  lexnet merge words.lexnet lexicon.lexnet decoder.lexnet --push max
  lexnet merge words.lexnet lexicon.lexnet decoder.lexnet -c lexnet.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := c.cfg.Merge.Push
			if cmd.Flags().Changed("push") {
				mode = config.PushMode(push)
			}
			if !mode.IsValid() {
				return fmt.Errorf("merge: push mode %q: set --push or merge.push to sum or max", mode)
			}

			w, l, err := loadPair(args[0], args[1])
			if err != nil {
				return err
			}
			start := time.Now()
			m, err := merge.Merge(w, l, mode.Push(), c.cfg.MergeOptions()...)
			if err != nil {
				return err
			}
			slog.Info("Networks merged", "push", mode, "nodes", m.NodeCount(), "edges", m.EdgeCount(),
				"duration", time.Since(start))
			return save(args[2], m)
		},
	}

	cmd.Flags().StringVar(&push, "push", "", "Push semiring: sum or max")
	return cmd
}

// loadPair reads two independent networks concurrently.
func loadPair(a, b string) (*core.Network, *core.Network, error) {
	var (
		g      errgroup.Group
		na, nb *core.Network
	)
	g.Go(func() error {
		var err error
		na, err = persist.LoadFile(a)
		return err
	})
	g.Go(func() error {
		var err error
		nb, err = persist.LoadFile(b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return na, nb, nil
}
