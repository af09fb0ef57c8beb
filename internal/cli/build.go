// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/lexicon"
	"github.com/katalvlaran/lexnet/ngram"
	"github.com/katalvlaran/lexnet/persist"
)

func (c *CLI) newLexiconCommand() *cobra.Command {
	var (
		stripStress bool
		phones      string
	)

	cmd := &cobra.Command{
		Use:   "lexicon <dictionary> <output>",
		Short: "Build a finalised lexicon network from a pronunciation dictionary",
		Args:  cobra.ExactArgs(2),
		Example: `  lexnet lexicon cmudict.txt lexicon.lexnet --phones cmu39 --strip-stress
  lexnet lexicon words.dict lexicon.lexnet -c lexnet.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("phones") {
				c.cfg.Labels.Input = phones
			}
			if cmd.Flags().Changed("strip-stress") {
				c.cfg.Lexicon.StripStress = stripStress
			}
			table, err := c.cfg.PhoneTable()
			if err != nil {
				return err
			}
			if c.cfg.Lexicon.ClosedSet && !table.Closed() {
				return fmt.Errorf("lexicon: %q is not a closed phone set", c.cfg.Labels.Input)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			start := time.Now()
			n, report, err := lexicon.Build(f, table,
				lexicon.WithStripStress(c.cfg.Lexicon.StripStress),
				lexicon.WithWords(c.cfg.WordTable()),
			)
			if err != nil {
				return err
			}
			slog.Info("Lexicon built", "words", report.Words, "unseen", len(report.Unseen),
				"nodes", n.NodeCount(), "edges", n.EdgeCount(), "duration", time.Since(start))
			return save(args[1], n)
		},
	}

	cmd.Flags().StringVar(&phones, "phones", "", "Phone table: a closed set name or a dynamic table name")
	cmd.Flags().BoolVar(&stripStress, "strip-stress", false, "Strip trailing stress digits from phones")
	return cmd
}

func (c *CLI) newLMCommand() *cobra.Command {
	var arpa, sentences string

	cmd := &cobra.Command{
		Use:   "lm <output>",
		Short: "Build a word network from an ARPA model or a sentence corpus",
		Args:  cobra.ExactArgs(1),
		Example: `  lexnet lm words.lexnet --arpa model.arpa
  lexnet lm loop.lexnet --sentences corpus.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (arpa == "") == (sentences == "") {
				return errors.New("lm: give exactly one of --arpa or --sentences")
			}
			words := ngram.WithWords(c.cfg.WordTable())

			var (
				n   *core.Network
				src = arpa
			)
			if sentences != "" {
				src = sentences
			}
			f, err := os.Open(src)
			if err != nil {
				return err
			}
			defer f.Close()

			if arpa != "" {
				n, err = ngram.ReadARPA(f, words)
			} else {
				var corpus [][]string
				if corpus, err = ngram.ReadSentences(f); err == nil {
					n, err = ngram.FromSentences(corpus, words)
				}
			}
			if err != nil {
				return err
			}
			slog.Info("Word network built", "source", src, "words", n.Inputs().Len(),
				"nodes", n.NodeCount(), "edges", n.EdgeCount())
			return save(args[0], n)
		},
	}

	cmd.Flags().StringVar(&arpa, "arpa", "", "ARPA back-off language model")
	cmd.Flags().StringVar(&sentences, "sentences", "", "Corpus with one sentence per line")
	return cmd
}

func save(path string, n *core.Network) error {
	if err := persist.SaveFile(path, n); err != nil {
		return err
	}
	slog.Info("Network saved", "path", path)
	return nil
}
