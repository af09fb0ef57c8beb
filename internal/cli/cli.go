// SPDX-License-Identifier: MIT

// Package cli implements the lexnet command tree.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lexnet/internal/config"
)

// CLI encapsulates the command-line interface with its dependencies.
type CLI struct {
	version     string
	configPath  string
	verbose     bool
	silent      bool
	initialized bool
	cfg         *config.Config
	rootCmd     *cobra.Command
}

// New creates a new CLI instance with the given version string.
func New(version string) *CLI {
	c := &CLI{version: version}
	c.setupCommands()
	return c
}

// setupCommands initializes all CLI commands and their configurations.
func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:          "lexnet",
		Short:        "Build, compose and inspect weighted lexicon and word networks",
		Version:      c.version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initApp()
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	c.rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a YAML configuration file")
	c.rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose/debug output")
	c.rootCmd.PersistentFlags().BoolVarP(&c.silent, "silent", "s", false, "Suppress all logging")

	c.rootCmd.AddCommand(c.newLexiconCommand())
	c.rootCmd.AddCommand(c.newLMCommand())
	c.rootCmd.AddCommand(c.newMergeCommand())
	c.rootCmd.AddCommand(c.newAcceptCommand())
	c.rootCmd.AddCommand(c.newEqualCommand())
	c.rootCmd.AddCommand(c.newInfoCommand())
	c.rootCmd.AddCommand(c.newWordsCommand())
}

// Run executes the CLI and returns any error.
func (c *CLI) Run() error {
	return c.rootCmd.Execute()
}

// SetArgs overrides os.Args[1:].
func (c *CLI) SetArgs(args []string) { c.rootCmd.SetArgs(args) }

// SetOutput redirects command output and error text.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// initApp loads the configuration and installs the log handler.
func (c *CLI) initApp() error {
	if c.initialized {
		return nil
	}
	c.initialized = true

	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return err
		}
	}
	c.cfg = cfg

	level := cfg.LogLevel.Level()
	if c.verbose {
		level = slog.LevelDebug
	}
	if c.silent {
		level = slog.Level(100)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	slog.Debug("configuration loaded", "path", c.configPath, "push", cfg.Merge.Push)
	return nil
}
