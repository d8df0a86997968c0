// Package cli implements the greedytangle command-line interface.
//
// This package provides commands for generating puzzle graphs, solving them
// with the search strategies, racing a CPU opponent, inspecting stored
// replays, rendering graphs to images, and serving the HTTP API. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - generate: Build a puzzle graph and write it as JSON
//   - solve: Run a strategy to completion on a graph
//   - race: Watch the CPU untangle a graph live
//   - replay: List and inspect stored replays
//   - render: Export a graph as SVG or PNG
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so every command logs the same way.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/samithreddychinni/greedytangle/pkg/config"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Typically
// called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the greedytangle CLI and returns an error if any command
// fails.
//
// The --config flag points at an optional TOML file with solver and play
// area tunables; without it the built-in defaults apply. The logger and the
// loaded configuration travel on the command context.
func Execute() error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "greedytangle",
		Short:        "Greedy Tangle races search strategies at graph untangling",
		Long:         `Greedy Tangle generates tangled graphs and unknots them by moving one node at a time, using greedy, backtracking, or divide-and-conquer search. Race the strategies, store replays, and render the results.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}

			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}

			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("greedytangle %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newSolveCmd())
	root.AddCommand(newRaceCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(context.Background())
}
