package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/race"
	"github.com/samithreddychinni/greedytangle/pkg/solver"
	"github.com/samithreddychinni/greedytangle/pkg/store"
)

// newSolveCmd creates the solve command for running a strategy to
// completion on a graph file.
func newSolveCmd() *cobra.Command {
	var (
		in       string
		mode     string
		maxMoves int
		replayTo string
		saveDir  string
		outGraph string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Untangle a graph with a search strategy",
		Long: `Solve loads a graph and repeatedly applies the strategy's best move until
no crossings remain, the strategy gives up, or the move cap is reached.

The move log can be exported as a replay JSON document with --replay, or
stored under a replay directory with --save-dir for later inspection with
the replay command.`,
		Example: `  greedytangle solve -i puzzle.json
  greedytangle solve -i puzzle.json --mode dncdp --replay match.json
  greedytangle solve -i puzzle.json --mode backtracking --save-dir ~/.greedytangle/replays`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			g, err := graph.ReadGraphFile(in)
			if err != nil {
				return err
			}

			m, ok := solver.ParseMode(mode)
			if !ok {
				return errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode)
			}
			name := solver.New(m, cfg).Name()

			sp := newSpinnerWithContext(ctx, fmt.Sprintf("solving with %s...", name))
			sp.Start()
			tracker := newProgress(logger)
			res := race.Autopilot(ctx, cfg, m, g, maxMoves, logger)

			switch {
			case res.Solved:
				sp.StopWithSuccess(fmt.Sprintf("Untangled in %d moves", res.Moves))
			case res.Stuck:
				sp.StopWithError(fmt.Sprintf("Stuck with %d crossings after %d moves", res.Final, res.Moves))
			default:
				sp.StopWithError(fmt.Sprintf("Move cap reached with %d crossings left", res.Final))
			}
			printGraphStats(len(g.Nodes), len(g.Edges), res.Final)
			tracker.done(fmt.Sprintf("%s finished", name))

			if outGraph != "" {
				if err := graph.WriteGraphFile(g, outGraph); err != nil {
					return err
				}
				printFile(outGraph)
			}

			if replayTo != "" {
				data, err := res.Log.ExportJSON()
				if err != nil {
					return err
				}
				if err := os.WriteFile(replayTo, data, 0o644); err != nil {
					return err
				}
				printFile(replayTo)
			}

			if saveDir != "" {
				st, err := store.NewFile(saveDir)
				if err != nil {
					return err
				}
				rec := &store.Record{Strategy: name, Replay: res.Log.Snapshot()}
				if res.Solved {
					rec.Winner = "cpu"
				}
				if err := st.Save(ctx, rec); err != nil {
					return err
				}
				printDetail("replay %s", rec.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "graph JSON file")
	cmd.Flags().StringVarP(&mode, "mode", "m", "greedy", "strategy: greedy, dncdp, backtracking")
	cmd.Flags().IntVar(&maxMoves, "max-moves", 0, "move cap (0 = proportional to node count)")
	cmd.Flags().StringVar(&replayTo, "replay", "", "write replay JSON to this file")
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "store the replay under this directory")
	cmd.Flags().StringVarP(&outGraph, "out", "o", "", "write the untangled graph to this file")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
