package cli

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/graph/gen"
	"github.com/samithreddychinni/greedytangle/pkg/race"
	"github.com/samithreddychinni/greedytangle/pkg/solver"
)

// newRaceCmd creates the race command for watching the CPU untangle a
// graph live.
func newRaceCmd() *cobra.Command {
	var (
		in         string
		level      string
		nodes      int
		seed       uint64
		mode       string
		difficulty string
		noTUI      bool
		replayTo   string
	)

	cmd := &cobra.Command{
		Use:   "race",
		Short: "Watch the CPU race through a graph",
		Long: `Race starts a CPU opponent on a graph and shows its progress live. The
difficulty flag throttles how often the CPU may move: easy waits 3 seconds
between moves, medium 1.5, hard not at all.

With --in the race runs on a graph file; otherwise a fresh puzzle is
generated from --level, --nodes and --seed. Strategy keys 1/2/3 switch
the search mid-race.`,
		Example: `  greedytangle race --level medium --nodes 15
  greedytangle race -i puzzle.json --mode dncdp --difficulty easy
  greedytangle race --no-tui --difficulty hard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			var g *graph.Graph
			var err error
			if in != "" {
				if g, err = graph.ReadGraphFile(in); err != nil {
					return err
				}
			} else if g, err = gen.Level(cfg, level, nodes, gen.Rand(seed)); err != nil {
				return err
			}

			m, ok := solver.ParseMode(mode)
			if !ok {
				return errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode)
			}

			ctrl := race.NewController(cfg, m, difficulty, logger)
			if err := ctrl.Start(g); err != nil {
				return err
			}

			if noTUI {
				if err := watchPlain(ctrl); err != nil {
					return err
				}
			} else {
				model, err := tea.NewProgram(NewRaceModel(ctrl)).Run()
				if err != nil {
					return err
				}
				if rm, ok := model.(RaceModel); ok && rm.Aborted {
					printWarning("race aborted")
					return nil
				}
			}

			switch ctrl.Status() {
			case race.StatusCPUWon:
				printSuccess("CPU untangled the graph in %d moves", ctrl.CPUMoves())
			case race.StatusStuck:
				printWarning("CPU got stuck with %d crossings left", ctrl.CPUIntersections())
			default:
				printInfo("race ended: %s", ctrl.Status())
			}

			if replayTo != "" {
				data, err := ctrl.Replay().ExportJSON()
				if err != nil {
					return err
				}
				if err := os.WriteFile(replayTo, data, 0o644); err != nil {
					return err
				}
				printFile(replayTo)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "graph JSON file (default: generate one)")
	cmd.Flags().StringVarP(&level, "level", "l", "easy", "difficulty of the generated graph")
	cmd.Flags().IntVarP(&nodes, "nodes", "n", 10, "node count for the generated graph")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "greedy", "strategy: greedy, dncdp, backtracking")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "hard", "cpu throttle: easy, medium, hard")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "plain text output instead of the live view")
	cmd.Flags().StringVar(&replayTo, "replay", "", "write replay JSON to this file")

	return cmd
}

// watchPlain polls the controller without a TUI, printing each move as it
// lands.
func watchPlain(ctrl *race.Controller) error {
	lastMoves := 0
	for ctrl.Status() == race.StatusRacing {
		ctrl.Tick(1, 0)
		if moves := ctrl.CPUMoves(); moves != lastMoves {
			lastMoves = moves
			printDetail("move %d %s %d crossings left",
				moves, iconArrow, ctrl.CPUIntersections())
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}
