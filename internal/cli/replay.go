package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samithreddychinni/greedytangle/pkg/store"
)

// defaultReplayDir is where the file-backed store lives unless overridden.
func defaultReplayDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".greedytangle/replays"
	}
	return filepath.Join(home, ".greedytangle", "replays")
}

// newReplayCmd creates the replay command group for stored matches.
func newReplayCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "List and inspect stored replays",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", defaultReplayDir(), "replay directory")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored replays, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewFile(dir)
			if err != nil {
				return err
			}
			records, err := st.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("no replays under %s", dir)
				return nil
			}

			for _, rec := range records {
				verdict := StyleWarning.Render("unsolved")
				if rec.Replay.Solved {
					verdict = StyleSuccess.Render(fmt.Sprintf("solved in %d", rec.Replay.TotalMoves))
				}
				fmt.Printf("%s  %s  %s  %s\n",
					StyleValue.Render(rec.ID),
					StyleDim.Render(rec.CreatedAt.Format("2006-01-02 15:04")),
					StyleHighlight.Render(rec.Strategy),
					verdict)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one replay move by move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewFile(dir)
			if err != nil {
				return err
			}
			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printKeyValue("strategy", rec.Strategy)
			printKeyValue("created", rec.CreatedAt.Format("2006-01-02 15:04:05"))
			printKeyValue("initial", fmt.Sprintf("%d crossings", rec.Replay.InitialIntersections))
			printKeyValue("moves", fmt.Sprintf("%d", rec.Replay.TotalMoves))
			printKeyValue("solved", fmt.Sprintf("%v", rec.Replay.Solved))
			printNewline()

			for _, mv := range rec.Replay.Moves {
				printDetail("step %-3d node %-3d (%.0f,%.0f) %s (%.0f,%.0f)  %d %s %d  %dms",
					mv.Step, mv.NodeID,
					mv.From.X, mv.From.Y, iconArrow, mv.To.X, mv.To.Y,
					mv.Before, iconArrow, mv.After, mv.TimeMS)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a stored replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewFile(dir)
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("deleted %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, rm)
	return cmd
}
