package cli

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/geom"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/race"
	"github.com/samithreddychinni/greedytangle/pkg/solver"
)

func startedController(t *testing.T) *race.Controller {
	t.Helper()
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)

	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: 0, Pos: geom.Vec2{X: 200, Y: 200}, Radius: graph.DefaultNodeRadius, Adj: []int{2}},
			{ID: 1, Pos: geom.Vec2{X: 600, Y: 200}, Radius: graph.DefaultNodeRadius, Adj: []int{3}},
			{ID: 2, Pos: geom.Vec2{X: 600, Y: 500}, Radius: graph.DefaultNodeRadius, Adj: []int{0}},
			{ID: 3, Pos: geom.Vec2{X: 200, Y: 500}, Radius: graph.DefaultNodeRadius, Adj: []int{1}},
		},
		Edges: []graph.Edge{{U: 0, V: 2}, {U: 1, V: 3}},
	}

	// Easy difficulty keeps the controller from dispatching during the
	// test, so model state stays predictable.
	ctrl := race.NewController(config.Default(), solver.ModeGreedy, "easy", logger)
	if err := ctrl.Start(g); err != nil {
		t.Fatal(err)
	}
	return ctrl
}

func TestRaceModelViewShowsStrategy(t *testing.T) {
	m := NewRaceModel(startedController(t))

	view := m.View()
	if !strings.Contains(view, "Greedy") {
		t.Errorf("view missing strategy name:\n%s", view)
	}
	if !strings.Contains(view, "CPU Race") {
		t.Errorf("view missing title:\n%s", view)
	}
}

func TestRaceModelQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		m := NewRaceModel(startedController(t))

		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		if key == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}

		updated, cmd := m.Update(msg)
		rm := updated.(RaceModel)
		if !rm.Aborted {
			t.Errorf("key %q did not abort", key)
		}
		if cmd == nil {
			t.Errorf("key %q returned no quit command", key)
		}
	}
}

func TestRaceModelStrategySwitch(t *testing.T) {
	ctrl := startedController(t)
	m := NewRaceModel(ctrl)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if got := ctrl.SolverName(); got != "Backtracking" {
		t.Errorf("SolverName() = %q after pressing 3, want Backtracking", got)
	}
}

func TestRaceModelTickSchedulesNext(t *testing.T) {
	m := NewRaceModel(startedController(t))

	updated, cmd := m.Update(raceTickMsg(time.Now()))
	rm := updated.(RaceModel)
	if rm.frame != 1 {
		t.Errorf("frame = %d, want 1", rm.frame)
	}
	if cmd == nil {
		t.Error("racing model should schedule another tick")
	}
}

func TestRenderCrossingsBar(t *testing.T) {
	out := renderCrossings(0, 0)
	if !strings.Contains(out, "0") {
		t.Errorf("renderCrossings(0,0) = %q", out)
	}

	half := renderCrossings(5, 10)
	if !strings.Contains(half, "5") {
		t.Errorf("renderCrossings(5,10) missing count: %q", half)
	}
}
