package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samithreddychinni/greedytangle/pkg/race"
	"github.com/samithreddychinni/greedytangle/pkg/solver"
)

var (
	raceBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 2)

	raceStatusStyle = map[race.Status]lipgloss.Style{
		race.StatusRacing: StyleHighlight,
		race.StatusCPUWon: StyleSuccess,
		race.StatusStuck:  StyleWarning,
	}
)

// raceTickMsg drives the polling loop.
type raceTickMsg time.Time

func raceTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return raceTickMsg(t)
	})
}

// RaceModel is the bubbletea model that watches a CPU race live. The
// number keys switch the strategy mid-race.
type RaceModel struct {
	ctrl    *race.Controller
	status  race.Status
	initial int
	frame   int
	Aborted bool
}

// NewRaceModel wraps a started controller for live viewing.
func NewRaceModel(ctrl *race.Controller) RaceModel {
	return RaceModel{
		ctrl:    ctrl,
		status:  ctrl.Status(),
		initial: ctrl.CPUIntersections(),
	}
}

func (m RaceModel) Init() tea.Cmd {
	return raceTick()
}

func (m RaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "1":
			m.ctrl.SetSolver(solver.ModeGreedy)
		case "2":
			m.ctrl.SetSolver(solver.ModeDivideAndConquer)
		case "3":
			m.ctrl.SetSolver(solver.ModeBacktracking)
		}
	case raceTickMsg:
		m.frame++
		// The watcher has no human side; report it as permanently busy.
		m.status = m.ctrl.Tick(1, 0)
		if m.status != race.StatusRacing {
			return m, tea.Quit
		}
		return m, raceTick()
	}
	return m, nil
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m RaceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("CPU Race"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n",
		StyleDim.Render("strategy"),
		StyleValue.Render(m.ctrl.SolverName())))
	b.WriteString(fmt.Sprintf("%s %s\n",
		StyleDim.Render("moves   "),
		StyleValue.Render(fmt.Sprintf("%d", m.ctrl.CPUMoves()))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		StyleDim.Render("tangles "),
		renderCrossings(m.ctrl.CPUIntersections(), m.initial)))

	if m.ctrl.Searching() {
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		b.WriteString(styleIconSpinner.Render(frame) + StyleDim.Render(" thinking..."))
	} else {
		style, ok := raceStatusStyle[m.status]
		if !ok {
			style = StyleValue
		}
		b.WriteString(style.Render(m.status.String()))
	}
	b.WriteString("\n")

	box := raceBoxStyle.Render(b.String())
	help := StyleDim.Render("1 greedy · 2 d&c+dp · 3 backtracking · q quit")
	return box + "\n" + help + "\n"
}

// renderCrossings shows remaining crossings with a crude progress bar.
func renderCrossings(current, initial int) string {
	if initial <= 0 {
		return StyleSuccess.Render("0")
	}
	width := 20
	solvedCells := width * (initial - current) / initial
	bar := StyleSuccess.Render(strings.Repeat("█", solvedCells)) +
		StyleDim.Render(strings.Repeat("░", width-solvedCells))
	return fmt.Sprintf("%s %s", StyleValue.Render(fmt.Sprintf("%d", current)), bar)
}
