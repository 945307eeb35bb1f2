package cli

import (
	"context"
	"fmt"
	"strings"

	slotterapp "github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/cli/formatter"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type boardMode int

const (
	boardCases boardMode = iota
	boardPick
)

// boardLoadedMsg carries a fresh snapshot of one round.
type boardLoadedMsg struct {
	status *slotterapp.PlanningStatusView
	round  int
	cases  []domain.ManualNeeded
	slots  []domain.Slot
	err    error
}

type boardAssignedMsg struct {
	assignment *domain.ManualAssignment
	err        error
}

type boardKeyMap struct {
	PrevRound key.Binding
	NextRound key.Binding
	Select    key.Binding
	Back      key.Binding
	Refresh   key.Binding
	Quit      key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		PrevRound: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev round")),
		NextRound: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next round")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "assign")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// boardModel lists the open manual cases of a round and assigns them to
// slots picked from the catalog.
type boardModel struct {
	status slotterapp.PlanningStatusUseCase
	open   slotterapp.OpenManualUseCase
	assign slotterapp.ManualAssignUseCase
	list   slotterapp.ListSlotsUseCase

	view  *slotterapp.PlanningStatusView
	round int
	cases []domain.ManualNeeded
	slots []domain.Slot

	mode       boardMode
	casesTable table.Model
	slotsTable table.Model
	keys       boardKeyMap
	help       help.Model

	loading bool
	message string
	err     error
	width   int
}

func newBoardModel(app *App) boardModel {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true).
		Foreground(formatter.ColorHeader).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Bold(false)

	cases := table.New(
		table.WithColumns(caseColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(styles),
	)
	slots := table.New(
		table.WithColumns(slotColumns(80)),
		table.WithHeight(10),
		table.WithStyles(styles),
	)

	return boardModel{
		status:     app.statusUseCase(),
		open:       app.openManualUseCase(),
		assign:     app.manualAssignUseCase(),
		list:       app.listSlotsUseCase(),
		casesTable: cases,
		slotsTable: slots,
		keys:       defaultBoardKeys(),
		help:       help.New(),
		loading:    true,
		width:      80,
	}
}

func caseColumns(width int) []table.Column {
	reason := max(width-14-22-6-8, 16)
	return []table.Column{
		{Title: "PHONE", Width: 14},
		{Title: "NAME", Width: 22},
		{Title: "LEVEL", Width: 6},
		{Title: "REASON", Width: reason},
	}
}

func slotColumns(width int) []table.Column {
	return []table.Column{
		{Title: "SLOT", Width: max(width-12-10, 20)},
		{Title: "LEVELS", Width: 8},
		{Title: "SEATS", Width: 6},
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.load(0)
}

// load fetches the status and the open cases of round; zero means the
// current round.
func (m boardModel) load(round int) tea.Cmd {
	status, open, list := m.status, m.open, m.list
	return func() tea.Msg {
		ctx := context.Background()
		view, err := status.Status(ctx)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		if round == 0 {
			round = view.CurrentRound
		}
		cases, err := open.OpenManual(ctx, round)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		slots, err := list.List(ctx)
		return boardLoadedMsg{status: view, round: round, cases: cases, slots: slots, err: err}
	}
}

func (m boardModel) assignSelected() tea.Cmd {
	ci, si := m.casesTable.Cursor(), m.slotsTable.Cursor()
	if ci < 0 || ci >= len(m.cases) || si < 0 || si >= len(m.slots) {
		return nil
	}
	req := slotterapp.ManualAssignRequest{Round: m.round, Identity: m.cases[ci].Identity, Slot: m.slots[si].Label()}
	assign := m.assign
	return func() tea.Msg {
		ma, err := assign.AssignManual(context.Background(), req)
		return boardAssignedMsg{assignment: ma, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		height := max(msg.Height-10, 3)
		m.casesTable.SetColumns(caseColumns(msg.Width))
		m.casesTable.SetHeight(height)
		m.slotsTable.SetColumns(slotColumns(msg.Width))
		m.slotsTable.SetHeight(height)
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view, m.round, m.cases, m.slots = msg.status, msg.round, msg.cases, msg.slots
		m.casesTable.SetRows(caseRows(m.cases))
		if m.casesTable.Cursor() >= len(m.cases) {
			m.casesTable.SetCursor(max(len(m.cases)-1, 0))
		}
		m.slotsTable.SetRows(slotRows(m.slots))
		if len(m.cases) == 0 {
			m.setMode(boardCases)
		}
		return m, nil

	case boardAssignedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		a := msg.assignment
		m.err = nil
		m.message = fmt.Sprintf("Assigned %s to %s", a.Name, a.Slot)
		m.setMode(boardCases)
		return m, m.load(m.round)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m boardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.message = ""
		return m, m.load(m.round)
	}

	if m.mode == boardPick {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.setMode(boardCases)
			return m, nil
		case key.Matches(msg, m.keys.Select):
			return m, m.assignSelected()
		}
		var cmd tea.Cmd
		m.slotsTable, cmd = m.slotsTable.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.PrevRound):
		if m.round > domain.MinRound {
			m.message = ""
			return m, m.load(m.round - 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.NextRound):
		if m.round < domain.MaxRound {
			m.message = ""
			return m, m.load(m.round + 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if len(m.cases) > 0 && len(m.slots) > 0 {
			m.err = nil
			m.setMode(boardPick)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.casesTable, cmd = m.casesTable.Update(msg)
	return m, cmd
}

func (m *boardModel) setMode(mode boardMode) {
	m.mode = mode
	if mode == boardPick {
		m.casesTable.Blur()
		m.slotsTable.Focus()
		return
	}
	m.slotsTable.Blur()
	m.casesTable.Focus()
}

func caseRows(cases []domain.ManualNeeded) []table.Row {
	rows := make([]table.Row, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, table.Row{c.Identity, c.Name, c.LevelDisplay(), c.ReasonText()})
	}
	return rows
}

func slotRows(slots []domain.Slot) []table.Row {
	rows := make([]table.Row, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, table.Row{s.Label(), fmt.Sprintf("%d-%d", s.MinLevel, s.MaxLevel), fmt.Sprint(s.Capacity)})
	}
	return rows
}

func (m boardModel) View() string {
	if m.loading {
		return formatter.Dim("Loading…")
	}
	if m.view == nil {
		return formatter.StyleRed.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.roundBar() + "\n\n")

	switch {
	case m.mode == boardPick:
		c := m.cases[m.casesTable.Cursor()]
		title := fmt.Sprintf("Slot for %s (level %s)", c.Name, c.LevelDisplay())
		b.WriteString(formatter.StyleHeader.Render(title) + "\n")
		if len(c.Preferences) > 0 {
			b.WriteString(formatter.Dim("wanted "+strings.Join(c.Preferences, " / ")) + "\n")
		}
		b.WriteString(m.slotsTable.View() + "\n")
	case len(m.cases) == 0:
		b.WriteString(formatter.StyleGreen.Render(fmt.Sprintf("Round %d has no open manual cases.", m.round)) + "\n")
	default:
		b.WriteString(m.casesTable.View() + "\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render(m.err.Error()) + "\n")
	} else if m.message != "" {
		b.WriteString(formatter.StyleGreen.Render(m.message) + "\n")
	}
	b.WriteString(m.help.ShortHelpView(m.shortHelp()))
	return b.String()
}

func (m boardModel) roundBar() string {
	parts := []string{formatter.Bold(m.view.Period)}
	for _, r := range m.view.Rounds {
		label := fmt.Sprintf("Round %d %s", r.Round, formatter.RoundStateBadge(r.State))
		if r.OpenManual > 0 {
			label += formatter.StyleYellow.Render(fmt.Sprintf(" (%d open)", r.OpenManual))
		}
		if r.Round == m.round {
			label = lipgloss.NewStyle().Underline(true).Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, formatter.Dim("  │  "))
}

func (m boardModel) shortHelp() []key.Binding {
	if m.mode == boardPick {
		return []key.Binding{m.keys.Select, m.keys.Back, m.keys.Quit}
	}
	return []key.Binding{m.keys.PrevRound, m.keys.NextRound, m.keys.Select, m.keys.Refresh, m.keys.Quit}
}
