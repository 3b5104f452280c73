package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dashboarddto "nebibs/internal/modules/dashboard/dto"
	experimentsdto "nebibs/internal/modules/experiments/dto"
	learningdto "nebibs/internal/modules/learning/dto"
	volunteerdto "nebibs/internal/modules/volunteer/dto"
	platformid "nebibs/internal/platform/id"
	"nebibs/internal/ui/components"
	"nebibs/internal/ui/theme"
	"nebibs/internal/ui/views/collection"
	dashboardview "nebibs/internal/ui/views/dashboard"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type goalsPort interface {
	List(ctx context.Context) learningdto.State
	State() learningdto.State
	ClearError()
	Create(ctx context.Context, title string, targetHours *float64, notes string) (learningdto.State, error)
	Delete(ctx context.Context, id string) (learningdto.State, error)
	AddResource(ctx context.Context, goalID, resource string) (learningdto.State, error)
	RemoveResource(ctx context.Context, goalID string, index int) (learningdto.State, error)
	LogHours(ctx context.Context, goalID, weekKey string, hours float64) (learningdto.State, error)
	SetProgress(ctx context.Context, goalID string, percent int) (learningdto.State, error)
}

type ideasPort interface {
	List(ctx context.Context) experimentsdto.State
	State() experimentsdto.State
	ClearError()
	Create(ctx context.Context, input experimentsdto.CreateExperimentInput) (experimentsdto.State, error)
	Update(ctx context.Context, input experimentsdto.UpdateExperimentInput) (experimentsdto.State, error)
	Delete(ctx context.Context, id string) (experimentsdto.State, error)
	SetStatus(ctx context.Context, id, status string) (experimentsdto.State, error)
}

type servicePort interface {
	List(ctx context.Context) volunteerdto.State
	State() volunteerdto.State
	ClearError()
	Log(ctx context.Context, date, description string, hours float64, reflection string) (volunteerdto.State, error)
	Delete(ctx context.Context, id string) (volunteerdto.State, error)
}

type dashboardPort interface {
	Summary(ctx context.Context) dashboarddto.Summary
}

// ─── tabs ────────────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabGoals
	tabIdeas
	tabService
	tabCount
)

var tabLabels = [tabCount]string{"Dashboard", "Learning", "Ideas", "Service"}

// ─── messages ────────────────────────────────────────────────────────────────

// StateChangedMsg is sent whenever any container notifies its subscribers.
type StateChangedMsg struct{}

// opDoneMsg reports a finished intent. err is only ever invalid input; remote
// failures arrive through container state.
type opDoneMsg struct {
	label string
	err   error
}

// ─── keys ────────────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Refresh key.Binding
	Delete  key.Binding
	Clear   key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete selected")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear errors")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Palette, k.Refresh},
		{k.Delete, k.Clear},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Views never hold entity state of their
// own: on every StateChangedMsg the model pulls fresh state from each port
// and rebuilds the rows.
type Model struct {
	goals     goalsPort
	ideas     ideasPort
	service   servicePort
	dashboard dashboardPort

	dashView    dashboardview.Model
	goalView    collection.Model
	ideaView    collection.Model
	serviceView collection.Model

	weekKey   string
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(goals goalsPort, ideas ideasPort, service servicePort, dashboard dashboardPort) Model {
	m := Model{
		goals:       goals,
		ideas:       ideas,
		service:     service,
		dashboard:   dashboard,
		dashView:    dashboardview.New(),
		goalView:    collection.New("Learning goals"),
		ideaView:    collection.New("Ideas"),
		serviceView: collection.New("Service log"),
		activeTab:   tabDashboard,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.goalView.Init(), m.ideaView.Init(), m.serviceView.Init())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case StateChangedMsg:
		cmds = append(cmds, m.sync()...)
		return m, tea.Batch(cmds...)

	case opDoneMsg:
		if msg.err != nil {
			m.status = msg.label + ": " + msg.err.Error()
		} else {
			m.status = msg.label
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m, m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			return m, m.refreshCmd()
		case "c":
			m.goals.ClearError()
			m.ideas.ClearError()
			m.service.ClearError()
			return m, nil
		case "x":
			return m, m.deleteSelectedCmd()
		}
	}

	if _, ok := msg.(tea.KeyMsg); !ok {
		// Spinner ticks and resizes reach every view, not only the visible one.
		var c1, c2, c3, c4 tea.Cmd
		m.dashView, c1 = m.dashView.Update(msg)
		m.goalView, c2 = m.goalView.Update(msg)
		m.ideaView, c3 = m.ideaView.Update(msg)
		m.serviceView, c4 = m.serviceView.Update(msg)
		return m, tea.Batch(append(cmds, c1, c2, c3, c4)...)
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, tabCmd = m.dashView.Update(msg)
	case tabGoals:
		m.goalView, tabCmd = m.goalView.Update(msg)
	case tabIdeas:
		m.ideaView, tabCmd = m.ideaView.Update(msg)
	case tabService:
		m.serviceView, tabCmd = m.serviceView.Update(msg)
	}
	return m, tea.Batch(append(cmds, tabCmd)...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabGoals:
		return m.goalView.View()
	case tabIdeas:
		return m.ideaView.View()
	case tabService:
		return m.serviceView.View()
	default:
		return m.dashView.View()
	}
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "nebibs  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::command  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette ─────────────────────────────────────────────────────────────────

func (m *Model) executePalette(input string) tea.Cmd {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	rest := func(n int) string {
		fields := parts[n:]
		return strings.Join(fields, " ")
	}
	needArgs := func(n int, usage string) bool {
		if len(parts) <= n {
			m.status = "usage: " + usage
			return false
		}
		return true
	}

	switch parts[0] {
	case "goal:add":
		if !needArgs(1, "goal:add <title>") {
			return nil
		}
		title := rest(1)
		m.activeTab = tabGoals
		return m.run("goal added", func(ctx context.Context) error {
			_, err := m.goals.Create(ctx, title, nil, "")
			return err
		})

	case "goal:hours":
		if !needArgs(1, "goal:hours <hours> [date]") {
			return nil
		}
		goalID, ok := m.goalView.SelectedID()
		if !ok {
			m.status = "no goal selected"
			return nil
		}
		hours, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "invalid hours"
			return nil
		}
		weekKey := m.weekKey
		if len(parts) > 2 {
			weekKey = parts[2]
		}
		return m.run("hours logged", func(ctx context.Context) error {
			_, err := m.goals.LogHours(ctx, goalID, weekKey, hours)
			return err
		})

	case "goal:progress":
		if !needArgs(1, "goal:progress <percent>") {
			return nil
		}
		goalID, ok := m.goalView.SelectedID()
		if !ok {
			m.status = "no goal selected"
			return nil
		}
		pct, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid percent"
			return nil
		}
		return m.run("progress updated", func(ctx context.Context) error {
			_, err := m.goals.SetProgress(ctx, goalID, pct)
			return err
		})

	case "goal:resource":
		if !needArgs(1, "goal:resource <text>") {
			return nil
		}
		goalID, ok := m.goalView.SelectedID()
		if !ok {
			m.status = "no goal selected"
			return nil
		}
		resource := rest(1)
		return m.run("resource added", func(ctx context.Context) error {
			_, err := m.goals.AddResource(ctx, goalID, resource)
			return err
		})

	case "goal:unresource":
		if !needArgs(1, "goal:unresource <index>") {
			return nil
		}
		goalID, ok := m.goalView.SelectedID()
		if !ok {
			m.status = "no goal selected"
			return nil
		}
		index, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid index"
			return nil
		}
		return m.run("resource removed", func(ctx context.Context) error {
			_, err := m.goals.RemoveResource(ctx, goalID, index)
			return err
		})

	case "idea:add":
		if !needArgs(1, "idea:add <title>") {
			return nil
		}
		title := rest(1)
		m.activeTab = tabIdeas
		return m.run("idea added", func(ctx context.Context) error {
			_, err := m.ideas.Create(ctx, experimentsdto.CreateExperimentInput{Title: title})
			return err
		})

	case "idea:status":
		if !needArgs(1, "idea:status <not_started|in_progress|completed>") {
			return nil
		}
		ideaID, ok := m.ideaView.SelectedID()
		if !ok {
			m.status = "no idea selected"
			return nil
		}
		status := parts[1]
		return m.run("status set", func(ctx context.Context) error {
			_, err := m.ideas.SetStatus(ctx, ideaID, status)
			return err
		})

	case "idea:next":
		ideaID, ok := m.ideaView.SelectedID()
		if !ok {
			m.status = "no idea selected"
			return nil
		}
		next := rest(1)
		return m.run("next action set", func(ctx context.Context) error {
			_, err := m.ideas.Update(ctx, experimentsdto.UpdateExperimentInput{ID: ideaID, NextAction: &next})
			return err
		})

	case "service:log":
		if !needArgs(3, "service:log <date> <hours> <description>") {
			return nil
		}
		hours, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			m.status = "invalid hours"
			return nil
		}
		date, description := parts[1], rest(3)
		m.activeTab = tabService
		return m.run("service logged", func(ctx context.Context) error {
			_, err := m.service.Log(ctx, date, description, hours, "")
			return err
		})

	case "delete":
		return m.deleteSelectedCmd()

	case "refresh":
		return m.refreshCmd()

	case "clear":
		m.goals.ClearError()
		m.ideas.ClearError()
		m.service.ClearError()
		return nil

	default:
		m.status = "unknown command: " + parts[0]
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) filtering() bool {
	switch m.activeTab {
	case tabGoals:
		return m.goalView.Filtering()
	case tabIdeas:
		return m.ideaView.Filtering()
	case tabService:
		return m.serviceView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.goalView, _ = m.goalView.Update(sz)
	m.ideaView, _ = m.ideaView.Update(sz)
	m.serviceView, _ = m.serviceView.Update(sz)
}

// sync pulls every container state into the views.
func (m *Model) sync() []tea.Cmd {
	summary := m.dashboard.Summary(context.Background())
	m.weekKey = summary.WeekKey
	m.dashView.SetSummary(summary)

	goals := m.goals.State()
	ideas := m.ideas.State()
	entries := m.service.State()
	return []tea.Cmd{
		m.goalView.SetRows(goalRows(goals, summary.WeekKey), collection.Status{
			Loading: goals.Loading, Busy: goals.Creating || goals.UpdatingID != "" || goals.DeletingID != "", Error: goals.Error,
		}),
		m.ideaView.SetRows(ideaRows(ideas), collection.Status{
			Loading: ideas.Loading, Busy: ideas.Creating || ideas.UpdatingID != "" || ideas.DeletingID != "", Error: ideas.Error,
		}),
		m.serviceView.SetRows(entryRows(entries), collection.Status{
			Loading: entries.Loading, Busy: entries.Creating || entries.UpdatingID != "" || entries.DeletingID != "", Error: entries.Error,
		}),
	}
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) run(label string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{label: label, err: fn(context.Background())}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	ctx := context.Background()
	return tea.Batch(
		func() tea.Msg { m.goals.List(ctx); return nil },
		func() tea.Msg { m.ideas.List(ctx); return nil },
		func() tea.Msg { m.service.List(ctx); return nil },
	)
}

func (m *Model) deleteSelectedCmd() tea.Cmd {
	switch m.activeTab {
	case tabGoals:
		if id, ok := m.goalView.SelectedID(); ok {
			return m.run("goal deleted", func(ctx context.Context) error {
				_, err := m.goals.Delete(ctx, id)
				return err
			})
		}
	case tabIdeas:
		if id, ok := m.ideaView.SelectedID(); ok {
			return m.run("idea deleted", func(ctx context.Context) error {
				_, err := m.ideas.Delete(ctx, id)
				return err
			})
		}
	case tabService:
		if id, ok := m.serviceView.SelectedID(); ok {
			return m.run("entry deleted", func(ctx context.Context) error {
				_, err := m.service.Delete(ctx, id)
				return err
			})
		}
	}
	m.status = "nothing selected"
	return nil
}

// ─── rows ────────────────────────────────────────────────────────────────────

func goalRows(state learningdto.State, weekKey string) []collection.Row {
	rows := make([]collection.Row, 0, len(state.Items))
	for _, g := range state.Items {
		var detail strings.Builder
		fmt.Fprintf(&detail, "%s %d%%\n", theme.Muted.Render("progress:"), g.ProgressPercent)
		if g.TargetHours != nil {
			fmt.Fprintf(&detail, "%s %.1fh\n", theme.Muted.Render("target:  "), *g.TargetHours)
		}
		fmt.Fprintf(&detail, "%s %.1fh\n", theme.Muted.Render("this week:"), g.HoursInWeek(weekKey))
		if g.Notes != "" {
			detail.WriteString("\n" + g.Notes + "\n")
		}
		if len(g.Resources) > 0 {
			detail.WriteString("\n" + theme.Hot.Render("Resources") + "\n")
			for i, r := range g.Resources {
				fmt.Fprintf(&detail, "  %d. %s\n", i, r)
			}
		}
		rows = append(rows, collection.Row{
			ID:      g.ID,
			Title:   g.Title,
			Summary: fmt.Sprintf("%d%%  %.1fh this week", g.ProgressPercent, g.HoursInWeek(weekKey)),
			Detail:  detail.String(),
			Pending: isPending(g.ID),
		})
	}
	return rows
}

func ideaRows(state experimentsdto.State) []collection.Row {
	rows := make([]collection.Row, 0, len(state.Items))
	for _, e := range state.Items {
		next := e.NextAction
		if e.Blocked() {
			next = theme.Problem.Render("blocked")
		}
		var detail strings.Builder
		fmt.Fprintf(&detail, "%s %s\n%s %s\n", theme.Muted.Render("status:"), e.Status, theme.Muted.Render("next:  "), next)
		if e.Description != "" {
			detail.WriteString("\n" + e.Description + "\n")
		}
		if len(e.Dependencies) > 0 {
			detail.WriteString("\n" + theme.Muted.Render("depends on: ") + strings.Join(e.Dependencies, ", ") + "\n")
		}
		if e.Notes != "" {
			detail.WriteString("\n" + e.Notes + "\n")
		}
		rows = append(rows, collection.Row{
			ID:      e.ID,
			Title:   e.Title,
			Summary: string(e.Status),
			Detail:  detail.String(),
			Pending: isPending(e.ID),
		})
	}
	return rows
}

func entryRows(state volunteerdto.State) []collection.Row {
	rows := make([]collection.Row, 0, len(state.Items))
	for _, e := range state.Items {
		detail := fmt.Sprintf("%s %s\n%s %.1f\n", theme.Muted.Render("date: "), e.Date, theme.Muted.Render("hours:"), e.Hours)
		if e.Reflection != "" {
			detail += "\n" + e.Reflection + "\n"
		}
		rows = append(rows, collection.Row{
			ID:      e.ID,
			Title:   e.Description,
			Summary: fmt.Sprintf("%s  %.1fh", e.Date, e.Hours),
			Detail:  detail,
			Pending: isPending(e.ID),
		})
	}
	return rows
}

func isPending(id string) bool {
	return platformid.IsTemp(id)
}
