// Package collection renders one entity collection as a filterable list
// with a detail pane. It knows nothing about entity kinds; the app model
// converts container state into Rows.
package collection

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nebibs/internal/ui/theme"
)

type Row struct {
	ID      string
	Title   string
	Summary string
	Detail  string
	// Pending marks an optimistic row not yet confirmed by the service.
	Pending bool
}

// Status mirrors the flags of a container state.
type Status struct {
	Loading  bool
	Busy     bool
	Error    string
	Restored bool
}

type rowItem struct{ row Row }

func (i rowItem) Title() string {
	if i.row.Pending {
		return theme.Pending.Render(i.row.Title + " (saving)")
	}
	return i.row.Title
}
func (i rowItem) Description() string { return i.row.Summary }
func (i rowItem) FilterValue() string { return i.row.Title }

type Model struct {
	title   string
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	status  Status
	width   int
	height  int
}

func New(title string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{title: title, list: l, detail: vp, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetRows replaces the list contents, keeping the selection on the same id
// when it still exists.
func (m *Model) SetRows(rows []Row, status Status) tea.Cmd {
	selected, _ := m.SelectedID()
	items := make([]list.Item, len(rows))
	index := 0
	for i, row := range rows {
		items[i] = rowItem{row: row}
		if row.ID == selected {
			index = i
		}
	}
	m.status = status
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(index)
	}
	m.list.Title = m.heading()
	m.refreshDetail()
	return cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		m.list.Title = m.heading()
	}

	prev := m.list.Index()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	if m.list.Index() != prev {
		m.refreshDetail()
	}
	m.detail, cmd = m.detail.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.Width(max(detailW-2, 1)).Height(max(m.height-2, 1)).Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) SelectedID() (string, bool) {
	if item, ok := m.list.SelectedItem().(rowItem); ok {
		return item.row.ID, true
	}
	return "", false
}

// Filtering reports an open search prompt; global keys yield to it.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) heading() string {
	switch {
	case m.status.Error != "":
		return m.title + "  " + theme.Problem.Render(m.status.Error)
	case m.status.Loading || m.status.Busy:
		return m.title + "  " + m.spinner.View()
	default:
		return fmt.Sprintf("%s (%d)", m.title, len(m.list.Items()))
	}
}

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = max(detailW-4, 1)
	m.detail.Height = max(m.height-4, 1)
}

func (m *Model) refreshDetail() {
	if item, ok := m.list.SelectedItem().(rowItem); ok {
		m.detail.SetContent(theme.Title.Render(item.row.Title) + "\n\n" + item.row.Detail)
		return
	}
	m.detail.SetContent(theme.Muted.Render("Nothing here yet. Press : to add."))
}
