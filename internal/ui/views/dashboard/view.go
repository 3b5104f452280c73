package dashboard

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dashboarddto "nebibs/internal/modules/dashboard/dto"
	"nebibs/internal/ui/theme"
)

type Model struct {
	summary dashboarddto.Summary
	body    viewport.Model
}

func New() Model {
	return Model{body: viewport.New(0, 0)}
}

func (m *Model) SetSummary(summary dashboarddto.Summary) {
	m.summary = summary
	m.body.SetContent(Render(summary))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.body.Width = size.Width
		m.body.Height = size.Height
	}
	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.body.View()
}

func Render(s dashboarddto.Summary) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Week of "+s.WeekKey) + "\n\n")

	stats := []string{
		stat("Learning hours", fmt.Sprintf("%.1f", s.LearningHours)),
		stat("Service hours", fmt.Sprintf("%.1f", s.ServiceHours)),
		stat("Total service", fmt.Sprintf("%.1f", s.TotalServiceHours)),
		stat("Ideas", fmt.Sprintf("%d", s.TotalIdeas)),
		stat("Completed", fmt.Sprintf("%d", s.Completed)),
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, stats...) + "\n\n")

	if len(s.Goals) > 0 {
		sb.WriteString(theme.Hot.Render("Goals") + "\n")
		for _, g := range s.Goals {
			sb.WriteString(fmt.Sprintf("  %-32s %3d%%  %4.1fh this week\n", g.Title, g.ProgressPercent, g.HoursThisWeek))
		}
		sb.WriteString("\n")
	}
	if len(s.WithNextAction) > 0 {
		sb.WriteString(theme.Good.Render("Next actions") + "\n")
		for _, e := range s.WithNextAction {
			sb.WriteString("  " + e.Title + theme.Muted.Render(" → "+e.NextAction) + "\n")
		}
		sb.WriteString("\n")
	}
	if len(s.Blocked) > 0 {
		sb.WriteString(theme.Problem.Render("Blocked, no next action") + "\n")
		for _, e := range s.Blocked {
			sb.WriteString("  " + e.Title + "\n")
		}
		sb.WriteString("\n")
	}
	for _, kind := range slices.Sorted(maps.Keys(s.Errors)) {
		sb.WriteString(theme.Problem.Render(kind+": ") + s.Errors[kind] + "\n")
	}
	return sb.String()
}

func stat(label, value string) string {
	return theme.Pane.Width(18).Render(theme.Muted.Render(label) + "\n" + theme.Hot.Render(value))
}
