package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/evanschultz/rota/internal/app"
	"github.com/evanschultz/rota/internal/domain"
	"github.com/evanschultz/rota/internal/report"
)

// Service represents service data used by this package.
type Service interface {
	AssignDay(context.Context, app.AssignInput) (domain.AssignmentPlan, error)
	LastPlan(domain.Day) (domain.AssignmentPlan, error)
	History() []domain.RotationRecord
	ResetWeek()
	AvailabilityMatrix(context.Context) ([]app.AvailabilityRow, error)
	SpecialTasks() []string
	DefaultAssignInput(domain.Day) app.AssignInput
}

// planMsg carries one generated plan and the refreshed history.
type planMsg struct {
	plan    domain.AssignmentPlan
	history []domain.RotationRecord
	err     error
}

// availabilityMsg carries the weekly availability matrix.
type availabilityMsg struct {
	rows []app.AvailabilityRow
	err  error
}

// resetMsg reports a completed week reset.
type resetMsg struct{}

// copiedMsg reports the clipboard write outcome.
type copiedMsg struct {
	err error
}

// Model is the interactive day planner.
type Model struct {
	svc  Service
	keys keyMap
	help help.Model
	md   *markdownRenderer
	copy func(string) error

	day        domain.Day
	input      app.AssignInput
	plans      map[domain.Day]domain.AssignmentPlan
	history    []domain.RotationRecord
	matrix     []app.AvailabilityRow
	autoAssign bool

	showAvailability bool
	showPolicy       bool

	status string
	err    error
	ready  bool
	width  int
	height int
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:    svc,
		keys:   newKeyMap(),
		help:   h,
		md:     &markdownRenderer{},
		copy:   systemClipboard,
		day:    domain.Monday,
		plans:  map[domain.Day]domain.AssignmentPlan{},
		status: "loading...",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.input = svc.DefaultAssignInput(m.day)
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	if m.autoAssign {
		return tea.Batch(m.loadAvailability, m.assignCmd())
	}
	return m.loadAvailability
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case availabilityMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.matrix = msg.rows
		if m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case planMsg:
		if msg.err != nil {
			// Empty inputs are expected on days off; keep the planner usable.
			if errors.Is(msg.err, app.ErrNoAvailableWorkers) || errors.Is(msg.err, app.ErrEmptyCatalog) {
				delete(m.plans, m.day)
				m.status = msg.err.Error()
				return m, nil
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.plans[msg.plan.Day] = msg.plan
		m.history = msg.history
		m.status = fmt.Sprintf("assigned %s (%d workers)", msg.plan.Day.Title(), len(msg.plan.Assignments))
		return m, nil

	case resetMsg:
		m.plans = map[domain.Day]domain.AssignmentPlan{}
		m.history = nil
		m.status = "week reset"
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "plan copied to clipboard"
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	default:
		return m, nil
	}
}

// handleKey maps key presses to planner actions.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.prevDay):
		m.setDay(m.day.Prev())
		return m, nil
	case key.Matches(msg, m.keys.nextDay):
		m.setDay(m.day.Next())
		return m, nil
	case key.Matches(msg, m.keys.assign):
		m.status = "assigning " + m.day.Title() + "..."
		return m, m.assignCmd()
	case key.Matches(msg, m.keys.toggleWeighted):
		m.input.Weighted = !m.input.Weighted
		m.status = "weighted " + onOff(m.input.Weighted)
		return m, nil
	case key.Matches(msg, m.keys.toggleRandomize):
		m.input.Randomize = !m.input.Randomize
		m.status = "shuffle " + onOff(m.input.Randomize)
		return m, nil
	case key.Matches(msg, m.keys.resetWeek):
		return m, m.resetCmd()
	case key.Matches(msg, m.keys.copyPlan):
		plan, ok := m.plans[m.day]
		if !ok {
			m.status = "nothing to copy: assign " + m.day.Title() + " first"
			return m, nil
		}
		return m, m.copyCmd(report.PlainText(plan))
	case key.Matches(msg, m.keys.toggleAvailable):
		m.showAvailability = !m.showAvailability
		return m, nil
	case key.Matches(msg, m.keys.togglePolicy):
		m.showPolicy = !m.showPolicy
		return m, nil
	case key.Matches(msg, m.keys.reloadCatalog):
		m.status = "reloading roster..."
		return m, m.loadAvailability
	default:
		return m, nil
	}
}

// setDay moves the selection and picks up any plan the service already holds.
func (m *Model) setDay(day domain.Day) {
	m.day = day
	m.input.Day = day
	if _, ok := m.plans[day]; !ok {
		if plan, err := m.svc.LastPlan(day); err == nil {
			m.plans[day] = plan
		}
	}
	m.status = day.Title()
}

// loadAvailability fetches the availability matrix.
func (m Model) loadAvailability() tea.Msg {
	rows, err := m.svc.AvailabilityMatrix(context.Background())
	return availabilityMsg{rows: rows, err: err}
}

// assignCmd generates the selected day's plan.
func (m Model) assignCmd() tea.Cmd {
	svc := m.svc
	input := m.input
	input.Day = m.day
	return func() tea.Msg {
		plan, err := svc.AssignDay(context.Background(), input)
		if err != nil {
			return planMsg{err: err}
		}
		return planMsg{plan: plan, history: svc.History()}
	}
}

// resetCmd clears the week's rotation history.
func (m Model) resetCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		svc.ResetWeek()
		return resetMsg{}
	}
}

// copyCmd writes text to the clipboard.
func (m Model) copyCmd(text string) tea.Cmd {
	write := m.copy
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render builds the full screen content.
func (m Model) render() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n\npress r to retry • q quit\n"
	}
	if !m.ready {
		return "loading..."
	}

	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	dayStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	sections := []string{
		titleStyle.Render("rota") + "  " + m.dayStrip(dayStyle, lipgloss.NewStyle().Foreground(muted)),
		statusStyle.Render(fmt.Sprintf("weighted %s · shuffle %s", onOff(m.input.Weighted), onOff(m.input.Randomize))),
		"",
	}
	if plan, ok := m.plans[m.day]; ok {
		sections = append(sections,
			report.SpecialSummary(plan),
			report.PlanTable(plan),
			report.Metrics(plan),
		)
	} else {
		sections = append(sections, statusStyle.Render("No plan for "+m.day.Title()+" yet. Press enter to assign."))
	}
	sections = append(sections, "", report.Title("Special duty history"), report.HistoryTable(m.history))
	if m.showAvailability {
		sections = append(sections, "", report.Title("Availability"), report.AvailabilityTable(m.matrix))
	}
	if m.showPolicy {
		sections = append(sections, "", m.md.render(report.PolicyMarkdown(m.svc.SpecialTasks()), max(0, m.width-4)))
	}
	if strings.TrimSpace(m.status) != "" {
		sections = append(sections, "", statusStyle.Render(m.status))
	}

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	return strings.Join(sections, "\n") + "\n" + helpLine
}

// dayStrip renders the week with the selected day highlighted.
func (m Model) dayStrip(active, inactive lipgloss.Style) string {
	parts := make([]string, 0, 7)
	for _, day := range domain.Week() {
		label := day.Short()
		if _, ok := m.plans[day]; ok {
			label += "•"
		}
		if day == m.day {
			parts = append(parts, active.Render("["+label+"]"))
			continue
		}
		parts = append(parts, inactive.Render(" "+label+" "))
	}
	return strings.Join(parts, "")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
