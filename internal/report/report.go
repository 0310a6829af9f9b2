// Package report renders plans, rotation history, and availability as
// terminal tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/evanschultz/rota/internal/app"
	"github.com/evanschultz/rota/internal/domain"
)

var (
	accent       = lipgloss.Color("62")
	muted        = lipgloss.Color("241")
	specialColor = lipgloss.Color("212")
	warnColor    = lipgloss.Color("203")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	specialStyle = lipgloss.NewStyle().Foreground(specialColor).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warnColor).Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(muted)
)

// newTable returns a rounded table with the shared header and cell styles.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// Title renders a section heading.
func Title(text string) string {
	return titleStyle.Render(text)
}

// PlanTable renders one row per worker with their items in assignment order.
func PlanTable(plan domain.AssignmentPlan) string {
	if plan.Empty() {
		return mutedStyle.Render(fmt.Sprintf("No assignments for %s.", plan.Day.Title()))
	}
	t := newTable("Worker", "Items", "Count", "Intensity", "Avg", "Special")
	for _, assignment := range plan.Assignments {
		names := make([]string, 0, len(assignment.Items))
		for _, item := range assignment.Items {
			if item.Special {
				names = append(names, specialStyle.Render("★ "+item.Name))
				continue
			}
			names = append(names, item.Name)
		}
		special := "-"
		if assignment.HasSpecial() {
			special = specialStyle.Render(assignment.SpecialTask)
		}
		t.Row(
			assignment.Worker,
			strings.Join(names, ", "),
			strconv.Itoa(assignment.ItemCount),
			strconv.Itoa(assignment.TotalIntensity),
			fmt.Sprintf("%.1f", assignment.AverageIntensity()),
			special,
		)
	}
	return t.Render()
}

// SpecialSummary lists who holds each special duty today.
func SpecialSummary(plan domain.AssignmentPlan) string {
	picks := plan.SpecialAssignments()
	lines := make([]string, 0, len(picks)+len(plan.UnassignedSpecials))
	for _, pick := range picks {
		lines = append(lines, fmt.Sprintf("%s → %s", specialStyle.Render(pick.Task), pick.Worker))
	}
	for _, task := range plan.UnassignedSpecials {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("%s → unassigned (not enough workers)", task)))
	}
	if len(lines) == 0 {
		return mutedStyle.Render("No special duties today.")
	}
	return strings.Join(lines, "\n")
}

// Metrics renders the distribution summary for a plan.
func Metrics(plan domain.AssignmentPlan) string {
	summary := plan.Summary()
	cells := []string{
		fmt.Sprintf("total intensity %d", summary.TotalIntensity),
		fmt.Sprintf("avg/worker %.1f", summary.AverageIntensity),
		fmt.Sprintf("spread %d-%d", summary.MinIntensity, summary.MaxIntensity),
		fmt.Sprintf("special duties %d", summary.SpecialCount),
		fmt.Sprintf("items %d", summary.ItemCount),
	}
	return mutedStyle.Render(strings.Join(cells, " · "))
}

// HistoryTable renders the week's rotation records.
func HistoryTable(records []domain.RotationRecord) string {
	if len(records) == 0 {
		return mutedStyle.Render("No special duty history this week.")
	}
	t := newTable("Day", "Task", "Worker")
	for _, rec := range records {
		t.Row(rec.Day.Title(), rec.Task, rec.Worker)
	}
	return t.Render()
}

// AvailabilityTable renders the weekly availability matrix.
func AvailabilityTable(rows []app.AvailabilityRow) string {
	headers := []string{"Worker"}
	for _, day := range domain.Week() {
		headers = append(headers, day.Short())
	}
	t := newTable(headers...)
	for _, row := range rows {
		name := row.Worker
		if !row.Active {
			name = mutedStyle.Render(name + " (inactive)")
		}
		cells := []string{name}
		for _, state := range row.Days {
			cells = append(cells, state.Symbol())
		}
		t.Row(cells...)
	}
	return t.Render()
}

// Day renders the full report for one plan: specials, assignments, metrics,
// and the week's history so far.
func Day(plan domain.AssignmentPlan, history []domain.RotationRecord) string {
	sections := []string{
		Title(fmt.Sprintf("Assignments for %s", plan.Day.Title())),
		SpecialSummary(plan),
		PlanTable(plan),
		Metrics(plan),
		Title("Special duty history"),
		HistoryTable(history),
	}
	return strings.Join(sections, "\n\n")
}

// PlainText renders a plan without styling, one worker per line.
func PlainText(plan domain.AssignmentPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s assignments\n", plan.Day.Title())
	for _, assignment := range plan.Assignments {
		fmt.Fprintf(&b, "- %s (%d): %s", assignment.Worker, assignment.TotalIntensity, strings.Join(assignment.ItemNames(), ", "))
		if assignment.HasSpecial() {
			fmt.Fprintf(&b, " [special: %s]", assignment.SpecialTask)
		}
		b.WriteString("\n")
	}
	for _, task := range plan.UnassignedSpecials {
		fmt.Fprintf(&b, "! %s unassigned\n", task)
	}
	return b.String()
}
