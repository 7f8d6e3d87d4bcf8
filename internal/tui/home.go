package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leap/internal/calendar"
	"github.com/sadopc/leap/internal/sprint"
	"github.com/sadopc/leap/internal/state"
)

type homeModel struct {
	width  int
	height int

	snap *state.Snapshot
	now  time.Time

	strongWeekScore float64
	bar             progress.Model
}

func newHomeModel(strongWeekScore float64) homeModel {
	return homeModel{
		strongWeekScore: strongWeekScore,
		bar:             progress.New(progress.WithDefaultGradient()),
	}
}

func (h *homeModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
	h.bar.Width = max(10, w-16)
}

func (h homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		h.snap = msg.snap
		h.now = msg.now
	case settingsDataMsg:
		h.strongWeekScore = msg.strongWeekScore
	}
	return h, nil
}

func (h homeModel) view() string {
	if h.snap == nil {
		return "Loading..."
	}
	if h.width < 20 {
		return "Terminal too small"
	}
	w := h.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		h.renderIdentity(w),
		h.renderSprint(w),
		h.renderStats(w),
		h.renderRoadmap(w),
	)
}

func (h homeModel) renderIdentity(w int) string {
	q := h.snap.CurrentQuarterDef()
	title := titleStyle.Render(fmt.Sprintf("%s %d · %s", q.Name, h.snap.Year, q.Archetype))
	months := mutedStyle.Render(calendar.QuarterMonths(h.snap.CurrentQuarter))

	rows := []string{
		title + "  " + months,
		"",
		identityStyle.Render(q.IdentityStatement),
		"",
		mutedStyle.Render("Constraint: ") + q.Constraint,
		mutedStyle.Render("Theme:      ") + q.VisibilityTheme,
	}
	for _, b := range q.NewBehaviors {
		rows = append(rows, "  "+highlightStyle.Render("→ ")+b)
	}
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (h homeModel) renderSprint(w int) string {
	title := titleStyle.Render("12-Week Sprint")
	c, ok := h.snap.ActiveCycle()
	if !ok {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No active sprint. Press 4 to plan one."),
		))
	}
	p, err := state.CycleProgress(c, h.now)
	if err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, errorStyle.Render(err.Error())))
	}

	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(c.Title))
	stats := fmt.Sprintf("Week %s of %d   %s   %s",
		bigNumberStyle.Render(fmt.Sprintf("%d", p.Week)), sprint.Weeks,
		mutedStyle.Render(fmt.Sprintf("%d days left", p.Remaining())),
		mutedStyle.Render(calendar.FormatRange(p.Start, p.End)),
	)
	rows := []string{header, "", h.bar.ViewAs(p.Fraction()), weekDots(p), stats}
	if c.Objective != "" {
		rows = append(rows, "", mutedStyle.Render("Objective: ")+c.Objective)
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// weekDots renders one marker per sprint week: done, current, or ahead.
func weekDots(p sprint.Progress) string {
	var parts []string
	for i := 1; i <= sprint.Weeks; i++ {
		switch {
		case p.Done() || i < p.Week:
			parts = append(parts, successStyle.Render("●"))
		case i == p.Week && p.DaysElapsed > 0:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	return strings.Join(parts, " ")
}

func (h homeModel) renderStats(w int) string {
	week := calendar.WeekNumber(h.now)
	mon, sun := calendar.WeekRange(h.now)

	score := mutedStyle.Render("not scored")
	if h.snap.WeekScore > 0 {
		score = bigNumberStyle.Render(formatScore(h.snap.WeekScore)) + mutedStyle.Render("/10")
	}
	today := warningStyle.Render("open")
	if h.snap.CompletedToday {
		today = successStyle.Render("complete")
	}

	cols := []string{
		fmt.Sprintf("%s\n%s\n%s", mutedStyle.Render("This week"), titleStyle.Render(fmt.Sprintf("Week %d", week)), mutedStyle.Render(calendar.FormatRange(mon, sun))),
		fmt.Sprintf("%s\n%s", mutedStyle.Render("Week score"), score),
		fmt.Sprintf("%s\n%s", mutedStyle.Render("Strong weeks"), bigNumberStyle.Render(fmt.Sprintf("%d", h.snap.StrongWeeks(h.strongWeekScore)))),
		fmt.Sprintf("%s\n%s", mutedStyle.Render("Streak"), bigNumberStyle.Render(fmt.Sprintf("%d days", h.snap.DayStreak(h.now)))),
		fmt.Sprintf("%s\n%s\n%s", mutedStyle.Render("Today"), today, levelDots(h.snap.CurrentEnergy)),
	}
	colWidth := max(14, (w-6)/len(cols))
	for i := range cols {
		cols[i] = lipgloss.NewStyle().Width(colWidth).Render(cols[i])
	}
	return panelStyle.Width(w).Render(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func (h homeModel) renderRoadmap(w int) string {
	rows := []string{titleStyle.Render("Roadmap")}
	for _, id := range calendar.Quarters {
		q := h.snap.Quarters[id]
		var marker string
		switch h.snap.QuarterStatus(id) {
		case state.QuarterCurrent:
			marker = accentStyle.Render("◐ current  ")
		case state.QuarterCompleted:
			marker = successStyle.Render("● completed")
		default:
			marker = mutedStyle.Render("○ upcoming ")
		}
		label := lipgloss.NewStyle().Width(4).Render(q.Name)
		rows = append(rows, fmt.Sprintf("  %s %s %-16s %s", label, marker, q.Archetype, mutedStyle.Render(calendar.QuarterMonths(id))))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
