package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leap/internal/calendar"
	"github.com/sadopc/leap/internal/session"
	"github.com/sadopc/leap/internal/state"
)

type weeksModel struct {
	sess   *session.Session
	width  int
	height int

	snap       *state.Snapshot
	now        time.Time
	past       []state.WeekRecord
	cursor     int
	chartWeeks int
	strong     float64

	chart barchart.Model

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formOutcomes   *string
	formScore      *string
	formReflection *string
}

func newWeeksModel(sess *session.Session, strongWeekScore float64) weeksModel {
	o, s, r := "", "", ""
	return weeksModel{
		sess:           sess,
		chartWeeks:     12,
		strong:         strongWeekScore,
		chart:          barchart.New(60, 10),
		formOutcomes:   &o,
		formScore:      &s,
		formReflection: &r,
	}
}

func (m *weeksModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

func (m weeksModel) update(msg tea.Msg) (weeksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = msg.snap
		m.now = msg.now
		m.past = msg.snap.PastWeeks()
		m.cursor = clampCursor(m.cursor, len(m.past))
		m.buildChart()
		return m, nil

	case settingsDataMsg:
		m.chartWeeks = msg.chartWeeks
		m.strong = msg.strongWeekScore
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		if m.snap == nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.past)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.New):
			return m.showForm()
		case key.Matches(msg, keys.Complete):
			return m, m.completeWeek()
		}
	}
	return m, nil
}

func (m weeksModel) completeWeek() tea.Cmd {
	return func() tea.Msg {
		var rec state.WeekRecord
		err := m.sess.Update(func(s *state.Snapshot, now time.Time) error {
			var err error
			rec, err = s.CompleteWeek(now)
			return err
		})
		if err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{text: fmt.Sprintf("Week %d filed with score %s", rec.WeekNumber, formatScore(rec.Score))}
	}
}

func (m weeksModel) showForm() (weeksModel, tea.Cmd) {
	*m.formOutcomes = m.snap.WeekOutcomes
	*m.formScore = ""
	if m.snap.WeekScore > 0 {
		*m.formScore = formatScore(m.snap.WeekScore)
	}
	*m.formReflection = m.snap.WeekReflection

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Outcomes this week").Value(m.formOutcomes),
			huh.NewInput().Title("Score (0-10)").Value(m.formScore).Validate(validateScore),
			huh.NewText().Title("Reflection").Value(m.formReflection),
		).Title("Week Review"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func validateScore(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if v < 0 || v > 10 {
		return errors.New("score must be between 0 and 10")
	}
	return nil
}

func (m weeksModel) updateForm(msg tea.Msg) (weeksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		return m, m.submitForm()
	}
	return m, cmd
}

func (m weeksModel) submitForm() tea.Cmd {
	outcomes, reflection := *m.formOutcomes, *m.formReflection
	scoreText := strings.TrimSpace(*m.formScore)
	return mutate(m.sess, "Week review saved", func(s *state.Snapshot, _ time.Time) error {
		s.SetWeekOutcomes(outcomes)
		s.SetWeekReflection(reflection)
		score := 0.0
		if scoreText != "" {
			v, err := strconv.ParseFloat(scoreText, 64)
			if err != nil {
				return err
			}
			score = v
		}
		return s.SetWeekScore(score)
	})
}

func (m *weeksModel) buildChart() {
	chartWidth := max(20, m.width-8)
	chartHeight := 10
	if m.height > 36 {
		chartHeight = 14
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	n := min(len(m.past), max(1, m.chartWeeks))
	// past is newest first; the chart reads left to right.
	var bars []barchart.BarData
	for i := n - 1; i >= 0; i-- {
		w := m.past[i]
		color := colorWarning
		if w.Score >= m.strong {
			color = colorSuccess
		}
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("W%d", w.WeekNumber),
			Values: []barchart.BarValue{{
				Name:  fmt.Sprintf("Week %d", w.WeekNumber),
				Value: w.Score,
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m weeksModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Week Review"), "", m.form.View()),
		)
	}
	if m.snap == nil {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderCurrent(w),
		m.renderChart(w),
		m.renderPast(w),
	)
}

func (m weeksModel) renderCurrent(w int) string {
	mon, sun := calendar.WeekRange(m.now)
	title := titleStyle.Render(fmt.Sprintf("Week %d", calendar.WeekNumber(m.now))) + "  " +
		mutedStyle.Render(calendar.FormatRange(mon, sun))

	score := mutedStyle.Render("not scored")
	if m.snap.WeekScore > 0 {
		score = bigNumberStyle.Render(formatScore(m.snap.WeekScore)) + mutedStyle.Render("/10")
	}
	rows := []string{
		title,
		"",
		mutedStyle.Render("Outcomes:   ") + orPlaceholder(truncate(m.snap.WeekOutcomes, w-20), "none yet"),
		mutedStyle.Render("Score:      ") + score,
		mutedStyle.Render("Reflection: ") + orPlaceholder(truncate(m.snap.WeekReflection, w-20), "none yet"),
		"",
		mutedStyle.Render("  e: edit review  c: complete week"),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m weeksModel) renderChart(w int) string {
	title := titleStyle.Render("Scores")
	if len(m.past) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No completed weeks yet"),
		))
	}
	legend := successStyle.Render("■") + mutedStyle.Render(fmt.Sprintf(" ≥ %s  ", formatScore(m.strong))) +
		warningStyle.Render("■") + mutedStyle.Render(" below")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title+"  "+legend, "", m.chart.View()))
}

func (m weeksModel) renderPast(w int) string {
	title := titleStyle.Render("Past Weeks")
	if len(m.past) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Complete a week review to start the log"),
		))
	}

	rows := []string{title, mutedStyle.Render(fmt.Sprintf("  %-6s %-16s %6s  %s", "Week", "Dates", "Score", "Outcomes"))}
	for i, wk := range m.past {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-6d %-16s %6s  %s",
			cursor, wk.WeekNumber, wk.DateRange, formatScore(wk.Score), truncate(wk.Outcomes, w-40))))
	}
	if sel := m.past[m.cursor]; sel.Reflection != "" {
		rows = append(rows, "", mutedStyle.Render("  Reflection: ")+truncate(sel.Reflection, w-20))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
