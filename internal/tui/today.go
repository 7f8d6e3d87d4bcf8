package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leap/internal/calendar"
	"github.com/sadopc/leap/internal/session"
	"github.com/sadopc/leap/internal/state"
)

// Checklist rows on the Today view.
const (
	itemPriority = iota
	itemMicroAction
	itemPractice
	itemCount
)

type todayModel struct {
	sess   *session.Session
	width  int
	height int

	snap         *state.Snapshot
	now          time.Time
	cursor       int
	showCalendar bool

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formPriority    *string
	formMicroAction *string
	formAnchor      *string
	formEmotional   *int
}

func newTodayModel(sess *session.Session) todayModel {
	p, m, a, e := "", "", "", 3
	return todayModel{
		sess:            sess,
		showCalendar:    true,
		formPriority:    &p,
		formMicroAction: &m,
		formAnchor:      &a,
		formEmotional:   &e,
	}
}

func (t *todayModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case snapshotMsg:
		t.snap = msg.snap
		t.now = msg.now
		return t, nil

	case settingsDataMsg:
		t.showCalendar = msg.showCalendar
		return t, nil

	case tea.KeyMsg:
		if t.snap == nil {
			return t, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < itemCount-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			return t, t.toggle()
		case key.Matches(msg, keys.Plus):
			return t, t.setEnergy(t.snap.CurrentEnergy + 1)
		case key.Matches(msg, keys.Minus):
			return t, t.setEnergy(t.snap.CurrentEnergy - 1)
		case key.Matches(msg, keys.Complete):
			return t, t.completeDay()
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.New):
			return t.showForm()
		}
	}
	return t, nil
}

func (t todayModel) toggle() tea.Cmd {
	switch t.cursor {
	case itemPriority:
		done := !t.snap.PriorityComplete
		return mutate(t.sess, "Priority updated", func(s *state.Snapshot, _ time.Time) error {
			s.SetPriorityComplete(done)
			return nil
		})
	case itemMicroAction:
		done := !t.snap.MicroActionComplete
		return mutate(t.sess, "Micro-action updated", func(s *state.Snapshot, _ time.Time) error {
			s.SetMicroActionComplete(done)
			return nil
		})
	case itemPractice:
		done := !t.snap.PracticeComplete
		return mutate(t.sess, "Practice updated", func(s *state.Snapshot, _ time.Time) error {
			s.SetPracticeComplete(done)
			return nil
		})
	}
	return nil
}

func (t todayModel) setEnergy(level int) tea.Cmd {
	if level < 1 || level > 5 {
		return nil
	}
	return mutate(t.sess, fmt.Sprintf("Energy %d/5", level), func(s *state.Snapshot, _ time.Time) error {
		return s.SetEnergy(level)
	})
}

func (t todayModel) completeDay() tea.Cmd {
	return mutate(t.sess, "Day complete", func(s *state.Snapshot, now time.Time) error {
		s.CompleteDay(now)
		return nil
	})
}

func (t todayModel) showForm() (todayModel, tea.Cmd) {
	*t.formPriority = t.snap.DailyPriority
	*t.formMicroAction = t.snap.VisibilityMicroAction
	*t.formAnchor = t.snap.DailyAnchor
	*t.formEmotional = t.snap.EmotionalState

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily priority").Value(t.formPriority),
			huh.NewInput().Title("Visibility micro-action").Value(t.formMicroAction),
			huh.NewInput().Title("Daily anchor").Value(t.formAnchor),
			huh.NewSelect[int]().Title("Emotional state").
				Options(levelOptions()...).
				Value(t.formEmotional),
		).Title("Today"),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func levelOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 5)
	for i := range opts {
		opts[i] = huh.NewOption(fmt.Sprintf("%d", i+1), i+1)
	}
	return opts
}

func (t todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.form = nil
		return t, t.submitForm()
	}
	return t, cmd
}

func (t todayModel) submitForm() tea.Cmd {
	priority, micro, anchor, emotional := *t.formPriority, *t.formMicroAction, *t.formAnchor, *t.formEmotional
	return mutate(t.sess, "Today saved", func(s *state.Snapshot, _ time.Time) error {
		s.SetDailyPriority(priority)
		s.SetMicroAction(micro)
		s.SetDailyAnchor(anchor)
		return s.SetEmotionalState(emotional)
	})
}

func (t todayModel) view() string {
	w := t.width - 4
	if t.formActive && t.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Edit Today"), "", t.form.View()),
		)
	}
	if t.snap == nil {
		return "Loading..."
	}

	panels := []string{t.renderChecklist(w)}
	if t.showCalendar {
		panels = append(panels, t.renderCalendar(w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (t todayModel) renderChecklist(w int) string {
	date := t.now.Format("Monday, Jan 2")
	title := titleStyle.Render("Today") + "  " + mutedStyle.Render(date)
	if t.snap.CompletedToday {
		title += "  " + successStyle.Render("✓ complete")
	}

	items := []struct {
		label string
		text  string
		done  bool
	}{
		{"Priority", orPlaceholder(t.snap.DailyPriority, "not set"), t.snap.PriorityComplete},
		{"Micro-action", orPlaceholder(t.snap.VisibilityMicroAction, "not set"), t.snap.MicroActionComplete},
		{"Practice", orPlaceholder(t.snap.DailyAnchor, "no anchor"), t.snap.PracticeComplete},
	}

	rows := []string{title, ""}
	for i, it := range items {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := style.Render(fmt.Sprintf("%s%-13s", cursor, it.label))
		rows = append(rows, fmt.Sprintf("%s %s %s", label, checkbox(it.done), truncate(it.text, w-26)))
	}
	rows = append(rows,
		"",
		fmt.Sprintf("  %-13s %s", "Energy", levelDots(t.snap.CurrentEnergy)),
		fmt.Sprintf("  %-13s %s", "Emotional", levelDots(t.snap.EmotionalState)),
		"",
		mutedStyle.Render("  space: toggle  e: edit  +/-: energy  c: complete day"),
	)
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todayModel) renderCalendar(w int) string {
	done := make(map[string]bool, len(t.snap.DailyLogs))
	for _, l := range t.snap.DailyLogs {
		if l.Completed {
			done[l.Date] = true
		}
	}
	return panelStyle.Width(w).Render(renderMonth(t.now, done))
}

// renderMonth draws a Sunday-first month grid with completed days filled.
func renderMonth(now time.Time, done map[string]bool) string {
	title := titleStyle.Render(now.Format("January 2006"))
	header := make([]string, 7)
	for i, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		header[i] = dayStyle.Foreground(colorMuted).Render(d)
	}
	rows := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	today := calendar.DateKey(now)
	grid := calendar.MonthGrid(now.Year(), now.Month(), now.Location())
	for i := 0; i < len(grid); i += 7 {
		cells := make([]string, 0, 7)
		for _, d := range grid[i : i+7] {
			label := fmt.Sprintf("%d", d.Date.Day())
			dk := calendar.DateKey(d.Date)
			switch {
			case !d.InMonth:
				cells = append(cells, dayOutsideStyle.Render(label))
			case done[dk]:
				cells = append(cells, dayDoneStyle.Render(label))
			case dk == today:
				cells = append(cells, dayTodayStyle.Render(label))
			default:
				cells = append(cells, dayStyle.Render(label))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}
