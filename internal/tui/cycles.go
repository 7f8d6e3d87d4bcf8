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

type cyclesModel struct {
	sess   *session.Session
	width  int
	height int

	snap   *state.Snapshot
	now    time.Time
	cursor int

	confirmDelete bool

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle     *string
	formObjective *string
	formMetrics   *string
	formStart     *string
	formActivate  *bool
}

func newCyclesModel(sess *session.Session) cyclesModel {
	title, obj, metrics, start, activate := "", "", "", "", true
	return cyclesModel{
		sess:          sess,
		formTitle:     &title,
		formObjective: &obj,
		formMetrics:   &metrics,
		formStart:     &start,
		formActivate:  &activate,
	}
}

func (c *cyclesModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c cyclesModel) cycles() []state.Cycle {
	if c.snap == nil {
		return nil
	}
	return c.snap.Cycles
}

func (c cyclesModel) selected() (state.Cycle, bool) {
	list := c.cycles()
	if c.cursor >= len(list) {
		return state.Cycle{}, false
	}
	return list[c.cursor], true
}

func (c cyclesModel) update(msg tea.Msg) (cyclesModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case snapshotMsg:
		c.snap = msg.snap
		c.now = msg.now
		c.cursor = clampCursor(c.cursor, len(c.snap.Cycles))
		return c, nil

	case tea.KeyMsg:
		if c.confirmDelete {
			c.confirmDelete = false
			if msg.String() == "y" {
				return c, c.deleteSelected()
			}
			return c, statusCmd("Delete cancelled", false)
		}

		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.cycles())-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.New):
			return c.showNewForm()
		case key.Matches(msg, keys.Activate), key.Matches(msg, keys.Enter):
			return c, c.activateSelected()
		case key.Matches(msg, keys.Delete):
			if _, ok := c.selected(); ok {
				c.confirmDelete = true
			}
		}
	}
	return c, nil
}

func (c cyclesModel) activateSelected() tea.Cmd {
	sel, ok := c.selected()
	if !ok {
		return nil
	}
	return mutate(c.sess, sel.Title+" is now the active sprint", func(s *state.Snapshot, _ time.Time) error {
		return s.SetActiveCycle(sel.ID)
	})
}

func (c cyclesModel) deleteSelected() tea.Cmd {
	sel, ok := c.selected()
	if !ok {
		return nil
	}
	return mutate(c.sess, "Deleted "+sel.Title, func(s *state.Snapshot, _ time.Time) error {
		if !s.DeleteCycle(sel.ID) {
			return state.ErrNotFound
		}
		return nil
	})
}

func (c cyclesModel) showNewForm() (cyclesModel, tea.Cmd) {
	*c.formTitle = ""
	*c.formObjective = ""
	*c.formMetrics = ""
	*c.formStart = calendar.DateKey(c.now)
	*c.formActivate = true

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Sprint title").Value(c.formTitle).Validate(required("title")),
			huh.NewText().Title("Objective").Value(c.formObjective),
			huh.NewText().Title("Key metrics").Value(c.formMetrics),
			huh.NewInput().Title("Start date (YYYY-MM-DD)").Value(c.formStart).Validate(validateDate),
			huh.NewConfirm().Title("Make this the active sprint?").Value(c.formActivate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := calendar.ParseDate(strings.TrimSpace(s), time.Local); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func (c cyclesModel) updateForm(msg tea.Msg) (cyclesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		c.form = nil
		return c, c.submitForm()
	}
	return c, cmd
}

func (c cyclesModel) submitForm() tea.Cmd {
	in := state.CycleInput{
		Title:     *c.formTitle,
		Objective: *c.formObjective,
		Metrics:   *c.formMetrics,
		StartDate: *c.formStart,
		SetActive: *c.formActivate,
	}
	return mutate(c.sess, "Sprint created", func(s *state.Snapshot, now time.Time) error {
		_, err := s.AddCycle(in, now)
		return err
	})
}

func (c cyclesModel) view() string {
	w := c.width - 4
	if c.formActive && c.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Sprint"), "", c.form.View()),
		)
	}

	list := c.renderList(w)
	if sel, ok := c.selected(); ok {
		return lipgloss.JoinVertical(lipgloss.Left, list, c.renderDetail(sel, w))
	}
	return list
}

func (c cyclesModel) renderList(w int) string {
	title := titleStyle.Render("Sprints")
	list := c.cycles()
	if len(list) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No sprints yet. Press n to plan one."),
		))
	}

	rows := []string{title, "", mutedStyle.Render(fmt.Sprintf("  %-3s %-28s %-11s %-4s %s", "", "Title", "Start", "Qtr", "Progress"))}
	for i, cy := range list {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := mutedStyle.Render("○")
		if cy.Status == state.CycleActive {
			marker = successStyle.Render("●")
		}
		progress := ""
		if p, err := state.CycleProgress(cy, c.now); err == nil {
			progress = fmt.Sprintf("%3d%%  week %d", p.Percent, p.Week)
		}
		rows = append(rows, fmt.Sprintf("%s %s", marker,
			style.Render(fmt.Sprintf("%s%-28s %-11s %-4s %s", cursor, truncate(cy.Title, 28), cy.StartDate, cy.Quarter, progress))))
	}

	rows = append(rows, "")
	if c.confirmDelete {
		rows = append(rows, warningStyle.Render("  Delete this sprint? y to confirm, any other key cancels"))
	} else {
		rows = append(rows, mutedStyle.Render("  n: new  a/enter: set active  d: delete"))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c cyclesModel) renderDetail(cy state.Cycle, w int) string {
	rows := []string{titleStyle.Render(cy.Title)}
	if p, err := state.CycleProgress(cy, c.now); err == nil {
		rows = append(rows, weekDots(p)+"  "+mutedStyle.Render(calendar.FormatRange(p.Start, p.End)))
	}
	rows = append(rows,
		"",
		mutedStyle.Render("Objective: ")+orPlaceholder(cy.Objective, "none"),
		mutedStyle.Render("Metrics:   ")+orPlaceholder(cy.Metrics, "none"),
	)
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
