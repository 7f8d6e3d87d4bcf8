package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leap/internal/session"
	"github.com/sadopc/leap/internal/state"
)

type journalSection int

const (
	sectionReflections journalSection = iota
	sectionVisibility
	sectionEssays
)

var sectionNames = []string{"Reflections", "Visibility", "Essays"}

// nextEssayStatus cycles idea → draft → published → idea.
func nextEssayStatus(s state.EssayStatus) state.EssayStatus {
	switch s {
	case state.EssayIdea:
		return state.EssayDraft
	case state.EssayDraft:
		return state.EssayPublished
	default:
		return state.EssayIdea
	}
}

type journalModel struct {
	sess   *session.Session
	width  int
	height int

	snap    *state.Snapshot
	section journalSection
	cursor  int

	reflections []state.ReflectionEntry
	actions     []state.VisibilityAction
	essays      []state.Essay

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formText       *string
	formOutcome    *string
	formLevel      *int
	formFear       *int
	formConfidence *int
}

func newJournalModel(sess *session.Session) journalModel {
	text, outcome, level, fear, conf := "", "", 3, 3, 3
	return journalModel{
		sess:           sess,
		formText:       &text,
		formOutcome:    &outcome,
		formLevel:      &level,
		formFear:       &fear,
		formConfidence: &conf,
	}
}

func (j *journalModel) setSize(w, h int) {
	j.width = w
	j.height = h
}

func (j journalModel) count() int {
	switch j.section {
	case sectionReflections:
		return len(j.reflections)
	case sectionVisibility:
		return len(j.actions)
	default:
		return len(j.essays)
	}
}

func (j journalModel) update(msg tea.Msg) (journalModel, tea.Cmd) {
	if j.formActive && j.form != nil {
		return j.updateForm(msg)
	}

	switch msg := msg.(type) {
	case snapshotMsg:
		j.snap = msg.snap
		j.reflections = msg.snap.Reflections()
		j.actions = msg.snap.VisibilityLog()
		j.essays = msg.snap.Essays
		j.cursor = clampCursor(j.cursor, j.count())
		return j, nil

	case tea.KeyMsg:
		if j.snap == nil {
			return j, nil
		}
		switch {
		case key.Matches(msg, keys.Left):
			j.section = (j.section + 2) % 3
			j.cursor = 0
		case key.Matches(msg, keys.Right):
			j.section = (j.section + 1) % 3
			j.cursor = 0
		case key.Matches(msg, keys.Up):
			if j.cursor > 0 {
				j.cursor--
			}
		case key.Matches(msg, keys.Down):
			if j.cursor < j.count()-1 {
				j.cursor++
			}
		case key.Matches(msg, keys.New):
			return j.showForm()
		case key.Matches(msg, keys.Delete):
			return j, j.deleteSelected()
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Toggle):
			if j.section == sectionEssays {
				return j, j.advanceEssay()
			}
		}
	}
	return j, nil
}

func (j journalModel) deleteSelected() tea.Cmd {
	if j.cursor >= j.count() {
		return nil
	}
	switch j.section {
	case sectionReflections:
		id := j.reflections[j.cursor].ID
		return mutate(j.sess, "Reflection deleted", func(s *state.Snapshot, _ time.Time) error {
			s.DeleteReflection(id)
			return nil
		})
	case sectionVisibility:
		id := j.actions[j.cursor].ID
		return mutate(j.sess, "Visibility action deleted", func(s *state.Snapshot, _ time.Time) error {
			s.DeleteVisibilityAction(id)
			return nil
		})
	default:
		id := j.essays[j.cursor].ID
		return mutate(j.sess, "Essay deleted", func(s *state.Snapshot, _ time.Time) error {
			s.DeleteEssay(id)
			return nil
		})
	}
}

func (j journalModel) advanceEssay() tea.Cmd {
	if j.cursor >= len(j.essays) {
		return nil
	}
	e := j.essays[j.cursor]
	next := nextEssayStatus(e.Status)
	return mutate(j.sess, fmt.Sprintf("%s → %s", e.Title, next), func(s *state.Snapshot, _ time.Time) error {
		return s.SetEssayStatus(e.ID, next)
	})
}

func (j journalModel) showForm() (journalModel, tea.Cmd) {
	*j.formText = ""
	*j.formOutcome = ""
	*j.formLevel = j.snap.EmotionalState
	*j.formFear = 3
	*j.formConfidence = 3

	var group *huh.Group
	switch j.section {
	case sectionReflections:
		group = huh.NewGroup(
			huh.NewText().Title("What came up?").Value(j.formText).Validate(required("notes")),
			huh.NewSelect[int]().Title("Emotional state").Options(levelOptions()...).Value(j.formLevel),
		)
	case sectionVisibility:
		group = huh.NewGroup(
			huh.NewInput().Title("Visibility action").Value(j.formText).Validate(required("action")),
			huh.NewSelect[int]().Title("Fear before").Options(levelOptions()...).Value(j.formFear),
			huh.NewSelect[int]().Title("Confidence after").Options(levelOptions()...).Value(j.formConfidence),
			huh.NewInput().Title("Outcome").Value(j.formOutcome),
		)
	default:
		group = huh.NewGroup(
			huh.NewInput().Title("Essay title").Value(j.formText).Validate(required("title")),
		)
	}

	j.form = huh.NewForm(group).WithShowHelp(true).WithShowErrors(true)
	j.formActive = true
	return j, j.form.Init()
}

func (j journalModel) updateForm(msg tea.Msg) (journalModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			j.formActive = false
			j.form = nil
			return j, nil
		}
	}

	form, cmd := j.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		j.form = f
	}

	if j.form.State == huh.StateCompleted {
		j.formActive = false
		j.form = nil
		return j, j.submitForm()
	}
	return j, cmd
}

func (j journalModel) submitForm() tea.Cmd {
	text, outcome := *j.formText, *j.formOutcome
	switch j.section {
	case sectionReflections:
		level := *j.formLevel
		return mutate(j.sess, "Reflection added", func(s *state.Snapshot, now time.Time) error {
			_, err := s.AddReflection(text, level, now)
			return err
		})
	case sectionVisibility:
		in := state.VisibilityInput{Name: text, FearBefore: *j.formFear, ConfidenceAfter: *j.formConfidence, Outcome: outcome}
		return mutate(j.sess, "Visibility action logged", func(s *state.Snapshot, now time.Time) error {
			_, err := s.AddVisibilityAction(in, now)
			return err
		})
	default:
		return mutate(j.sess, "Essay added", func(s *state.Snapshot, now time.Time) error {
			_, err := s.AddEssay(text, state.EssayIdea, now)
			return err
		})
	}
}

func (j journalModel) view() string {
	w := j.width - 4
	if j.formActive && j.form != nil {
		title := titleStyle.Render("New " + strings.TrimSuffix(sectionNames[j.section], "s"))
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", j.form.View()))
	}
	if j.snap == nil {
		return "Loading..."
	}

	var tabs []string
	for i, name := range sectionNames {
		if journalSection(i) == j.section {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	var body string
	switch j.section {
	case sectionReflections:
		body = j.renderReflections(w)
	case sectionVisibility:
		body = j.renderVisibility(w)
	default:
		body = j.renderEssays(w)
	}

	hint := "  ←/→: section  n: new  d: delete"
	if j.section == sectionEssays {
		hint += "  enter: advance status"
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", mutedStyle.Render(hint)))
}

func (j journalModel) cursorRow(i int, text string) string {
	if i == j.cursor {
		return selectedItemStyle.Render("> " + text)
	}
	return normalItemStyle.Render("  " + text)
}

func (j journalModel) renderReflections(w int) string {
	if len(j.reflections) == 0 {
		return mutedStyle.Render("No reflections yet. Press n to write one.")
	}
	var rows []string
	for i, r := range j.reflections {
		line := fmt.Sprintf("%-12s %s", r.Date.Local().Format("Jan 2 15:04"), truncate(r.Notes, w-30))
		rows = append(rows, j.cursorRow(i, line)+" "+levelDots(r.EmotionalState))
	}
	return strings.Join(rows, "\n")
}

func (j journalModel) renderVisibility(w int) string {
	if len(j.actions) == 0 {
		return mutedStyle.Render("No visibility actions yet. Press n to log one.")
	}
	growth := j.snap.TotalGrowth()
	growthStyle := successStyle
	if growth < 0 {
		growthStyle = errorStyle
	}
	rows := []string{
		mutedStyle.Render("Total growth: ") + growthStyle.Render(fmt.Sprintf("%+d", growth)),
		mutedStyle.Render(fmt.Sprintf("  %-8s %-28s %5s %5s %6s", "Date", "Action", "Fear", "Conf", "Growth")),
	}
	for i, a := range j.actions {
		line := fmt.Sprintf("%-8s %-28s %5d %5d %+6d", a.Date.Local().Format("Jan 2"), truncate(a.Name, 28), a.FearBefore, a.ConfidenceAfter, a.Growth)
		rows = append(rows, j.cursorRow(i, line))
	}
	if j.cursor < len(j.actions) && j.actions[j.cursor].Outcome != "" {
		rows = append(rows, "", mutedStyle.Render("Outcome: ")+truncate(j.actions[j.cursor].Outcome, w-14))
	}
	return strings.Join(rows, "\n")
}

func (j journalModel) renderEssays(w int) string {
	if len(j.essays) == 0 {
		return mutedStyle.Render("No essays yet. Press n to capture an idea.")
	}
	var rows []string
	for i, e := range j.essays {
		var status string
		switch e.Status {
		case state.EssayPublished:
			status = successStyle.Render("published")
		case state.EssayDraft:
			status = lipgloss.NewStyle().Foreground(colorSecondary).Render("draft")
		default:
			status = mutedStyle.Render("idea")
		}
		rows = append(rows, j.cursorRow(i, fmt.Sprintf("%-40s", truncate(e.Title, min(40, w-20))))+" "+status)
	}
	return strings.Join(rows, "\n")
}
