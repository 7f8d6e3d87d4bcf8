package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leap/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings           []store.Setting
	defaultStrongScore float64

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	strongWeekScore *string
	chartWeeks      *string
	showCalendar    *bool
	exportFormat    *string
}

func newSettingsModel(s *store.Store, defaultStrongScore float64) settingsModel {
	sw, cw, ef := "", "", ""
	sc := true
	return settingsModel{
		store:              s,
		defaultStrongScore: defaultStrongScore,
		strongWeekScore:    &sw,
		chartWeeks:         &cw,
		showCalendar:       &sc,
		exportFormat:       &ef,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

// settingsDataMsg carries the stored settings plus the parsed values the
// other views need.
type settingsDataMsg struct {
	settings        []store.Setting
	strongWeekScore float64
	chartWeeks      int
	showCalendar    bool
	exportFormat    string
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{
			settings:        settings,
			strongWeekScore: s.store.SettingFloat("strong_week_score", s.defaultStrongScore),
			chartWeeks:      int(s.store.SettingFloat("chart_weeks", 12)),
			showCalendar:    s.getVal("show_calendar", "true") == "true",
			exportFormat:    s.getVal("export_format", "json"),
		}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.strongWeekScore = formatScore(s.store.SettingFloat("strong_week_score", s.defaultStrongScore))
	*s.chartWeeks = s.getVal("chart_weeks", "12")
	*s.showCalendar = s.getVal("show_calendar", "true") == "true"
	*s.exportFormat = s.getVal("export_format", "json")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Strong week score").Value(s.strongWeekScore).Validate(validateScore),
			huh.NewInput().Title("Weeks shown in score chart").Value(s.chartWeeks).Validate(validateChartWeeks),
			huh.NewConfirm().Title("Show month calendar on Today").Value(s.showCalendar),
		).Title("Display"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default export").
				Options(exportOptions()...).
				Value(s.exportFormat),
		).Title("Export"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateChartWeeks(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 || n > 53 {
		return fmt.Errorf("enter a number of weeks between 1 and 53")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, statusCmd(errorText(err), true)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved", false))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := map[string]string{
		"strong_week_score": strings.TrimSpace(*s.strongWeekScore),
		"chart_weeks":       strings.TrimSpace(*s.chartWeeks),
		"show_calendar":     strconv.FormatBool(*s.showCalendar),
		"export_format":     *s.exportFormat,
	}
	for k, v := range values {
		if err := s.store.SetSetting(k, v); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "chart_weeks":
		return v + " weeks"
	case "strong_week_score":
		return v + " / 10"
	case "show_calendar":
		if v == "true" {
			return "on"
		}
		return "off"
	case "export_format":
		for _, opt := range exportFormats {
			if opt.value == v {
				return opt.label
			}
		}
	}
	return v
}
