package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leap/internal/export"
	"github.com/sadopc/leap/internal/session"
	"github.com/sadopc/leap/internal/state"
	"github.com/sadopc/leap/internal/store"
)

var exportFormats = []struct {
	label string
	value string
}{
	{"JSON snapshot", export.FormatJSON},
	{"Week reviews (CSV)", export.FormatWeeksCSV},
	{"Daily logs (CSV)", export.FormatDaysCSV},
}

func exportOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(exportFormats))
	for i, f := range exportFormats {
		opts[i] = huh.NewOption(f.label, f.value)
	}
	return opts
}

// Options configures the App beyond its session and store.
type Options struct {
	SlotKey         string
	ExportDir       string
	StrongWeekScore float64
}

// App is the root Bubble Tea model.
type App struct {
	sess   *session.Session
	store  *store.Store
	opts   Options
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDefault string

	snap *state.Snapshot

	home     homeModel
	today    todayModel
	weeks    weeksModel
	cycles   cyclesModel
	journal  journalModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(sess *session.Session, st *store.Store, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}

	return App{
		sess:          sess,
		store:         st,
		opts:          opts,
		activeView:    viewHome,
		exportDefault: export.FormatJSON,
		home:          newHomeModel(opts.StrongWeekScore),
		today:         newTodayModel(sess),
		weeks:         newWeeksModel(sess, opts.StrongWeekScore),
		cycles:        newCyclesModel(sess),
		journal:       newJournalModel(sess),
		settings:      newSettingsModel(st, opts.StrongWeekScore),
		help:          h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadSnapshot(a.sess),
		a.settings.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.home.setSize(a.width, contentHeight)
		a.today.setSize(a.width, contentHeight)
		a.weeks.setSize(a.width, contentHeight)
		a.cycles.setSize(a.width, contentHeight)
		a.journal.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = exportIndex(a.exportDefault)
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHome
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewToday
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewWeeks
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewCycles
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewJournal
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case snapshotMsg:
		a.snap = msg.snap
		return a.broadcast(msg)

	case settingsDataMsg:
		a.exportDefault = msg.exportFormat
		return a.broadcast(msg)

	case mutationMsg:
		if msg.err != nil {
			a.status, a.statusErr = errorText(msg.err), true
		} else {
			a.status, a.statusErr = msg.text, false
		}
		return a, loadSnapshot(a.sess)

	case DayChangedMsg:
		a.status, a.statusErr = "New day: today's checklist was reset", false
		return a, loadSnapshot(a.sess)

	case statusMsg:
		a.status, a.statusErr = msg.text, msg.isError
		return a, nil

	case exportDoneMsg:
		a.status, a.statusErr = "Exported to "+msg.path, false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// broadcast delivers data messages to every view, not just the active one.
func (a App) broadcast(msg tea.Msg) (App, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.home, cmd = a.home.update(msg)
	cmds = append(cmds, cmd)
	a.today, cmd = a.today.update(msg)
	cmds = append(cmds, cmd)
	a.weeks, cmd = a.weeks.update(msg)
	cmds = append(cmds, cmd)
	a.cycles, cmd = a.cycles.update(msg)
	cmds = append(cmds, cmd)
	a.journal, cmd = a.journal.update(msg)
	cmds = append(cmds, cmd)
	a.settings, cmd = a.settings.update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHome:
		a.home, cmd = a.home.update(msg)
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewWeeks:
		a.weeks, cmd = a.weeks.update(msg)
	case viewCycles:
		a.cycles, cmd = a.cycles.update(msg)
	case viewJournal:
		a.journal, cmd = a.journal.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.formActive
	case viewWeeks:
		return a.weeks.formActive
	case viewCycles:
		return a.cycles.formActive || a.cycles.confirmDelete
	case viewJournal:
		return a.journal.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHome:
		content = a.home.view()
	case viewToday:
		content = a.today.view()
	case viewWeeks:
		content = a.weeks.view()
	case viewCycles:
		content = a.cycles.view()
	case viewJournal:
		content = a.journal.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("leap")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Sprint indicator in footer
	sprintInfo := ""
	if a.snap != nil {
		if p, ok := a.snap.ActiveProgress(a.sess.Now()); ok {
			sprintInfo = successStyle.Render(fmt.Sprintf(" ● W%d %d%%", p.Week, p.Percent))
		}
		if a.snap.CompletedToday {
			sprintInfo += successStyle.Render(" ✓")
		}
	}

	left := footerStyle.Render(helpView)
	right := sprintInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func exportIndex(value string) int {
	for i, f := range exportFormats {
		if f.value == value {
			return i
		}
	}
	return 0
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.label))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  to "+a.opts.ExportDir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor].value)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format string) tea.Cmd {
	return func() tea.Msg {
		snap := a.sess.Snapshot()
		path, err := export.Write(snap, a.opts.SlotKey, format, a.opts.ExportDir, a.sess.Now().Format("2006-01-02"))
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
