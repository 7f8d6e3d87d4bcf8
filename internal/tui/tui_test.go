package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/leap/internal/export"
	"github.com/sadopc/leap/internal/session"
	"github.com/sadopc/leap/internal/state"
	"github.com/sadopc/leap/internal/store"
)

var testNow = time.Date(2026, time.May, 14, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestSession(t *testing.T, st *store.Store) *session.Session {
	t.Helper()
	sess, err := session.Open(st, "test", session.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return sess
}

func newTestApp(t *testing.T) (App, *session.Session) {
	t.Helper()
	st := newTestStore(t)
	sess := newTestSession(t, st)
	app := NewApp(sess, st, Options{SlotKey: "test", ExportDir: t.TempDir(), StrongWeekScore: 7})
	return app, sess
}

// run executes cmd and returns its message, failing on a nil command.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func expectMutation(t *testing.T, msg tea.Msg) mutationMsg {
	t.Helper()
	m, ok := msg.(mutationMsg)
	if !ok {
		t.Fatalf("expected mutationMsg, got %T", msg)
	}
	if m.err != nil {
		t.Fatalf("mutation failed: %v", m.err)
	}
	return m
}

// ============================================================
// Helpers
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 6 {
		t.Fatalf("expected 6 view names, got %d", len(viewNames))
	}
	if viewNames[viewHome] != "Home" || viewNames[viewSettings] != "Settings" {
		t.Fatal("view names out of order")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"héllo", 3, "hé…"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{7, "7"},
		{0, "0"},
		{7.5, "7.5"},
	}
	for _, tt := range tests {
		if got := formatScore(tt.in); got != tt.want {
			t.Errorf("formatScore(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		cursor, n, want int
	}{
		{0, 0, 0},
		{3, 2, 1},
		{-1, 5, 0},
		{2, 5, 2},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.n); got != tt.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
		}
	}
}

func TestLevelDots(t *testing.T) {
	for _, level := range []int{-2, 0, 3, 5, 9} {
		out := levelDots(level)
		if strings.Count(out, "●")+strings.Count(out, "○") != 5 {
			t.Fatalf("levelDots(%d) should render five dots: %q", level, out)
		}
	}
	if strings.Count(levelDots(3), "●") != 3 {
		t.Fatal("levelDots(3) should fill three dots")
	}
}

func TestErrorText(t *testing.T) {
	if got := errorText(state.ErrNotFound); got != "Nothing selected" {
		t.Fatalf("not found text = %q", got)
	}
	if got := errorText(errors.New("boom")); got != "Error: boom" {
		t.Fatalf("generic text = %q", got)
	}
	s := state.Default(testNow)
	err := s.SetEnergy(9)
	if got := errorText(err); strings.HasPrefix(got, "Error:") {
		t.Fatalf("validation errors should render bare, got %q", got)
	}
}

func TestNextEssayStatus(t *testing.T) {
	tests := []struct {
		in, want state.EssayStatus
	}{
		{state.EssayIdea, state.EssayDraft},
		{state.EssayDraft, state.EssayPublished},
		{state.EssayPublished, state.EssayIdea},
	}
	for _, tt := range tests {
		if got := nextEssayStatus(tt.in); got != tt.want {
			t.Errorf("nextEssayStatus(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestValidateScore(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"7", false},
		{" 8.5 ", false},
		{"0", false},
		{"10", false},
		{"11", true},
		{"-1", true},
		{"great", true},
	}
	for _, tt := range tests {
		err := validateScore(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateScore(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateChartWeeks(t *testing.T) {
	for _, ok := range []string{"1", "12", "53"} {
		if err := validateChartWeeks(ok); err != nil {
			t.Errorf("validateChartWeeks(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"0", "54", "x", ""} {
		if err := validateChartWeeks(bad); err == nil {
			t.Errorf("validateChartWeeks(%q) should fail", bad)
		}
	}
}

func TestValidateDate(t *testing.T) {
	if err := validateDate(""); err != nil {
		t.Fatalf("empty date should default to today: %v", err)
	}
	if err := validateDate("2026-05-01"); err != nil {
		t.Fatal(err)
	}
	if err := validateDate("05/01/2026"); err == nil {
		t.Fatal("non ISO date should fail")
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"chart_weeks", "12", "12 weeks"},
		{"strong_week_score", "7", "7 / 10"},
		{"show_calendar", "true", "on"},
		{"show_calendar", "false", "off"},
		{"export_format", "weeks-csv", "Week reviews (CSV)"},
		{"unknown", "x", "x"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.value); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestExportOptionsMatchFormats(t *testing.T) {
	opts := exportOptions()
	if len(opts) != len(exportFormats) {
		t.Fatalf("options %d, formats %d", len(opts), len(exportFormats))
	}
	if exportIndex("days-csv") != 2 || exportIndex("nope") != 0 {
		t.Fatal("exportIndex lookup wrong")
	}
}

func TestRenderMonth(t *testing.T) {
	out := renderMonth(testNow, map[string]bool{"2026-05-01": true})
	if !strings.Contains(out, "May 2026") {
		t.Fatal("month title missing")
	}
	for _, d := range []string{"Su", "Sa", "31"} {
		if !strings.Contains(out, d) {
			t.Fatalf("month grid missing %q", d)
		}
	}
}

// ============================================================
// View mutations
// ============================================================

func TestTodayToggleAndComplete(t *testing.T) {
	_, sess := newTestApp(t)
	tm := newTodayModel(sess)
	tm, _ = tm.update(snapshotMsg{snap: sess.Snapshot(), now: testNow})

	tm.cursor = itemMicroAction
	expectMutation(t, run(t, tm.toggle()))
	if !sess.Snapshot().MicroActionComplete {
		t.Fatal("micro action should be complete")
	}

	expectMutation(t, run(t, tm.setEnergy(5)))
	if sess.Snapshot().CurrentEnergy != 5 {
		t.Fatal("energy not saved")
	}
	if tm.setEnergy(6) != nil {
		t.Fatal("out of range energy should be ignored")
	}

	expectMutation(t, run(t, tm.completeDay()))
	snap := sess.Snapshot()
	if !snap.CompletedToday {
		t.Fatal("day should be complete")
	}
	if _, ok := snap.DailyLog("2026-05-14"); !ok {
		t.Fatal("daily log missing")
	}
}

func TestTodaySubmitForm(t *testing.T) {
	_, sess := newTestApp(t)
	tm := newTodayModel(sess)
	*tm.formPriority = "  write draft "
	*tm.formMicroAction = "outline"
	*tm.formAnchor = "walk"
	*tm.formEmotional = 4

	expectMutation(t, run(t, tm.submitForm()))
	snap := sess.Snapshot()
	if snap.DailyPriority != "write draft" || snap.VisibilityMicroAction != "outline" || snap.DailyAnchor != "walk" {
		t.Fatalf("today fields not saved: %+v", snap)
	}
	if snap.EmotionalState != 4 {
		t.Fatalf("emotional state = %d", snap.EmotionalState)
	}
}

func TestWeeksSubmitAndComplete(t *testing.T) {
	_, sess := newTestApp(t)
	m := newWeeksModel(sess, 7)
	*m.formOutcomes = "ship essay"
	*m.formScore = "8"
	*m.formReflection = "good"

	expectMutation(t, run(t, m.submitForm()))
	if sess.Snapshot().WeekScore != 8 {
		t.Fatal("score not saved")
	}

	res := expectMutation(t, run(t, m.completeWeek()))
	if !strings.Contains(res.text, "Week 20") {
		t.Fatalf("status should name the week: %q", res.text)
	}
	snap := sess.Snapshot()
	if len(snap.Weeks) != 1 || snap.WeekOutcomes != "" {
		t.Fatal("week not filed")
	}
}

func TestWeeksCompleteWithoutReview(t *testing.T) {
	_, sess := newTestApp(t)
	m := newWeeksModel(sess, 7)
	msg := run(t, m.completeWeek()).(mutationMsg)
	if msg.err == nil {
		t.Fatal("completing an empty week should fail")
	}
	if len(sess.Snapshot().Weeks) != 0 {
		t.Fatal("failed completion must not file a week")
	}
}

func TestCyclesSubmitActivateDelete(t *testing.T) {
	_, sess := newTestApp(t)
	c := newCyclesModel(sess)
	*c.formTitle = "Launch"
	*c.formStart = "2026-04-02"
	*c.formActivate = true

	expectMutation(t, run(t, c.submitForm()))
	snap := sess.Snapshot()
	active, ok := snap.ActiveCycle()
	if !ok || active.Title != "Launch" {
		t.Fatal("new cycle should be active")
	}
	if snap.SprintProgress != 50 {
		t.Fatalf("sprint progress = %d, want 50", snap.SprintProgress)
	}

	*c.formTitle = "Next"
	*c.formStart = ""
	*c.formActivate = false
	expectMutation(t, run(t, c.submitForm()))

	c, _ = c.update(snapshotMsg{snap: sess.Snapshot(), now: testNow})
	list := c.cycles()
	if len(list) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(list))
	}
	for i, cy := range list {
		if cy.Title == "Next" {
			c.cursor = i
		}
	}
	expectMutation(t, run(t, c.activateSelected()))
	active, _ = sess.Snapshot().ActiveCycle()
	if active.Title != "Next" {
		t.Fatalf("active = %q, want Next", active.Title)
	}

	expectMutation(t, run(t, c.deleteSelected()))
	snap = sess.Snapshot()
	if snap.ActiveCycleID != "" {
		t.Fatal("deleting the active cycle should clear the pointer")
	}
	if len(snap.Cycles) != 1 {
		t.Fatal("cycle not deleted")
	}
}

func TestJournalSubmitEachSection(t *testing.T) {
	_, sess := newTestApp(t)
	j := newJournalModel(sess)

	j.section = sectionReflections
	*j.formText = "felt stuck"
	*j.formLevel = 2
	expectMutation(t, run(t, j.submitForm()))

	j.section = sectionVisibility
	*j.formText = "posted demo"
	*j.formFear = 4
	*j.formConfidence = 2
	expectMutation(t, run(t, j.submitForm()))

	j.section = sectionEssays
	*j.formText = "On leverage"
	expectMutation(t, run(t, j.submitForm()))

	snap := sess.Snapshot()
	if len(snap.ReflectionLog) != 1 || snap.ReflectionLog[0].EmotionalState != 2 {
		t.Fatal("reflection not saved")
	}
	if snap.TotalGrowth() != -2 {
		t.Fatalf("total growth = %d, want -2", snap.TotalGrowth())
	}
	if len(snap.Essays) != 1 || snap.Essays[0].Status != state.EssayIdea {
		t.Fatal("essay not saved as idea")
	}

	j, _ = j.update(snapshotMsg{snap: snap, now: testNow})
	j.cursor = 0
	expectMutation(t, run(t, j.advanceEssay()))
	if sess.Snapshot().Essays[0].Status != state.EssayDraft {
		t.Fatal("essay should advance to draft")
	}
}

func TestJournalRejectsEmptyReflection(t *testing.T) {
	_, sess := newTestApp(t)
	j := newJournalModel(sess)
	*j.formText = "   "
	msg := run(t, j.submitForm()).(mutationMsg)
	if msg.err == nil {
		t.Fatal("blank reflection should be rejected")
	}
}

func TestSettingsSaveAndRefresh(t *testing.T) {
	st := newTestStore(t)
	s := newSettingsModel(st, 7)
	*s.strongWeekScore = "8"
	*s.chartWeeks = "6"
	*s.showCalendar = false
	*s.exportFormat = "days-csv"

	if err := s.saveSettings(); err != nil {
		t.Fatal(err)
	}
	data := run(t, s.refresh()).(settingsDataMsg)
	if data.strongWeekScore != 8 || data.chartWeeks != 6 {
		t.Fatalf("unexpected numbers: %+v", data)
	}
	if data.showCalendar || data.exportFormat != "days-csv" {
		t.Fatalf("unexpected flags: %+v", data)
	}
}

func TestSettingsDefaultStrongScore(t *testing.T) {
	st := newTestStore(t)
	s := newSettingsModel(st, 6.5)
	data := run(t, s.refresh()).(settingsDataMsg)
	if data.strongWeekScore != 6.5 {
		t.Fatalf("strong score fallback = %v", data.strongWeekScore)
	}
	if data.chartWeeks != 12 || !data.showCalendar || data.exportFormat != "json" {
		t.Fatalf("seeded defaults not read: %+v", data)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	if app.activeView != viewHome {
		t.Fatal("default view should be home")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppTabSwitching(t *testing.T) {
	app, _ := newTestApp(t)

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	app = m.(App)
	if app.activeView != viewCycles {
		t.Fatalf("activeView = %d, want cycles", app.activeView)
	}

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if app.activeView != viewJournal {
		t.Fatalf("tab should advance to journal, got %d", app.activeView)
	}

	app.activeView = viewSettings
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(App).activeView != viewHome {
		t.Fatal("tab should wrap to home")
	}
}

func TestAppBroadcastsSnapshot(t *testing.T) {
	app, sess := newTestApp(t)
	m, _ := app.Update(snapshotMsg{snap: sess.Snapshot(), now: testNow})
	app = m.(App)
	if app.snap == nil || app.home.snap == nil || app.today.snap == nil || app.cycles.snap == nil || app.journal.snap == nil || app.weeks.snap == nil {
		t.Fatal("snapshot should reach every view")
	}
}

func TestAppMutationReloads(t *testing.T) {
	app, _ := newTestApp(t)
	m, cmd := app.Update(mutationMsg{text: "Saved"})
	app = m.(App)
	if app.status != "Saved" || app.statusErr {
		t.Fatalf("status = %q err=%v", app.status, app.statusErr)
	}
	if _, ok := run(t, cmd).(snapshotMsg); !ok {
		t.Fatal("mutation should reload the snapshot")
	}

	m, _ = app.Update(mutationMsg{err: state.ErrNotFound})
	app = m.(App)
	if !app.statusErr || app.status != "Nothing selected" {
		t.Fatalf("error status = %q", app.status)
	}
}

func TestAppDayChanged(t *testing.T) {
	app, _ := newTestApp(t)
	m, cmd := app.Update(DayChangedMsg{})
	app = m.(App)
	if !strings.Contains(app.status, "New day") {
		t.Fatalf("status = %q", app.status)
	}
	if _, ok := run(t, cmd).(snapshotMsg); !ok {
		t.Fatal("day change should reload the snapshot")
	}
}

func TestAppViewStates(t *testing.T) {
	app, sess := newTestApp(t)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = m.(App)
	m, _ = app.Update(snapshotMsg{snap: sess.Snapshot(), now: testNow})
	app = m.(App)

	for v := range viewNames {
		app.activeView = viewState(v)
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _ := newTestApp(t)
	// Width 0 means not yet sized
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40
	app.status = "test status"

	if footer := app.renderFooter(); !strings.Contains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppExportPicker(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("x should open the export picker")
	}
	if !strings.Contains(app.View(), "Export") {
		t.Fatal("picker should render")
	}

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(App).exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppDoExport(t *testing.T) {
	app, _ := newTestApp(t)
	msg := run(t, app.doExport(export.FormatWeeksCSV))
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %#v", msg)
	}
	if filepath.Dir(done.path) != app.opts.ExportDir || !strings.HasSuffix(done.path, "leap-weeks-2026-05-14.csv") {
		t.Fatalf("unexpected path %s", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	if _, ok := run(t, app.doExport("xml")).(statusMsg); !ok {
		t.Fatal("unknown format should report a status error")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"identity", func() string { return identityStyle.Render("test") }},
		{"bigNumber", func() string { return bigNumberStyle.Render("test") }},
		{"dayDone", func() string { return dayDoneStyle.Render("1") }},
		{"dayToday", func() string { return dayTodayStyle.Render("1") }},
		{"day", func() string { return dayStyle.Render("1") }},
		{"dayOutside", func() string { return dayOutsideStyle.Render("1") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
