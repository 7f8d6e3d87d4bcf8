package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/leap/internal/session"
	"github.com/sadopc/leap/internal/state"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHome viewState = iota
	viewToday
	viewWeeks
	viewCycles
	viewJournal
	viewSettings
)

var viewNames = []string{"Home", "Today", "Weeks", "Cycles", "Journal", "Settings"}

// --- Messages ---

// snapshotMsg carries a fresh copy of the session snapshot to every view.
type snapshotMsg struct {
	snap *state.Snapshot
	now  time.Time
}

// mutationMsg reports the outcome of a session.Update.
type mutationMsg struct {
	text string
	err  error
}

type statusMsg struct {
	text    string
	isError bool
}

// DayChangedMsg is sent by the rollover job after midnight reconciliation.
type DayChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Commands ---

func loadSnapshot(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snap: sess.Snapshot(), now: sess.Now()}
	}
}

// mutate runs fn through the session and reports done on success.
func mutate(sess *session.Session, done string, fn func(s *state.Snapshot, now time.Time) error) tea.Cmd {
	return func() tea.Msg {
		if err := sess.Update(fn); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{text: done}
	}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// --- Helpers ---

func errorText(err error) string {
	var verr *state.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if errors.Is(err, state.ErrNotFound) {
		return "Nothing selected"
	}
	return fmt.Sprintf("Error: %v", err)
}

// levelDots renders a 1..5 scale as filled and empty dots.
func levelDots(level int) string {
	if level < 0 {
		level = 0
	}
	if level > 5 {
		level = 5
	}
	return successStyle.Render(strings.Repeat("●", level)) + mutedStyle.Render(strings.Repeat("○", 5-level))
}

func checkbox(done bool) string {
	if done {
		return successStyle.Render("[x]")
	}
	return mutedStyle.Render("[ ]")
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return mutedStyle.Render(placeholder)
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func formatScore(score float64) string {
	if score == float64(int(score)) {
		return fmt.Sprintf("%d", int(score))
	}
	return fmt.Sprintf("%.1f", score)
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
