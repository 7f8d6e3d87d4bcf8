package state

import (
	"strings"
	"time"

	"github.com/sadopc/leap/internal/calendar"
)

func (s *Snapshot) SetDailyPriority(text string) {
	s.DailyPriority = strings.TrimSpace(text)
}

func (s *Snapshot) SetMicroAction(text string) {
	s.VisibilityMicroAction = strings.TrimSpace(text)
}

func (s *Snapshot) SetDailyAnchor(text string) {
	s.DailyAnchor = strings.TrimSpace(text)
}

func (s *Snapshot) SetPriorityComplete(done bool)    { s.PriorityComplete = done }
func (s *Snapshot) SetMicroActionComplete(done bool) { s.MicroActionComplete = done }
func (s *Snapshot) SetPracticeComplete(done bool)    { s.PracticeComplete = done }

func (s *Snapshot) SetEnergy(level int) error {
	if err := checkLevel("energy", level); err != nil {
		return err
	}
	s.CurrentEnergy = level
	return nil
}

func (s *Snapshot) SetEmotionalState(level int) error {
	if err := checkLevel("emotionalState", level); err != nil {
		return err
	}
	s.EmotionalState = level
	return nil
}

// CompleteDay marks today complete and upserts the daily log for the date of
// now. The log holds copies of today's priority, micro-action and energy.
func (s *Snapshot) CompleteDay(now time.Time) DailyLog {
	s.CompletedToday = true
	log := DailyLog{
		Date:                calendar.DateKey(now),
		Completed:           true,
		Priority:            s.DailyPriority,
		MicroAction:         s.VisibilityMicroAction,
		Energy:              s.CurrentEnergy,
		PriorityComplete:    s.PriorityComplete,
		MicroActionComplete: s.MicroActionComplete,
	}
	s.DailyLogs = upsert(s.DailyLogs, dailyKey, log)
	s.RecoveryStreak = s.DayStreak(now)
	return log
}

// DailyLog returns the log for a YYYY-MM-DD date.
func (s *Snapshot) DailyLog(date string) (DailyLog, bool) {
	return findBy(s.DailyLogs, dailyKey, date)
}

// DayStreak counts consecutive completed days ending at the date of now. If
// today is not yet complete the count starts from yesterday.
func (s *Snapshot) DayStreak(now time.Time) int {
	done := make(map[string]bool, len(s.DailyLogs))
	for _, l := range s.DailyLogs {
		if l.Completed {
			done[l.Date] = true
		}
	}

	day := calendar.StartOfDay(now)
	if !done[calendar.DateKey(day)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for done[calendar.DateKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func checkLevel(field string, level int) error {
	if level < 1 || level > 5 {
		return invalidf(field, "must be between 1 and 5, got %d", level)
	}
	return nil
}
