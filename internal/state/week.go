package state

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/sadopc/leap/internal/calendar"
)

func (s *Snapshot) SetWeekOutcomes(text string) {
	s.WeekOutcomes = strings.TrimSpace(text)
}

func (s *Snapshot) SetWeekScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 10 {
		return invalidf("weekScore", "must be between 0 and 10, got %v", score)
	}
	s.WeekScore = score
	return nil
}

func (s *Snapshot) SetWeekReflection(text string) {
	s.WeekReflection = strings.TrimSpace(text)
}

// CompleteWeek files the in-progress review under the week number of now,
// replacing any earlier record for that week, then clears the week fields.
func (s *Snapshot) CompleteWeek(now time.Time) (WeekRecord, error) {
	if s.WeekOutcomes == "" {
		return WeekRecord{}, invalidf("weekOutcomes", "set outcomes before completing the week")
	}
	if s.WeekScore == 0 {
		return WeekRecord{}, invalidf("weekScore", "score the week before completing it")
	}

	mon, sun := calendar.WeekRange(now)
	rec := WeekRecord{
		WeekNumber:  calendar.WeekNumber(now),
		DateRange:   calendar.FormatRange(mon, sun),
		Outcomes:    s.WeekOutcomes,
		Score:       s.WeekScore,
		Reflection:  s.WeekReflection,
		CompletedAt: now,
	}
	s.Weeks = upsert(s.Weeks, weekKey, rec)

	s.WeekOutcomes = ""
	s.WeekScore = 0
	s.WeekReflection = ""
	return rec, nil
}

// Week returns the record for a week number.
func (s *Snapshot) Week(n int) (WeekRecord, bool) {
	return findBy(s.Weeks, weekKey, n)
}

// PastWeeks returns completed weeks, highest week number first.
func (s *Snapshot) PastWeeks() []WeekRecord {
	out := slices.Clone(s.Weeks)
	slices.SortFunc(out, func(a, b WeekRecord) int { return b.WeekNumber - a.WeekNumber })
	return out
}

// StrongWeeks counts completed weeks scoring at least threshold.
func (s *Snapshot) StrongWeeks(threshold float64) int {
	n := 0
	for _, w := range s.Weeks {
		if w.Score >= threshold {
			n++
		}
	}
	return n
}
