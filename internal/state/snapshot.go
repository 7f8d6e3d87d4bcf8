package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/sadopc/leap/internal/calendar"
)

const (
	defaultEnergy         = 3
	defaultEmotionalState = 3
)

// quarterTemplates are the fixed identity templates, in calendar order.
var quarterTemplates = map[calendar.Quarter]Quarter{
	calendar.Q1: {
		Name:              "Q1",
		Archetype:         "The Authority",
		IdentityStatement: "I am the authority who leads with clarity and conviction. I build foundations that others trust.",
		Constraint:        "Fear of being seen as an imposter",
		NewBehaviors:      []string{"Share expertise publicly", "Say no to misaligned opportunities", "Lead with confidence"},
		VisibilityTheme:   "Establishing foundational authority",
	},
	calendar.Q2: {
		Name:              "Q2",
		Archetype:         "The Strategist",
		IdentityStatement: "I am the architect of scalable authority. I build systems that compound visibility without depleting energy.",
		Constraint:        "Perfectionism that delays publishing",
		NewBehaviors:      []string{"Ship weekly, refine later", "Voice over polish", "Visibility = generosity"},
		VisibilityTheme:   "Thought leadership through authoritative essays",
	},
	calendar.Q3: {
		Name:              "Q3",
		Archetype:         "The Sovereign",
		IdentityStatement: "I am the sovereign who claims my space unapologetically. I lead from wholeness, not hustle.",
		Constraint:        "Burnout from overextension",
		NewBehaviors:      []string{"Rest as power move", "Delegate with trust", "Protect energy boundaries"},
		VisibilityTheme:   "Sustainable leadership presence",
	},
	calendar.Q4: {
		Name:              "Q4",
		Archetype:         "The Majesty",
		IdentityStatement: "I am the majesty who embodies mastery. I celebrate growth and claim my evolution.",
		Constraint:        "Dismissing progress and achievements",
		NewBehaviors:      []string{"Celebrate wins publicly", "Reflect without judgment", "Integrate lessons"},
		VisibilityTheme:   "Reflective authority and integration",
	},
}

// Default builds a fresh snapshot for the date of now. Quarters whose last
// month has already passed are marked complete.
func Default(now time.Time) *Snapshot {
	quarters := make(map[calendar.Quarter]Quarter, len(calendar.Quarters))
	for _, id := range calendar.Quarters {
		q := quarterTemplates[id]
		q.NewBehaviors = slices.Clone(q.NewBehaviors)
		q.IsComplete = now.Month() > id.LastMonth()
		quarters[id] = q
	}

	s := &Snapshot{
		Year:           now.Year(),
		CurrentQuarter: calendar.QuarterOfMonth(now.Month()),
		Quarters:       quarters,
		TodayDate:      calendar.DateKey(now),
		CurrentEnergy:  defaultEnergy,
		EmotionalState: defaultEmotionalState,
	}
	s.normalize()
	return s
}

// Decode parses a persisted snapshot. Unparsable or schema-mismatched input
// returns an error wrapping ErrMalformed.
func Decode(data []byte) (*Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformedf("empty")
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	s.normalize()
	return &s, nil
}

// Encode serialises the snapshot for persistence.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func (s *Snapshot) check() error {
	if s.Year <= 0 {
		return malformedf("missing year")
	}
	if !s.CurrentQuarter.Valid() {
		return malformedf("unknown current quarter %q", s.CurrentQuarter)
	}
	if len(s.Quarters) != len(calendar.Quarters) {
		return malformedf("expected %d quarters, got %d", len(calendar.Quarters), len(s.Quarters))
	}
	for _, id := range calendar.Quarters {
		if _, ok := s.Quarters[id]; !ok {
			return malformedf("missing quarter %s", id)
		}
	}
	if s.TodayDate != "" {
		if _, err := calendar.ParseDate(s.TodayDate, time.UTC); err != nil {
			return malformedf("bad todayDate %q", s.TodayDate)
		}
	}
	if math.IsNaN(s.WeekScore) || s.WeekScore < 0 || s.WeekScore > 10 {
		return malformedf("weekScore %v out of range", s.WeekScore)
	}
	if k, dup := firstDuplicate(s.Weeks, weekKey); dup {
		return malformedf("duplicate week %d", k)
	}
	if k, dup := firstDuplicate(s.DailyLogs, dailyKey); dup {
		return malformedf("duplicate daily log %s", k)
	}
	if k, dup := firstDuplicate(s.Cycles, cycleKey); dup {
		return malformedf("duplicate cycle id %q", k)
	}
	if k, dup := firstDuplicate(s.ReflectionLog, reflectionKey); dup {
		return malformedf("duplicate reflection id %q", k)
	}
	if k, dup := firstDuplicate(s.VisibilityActions, visibilityKey); dup {
		return malformedf("duplicate visibility action id %q", k)
	}
	if k, dup := firstDuplicate(s.Essays, essayKey); dup {
		return malformedf("duplicate essay id %q", k)
	}
	return nil
}

// normalize fills nil collections, clamps scales, and re-derives cycle
// statuses from ActiveCycleID.
func (s *Snapshot) normalize() {
	if s.Weeks == nil {
		s.Weeks = []WeekRecord{}
	}
	if s.DailyLogs == nil {
		s.DailyLogs = []DailyLog{}
	}
	if s.ReflectionLog == nil {
		s.ReflectionLog = []ReflectionEntry{}
	}
	if s.VisibilityActions == nil {
		s.VisibilityActions = []VisibilityAction{}
	}
	if s.Cycles == nil {
		s.Cycles = []Cycle{}
	}
	if s.Essays == nil {
		s.Essays = []Essay{}
	}
	if s.CurrentEnergy < 1 || s.CurrentEnergy > 5 {
		s.CurrentEnergy = defaultEnergy
	}
	if s.EmotionalState < 1 || s.EmotionalState > 5 {
		s.EmotionalState = defaultEmotionalState
	}

	if _, ok := findBy(s.Cycles, cycleKey, s.ActiveCycleID); !ok {
		s.ActiveCycleID = ""
	}
	s.assignActive(s.ActiveCycleID)
}

// Clone returns a deep copy that shares no slices or maps with s.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Quarters = make(map[calendar.Quarter]Quarter, len(s.Quarters))
	for id, q := range s.Quarters {
		q.NewBehaviors = slices.Clone(q.NewBehaviors)
		c.Quarters[id] = q
	}
	c.Weeks = slices.Clone(s.Weeks)
	c.DailyLogs = slices.Clone(s.DailyLogs)
	c.ReflectionLog = slices.Clone(s.ReflectionLog)
	c.VisibilityActions = slices.Clone(s.VisibilityActions)
	c.Cycles = slices.Clone(s.Cycles)
	c.Essays = slices.Clone(s.Essays)
	return &c
}

// Reconcile applies the day transition for today (YYYY-MM-DD). When the
// stored day differs, day-scoped flags are reset. Week-scoped fields and the
// current quarter are never touched here. It reports whether anything changed.
func (s *Snapshot) Reconcile(today string) bool {
	if s.TodayDate == today {
		return false
	}
	s.TodayDate = today
	s.CompletedToday = false
	s.PriorityComplete = false
	s.MicroActionComplete = false
	s.PracticeComplete = false
	return true
}
