package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sadopc/leap/internal/calendar"
)

var may = time.Date(2026, time.May, 14, 10, 0, 0, 0, time.UTC)

// newTestSnapshot returns a default snapshot with deterministic ids.
func newTestSnapshot(t *testing.T, now time.Time) *Snapshot {
	t.Helper()
	s := Default(now)
	n := 0
	s.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

// ============================================================
// Default snapshot
// ============================================================

func TestDefaultInMay(t *testing.T) {
	s := Default(may)
	if s.CurrentQuarter != calendar.Q2 {
		t.Fatalf("currentQuarter = %s, want q2", s.CurrentQuarter)
	}
	if !s.Quarters[calendar.Q1].IsComplete {
		t.Fatal("q1 should be complete in May")
	}
	if s.Quarters[calendar.Q2].IsComplete {
		t.Fatal("q2 should not be complete in May")
	}
	if s.Quarters[calendar.Q4].IsComplete {
		t.Fatal("q4 should never be complete by default")
	}
	if s.Year != 2026 || s.TodayDate != "2026-05-14" {
		t.Fatalf("unexpected year/today: %d %s", s.Year, s.TodayDate)
	}
	if s.CurrentEnergy != 3 || s.EmotionalState != 3 {
		t.Fatal("default levels should be 3")
	}
	if len(s.Quarters) != 4 {
		t.Fatalf("expected 4 quarters, got %d", len(s.Quarters))
	}
	if s.Weeks == nil || s.Cycles == nil {
		t.Fatal("collections should be non-nil")
	}
}

func TestDefaultInDecember(t *testing.T) {
	s := Default(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC))
	if s.CurrentQuarter != calendar.Q4 {
		t.Fatalf("currentQuarter = %s", s.CurrentQuarter)
	}
	for _, id := range []calendar.Quarter{calendar.Q1, calendar.Q2, calendar.Q3} {
		if !s.Quarters[id].IsComplete {
			t.Fatalf("%s should be complete in December", id)
		}
	}
}

func TestDefaultTemplatesAreIndependent(t *testing.T) {
	a := Default(may)
	b := Default(may)
	a.Quarters[calendar.Q1].NewBehaviors[0] = "changed"
	if b.Quarters[calendar.Q1].NewBehaviors[0] == "changed" {
		t.Fatal("default snapshots should not share behaviour slices")
	}
}

// ============================================================
// Decode / Encode
// ============================================================

func TestEncodeDecodeKeepsFieldNames(t *testing.T) {
	s := newTestSnapshot(t, may)
	s.SetWeekOutcomes("ship essay")
	data, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"currentQuarter":"q2"`, `"todayDate":"2026-05-14"`, `"weekOutcomes":"ship essay"`, `"quarters"`, `"identityStatement"`} {
		if !containsString(string(data), field) {
			t.Fatalf("encoded snapshot missing %s", field)
		}
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.WeekOutcomes != "ship essay" || got.CurrentQuarter != calendar.Q2 {
		t.Fatalf("decode lost data: %+v", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not json", "{nope"},
		{"wrong type", `{"year":"2026"}`},
		{"missing quarters", `{"year":2026,"currentQuarter":"q1","quarters":{}}`},
		{"bad quarter", `{"year":2026,"currentQuarter":"q9","quarters":{"q1":{},"q2":{},"q3":{},"q4":{}}}`},
		{"bad today", `{"year":2026,"currentQuarter":"q1","todayDate":"yesterday","quarters":{"q1":{},"q2":{},"q3":{},"q4":{}}}`},
	}
	for _, tt := range tests {
		_, err := Decode([]byte(tt.data))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", tt.name, err)
		}
	}
}

func TestDecodeRejectsDuplicateKeys(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"week number", func(s *Snapshot) {
			s.Weeks = []WeekRecord{{WeekNumber: 10, Score: 6}, {WeekNumber: 10, Score: 8}}
		}},
		{"daily date", func(s *Snapshot) {
			s.DailyLogs = []DailyLog{{Date: "2026-05-10", Completed: true}, {Date: "2026-05-10"}}
		}},
		{"cycle id", func(s *Snapshot) {
			s.Cycles = []Cycle{{ID: "a", Title: "A", StartDate: "2026-05-01"}, {ID: "a", Title: "B", StartDate: "2026-05-01"}}
			s.ActiveCycleID = "a"
		}},
		{"reflection id", func(s *Snapshot) {
			s.ReflectionLog = []ReflectionEntry{{ID: "r", Notes: "x"}, {ID: "r", Notes: "y"}}
		}},
		{"visibility id", func(s *Snapshot) {
			s.VisibilityActions = []VisibilityAction{{ID: "v", Name: "x"}, {ID: "v", Name: "y"}}
		}},
		{"essay id", func(s *Snapshot) {
			s.Essays = []Essay{{ID: "e", Title: "x"}, {ID: "e", Title: "y"}}
		}},
		{"week score", func(s *Snapshot) { s.WeekScore = 42 }},
		{"negative week score", func(s *Snapshot) { s.WeekScore = -1 }},
	}
	for _, tt := range tests {
		s := Default(may)
		tt.mutate(s)
		data, err := s.Encode()
		if err != nil {
			t.Fatalf("%s: encode: %v", tt.name, err)
		}
		if _, err := Decode(data); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", tt.name, err)
		}
	}
}

func TestDecodeKeepsDistinctKeys(t *testing.T) {
	s := Default(may)
	s.Weeks = []WeekRecord{{WeekNumber: 9, Score: 6}, {WeekNumber: 10, Score: 8}}
	s.Cycles = []Cycle{{ID: "a", Title: "A", StartDate: "2026-05-01"}, {ID: "b", Title: "B", StartDate: "2026-05-01"}}
	s.ActiveCycleID = "a"
	s.WeekScore = 10
	data, _ := s.Encode()
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	active := 0
	for _, c := range got.Cycles {
		if c.Status == CycleActive {
			active++
		}
	}
	if active != 1 || len(got.Weeks) != 2 || got.WeekScore != 10 {
		t.Fatalf("active=%d weeks=%d score=%v", active, len(got.Weeks), got.WeekScore)
	}
}

func TestDecodeRepairsActivePointer(t *testing.T) {
	data := `{"year":2026,"currentQuarter":"q1","activeCycleId":"gone",
		"quarters":{"q1":{},"q2":{},"q3":{},"q4":{}},
		"cycles":[{"id":"a","title":"A","startDate":"2026-01-01","status":"active"},
		          {"id":"b","title":"B","startDate":"2026-01-01","status":"active"}]}`
	s, err := Decode([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if s.ActiveCycleID != "" {
		t.Fatalf("dangling active id should be cleared, got %q", s.ActiveCycleID)
	}
	for _, c := range s.Cycles {
		if c.Status != CyclePlanned {
			t.Fatalf("cycle %s should be planned", c.ID)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := newTestSnapshot(t, may)
	s.AddCycle(CycleInput{Title: "A"}, may)
	c := s.Clone()
	c.Cycles[0].Title = "changed"
	c.Quarters[calendar.Q1] = Quarter{Name: "x"}
	if s.Cycles[0].Title != "A" {
		t.Fatal("clone shares cycles")
	}
	if s.Quarters[calendar.Q1].Name != "Q1" {
		t.Fatal("clone shares quarters")
	}
}

// ============================================================
// Reconciliation
// ============================================================

func TestReconcileNewDayResetsDayFields(t *testing.T) {
	s := newTestSnapshot(t, may)
	s.TodayDate = "2026-05-13"
	s.CompletedToday = true
	s.PriorityComplete = true
	s.MicroActionComplete = true
	s.PracticeComplete = true
	s.SetWeekScore(8)
	s.SetWeekOutcomes("outcomes")

	if !s.Reconcile("2026-05-14") {
		t.Fatal("reconcile should report a change")
	}
	if s.CompletedToday || s.PriorityComplete || s.MicroActionComplete || s.PracticeComplete {
		t.Fatal("day flags should be reset")
	}
	if s.TodayDate != "2026-05-14" {
		t.Fatalf("todayDate = %s", s.TodayDate)
	}
	if s.WeekScore != 8 || s.WeekOutcomes != "outcomes" {
		t.Fatal("week fields must not be touched")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	s := newTestSnapshot(t, may)
	s.TodayDate = "2026-05-10"
	s.Reconcile("2026-05-14")
	s.CompletedToday = true
	before := *s
	if s.Reconcile("2026-05-14") {
		t.Fatal("second reconcile should be a no-op")
	}
	if s.CompletedToday != before.CompletedToday || s.TodayDate != before.TodayDate {
		t.Fatal("second reconcile changed state")
	}
}

func TestReconcileNeverAdvancesQuarter(t *testing.T) {
	s := newTestSnapshot(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC))
	s.Reconcile("2026-04-01")
	if s.CurrentQuarter != calendar.Q1 {
		t.Fatalf("quarter advanced to %s", s.CurrentQuarter)
	}
	if s.Quarters[calendar.Q1].IsComplete {
		t.Fatal("isComplete should not be recomputed on reconcile")
	}
}

// ============================================================
// Quarters
// ============================================================

func TestSetCurrentQuarter(t *testing.T) {
	s := newTestSnapshot(t, may)
	if err := s.SetCurrentQuarter(calendar.Q3); err != nil {
		t.Fatal(err)
	}
	if s.CurrentQuarterDef().Archetype != "The Sovereign" {
		t.Fatalf("current archetype = %s", s.CurrentQuarterDef().Archetype)
	}
	err := s.SetCurrentQuarter("q7")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if s.CurrentQuarter != calendar.Q3 {
		t.Fatal("rejected mutation changed state")
	}
}

func TestQuarterStatus(t *testing.T) {
	s := newTestSnapshot(t, may)
	if s.QuarterStatus(calendar.Q1) != QuarterCompleted {
		t.Fatal("q1 should be completed")
	}
	if s.QuarterStatus(calendar.Q2) != QuarterCurrent {
		t.Fatal("q2 should be current")
	}
	if s.QuarterStatus(calendar.Q3) != QuarterUpcoming {
		t.Fatal("q3 should be upcoming")
	}
	s.SetCurrentQuarter(calendar.Q1)
	if s.QuarterStatus(calendar.Q1) != QuarterCurrent {
		t.Fatal("current should win over completed")
	}
}

// containsString avoids pulling strings into every assertion.
func containsString(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
