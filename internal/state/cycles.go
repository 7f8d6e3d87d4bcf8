package state

import (
	"strings"
	"time"

	"github.com/sadopc/leap/internal/calendar"
	"github.com/sadopc/leap/internal/sprint"
)

// CycleInput carries the fields of a new sprint.
type CycleInput struct {
	Title     string
	Objective string
	Metrics   string
	StartDate string // YYYY-MM-DD; empty means the date of now
	SetActive bool
}

// AddCycle appends a planned sprint, activating it when requested.
func (s *Snapshot) AddCycle(in CycleInput, now time.Time) (Cycle, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Cycle{}, invalidf("title", "sprint title is required")
	}
	start := strings.TrimSpace(in.StartDate)
	if start == "" {
		start = calendar.DateKey(now)
	} else if _, err := calendar.ParseDate(start, now.Location()); err != nil {
		return Cycle{}, invalidf("startDate", "expected YYYY-MM-DD, got %q", in.StartDate)
	}

	id, err := s.nextID(func(id string) bool {
		_, ok := findBy(s.Cycles, cycleKey, id)
		return ok
	})
	if err != nil {
		return Cycle{}, err
	}

	c := Cycle{
		ID:        id,
		Title:     title,
		Objective: strings.TrimSpace(in.Objective),
		Metrics:   strings.TrimSpace(in.Metrics),
		StartDate: start,
		Status:    CyclePlanned,
		Quarter:   s.CurrentQuarter.Label(),
		CreatedAt: now,
	}
	s.Cycles = append(s.Cycles, c)

	if in.SetActive {
		s.assignActive(c.ID)
		c.Status = CycleActive
	}
	return c, nil
}

// SetActiveCycle points the active sprint at id and reassigns every cycle's
// status, so at most one is ever active.
func (s *Snapshot) SetActiveCycle(id string) error {
	if _, ok := findBy(s.Cycles, cycleKey, id); !ok {
		return ErrNotFound
	}
	s.assignActive(id)
	return nil
}

func (s *Snapshot) assignActive(id string) {
	s.ActiveCycleID = id
	for i := range s.Cycles {
		if id != "" && s.Cycles[i].ID == id {
			s.Cycles[i].Status = CycleActive
		} else {
			s.Cycles[i].Status = CyclePlanned
		}
	}
}

// DeleteCycle removes a sprint. Deleting the active one leaves no sprint
// active; no other cycle is promoted.
func (s *Snapshot) DeleteCycle(id string) bool {
	var found bool
	s.Cycles, found = removeBy(s.Cycles, cycleKey, id)
	if found && s.ActiveCycleID == id {
		s.ActiveCycleID = ""
	}
	return found
}

func (s *Snapshot) Cycle(id string) (Cycle, bool) {
	return findBy(s.Cycles, cycleKey, id)
}

func (s *Snapshot) ActiveCycle() (Cycle, bool) {
	if s.ActiveCycleID == "" {
		return Cycle{}, false
	}
	return findBy(s.Cycles, cycleKey, s.ActiveCycleID)
}

// CycleProgress computes progress for any cycle.
func CycleProgress(c Cycle, now time.Time) (sprint.Progress, error) {
	start, err := calendar.ParseDate(c.StartDate, now.Location())
	if err != nil {
		return sprint.Progress{}, err
	}
	return sprint.Compute(start, now), nil
}

// ActiveProgress computes progress for the active sprint, if any.
func (s *Snapshot) ActiveProgress(now time.Time) (sprint.Progress, bool) {
	c, ok := s.ActiveCycle()
	if !ok {
		return sprint.Progress{}, false
	}
	p, err := CycleProgress(c, now)
	if err != nil {
		return sprint.Progress{}, false
	}
	return p, true
}

// RefreshSprintProgress updates the cached sprintProgress counter.
func (s *Snapshot) RefreshSprintProgress(now time.Time) {
	if p, ok := s.ActiveProgress(now); ok {
		s.SprintProgress = p.Percent
		return
	}
	s.SprintProgress = 0
}
