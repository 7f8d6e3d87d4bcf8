package state

import (
	"slices"
	"strings"
	"time"
)

// AddReflection appends a recovery reflection. An emotionalState of 0 uses
// the snapshot's current emotional state.
func (s *Snapshot) AddReflection(notes string, emotionalState int, now time.Time) (ReflectionEntry, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return ReflectionEntry{}, invalidf("notes", "write something first")
	}
	if emotionalState == 0 {
		emotionalState = s.EmotionalState
	}
	if err := checkLevel("emotionalState", emotionalState); err != nil {
		return ReflectionEntry{}, err
	}

	id, err := s.nextID(func(id string) bool {
		_, ok := findBy(s.ReflectionLog, reflectionKey, id)
		return ok
	})
	if err != nil {
		return ReflectionEntry{}, err
	}

	r := ReflectionEntry{ID: id, Notes: notes, EmotionalState: emotionalState, Date: now}
	s.ReflectionLog = append(s.ReflectionLog, r)
	return r, nil
}

func (s *Snapshot) DeleteReflection(id string) bool {
	var found bool
	s.ReflectionLog, found = removeBy(s.ReflectionLog, reflectionKey, id)
	return found
}

func (s *Snapshot) Reflection(id string) (ReflectionEntry, bool) {
	return findBy(s.ReflectionLog, reflectionKey, id)
}

// Reflections returns the log newest first.
func (s *Snapshot) Reflections() []ReflectionEntry {
	out := slices.Clone(s.ReflectionLog)
	slices.SortStableFunc(out, func(a, b ReflectionEntry) int { return b.Date.Compare(a.Date) })
	return out
}

// VisibilityInput carries the fields of a new visibility action.
type VisibilityInput struct {
	Name            string
	FearBefore      int
	ConfidenceAfter int
	Outcome         string
}

// AddVisibilityAction appends an action; Growth is computed once here and
// never recomputed.
func (s *Snapshot) AddVisibilityAction(in VisibilityInput, now time.Time) (VisibilityAction, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return VisibilityAction{}, invalidf("name", "enter the visibility action")
	}
	if err := checkLevel("fearBefore", in.FearBefore); err != nil {
		return VisibilityAction{}, err
	}
	if err := checkLevel("confidenceAfter", in.ConfidenceAfter); err != nil {
		return VisibilityAction{}, err
	}

	id, err := s.nextID(func(id string) bool {
		_, ok := findBy(s.VisibilityActions, visibilityKey, id)
		return ok
	})
	if err != nil {
		return VisibilityAction{}, err
	}

	a := VisibilityAction{
		ID:              id,
		Name:            name,
		FearBefore:      in.FearBefore,
		ConfidenceAfter: in.ConfidenceAfter,
		Outcome:         strings.TrimSpace(in.Outcome),
		Date:            now,
		Growth:          in.ConfidenceAfter - in.FearBefore,
	}
	s.VisibilityActions = append(s.VisibilityActions, a)
	return a, nil
}

func (s *Snapshot) DeleteVisibilityAction(id string) bool {
	var found bool
	s.VisibilityActions, found = removeBy(s.VisibilityActions, visibilityKey, id)
	return found
}

func (s *Snapshot) VisibilityAction(id string) (VisibilityAction, bool) {
	return findBy(s.VisibilityActions, visibilityKey, id)
}

// VisibilityLog returns the actions newest first.
func (s *Snapshot) VisibilityLog() []VisibilityAction {
	out := slices.Clone(s.VisibilityActions)
	slices.SortStableFunc(out, func(a, b VisibilityAction) int { return b.Date.Compare(a.Date) })
	return out
}

// TotalGrowth sums the stored growth of every action.
func (s *Snapshot) TotalGrowth() int {
	total := 0
	for _, a := range s.VisibilityActions {
		total += a.Growth
	}
	return total
}

func (s *Snapshot) AddEssay(title string, status EssayStatus, now time.Time) (Essay, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Essay{}, invalidf("title", "essay title is required")
	}
	if status == "" {
		status = EssayIdea
	}
	if !status.valid() {
		return Essay{}, invalidf("status", "unknown essay status %q", status)
	}

	id, err := s.nextID(func(id string) bool {
		_, ok := findBy(s.Essays, essayKey, id)
		return ok
	})
	if err != nil {
		return Essay{}, err
	}

	e := Essay{ID: id, Title: title, Status: status, Date: now}
	s.Essays = append(s.Essays, e)
	return e, nil
}

func (s *Snapshot) SetEssayStatus(id string, status EssayStatus) error {
	if !status.valid() {
		return invalidf("status", "unknown essay status %q", status)
	}
	for i := range s.Essays {
		if s.Essays[i].ID == id {
			s.Essays[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *Snapshot) DeleteEssay(id string) bool {
	var found bool
	s.Essays, found = removeBy(s.Essays, essayKey, id)
	return found
}
