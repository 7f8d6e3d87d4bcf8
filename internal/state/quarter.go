package state

import "github.com/sadopc/leap/internal/calendar"

type QuarterStatus string

const (
	QuarterCurrent   QuarterStatus = "current"
	QuarterCompleted QuarterStatus = "completed"
	QuarterUpcoming  QuarterStatus = "upcoming"
)

// SetCurrentQuarter moves the identity phase. It is the only way the current
// quarter changes.
func (s *Snapshot) SetCurrentQuarter(id calendar.Quarter) error {
	if !id.Valid() {
		return invalidf("quarter", "unknown quarter %q", id)
	}
	s.CurrentQuarter = id
	return nil
}

// CurrentQuarterDef returns the template of the current quarter.
func (s *Snapshot) CurrentQuarterDef() Quarter {
	return s.Quarters[s.CurrentQuarter]
}

// QuarterStatus classifies a quarter for the roadmap. The current quarter
// wins over the stored completion flag.
func (s *Snapshot) QuarterStatus(id calendar.Quarter) QuarterStatus {
	if id == s.CurrentQuarter {
		return QuarterCurrent
	}
	if s.Quarters[id].IsComplete {
		return QuarterCompleted
	}
	return QuarterUpcoming
}
