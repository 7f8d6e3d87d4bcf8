package sprint

import (
	"math"
	"time"

	"github.com/sadopc/leap/internal/calendar"
)

const (
	// Weeks is the fixed number of weeks in a sprint.
	Weeks = 12
	// Days is the fixed sprint length.
	Days = Weeks * 7
)

// Progress describes where "now" falls inside a sprint.
type Progress struct {
	Start       time.Time
	End         time.Time
	DaysElapsed int
	Percent     int // 0..100
	Week        int // 1..12
}

// Compute derives sprint progress from the start date and now. Days are
// counted as whole calendar days; results saturate at both ends.
func Compute(start, now time.Time) Progress {
	start = calendar.StartOfDay(start)
	days := calendar.DaysBetween(start, now)
	if days < 0 {
		days = 0
	}

	percent := int(math.Round(100 * float64(days) / Days))
	if percent > 100 {
		percent = 100
	}

	week := (days + 6) / 7
	if week < 1 {
		week = 1
	}
	if week > Weeks {
		week = Weeks
	}

	return Progress{
		Start:       start,
		End:         start.AddDate(0, 0, Days),
		DaysElapsed: days,
		Percent:     percent,
		Week:        week,
	}
}

// Remaining returns the whole days left until the sprint ends, never negative.
func (p Progress) Remaining() int {
	r := Days - p.DaysElapsed
	if r < 0 {
		return 0
	}
	return r
}

// Done reports whether the sprint has run its full length.
func (p Progress) Done() bool {
	return p.Percent >= 100
}

// Fraction returns Percent as a value in [0, 1], suitable for progress bars.
func (p Progress) Fraction() float64 {
	return float64(p.Percent) / 100
}
