package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the layout of calendar date keys (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Quarter identifies one of the four fixed quarters of the year.
type Quarter string

const (
	Q1 Quarter = "q1"
	Q2 Quarter = "q2"
	Q3 Quarter = "q3"
	Q4 Quarter = "q4"
)

// Quarters lists the quarters in calendar order.
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// Valid reports whether q is one of Q1..Q4.
func (q Quarter) Valid() bool {
	switch q {
	case Q1, Q2, Q3, Q4:
		return true
	}
	return false
}

// Label returns the upper-case display label, e.g. "Q2".
func (q Quarter) Label() string {
	switch q {
	case Q1:
		return "Q1"
	case Q2:
		return "Q2"
	case Q3:
		return "Q3"
	case Q4:
		return "Q4"
	}
	return string(q)
}

// LastMonth returns the final month of the quarter.
func (q Quarter) LastMonth() time.Month {
	switch q {
	case Q1:
		return time.March
	case Q2:
		return time.June
	case Q3:
		return time.September
	}
	return time.December
}

var quarterMonths = map[Quarter]string{
	Q1: "Jan-Mar",
	Q2: "Apr-Jun",
	Q3: "Jul-Sep",
	Q4: "Oct-Dec",
}

// QuarterMonths returns the month span label for q, e.g. "Apr-Jun".
func QuarterMonths(q Quarter) string {
	return quarterMonths[q]
}

// QuarterOfMonth maps a month to its quarter. Out-of-range months wrap.
func QuarterOfMonth(m time.Month) Quarter {
	idx := (int(m) - 1) % 12
	if idx < 0 {
		idx += 12
	}
	switch {
	case idx <= 2:
		return Q1
	case idx <= 5:
		return Q2
	case idx <= 8:
		return Q3
	default:
		return Q4
	}
}

// WeekNumber returns the week-of-year used for weekly reviews:
// ceil((daysSinceJan1 + weekdayOfJan1 + 1) / 7), with Sunday as weekday 0.
// This is not ISO-8601 week numbering and must not be replaced by it.
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := t.YearDay() - 1
	n := days + int(jan1.Weekday()) + 1
	return (n + 6) / 7
}

// WeekRange returns the Monday and Sunday of the week containing t, computed
// as t - weekday + 1 with Sunday = 0. For a Sunday this yields the following
// Monday. Both results are at midnight in t's location.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	day := StartOfDay(t)
	monday = day.AddDate(0, 0, -int(day.Weekday())+1)
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// FormatRange renders a week range as "Jan 2-Jan 8".
func FormatRange(from, to time.Time) string {
	return fmt.Sprintf("%s-%s", from.Format("Jan 2"), to.Format("Jan 2"))
}

// Day is one cell of a month grid.
type Day struct {
	Date    time.Time
	InMonth bool
}

// MonthGrid returns whole Sunday-first weeks covering the given month. Cells
// outside the month are padded from the neighbouring months with InMonth false.
func MonthGrid(year int, month time.Month, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	var days []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{Date: d, InMonth: d.Month() == month})
	}
	return days
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from a to b, ignoring the
// time of day. It is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
