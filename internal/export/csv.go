package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/sadopc/leap/internal/state"
)

// WeeksToCSV writes completed week reviews ordered by week number.
func WeeksToCSV(weeks []state.WeekRecord, path string) error {
	sorted := slices.Clone(weeks)
	slices.SortFunc(sorted, func(a, b state.WeekRecord) int { return a.WeekNumber - b.WeekNumber })

	rows := make([][]string, 0, len(sorted))
	for _, w := range sorted {
		rows = append(rows, []string{
			strconv.Itoa(w.WeekNumber),
			w.DateRange,
			formatScore(w.Score),
			w.Outcomes,
			w.Reflection,
			formatTime(w.CompletedAt),
		})
	}
	return writeCSV(path, []string{"Week", "Dates", "Score", "Outcomes", "Reflection", "Completed"}, rows)
}

// DaysToCSV writes daily logs ordered by date.
func DaysToCSV(logs []state.DailyLog, path string) error {
	sorted := slices.Clone(logs)
	slices.SortFunc(sorted, func(a, b state.DailyLog) int {
		if a.Date < b.Date {
			return -1
		}
		if a.Date > b.Date {
			return 1
		}
		return 0
	})

	rows := make([][]string, 0, len(sorted))
	for _, d := range sorted {
		rows = append(rows, []string{
			d.Date,
			d.Priority,
			yesNo(d.PriorityComplete),
			d.MicroAction,
			yesNo(d.MicroActionComplete),
			strconv.Itoa(d.Energy),
		})
	}
	return writeCSV(path, []string{"Date", "Priority", "Priority Done", "Micro-action", "Micro-action Done", "Energy"}, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
