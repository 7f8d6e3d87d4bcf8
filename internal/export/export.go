// Package export writes the tracker data to portable files.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/sadopc/leap/internal/state"
)

const (
	FormatJSON     = "json"
	FormatWeeksCSV = "weeks-csv"
	FormatDaysCSV  = "days-csv"
)

// Formats lists every supported format name.
var Formats = []string{FormatJSON, FormatWeeksCSV, FormatDaysCSV}

// FileName returns the dated file name used for format.
func FileName(format, date string) (string, error) {
	switch format {
	case FormatJSON:
		return fmt.Sprintf("leap-export-%s.json", date), nil
	case FormatWeeksCSV:
		return fmt.Sprintf("leap-weeks-%s.csv", date), nil
	case FormatDaysCSV:
		return fmt.Sprintf("leap-days-%s.csv", date), nil
	}
	return "", fmt.Errorf("unknown export format %q", format)
}

// Write exports snap in format to a dated file in dir and returns its path.
func Write(snap *state.Snapshot, slot, format, dir, date string) (string, error) {
	name, err := FileName(format, date)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)

	switch format {
	case FormatJSON:
		err = ToJSON(snap, slot, path)
	case FormatWeeksCSV:
		err = WeeksToCSV(snap.Weeks, path)
	case FormatDaysCSV:
		err = DaysToCSV(snap.DailyLogs, path)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
