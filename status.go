package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/leap/internal/state"
)

func printStatus(cmd *cobra.Command, snap *state.Snapshot, now time.Time, strongScore float64) {
	out := cmd.OutOrStdout()

	q := snap.CurrentQuarterDef()
	fmt.Fprintf(out, "%s · %s\n", q.Name, q.Archetype)
	fmt.Fprintf(out, "  %s\n\n", q.IdentityStatement)

	if c, ok := snap.ActiveCycle(); ok {
		if p, ok := snap.ActiveProgress(now); ok {
			fmt.Fprintf(out, "Sprint:   %s (week %d of 12, %d%%)\n", c.Title, p.Week, p.Percent)
		}
	} else {
		fmt.Fprintln(out, "Sprint:   none active")
	}

	fmt.Fprintf(out, "Today:    %s\n", snap.TodayDate)
	fmt.Fprintf(out, "  %s priority      %s\n", mark(snap.PriorityComplete), orDash(snap.DailyPriority))
	fmt.Fprintf(out, "  %s micro-action  %s\n", mark(snap.MicroActionComplete), orDash(snap.VisibilityMicroAction))
	fmt.Fprintf(out, "  %s practice      %s\n", mark(snap.PracticeComplete), orDash(snap.DailyAnchor))
	fmt.Fprintf(out, "  energy %d/5, complete: %v\n", snap.CurrentEnergy, snap.CompletedToday)

	streak := snap.DayStreak(now)
	fmt.Fprintf(out, "Streak:   %d day%s\n", streak, plural(streak))
	fmt.Fprintf(out, "Week:     score %s, %d strong week%s filed\n",
		formatScore(snap.WeekScore), snap.StrongWeeks(strongScore), plural(snap.StrongWeeks(strongScore)))
}

func mark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func formatScore(score float64) string {
	if score == float64(int(score)) {
		return fmt.Sprintf("%d", int(score))
	}
	return fmt.Sprintf("%.1f", score)
}
