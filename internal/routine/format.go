package routine

import (
	"fmt"
	"strings"

	"github.com/swopnil7/The-OG/internal/store"
)

const periodsPerDay = 4

// FormatDay renders one day's schedule as a period-per-line table.
func FormatDay(day, schedule string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s Routine:**\n", capitalize(day)))
	for i, subject := range strings.Split(schedule, ", ") {
		sb.WriteString(fmt.Sprintf("**Period %d:** %s\n", i+1, subject))
	}
	return sb.String()
}

// FormatWeek renders the whole routine as a code block, one day after
// another with four periods each. Cells holding a "/"-separated A/B
// pair are expanded onto separate lines.
func FormatWeek(routine store.Routine) string {
	var lines []string
	for _, day := range Days {
		periods := splitPeriods(routine[day])
		lines = append(lines, capitalize(day)+":")
		for i, subject := range periods {
			groups := subgroups(subject)
			if len(groups) > 0 {
				lines = append(lines, fmt.Sprintf("  Period %d: %s", i+1, groups[0]))
				for _, g := range groups[1:] {
					lines = append(lines, "      "+g)
				}
			} else {
				lines = append(lines, fmt.Sprintf("  Period %d: ", i+1))
			}
			if i < periodsPerDay-1 {
				lines = append(lines, "  --------")
			}
		}
		lines = append(lines, "")
	}
	return "```" + strings.TrimSpace(strings.Join(lines, "\n")) + "```"
}

// splitPeriods breaks a schedule string into exactly four period cells,
// padding with empty cells when the schedule is short.
func splitPeriods(schedule string) []string {
	periods := strings.Split(schedule, ", ")
	for len(periods) < periodsPerDay {
		periods = append(periods, "")
	}
	return periods[:periodsPerDay]
}

// subgroups splits a period cell on "/" into its A/B sub-group parts,
// dropping blanks.
func subgroups(cell string) []string {
	var groups []string
	for _, part := range strings.Split(cell, "/") {
		if p := strings.TrimSpace(part); p != "" {
			groups = append(groups, p)
		}
	}
	return groups
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
