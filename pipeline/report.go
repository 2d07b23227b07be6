package pipeline

import (
	"fmt"
	"strings"

	"hotmart-price-sync/models"
)

// FormatSummary renders the final tally of a run for the terminal.
func FormatSummary(report models.BatchReport) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("┌──────────────────────────────────────────────┐\n")
	b.WriteString("│               PRICE SYNC COMPLETE            │\n")
	b.WriteString("├───────────────────────────────┬──────────────┤\n")
	fmt.Fprintf(&b, "│ %-29s │ %-12d │\n", "Updated", report.Updated)
	fmt.Fprintf(&b, "│ %-29s │ %-12d │\n", "Failed", report.Failed)
	fmt.Fprintf(&b, "│ %-29s │ %-12d │\n", "Total", report.Total)
	b.WriteString("└───────────────────────────────┴──────────────┘\n")

	if len(report.Outcomes) > 0 {
		b.WriteString("┌──────┬───────────────────┬─────────────────────┐\n")
		b.WriteString("│ Code │ Status            │ Detail              │\n")
		b.WriteString("├──────┼───────────────────┼─────────────────────┤\n")
		for _, o := range report.Outcomes {
			fmt.Fprintf(&b, "│ %-4s │ %-17s │ %-19s │\n",
				o.CountryCode, o.Status, truncate(o.Detail, 19))
		}
		b.WriteString("└──────┴───────────────────┴─────────────────────┘\n")
	}

	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
