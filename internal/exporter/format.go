package exporter

import (
	"fmt"
	"time"
)

// DateLayout is the day-first layout used in exported sheets.
const DateLayout = "02/01/2006"

// formatPercent formats a percentage with one decimal, e.g. 62.5%.
func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

// formatRate formats part/total as a one-decimal percentage, or 0% when
// total is zero.
func formatRate(part, total int) string {
	if total <= 0 {
		return "0%"
	}
	return formatPercent(float64(part) / float64(total) * 100)
}

// formatRoundedRate formats part/total as a whole percentage.
func formatRoundedRate(part, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(part)/float64(total)*100)
}

// formatSessionDate turns an ISO date into DD/MM/YYYY. Values that do not
// parse are returned unchanged.
func formatSessionDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format(DateLayout)
}

// formatPresent formats a presence flag the way the sheets show it.
func formatPresent(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// formatEstado formats the pass/fail status.
func formatEstado(aprobado bool) string {
	if aprobado {
		return "Aprobado"
	}
	return "No Aprobado"
}
