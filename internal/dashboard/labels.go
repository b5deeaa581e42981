package dashboard

import "fmt"

// FormatLabel renders the per-region map label. Values arrive at two-decimal
// precision and are re-rounded to one decimal for display; the line order
// matches the [12-week, 8-week, 4-week] column order of the matrix.
func FormatLabel(values [3]float64, thresholdC float64) string {
	return fmt.Sprintf("12 weeks: %.1f°C\n8 weeks: %.1f°C\n4 weeks: %.1f°C\nThreshold: %.1f°C",
		values[0], values[1], values[2], thresholdC)
}
