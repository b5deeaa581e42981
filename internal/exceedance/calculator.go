// Package exceedance converts a Degree Heating Week (DHW) target into the
// sea-surface temperatures that would produce it over each accumulation
// window, per Great Barrier Reef management region.
package exceedance

import "math"

// EstimateSSTExceedance returns the SST exceedance above the bleaching
// threshold required to reach the given DHW over each accumulation window,
// ordered [4-week, 8-week, 12-week] and rounded to two decimals.
//
// Callers must pass a finite value; NaN and ±Inf propagate through untouched.
func EstimateSSTExceedance(dhw float64) [3]float64 {
	var out [3]float64
	for i, weeks := range AccumulationWindows {
		out[i] = round2(dhw / float64(weeks))
	}
	return out
}

// EstimateExceedanceValue returns the absolute SST estimate per region and
// window: the region's MMM baseline plus the per-window exceedance. Rows are
// the four regions north to south; columns are reversed relative to
// EstimateSSTExceedance so they come out [12-week, 8-week, 4-week], which is
// the order the dashboard labels read in. Downstream code indexes columns
// positionally, so this ordering is load-bearing.
func EstimateExceedanceValue(dhw float64) [4][3]float64 {
	perWindow := EstimateSSTExceedance(dhw)

	var grid [4][3]float64
	for i, rt := range RegionThresholds {
		for w, v := range perWindow {
			grid[i][len(perWindow)-1-w] = rt.MMMBaselineC + v
		}
	}
	return grid
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
