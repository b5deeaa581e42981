package exceedance

// RegionThreshold pairs a management region with its Maximum Monthly Mean (MMM)
// SST baseline. The MMM is the warmest of the twelve monthly mean climatology
// values for the region; bleaching stress accumulates above MMM + 1°C.
type RegionThreshold struct {
	Name         string  `json:"name"`
	MMMBaselineC float64 `json:"mmmBaselineC"`
}

// AccumulationWindows are the DHW accumulation windows in weeks, shortest first.
var AccumulationWindows = [3]int{4, 8, 12}

// RegionThresholds holds the four Great Barrier Reef management regions in
// fixed north-to-south order. These baselines are static for the lifetime of
// the process; the spatial loader joins its polygons against these names.
var RegionThresholds = [4]RegionThreshold{
	{Name: "Far North", MMMBaselineC: 28.7694},
	{Name: "North", MMMBaselineC: 28.4098},
	{Name: "Central", MMMBaselineC: 28.0354},
	{Name: "South", MMMBaselineC: 27.6570},
}

// RegionNames returns the threshold table's region names in north-to-south order.
func RegionNames() [4]string {
	var names [4]string
	for i, rt := range RegionThresholds {
		names[i] = rt.Name
	}
	return names
}
