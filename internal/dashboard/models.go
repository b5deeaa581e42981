package dashboard

import "time"

// RegionEstimate is the per-region slice of a computed snapshot: the fixed
// threshold, the three window values in [12-week, 8-week, 4-week] order, and
// the rendered label anchored at the region centroid.
type RegionEstimate struct {
	Name       string     `json:"name"`
	ThresholdC float64    `json:"thresholdC"`
	Lat        float64    `json:"lat"`
	Lon        float64    `json:"lon"`
	Values     [3]float64 `json:"values"`
	Label      string     `json:"label"`
}

// Snapshot is one complete recomputation of the exceedance matrix for a DHW
// input. Snapshots are recomputed wholesale, never partially mutated.
type Snapshot struct {
	ID         string           `json:"id"`
	DHW        float64          `json:"dhw"`
	ComputedAt time.Time        `json:"computedAt"` // always UTC
	Regions    []RegionEstimate `json:"regions"`
}

// Store is the contract the in-memory history store (and any future
// persistent store) must satisfy.
type Store interface {
	Save(snapshot Snapshot)
	Latest() (Snapshot, error)
	Range(from, to time.Time) ([]Snapshot, error)
}
