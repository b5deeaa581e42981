// Package regions loads the Great Barrier Reef management region polygons
// used for the dashboard map and orders them north to south to match the
// threshold table.
package regions

import (
	"context"
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	geo "github.com/paulmach/go.geo"
	geojson "github.com/paulmach/go.geojson"

	"github.com/reefwatch/dhw-dashboard/internal/exceedance"
)

//go:embed data/gbr_management_regions.geojson
var embedded embed.FS

const embeddedPath = "data/gbr_management_regions.geojson"

// Region is one management region with its boundary and label anchor.
type Region struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"` // centroid latitude, label anchor
	Lon     float64 `json:"lon"` // centroid longitude, label anchor
	Feature *geojson.Feature
}

// Set is the loaded, ordered region set. Regions and Collection.Features are
// both sorted by descending centroid latitude (north to south) and verified
// to match the threshold table names in that order.
type Set struct {
	Regions    []Region
	Collection *geojson.FeatureCollection
}

// Load reads the region dataset from source and returns the ordered set.
// Source may be empty (embedded default dataset), a filesystem path, or an
// HTTP(S) URL; remote fetches go through the resilient fetcher. Any ordering
// or naming mismatch against the threshold table is an error: the calculator
// indexes regions positionally, so a bad join here would silently mislabel
// every value on the map.
func Load(ctx context.Context, source string, fetcher *Fetcher) (*Set, error) {
	data, err := readSource(ctx, source, fetcher)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse region dataset: %w", err)
	}
	if len(fc.Features) != len(exceedance.RegionThresholds) {
		return nil, fmt.Errorf("region dataset has %d features, want %d", len(fc.Features), len(exceedance.RegionThresholds))
	}

	regions := make([]Region, 0, len(fc.Features))
	for _, f := range fc.Features {
		name, err := f.PropertyString("name")
		if err != nil || name == "" {
			return nil, fmt.Errorf("region feature missing name property")
		}

		lat, lon, err := centroid(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", name, err)
		}

		regions = append(regions, Region{
			Name:    name,
			Lat:     lat,
			Lon:     lon,
			Feature: f,
		})
	}

	// North to south.
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Lat > regions[j].Lat
	})

	// Latitude ordering alone is positional trust; the name join against the
	// threshold table catches a dataset whose geometry and labels disagree.
	for i, want := range exceedance.RegionNames() {
		if regions[i].Name != want {
			return nil, fmt.Errorf("region order mismatch: position %d is %q, threshold table expects %q",
				i, regions[i].Name, want)
		}
	}

	ordered := geojson.NewFeatureCollection()
	for _, r := range regions {
		ordered.AddFeature(r.Feature)
	}

	return &Set{Regions: regions, Collection: ordered}, nil
}

func readSource(ctx context.Context, source string, fetcher *Fetcher) ([]byte, error) {
	switch {
	case source == "":
		return embedded.ReadFile(embeddedPath)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if fetcher == nil {
			return nil, fmt.Errorf("remote region source %q requires a fetcher", source)
		}
		return fetcher.Fetch(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read region dataset: %w", err)
		}
		return data, nil
	}
}

// centroid computes the geographic centroid of a polygon's outer ring (or of
// all outer rings for a multipolygon). Good enough for label placement; this
// is not an area-weighted centroid.
func centroid(g *geojson.Geometry) (lat, lon float64, err error) {
	if g == nil {
		return 0, 0, fmt.Errorf("missing geometry")
	}

	ps := geo.NewPointSet()
	switch {
	case g.IsPolygon():
		pushRing(ps, g.Polygon)
	case g.IsMultiPolygon():
		for _, poly := range g.MultiPolygon {
			pushRing(ps, poly)
		}
	default:
		return 0, 0, fmt.Errorf("unsupported geometry type %q", g.Type)
	}

	if ps.Length() == 0 {
		return 0, 0, fmt.Errorf("empty geometry")
	}

	c := ps.GeoCentroid()
	return c.Lat(), c.Lng(), nil
}

// pushRing adds the outer ring's vertices, skipping the closing point that
// duplicates the first so it does not double-weight the centroid.
func pushRing(ps *geo.PointSet, poly [][][]float64) {
	if len(poly) == 0 {
		return
	}
	ring := poly[0]
	n := len(ring)
	if n > 1 && ring[0][0] == ring[n-1][0] && ring[0][1] == ring[n-1][1] {
		n--
	}
	for i := 0; i < n; i++ {
		ps.Push(geo.NewPoint(ring[i][0], ring[i][1]))
	}
}
