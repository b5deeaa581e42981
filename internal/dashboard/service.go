// Package dashboard holds the recompute-on-demand core of the service: it
// turns a raw DHW input into a snapshot of per-region SST estimates and keeps
// the last valid snapshot for when input goes bad.
package dashboard

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reefwatch/dhw-dashboard/internal/exceedance"
	"github.com/reefwatch/dhw-dashboard/internal/observability"
	"github.com/reefwatch/dhw-dashboard/internal/regions"
)

var (
	// ErrInvalidInput flags a DHW value that is unparseable or non-finite.
	ErrInvalidInput = errors.New("invalid DHW input")

	// ErrNoEstimate is returned before any valid input has been computed.
	ErrNoEstimate = errors.New("no estimate computed yet")
)

// Service recomputes the exceedance matrix on demand and retains the last
// valid snapshot. Invalid input never disturbs previously computed state.
type Service struct {
	regions *regions.Set
	store   Store
	logger  *zap.Logger
	metrics *observability.Metrics

	mu        sync.RWMutex
	lastValid *Snapshot
}

// NewService creates a Service over the loaded region set.
func NewService(set *regions.Set, store Store, logger *zap.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Service{
		regions: set,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Update parses raw as a DHW value and, if valid, recomputes the snapshot,
// stores it, and returns it. On invalid input the last valid snapshot is
// returned unchanged alongside ErrInvalidInput, and a diagnostic is logged;
// this is the last-valid-value rule, implemented as a guarded assignment
// rather than exception-driven control flow.
func (s *Service) Update(raw string) (Snapshot, error) {
	dhw, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(dhw) || math.IsInf(dhw, 0) {
		s.metrics.InvalidInputs.Inc()
		s.logger.Warn("ignoring invalid DHW input; keeping last valid estimate",
			zap.String("input", raw),
		)

		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.lastValid == nil {
			return Snapshot{}, ErrInvalidInput
		}
		return *s.lastValid, ErrInvalidInput
	}

	start := time.Now()
	snapshot := s.compute(dhw)
	s.metrics.EstimateDuration.Observe(time.Since(start).Seconds())
	s.metrics.EstimatesComputed.Inc()

	s.mu.Lock()
	s.lastValid = &snapshot
	s.mu.Unlock()

	if s.store != nil {
		s.store.Save(snapshot)
	}

	s.logger.Debug("recomputed exceedance matrix",
		zap.Float64("dhw", dhw),
		zap.String("snapshot_id", snapshot.ID),
	)

	return snapshot, nil
}

// Latest returns the most recent valid snapshot.
func (s *Service) Latest() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastValid == nil {
		return Snapshot{}, ErrNoEstimate
	}
	return *s.lastValid, nil
}

// History returns stored snapshots between from and to (inclusive).
func (s *Service) History(from, to time.Time) ([]Snapshot, error) {
	if s.store == nil {
		return nil, ErrNoEstimate
	}
	return s.store.Range(from, to)
}

// Regions exposes the loaded region set for the map overlay endpoints.
func (s *Service) Regions() *regions.Set {
	return s.regions
}

// compute assembles a fresh snapshot. The matrix rows and the loaded region
// set share the same north-to-south order; the loader enforced the name join
// at startup, so positional indexing is safe here.
func (s *Service) compute(dhw float64) Snapshot {
	grid := exceedance.EstimateExceedanceValue(dhw)

	regionEstimates := make([]RegionEstimate, 0, len(exceedance.RegionThresholds))
	for i, rt := range exceedance.RegionThresholds {
		r := s.regions.Regions[i]
		regionEstimates = append(regionEstimates, RegionEstimate{
			Name:       rt.Name,
			ThresholdC: rt.MMMBaselineC,
			Lat:        r.Lat,
			Lon:        r.Lon,
			Values:     grid[i],
			Label:      FormatLabel(grid[i], rt.MMMBaselineC),
		})
	}

	return Snapshot{
		ID:         uuid.NewString(),
		DHW:        dhw,
		ComputedAt: time.Now().UTC(),
		Regions:    regionEstimates,
	}
}
