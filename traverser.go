package voyager

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond"
)

// TraverserConfig configures a batch run: the vessel mode/craft/physical
// parameters, the date range and launch stride, the bounding box, departure
// points and destination, and the integrator parameters.
type TraverserConfig struct {
	Mode        Mode
	Craft       int
	Destination Point
	Departures  []Point
	Reps        int // replicate each departure point this many times

	BBox       BoundingBox
	StartDate  time.Time
	EndDate    time.Time
	LaunchFreq int // days between launches

	RouteInterval int
	Contour       ContourOptions

	Params       Params
	VesselConfig *VesselConfig
}

// LaunchResult collects one launch day's outcome: successfully completed
// vessel trajectories, plus any vessels that failed to construct (routing
// or configuration errors) or that panicked mid-run.
type LaunchResult struct {
	LaunchDate string
	Records    []TrajectoryRecord
	Failures   []*VesselError
}

// Traverser drives a batch of launches across a date range, sharing one
// immutable Chart and fanning vessels for each launch day out across a
// worker pool sized to the host's CPU count.
type Traverser struct {
	Config TraverserConfig
	Loader RasterLoader
}

// NewTraverser builds a Traverser bound to a raster loader.
func NewTraverser(cfg TraverserConfig, loader RasterLoader) *Traverser {
	return &Traverser{Config: cfg, Loader: loader}
}

// Run loads the Chart once, then iterates the launch-date range, collecting
// one LaunchResult per launch day keyed by "YYYY-MM-DD". Cancellation via
// ctx is checked between launch days and between integrator steps.
func (tv *Traverser) Run(ctx context.Context) (map[string]*LaunchResult, error) {
	cfg := tv.Config

	chart := NewChart(cfg.BBox, cfg.StartDate, cfg.EndDate)
	if err := chart.Load(tv.Loader, cfg.Contour); err != nil {
		return nil, err
	}

	results := make(map[string]*LaunchResult)

	freq := cfg.LaunchFreq
	if freq < 1 {
		freq = 1
	}

	for date := cfg.StartDate; !date.After(cfg.EndDate); date = date.AddDate(0, 0, freq) {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		chart.Interpolate(date, cfg.Params.Duration)

		vessels, failures := instantiateVessels(cfg, chart)

		records, moreFailures := runLaunchDay(ctx, vessels, chart, cfg.Params)
		failures = append(failures, moreFailures...)

		key := date.Format("2006-01-02")
		stopDate := date.AddDate(0, 0, int(cfg.Params.Duration)).Format("2006-01-02")

		recs := make([]TrajectoryRecord, 0, len(vessels))
		for _, v := range records {
			recs = append(recs, v.ToRecord(key, stopDate, cfg.Params.Dt))
		}

		results[key] = &LaunchResult{LaunchDate: key, Records: recs, Failures: failures}
	}

	return results, nil
}

// instantiateVessels expands each departure point into cfg.Reps vessels,
// looks up its physical parameters, and routes it via the chart's
// navigation grid.
func instantiateVessels(cfg TraverserConfig, chart *Chart) ([]*Vessel, []*VesselError) {
	params, err := cfg.VesselConfig.Lookup(cfg.Mode, cfg.Craft)
	if err != nil {
		return nil, []*VesselError{{Craft: cfg.Craft, Err: err}}
	}

	reps := cfg.Reps
	if reps < 1 {
		reps = 1
	}

	var vessels []*Vessel
	var failures []*VesselError

	for _, departure := range cfg.Departures {
		for i := 0; i < reps; i++ {
			v, err := NewVesselFromPosition(departure, chart, cfg.Destination, cfg.RouteInterval, cfg.Craft, cfg.Mode, params)
			if err != nil {
				failures = append(failures, &VesselError{Craft: cfg.Craft, DeparturePoint: [2]float64{departure.Lon, departure.Lat}, Err: err})
				continue
			}
			vessels = append(vessels, v)
		}
	}

	return vessels, failures
}

// runLaunchDay fans vessels out across a worker pool sized to the host's
// CPU count, mirroring the teacher's cmd/main.go convert_gsf_list pattern
// (pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))). An invalid
// runtime value (non-finite displacement, unknown mode) is reported by
// Integrator.Run as an error and routed into failures here, the same as a
// routing or configuration error; each task additionally recovers from a
// panic so any other unexpected failure mode doesn't take down the rest of
// the batch (spec.md §7).
func runLaunchDay(ctx context.Context, vessels []*Vessel, chart *Chart, params Params) ([]*Vessel, []*VesselError) {
	if len(vessels) == 0 {
		return nil, nil
	}

	n := runtime.NumCPU()
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	integrator := NewIntegrator(params, chart)

	var mu sync.Mutex
	var done []*Vessel
	var failures []*VesselError

	var wg sync.WaitGroup
	wg.Add(len(vessels))

	for _, v := range vessels {
		vessel := v
		pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					failures = append(failures, &VesselError{Craft: vessel.Craft, DeparturePoint: [2]float64{vessel.Trajectory[0].Lon, vessel.Trajectory[0].Lat}, Err: ErrInvalidPosition})
					mu.Unlock()
				}
			}()

			seed := randomSeed()
			result, err := integrator.Run(ctx, vessel, seed)

			mu.Lock()
			if err != nil {
				failures = append(failures, &VesselError{Craft: vessel.Craft, DeparturePoint: [2]float64{vessel.Trajectory[0].Lon, vessel.Trajectory[0].Lat}, Err: err})
			} else {
				done = append(done, result)
			}
			mu.Unlock()
		})
	}

	wg.Wait()

	return done, failures
}

// randomSeed draws an int64 from system entropy so that parallel vessel
// runs are decorrelated (spec.md §5/§9) without ever sharing a
// process-wide generator.
func randomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
