package voyager

import (
	"context"
	"math"
	"math/rand"
)

// SecondsPerDay is the integrator's fixed day/second conversion constant.
const SecondsPerDay = 86400

// Params is the integrator's plain, pass-by-value configuration: fixed
// timestep, run duration, noise standard deviation, and arrival tolerance.
type Params struct {
	Duration  float64 // days
	Dt        float64 // seconds
	Sigma     float64 // metres, Gaussian noise std-dev per axis per step
	Tolerance float64 // arrival tolerance factor, multiplied by Dt
}

// DefaultParams mirrors the Python original's Model defaults.
func DefaultParams(duration, dt float64) Params {
	return Params{Duration: duration, Dt: dt, Sigma: 2000.0, Tolerance: 0.5e-3}
}

// Integrator is the fixed-step forward-Euler state machine that drives a
// single vessel's trajectory under forcing sampled from a Chart.
type Integrator struct {
	Params Params
	Chart  *Chart
}

// NewIntegrator binds an Integrator to a chart.
func NewIntegrator(params Params, chart *Chart) *Integrator {
	return &Integrator{Params: params, Chart: chart}
}

// Run advances vessel from its current position until it lands, arrives, or
// exhausts duration, reseeding a dedicated RNG from seed (spec.md §9: "each
// vessel run reseeds at entry"; never a shared process-wide generator).
// ctx is checked between steps for cooperative cancellation (spec.md §5).
//
// Forcing that leaves the sampled domain mid-run (NaN current/wind) is a
// normal terminal event — landfall — and is reported via
// vessel.Termination, not err. An invalid runtime value produced by the
// displacement model itself (non-finite displacement, an unknown mode) is
// not a normal outcome: Run aborts the vessel and returns err non-nil
// instead, leaving Termination unset, so the caller can route it into a
// batch's failures the same way a routing or configuration error is
// (spec.md §7).
func (in *Integrator) Run(ctx context.Context, vessel *Vessel, seed int64) (*Vessel, error) {
	rng := rand.New(rand.NewSource(seed))

	targetTol := in.Params.Dt * in.Params.Tolerance
	dtDays := in.Params.Dt / SecondsPerDay

	for t := 0.0; t < in.Params.Duration; t += dtDays {
		select {
		case <-ctx.Done():
			return vessel, nil
		default:
		}

		cu := in.Chart.UCurrent.Sample(t, vessel.Position.Lon, vessel.Position.Lat)
		cv := in.Chart.VCurrent.Sample(t, vessel.Position.Lon, vessel.Position.Lat)

		if math.IsNaN(cu) || math.IsNaN(cv) {
			vessel.Termination = TerminationLandfall
			return vessel, nil
		}

		wu := in.Chart.UWind.Sample(t, vessel.Position.Lon, vessel.Position.Lat)
		wv := in.Chart.VWind.Sample(t, vessel.Position.Lon, vessel.Position.Lat)

		if math.IsNaN(wu) || math.IsNaN(wv) {
			vessel.Termination = TerminationLandfall
			return vessel, nil
		}

		c := [2]float64{cu, cv}
		w := [2]float64{wu, wv}

		dxy, err := Displace(vessel.Mode, vessel.Craft, vessel.Params, c, w, vessel.Position, vessel.Target, in.Params.Dt, in.Params.Sigma, rng)
		if err != nil {
			return vessel, err
		}

		next := LonLatFromDisplacement(dxy[0], dxy[1], vessel.Position, GreatCircle)

		vessel.UpdateDistance(dxy[0], dxy[1])
		vessel.UpdatePosition(next)
		vessel.UpdateMeanSpeed(in.Params.Dt)

		if vessel.HasArrived(vessel.Position, targetTol) {
			vessel.Termination = TerminationArrived
			return vessel, nil
		}
	}

	vessel.Termination = TerminationTimeExhausted
	return vessel, nil
}
