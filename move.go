package voyager

import (
	"math"
	"math/rand"
)

// knotsToSI converts knots to metres/second.
func knotsToSI(knots float64) float64 { return knots / 1.94 }

// siToKnots converts metres/second to knots.
func siToKnots(si float64) float64 { return si * 1.94 }

// rotate applies a standard 2-D rotation matrix to v by angle radians.
func rotate(v [2]float64, angle float64) [2]float64 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return [2]float64{
		cos*v[0] - sin*v[1],
		sin*v[0] + cos*v[1],
	}
}

// leewayVelocity computes the per-component leeway wind velocity in knots
// from a wind velocity (m/s) and the Sl/Yt coefficients. The "else" branch
// deliberately keeps the source's exact parenthesization, preserved
// verbatim per spec.md §9. At w=+6kn both branches give 6*Sl + Yt; for
// negative w the offset Yt is not sign-flipped, so the branches do not meet
// at w=-6kn.
func leewayVelocity(w [2]float64, Sl, Yt float64) [2]float64 {
	var leeway [2]float64

	wk := [2]float64{siToKnots(w[0]), siToKnots(w[1])}

	for i := 0; i < 2; i++ {
		if math.Abs(wk[i]) > 6 {
			leeway[i] = Sl*wk[i] + Yt
		} else {
			leeway[i] = (Sl + Yt/6) * wk[i]
		}
	}

	return leeway
}

// leewayDisplacement converts leewayVelocity's knots output back to m/s and
// scales by dt to produce a metre displacement.
func leewayDisplacement(w [2]float64, Sl, Yt, dt float64) [2]float64 {
	leeway := leewayVelocity(w, Sl, Yt)
	return [2]float64{
		knotsToSI(leeway[0]) * dt,
		knotsToSI(leeway[1]) * dt,
	}
}

// levisonBand is one row of the discrete Beaufort-like leeway table used by
// craft id 7 (spec.md §4.4.2).
type levisonBand struct {
	upper  float64 // upper bound of |w| in knots: exclusive for the first band, inclusive for the rest; +Inf for the last band
	leeway float64 // knots
}

var levisonTable = []levisonBand{
	{upper: 1, leeway: 0},
	{upper: 3, leeway: 0.5},
	{upper: 6, leeway: 1},
	{upper: 10, leeway: 2},
	{upper: 16, leeway: 3},
	{upper: 21, leeway: 4.5},
	{upper: 27, leeway: 6},
	{upper: 33, leeway: 7},
	{upper: 40, leeway: 6},
	{upper: math.Inf(1), leeway: 4.5},
}

// levisonLeeway returns the table magnitude (knots) for an absolute wind
// speed in knots. |w| < 1 maps to the first band (leeway 0) and |w| == 1 to
// the second; the final band catches |w| > 40.
func levisonLeeway(absKnots float64) float64 {
	if absKnots < levisonTable[0].upper {
		return levisonTable[0].leeway
	}
	for _, band := range levisonTable[1:] {
		if absKnots <= band.upper {
			return band.leeway
		}
	}
	return levisonTable[len(levisonTable)-1].leeway
}

// levisonLeewayDisplacement implements spec.md §4.4.2: a component-wise
// piecewise-constant leeway magnitude, sign restored from the wind
// component's own sign, no deflection rotation.
func levisonLeewayDisplacement(w [2]float64, dt float64) [2]float64 {
	var dxy [2]float64

	for i := 0; i < 2; i++ {
		wk := siToKnots(w[i])
		mag := levisonLeeway(math.Abs(wk))

		sign := 0.0
		switch {
		case wk > 0:
			sign = 1
		case wk < 0:
			sign = -1
		}

		dxy[i] = knotsToSI(mag*sign) * dt
	}

	return dxy
}

// driftDisplacement implements spec.md §4.4.1/§4.4.2. For craft ==
// LevisonCraftID it dispatches to the discrete Levison table instead of the
// Sl/Yt/Da formula.
func driftDisplacement(c, w [2]float64, craft int, params DriftParams, dt float64, rng *rand.Rand) [2]float64 {
	dxyC := [2]float64{c[0] * dt, c[1] * dt}

	if craft == LevisonCraftID {
		leeway := levisonLeewayDisplacement(w, dt)
		return [2]float64{leeway[0] + dxyC[0], leeway[1] + dxyC[1]}
	}

	daRad := deg2rad(params.Da)

	flip := 1.0
	if rng.Intn(2) == 0 {
		flip = -1.0
	}

	leeway := leewayDisplacement(w, params.Sl, params.Yt, dt)
	deflected := rotate(leeway, daRad*flip)

	return [2]float64{deflected[0] + dxyC[0], deflected[1] + dxyC[1]}
}

// paddlingDisplacement implements spec.md §4.4.3: drift displacement plus a
// constant-speed component along the bearing toward target.
func paddlingDisplacement(c, w [2]float64, craft int, driftParams DriftParams, speed float64, pos, target Point, dt float64, rng *rand.Rand) [2]float64 {
	drift := driftDisplacement(c, w, craft, driftParams, dt, rng)

	a := deg2rad(BearingFromLonLat(pos, target))
	paddle := [2]float64{
		speed * dt * -math.Sin(a),
		speed * dt * math.Cos(a),
	}

	return [2]float64{drift[0] + paddle[0], drift[1] + paddle[1]}
}

// sailingDisplacement implements spec.md §4.4.4, including the tacking
// penalty.
func sailingDisplacement(c, w [2]float64, pos, target Point, params SailingParams, dt float64) [2]float64 {
	dxyC := [2]float64{c[0] * dt, c[1] * dt}

	a := deg2rad(BearingFromLonLat(pos, target))
	bearing := [2]float64{math.Cos(a), math.Sin(a)}

	det := bearing[0]*w[1] - bearing[1]*w[0]
	dot := bearing[0]*w[0] + bearing[1]*w[1]
	b := math.Abs(rad2deg(math.Atan2(det, dot)))

	wAbs := math.Hypot(w[0], w[1])
	wf := params.WindFraction(b)
	sailingVelocity := wf * wAbs

	var displacement float64
	if b <= params.Mt {
		displacement = sailingVelocity * dt
	} else {
		tacking := deg2rad(b - params.Mt)
		displacement = math.Cos(tacking) * sailingVelocity * dt
	}

	dxySailing := [2]float64{
		displacement * -math.Sin(a),
		displacement * math.Cos(a),
	}

	return [2]float64{dxySailing[0] + dxyC[0], dxySailing[1] + dxyC[1]}
}

// addUncertainty adds independent Gaussian noise N(0, sigma) per axis.
func addUncertainty(dxy [2]float64, sigma float64, rng *rand.Rand) [2]float64 {
	if sigma == 0 {
		return dxy
	}
	return [2]float64{
		dxy[0] + rng.NormFloat64()*sigma,
		dxy[1] + rng.NormFloat64()*sigma,
	}
}

// Displace computes the total per-step displacement (metres) for a vessel's
// mode, then adds Gaussian uncertainty, returning the result in kilometres.
func Displace(mode Mode, craft int, params any, c, w [2]float64, pos, target Point, dt, sigma float64, rng *rand.Rand) ([2]float64, error) {
	var dxy [2]float64

	switch mode {
	case ModeDrift:
		p, _ := params.(DriftParams)
		dxy = driftDisplacement(c, w, craft, p, dt, rng)

	case ModePaddling:
		p, _ := params.(PaddlingParams)
		dxy = paddlingDisplacement(c, w, craft, p.DriftParams, p.Speed, pos, target, dt, rng)

	case ModeSailing:
		p, _ := params.(SailingParams)
		dxy = sailingDisplacement(c, w, pos, target, p, dt)

	default:
		return [2]float64{}, ErrUnknownMode
	}

	dxy = addUncertainty(dxy, sigma, rng)

	if math.IsNaN(dxy[0]) || math.IsNaN(dxy[1]) || math.IsInf(dxy[0], 0) || math.IsInf(dxy[1], 0) {
		return [2]float64{}, ErrNonFiniteDisplacement
	}

	return [2]float64{dxy[0] / 1000.0, dxy[1] / 1000.0}, nil
}
