package wind

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/quadrocore/dynamics/mathf"
)

// Dryden is the continuous turbulence model spec section 6 names:
// "first-order filter along longitudinal axis, second-order filters on
// lateral and vertical axes, driven by standard-normal white noise;
// filter coefficients derived from altitude per the military
// specification's low/medium/high-altitude regime." The continuous
// transfer functions are the standard MIL-F-8785C/MIL-HDBK-1797
// Dryden forms; each is discretized here via the bilinear (Tustin)
// transform at the caller's step size, per the spec's own Open
// Question naming "bilinear transforms" as the intended discretization.
// wind_test.go does not compare the output against a reference PSD; it
// checks that the turbulence intensities grow with the turbulence level
// in each altitude regime and that the length scales are continuous
// across the regime boundaries.
type Dryden struct {
	MeanWind        mathf.Vec3
	Altitude        float32 // meters AGL.
	Wingspan        float32
	TurbulenceLevel float32 // m/s reference turbulence intensity.
	Airspeed        float32 // forward airspeed used for time-scaling (Lu/V etc).

	noise  distuv.Normal
	lastT  float32
	inited bool

	u firstOrder
	v secondOrder
	w secondOrder
}

// NewDryden returns a Dryden gust model driven by src.
func NewDryden(meanWind mathf.Vec3, altitude, wingspan, turbulenceLevel, airspeed float32, src rand.Source) *Dryden {
	return &Dryden{
		MeanWind:        meanWind,
		Altitude:        altitude,
		Wingspan:        wingspan,
		TurbulenceLevel: turbulenceLevel,
		Airspeed:        airspeed,
		noise:           distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// altitudeRegime is the military-spec low/medium/high altitude
// classification that selects which length-scale/intensity formula
// applies.
type altitudeRegime int

const (
	regimeLow altitudeRegime = iota
	regimeMedium
	regimeHigh
)

// Regime thresholds approximate the spec's 1000ft/2000ft breakpoints
// in meters (304.8m / 609.6m).
const (
	lowAltitudeCeiling float32 = 304.8
	highAltitudeFloor  float32 = 609.6
	highAltitudeLength float32 = 533.4 // ~1750 ft, the fixed high-altitude length scale.
)

func regimeFor(altitude float32) altitudeRegime {
	switch {
	case altitude < lowAltitudeCeiling:
		return regimeLow
	case altitude < highAltitudeFloor:
		return regimeMedium
	default:
		return regimeHigh
	}
}

// lengthScales returns (Lu, Lv, Lw) for the given altitude, blending
// linearly across the medium regime between the low-altitude formula
// (evaluated at the low ceiling) and the fixed high-altitude length.
func lengthScales(altitude float32) (lu, lv, lw float32) {
	lowAt := func(h float32) (float32, float32, float32) {
		base := 0.177 + 0.000823*h
		lu := h / mathf.Pow(base, 1.2)
		return lu, lu, h
	}
	switch regimeFor(altitude) {
	case regimeLow:
		return lowAt(altitude)
	case regimeHigh:
		return highAltitudeLength, highAltitudeLength, highAltitudeLength
	default:
		loU, loV, loW := lowAt(lowAltitudeCeiling)
		t := (altitude - lowAltitudeCeiling) / (highAltitudeFloor - lowAltitudeCeiling)
		lu = loU + (highAltitudeLength-loU)*t
		lv = loV + (highAltitudeLength-loV)*t
		lw = loW + (highAltitudeLength-loW)*t
		return lu, lv, lw
	}
}

// turbulenceSigmas returns (sigmaU, sigmaV, sigmaW) for the given
// altitude and reference turbulence level.
func turbulenceSigmas(altitude, turbulenceLevel float32) (su, sv, sw float32) {
	switch regimeFor(altitude) {
	case regimeLow:
		sw := 0.1 * turbulenceLevel
		base := 0.177 + 0.000823*altitude
		su := sw / mathf.Pow(base, 0.4)
		return su, su, sw
	case regimeHigh:
		return turbulenceLevel, turbulenceLevel, turbulenceLevel
	default:
		loBase := 0.177 + 0.000823*lowAltitudeCeiling
		loW := 0.1 * turbulenceLevel
		loU := loW / mathf.Pow(loBase, 0.4)
		t := (altitude - lowAltitudeCeiling) / (highAltitudeFloor - lowAltitudeCeiling)
		su = loU + (turbulenceLevel-loU)*t
		sv = su
		sw = loW + (turbulenceLevel-loW)*t
		return su, sv, sw
	}
}

// Update advances the three filter states by dt = t - (time of the
// previous call) and returns the mean wind plus the sampled gust
// vector. The first call (or a non-positive dt, e.g. a repeated or
// out-of-order timestamp) seeds the filters without advancing them and
// returns the mean wind unperturbed.
func (d *Dryden) Update(t float32, position mathf.Vec3) mathf.Vec3 {
	if !d.inited {
		d.inited = true
		d.lastT = t
		return d.MeanWind
	}
	dt := t - d.lastT
	d.lastT = t
	if dt <= 0 {
		return d.MeanWind
	}

	v := d.Airspeed
	if v <= mathf.Epsilon {
		v = 1
	}
	lu, lv, lw := lengthScales(d.Altitude)
	su, sv, sw := turbulenceSigmas(d.Altitude, d.TurbulenceLevel)

	gustU := d.u.step(dt, lu/v, su*mathf.Sqrt(2*lu/(mathf.Pi*v)), float32(d.noise.Rand()))
	gustV := d.v.step(dt, lv/v, sv*mathf.Sqrt(lv/(mathf.Pi*v)), float32(d.noise.Rand()))
	gustW := d.w.step(dt, lw/v, sw*mathf.Sqrt(lw/(mathf.Pi*v)), float32(d.noise.Rand()))

	return mathf.Vec3{X: d.MeanWind.X + gustU, Y: d.MeanWind.Y + gustV, Z: d.MeanWind.Z + gustW}
}

// firstOrder is a bilinear-transform discretization of K/(1+tau*s):
// y[n] = b0*x[n] + b1*x[n-1] - a1*y[n-1].
type firstOrder struct {
	xPrev, yPrev float32
}

func (f *firstOrder) step(dt, tau, gain, x float32) float32 {
	c := 2 / dt
	denom := 1 + tau*c
	b0 := gain / denom
	b1 := b0
	a1 := (1 - tau*c) / denom

	y := b0*x + b1*f.xPrev - a1*f.yPrev
	f.xPrev, f.yPrev = x, y
	return y
}

// secondOrder is a bilinear-transform discretization of
// K*(1+sqrt(3)*tau*s)/(1+tau*s)^2, a direct-form-I biquad (separate
// input and output histories).
type secondOrder struct {
	x1, x2, y1, y2 float32
}

func (s *secondOrder) step(dt, tau, gain, x float32) float32 {
	c := float32(2) / dt
	p := 1 + tau*c
	q := 1 - tau*c
	r := 1 + sqrt3*tau*c
	sCoef := 1 - sqrt3*tau*c

	p2 := p * p
	b0 := gain * r / p2
	b1 := gain * (r + sCoef) / p2
	b2 := gain * sCoef / p2
	a1 := 2 * p * q / p2
	a2 := q * q / p2

	y := b0*x + b1*s.x1 + b2*s.x2 - a1*s.y1 - a2*s.y2
	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y
	return y
}

const sqrt3 float32 = 1.7320508
