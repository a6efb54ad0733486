package voyager

import (
	"math"
	"time"
)

// BoundingBox is a half-open-in-index-space region (lon_min, lat_min,
// lon_max, lat_max).
type BoundingBox struct {
	LonMin, LatMin, LonMax, LatMax float64
}

// Valid reports whether the box's ordering invariant holds.
func (b BoundingBox) Valid() bool {
	return b.LonMin < b.LonMax && b.LatMin < b.LatMax
}

// Contains reports whether (lon, lat) lies within the closed box, matching
// the sampler's closed-bbox out-of-domain rule.
func (b BoundingBox) Contains(lon, lat float64) bool {
	return lon >= b.LonMin && lon <= b.LonMax && lat >= b.LatMin && lat <= b.LatMax
}

// Field is a 3-D array of floats shaped [T, Lat, Lon], with strictly
// ascending axes. NaN denotes land or out-of-domain.
type Field struct {
	Time      []float64     // days since an external epoch, strictly ascending
	Longitude []float64     // strictly ascending, normalized to [-180, 180]
	Latitude  []float64     // strictly ascending, normalized to [-90, 90]
	Values    [][][]float64 // [t][lat][lon]
}

// NewField validates axis monotonicity and shape consistency.
func NewField(t, lon, lat []float64, values [][][]float64) (*Field, error) {
	if len(t) == 0 || len(lon) == 0 || len(lat) == 0 {
		return nil, ErrEmptyField
	}
	if !isStrictlyAscending(t) || !isStrictlyAscending(lon) || !isStrictlyAscending(lat) {
		return nil, ErrAxisNotAscending
	}

	return &Field{Time: t, Longitude: lon, Latitude: lat, Values: values}, nil
}

func isStrictlyAscending(axis []float64) bool {
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return false
		}
	}
	return true
}

// Sampler produces a callable over (t, lon, lat) -> float, trilinearly
// interpolating a Field windowed to [startDay, startDay+durationDays].
// t is a floating-point day index local to the window, i.e. t=0 is
// startDay.
type Sampler struct {
	field    *Field
	startIdx int
	endIdx   int
	// timeOffset is the window's start day, so that window-local t=0 maps
	// to absolute time start on the field's time axis.
	timeOffset float64
}

// NewSampler builds a sampler over the closed time window
// [start, start+durationDays] of field, selecting an index range of
// field.Time covering it (inclusive, matching the raster contract's
// inclusive date-range selection). The range starts one sample before the
// first sample at or after start, so when start falls exactly on a sample
// the range holds one extra sample before it.
func NewSampler(field *Field, start, durationDays float64) *Sampler {
	end := start + durationDays

	startIdx := 0
	for startIdx < len(field.Time) && field.Time[startIdx] < start {
		startIdx++
	}
	if startIdx > 0 {
		startIdx--
	}

	endIdx := startIdx
	for endIdx < len(field.Time)-1 && field.Time[endIdx] < end {
		endIdx++
	}

	return &Sampler{field: field, startIdx: startIdx, endIdx: endIdx, timeOffset: start}
}

// Sample trilinearly interpolates u(t, lon, lat). t is days since the
// sampler's window start. Returns NaN when any coordinate falls outside the
// closed bounding box spanned by the windowed axes, or when any of the
// eight corner samples is NaN.
func (s *Sampler) Sample(t, lon, lat float64) float64 {
	f := s.field

	absT := t + s.timeOffset

	ti0, ti1, tf := bracket(f.Time[s.startIdx:s.endIdx+1], absT)
	if ti0 < 0 {
		return math.NaN()
	}
	ti0 += s.startIdx
	ti1 += s.startIdx

	loni0, loni1, lonf := bracket(f.Longitude, lon)
	if loni0 < 0 {
		return math.NaN()
	}

	lati0, lati1, latf := bracket(f.Latitude, lat)
	if lati0 < 0 {
		return math.NaN()
	}

	c000 := f.Values[ti0][lati0][loni0]
	c001 := f.Values[ti0][lati0][loni1]
	c010 := f.Values[ti0][lati1][loni0]
	c011 := f.Values[ti0][lati1][loni1]
	c100 := f.Values[ti1][lati0][loni0]
	c101 := f.Values[ti1][lati0][loni1]
	c110 := f.Values[ti1][lati1][loni0]
	c111 := f.Values[ti1][lati1][loni1]

	c00 := lerp(c000, c001, lonf)
	c01 := lerp(c010, c011, lonf)
	c10 := lerp(c100, c101, lonf)
	c11 := lerp(c110, c111, lonf)

	c0 := lerp(c00, c01, latf)
	c1 := lerp(c10, c11, latf)

	return lerp(c0, c1, tf)
}

// bracket finds the pair of indices in a strictly ascending axis that
// bracket value, and the fractional position within [0, 1]. Returns
// (-1, -1, 0) when value lies outside the closed [axis[0], axis[n-1]] span.
func bracket(axis []float64, value float64) (i0, i1 int, frac float64) {
	n := len(axis)
	if n == 0 || value < axis[0] || value > axis[n-1] {
		return -1, -1, 0
	}
	if n == 1 {
		return 0, 0, 0
	}

	idx := ClosestIndex(axis, value)
	if idx == n-1 {
		idx = n - 2
	}
	if axis[idx] > value && idx > 0 {
		idx--
	}

	span := axis[idx+1] - axis[idx]
	if span == 0 {
		return idx, idx + 1, 0
	}

	return idx, idx + 1, (value - axis[idx]) / span
}

func lerp(a, b, frac float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	return a + (b-a)*frac
}

// NormalizeTimestamp truncates a timestamp to midnight UTC, matching the
// raster loader contract's "timestamps normalized to midnight UTC" rule.
func NormalizeTimestamp(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
