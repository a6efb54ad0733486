package voyager

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/waahlstrand/voyager-go/search"
)

// Chart owns the four forcing fields (u/v current, u/v wind) and the
// derived NavigationGrid for a bounding box and date range. It is loaded
// once and is immutable for the lifetime of a traverser run; Interpolate
// rebinds per-launch sampler views without touching the underlying data.
type Chart struct {
	BBox      BoundingBox
	StartDate time.Time
	EndDate   time.Time

	UCurrentAll *Field
	VCurrentAll *Field
	UWindAll    *Field
	VWindAll    *Field

	Longitude []float64
	Latitude  []float64

	Grid *search.NavigationGrid

	UCurrent *Sampler
	VCurrent *Sampler
	UWind    *Sampler
	VWind    *Sampler
}

// ContourOptions configures the shoreline-contour dilation bands used to
// build the NavigationGrid (spec.md §4.3).
type ContourOptions struct {
	Weights    []float64
	Iterations []int
}

// DefaultContourOptions matches the two-band default of the Python original
// (voyager/search.py's WeightedGrid.create_shoreline_contour).
func DefaultContourOptions() ContourOptions {
	return ContourOptions{Weights: []float64{5, 0.5}, Iterations: []int{1, 4}}
}

// NewChart constructs an empty Chart over bbox and [start, end].
func NewChart(bbox BoundingBox, start, end time.Time) *Chart {
	return &Chart{BBox: bbox, StartDate: start, EndDate: end}
}

// Load fetches the four forcing fields via loader and builds the
// NavigationGrid from the u_current slice at StartDate.
func (c *Chart) Load(loader RasterLoader, opts ContourOptions) error {
	uc, vc, err := loader.LoadCurrents(c.StartDate, c.EndDate, c.BBox)
	if err != nil {
		return err
	}

	uw, vw, err := loader.LoadWinds(c.StartDate, c.EndDate, c.BBox)
	if err != nil {
		return err
	}

	c.UCurrentAll, c.VCurrentAll = uc, vc
	c.UWindAll, c.VWindAll = uw, vw
	c.Longitude, c.Latitude = uc.Longitude, uc.Latitude

	startIdx := 0
	for i, t := range uc.Time {
		if t == 0 {
			startIdx = i
			break
		}
	}
	c.Grid = search.NewNavigationGrid(uc.Values[startIdx], opts.Weights, opts.Iterations)

	return nil
}

// Interpolate rebinds the four samplers to the window [date, date+duration]
// days, using Julian day numbers to compute date's offset from StartDate —
// the same calendar-arithmetic library the teacher reaches for in
// decode/params.go's parse_reftime.
func (c *Chart) Interpolate(date time.Time, durationDays float64) {
	startDay := julianDayOffset(c.StartDate, date)

	c.UCurrent = NewSampler(c.UCurrentAll, startDay, durationDays)
	c.VCurrent = NewSampler(c.VCurrentAll, startDay, durationDays)
	c.UWind = NewSampler(c.UWindAll, startDay, durationDays)
	c.VWind = NewSampler(c.VWindAll, startDay, durationDays)
}

// julianDayOffset returns the number of days between base and date,
// including any fraction from the hour and minute of each (seconds are
// ignored), computed via Julian day numbers rather than naive time.Sub, so
// that calendar edge cases (leap days, DST-naive UTC dates) line up with
// the rest of the date handling in this package.
func julianDayOffset(base, date time.Time) float64 {
	jdBase := julian.CalendarGregorianToJD(base.Year(), int(base.Month()), dayFraction(base))
	jdDate := julian.CalendarGregorianToJD(date.Year(), int(date.Month()), dayFraction(date))
	return jdDate - jdBase
}

func dayFraction(t time.Time) float64 {
	u := t.UTC()
	return float64(u.Day()) + float64(u.Hour())/24 + float64(u.Minute())/1440
}
