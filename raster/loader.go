package raster

import (
	"sort"
	"time"

	voyager "github.com/waahlstrand/voyager-go"
)

// epoch is the reference point for the on-disk time axis: days since the
// Unix epoch, UTC midnight.
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// MemoryLoader is a reference voyager.RasterLoader: it reads the package's
// binary grid format from disk (or, with InMemory set, slurps it into a
// byte buffer first, mirroring the teacher's in-memory GSF flag) and
// performs the normalization and selection the raster loader contract
// requires. It has no opinion on where currents/winds data actually comes
// from — it's the loader used by tests and the CLI's run command when no
// richer pipeline is configured.
type MemoryLoader struct {
	CurrentsPath string
	WindsPath    string
	InMemory     bool
}

// NewMemoryLoader builds a loader over the given currents and winds grid
// files.
func NewMemoryLoader(currentsPath, windsPath string, inMemory bool) *MemoryLoader {
	return &MemoryLoader{CurrentsPath: currentsPath, WindsPath: windsPath, InMemory: inMemory}
}

// LoadCurrents satisfies voyager.RasterLoader.
func (m *MemoryLoader) LoadCurrents(start, end time.Time, bbox voyager.BoundingBox) (*voyager.Field, *voyager.Field, error) {
	return m.load(m.CurrentsPath, start, end, bbox)
}

// LoadWinds satisfies voyager.RasterLoader.
func (m *MemoryLoader) LoadWinds(start, end time.Time, bbox voyager.BoundingBox) (*voyager.Field, *voyager.Field, error) {
	return m.load(m.WindsPath, start, end, bbox)
}

func (m *MemoryLoader) load(path string, start, end time.Time, bbox voyager.BoundingBox) (*voyager.Field, *voyager.Field, error) {
	stream, closeFn, err := openStream(path, m.InMemory)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	raw, err := readGrid(stream)
	if err != nil {
		return nil, nil, err
	}

	normalizeLongitudes(raw)
	ensureAscendingLatitude(raw)

	startDays := daysSinceEpoch(voyager.NormalizeTimestamp(start))
	endDays := daysSinceEpoch(voyager.NormalizeTimestamp(end))

	tIdx := selectInclusive(raw.time, startDays, endDays)
	lonIdx := selectInclusive(raw.longitude, bbox.LonMin, bbox.LonMax)
	latIdx := selectInclusive(raw.latitude, bbox.LatMin, bbox.LatMax)

	t := rebaseTime(raw.time, tIdx, startDays)
	lon := subset1D(raw.longitude, lonIdx)
	lat := subset1D(raw.latitude, latIdx)

	uValues := subset3D(raw.u, tIdx, latIdx, lonIdx)
	vValues := subset3D(raw.v, tIdx, latIdx, lonIdx)

	u, err := voyager.NewField(t, lon, lat, uValues)
	if err != nil {
		return nil, nil, err
	}
	v, err := voyager.NewField(t, lon, lat, vValues)
	if err != nil {
		return nil, nil, err
	}

	return u, v, nil
}

func daysSinceEpoch(t time.Time) float64 {
	return t.Sub(epoch).Hours() / 24
}

// rebaseTime shifts the selected time samples so the window's start maps to
// t=0, matching Chart.Load's expectation that the shoreline-contour sample
// lives at Time==0.
func rebaseTime(raw []float64, idx []int, startDays float64) []float64 {
	out := make([]float64, len(idx))
	for i, ri := range idx {
		out[i] = raw[ri] - startDays
	}
	return out
}

// normalizeLongitudes applies the contract's (180, 360] -> (-180, 0] remap
// and east/west reordering (voyager.NormalizeLongitude), then permutes the
// value cubes' longitude axis to match — the shared function only reorders
// a bare axis slice, so the permutation is re-derived here with the same
// east-then-west partition rule to keep both in lockstep.
func normalizeLongitudes(raw *rawGrid) {
	order := make([]int, 0, len(raw.longitude))
	for i, v := range raw.longitude {
		if v >= 0 && v <= 180 {
			order = append(order, i)
		}
	}
	for i, v := range raw.longitude {
		if v > 180 && v <= 360 {
			order = append(order, i)
		}
	}

	raw.longitude = voyager.NormalizeLongitude(raw.longitude)
	permuteAxis(order, raw.u, raw.v, lonAxis)

	if !sort.Float64sAreSorted(raw.longitude) {
		sortAxisAndValues(raw.longitude, raw.u, raw.v, lonAxis)
	}
}

// permuteAxis reorders the lon or lat dimension of each value cube according
// to order (order[newIndex] = oldIndex), without touching the axis slice
// itself (the caller has already produced the reordered axis separately).
func permuteAxis(order []int, u, v [][][]float64, kind axisKind) {
	n := len(order)
	for _, cube := range [][][][]float64{u, v} {
		for ti := range cube {
			switch kind {
			case latAxis:
				reordered := make([][]float64, n)
				for i, oi := range order {
					reordered[i] = cube[ti][oi]
				}
				copy(cube[ti], reordered)
			case lonAxis:
				for li := range cube[ti] {
					row := cube[ti][li]
					reordered := make([]float64, n)
					for i, oi := range order {
						reordered[i] = row[oi]
					}
					copy(row, reordered)
				}
			}
		}
	}
}

func ensureAscendingLatitude(raw *rawGrid) {
	if sort.Float64sAreSorted(raw.latitude) {
		return
	}
	sortAxisAndValues(raw.latitude, raw.u, raw.v, latAxis)
}

type axisKind int

const (
	lonAxis axisKind = iota
	latAxis
)

// sortAxisAndValues reorders axis in place to ascending order, permuting
// the matching dimension of each [t][lat][lon] value cube the same way.
func sortAxisAndValues(axis []float64, u, v [][][]float64, kind axisKind) {
	n := len(axis)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return axis[order[i]] < axis[order[j]] })

	sorted := make([]float64, n)
	for i, oi := range order {
		sorted[i] = axis[oi]
	}
	copy(axis, sorted)

	for _, cube := range [][][][]float64{u, v} {
		for ti := range cube {
			switch kind {
			case latAxis:
				reordered := make([][]float64, n)
				for i, oi := range order {
					reordered[i] = cube[ti][oi]
				}
				copy(cube[ti], reordered)
			case lonAxis:
				for li := range cube[ti] {
					row := cube[ti][li]
					reordered := make([]float64, n)
					for i, oi := range order {
						reordered[i] = row[oi]
					}
					copy(row, reordered)
				}
			}
		}
	}
}

// selectInclusive returns the indices of axis falling within [lo, hi].
func selectInclusive(axis []float64, lo, hi float64) []int {
	var idx []int
	for i, v := range axis {
		if v >= lo && v <= hi {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 && len(axis) > 0 {
		idx = []int{0}
	}
	return idx
}

func subset1D(axis []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, ai := range idx {
		out[i] = axis[ai]
	}
	return out
}

func subset3D(cube [][][]float64, tIdx, latIdx, lonIdx []int) [][][]float64 {
	out := make([][][]float64, len(tIdx))
	for oi, ti := range tIdx {
		out[oi] = make([][]float64, len(latIdx))
		for oj, li := range latIdx {
			row := make([]float64, len(lonIdx))
			for ok, loni := range lonIdx {
				row[ok] = cube[ti][li][loni]
			}
			out[oi][oj] = row
		}
	}
	return out
}
