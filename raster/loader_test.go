package raster

import (
	"testing"
	"time"
)

func TestSelectInclusiveReturnsMatchingIndices(t *testing.T) {
	axis := []float64{-10, -5, 0, 5, 10}
	idx := selectInclusive(axis, -5, 5)

	want := []int{1, 2, 3}
	if len(idx) != len(want) {
		t.Fatalf("expected %v, got %v", want, idx)
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, idx)
		}
	}
}

func TestSelectInclusiveFallsBackToFirstIndexWhenRangeMisses(t *testing.T) {
	axis := []float64{100, 200, 300}
	idx := selectInclusive(axis, -10, -5)

	if len(idx) != 1 || idx[0] != 0 {
		t.Fatalf("expected fallback [0], got %v", idx)
	}
}

func TestSubset1DAndSubset3D(t *testing.T) {
	axis := []float64{1, 2, 3, 4}
	idx := []int{1, 3}

	got := subset1D(axis, idx)
	if got[0] != 2 || got[1] != 4 {
		t.Fatalf("expected [2 4], got %v", got)
	}

	cube := [][][]float64{
		{{1, 2, 3}, {4, 5, 6}},
		{{7, 8, 9}, {10, 11, 12}},
	}
	sub := subset3D(cube, []int{1}, []int{0, 1}, []int{2, 0})
	want := [][][]float64{{{9, 7}, {12, 10}}}

	for ti := range want {
		for li := range want[ti] {
			for loni := range want[ti][li] {
				if sub[ti][li][loni] != want[ti][li][loni] {
					t.Fatalf("expected %v, got %v", want, sub)
				}
			}
		}
	}
}

func TestSortAxisAndValuesReordersValuesWithAxis(t *testing.T) {
	lon := []float64{10, -10, 0}
	u := [][][]float64{{{1, 2, 3}}}
	v := [][][]float64{{{4, 5, 6}}}

	sortAxisAndValues(lon, u, v, lonAxis)

	if lon[0] != -10 || lon[1] != 0 || lon[2] != 10 {
		t.Fatalf("expected sorted axis [-10 0 10], got %v", lon)
	}
	// original row was [1 2 3] at lon [10 -10 0]; sorted by lon -> [-10 0 10]
	// corresponds to original values [2 3 1].
	if u[0][0][0] != 2 || u[0][0][1] != 3 || u[0][0][2] != 1 {
		t.Fatalf("expected values permuted with axis, got %v", u[0][0])
	}
}

func TestNormalizeLongitudesReordersEastThenWest(t *testing.T) {
	raw := &rawGrid{
		longitude: []float64{350, 0, 10},
		latitude:  []float64{0, 1},
		u: [][][]float64{
			{{1, 2, 3}, {4, 5, 6}},
		},
		v: [][][]float64{
			{{10, 20, 30}, {40, 50, 60}},
		},
	}

	normalizeLongitudes(raw)

	for i := 1; i < len(raw.longitude); i++ {
		if raw.longitude[i] < raw.longitude[i-1] {
			t.Fatalf("expected ascending longitude after normalization, got %v", raw.longitude)
		}
	}
}

func TestEnsureAscendingLatitudeSortsInPlace(t *testing.T) {
	raw := &rawGrid{
		longitude: []float64{0, 1},
		latitude:  []float64{10, -10},
		u:         [][][]float64{{{1, 2}, {3, 4}}},
		v:         [][][]float64{{{5, 6}, {7, 8}}},
	}

	ensureAscendingLatitude(raw)

	if raw.latitude[0] != -10 || raw.latitude[1] != 10 {
		t.Fatalf("expected ascending latitude, got %v", raw.latitude)
	}
	if raw.u[0][0][0] != 3 || raw.u[0][0][1] != 4 {
		t.Fatalf("expected row permuted with latitude, got %v", raw.u[0][0])
	}
}

func TestDaysSinceEpochAndRebaseTime(t *testing.T) {
	day := daysSinceEpoch(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC))
	if day != 1 {
		t.Fatalf("expected 1 day since epoch, got %v", day)
	}

	rebased := rebaseTime([]float64{5, 6, 7}, []int{0, 1, 2}, 5)
	want := []float64{0, 1, 2}
	for i := range want {
		if rebased[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, rebased)
		}
	}
}
