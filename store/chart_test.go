package store

import (
	"encoding/json"
	"testing"
	"time"

	voyager "github.com/waahlstrand/voyager-go"
)

func TestFlattenFieldIsRowMajorTLatLon(t *testing.T) {
	values := [][][]float64{
		{{1, 2}, {3, 4}}, // t=0
		{{5, 6}, {7, 8}}, // t=1
	}
	f := &voyager.Field{
		Time:      []float64{0, 1},
		Latitude:  []float64{0, 1},
		Longitude: []float64{0, 1},
		Values:    values,
	}

	flat := flattenField(f)
	want := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	if len(flat) != len(want) {
		t.Fatalf("expected length %d, got %d", len(want), len(flat))
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, flat)
		}
	}
}

func TestUnflattenInvertsFlattenField(t *testing.T) {
	flat := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	values := unflatten(flat, 2, 2, 2)

	if values[1][1][1] != 8 {
		t.Fatalf("expected values[1][1][1]==8, got %v", values[1][1][1])
	}
	if values[0][0][0] != 1 || values[0][1][0] != 3 {
		t.Fatalf("unexpected reshape: %v", values)
	}

	f := &voyager.Field{
		Time:      []float64{0, 1},
		Latitude:  []float64{0, 1},
		Longitude: []float64{0, 1},
		Values:    values,
	}
	roundTrip := flattenField(f)
	for i := range flat {
		if roundTrip[i] != flat[i] {
			t.Fatalf("expected flatten(unflatten(x)) == x, got %v want %v", roundTrip, flat)
		}
	}
}

func TestAxesMetadataJSONRoundTrip(t *testing.T) {
	meta := axesMetadata{
		BBox:      voyager.BoundingBox{LonMin: -10, LatMin: -5, LonMax: 10, LatMax: 5},
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Time:      []float64{0, 1, 2},
		Longitude: []float64{-10, 0, 10},
		Latitude:  []float64{-5, 0, 5},
	}

	blob, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	var out axesMetadata
	if err := json.Unmarshal(blob, &out); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}

	if !out.StartDate.Equal(meta.StartDate) || !out.EndDate.Equal(meta.EndDate) {
		t.Fatalf("expected dates to round-trip, got %v / %v", out.StartDate, out.EndDate)
	}
	if out.BBox != meta.BBox {
		t.Fatalf("expected bbox to round-trip, got %v", out.BBox)
	}
	if len(out.Time) != 3 || out.Longitude[2] != 10 {
		t.Fatalf("expected axes to round-trip, got %v", out)
	}
}
