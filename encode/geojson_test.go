package encode

import (
	"encoding/json"
	"strings"
	"testing"

	voyager "github.com/waahlstrand/voyager-go"
)

func sampleRecord() voyager.TrajectoryRecord {
	return voyager.TrajectoryRecord{
		LaunchDate:  "2024-01-01",
		StopDate:    "2024-01-05",
		Timestep:    3600,
		Trajectory:  []voyager.Point{{Lon: 10, Lat: 20}, {Lon: 11, Lat: 21}},
		Distance:    123.4,
		MeanSpeed:   5.6,
		Route:       []voyager.Point{{Lon: 10, Lat: 20}, {Lon: 12, Lat: 22}, {Lon: 15, Lat: 25}},
		Destination: voyager.Point{Lon: 15, Lat: 25},
		Termination: voyager.TerminationArrived,
	}
}

func TestToFeatureBuildsLineStringFromTrajectory(t *testing.T) {
	f := ToFeature(sampleRecord())

	if f.Type != "Feature" {
		t.Fatalf("expected Feature type, got %q", f.Type)
	}
	if f.Geometry.Type != "LineString" {
		t.Fatalf("expected LineString geometry, got %q", f.Geometry.Type)
	}
	if len(f.Geometry.Coordinates) != 2 {
		t.Fatalf("expected 2 coordinate pairs, got %d", len(f.Geometry.Coordinates))
	}
	if f.Geometry.Coordinates[0][0] != 10 || f.Geometry.Coordinates[0][1] != 20 {
		t.Fatalf("expected [lon,lat] ordering, got %v", f.Geometry.Coordinates[0])
	}
	if f.Properties.Termination != "arrived" {
		t.Fatalf("expected termination string 'arrived', got %q", f.Properties.Termination)
	}
	if f.Properties.Destination[0] != 15 || f.Properties.Destination[1] != 25 {
		t.Fatalf("expected destination [15,25], got %v", f.Properties.Destination)
	}
	if len(f.Properties.Route) != 3 {
		t.Fatalf("expected 3 route points, got %d", len(f.Properties.Route))
	}
	if f.Properties.Route[1][0] != 12 || f.Properties.Route[1][1] != 22 {
		t.Fatalf("expected [lon,lat] ordering in route, got %v", f.Properties.Route[1])
	}
}

func TestToFeatureRoutePropertyRoundTripsThroughJSON(t *testing.T) {
	fc := ToFeatureCollection([]voyager.TrajectoryRecord{sampleRecord()})

	out, err := Marshal(fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var roundTrip FeatureCollection
	if err := json.Unmarshal(out, &roundTrip); err != nil {
		t.Fatalf("expected marshaled output to round-trip, got error: %v", err)
	}

	route := roundTrip.Features[0].Properties.Route
	if len(route) != 3 {
		t.Fatalf("expected 3 route points after round-trip, got %d", len(route))
	}
	for i, want := range [][]float64{{10, 20}, {12, 22}, {15, 25}} {
		if route[i][0] != want[0] || route[i][1] != want[1] {
			t.Fatalf("expected route point %d to be %v, got %v", i, want, route[i])
		}
	}
}

func TestToFeatureCollectionPreservesRecordOrder(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.LaunchDate = "2024-02-02"

	fc := ToFeatureCollection([]voyager.TrajectoryRecord{a, b})

	if fc.Type != "FeatureCollection" {
		t.Fatalf("expected FeatureCollection type, got %q", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
	if fc.Features[1].Properties.LaunchDate != "2024-02-02" {
		t.Fatalf("expected second feature's launch date preserved, got %q", fc.Features[1].Properties.LaunchDate)
	}
}

func TestAggregateLaunchDayIgnoresFailures(t *testing.T) {
	result := &voyager.LaunchResult{
		LaunchDate: "2024-01-01",
		Records:    []voyager.TrajectoryRecord{sampleRecord()},
		Failures:   []*voyager.VesselError{{Craft: 1, Err: voyager.ErrStartIsWall}},
	}

	fc := AggregateLaunchDay(result)
	if len(fc.Features) != 1 {
		t.Fatalf("expected only the successful record to be aggregated, got %d features", len(fc.Features))
	}
}

func TestMarshalProducesIndentedJSON(t *testing.T) {
	fc := ToFeatureCollection([]voyager.TrajectoryRecord{sampleRecord()})

	out, err := Marshal(fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "\n    \"") {
		t.Fatalf("expected four-space indented JSON, got %s", out)
	}

	var roundTrip FeatureCollection
	if err := json.Unmarshal(out, &roundTrip); err != nil {
		t.Fatalf("expected marshaled output to round-trip, got error: %v", err)
	}
	if len(roundTrip.Features) != 1 {
		t.Fatalf("expected 1 feature after round-trip, got %d", len(roundTrip.Features))
	}
}
