package voyager

import (
	"math"
	"testing"

	"github.com/waahlstrand/voyager-go/search"
)

func TestNewVesselDirectRouteTargetsDestination(t *testing.T) {
	dest := Point{Lon: 5, Lat: 5}
	v := NewVessel(Point{Lon: 0, Lat: 0}, 1, ModeDrift, dest, DriftParams{})

	if v.Target != dest {
		t.Fatalf("expected direct-route vessel to target its destination, got %v", v.Target)
	}
	if !v.Route.Empty() {
		t.Fatalf("expected route to be fully consumed after popping the only waypoint")
	}
	if len(v.RouteTaken) != 1 || v.RouteTaken[0] != dest {
		t.Fatalf("expected RouteTaken to record the single destination waypoint, got %v", v.RouteTaken)
	}
}

func TestUpdateDistanceAccumulatesEuclideanNorm(t *testing.T) {
	v := &Vessel{}
	v.UpdateDistance(3, 4)
	if v.Distance != 5 {
		t.Fatalf("expected 5 (3-4-5 triangle), got %v", v.Distance)
	}
	v.UpdateDistance(3, 4)
	if v.Distance != 10 {
		t.Fatalf("expected accumulation to 10, got %v", v.Distance)
	}
}

func TestUpdateMeanSpeed(t *testing.T) {
	v := &Vessel{Distance: 100, Trajectory: make([]Point, 10)}
	v.UpdateMeanSpeed(3600) // 1-hour steps

	// mean speed = distance / (n_steps * dt_hours) = 100 / (10 * 1) = 10 km/h
	if math.Abs(v.MeanSpeed-10) > 1e-9 {
		t.Fatalf("expected 10 km/h, got %v", v.MeanSpeed)
	}
}

func TestHasArrivedAdvancesThroughIntermediateWaypoints(t *testing.T) {
	dest := Point{Lon: 0, Lat: 0}
	mid := Point{Lon: 1, Lat: 1}
	route := NewRoute([]Point{dest, mid})

	v := &Vessel{Route: route, Target: route.Pop()} // Target = mid

	if v.Target != mid {
		t.Fatalf("setup error: expected target mid, got %v", v.Target)
	}

	if v.HasArrived(mid, 0.01) {
		t.Fatalf("expected HasArrived to advance to the next waypoint, not report final arrival")
	}
	if v.Target != dest {
		t.Fatalf("expected target to advance to destination, got %v", v.Target)
	}

	if !v.HasArrived(dest, 0.01) {
		t.Fatalf("expected final arrival once the route is empty")
	}
}

func TestHasArrivedFalseOutsideTolerance(t *testing.T) {
	v := &Vessel{Route: NewRoute(nil), Target: Point{Lon: 0, Lat: 0}}
	if v.HasArrived(Point{Lon: 10, Lat: 10}, 0.01) {
		t.Fatalf("expected HasArrived false when far outside tolerance")
	}
}

func TestVesselsFromPositionsSkipsWallStarts(t *testing.T) {
	nan := math.NaN()
	slice := [][]float64{
		{nan, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	}

	chart := &Chart{
		Longitude: []float64{0, 1, 2},
		Latitude:  []float64{0, 1, 2},
		Grid:      search.NewNavigationGrid(slice, []float64{5}, []int{0}),
	}

	wallStart := Point{Lon: 0, Lat: 0} // nearest cell (row 0, col 0) is land
	openStart := Point{Lon: 2, Lat: 2}
	dest := Point{Lon: 1, Lat: 1}

	vessels, failures := VesselsFromPositions([]Point{wallStart, openStart}, chart, dest, 1, 1, ModeDrift, DriftParams{})

	if len(vessels) != 1 {
		t.Fatalf("expected exactly one vessel to route successfully, got %d", len(vessels))
	}
	if len(failures) != 1 {
		t.Fatalf("expected exactly one routing failure, got %d", len(failures))
	}
	if failures[0].Err != ErrStartIsWall {
		t.Fatalf("expected ErrStartIsWall, got %v", failures[0].Err)
	}
}

func TestToRecordUsesVesselsOwnRoute(t *testing.T) {
	dest := Point{Lon: 0, Lat: 0}
	v := NewVessel(Point{Lon: 5, Lat: 5}, 1, ModeDrift, dest, DriftParams{})
	v.Termination = TerminationArrived

	rec := v.ToRecord("2024-01-01", "2024-01-02", 3600)

	if len(rec.Route) != len(v.RouteTaken) {
		t.Fatalf("expected TrajectoryRecord.Route to mirror vessel.RouteTaken, got %v vs %v", rec.Route, v.RouteTaken)
	}
	if rec.Destination != dest {
		t.Fatalf("expected destination %v, got %v", dest, rec.Destination)
	}
}
