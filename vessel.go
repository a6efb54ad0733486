package voyager

import (
	"math"

	"github.com/waahlstrand/voyager-go/search"
)

// TerminationCause records why an integrator run stopped.
type TerminationCause int

const (
	TerminationTimeExhausted TerminationCause = iota
	TerminationLandfall
	TerminationArrived
)

func (t TerminationCause) String() string {
	switch t {
	case TerminationLandfall:
		return "landfall"
	case TerminationArrived:
		return "arrived"
	default:
		return "time_exhausted"
	}
}

// Vessel is a single agent traversing the ocean: position, mode, craft
// parameters, route, and accumulated trajectory state. Created at launch,
// mutated only by the integrator, frozen on termination.
type Vessel struct {
	Craft int
	Mode  Mode

	Position    Point
	Destination Point

	Route      *Route
	Target     Point
	RouteTaken []Point // the full waypoint list as planned at launch, destination-first

	Params any

	Trajectory  []Point
	Distance    float64 // km
	MeanSpeed   float64 // km/h
	Termination TerminationCause
}

// NewVessel constructs a vessel with no route (direct travel toward
// Destination with no intermediate waypoints) — used when chart/destination
// routing isn't requested.
func NewVessel(position Point, craft int, mode Mode, destination Point, params any) *Vessel {
	route := NewRoute([]Point{destination})

	v := &Vessel{
		Craft:       craft,
		Mode:        mode,
		Position:    position,
		Destination: destination,
		Params:      params,
		Trajectory:  []Point{position},
	}
	v.Route = route
	v.RouteTaken = route.Taken()
	v.Target = v.Route.Pop()

	return v
}

// NewVesselFromPosition builds a vessel whose route is computed by A* over
// chart's NavigationGrid from position to destination, downsampled every
// `interval` cells. Returns ErrStartIsWall or ErrGoalIsWall when the start
// or goal cell is land, and ErrNoRoute when no path exists — the vessel is
// never constructed, per spec.md §7.
func NewVesselFromPosition(position Point, chart *Chart, destination Point, interval int, craft int, mode Mode, params any) (*Vessel, error) {
	startCell := search.Position{
		Row: ClosestIndex(chart.Latitude, position.Lat),
		Col: ClosestIndex(chart.Longitude, position.Lon),
	}
	goalCell := search.Position{
		Row: ClosestIndex(chart.Latitude, destination.Lat),
		Col: ClosestIndex(chart.Longitude, destination.Lon),
	}

	if chart.Grid.Walls[startCell] {
		return nil, ErrStartIsWall
	}
	if chart.Grid.Walls[goalCell] {
		return nil, ErrGoalIsWall
	}

	waypoints, ok := search.BuildRoute(chart.Grid, startCell, goalCell, interval, chart.Longitude, chart.Latitude)
	if !ok {
		return nil, ErrNoRoute
	}

	points := make([]Point, len(waypoints))
	for i, w := range waypoints {
		points[i] = Point{Lon: w.Lon, Lat: w.Lat}
	}

	route := NewRoute(points)

	v := &Vessel{
		Craft:       craft,
		Mode:        mode,
		Position:    position,
		Destination: destination,
		Params:      params,
		Trajectory:  []Point{position},
	}
	v.Route = route
	v.RouteTaken = route.Taken()
	v.Target = v.Route.Pop()

	return v, nil
}

// VesselsFromPositions builds one vessel per departure point, skipping (and
// reporting) any that fail to route, matching spec.md §7's "the vessel is
// not created and the traverser records a skip".
func VesselsFromPositions(positions []Point, chart *Chart, destination Point, interval int, craft int, mode Mode, params any) (vessels []*Vessel, failures []*VesselError) {
	for _, p := range positions {
		v, err := NewVesselFromPosition(p, chart, destination, interval, craft, mode, params)
		if err != nil {
			failures = append(failures, &VesselError{Craft: craft, DeparturePoint: [2]float64{p.Lon, p.Lat}, Err: err})
			continue
		}
		vessels = append(vessels, v)
	}
	return vessels, failures
}

// UpdatePosition records a new position onto the trajectory.
func (v *Vessel) UpdatePosition(p Point) {
	v.Position = p
	v.Trajectory = append(v.Trajectory, p)
}

// UpdateDistance accumulates the Euclidean (dx, dy) displacement, in km,
// into the cumulative distance.
func (v *Vessel) UpdateDistance(dx, dy float64) {
	v.Distance += math.Hypot(dx, dy)
}

// UpdateMeanSpeed recomputes mean speed (km/h) from cumulative distance and
// trajectory length, exactly per spec.md §8: distance / (len(trajectory) *
// dt/3600).
func (v *Vessel) UpdateMeanSpeed(dt float64) {
	const secondsPerHour = 3600
	v.MeanSpeed = v.Distance / (float64(len(v.Trajectory)) * dt / secondsPerHour)
}

// HasArrived reports whether position is within targetTol km of the current
// target; if so and the route still holds waypoints, it advances Target to
// the next one and returns false (not yet finally arrived). If the route is
// empty, it returns true (final arrival).
func (v *Vessel) HasArrived(position Point, targetTol float64) bool {
	if DistanceKm(position, v.Target) > targetTol {
		return false
	}

	if !v.Route.Empty() {
		v.Target = v.Route.Pop()
		return false
	}

	return true
}

// ToRecord freezes the vessel's state into a TrajectoryRecord.
func (v *Vessel) ToRecord(launchDate, stopDate string, dt float64) TrajectoryRecord {
	return TrajectoryRecord{
		LaunchDate:  launchDate,
		StopDate:    stopDate,
		Timestep:    dt,
		Trajectory:  v.Trajectory,
		Distance:    v.Distance,
		MeanSpeed:   v.MeanSpeed,
		Route:       v.RouteTaken,
		Destination: v.Destination,
		Termination: v.Termination,
	}
}
