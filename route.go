package voyager

// Route is an ordered sequence of waypoints stored so that Pop yields the
// next target; the final destination sits at index 0 (after the search
// package's reversal) and is popped last. A route is non-empty at creation;
// once emptied the vessel has arrived.
type Route struct {
	waypoints []Point
}

// NewRoute wraps an already-oriented waypoint list (destination at index 0,
// as produced by search.BuildRoute) into a Route.
func NewRoute(waypoints []Point) *Route {
	r := &Route{waypoints: make([]Point, len(waypoints))}
	copy(r.waypoints, waypoints)
	return r
}

// Taken returns a copy of the remaining waypoints, in their stored
// (destination-first) order, for recording on a TrajectoryRecord.
func (r *Route) Taken() []Point {
	out := make([]Point, len(r.waypoints))
	copy(out, r.waypoints)
	return out
}

// Empty reports whether the route has been fully consumed.
func (r *Route) Empty() bool {
	return len(r.waypoints) == 0
}

// Pop removes and returns the next target: the last element of the stored
// slice. Panics if the route is empty — callers must check Empty first.
func (r *Route) Pop() Point {
	n := len(r.waypoints)
	next := r.waypoints[n-1]
	r.waypoints = r.waypoints[:n-1]
	return next
}
