package search

// Waypoint is a (longitude, latitude) point resolved from a grid cell via
// axis lookup.
type Waypoint struct {
	Lon float64
	Lat float64
}

// Downsample keeps element 0, every interval-th element of path[1:len-2],
// and the final element — mirroring the source's Python slice
// route[1:-2:interval] with the last element appended separately. This
// includes the source's observed edge-case behaviour: a single-cell path
// yields a duplicated waypoint.
func Downsample(path []Position, interval int) []Position {
	n := len(path)
	if n == 0 {
		return nil
	}
	if interval <= 0 {
		interval = 1
	}

	out := make([]Position, 0, n)
	out = append(out, path[0])

	stop := n - 2
	for i := 1; i < stop; i += interval {
		out = append(out, path[i])
	}

	out = append(out, path[n-1])

	return out
}

// ToWaypoints maps a cell path to (lon, lat) via axis lookup.
func ToWaypoints(path []Position, longitude, latitude []float64) []Waypoint {
	out := make([]Waypoint, len(path))
	for i, p := range path {
		out[i] = Waypoint{Lon: longitude[p.Col], Lat: latitude[p.Row]}
	}
	return out
}

// Reverse returns a new slice with waypoints in reverse order, so that the
// final destination sits at index 0 and the first intermediate waypoint is
// at the end — the orientation Route.Pop relies on.
func Reverse(waypoints []Waypoint) []Waypoint {
	out := make([]Waypoint, len(waypoints))
	for i, w := range waypoints {
		out[len(waypoints)-1-i] = w
	}
	return out
}

// BuildRoute runs A*, reconstructs the path, downsamples it at the given
// interval, maps it to (lon, lat), and reverses it so pop() yields the next
// waypoint first. ok is false when no route exists between start and goal.
func BuildRoute(grid *NavigationGrid, start, goal Position, interval int, longitude, latitude []float64) (waypoints []Waypoint, ok bool) {
	cameFrom, _ := NewAstar(grid).Search(start, goal)

	path, found := ReconstructPath(cameFrom, start, goal)
	if !found {
		return nil, false
	}

	downsampled := Downsample(path, interval)
	waypoints = ToWaypoints(downsampled, longitude, latitude)
	waypoints = Reverse(waypoints)

	return waypoints, true
}
