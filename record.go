package voyager

// TrajectoryRecord is the frozen output of a single vessel's run: launch
// date, timestep, full coordinate list, cumulative distance, mean speed,
// route taken, destination, and termination cause.
type TrajectoryRecord struct {
	LaunchDate  string
	StopDate    string
	Timestep    float64 // seconds
	Trajectory  []Point
	Distance    float64 // km
	MeanSpeed   float64 // km/h
	Route       []Point
	Destination Point
	Termination TerminationCause
}
