package voyager

import (
	"errors"
)

// Configuration errors, raised at vessel construction; fatal for that vessel.
var ErrUnknownMode = errors.New("Unknown Vessel Mode")
var ErrUnknownCraft = errors.New("Unknown Craft Id")
var ErrMissingParams = errors.New("Missing Vessel Parameters")

// Routing failures, raised by the route builder; the vessel is never created.
var ErrNoRoute = errors.New("No Possible Route")
var ErrStartIsWall = errors.New("Start Cell Is A Wall")
var ErrGoalIsWall = errors.New("Goal Cell Is A Wall")

// Invalid runtime values, should never occur with well-formed inputs.
var ErrNonFiniteDisplacement = errors.New("Non Finite Displacement")
var ErrInvalidPosition = errors.New("Invalid Vessel Position")

// Forcing / raster contract errors.
var ErrEmptyField = errors.New("Empty Forcing Field")
var ErrAxisNotAscending = errors.New("Axis Is Not Strictly Ascending")
var ErrUnknownSource = errors.New("Source Must Be Currents Or Winds")

// Persistence errors.
var ErrCreateChartSchema = errors.New("Error Creating Chart TileDB Schema")
var ErrCreateChartArray = errors.New("Error Creating Chart TileDB Array")
var ErrWriteChartArray = errors.New("Error Writing Chart TileDB Array")
var ErrReadChartArray = errors.New("Error Reading Chart TileDB Array")

// VesselError carries a per-vessel failure out of a batch run without
// aborting the other vessels launched the same day.
type VesselError struct {
	Craft          int
	DeparturePoint [2]float64
	Err            error
}

func (e *VesselError) Error() string {
	return e.Err.Error()
}

func (e *VesselError) Unwrap() error {
	return e.Err
}
