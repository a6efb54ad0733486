// Package encode serialises trajectory results to GeoJSON, grounded in the
// teacher's encode/json.go stream-based JSON writer and the Python
// original's utils.to_GeoJSON / vessel.py Vessel.to_GeoJSON.
package encode

import (
	"encoding/json"

	voyager "github.com/waahlstrand/voyager-go"
)

// Geometry is a GeoJSON LineString: a vessel's full trajectory.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// Properties carries everything about a run that isn't geometry.
type Properties struct {
	LaunchDate  string      `json:"launch_date"`
	StopDate    string      `json:"stop_date"`
	Timestep    float64     `json:"timestep_seconds"`
	Distance    float64     `json:"distance_km"`
	MeanSpeed   float64     `json:"mean_speed_kmh"`
	Route       [][]float64 `json:"route"`
	Destination []float64   `json:"destination"`
	Termination string      `json:"termination"`
}

// Feature is one vessel's trajectory as a GeoJSON Feature.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// FeatureCollection is the top-level GeoJSON document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ToFeature converts a single TrajectoryRecord into a GeoJSON Feature.
func ToFeature(rec voyager.TrajectoryRecord) Feature {
	coords := make([][]float64, len(rec.Trajectory))
	for i, p := range rec.Trajectory {
		coords[i] = []float64{p.Lon, p.Lat}
	}

	route := make([][]float64, len(rec.Route))
	for i, p := range rec.Route {
		route[i] = []float64{p.Lon, p.Lat}
	}

	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "LineString",
			Coordinates: coords,
		},
		Properties: Properties{
			LaunchDate:  rec.LaunchDate,
			StopDate:    rec.StopDate,
			Timestep:    rec.Timestep,
			Distance:    rec.Distance,
			MeanSpeed:   rec.MeanSpeed,
			Route:       route,
			Destination: []float64{rec.Destination.Lon, rec.Destination.Lat},
			Termination: rec.Termination.String(),
		},
	}
}

// ToFeatureCollection builds a single FeatureCollection holding one Feature
// per record, in the order given.
func ToFeatureCollection(recs []voyager.TrajectoryRecord) FeatureCollection {
	features := make([]Feature, len(recs))
	for i, r := range recs {
		features[i] = ToFeature(r)
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// AggregateLaunchDay builds a single FeatureCollection from one
// LaunchResult's records for the day (matching the Python original's
// utils.to_GeoJSON aggregate form). Vessels that failed to construct or run
// are omitted; callers wanting that detail should inspect
// LaunchResult.Failures directly.
func AggregateLaunchDay(result *voyager.LaunchResult) FeatureCollection {
	return ToFeatureCollection(result.Records)
}

// Marshal renders a FeatureCollection as indented JSON, mirroring the
// teacher's JsonIndentDumps four-space convention.
func Marshal(fc FeatureCollection) ([]byte, error) {
	return json.MarshalIndent(fc, "", "    ")
}
