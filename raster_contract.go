package voyager

import "time"

// RasterLoader is the external raster-loading contract (spec §6). An
// implementation turns a requested (start, end, bbox) window into a pair of
// Fields (east and north components) for either the currents or the winds
// source. The core never reads NetCDF, or any raster format, directly; it
// only consumes this interface.
//
// Implementations are responsible for:
//   - normalizing longitudes to [-180, 180] (NormalizeLongitude),
//   - rearranging latitudes to strictly ascending order,
//   - normalizing timestamps to midnight UTC (NormalizeTimestamp),
//   - naming variables u/v regardless of their on-disk names
//     (uo_oras/vo_oras for currents, u10/v10 for winds),
//   - selecting inclusively on both bbox and date range.
type RasterLoader interface {
	LoadCurrents(start, end time.Time, bbox BoundingBox) (u, v *Field, err error)
	LoadWinds(start, end time.Time, bbox BoundingBox) (u, v *Field, err error)
}
