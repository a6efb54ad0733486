// Package store persists a voyager.Chart's forcing fields to a TileDB group
// of dense arrays, so a traverser run over a fixed bounding box and date
// range can be cached and reloaded without re-invoking the raster loader.
// Grounded in the teacher's tiledb.go/schema.go dense-array construction and
// cmd/main.go's group-of-arrays layout (Attitude.tiledb, SVP.tiledb members
// under one "<file>.tiledb" group).
package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/samber/lo"

	voyager "github.com/waahlstrand/voyager-go"
	"github.com/waahlstrand/voyager-go/search"
)

const (
	memberUCurrent = "u_current.tiledb"
	memberVCurrent = "v_current.tiledb"
	memberUWind    = "u_wind.tiledb"
	memberVWind    = "v_wind.tiledb"
	metadataKey    = "chart-axes"
)

// axesMetadata round-trips the parts of a Chart that a dense array's
// index-only dimensions cannot carry: the real axis values, bounding box
// and date range. Stored as group metadata, the same way the teacher
// stashes Data-Processing-Information JSON on a GSF TileDB group.
type axesMetadata struct {
	BBox      voyager.BoundingBox
	StartDate time.Time
	EndDate   time.Time
	Time      []float64
	Longitude []float64
	Latitude  []float64
}

// SaveField writes a single forcing field to uri as a dense TileDB array.
func SaveField(ctx *tiledb.Context, uri string, f *voyager.Field) error {
	nt, nlat, nlon := len(f.Time), len(f.Latitude), len(f.Longitude)

	schema, err := fieldSchema(ctx, nt, nlat, nlon)
	if err != nil {
		return err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return errors.Join(ErrCreateFieldArray, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrCreateFieldArray, err)
	}

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}
	defer array.Close()

	flat := flattenField(f)

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}
	if _, err := query.SetDataBuffer("Value", flat); err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}

	subarr, err := array.NewSubarray()
	if err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}
	defer subarr.Free()

	if err := subarr.AddRangeByName("time", tiledb.MakeRange(int32(0), int32(nt-1))); err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}
	if err := subarr.AddRangeByName("latitude", tiledb.MakeRange(int32(0), int32(nlat-1))); err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}
	if err := subarr.AddRangeByName("longitude", tiledb.MakeRange(int32(0), int32(nlon-1))); err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}
	if err := query.SetSubarray(subarr); err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}

	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteFieldArray, err)
	}

	return query.Finalize()
}

// LoadField reads back a field written by SaveField, given the axis values
// recovered separately from group metadata (a dense array's dimensions are
// bare indices, not the axis' real values).
func LoadField(ctx *tiledb.Context, uri string, t, lon, lat []float64) (*voyager.Field, error) {
	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return nil, errors.Join(ErrReadFieldArray, err)
	}
	defer array.Free()

	if err := array.Open(tiledb.TILEDB_READ); err != nil {
		return nil, errors.Join(ErrReadFieldArray, err)
	}
	defer array.Close()

	nt, nlat, nlon := len(t), len(lat), len(lon)
	buf := make([]float64, nt*nlat*nlon)

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return nil, errors.Join(ErrReadFieldArray, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrReadFieldArray, err)
	}
	if _, err := query.SetDataBuffer("Value", buf); err != nil {
		return nil, errors.Join(ErrReadFieldArray, err)
	}

	subarr, err := array.NewSubarray()
	if err != nil {
		return nil, errors.Join(ErrReadFieldArray, err)
	}
	defer subarr.Free()
	subarr.AddRangeByName("time", tiledb.MakeRange(int32(0), int32(nt-1)))
	subarr.AddRangeByName("latitude", tiledb.MakeRange(int32(0), int32(nlat-1)))
	subarr.AddRangeByName("longitude", tiledb.MakeRange(int32(0), int32(nlon-1)))
	if err := query.SetSubarray(subarr); err != nil {
		return nil, errors.Join(ErrReadFieldArray, err)
	}

	if err := query.Submit(); err != nil {
		return nil, errors.Join(ErrReadFieldArray, err)
	}

	return voyager.NewField(t, lon, lat, unflatten(buf, nt, nlat, nlon))
}

// Save persists a loaded, interpolation-ready Chart's four forcing fields
// and reconstruction metadata as a TileDB group at groupURI, mirroring the
// teacher's cmd/main.go group layout (one sub-array per data product, a
// JSON metadata side-write for anything the array schema can't carry).
func Save(ctx *tiledb.Context, groupURI string, chart *voyager.Chart) error {
	grp, err := tiledb.NewGroup(ctx, groupURI)
	if err != nil {
		return errors.Join(ErrCreateGroup, err)
	}
	defer grp.Free()

	if err := grp.Create(); err != nil {
		return errors.Join(ErrCreateGroup, err)
	}

	if err := grp.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrOpenGroup, err)
	}
	defer grp.Close()

	meta := axesMetadata{
		BBox:      chart.BBox,
		StartDate: chart.StartDate,
		EndDate:   chart.EndDate,
		Time:      chart.UCurrentAll.Time,
		Longitude: chart.Longitude,
		Latitude:  chart.Latitude,
	}
	blob, err := json.Marshal(meta)
	if err != nil {
		return errors.Join(ErrGroupMetadata, err)
	}
	if err := grp.PutMetadata(metadataKey, blob); err != nil {
		return errors.Join(ErrGroupMetadata, err)
	}

	members := map[string]*voyager.Field{
		memberUCurrent: chart.UCurrentAll,
		memberVCurrent: chart.VCurrentAll,
		memberUWind:    chart.UWindAll,
		memberVWind:    chart.VWindAll,
	}

	for name, field := range members {
		memberURI := filepath.Join(groupURI, name)
		if err := SaveField(ctx, memberURI, field); err != nil {
			return err
		}
		if err := grp.AddMember(memberURI, name, true); err != nil {
			return errors.Join(ErrGroupMetadata, err)
		}
	}

	return nil
}

// Load reconstructs a Chart (forcing fields plus its navigation grid) from
// a group written by Save, using opts as the shoreline contour's dilation
// bands (the grid itself isn't persisted — it's cheap to rebuild from the
// reloaded u_current field).
func Load(ctx *tiledb.Context, groupURI string, opts voyager.ContourOptions) (*voyager.Chart, error) {
	grp, err := tiledb.NewGroup(ctx, groupURI)
	if err != nil {
		return nil, errors.Join(ErrOpenGroup, err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_READ); err != nil {
		return nil, errors.Join(ErrOpenGroup, err)
	}
	defer grp.Close()

	blob, err := grp.GetMetadata(metadataKey)
	if err != nil {
		return nil, errors.Join(ErrGroupMetadata, err)
	}
	var meta axesMetadata
	if err := json.Unmarshal(blob, &meta); err != nil {
		return nil, errors.Join(ErrGroupMetadata, err)
	}

	uc, err := LoadField(ctx, filepath.Join(groupURI, memberUCurrent), meta.Time, meta.Longitude, meta.Latitude)
	if err != nil {
		return nil, err
	}
	vc, err := LoadField(ctx, filepath.Join(groupURI, memberVCurrent), meta.Time, meta.Longitude, meta.Latitude)
	if err != nil {
		return nil, err
	}
	uw, err := LoadField(ctx, filepath.Join(groupURI, memberUWind), meta.Time, meta.Longitude, meta.Latitude)
	if err != nil {
		return nil, err
	}
	vw, err := LoadField(ctx, filepath.Join(groupURI, memberVWind), meta.Time, meta.Longitude, meta.Latitude)
	if err != nil {
		return nil, err
	}

	chart := voyager.NewChart(meta.BBox, meta.StartDate, meta.EndDate)
	chart.UCurrentAll, chart.VCurrentAll = uc, vc
	chart.UWindAll, chart.VWindAll = uw, vw
	chart.Longitude, chart.Latitude = meta.Longitude, meta.Latitude

	startIdx := 0
	for i, t := range uc.Time {
		if t == 0 {
			startIdx = i
			break
		}
	}
	chart.Grid = search.NewNavigationGrid(uc.Values[startIdx], opts.Weights, opts.Iterations)

	return chart, nil
}

// flattenField flattens a field's [t][lat][lon] values into the single
// row-major buffer SetDataBuffer expects, the same lo.Flatten construction
// tiledb.go uses ahead of its own SetDataBuffer calls, applied twice nested
// to collapse one extra dimension.
func flattenField(f *voyager.Field) []float64 {
	perTime := make([][]float64, len(f.Time))
	for ti, slice := range f.Values {
		perTime[ti] = lo.Flatten(slice)
	}
	return lo.Flatten(perTime)
}

// unflatten inverts flattenField with lo.Chunk, regrouping the row-major
// buffer back into [t][lat][lon].
func unflatten(flat []float64, nt, nlat, nlon int) [][][]float64 {
	rows := lo.Chunk(flat, nlon)
	return lo.Chunk(rows, nlat)
}
