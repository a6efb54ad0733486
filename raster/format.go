package raster

import (
	"errors"
)

var ErrTruncatedGrid = errors.New("Truncated Raster Grid File")

// rawGrid is a decoded on-disk grid file: axes plus two row-major
// [t][lat][lon] components (east/north, named u/v regardless of how the
// source labelled them, per the raster loader contract).
type rawGrid struct {
	time      []float64 // days since Unix epoch
	longitude []float64
	latitude  []float64
	u         [][][]float64
	v         [][][]float64
}

// readGrid decodes the reference binary layout:
//
//	int32   nt, nlat, nlon
//	float64 time[nt]
//	float64 latitude[nlat]
//	float64 longitude[nlon]
//	float64 u[nt*nlat*nlon]  (row-major t, lat, lon)
//	float64 v[nt*nlat*nlon]
func readGrid(s Stream) (*rawGrid, error) {
	nt, err := readInt32(s)
	if err != nil {
		return nil, errors.Join(ErrTruncatedGrid, err)
	}
	nlat, err := readInt32(s)
	if err != nil {
		return nil, errors.Join(ErrTruncatedGrid, err)
	}
	nlon, err := readInt32(s)
	if err != nil {
		return nil, errors.Join(ErrTruncatedGrid, err)
	}

	t, err := readFloat64Slice(s, nt)
	if err != nil {
		return nil, errors.Join(ErrTruncatedGrid, err)
	}
	lat, err := readFloat64Slice(s, nlat)
	if err != nil {
		return nil, errors.Join(ErrTruncatedGrid, err)
	}
	lon, err := readFloat64Slice(s, nlon)
	if err != nil {
		return nil, errors.Join(ErrTruncatedGrid, err)
	}

	uFlat, err := readFloat64Slice(s, nt*nlat*nlon)
	if err != nil {
		return nil, errors.Join(ErrTruncatedGrid, err)
	}
	vFlat, err := readFloat64Slice(s, nt*nlat*nlon)
	if err != nil {
		return nil, errors.Join(ErrTruncatedGrid, err)
	}

	return &rawGrid{
		time:      t,
		latitude:  lat,
		longitude: lon,
		u:         reshape(uFlat, int(nt), int(nlat), int(nlon)),
		v:         reshape(vFlat, int(nt), int(nlat), int(nlon)),
	}, nil
}

func reshape(flat []float64, nt, nlat, nlon int) [][][]float64 {
	out := make([][][]float64, nt)
	idx := 0
	for ti := 0; ti < nt; ti++ {
		out[ti] = make([][]float64, nlat)
		for li := 0; li < nlat; li++ {
			out[ti][li] = flat[idx : idx+nlon]
			idx += nlon
		}
	}
	return out
}
