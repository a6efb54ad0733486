package raster

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func encodeGrid(t *testing.T, time, lat, lon []float64, u, v []float64) *bytes.Reader {
	t.Helper()

	buf := &bytes.Buffer{}
	write := func(v any) {
		if err := binary.Write(buf, binary.BigEndian, v); err != nil {
			t.Fatalf("unexpected encode error: %v", err)
		}
	}

	write(int32(len(time)))
	write(int32(len(lat)))
	write(int32(len(lon)))
	write(time)
	write(lat)
	write(lon)
	write(u)
	write(v)

	return bytes.NewReader(buf.Bytes())
}

func TestReadGridRoundTripsReshapedCubes(t *testing.T) {
	time := []float64{0, 1}
	lat := []float64{-1, 1}
	lon := []float64{10, 20, 30}
	u := []float64{
		1, 2, 3, 4, 5, 6, // t=0
		7, 8, 9, 10, 11, 12, // t=1
	}
	v := make([]float64, len(u))
	for i := range v {
		v[i] = u[i] * 10
	}

	raw, err := readGrid(encodeGrid(t, time, lat, lon, u, v))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(raw.time) != 2 || len(raw.latitude) != 2 || len(raw.longitude) != 3 {
		t.Fatalf("expected axes of length 2,2,3, got %d,%d,%d", len(raw.time), len(raw.latitude), len(raw.longitude))
	}

	// t=1, lat=1 (row index 1), lon=30 (col index 2) -> flat index 6+5=11 -> value 12.
	if raw.u[1][1][2] != 12 {
		t.Fatalf("expected reshaped u[1][1][2]==12, got %v", raw.u[1][1][2])
	}
	if raw.v[0][0][0] != 10 {
		t.Fatalf("expected reshaped v[0][0][0]==10, got %v", raw.v[0][0][0])
	}
}

func TestReadGridTruncatedFileReturnsError(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, int32(2))
	binary.Write(buf, binary.BigEndian, int32(2))
	binary.Write(buf, binary.BigEndian, int32(2))
	// omit the axis/value payloads entirely.

	_, err := readGrid(bytes.NewReader(buf.Bytes()))
	if err == nil {
		t.Fatalf("expected an error decoding a truncated grid")
	}
}
