// Package raster provides a reference implementation of the
// voyager.RasterLoader contract: a simple row-major binary grid format read
// through the same minimal Stream interface the teacher reaches for when it
// needs to treat an on-disk file and an in-memory buffer identically.
package raster

import (
	"bytes"
	"encoding/binary"
	"os"
)

// Stream caters for a generic reader type so MemoryLoader can handle either
// a file on disk or an in-memory byte buffer identically. *os.File and
// *bytes.Reader both already satisfy it.
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// openStream opens path for reading, optionally slurping it fully into an
// in-memory *bytes.Reader first (mirroring the teacher's GenericStream /
// in_memory GSF flag).
func openStream(path string, inMemory bool) (Stream, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	if !inMemory {
		return f, func() { f.Close() }, nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	buf := make([]byte, info.Size())
	if _, err := f.Read(buf); err != nil {
		return nil, nil, err
	}

	return bytes.NewReader(buf), func() {}, nil
}

func readInt32(s Stream) (int32, error) {
	var v int32
	err := binary.Read(s, binary.BigEndian, &v)
	return v, err
}

func readFloat64Slice(s Stream, n int32) ([]float64, error) {
	out := make([]float64, n)
	err := binary.Read(s, binary.BigEndian, &out)
	return out, err
}
