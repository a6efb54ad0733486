package store

import (
	"errors"
	"reflect"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

// fieldCell is the attribute-side schema for one forcing-field dense array:
// a single float64 value per (time, lat, lon) cell, zstandard compressed.
// The dtype/ftype tags are parsed the same way the teacher parses its
// GSF record structs, just for a one-attribute schema.
type fieldCell struct {
	Value []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
}

// dimension builds an int32-indexed dimension spanning [0, extent-1], tiled
// in one pass since forcing fields are read and written whole.
func dimension(ctx *tiledb.Context, name string, extent int32) (*tiledb.Dimension, error) {
	if extent < 1 {
		extent = 1
	}
	return tiledb.NewDimension(ctx, name, tiledb.TILEDB_INT32, []int32{0, extent - 1}, extent)
}

// fieldSchema builds the dense array schema for a (time, lat, lon) shaped
// forcing field: three index dimensions and a single compressed float64
// attribute, following the teacher's domain/schema/CreateAttr construction
// order in attitude.go's attitude_tiledb_array.
func fieldSchema(ctx *tiledb.Context, nt, nlat, nlon int) (*tiledb.ArraySchema, error) {
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}
	defer domain.Free()

	tdim, err := dimension(ctx, "time", int32(nt))
	if err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}
	defer tdim.Free()

	latdim, err := dimension(ctx, "latitude", int32(nlat))
	if err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}
	defer latdim.Free()

	londim, err := dimension(ctx, "longitude", int32(nlon))
	if err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}
	defer londim.Free()

	if err := domain.AddDimensions(tdim, latdim, londim); err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}

	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}

	if err := attachFieldAttr(schema, ctx); err != nil {
		return nil, errors.Join(ErrCreateFieldSchema, err)
	}

	return schema, nil
}

// attachFieldAttr reads fieldCell's struct tags via stagparser and adds the
// described attribute to schema, mirroring the teacher's schemaAttrs/
// CreateAttr reflection loop (schema.go), narrowed to the single-attribute
// case every forcing field needs.
func attachFieldAttr(schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	var cell fieldCell

	filt_defs, _ := stgpsr.ParseStruct(&cell, "filters")
	tdb_defs, _ := stgpsr.ParseStruct(&cell, "tiledb")

	name := reflect.TypeOf(cell).Field(0).Name

	field_tdb_defs := make(map[string]stgpsr.Definition)
	for _, v := range tdb_defs[name] {
		field_tdb_defs[v.Name()] = v
	}

	def, ok := field_tdb_defs["ftype"]
	if !ok {
		return errors.New("ftype tag not found")
	}
	if ftype, _ := def.Attribute("ftype"); ftype == "dim" {
		return nil
	}

	attr, err := tiledb.NewAttribute(ctx, "Value", tiledb.TILEDB_FLOAT64)
	if err != nil {
		return err
	}
	defer attr.Free()

	filts, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return err
	}
	defer filts.Free()

	for _, filt := range filt_defs[name] {
		if filt.Name() != "zstd" {
			continue
		}
		level, ok := filt.Attribute("level")
		if !ok {
			continue
		}
		zstd, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
		if err != nil {
			return err
		}
		defer zstd.Free()
		if err := zstd.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, int32(level.(int64))); err != nil {
			return err
		}
		if err := filts.AddFilter(zstd); err != nil {
			return err
		}
	}

	if err := attr.SetFilterList(filts); err != nil {
		return err
	}

	return schema.AddAttributes(attr)
}
