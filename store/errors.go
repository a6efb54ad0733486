package store

import "errors"

var ErrCreateFieldSchema = errors.New("Error Creating Field TileDB Schema")
var ErrCreateFieldArray = errors.New("Error Creating Field TileDB Array")
var ErrWriteFieldArray = errors.New("Error Writing Field TileDB Array")
var ErrReadFieldArray = errors.New("Error Reading Field TileDB Array")
var ErrCreateGroup = errors.New("Error Creating Chart TileDB Group")
var ErrOpenGroup = errors.New("Error Opening Chart TileDB Group")
var ErrGroupMetadata = errors.New("Error Reading Or Writing Chart Group Metadata")
