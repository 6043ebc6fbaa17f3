package geos

import (
	"github.com/cockroachdb/errors"
)

// Errors returned when reading FlatGeobuf layers.
var (
	ErrNoIndex     = errors.New("geos: flatgeobuf layer has no spatial index")
	ErrInvalidData = errors.New("geos: invalid flatgeobuf data")
)

// CRS is the coordinate reference system of a FlatGeobuf layer.
type CRS struct {
	Code        int    // EPSG code, e.g. 4326
	Name        string
	Description string
	WKT         string // stored as the description when Description is empty
}

// WGS84 returns EPSG:4326.
func WGS84() *CRS {
	return &CRS{
		Code: 4326,
		Name: "WGS 84",
	}
}

// LayerOptions configures ExportFlatGeobuf.
type LayerOptions struct {
	Name         string
	Description  string
	IncludeIndex bool // required for ImportFlatGeobuf to read the layer back
	CRS          *CRS // defaults to the first geometry's SRID, if any
}

// DefaultLayerOptions returns options that write a spatial index.
func DefaultLayerOptions() *LayerOptions {
	return &LayerOptions{
		IncludeIndex: true,
	}
}

// ColumnInfo describes a property column of a layer.
type ColumnInfo struct {
	Name     string
	Type     string // "Int", "Double", "String", ...
	Title    string
	Nullable bool
}

// Header is the metadata of a FlatGeobuf layer.
type Header struct {
	Name          string
	Description   string
	GeometryType  string
	FeaturesCount uint64
	Envelope      [4]float64 // minX, minY, maxX, maxY
	CRS           *CRS
	HasIndex      bool
	Columns       []ColumnInfo
}
