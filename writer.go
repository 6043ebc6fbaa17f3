package geos

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	"github.com/golang/glog"
	flatbuffers "github.com/google/flatbuffers/go"
	geom "github.com/twpayne/go-geom"
)

// ExportFlatGeobuf writes geoms as one FlatGeobuf layer. Coordinates are
// written in 2D and each feature stores its SRID in an "srid" Int column.
// Empty geometries cannot be indexed and are rejected.
func ExportFlatGeobuf(w io.Writer, geoms []*Geometry, opts *LayerOptions) error {
	if opts == nil {
		opts = DefaultLayerOptions()
	}
	if len(geoms) == 0 {
		return ErrNilGeometry
	}

	features := make([]layerFeature, 0, len(geoms))
	for i, g := range geoms {
		if g == nil {
			return errors.Wrapf(ErrNilGeometry, "feature %d", i)
		}
		t, srid := g.resolve()
		if isEmptyT(t) {
			return errors.Wrapf(ErrInvalidGeometry, "feature %d is empty", i)
		}
		features = append(features, layerFeature{t: t, srid: srid})
	}

	geomType := fgbGeometryType(features[0].t)
	for _, f := range features[1:] {
		if fgbGeometryType(f.t) != geomType {
			geomType = flattypes.GeometryTypeUnknown
			break
		}
	}

	builder := flatbuffers.NewBuilder(4096)
	header := writer.NewHeader(builder)
	header.SetGeometryType(geomType)
	if opts.Name != "" {
		header.SetName(opts.Name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}
	header.SetColumns([]*writer.Column{sridColumn(builder)})

	crs := opts.CRS
	if crs == nil && features[0].srid != 0 {
		crs = &CRS{Code: features[0].srid}
	}
	if crs != nil {
		c := writer.NewCrs(builder)
		c.SetOrg("EPSG")
		if crs.Code > 0 {
			c.SetCode(int32(crs.Code))
		}
		if crs.Name != "" {
			c.SetName(crs.Name)
		}
		switch {
		case crs.Description != "":
			c.SetDescription(crs.Description)
		case crs.WKT != "":
			c.SetDescription(crs.WKT)
		}
		header.SetCrs(c)
	}

	gen := &featureGenerator{features: features}
	if _, err := writer.NewWriter(header, opts.IncludeIndex, gen, nil).Write(w); err != nil {
		return errors.Wrap(err, "geos: write flatgeobuf")
	}
	if glog.V(2) {
		glog.Infof("geos: wrote flatgeobuf layer %q with %d features (%s)",
			opts.Name, len(features), flattypes.EnumNamesGeometryType[geomType])
	}
	return nil
}

type layerFeature struct {
	t    geom.T
	srid int
}

// featureGenerator feeds layer features to the FlatGeobuf writer.
type featureGenerator struct {
	features []layerFeature
	index    int
}

// Generate returns the next feature, or nil when all are written.
func (g *featureGenerator) Generate() *writer.Feature {
	if g.index >= len(g.features) {
		return nil
	}
	f := g.features[g.index]
	g.index++

	builder := flatbuffers.NewBuilder(1024)
	feature := writer.NewFeature(builder)
	feature.SetGeometry(geometryToFGB(f.t, builder))
	feature.SetProperties(encodeSRID(f.srid))
	return feature
}

func fgbGeometryType(t geom.T) flattypes.GeometryType {
	switch t.(type) {
	case *geom.Point:
		return flattypes.GeometryTypePoint
	case *geom.LineString, *geom.LinearRing:
		return flattypes.GeometryTypeLineString
	case *geom.Polygon:
		return flattypes.GeometryTypePolygon
	case *geom.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case *geom.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case *geom.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	case *geom.GeometryCollection:
		return flattypes.GeometryTypeGeometryCollection
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// geometryToFGB converts t to a FlatGeobuf geometry. Rings are written as
// line strings; z values are dropped.
func geometryToFGB(t geom.T, builder *flatbuffers.Builder) *writer.Geometry {
	g := writer.NewGeometry(builder)
	g.SetType(fgbGeometryType(t))

	switch t := t.(type) {
	case *geom.Point, *geom.LineString, *geom.LinearRing, *geom.MultiPoint:
		g.SetXY(xyOf(t))
	case *geom.Polygon:
		g.SetXY(xyOf(t))
		g.SetEnds(pointEnds(t.Ends(), layoutOf(t).Stride()))
	case *geom.MultiLineString:
		g.SetXY(xyOf(t))
		g.SetEnds(pointEnds(t.Ends(), layoutOf(t).Stride()))
	case *geom.MultiPolygon:
		parts := make([]writer.Geometry, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			parts = append(parts, *geometryToFGB(t.Polygon(i), builder))
		}
		g.SetParts(parts)
	case *geom.GeometryCollection:
		parts := make([]writer.Geometry, 0, t.NumGeoms())
		for _, child := range t.Geoms() {
			parts = append(parts, *geometryToFGB(child, builder))
		}
		g.SetParts(parts)
	}
	return g
}

// xyOf returns the interleaved x/y values of t.
func xyOf(t geom.T) []float64 {
	return dropOrdinates(t.FlatCoords(), layoutOf(t).Stride(), 2)
}

// pointEnds converts go-geom flat offsets into FlatGeobuf point counts.
func pointEnds(ends []int, stride int) []uint32 {
	out := make([]uint32, len(ends))
	for i, e := range ends {
		out[i] = uint32(e / stride)
	}
	return out
}
