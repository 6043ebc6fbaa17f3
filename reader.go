package geos

import (
	"github.com/cockroachdb/errors"
	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/golang/glog"
	geom "github.com/twpayne/go-geom"
)

// LayerReader reads geometries out of a FlatGeobuf layer into a Context.
type LayerReader struct {
	fgb *flatgeobuf.FlatGeoBuf
}

// OpenLayer memory-maps the FlatGeobuf file at path.
func OpenLayer(path string) (*LayerReader, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "geos: open flatgeobuf %s", path)
	}
	return &LayerReader{fgb: fgb}, nil
}

// NewLayerReader reads a FlatGeobuf layer held in memory.
func NewLayerReader(data []byte) (*LayerReader, error) {
	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "geos: read flatgeobuf"), ErrInvalidData)
	}
	return &LayerReader{fgb: fgb}, nil
}

// ImportFlatGeobuf reads every feature of an indexed layer held in data.
func ImportFlatGeobuf(ctx *Context, data []byte) ([]*Geometry, error) {
	r, err := NewLayerReader(data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadAll(ctx)
}

// Header returns the layer metadata.
func (r *LayerReader) Header() *Header {
	h := r.fgb.Header()
	if h == nil {
		return nil
	}
	header := &Header{
		Name:          string(h.Name()),
		Description:   string(h.Description()),
		GeometryType:  flattypes.EnumNamesGeometryType[h.GeometryType()],
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
		CRS:           layerCRS(h),
	}
	if h.EnvelopeLength() >= 4 {
		header.Envelope = [4]float64{h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3)}
	}
	for i := 0; i < h.ColumnsLength(); i++ {
		var col flattypes.Column
		if h.Columns(&col, i) {
			header.Columns = append(header.Columns, ColumnInfo{
				Name:     string(col.Name()),
				Type:     flattypes.EnumNamesColumnType[col.Type()],
				Title:    string(col.Title()),
				Nullable: col.Nullable(),
			})
		}
	}
	return header
}

func layerCRS(h *flattypes.Header) *CRS {
	var crs flattypes.Crs
	if h.Crs(&crs) == nil {
		return nil
	}
	return &CRS{
		Code:        int(crs.Code()),
		Name:        string(crs.Name()),
		Description: string(crs.Description()),
	}
}

// ReadAll reads every feature. The layer must have a spatial index;
// features come back in index order.
func (r *LayerReader) ReadAll(ctx *Context) ([]*Geometry, error) {
	h := r.fgb.Header()
	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}
	if h.FeaturesCount() == 0 {
		return nil, nil
	}
	if h.EnvelopeLength() < 4 {
		return nil, errors.Wrap(ErrInvalidData, "indexed layer has no envelope")
	}
	return r.Search(ctx, h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3))
}

// Search reads the features whose bounding boxes intersect the query box.
func (r *LayerReader) Search(ctx *Context, minX, minY, maxX, maxY float64) ([]*Geometry, error) {
	h := r.fgb.Header()
	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}
	features, err := r.fgb.Search(minX, minY, maxX, maxY)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "geos: search flatgeobuf"), ErrInvalidData)
	}

	defaultSRID := 0
	if crs := layerCRS(h); crs != nil {
		defaultSRID = crs.Code
	}
	out := make([]*Geometry, 0, len(features))
	for i, f := range features {
		g, err := r.convertFeature(ctx, f, h, defaultSRID)
		if err != nil {
			for _, done := range out {
				_ = done.Free()
			}
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		out = append(out, g)
	}
	if glog.V(2) {
		glog.Infof("geos: read %d flatgeobuf features", len(out))
	}
	return out, nil
}

// Close drops the reader's reference to the layer data.
func (r *LayerReader) Close() error {
	r.fgb = nil
	return nil
}

func (r *LayerReader) convertFeature(ctx *Context, f *flattypes.Feature, h *flattypes.Header, defaultSRID int) (*Geometry, error) {
	var fg flattypes.Geometry
	if f.Geometry(&fg) == nil {
		return nil, errors.Wrap(ErrInvalidData, "feature without geometry")
	}
	t, err := geometryFromFGB(&fg, h.GeometryType())
	if err != nil {
		return nil, err
	}

	srid := defaultSRID
	if n := f.PropertiesLength(); n > 0 {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(f.Properties(i))
		}
		props, err := decodeProperties(data, h)
		if err != nil {
			return nil, err
		}
		if s, ok := sridOf(props); ok {
			srid = s
		}
	}
	return ctx.own(t, srid), nil
}

// geometryFromFGB converts a FlatGeobuf geometry. Parts of a uniform layer
// may leave their type unset, in which case layerType applies.
func geometryFromFGB(fg *flattypes.Geometry, layerType flattypes.GeometryType) (geom.T, error) {
	typ := fg.Type()
	if typ == flattypes.GeometryTypeUnknown {
		typ = layerType
	}
	xy := make([]float64, fg.XyLength())
	for i := range xy {
		xy[i] = fg.Xy(i)
	}

	switch typ {
	case flattypes.GeometryTypePoint:
		if len(xy) != 2 {
			return nil, errors.Wrapf(ErrInvalidData, "point with %d ordinates", len(xy))
		}
		return geom.NewPointFlat(geom.XY, xy), nil
	case flattypes.GeometryTypeMultiPoint:
		return geom.NewMultiPointFlat(geom.XY, xy), nil
	case flattypes.GeometryTypeLineString:
		return buildLineString(&CoordSeq{layout: geom.XY, flat: xy})
	case flattypes.GeometryTypeMultiLineString:
		return geom.NewMultiLineStringFlat(geom.XY, xy, flatEnds(fg, len(xy))), nil
	case flattypes.GeometryTypePolygon:
		return geom.NewPolygonFlat(geom.XY, xy, flatEnds(fg, len(xy))), nil
	case flattypes.GeometryTypeMultiPolygon:
		mp := geom.NewMultiPolygon(geom.XY)
		for i := 0; i < fg.PartsLength(); i++ {
			var part flattypes.Geometry
			if !fg.Parts(&part, i) {
				continue
			}
			p, err := geometryFromFGB(&part, flattypes.GeometryTypePolygon)
			if err != nil {
				return nil, err
			}
			if err := mp.Push(p.(*geom.Polygon)); err != nil {
				return nil, errors.Mark(err, ErrInvalidData)
			}
		}
		return mp, nil
	case flattypes.GeometryTypeGeometryCollection:
		gc := geom.NewGeometryCollection()
		for i := 0; i < fg.PartsLength(); i++ {
			var part flattypes.Geometry
			if !fg.Parts(&part, i) {
				continue
			}
			child, err := geometryFromFGB(&part, flattypes.GeometryTypeUnknown)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(child); err != nil {
				return nil, errors.Mark(err, ErrInvalidData)
			}
		}
		return gc, nil
	default:
		return nil, errors.Wrapf(ErrUnsupported, "flatgeobuf geometry type %s", flattypes.EnumNamesGeometryType[typ])
	}
}

// flatEnds converts FlatGeobuf point counts into go-geom flat offsets. A
// geometry without ends is a single part.
func flatEnds(fg *flattypes.Geometry, n int) []int {
	if fg.EndsLength() == 0 {
		if n == 0 {
			return nil
		}
		return []int{n}
	}
	ends := make([]int, fg.EndsLength())
	for i := range ends {
		ends[i] = 2 * int(fg.Ends(i))
	}
	return ends
}
