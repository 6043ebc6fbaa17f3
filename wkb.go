package geos

import (
	"encoding/binary"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
)

// ByteOrder is the byte order of numeric fields in WKB output.
type ByteOrder int

const (
	// BigEndian is XDR.
	BigEndian ByteOrder = iota
	// LittleEndian is NDR.
	LittleEndian
)

// String returns "ndr" or "xdr".
func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "xdr"
	case LittleEndian:
		return "ndr"
	default:
		return "ByteOrder(?)"
	}
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o == BigEndian {
		return ewkb.XDR
	}
	return ewkb.NDR
}

// ParseByteOrder maps "ndr"/"little" and "xdr"/"big", in any case, to a
// ByteOrder.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(s) {
	case "ndr", "little":
		return LittleEndian, nil
	case "xdr", "big":
		return BigEndian, nil
	default:
		return 0, errors.Wrapf(ErrValidation, "unknown byte order %q", s)
	}
}

// WKBWriter encodes geometries as (E)WKB. Its configuration persists across
// calls; per-call options override it for one call only. A writer must not be
// shared between goroutines.
type WKBWriter struct {
	includeSRID bool
	dims        int
	order       ByteOrder
}

// WriterOption configures a WKBWriter.
type WriterOption func(w *WKBWriter) error

// WithIncludeSRID embeds the geometry's SRID, when non-zero.
func WithIncludeSRID(include bool) WriterOption {
	return func(w *WKBWriter) error {
		w.SetIncludeSRID(include)
		return nil
	}
}

// WithOutputDimensions sets the output dimension, 2 or 3.
func WithOutputDimensions(dims int) WriterOption {
	return func(w *WKBWriter) error { return w.SetOutputDimensions(dims) }
}

// WithByteOrder sets the output byte order.
func WithByteOrder(o ByteOrder) WriterOption {
	return func(w *WKBWriter) error { return w.SetByteOrder(o) }
}

// NewWKBWriter returns a writer with no SRID, 2 output dimensions and
// little endian byte order, modified by opts.
func NewWKBWriter(opts ...WriterOption) (*WKBWriter, error) {
	w := &WKBWriter{dims: 2, order: LittleEndian}
	for _, o := range opts {
		if err := o(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// IncludeSRID reports whether output embeds the geometry's SRID.
func (w *WKBWriter) IncludeSRID() bool { return w.includeSRID }

// SetIncludeSRID sets whether output embeds the geometry's SRID.
func (w *WKBWriter) SetIncludeSRID(include bool) { w.includeSRID = include }

// OutputDimensions returns 2 or 3.
func (w *WKBWriter) OutputDimensions() int { return w.dims }

// SetOutputDimensions fails with ErrValidation unless dims is 2 or 3.
func (w *WKBWriter) SetOutputDimensions(dims int) error {
	if dims != 2 && dims != 3 {
		return errors.Wrapf(ErrValidation, "output dimensions must be 2 or 3, got %d", dims)
	}
	w.dims = dims
	return nil
}

// ByteOrder returns the byte order of the output.
func (w *WKBWriter) ByteOrder() ByteOrder { return w.order }

// SetByteOrder fails with ErrValidation for values other than BigEndian and
// LittleEndian.
func (w *WKBWriter) SetByteOrder(o ByteOrder) error {
	if o != BigEndian && o != LittleEndian {
		return errors.Wrapf(ErrValidation, "unknown byte order %d", int(o))
	}
	w.order = o
	return nil
}

// withOverrides applies opts, runs fn and restores the previous
// configuration whatever the outcome.
func (w *WKBWriter) withOverrides(opts []WriterOption, fn func() error) error {
	if len(opts) == 0 {
		return fn()
	}
	saved := *w
	defer func() { *w = saved }()
	for _, o := range opts {
		if err := o(w); err != nil {
			return err
		}
	}
	return fn()
}

// Write encodes h as WKB, or EWKB when the SRID is included.
func (w *WKBWriter) Write(h Handle, opts ...WriterOption) ([]byte, error) {
	var out []byte
	err := w.withOverrides(opts, func() error {
		t, err := w.prepare(h)
		if err != nil {
			return err
		}
		if out, err = ewkb.Marshal(t, w.order.binary()); err != nil {
			return engineError(err, "write WKB")
		}
		return nil
	})
	return out, err
}

// WriteHex is Write with uppercase hex output.
func (w *WKBWriter) WriteHex(h Handle, opts ...WriterOption) (string, error) {
	var out string
	err := w.withOverrides(opts, func() error {
		t, err := w.prepare(h)
		if err != nil {
			return err
		}
		s, err := ewkbhex.Encode(t, w.order.binary())
		if err != nil {
			return engineError(err, "write hex WKB")
		}
		out = strings.ToUpper(s)
		return nil
	})
	return out, err
}

// prepare copies h's geometry into the layout and SRID the writer is
// configured for.
func (w *WKBWriter) prepare(h Handle) (geom.T, error) {
	g, err := geometryOf(h)
	if err != nil {
		return nil, err
	}
	t, srid := g.resolve()
	layout := layoutOf(t)
	if w.dims == 2 {
		layout = geom.XY
	}
	out, err := withLayout(t, layout)
	if err != nil {
		return nil, err
	}
	if w.includeSRID {
		setSRIDT(out, srid)
	}
	return out, nil
}

func geometryOf(h Handle) (*Geometry, error) {
	if h == nil {
		return nil, ErrNilGeometry
	}
	if v := reflect.ValueOf(h); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, ErrNilGeometry
	}
	g := h.geometry()
	if g == nil {
		return nil, ErrNilGeometry
	}
	return g, nil
}

// withLayout returns a copy of t in layout, or in t's own layout when that
// has fewer dimensions. Linear rings become line strings.
func withLayout(t geom.T, layout geom.Layout) (geom.T, error) {
	if layoutOf(t).Stride() < layout.Stride() {
		layout = layoutOf(t)
	}
	src, dst := layoutOf(t).Stride(), layout.Stride()
	flat := dropOrdinates(t.FlatCoords(), src, dst)
	ends := func(in []int) []int {
		out := make([]int, len(in))
		for i, e := range in {
			out[i] = e / src * dst
		}
		return out
	}
	switch t := t.(type) {
	case *geom.Point:
		return geom.NewPointFlat(layout, flat), nil
	case *geom.LineString:
		return geom.NewLineStringFlat(layout, flat), nil
	case *geom.LinearRing:
		return geom.NewLineStringFlat(layout, flat), nil
	case *geom.Polygon:
		return geom.NewPolygonFlat(layout, flat, ends(t.Ends())), nil
	case *geom.MultiPoint:
		mp := geom.NewMultiPoint(layout)
		for i := 0; i < t.NumPoints(); i++ {
			p, err := withLayout(t.Point(i), layout)
			if err != nil {
				return nil, err
			}
			if err := mp.Push(p.(*geom.Point)); err != nil {
				return nil, err
			}
		}
		return mp, nil
	case *geom.MultiLineString:
		return geom.NewMultiLineStringFlat(layout, flat, ends(t.Ends())), nil
	case *geom.MultiPolygon:
		endss := make([][]int, 0, len(t.Endss()))
		for _, e := range t.Endss() {
			endss = append(endss, ends(e))
		}
		return geom.NewMultiPolygonFlat(layout, flat, endss), nil
	case *geom.GeometryCollection:
		gc := geom.NewGeometryCollection()
		for _, c := range t.Geoms() {
			cc, err := withLayout(c, layout)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(cc); err != nil {
				return nil, engineError(err, "write WKB")
			}
		}
		return gc, nil
	default:
		return nil, errors.Wrapf(ErrUnexpectedType, "%T", t)
	}
}

func dropOrdinates(flat []float64, src, dst int) []float64 {
	if src == dst {
		return append([]float64(nil), flat...)
	}
	out := make([]float64, 0, len(flat)/src*dst)
	for i := 0; i < len(flat); i += src {
		out = append(out, flat[i:i+dst]...)
	}
	return out
}

// setSRIDT sets the SRID on any geometry withLayout produces.
func setSRIDT(t geom.T, srid int) {
	switch t := t.(type) {
	case *geom.Point:
		t.SetSRID(srid)
	case *geom.LineString:
		t.SetSRID(srid)
	case *geom.Polygon:
		t.SetSRID(srid)
	case *geom.MultiPoint:
		t.SetSRID(srid)
	case *geom.MultiLineString:
		t.SetSRID(srid)
	case *geom.MultiPolygon:
		t.SetSRID(srid)
	case *geom.GeometryCollection:
		t.SetSRID(srid)
	default:
		panic(errors.AssertionFailedf("geos: unknown geometry type %T", t))
	}
}
