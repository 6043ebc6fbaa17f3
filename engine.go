package geos

import (
	"github.com/cockroachdb/errors"
	geom "github.com/twpayne/go-geom"
)

// engine is the function table of the geometry engine. A nil entry means
// the engine build does not expose that operation; Context resolves the
// table into a Features set once at construction.
type engine struct {
	name        string
	numPoints   func(t geom.T) int
	isClosed    func(t geom.T) bool
	offsetCurve func(cs *CoordSeq, width float64, p BufferParams) (*CoordSeq, error)
}

func (e *engine) features() Features {
	var s Features
	if e.numPoints != nil {
		s |= FeatureSet(FeatureNumPoints)
	}
	if e.isClosed != nil {
		s |= FeatureSet(FeatureIsClosed)
	}
	if e.offsetCurve != nil {
		s |= FeatureSet(FeatureOffsetCurve)
	}
	return s
}

// planar is the built-in engine over go-geom geometries.
var planar = engine{
	name: "planar",
	numPoints: func(t geom.T) int {
		if stride := t.Stride(); stride > 0 {
			return len(t.FlatCoords()) / stride
		}
		return 0
	},
	isClosed: func(t geom.T) bool {
		return seqOf(t).IsClosed()
	},
	offsetCurve: offsetCurve,
}

// engineError marks err as an engine failure for op.
func engineError(err error, op string) error {
	return errors.Mark(errors.Wrapf(err, "geos: %s", op), ErrEngine)
}

// buildPoint validates and builds a point from a one-coordinate sequence.
func buildPoint(cs *CoordSeq) (*geom.Point, error) {
	if cs.Len() != 1 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "point needs exactly 1 coordinate, got %d", cs.Len())
	}
	return geom.NewPointFlat(cs.layout, append([]float64(nil), cs.flat...)), nil
}

// buildLineString validates and builds a line string. A line has either no
// coordinates or at least two.
func buildLineString(cs *CoordSeq) (*geom.LineString, error) {
	if n := cs.Len(); n == 1 {
		return nil, errors.Wrapf(ErrInvalidGeometry,
			"invalid number of points in LineString: found %d, must be 0 or > 1", n)
	}
	return geom.NewLineStringFlat(cs.layout, append([]float64(nil), cs.flat...)), nil
}

// buildLinearRing validates and builds a ring. A ring has either no
// coordinates or at least four, with the first equal to the last.
func buildLinearRing(cs *CoordSeq) (*geom.LinearRing, error) {
	n := cs.Len()
	if n > 0 && n < 4 {
		return nil, errors.Wrapf(ErrInvalidGeometry,
			"invalid number of points in LinearRing: found %d, must be 0 or >= 4", n)
	}
	if n > 0 && !cs.IsClosed() {
		return nil, errors.Wrap(ErrInvalidGeometry, "LinearRing is not closed")
	}
	return geom.NewLinearRingFlat(cs.layout, append([]float64(nil), cs.flat...)), nil
}

// buildPolygon assembles a polygon from already validated rings. Every
// ring must share the shell's layout. An empty shell with holes is invalid.
func buildPolygon(shell *CoordSeq, holes []*CoordSeq) (*geom.Polygon, error) {
	if shell.Len() == 0 {
		if len(holes) > 0 {
			return nil, errors.Wrap(ErrInvalidGeometry, "empty shell with holes")
		}
		return geom.NewPolygonFlat(shell.layout, nil, nil), nil
	}
	flat := append([]float64(nil), shell.flat...)
	ends := []int{len(flat)}
	for i, h := range holes {
		if h.layout != shell.layout {
			return nil, errors.Wrapf(ErrInvalidGeometry, "hole %d has %d dimensions, shell has %d",
				i, h.Dimensions(), shell.Dimensions())
		}
		if h.Len() == 0 {
			continue
		}
		flat = append(flat, h.flat...)
		ends = append(ends, len(flat))
	}
	return geom.NewPolygonFlat(shell.layout, flat, ends), nil
}

// rebuildLike builds a geometry of the same line kind as t from cs.
func rebuildLike(t geom.T, cs *CoordSeq) (geom.T, error) {
	if _, ok := t.(*geom.LinearRing); ok {
		return buildLinearRing(cs)
	}
	return buildLineString(cs)
}

// cloneT returns a deep copy of t.
func cloneT(t geom.T) geom.T {
	switch t := t.(type) {
	case *geom.Point:
		return t.Clone()
	case *geom.LineString:
		return t.Clone()
	case *geom.LinearRing:
		return t.Clone()
	case *geom.Polygon:
		return t.Clone()
	case *geom.MultiPoint:
		return t.Clone()
	case *geom.MultiLineString:
		return t.Clone()
	case *geom.MultiPolygon:
		return t.Clone()
	case *geom.GeometryCollection:
		return t.Clone()
	default:
		panic(errors.AssertionFailedf("geos: unknown geometry type %T", t))
	}
}

// isEmptyT reports whether t has no coordinates.
func isEmptyT(t geom.T) bool {
	if c, ok := t.(*geom.GeometryCollection); ok {
		for _, g := range c.Geoms() {
			if !isEmptyT(g) {
				return false
			}
		}
		return true
	}
	return len(t.FlatCoords()) == 0
}
