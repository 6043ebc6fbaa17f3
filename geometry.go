package geos

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// GeometryType identifies the kind of geometry behind a handle.
type GeometryType int

const (
	TypePoint GeometryType = iota
	TypeLineString
	TypeLinearRing
	TypePolygon
	TypeMultiPoint
	TypeMultiLineString
	TypeMultiPolygon
	TypeGeometryCollection
)

var geometryTypeNames = [...]string{
	TypePoint:              "Point",
	TypeLineString:         "LineString",
	TypeLinearRing:         "LinearRing",
	TypePolygon:            "Polygon",
	TypeMultiPoint:         "MultiPoint",
	TypeMultiLineString:    "MultiLineString",
	TypeMultiPolygon:       "MultiPolygon",
	TypeGeometryCollection: "GeometryCollection",
}

// String returns the type name, e.g. LineString.
func (t GeometryType) String() string {
	if t >= 0 && int(t) < len(geometryTypeNames) {
		return geometryTypeNames[t]
	}
	return "Unknown"
}

// typeOf maps a go-geom geometry to its GeometryType.
func typeOf(t geom.T) GeometryType {
	switch t.(type) {
	case *geom.Point:
		return TypePoint
	case *geom.LineString:
		return TypeLineString
	case *geom.LinearRing:
		return TypeLinearRing
	case *geom.Polygon:
		return TypePolygon
	case *geom.MultiPoint:
		return TypeMultiPoint
	case *geom.MultiLineString:
		return TypeMultiLineString
	case *geom.MultiPolygon:
		return TypeMultiPolygon
	case *geom.GeometryCollection:
		return TypeGeometryCollection
	default:
		panic(errors.AssertionFailedf("geos: unknown geometry type %T", t))
	}
}

// Handle is implemented by every geometry handle type.
type Handle interface {
	geometry() *Geometry
}

// Geometry is a handle to a geometry record in a Context.
//
// An owning handle releases its record when Free is called or, failing that,
// when the handle becomes unreachable. A view handle (a polygon ring) never
// releases its parent's storage and keeps the parent reachable.
type Geometry struct {
	ctx    *Context
	h      handle
	parent *Geometry
}

func (g *Geometry) geometry() *Geometry { return g }

// own registers t as a new owning record and returns its handle.
func (ctx *Context) own(t geom.T, srid int) *Geometry {
	g := &Geometry{ctx: ctx, h: ctx.arena.alloc(t, srid)}
	runtime.SetFinalizer(g, (*Geometry).finalize)
	return g
}

// view registers a view of ring part of parent.
func (ctx *Context) view(parent *Geometry, part int) (*Geometry, error) {
	h, err := ctx.arena.allocView(parent.h, part)
	if err != nil {
		return nil, err
	}
	g := &Geometry{ctx: ctx, h: h, parent: parent}
	runtime.SetFinalizer(g, (*Geometry).finalize)
	return g, nil
}

func (g *Geometry) finalize() {
	if err := g.ctx.arena.release(g.h); err != nil {
		// Live views keep their parent reachable, so this only happens if a
		// view was leaked past its parent's handle.
		glog.Warningf("geos: finalizer could not release handle %d: %v", g.h.idx, err)
		return
	}
	if glog.V(1) {
		glog.Infof("geos: finalizer released handle %d", g.h.idx)
	}
}

// resolve returns the record behind g. Using a released handle is a
// programming error.
func (g *Geometry) resolve() (geom.T, int) {
	t, srid, ok := g.ctx.arena.resolve(g.h)
	if !ok {
		panic(errors.AssertionFailedf("geos: use of released geometry handle %d", g.h.idx))
	}
	return t, srid
}

func (g *Geometry) shape() geom.T {
	t, _ := g.resolve()
	return t
}

// Free releases the geometry. Freeing a released handle is a no-op. A
// polygon whose rings are still referenced by live views cannot be freed
// and returns ErrHandleInUse.
func (g *Geometry) Free() error {
	if err := g.ctx.arena.release(g.h); err != nil {
		return err
	}
	runtime.SetFinalizer(g, nil)
	g.parent = nil
	return nil
}

// Context returns the context g lives in.
func (g *Geometry) Context() *Context { return g.ctx }

// Type returns the geometry kind.
func (g *Geometry) Type() GeometryType { return typeOf(g.shape()) }

// SRID returns the spatial reference identifier, 0 when unset.
func (g *Geometry) SRID() int {
	_, srid := g.resolve()
	return srid
}

// SetSRID sets the spatial reference identifier. It panics on a view,
// which always reports its parent's SRID.
func (g *Geometry) SetSRID(srid int) {
	if err := g.ctx.arena.setSRID(g.h, srid); err != nil {
		panic(err)
	}
}

// IsView reports whether g reads through another geometry's storage.
func (g *Geometry) IsView() bool { return g.ctx.arena.isView(g.h) }

// IsEmpty reports whether g has no coordinates.
func (g *Geometry) IsEmpty() bool { return isEmptyT(g.shape()) }

// HasZ reports whether g carries z values.
func (g *Geometry) HasZ() bool { return layoutOf(g.shape()).ZIndex() != -1 }

// Dimensions returns the coordinate dimension, 2 or 3.
func (g *Geometry) Dimensions() int { return layoutOf(g.shape()).Stride() }

// Clone returns an owning deep copy with the same SRID.
func (g *Geometry) Clone() *Geometry {
	t, srid := g.resolve()
	return g.ctx.own(cloneT(t), srid)
}

// String returns the WKT of g.
func (g *Geometry) String() string {
	s, err := wkt.Marshal(g.shape())
	if err != nil {
		return "<" + g.Type().String() + ">"
	}
	return s
}

// mutable returns an error for views, which must not be modified on their
// own.
func (g *Geometry) mutable() error {
	if g.IsView() {
		return errors.Wrapf(ErrReadOnlyView, "%s handle %d", g.Type(), g.h.idx)
	}
	return nil
}

// AsPoint returns g as a point handle.
func (g *Geometry) AsPoint() (*Point, error) {
	if typ := g.Type(); typ != TypePoint {
		return nil, errors.Wrapf(ErrUnexpectedType, "want Point, got %s", typ)
	}
	return &Point{g}, nil
}

// AsLineString returns g as a line handle. Rings are lines too.
func (g *Geometry) AsLineString() (*LineString, error) {
	switch typ := g.Type(); typ {
	case TypeLineString, TypeLinearRing:
		return &LineString{g}, nil
	default:
		return nil, errors.Wrapf(ErrUnexpectedType, "want LineString, got %s", typ)
	}
}

// AsLinearRing returns g as a ring handle.
func (g *Geometry) AsLinearRing() (*LinearRing, error) {
	if typ := g.Type(); typ != TypeLinearRing {
		return nil, errors.Wrapf(ErrUnexpectedType, "want LinearRing, got %s", typ)
	}
	return &LinearRing{LineString{g}}, nil
}

// AsPolygon returns g as a polygon handle.
func (g *Geometry) AsPolygon() (*Polygon, error) {
	if typ := g.Type(); typ != TypePolygon {
		return nil, errors.Wrapf(ErrUnexpectedType, "want Polygon, got %s", typ)
	}
	return &Polygon{g}, nil
}
