package geos

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
)

// Context is an engine execution context. It owns the arena every geometry
// created through it lives in, the resolved engine capabilities and the SRID
// policy for derived geometries.
//
// A Context assumes one logical thread of geometry operations at a time.
// Handle release is safe from finalizers; concurrent mutation of the same
// geometry from several goroutines is not.
type Context struct {
	arena      *arena
	engine     *engine
	features   Features
	sridPolicy SRIDPolicy
	buffer     BufferParams
}

// NewContext returns a Context over the built-in planar engine. A nil opts
// uses DefaultOptions.
func NewContext(opts *Options) *Context {
	if opts == nil {
		opts = DefaultOptions()
	}
	policy := opts.SRIDPolicy
	if policy == nil {
		policy = SRIDPolicyZero
	}
	buffer := opts.BufferParams
	if buffer == (BufferParams{}) {
		buffer = DefaultBufferParams()
	}

	ctx := &Context{
		arena:      newArena(),
		engine:     &planar,
		features:   planar.features() & opts.Features,
		sridPolicy: policy,
		buffer:     buffer,
	}
	if glog.V(2) {
		for f := Feature(0); f < numFeatures; f++ {
			glog.Infof("geos: %s engine capability %s: %t", ctx.engine.name, f, ctx.Supports(f))
		}
	}
	return ctx
}

var (
	defaultOnce sync.Once
	defaultCtx  *Context
)

// Default returns the process-wide context, creating it with
// DefaultOptions on first use.
func Default() *Context {
	defaultOnce.Do(func() {
		defaultCtx = NewContext(nil)
	})
	return defaultCtx
}

// Supports reports whether the engine exposes f in this context.
func (ctx *Context) Supports(f Feature) bool {
	return ctx.features.Has(f)
}

// LiveHandles returns the number of geometry records not yet released.
func (ctx *Context) LiveHandles() int {
	return ctx.arena.liveCount()
}

func (ctx *Context) resolveSRID(source int) int {
	return ctx.sridPolicy(source)
}

// CreatePoint returns a point at coord, which must have 2 or 3 values.
func (ctx *Context) CreatePoint(coord ...float64) (*Point, error) {
	cs, err := NewCoordSeq(len(coord), coord)
	if err != nil {
		return nil, err
	}
	p, err := buildPoint(cs)
	if err != nil {
		return nil, err
	}
	return &Point{ctx.own(p, 0)}, nil
}

// CreateLineString returns a line over a copy of cs.
func (ctx *Context) CreateLineString(cs *CoordSeq) (*LineString, error) {
	ls, err := buildLineString(cs)
	if err != nil {
		return nil, err
	}
	return &LineString{ctx.own(ls, 0)}, nil
}

// CreateEmptyLineString returns a line with no coordinates.
func (ctx *Context) CreateEmptyLineString(srid int) *LineString {
	return &LineString{ctx.own(geom.NewLineStringFlat(geom.XY, nil), srid)}
}

// CreateLinearRing returns a ring over a copy of cs. cs must be closed.
func (ctx *Context) CreateLinearRing(cs *CoordSeq) (*LinearRing, error) {
	r, err := buildLinearRing(cs)
	if err != nil {
		return nil, err
	}
	return &LinearRing{LineString{ctx.own(r, 0)}}, nil
}

// CreatePolygon returns a polygon with a copy of shell as its exterior and
// copies of holes as interior rings. The inputs stay owned by the caller.
func (ctx *Context) CreatePolygon(shell *LinearRing, holes ...*LinearRing) (*Polygon, error) {
	if shell == nil {
		return nil, ErrNilGeometry
	}
	holeSeqs := make([]*CoordSeq, 0, len(holes))
	for _, h := range holes {
		if h == nil {
			return nil, ErrNilGeometry
		}
		holeSeqs = append(holeSeqs, h.CoordSeq())
	}
	p, err := buildPolygon(shell.CoordSeq(), holeSeqs)
	if err != nil {
		return nil, err
	}
	return &Polygon{ctx.own(p, 0)}, nil
}

// CreateEmptyPolygon returns a polygon with no rings.
func (ctx *Context) CreateEmptyPolygon(srid int) *Polygon {
	return &Polygon{ctx.own(geom.NewPolygonFlat(geom.XY, nil, nil), srid)}
}

// ReadWKB decodes WKB or EWKB. An embedded SRID is kept on the handle.
func (ctx *Context) ReadWKB(data []byte) (*Geometry, error) {
	t, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, engineError(err, "parse WKB")
	}
	return ctx.adopt(t)
}

// ReadHex decodes hex encoded WKB or EWKB, in either case.
func (ctx *Context) ReadHex(s string) (*Geometry, error) {
	t, err := ewkbhex.Decode(s)
	if err != nil {
		return nil, engineError(err, "parse hex WKB")
	}
	return ctx.adopt(t)
}

// adopt takes ownership of a decoded geometry.
func (ctx *Context) adopt(t geom.T) (*Geometry, error) {
	switch t.Layout() {
	case geom.NoLayout, geom.XY, geom.XYZ:
	default:
		return nil, errors.Wrapf(ErrUnsupported, "coordinate layout %v", t.Layout())
	}
	return ctx.own(t, t.SRID()), nil
}
