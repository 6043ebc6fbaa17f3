package geos

import (
	"github.com/cockroachdb/errors"
	geom "github.com/twpayne/go-geom"
)

// Polygon is a handle to an area bounded by an exterior ring and zero or
// more interior rings.
type Polygon struct {
	*Geometry
}

func (p *Polygon) polygon() *geom.Polygon {
	return p.shape().(*geom.Polygon)
}

// NumInteriorRings returns the number of holes.
func (p *Polygon) NumInteriorRings() int {
	if n := p.polygon().NumLinearRings(); n > 1 {
		return n - 1
	}
	return 0
}

// ring returns a view of ring part; part 0 is the exterior.
func (p *Polygon) ring(part int) *LinearRing {
	g, err := p.ctx.view(p.Geometry, part)
	if err != nil {
		panic(err)
	}
	return &LinearRing{LineString{g}}
}

// ExteriorRing returns a view of the shell. It carries the polygon's SRID
// and keeps the polygon alive; Free it before freeing the polygon.
func (p *Polygon) ExteriorRing() *LinearRing {
	return p.ring(0)
}

// InteriorRingN returns a view of hole n.
func (p *Polygon) InteriorRingN(n int) (*LinearRing, error) {
	if count := p.NumInteriorRings(); n < 0 || n >= count {
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "interior ring %d of %d", n, count)
	}
	return p.ring(n + 1), nil
}

// InteriorRings returns views of every hole in order. Like any view, each
// must be freed (or collected) before the polygon can be freed.
func (p *Polygon) InteriorRings() []*LinearRing {
	n := p.NumInteriorRings()
	rings := make([]*LinearRing, 0, n)
	for i := 0; i < n; i++ {
		rings = append(rings, p.ring(i+1))
	}
	return rings
}

// DumpPoints appends one point list per ring to path, the exterior ring
// first.
func (p *Polygon) DumpPoints(path [][]*Point) [][]*Point {
	n := p.NumInteriorRings()
	for i := 0; i <= n; i++ {
		r := p.ring(i)
		path = append(path, r.DumpPoints(nil))
		if err := r.Free(); err != nil {
			panic(err)
		}
	}
	return path
}
