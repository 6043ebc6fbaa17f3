package geos

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	geom "github.com/twpayne/go-geom"
)

// Orb converts g to an orb geometry. Z values are dropped.
func (g *Geometry) Orb() (orb.Geometry, error) {
	return toOrb(g.shape())
}

func toOrb(t geom.T) (orb.Geometry, error) {
	switch t := t.(type) {
	case *geom.Point:
		if t.Empty() {
			return nil, errors.Wrap(ErrUnsupported, "empty point has no orb form")
		}
		return orb.Point{t.X(), t.Y()}, nil
	case *geom.LineString:
		return orb.LineString(orbPoints(t.FlatCoords(), t.Stride())), nil
	case *geom.LinearRing:
		return orb.Ring(orbPoints(t.FlatCoords(), t.Stride())), nil
	case *geom.Polygon:
		return orbPolygon(t), nil
	case *geom.MultiPoint:
		return orb.MultiPoint(orbPoints(t.FlatCoords(), t.Stride())), nil
	case *geom.MultiLineString:
		mls := make(orb.MultiLineString, 0, t.NumLineStrings())
		for i := 0; i < t.NumLineStrings(); i++ {
			ls := t.LineString(i)
			mls = append(mls, orbPoints(ls.FlatCoords(), ls.Stride()))
		}
		return mls, nil
	case *geom.MultiPolygon:
		mp := make(orb.MultiPolygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			mp = append(mp, orbPolygon(t.Polygon(i)))
		}
		return mp, nil
	case *geom.GeometryCollection:
		c := make(orb.Collection, 0, t.NumGeoms())
		for _, child := range t.Geoms() {
			o, err := toOrb(child)
			if err != nil {
				return nil, err
			}
			c = append(c, o)
		}
		return c, nil
	default:
		return nil, errors.Wrapf(ErrUnexpectedType, "%T", t)
	}
}

func orbPoints(flat []float64, stride int) []orb.Point {
	if stride == 0 {
		return nil
	}
	pts := make([]orb.Point, 0, len(flat)/stride)
	for i := 0; i < len(flat); i += stride {
		pts = append(pts, orb.Point{flat[i], flat[i+1]})
	}
	return pts
}

func orbPolygon(p *geom.Polygon) orb.Polygon {
	poly := make(orb.Polygon, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		r := p.LinearRing(i)
		poly = append(poly, orbPoints(r.FlatCoords(), r.Stride()))
	}
	return poly
}

// FromOrb adopts an orb geometry as a 2D geometry with the given SRID. A
// bound becomes a rectangular polygon.
func (ctx *Context) FromOrb(o orb.Geometry, srid int) (*Geometry, error) {
	if o == nil {
		return nil, ErrNilGeometry
	}
	t, err := fromOrb(o)
	if err != nil {
		return nil, err
	}
	return ctx.own(t, srid), nil
}

func fromOrb(o orb.Geometry) (geom.T, error) {
	switch o := o.(type) {
	case orb.Point:
		return geom.NewPointFlat(geom.XY, []float64{o[0], o[1]}), nil
	case orb.MultiPoint:
		return geom.NewMultiPointFlat(geom.XY, orbFlat(o)), nil
	case orb.LineString:
		return buildLineString(&CoordSeq{layout: geom.XY, flat: orbFlat(o)})
	case orb.Ring:
		return buildLinearRing(&CoordSeq{layout: geom.XY, flat: orbFlat(o)})
	case orb.Polygon:
		return polygonFromOrb(o)
	case orb.Bound:
		return polygonFromOrb(o.ToPolygon())
	case orb.MultiLineString:
		var flat []float64
		var ends []int
		for i, ls := range o {
			if len(ls) == 1 {
				return nil, errors.Wrapf(ErrInvalidGeometry, "line %d has 1 point", i)
			}
			flat = append(flat, orbFlat(ls)...)
			ends = append(ends, len(flat))
		}
		return geom.NewMultiLineStringFlat(geom.XY, flat, ends), nil
	case orb.MultiPolygon:
		mp := geom.NewMultiPolygon(geom.XY)
		for _, poly := range o {
			p, err := polygonFromOrb(poly)
			if err != nil {
				return nil, err
			}
			if err := mp.Push(p); err != nil {
				return nil, errors.Mark(err, ErrInvalidGeometry)
			}
		}
		return mp, nil
	case orb.Collection:
		gc := geom.NewGeometryCollection()
		for _, child := range o {
			t, err := fromOrb(child)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(t); err != nil {
				return nil, errors.Mark(err, ErrInvalidGeometry)
			}
		}
		return gc, nil
	default:
		return nil, errors.Wrapf(ErrUnexpectedType, "orb %T", o)
	}
}

func orbFlat[P ~[]orb.Point](pts P) []float64 {
	flat := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		flat = append(flat, p[0], p[1])
	}
	return flat
}

func polygonFromOrb(poly orb.Polygon) (*geom.Polygon, error) {
	if len(poly) == 0 {
		return geom.NewPolygonFlat(geom.XY, nil, nil), nil
	}
	seqs := make([]*CoordSeq, 0, len(poly))
	for i, r := range poly {
		cs := &CoordSeq{layout: geom.XY, flat: orbFlat(r)}
		if _, err := buildLinearRing(cs); err != nil {
			return nil, errors.Wrapf(err, "ring %d", i)
		}
		seqs = append(seqs, cs)
	}
	return buildPolygon(seqs[0], seqs[1:])
}
