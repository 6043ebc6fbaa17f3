package geos

import (
	"github.com/cockroachdb/errors"
	geom "github.com/twpayne/go-geom"
)

// LineString is a handle to a one-dimensional geometry, open or closed.
type LineString struct {
	*Geometry
}

// LinearRing is a closed line string. Rings of a polygon are views into
// the polygon and cannot be modified in place.
type LinearRing struct {
	LineString
}

// CoordSeq returns a copy of the backing coordinate sequence.
func (ls *LineString) CoordSeq() *CoordSeq {
	return seqOf(ls.shape())
}

// NumPoints returns the number of coordinates.
func (ls *LineString) NumPoints() int {
	t := ls.shape()
	if ls.ctx.Supports(FeatureNumPoints) {
		return ls.ctx.engine.numPoints(t)
	}
	return seqOf(t).Len()
}

// PointN returns a new point at coordinate n, carrying the line's SRID.
func (ls *LineString) PointN(n int) (*Point, error) {
	if count := ls.NumPoints(); n < 0 || n >= count {
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "point %d of %d", n, count)
	}
	t, srid := ls.resolve()
	stride := t.Stride()
	flat := append([]float64(nil), t.FlatCoords()[n*stride:(n+1)*stride]...)
	return &Point{ls.ctx.own(geom.NewPointFlat(t.Layout(), flat), srid)}, nil
}

// At returns the point at index i. Negative indexes count from the end.
func (ls *LineString) At(i int) (*Point, error) {
	if i < 0 {
		i += ls.NumPoints()
		if i < 0 {
			return nil, errors.Wrapf(ErrIndexOutOfBounds, "point %d from the end of %d", i-ls.NumPoints(), ls.NumPoints())
		}
	}
	return ls.PointN(i)
}

// Slice returns the points in [i, j). Negative bounds count from the end and
// out of range bounds are clamped.
func (ls *LineString) Slice(i, j int) []*Point {
	n := ls.NumPoints()
	clamp := func(k int) int {
		if k < 0 {
			k += n
		}
		if k < 0 {
			return 0
		}
		if k > n {
			return n
		}
		return k
	}
	i, j = clamp(i), clamp(j)
	if j <= i {
		return nil
	}
	pts := make([]*Point, 0, j-i)
	for k := i; k < j; k++ {
		p, err := ls.PointN(k)
		if err != nil {
			panic(errors.NewAssertionErrorWithWrappedErrf(err, "geos: point %d within [0, %d)", k, n))
		}
		pts = append(pts, p)
	}
	return pts
}

// Points materializes every point of the line.
func (ls *LineString) Points() []*Point {
	return ls.Slice(0, ls.NumPoints())
}

// DumpPoints appends the line's points to path.
func (ls *LineString) DumpPoints(path []*Point) []*Point {
	return append(path, ls.Points()...)
}

// IsClosed reports whether the first and last coordinates are equal. It
// fails with ErrUnsupported when the engine lacks the closed check.
func (ls *LineString) IsClosed() (bool, error) {
	if !ls.ctx.Supports(FeatureIsClosed) {
		return false, errors.Wrap(ErrUnsupported, "closed check")
	}
	return ls.ctx.engine.isClosed(ls.shape()), nil
}

// closed uses the engine check when available and compares the end
// coordinates otherwise.
func (ls *LineString) closed(t geom.T) bool {
	if ls.ctx.Supports(FeatureIsClosed) {
		return ls.ctx.engine.isClosed(t)
	}
	return seqOf(t).IsClosed()
}

// OffsetCurve returns the curve parallel to the line at distance width, on
// the left for positive widths. opts are applied over the context's buffer
// defaults.
func (ls *LineString) OffsetCurve(width float64, opts ...BufferOption) (*LineString, error) {
	if !ls.ctx.Supports(FeatureOffsetCurve) {
		return nil, errors.Wrap(ErrUnsupported, "offset curve")
	}
	params := ls.ctx.buffer
	for _, o := range opts {
		o(&params)
	}
	t, srid := ls.resolve()
	cs, err := ls.ctx.engine.offsetCurve(seqOf(t), width, params)
	if err != nil {
		return nil, engineError(err, "offset curve")
	}
	out, err := buildLineString(cs)
	if err != nil {
		return nil, engineError(err, "offset curve")
	}
	return &LineString{ls.ctx.own(out, srid)}, nil
}

// ToLinearRing returns a ring over the line's coordinates, appending the
// first coordinate when the line is open.
func (ls *LineString) ToLinearRing() (*LinearRing, error) {
	t, srid := ls.resolve()
	cs := seqOf(t)
	if !ls.closed(t) {
		cs = cs.closed()
	}
	r, err := buildLinearRing(cs)
	if err != nil {
		return nil, err
	}
	return &LinearRing{LineString{ls.ctx.own(r, ls.ctx.resolveSRID(srid))}}, nil
}

// ToPolygon returns a polygon whose shell is the line, closed if needed.
func (ls *LineString) ToPolygon() (*Polygon, error) {
	r, err := ls.ToLinearRing()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Free() }()
	return r.ToPolygon()
}

// ToPolygon returns a polygon with r as its shell and no holes.
func (r *LinearRing) ToPolygon() (*Polygon, error) {
	t, srid := r.resolve()
	p, err := buildPolygon(seqOf(t), nil)
	if err != nil {
		return nil, err
	}
	return &Polygon{r.ctx.own(p, r.ctx.resolveSRID(srid))}, nil
}

// SnapToGridInPlace quantizes the line to g and collapses repeated points.
// A result with no points becomes an empty line; a single point is an
// ErrInvalidGeometry. Empty lines are left alone. A ring stays a ring, so
// a ring snapped down to 2 or 3 points is an ErrInvalidGeometry too.
func (ls *LineString) SnapToGridInPlace(g Grid) error {
	if err := g.validate(); err != nil {
		return err
	}
	if err := ls.mutable(); err != nil {
		return err
	}
	t := ls.shape()
	if isEmptyT(t) {
		return nil
	}
	cs, err := seqOf(t).SnapToGrid(g)
	if err != nil {
		return err
	}
	var out geom.T
	switch n := cs.Len(); n {
	case 0:
		out, err = rebuildLike(t, &CoordSeq{layout: cs.layout})
	case 1:
		return errors.Wrapf(ErrInvalidGeometry,
			"snap to grid produced %d point for a %s, must be 0 or > 1", n, typeOf(t))
	default:
		out, err = rebuildLike(t, cs)
	}
	if err != nil {
		return err
	}
	return ls.ctx.arena.replace(ls.h, out)
}

// SnapToGrid is SnapToGridInPlace on a copy.
func (ls *LineString) SnapToGrid(g Grid) (*LineString, error) {
	return ls.derive(func(dup *LineString) error { return dup.SnapToGridInPlace(g) })
}

// TransformInPlace applies tr to every coordinate. Empty lines are left
// alone.
func (ls *LineString) TransformInPlace(tr Transform) error {
	if _, err := tr.matrix(); err != nil {
		return err
	}
	if err := ls.mutable(); err != nil {
		return err
	}
	t := ls.shape()
	if isEmptyT(t) {
		return nil
	}
	cs, err := seqOf(t).Apply(tr)
	if err != nil {
		return err
	}
	out, err := rebuildLike(t, cs)
	if err != nil {
		return err
	}
	return ls.ctx.arena.replace(ls.h, out)
}

// Transform is TransformInPlace on a copy.
func (ls *LineString) Transform(tr Transform) (*LineString, error) {
	return ls.derive(func(dup *LineString) error { return dup.TransformInPlace(tr) })
}

// derive runs an in-place operation on an owning copy of ls and gives the
// copy the SRID chosen by the context policy.
func (ls *LineString) derive(op func(dup *LineString) error) (*LineString, error) {
	dup := &LineString{ls.Clone()}
	if err := op(dup); err != nil {
		_ = dup.Free()
		return nil, err
	}
	dup.SetSRID(ls.ctx.resolveSRID(ls.SRID()))
	return dup, nil
}

// Extremum returns the requested coordinate extreme. ok is false for an
// empty line. Z extremes of a 2D line are 0.
func (ls *LineString) Extremum(e Extremum) (v float64, ok bool) {
	return seqOf(ls.shape()).Extremum(e)
}
