package geos

import (
	"math"

	"github.com/cockroachdb/errors"
	geom "github.com/twpayne/go-geom"
)

// JoinStyle selects how offset segments meet at an outside corner.
type JoinStyle int

const (
	JoinRound JoinStyle = iota + 1
	JoinMitre
	JoinBevel
)

// String returns the join style's name.
func (j JoinStyle) String() string {
	switch j {
	case JoinRound:
		return "round"
	case JoinMitre:
		return "mitre"
	case JoinBevel:
		return "bevel"
	default:
		return "unknown"
	}
}

// BufferParams configures offset curve construction.
type BufferParams struct {
	QuadSegs   int       // Segments per quarter circle in round joins
	JoinStyle  JoinStyle // Corner join style
	MitreLimit float64   // Maximum mitre length as a multiple of the width
}

// DefaultBufferParams returns the engine defaults.
func DefaultBufferParams() BufferParams {
	return BufferParams{
		QuadSegs:   8,
		JoinStyle:  JoinRound,
		MitreLimit: 5.0,
	}
}

// BufferOption overrides one buffer parameter.
type BufferOption func(*BufferParams)

// WithQuadSegs sets the number of segments used per quarter circle in
// round joins.
func WithQuadSegs(n int) BufferOption {
	return func(p *BufferParams) { p.QuadSegs = n }
}

// WithJoinStyle sets how outside corners are joined.
func WithJoinStyle(j JoinStyle) BufferOption {
	return func(p *BufferParams) { p.JoinStyle = j }
}

// WithMitreLimit bounds how far a mitre join may reach, as a multiple of
// the offset width. Longer mitres fall back to a bevel.
func WithMitreLimit(limit float64) BufferOption {
	return func(p *BufferParams) { p.MitreLimit = limit }
}

func (p BufferParams) validate() error {
	if p.QuadSegs < 1 {
		return errors.Newf("quadrant segments must be positive, got %d", p.QuadSegs)
	}
	switch p.JoinStyle {
	case JoinRound, JoinBevel:
	case JoinMitre:
		if !(p.MitreLimit > 0) {
			return errors.Newf("mitre limit must be positive, got %v", p.MitreLimit)
		}
	default:
		return errors.Newf("unknown join style %d", int(p.JoinStyle))
	}
	return nil
}

type vec struct{ x, y float64 }

func (a vec) add(b vec) vec       { return vec{a.x + b.x, a.y + b.y} }
func (a vec) sub(b vec) vec       { return vec{a.x - b.x, a.y - b.y} }
func (a vec) mul(k float64) vec   { return vec{a.x * k, a.y * k} }
func (a vec) cross(b vec) float64 { return a.x*b.y - a.y*b.x }
func (a vec) dot(b vec) float64   { return a.x*b.x + a.y*b.y }
func (a vec) dist(b vec) float64  { return math.Hypot(a.x-b.x, a.y-b.y) }
func (a vec) leftNormal() vec     { return vec{-a.y, a.x} }
func (a vec) eq(b vec) bool       { return a.x == b.x && a.y == b.y }

func (a vec) unit() vec {
	l := math.Hypot(a.x, a.y)
	return vec{a.x / l, a.y / l}
}

// angleAround returns the angle of a seen from c.
func (a vec) angleAround(c vec) float64 {
	return math.Atan2(a.y-c.y, a.x-c.x)
}

// segment is one offset segment together with the source segment direction.
type segment struct {
	p0, p1 vec
	dir    vec
}

const collinearEpsilon = 1e-12

// offsetCurve builds the single-sided parallel curve of a line at distance
// |width|, on the left for positive widths and on the right for negative
// ones. The result keeps the input direction and is always 2D. Self
// intersections in the raw curve are left as produced.
func offsetCurve(cs *CoordSeq, width float64, p BufferParams) (*CoordSeq, error) {
	if math.IsNaN(width) || math.IsInf(width, 0) {
		return nil, errors.Newf("offset width must be finite, got %v", width)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	pts := distinctXY(cs)
	out := &CoordSeq{layout: geom.XY}
	if len(pts) < 2 {
		return out, nil
	}
	if width == 0 {
		for _, v := range pts {
			out.flat = append(out.flat, v.x, v.y)
		}
		return out, nil
	}

	segs := make([]segment, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		dir := pts[i].sub(pts[i-1]).unit()
		n := dir.leftNormal().mul(width)
		segs = append(segs, segment{p0: pts[i-1].add(n), p1: pts[i].add(n), dir: dir})
	}

	emit := func(v vec) {
		if k := len(out.flat); k >= 2 && out.flat[k-2] == v.x && out.flat[k-1] == v.y {
			return
		}
		out.flat = append(out.flat, v.x, v.y)
	}

	emit(segs[0].p0)
	for i := 1; i < len(segs); i++ {
		a, b, corner := segs[i-1], segs[i], pts[i]
		turn := a.dir.cross(b.dir)
		switch {
		case math.Abs(turn) < collinearEpsilon && a.dir.dot(b.dir) > 0:
			emit(a.p1)
		case turn*width > 0:
			// Inside corner: the offset segments cross; cut at the crossing.
			if x, ok := intersectLines(a.p0, a.p1, b.p0, b.p1); ok {
				emit(x)
			} else {
				emit(a.p1)
				emit(b.p0)
			}
		default:
			joinCorner(emit, a, b, corner, width, p)
		}
	}
	emit(segs[len(segs)-1].p1)

	if out.Len() < 2 {
		out.flat = out.flat[:0]
	}
	return out, nil
}

// joinCorner emits the outside join between offset segments a and b.
func joinCorner(emit func(vec), a, b segment, corner vec, width float64, p BufferParams) {
	switch p.JoinStyle {
	case JoinMitre:
		if x, ok := intersectLines(a.p0, a.p1, b.p0, b.p1); ok && x.dist(corner) <= p.MitreLimit*math.Abs(width) {
			emit(x)
			return
		}
		emit(a.p1)
		emit(b.p0)
	case JoinBevel:
		emit(a.p1)
		emit(b.p0)
	default:
		emitArc(emit, corner, a.p1, b.p0, math.Abs(width), p.QuadSegs)
	}
}

// emitArc emits an arc around c from start to end, going the short way,
// with quadSegs segments per quarter circle. A full reversal sweeps half a
// circle around the outside of the line end.
func emitArc(emit func(vec), c, start, end vec, radius float64, quadSegs int) {
	t0 := start.angleAround(c)
	sweep := end.angleAround(c) - t0
	for sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	for sweep < -math.Pi {
		sweep += 2 * math.Pi
	}
	step := math.Pi / 2 / float64(quadSegs)
	n := int(math.Ceil(math.Abs(sweep)/step - 1e-9))
	emit(start)
	for k := 1; k < n; k++ {
		t := t0 + sweep*float64(k)/float64(n)
		emit(vec{c.x + radius*math.Cos(t), c.y + radius*math.Sin(t)})
	}
	emit(end)
}

// intersectLines intersects the infinite lines through (p0, p1) and (q0, q1).
func intersectLines(p0, p1, q0, q1 vec) (vec, bool) {
	r, s := p1.sub(p0), q1.sub(q0)
	denom := r.cross(s)
	if math.Abs(denom) < collinearEpsilon {
		return vec{}, false
	}
	t := q0.sub(p0).cross(s) / denom
	return p0.add(r.mul(t)), true
}

// distinctXY returns the 2D coordinates of cs with consecutive repeats
// removed.
func distinctXY(cs *CoordSeq) []vec {
	s := cs.stride()
	pts := make([]vec, 0, cs.Len())
	for i := 0; i < len(cs.flat); i += s {
		v := vec{cs.flat[i], cs.flat[i+1]}
		if len(pts) > 0 && pts[len(pts)-1].eq(v) {
			continue
		}
		pts = append(pts, v)
	}
	return pts
}
