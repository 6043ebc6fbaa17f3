package geos

import (
	"math"

	"github.com/cockroachdb/errors"
	geom "github.com/twpayne/go-geom"
)

// CoordSeq is a position-indexed, mutable list of 2D or 3D coordinates.
type CoordSeq struct {
	layout geom.Layout
	flat   []float64
}

// NewCoordSeq returns a sequence of dims-dimensional coordinates. dims must
// be 2 or 3 and every coordinate must have exactly dims values.
func NewCoordSeq(dims int, coords ...[]float64) (*CoordSeq, error) {
	layout, err := layoutForDims(dims)
	if err != nil {
		return nil, err
	}
	flat := make([]float64, 0, len(coords)*dims)
	for i, c := range coords {
		if len(c) != dims {
			return nil, errors.Wrapf(ErrValidation, "coordinate %d has %d values, want %d", i, len(c), dims)
		}
		flat = append(flat, c...)
	}
	return &CoordSeq{layout: layout, flat: flat}, nil
}

func layoutForDims(dims int) (geom.Layout, error) {
	switch dims {
	case 2:
		return geom.XY, nil
	case 3:
		return geom.XYZ, nil
	default:
		return geom.NoLayout, errors.Wrapf(ErrValidation, "dimensions must be 2 or 3, got %d", dims)
	}
}

// layoutOf returns t's layout, treating the layout of an empty geometry
// without one as XY.
func layoutOf(t geom.T) geom.Layout {
	if t == nil || t.Layout() == geom.NoLayout {
		return geom.XY
	}
	return t.Layout()
}

// seqOf copies the coordinates of a point or line-like geometry.
func seqOf(t geom.T) *CoordSeq {
	return &CoordSeq{
		layout: layoutOf(t),
		flat:   append([]float64(nil), t.FlatCoords()...),
	}
}

func (cs *CoordSeq) stride() int { return cs.layout.Stride() }

// Len returns the number of coordinates.
func (cs *CoordSeq) Len() int { return len(cs.flat) / cs.stride() }

// Dimensions returns 2 or 3.
func (cs *CoordSeq) Dimensions() int { return cs.stride() }

// HasZ reports whether the sequence carries z values.
func (cs *CoordSeq) HasZ() bool { return cs.layout.ZIndex() != -1 }

func (cs *CoordSeq) check(i int) error {
	if i < 0 || i >= cs.Len() {
		return errors.Wrapf(ErrIndexOutOfBounds, "coordinate %d of %d", i, cs.Len())
	}
	return nil
}

func (cs *CoordSeq) ordinate(i, dim int) (float64, error) {
	if err := cs.check(i); err != nil {
		return 0, err
	}
	if dim >= cs.stride() {
		return 0, nil
	}
	return cs.flat[i*cs.stride()+dim], nil
}

func (cs *CoordSeq) setOrdinate(i, dim int, v float64) error {
	if err := cs.check(i); err != nil {
		return err
	}
	if dim >= cs.stride() {
		return errors.Wrapf(ErrValidation, "dimension %d on a %d-dimensional sequence", dim, cs.stride())
	}
	cs.flat[i*cs.stride()+dim] = v
	return nil
}

// X returns the x ordinate of coordinate i.
func (cs *CoordSeq) X(i int) (float64, error) { return cs.ordinate(i, 0) }

// Y returns the y ordinate of coordinate i.
func (cs *CoordSeq) Y(i int) (float64, error) { return cs.ordinate(i, 1) }

// Z returns the z ordinate of coordinate i, or 0 for 2D sequences.
func (cs *CoordSeq) Z(i int) (float64, error) { return cs.ordinate(i, 2) }

// SetX sets the x ordinate of coordinate i.
func (cs *CoordSeq) SetX(i int, v float64) error { return cs.setOrdinate(i, 0, v) }

// SetY sets the y ordinate of coordinate i.
func (cs *CoordSeq) SetY(i int, v float64) error { return cs.setOrdinate(i, 1, v) }

// SetZ sets the z ordinate of coordinate i. It fails on a 2D sequence.
func (cs *CoordSeq) SetZ(i int, v float64) error { return cs.setOrdinate(i, 2, v) }

// Coord returns a copy of coordinate i.
func (cs *CoordSeq) Coord(i int) ([]float64, error) {
	if err := cs.check(i); err != nil {
		return nil, err
	}
	s := cs.stride()
	return append([]float64(nil), cs.flat[i*s:(i+1)*s]...), nil
}

// Coords returns a copy of every coordinate.
func (cs *CoordSeq) Coords() [][]float64 {
	s := cs.stride()
	out := make([][]float64, 0, cs.Len())
	for i := 0; i < len(cs.flat); i += s {
		out = append(out, append([]float64(nil), cs.flat[i:i+s]...))
	}
	return out
}

// Clone returns a deep copy.
func (cs *CoordSeq) Clone() *CoordSeq {
	return &CoordSeq{layout: cs.layout, flat: append([]float64(nil), cs.flat...)}
}

// IsClosed reports whether the first and last coordinates are equal. An
// empty sequence is not closed.
func (cs *CoordSeq) IsClosed() bool {
	n := cs.Len()
	if n == 0 {
		return false
	}
	return cs.equalAt(0, n-1)
}

func (cs *CoordSeq) equalAt(i, j int) bool {
	s := cs.stride()
	for d := 0; d < s; d++ {
		if cs.flat[i*s+d] != cs.flat[j*s+d] {
			return false
		}
	}
	return true
}

// closed returns a copy with the first coordinate appended when the
// sequence is open.
func (cs *CoordSeq) closed() *CoordSeq {
	c := cs.Clone()
	if cs.Len() > 0 && !cs.IsClosed() {
		c.flat = append(c.flat, cs.flat[:cs.stride()]...)
	}
	return c
}

// Grid describes a snapping grid. A zero size leaves that dimension alone.
type Grid struct {
	SizeX, SizeY, SizeZ       float64
	OffsetX, OffsetY, OffsetZ float64
}

// UniformGrid returns a grid with the same cell size in every dimension
// and its origin at zero.
func UniformGrid(size float64) Grid {
	return Grid{SizeX: size, SizeY: size, SizeZ: size}
}

func (g Grid) validate() error {
	for _, v := range [...]float64{g.SizeX, g.SizeY, g.SizeZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.Wrapf(ErrValidation, "grid size must be a non-negative number, got %v", v)
		}
	}
	for _, v := range [...]float64{g.OffsetX, g.OffsetY, g.OffsetZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrValidation, "grid offset must be finite, got %v", v)
		}
	}
	return nil
}

func snap(v, size, offset float64) float64 {
	if size == 0 {
		return v
	}
	return math.Round((v-offset)/size)*size + offset
}

// SnapToGrid quantizes every coordinate to g in place and collapses
// consecutive duplicates. It returns cs.
func (cs *CoordSeq) SnapToGrid(g Grid) (*CoordSeq, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	sizes := [...]float64{g.SizeX, g.SizeY, g.SizeZ}
	offsets := [...]float64{g.OffsetX, g.OffsetY, g.OffsetZ}
	s := cs.stride()
	for i := 0; i < len(cs.flat); i += s {
		for d := 0; d < s; d++ {
			cs.flat[i+d] = snap(cs.flat[i+d], sizes[d], offsets[d])
		}
	}
	cs.dedupe()
	return cs, nil
}

// dedupe removes consecutive repeated coordinates in place.
func (cs *CoordSeq) dedupe() {
	n := cs.Len()
	if n < 2 {
		return
	}
	s := cs.stride()
	out := 1
	for i := 1; i < n; i++ {
		if cs.equalAt(i, out-1) {
			continue
		}
		copy(cs.flat[out*s:(out+1)*s], cs.flat[i*s:(i+1)*s])
		out++
	}
	cs.flat = cs.flat[:out*s]
}

// Extremum names a coordinate extreme.
type Extremum int

const (
	XMax Extremum = iota
	XMin
	YMax
	YMin
	ZMax
	ZMin
)

var extrema = [...]struct {
	name string
	dim  int
	max  bool
}{
	XMax: {"XMax", 0, true},
	XMin: {"XMin", 0, false},
	YMax: {"YMax", 1, true},
	YMin: {"YMin", 1, false},
	ZMax: {"ZMax", 2, true},
	ZMin: {"ZMin", 2, false},
}

// String returns the extremum's name.
func (e Extremum) String() string {
	if e >= 0 && int(e) < len(extrema) {
		return extrema[e].name
	}
	return "Extremum(?)"
}

// Extremum returns the requested extreme over the sequence. ok is false for
// an empty sequence or an unknown extremum. Z extremes of a 2D sequence are 0.
func (cs *CoordSeq) Extremum(e Extremum) (v float64, ok bool) {
	if e < 0 || int(e) >= len(extrema) || cs.Len() == 0 {
		return 0, false
	}
	x := extrema[e]
	s := cs.stride()
	if x.dim >= s {
		return 0, true
	}
	v = cs.flat[x.dim]
	for i := s + x.dim; i < len(cs.flat); i += s {
		if c := cs.flat[i]; (x.max && c > v) || (!x.max && c < v) {
			v = c
		}
	}
	return v, true
}
