package geos

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// TransformKind names a member of the affine transform family.
type TransformKind int

const (
	TransformAffine TransformKind = iota
	TransformRotate
	TransformRotateX
	TransformRotateY
	TransformRotateZ
	TransformScale
	TransformTransScale
	TransformTranslate
)

// affine is the matrix
//
//	x' = a*x + b*y + c*z + xoff
//	y' = d*x + e*y + f*z + yoff
//	z' = g*x + h*y + i*z + zoff
type affine struct {
	a, b, c, d, e, f, g, h, i float64
	xoff, yoff, zoff          float64
}

// transformKinds maps each kind to its arity and matrix builder. Every
// constructor below goes through NewTransform and this table.
var transformKinds = [...]struct {
	name  string
	arity int
	build func(args []float64) affine
}{
	TransformAffine: {"Affine", 12, func(p []float64) affine {
		return affine{p[0], p[1], p[2], p[3], p[4], p[5], p[6], p[7], p[8], p[9], p[10], p[11]}
	}},
	TransformRotate: {"Rotate", 3, func(p []float64) affine {
		sin, cos := math.Sincos(p[0])
		x0, y0 := p[1], p[2]
		return affine{
			a: cos, b: -sin, d: sin, e: cos, i: 1,
			xoff: x0 - cos*x0 + sin*y0,
			yoff: y0 - sin*x0 - cos*y0,
		}
	}},
	TransformRotateX: {"RotateX", 1, func(p []float64) affine {
		sin, cos := math.Sincos(p[0])
		return affine{a: 1, e: cos, f: -sin, h: sin, i: cos}
	}},
	TransformRotateY: {"RotateY", 1, func(p []float64) affine {
		sin, cos := math.Sincos(p[0])
		return affine{a: cos, c: sin, e: 1, g: -sin, i: cos}
	}},
	TransformRotateZ: {"RotateZ", 1, func(p []float64) affine {
		sin, cos := math.Sincos(p[0])
		return affine{a: cos, b: -sin, d: sin, e: cos, i: 1}
	}},
	TransformScale: {"Scale", 3, func(p []float64) affine {
		return affine{a: p[0], e: p[1], i: p[2]}
	}},
	TransformTransScale: {"TransScale", 4, func(p []float64) affine {
		return affine{a: p[2], e: p[3], i: 1, xoff: p[0] * p[2], yoff: p[1] * p[3]}
	}},
	TransformTranslate: {"Translate", 3, func(p []float64) affine {
		return affine{a: 1, e: 1, i: 1, xoff: p[0], yoff: p[1], zoff: p[2]}
	}},
}

// String returns the kind's name.
func (k TransformKind) String() string {
	if k >= 0 && int(k) < len(transformKinds) {
		return transformKinds[k].name
	}
	return fmt.Sprintf("TransformKind(%d)", int(k))
}

// Transform is a member of the affine transform family with its
// arguments. The matrix is built from Kind and Args when applied, so a
// hand-built value behaves like one from NewTransform.
type Transform struct {
	Kind TransformKind
	Args []float64
}

// NewTransform resolves kind with its arguments. The argument count must
// match the kind: Affine takes a b c d e f g h i xoff yoff zoff, Rotate takes
// radians and an origin x y, RotateX/Y/Z take radians, Scale and Translate
// take x y z, and TransScale takes deltaX deltaY factorX factorY.
func NewTransform(kind TransformKind, args ...float64) (Transform, error) {
	t := Transform{Kind: kind, Args: append([]float64(nil), args...)}
	if _, err := t.matrix(); err != nil {
		return Transform{}, err
	}
	return t, nil
}

func mustTransform(kind TransformKind, args ...float64) Transform {
	t, err := NewTransform(kind, args...)
	if err != nil {
		panic(err)
	}
	return t
}

// AffineParams are the coefficients of an Affine transform.
type AffineParams struct {
	A, B, C, D, E, F, G, H, I float64
	XOff, YOff, ZOff          float64
}

// Affine returns the general affine transform. It panics on non-finite
// coefficients; use NewTransform to get an error instead.
func Affine(p AffineParams) Transform {
	return mustTransform(TransformAffine, p.A, p.B, p.C, p.D, p.E, p.F, p.G, p.H, p.I, p.XOff, p.YOff, p.ZOff)
}

// Rotate rotates by radians counter-clockwise around (originX, originY).
func Rotate(radians, originX, originY float64) Transform {
	return mustTransform(TransformRotate, radians, originX, originY)
}

// RotateX rotates by radians around the x axis.
func RotateX(radians float64) Transform { return mustTransform(TransformRotateX, radians) }

// RotateY rotates by radians around the y axis.
func RotateY(radians float64) Transform { return mustTransform(TransformRotateY, radians) }

// RotateZ rotates by radians around the z axis through the origin.
func RotateZ(radians float64) Transform { return mustTransform(TransformRotateZ, radians) }

// Scale multiplies each ordinate by its factor.
func Scale(x, y, z float64) Transform { return mustTransform(TransformScale, x, y, z) }

// TransScale translates by (deltaX, deltaY) and then scales x and y.
func TransScale(deltaX, deltaY, factorX, factorY float64) Transform {
	return mustTransform(TransformTransScale, deltaX, deltaY, factorX, factorY)
}

// Translate offsets every coordinate.
func Translate(x, y, z float64) Transform { return mustTransform(TransformTranslate, x, y, z) }

// String renders the kind and its arguments, e.g. Translate[1 2 3].
func (t Transform) String() string {
	return fmt.Sprintf("%s%v", t.Kind, t.Args)
}

// Apply transforms every coordinate in place and returns cs. 2D sequences
// are transformed with z = 0 and keep no z.
func (cs *CoordSeq) Apply(t Transform) (*CoordSeq, error) {
	m, err := t.matrix()
	if err != nil {
		return nil, err
	}
	s := cs.stride()
	for i := 0; i < len(cs.flat); i += s {
		x, y, z := cs.flat[i], cs.flat[i+1], 0.0
		if s > 2 {
			z = cs.flat[i+2]
		}
		cs.flat[i] = m.a*x + m.b*y + m.c*z + m.xoff
		cs.flat[i+1] = m.d*x + m.e*y + m.f*z + m.yoff
		if s > 2 {
			cs.flat[i+2] = m.g*x + m.h*y + m.i*z + m.zoff
		}
	}
	return cs, nil
}

// matrix checks the kind and its arguments and builds the affine matrix.
func (t Transform) matrix() (affine, error) {
	if t.Kind < 0 || int(t.Kind) >= len(transformKinds) {
		return affine{}, errors.Wrapf(ErrValidation, "unknown transform %d", int(t.Kind))
	}
	kt := transformKinds[t.Kind]
	if len(t.Args) != kt.arity {
		return affine{}, errors.Wrapf(ErrValidation, "%s takes %d arguments, got %d", kt.name, kt.arity, len(t.Args))
	}
	for _, v := range t.Args {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return affine{}, errors.Wrapf(ErrValidation, "%s argument %v is not finite", kt.name, v)
		}
	}
	return kt.build(t.Args), nil
}
