package geos

// Point is a handle to a single-coordinate geometry.
type Point struct {
	*Geometry
}

// X returns the x ordinate.
func (p *Point) X() float64 { return p.shape().FlatCoords()[0] }

// Y returns the y ordinate.
func (p *Point) Y() float64 { return p.shape().FlatCoords()[1] }

// Z returns the z ordinate, or 0 and false for a 2D point.
func (p *Point) Z() (float64, bool) {
	t := p.shape()
	if i := t.Layout().ZIndex(); i != -1 {
		return t.FlatCoords()[i], true
	}
	return 0, false
}

// Coord returns a copy of the point's ordinates.
func (p *Point) Coord() []float64 {
	return append([]float64(nil), p.shape().FlatCoords()...)
}
