package geos

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func pointCoords(pts []*Point) [][]float64 {
	out := make([][]float64, 0, len(pts))
	for _, p := range pts {
		out = append(out, p.Coord())
	}
	return out
}

func TestLineStringNumPoints(t *testing.T) {
	for _, features := range []Features{AllFeatures, AllFeatures.Without(FeatureNumPoints)} {
		ctx := NewContext(&Options{Features: features})
		line := newLine(t, ctx, []float64{0, 0}, []float64{1, 1}, []float64{2, 0})
		require.Equal(t, 3, line.NumPoints())
		require.Equal(t, 0, ctx.CreateEmptyLineString(0).NumPoints())
	}
}

func TestLineStringPointN(t *testing.T) {
	ctx := NewContext(nil)
	line := newLine(t, ctx, []float64{0, 0, 1}, []float64{1, 1, 2}, []float64{2, 0, 3})
	line.SetSRID(4326)

	p, err := line.PointN(1)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 2}, p.Coord())
	require.Equal(t, 4326, p.SRID())

	for _, n := range []int{-1, 3, 100} {
		_, err := line.PointN(n)
		require.True(t, errors.Is(err, ErrIndexOutOfBounds), "PointN(%d): %v", n, err)
	}
}

func TestLineStringAt(t *testing.T) {
	ctx := NewContext(nil)
	line := newLine(t, ctx, []float64{0, 0}, []float64{1, 1}, []float64{2, 0})

	tests := []struct {
		i       int
		want    []float64
		wantErr bool
	}{
		{0, []float64{0, 0}, false},
		{2, []float64{2, 0}, false},
		{-1, []float64{2, 0}, false},
		{-3, []float64{0, 0}, false},
		{-4, nil, true},
		{3, nil, true},
	}
	for _, tt := range tests {
		p, err := line.At(tt.i)
		if tt.wantErr {
			require.True(t, errors.Is(err, ErrIndexOutOfBounds), "At(%d): %v", tt.i, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, p.Coord(), "At(%d)", tt.i)
	}
}

func TestLineStringSlice(t *testing.T) {
	ctx := NewContext(nil)
	line := newLine(t, ctx, []float64{0, 0}, []float64{1, 1}, []float64{2, 0}, []float64{3, 3})

	tests := []struct {
		name string
		i, j int
		want [][]float64
	}{
		{"head", 0, 2, [][]float64{{0, 0}, {1, 1}}},
		{"negative start", -2, 4, [][]float64{{2, 0}, {3, 3}}},
		{"clamped end", 3, 10, [][]float64{{3, 3}}},
		{"clamped start", -10, 1, [][]float64{{0, 0}}},
		{"inverted", 2, 1, [][]float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, pointCoords(line.Slice(tt.i, tt.j)))
		})
	}

	require.Len(t, line.Points(), 4)
}

func TestLineStringDumpPoints(t *testing.T) {
	ctx := NewContext(nil)
	line := newLine(t, ctx, []float64{0, 0}, []float64{1, 1})
	first, err := ctx.CreatePoint(9, 9)
	require.NoError(t, err)

	path := line.DumpPoints([]*Point{first})
	require.Equal(t, [][]float64{{9, 9}, {0, 0}, {1, 1}}, pointCoords(path))
}

func TestLineStringIsClosed(t *testing.T) {
	ctx := NewContext(nil)
	open := newLine(t, ctx, []float64{0, 0}, []float64{1, 1})
	closed := newLine(t, ctx, []float64{0, 0}, []float64{1, 1}, []float64{1, 0}, []float64{0, 0})

	got, err := open.IsClosed()
	require.NoError(t, err)
	require.False(t, got)
	got, err = closed.IsClosed()
	require.NoError(t, err)
	require.True(t, got)

	noClosed := NewContext(&Options{Features: AllFeatures.Without(FeatureIsClosed)})
	_, err = newLine(t, noClosed, []float64{0, 0}, []float64{1, 1}).IsClosed()
	require.True(t, errors.Is(err, ErrUnsupported))
}

func TestLineStringToLinearRing(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Options
		line    [][]float64
		want    [][]float64
		srid    int
		wantErr error
	}{
		{
			name: "closes open line",
			line: [][]float64{{0, 0}, {1, 0}, {1, 1}},
			want: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		},
		{
			name: "keeps closed line",
			line: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
			want: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		},
		{
			name: "without closed check",
			opts: &Options{Features: AllFeatures.Without(FeatureIsClosed)},
			line: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
			want: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		},
		{
			name: "keep srid",
			opts: &Options{Features: AllFeatures, SRIDPolicy: SRIDPolicyKeep},
			line: [][]float64{{0, 0}, {1, 0}, {1, 1}},
			want: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
			srid: 4326,
		},
		{
			name: "forced srid",
			opts: &Options{Features: AllFeatures, SRIDPolicy: SRIDPolicyForce(3857)},
			line: [][]float64{{0, 0}, {1, 0}, {1, 1}},
			want: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
			srid: 3857,
		},
		{
			name:    "too short",
			line:    [][]float64{{0, 0}, {1, 0}},
			wantErr: ErrInvalidGeometry,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(tt.opts)
			line := newLine(t, ctx, tt.line...)
			line.SetSRID(4326)

			ring, err := line.ToLinearRing()
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, TypeLinearRing, ring.Type())
			require.Equal(t, tt.want, coordsOf(ring))
			require.Equal(t, tt.srid, ring.SRID())
		})
	}
}

func TestLineStringToPolygon(t *testing.T) {
	ctx := NewContext(&Options{Features: AllFeatures, SRIDPolicy: SRIDPolicyKeep})
	line := newLine(t, ctx, []float64{0, 0}, []float64{4, 0}, []float64{4, 4})
	line.SetSRID(2154)

	before := ctx.LiveHandles()
	poly, err := line.ToPolygon()
	require.NoError(t, err)
	require.Equal(t, before+1, ctx.LiveHandles(), "intermediate ring must be released")
	require.Equal(t, 2154, poly.SRID())
	require.Equal(t, 0, poly.NumInteriorRings())
	require.Equal(t, [][]float64{{0, 0}, {4, 0}, {4, 4}, {0, 0}}, coordsOf(poly.ExteriorRing()))

	empty, err := ctx.CreateEmptyLineString(0).ToPolygon()
	require.NoError(t, err)
	require.True(t, empty.IsEmpty())
}

func TestLineStringSnapToGridInPlace(t *testing.T) {
	tests := []struct {
		name    string
		ring    bool
		in      [][]float64
		want    [][]float64
		wantErr error
	}{
		{
			name: "line",
			in:   [][]float64{{0.1, 0.1}, {0.9, 1.1}, {2.2, 2.1}},
			want: [][]float64{{0, 0}, {1, 1}, {2, 2}},
		},
		{
			name:    "line collapses to a point",
			in:      [][]float64{{0.1, 0.1}, {0.2, 0.2}},
			wantErr: ErrInvalidGeometry,
		},
		{
			name: "ring",
			ring: true,
			in:   [][]float64{{0, 0}, {1.2, 0}, {0, 1.1}, {0, 0}},
			want: [][]float64{{0, 0}, {1, 0}, {0, 1}, {0, 0}},
		},
		{
			name:    "ring collapses to a point",
			ring:    true,
			in:      [][]float64{{0, 0}, {0.3, 0}, {0.3, 0.3}, {0, 0}},
			wantErr: ErrInvalidGeometry,
		},
		{
			name:    "ring collapses to a line",
			ring:    true,
			in:      [][]float64{{0, 0}, {1.2, 0}, {1.1, 0.1}, {0, 0}},
			wantErr: ErrInvalidGeometry,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(nil)
			var line *LineString
			if tt.ring {
				line = &newRing(t, ctx, tt.in...).LineString
			} else {
				line = newLine(t, ctx, tt.in...)
			}

			err := line.SnapToGridInPlace(UniformGrid(1))
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				require.Equal(t, tt.in, coordsOf(line), "failed snap must leave the line alone")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, coordsOf(line))
			if tt.ring {
				require.Equal(t, TypeLinearRing, line.Type())
			}
		})
	}
}

func TestLineStringSnapToGridEdgeCases(t *testing.T) {
	ctx := NewContext(nil)

	empty := ctx.CreateEmptyLineString(0)
	require.NoError(t, empty.SnapToGridInPlace(UniformGrid(1)))
	require.True(t, empty.IsEmpty())

	line := newLine(t, ctx, []float64{0, 0}, []float64{1, 1})
	require.True(t, errors.Is(line.SnapToGridInPlace(UniformGrid(-1)), ErrValidation))

	poly := newPolygon(t, ctx, square)
	require.True(t, errors.Is(poly.ExteriorRing().SnapToGridInPlace(UniformGrid(1)), ErrReadOnlyView))
}

func TestLineStringSnapToGrid(t *testing.T) {
	for _, tt := range []struct {
		name   string
		policy SRIDPolicy
		want   int
	}{
		{"zero", SRIDPolicyZero, 0},
		{"keep", SRIDPolicyKeep, 4326},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(&Options{Features: AllFeatures, SRIDPolicy: tt.policy})
			line := newLine(t, ctx, []float64{0.4, 0.4}, []float64{1.6, 1.6})
			line.SetSRID(4326)

			snapped, err := line.SnapToGrid(UniformGrid(1))
			require.NoError(t, err)
			require.Equal(t, [][]float64{{0, 0}, {2, 2}}, coordsOf(snapped))
			require.Equal(t, [][]float64{{0.4, 0.4}, {1.6, 1.6}}, coordsOf(line))
			require.Equal(t, tt.want, snapped.SRID())
		})
	}

	t.Run("failure frees the copy", func(t *testing.T) {
		ctx := NewContext(nil)
		line := newLine(t, ctx, []float64{0.1, 0.1}, []float64{0.2, 0.2})
		_, err := line.SnapToGrid(UniformGrid(1))
		require.True(t, errors.Is(err, ErrInvalidGeometry))
		require.Equal(t, 1, ctx.LiveHandles())
	})

	t.Run("copy of a view", func(t *testing.T) {
		ctx := NewContext(nil)
		poly := newPolygon(t, ctx, [][]float64{{0.1, 0}, {10, 0}, {10, 10.2}, {0, 10}, {0.1, 0}})
		ring, err := poly.ExteriorRing().SnapToGrid(UniformGrid(1))
		require.NoError(t, err)
		require.False(t, ring.IsView())
		require.Equal(t, TypeLinearRing, ring.Type())
		require.Equal(t, square, coordsOf(ring))
	})
}

func TestLineStringExtremum(t *testing.T) {
	ctx := NewContext(nil)
	line := newLine(t, ctx, []float64{1, 5}, []float64{-3, 2}, []float64{4, -1})

	v, ok := line.Extremum(XMax)
	require.True(t, ok)
	require.Equal(t, 4.0, v)
	v, ok = line.Extremum(YMin)
	require.True(t, ok)
	require.Equal(t, -1.0, v)
	v, ok = line.Extremum(ZMin)
	require.True(t, ok)
	require.Equal(t, 0.0, v)

	_, ok = ctx.CreateEmptyLineString(0).Extremum(XMin)
	require.False(t, ok)
}

func TestLineStringTransform(t *testing.T) {
	ctx := NewContext(&Options{Features: AllFeatures, SRIDPolicy: SRIDPolicyForce(900913)})
	line := newLine(t, ctx, []float64{0, 0}, []float64{1, 0})
	line.SetSRID(4326)

	moved, err := line.Transform(Translate(1, 2, 0))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2}, {2, 2}}, coordsOf(moved))
	require.Equal(t, 900913, moved.SRID())
	require.Equal(t, [][]float64{{0, 0}, {1, 0}}, coordsOf(line))

	require.NoError(t, line.TransformInPlace(Scale(2, 2, 1)))
	require.Equal(t, [][]float64{{0, 0}, {2, 0}}, coordsOf(line))
	require.Equal(t, 4326, line.SRID())

	empty := ctx.CreateEmptyLineString(0)
	require.NoError(t, empty.TransformInPlace(Translate(1, 1, 1)))
	require.True(t, empty.IsEmpty())

	require.True(t, errors.Is(line.TransformInPlace(Transform{}), ErrValidation))
}

func TestLinearRingTransformStaysClosed(t *testing.T) {
	ctx := NewContext(nil)
	ring := newRing(t, ctx, square...)

	require.NoError(t, ring.TransformInPlace(Rotate(0.3, 5, 5)))
	closed, err := ring.IsClosed()
	require.NoError(t, err)
	require.True(t, closed)
	require.Equal(t, TypeLinearRing, ring.Type())

	rotated, err := ring.Transform(Rotate(-0.3, 5, 5))
	require.NoError(t, err)
	if diff := cmp.Diff(square, coordsOf(rotated), approx); diff != "" {
		t.Errorf("round trip rotation mismatch (-want +got):\n%s", diff)
	}

	poly := newPolygon(t, ctx, square)
	require.True(t, errors.Is(poly.ExteriorRing().TransformInPlace(Translate(1, 1, 0)), ErrReadOnlyView))
}

func TestLinearRingToPolygon(t *testing.T) {
	ctx := NewContext(nil)
	ring := newRing(t, ctx, square...)
	ring.SetSRID(4326)

	poly, err := ring.ToPolygon()
	require.NoError(t, err)
	require.Equal(t, 0, poly.SRID())
	require.Equal(t, square, coordsOf(poly.ExteriorRing()))
}
