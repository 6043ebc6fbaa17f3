package geos

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestGeometryOrb(t *testing.T) {
	ctx := NewContext(nil)
	p, err := ctx.CreatePoint(1, 2, 3)
	require.NoError(t, err)

	tests := []struct {
		name string
		g    *Geometry
		want orb.Geometry
	}{
		{"point", p.Geometry, orb.Point{1, 2}},
		{"line", newLine(t, ctx, []float64{0, 0, 9}, []float64{1, 1, 9}).Geometry, orb.LineString{{0, 0}, {1, 1}}},
		{"ring", newRing(t, ctx, hole1...).Geometry, orb.Ring{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}}},
		{"polygon", newPolygon(t, ctx, square, hole1).Geometry, orb.Polygon{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.g.Orb()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFromOrb(t *testing.T) {
	ctx := NewContext(nil)

	tests := []struct {
		name     string
		in       orb.Geometry
		wantType GeometryType
		wantErr  error
	}{
		{"point", orb.Point{1, 2}, TypePoint, nil},
		{"multipoint", orb.MultiPoint{{1, 2}, {3, 4}}, TypeMultiPoint, nil},
		{"line", orb.LineString{{0, 0}, {1, 1}}, TypeLineString, nil},
		{"short line", orb.LineString{{0, 0}}, 0, ErrInvalidGeometry},
		{"ring", orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, TypeLinearRing, nil},
		{"open ring", orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 0, ErrInvalidGeometry},
		{"polygon", orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, TypePolygon, nil},
		{"empty polygon", orb.Polygon{}, TypePolygon, nil},
		{"bound", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 3}}, TypePolygon, nil},
		{"multilinestring", orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}, TypeMultiLineString, nil},
		{"multilinestring short", orb.MultiLineString{{{0, 0}}}, 0, ErrInvalidGeometry},
		{"multipolygon", orb.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, TypeMultiPolygon, nil},
		{"collection", orb.Collection{orb.Point{1, 1}, orb.LineString{{0, 0}, {1, 1}}}, TypeGeometryCollection, nil},
		{"collection with bad child", orb.Collection{orb.Ring{{0, 0}}}, 0, ErrInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ctx.FromOrb(tt.in, 4326)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantType, g.Type())
			require.Equal(t, 4326, g.SRID())
		})
	}

	_, err := ctx.FromOrb(nil, 0)
	require.True(t, errors.Is(err, ErrNilGeometry))
}

func TestFromOrbBound(t *testing.T) {
	ctx := NewContext(nil)
	g, err := ctx.FromOrb(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 3}}, 0)
	require.NoError(t, err)
	poly, err := g.AsPolygon()
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, 0}, {2, 0}, {2, 3}, {0, 3}, {0, 0}}, coordsOf(poly.ExteriorRing()))

	back, err := g.Orb()
	require.NoError(t, err)
	require.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 3}}, back.Bound())
}
