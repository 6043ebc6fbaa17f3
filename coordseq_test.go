package geos

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewCoordSeq(t *testing.T) {
	tests := []struct {
		name    string
		dims    int
		coords  [][]float64
		wantErr error
	}{
		{"2d", 2, [][]float64{{0, 0}, {1, 1}}, nil},
		{"3d", 3, [][]float64{{0, 0, 0}}, nil},
		{"empty", 2, nil, nil},
		{"4d", 4, [][]float64{{0, 0, 0, 0}}, ErrValidation},
		{"short coordinate", 3, [][]float64{{0, 0, 0}, {1, 1}}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := NewCoordSeq(tt.dims, tt.coords...)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tt.coords), cs.Len())
			require.Equal(t, tt.dims, cs.Dimensions())
			require.Equal(t, tt.dims == 3, cs.HasZ())
		})
	}
}

func TestCoordSeqAccessors(t *testing.T) {
	cs := newSeq(t, []float64{1, 2}, []float64{3, 4})

	x, err := cs.X(1)
	require.NoError(t, err)
	require.Equal(t, 3.0, x)
	y, err := cs.Y(0)
	require.NoError(t, err)
	require.Equal(t, 2.0, y)
	z, err := cs.Z(0)
	require.NoError(t, err)
	require.Equal(t, 0.0, z)

	_, err = cs.X(2)
	require.True(t, errors.Is(err, ErrIndexOutOfBounds))
	_, err = cs.Y(-1)
	require.True(t, errors.Is(err, ErrIndexOutOfBounds))

	require.NoError(t, cs.SetX(0, 10))
	require.NoError(t, cs.SetY(1, 20))
	require.True(t, errors.Is(cs.SetZ(0, 1), ErrValidation))
	require.True(t, errors.Is(cs.SetX(5, 1), ErrIndexOutOfBounds))
	require.Equal(t, [][]float64{{10, 2}, {3, 20}}, cs.Coords())

	c, err := cs.Coord(1)
	require.NoError(t, err)
	c[0] = 99
	x, _ = cs.X(1)
	require.Equal(t, 3.0, x, "Coord must return a copy")

	dup := cs.Clone()
	require.NoError(t, dup.SetX(0, -1))
	x, _ = cs.X(0)
	require.Equal(t, 10.0, x, "Clone must be deep")
}

func TestCoordSeqIsClosed(t *testing.T) {
	require.False(t, newSeq(t).IsClosed())
	require.False(t, newSeq(t, []float64{0, 0}, []float64{1, 0}).IsClosed())
	require.True(t, newSeq(t, []float64{0, 0}, []float64{1, 0}, []float64{0, 0}).IsClosed())
	require.False(t, newSeq(t, []float64{0, 0, 0}, []float64{1, 0, 0}, []float64{0, 0, 1}).IsClosed())
}

func TestCoordSeqSnapToGrid(t *testing.T) {
	tests := []struct {
		name    string
		in      [][]float64
		grid    Grid
		want    [][]float64
		wantErr error
	}{
		{
			name: "uniform",
			in:   [][]float64{{0.1, 0.2}, {1.6, 1.4}, {3.2, 3.9}},
			grid: UniformGrid(1),
			want: [][]float64{{0, 0}, {2, 1}, {3, 4}},
		},
		{
			name: "collapses repeats",
			in:   [][]float64{{0, 0}, {0.2, 0.1}, {1, 1}},
			grid: UniformGrid(1),
			want: [][]float64{{0, 0}, {1, 1}},
		},
		{
			name: "offset origin",
			in:   [][]float64{{2.2, 0.1}},
			grid: Grid{SizeX: 2, SizeY: 2, OffsetX: 1, OffsetY: 1},
			want: [][]float64{{3, 1}},
		},
		{
			name: "zero size keeps dimension",
			in:   [][]float64{{1.4, 2.7}},
			grid: Grid{SizeX: 1},
			want: [][]float64{{1, 2.7}},
		},
		{
			name: "3d",
			in:   [][]float64{{0.3, 0.6, 1.26}},
			grid: UniformGrid(0.5),
			want: [][]float64{{0.5, 0.5, 1.5}},
		},
		{
			name:    "negative size",
			in:      [][]float64{{0, 0}},
			grid:    UniformGrid(-1),
			wantErr: ErrValidation,
		},
		{
			name:    "nan size",
			in:      [][]float64{{0, 0}},
			grid:    Grid{SizeY: math.NaN()},
			wantErr: ErrValidation,
		},
		{
			name:    "infinite offset",
			in:      [][]float64{{0, 0}},
			grid:    Grid{SizeX: 1, OffsetX: math.Inf(1)},
			wantErr: ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := newSeq(t, tt.in...).SnapToGrid(tt.grid)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, cs.Coords(), approx); diff != "" {
				t.Errorf("SnapToGrid() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoordSeqExtremum(t *testing.T) {
	cs := newSeq(t, []float64{1, 5, -2}, []float64{3, -1, 4}, []float64{-2, 2, 0})
	tests := []struct {
		e    Extremum
		want float64
	}{
		{XMax, 3},
		{XMin, -2},
		{YMax, 5},
		{YMin, -1},
		{ZMax, 4},
		{ZMin, -2},
	}
	for _, tt := range tests {
		t.Run(tt.e.String(), func(t *testing.T) {
			v, ok := cs.Extremum(tt.e)
			require.True(t, ok)
			require.Equal(t, tt.want, v)
		})
	}

	t.Run("2d z", func(t *testing.T) {
		v, ok := newSeq(t, []float64{1, 1}).Extremum(ZMax)
		require.True(t, ok)
		require.Equal(t, 0.0, v)
	})
	t.Run("empty", func(t *testing.T) {
		_, ok := newSeq(t).Extremum(XMax)
		require.False(t, ok)
	})
	t.Run("unknown", func(t *testing.T) {
		_, ok := cs.Extremum(Extremum(17))
		require.False(t, ok)
	})
}
