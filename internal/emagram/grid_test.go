package emagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardGrid(t *testing.T) {
	g := StandardGrid()

	require.Equal(t, 192, g.Len())
	assert.InDelta(t, 1050.0, g.At(0), 1e-9)
	assert.InDelta(t, 95.0, g.At(g.Len()-1), 1e-9)
	assert.Equal(t, 10, g.ReferenceIndex())
	assert.InDelta(t, ReferencePressure, g.At(g.ReferenceIndex()), 1e-9)

	for i := 1; i < g.Len(); i++ {
		assert.InDelta(t, GridStep, g.At(i-1)-g.At(i), 1e-9)
	}
}

func TestNewPressureGrid_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		levels []float64
	}{
		{"empty", nil},
		{"non-positive", []float64{1000, 500, 0}},
		{"increasing", []float64{1000, 1005}},
		{"duplicate", []float64{1000, 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPressureGrid(tt.levels)
			assert.Error(t, err)
		})
	}
}

func TestNewPressureGrid_CopiesLevels(t *testing.T) {
	levels := []float64{1010, 1000, 990}
	g, err := NewPressureGrid(levels)
	require.NoError(t, err)

	levels[0] = 1
	assert.InDelta(t, 1010.0, g.At(0), 1e-9)

	out := g.Levels()
	out[1] = 2
	assert.InDelta(t, 1000.0, g.At(1), 1e-9)
}

func TestPass(t *testing.T) {
	g, err := NewPressureGrid([]float64{1010, 1005, 1000, 995, 990, 985})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4, 5}, g.Pass(DecreasingPressure))
	assert.Equal(t, []int{1, 0}, g.Pass(IncreasingPressure))
}

func TestPass_StandardGridCoversEveryLevelOnce(t *testing.T) {
	g := StandardGrid()
	up := g.Pass(DecreasingPressure)
	down := g.Pass(IncreasingPressure)

	assert.Len(t, up, 181)
	assert.Len(t, down, 10)
	assert.Equal(t, 11, up[0])
	assert.Equal(t, 9, down[0])

	seen := map[int]bool{g.ReferenceIndex(): true}
	for _, i := range append(up, down...) {
		assert.False(t, seen[i], "level %d visited twice", i)
		seen[i] = true
	}
	assert.Len(t, seen, g.Len())
}

func TestPass_NoReference(t *testing.T) {
	g, err := NewPressureGrid([]float64{900, 800})
	require.NoError(t, err)
	assert.Equal(t, -1, g.ReferenceIndex())
	assert.Nil(t, g.Pass(DecreasingPressure))
}

func TestRestrict(t *testing.T) {
	sub := StandardGrid().Restrict(MixingRatioFloor)

	require.Equal(t, 91, sub.Len())
	assert.InDelta(t, 1050.0, sub.At(0), 1e-9)
	assert.InDelta(t, 600.0, sub.At(sub.Len()-1), 1e-9)
	assert.Equal(t, 10, sub.ReferenceIndex())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "decreasing_pressure", DecreasingPressure.String())
	assert.Equal(t, "increasing_pressure", IncreasingPressure.String())
	assert.Equal(t, "direction(7)", Direction(7).String())
}
