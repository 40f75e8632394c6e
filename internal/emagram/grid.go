// Package emagram generates the reference curves printed under an emagram:
// dry adiabats, saturated adiabats, and constant mixing-ratio lines, all on a
// shared pressure grid.
package emagram

import (
	"errors"
	"fmt"
)

// Standard grid bounds, hPa.
const (
	GridBottom        = 1050.0
	GridTop           = 95.0
	GridStep          = 5.0
	ReferencePressure = 1000.0

	// MixingRatioFloor is the lowest pressure drawn for mixing-ratio lines.
	MixingRatioFloor = 600.0
)

// Direction selects one of the two integration passes that start at the
// reference pressure.
type Direction int

const (
	// DecreasingPressure walks from the reference level up through the
	// atmosphere to the top of the grid.
	DecreasingPressure Direction = iota
	// IncreasingPressure walks from the reference level down to the bottom of
	// the grid.
	IncreasingPressure
)

func (d Direction) String() string {
	switch d {
	case DecreasingPressure:
		return "decreasing_pressure"
	case IncreasingPressure:
		return "increasing_pressure"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// PressureGrid is a strictly decreasing sequence of pressure levels. It is a
// value type whose levels are never exposed for writing, so one grid is
// shared by every engine.
type PressureGrid struct {
	levels   []float64
	refIndex int // index of ReferencePressure, or -1
}

// NewPressureGrid validates levels (positive, strictly decreasing) and
// locates the reference pressure among them.
func NewPressureGrid(levels []float64) (PressureGrid, error) {
	if len(levels) == 0 {
		return PressureGrid{}, errors.New("pressure grid is empty")
	}
	ref := -1
	for i, p := range levels {
		if !(p > 0) {
			return PressureGrid{}, fmt.Errorf("pressure grid level %d is %g hPa: %w", i, p, ErrDomain)
		}
		if i > 0 && p >= levels[i-1] {
			return PressureGrid{}, fmt.Errorf("pressure grid not strictly decreasing at level %d (%g after %g)", i, p, levels[i-1])
		}
		if p == ReferencePressure {
			ref = i
		}
	}
	return PressureGrid{levels: append([]float64(nil), levels...), refIndex: ref}, nil
}

// StandardGrid returns the 192-level grid 1050, 1045, ..., 95 hPa.
func StandardGrid() PressureGrid {
	n := int((GridBottom-GridTop)/GridStep) + 1
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = GridBottom - float64(i)*GridStep
	}
	g, err := NewPressureGrid(levels)
	if err != nil {
		panic(err)
	}
	return g
}

// Len returns the number of levels.
func (g PressureGrid) Len() int { return len(g.levels) }

// At returns the pressure of level i.
func (g PressureGrid) At(i int) float64 { return g.levels[i] }

// Levels returns a copy of the pressure levels.
func (g PressureGrid) Levels() []float64 {
	return append([]float64(nil), g.levels...)
}

// ReferenceIndex returns the index of ReferencePressure, or -1 when the grid
// does not contain it.
func (g PressureGrid) ReferenceIndex() int { return g.refIndex }

// Pass returns the level indices visited when integrating from the reference
// level in direction d, nearest first. The reference index itself is
// excluded. It returns nil when the grid has no reference level.
func (g PressureGrid) Pass(d Direction) []int {
	if g.refIndex < 0 {
		return nil
	}
	var idx []int
	switch d {
	case DecreasingPressure:
		for i := g.refIndex + 1; i < len(g.levels); i++ {
			idx = append(idx, i)
		}
	case IncreasingPressure:
		for i := g.refIndex - 1; i >= 0; i-- {
			idx = append(idx, i)
		}
	}
	return idx
}

// Restrict returns the sub-grid of levels at or above minPressure hPa.
func (g PressureGrid) Restrict(minPressure float64) PressureGrid {
	sub := PressureGrid{refIndex: -1}
	for _, p := range g.levels {
		if p < minPressure {
			break
		}
		if p == ReferencePressure {
			sub.refIndex = len(sub.levels)
		}
		sub.levels = append(sub.levels, p)
	}
	return sub
}
