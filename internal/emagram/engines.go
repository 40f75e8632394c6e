package emagram

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/thermo"
)

// DefaultMoistSubsteps is the number of RK4 steps between two grid levels.
const DefaultMoistSubsteps = 10

// CurveSource computes one curve of a family for one parameter value.
type CurveSource interface {
	Curve(family domain.Family, param float64) (domain.Curve, error)
}

// DryAdiabatEngine computes dry adiabats by Poisson's equation.
type DryAdiabatEngine struct {
	grid PressureGrid
}

// NewDryAdiabatEngine creates an engine over grid.
func NewDryAdiabatEngine(grid PressureGrid) DryAdiabatEngine {
	return DryAdiabatEngine{grid: grid}
}

// Curve returns the dry adiabat of potential temperature theta (K), one
// point per grid level.
func (e DryAdiabatEngine) Curve(theta float64) (domain.Curve, error) {
	if !(theta > 0) {
		return nil, &CurveError{Family: domain.FamilyDry, Param: theta, Err: ErrDomain}
	}
	curve := make(domain.Curve, e.grid.Len())
	for i := range curve {
		p := e.grid.At(i)
		t, err := thermo.DryAdiabat(theta, p)
		if err != nil {
			return nil, &CurveError{Family: domain.FamilyDry, Param: theta, Err: err}
		}
		curve[i] = domain.NewCurvePoint(thermo.KelvinToCelsius(t), p)
	}
	return curve, nil
}

// MoistAdiabatEngine integrates the saturated adiabatic lapse rate outward
// from the reference pressure.
type MoistAdiabatEngine struct {
	grid     PressureGrid
	substeps int
	logger   *slog.Logger
}

// NewMoistAdiabatEngine creates an engine over grid taking substeps RK4 steps
// per grid interval. grid must contain ReferencePressure.
func NewMoistAdiabatEngine(grid PressureGrid, substeps int, logger *slog.Logger) (MoistAdiabatEngine, error) {
	if grid.ReferenceIndex() < 0 {
		return MoistAdiabatEngine{}, fmt.Errorf("moist adiabat grid lacks the %g hPa reference level", ReferencePressure)
	}
	if substeps < 1 {
		substeps = DefaultMoistSubsteps
	}
	if logger == nil {
		logger = slog.Default()
	}
	return MoistAdiabatEngine{grid: grid, substeps: substeps, logger: logger}, nil
}

// Curve returns the saturated adiabat passing through t0 (K) at the reference
// pressure. The reference point is t0 exactly. Each direction is integrated
// level by level from the previous level's result; when a step leaves the
// physical domain, that level and all beyond it in the same direction are
// missing.
func (e MoistAdiabatEngine) Curve(t0 float64) (domain.Curve, error) {
	if !(t0 > 0) {
		return nil, &CurveError{Family: domain.FamilyMoist, Param: t0, Err: ErrDomain}
	}
	ref := e.grid.ReferenceIndex()
	curve := make(domain.Curve, e.grid.Len())
	curve[ref] = domain.NewCurvePoint(thermo.KelvinToCelsius(t0), e.grid.At(ref))

	for _, dir := range []Direction{DecreasingPressure, IncreasingPressure} {
		e.integrate(curve, t0, dir)
	}
	return curve, nil
}

func (e MoistAdiabatEngine) integrate(curve domain.Curve, t0 float64, dir Direction) {
	pass := e.grid.Pass(dir)
	t, prev := t0, e.grid.At(e.grid.ReferenceIndex())

	for k, i := range pass {
		p := e.grid.At(i)
		next, err := thermo.RK4(thermo.MoistLapseRate, prev, t, p, e.substeps)
		if err == nil && !(next > 0) {
			err = fmt.Errorf("temperature %g K at %g hPa: %w", next, p, ErrIntegrationUnstable)
		}
		if err != nil {
			e.logger.Warn("moist adiabat truncated",
				"t0", t0,
				"direction", dir.String(),
				"pressure", p,
				"missing_levels", len(pass)-k,
				"error", err,
			)
			for _, j := range pass[k:] {
				curve[j] = domain.MissingPoint(e.grid.At(j))
			}
			return
		}
		curve[i] = domain.NewCurvePoint(thermo.KelvinToCelsius(next), p)
		t, prev = next, p
	}
}

// MixingRatioEngine computes constant mixing-ratio lines as dew point against
// pressure.
type MixingRatioEngine struct {
	grid PressureGrid
}

// NewMixingRatioEngine creates an engine over the part of grid at or above
// MixingRatioFloor.
func NewMixingRatioEngine(grid PressureGrid) MixingRatioEngine {
	return MixingRatioEngine{grid: grid.Restrict(MixingRatioFloor)}
}

// Grid returns the restricted grid the engine draws on.
func (e MixingRatioEngine) Grid() PressureGrid { return e.grid }

// Curve returns the isopleth of mixing ratio w (kg/kg). A level whose vapour
// pressure falls outside the dew point inversion is missing.
func (e MixingRatioEngine) Curve(w float64) (domain.Curve, error) {
	if !(w > 0) {
		return nil, &CurveError{Family: domain.FamilyMixingRatio, Param: w, Err: ErrDomain}
	}
	curve := make(domain.Curve, e.grid.Len())
	for i := range curve {
		p := e.grid.At(i)
		curve[i] = domain.MissingPoint(p)

		vp, err := thermo.VaporPressure(p, w)
		if err != nil {
			continue
		}
		td, err := thermo.DewPoint(vp)
		if err != nil {
			continue
		}
		curve[i] = domain.NewCurvePoint(thermo.KelvinToCelsius(td), p)
	}
	return curve, nil
}

// Engines bundles one engine per family and dispatches by family label.
type Engines struct {
	Dry         DryAdiabatEngine
	Moist       MoistAdiabatEngine
	MixingRatio MixingRatioEngine
}

// NewEngines builds the three engines over a shared grid.
func NewEngines(grid PressureGrid, moistSubsteps int, logger *slog.Logger) (Engines, error) {
	moist, err := NewMoistAdiabatEngine(grid, moistSubsteps, logger)
	if err != nil {
		return Engines{}, err
	}
	return Engines{
		Dry:         NewDryAdiabatEngine(grid),
		Moist:       moist,
		MixingRatio: NewMixingRatioEngine(grid),
	}, nil
}

// Curve implements CurveSource.
func (e Engines) Curve(family domain.Family, param float64) (domain.Curve, error) {
	switch family {
	case domain.FamilyDry:
		return e.Dry.Curve(param)
	case domain.FamilyMoist:
		return e.Moist.Curve(param)
	case domain.FamilyMixingRatio:
		return e.MixingRatio.Curve(param)
	default:
		return nil, fmt.Errorf("unknown curve family %q", family)
	}
}
