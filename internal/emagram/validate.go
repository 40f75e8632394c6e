package emagram

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/thermo"
)

// Validate checks a baseline against the sweep and grid it should have been
// built from and returns every violation found, joined.
func Validate(b domain.Baseline, sweep Sweep, grid PressureGrid) error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(len(b.DryLines) == len(sweep.Thetas), "dryline: %d curves, want %d", len(b.DryLines), len(sweep.Thetas))
	check(len(b.MoistLines) == len(sweep.Thetas), "moistline: %d curves, want %d", len(b.MoistLines), len(sweep.Thetas))
	check(len(b.MixingRatioLines) == len(sweep.MixingRatios), "mixingratioline: %d curves, want %d", len(b.MixingRatioLines), len(sweep.MixingRatios))

	for _, f := range []domain.Family{domain.FamilyDry, domain.FamilyMoist} {
		for i, c := range b.Family(f) {
			check(len(c) == grid.Len(), "%s[%d]: %d points, want %d", f, i, len(c), grid.Len())
			check(alignedWith(c, grid), "%s[%d]: pressures do not follow the grid", f, i)
		}
	}
	for i, c := range b.MixingRatioLines {
		for _, p := range c {
			if float64(p.Pressure) < MixingRatioFloor {
				errs = append(errs, fmt.Errorf("mixingratioline[%d]: point at %d hPa below the %g hPa floor", i, p.Pressure, MixingRatioFloor))
				break
			}
		}
	}

	if len(b.DryLines) == len(sweep.Thetas) {
		for i, theta := range sweep.Thetas {
			pt, ok := b.DryLines[i].At(int(ReferencePressure))
			want := domain.NewCurvePoint(thermo.KelvinToCelsius(theta), ReferencePressure)
			check(ok && !pt.Missing() && math.Abs(*pt.Temperature-*want.Temperature) < 1e-9,
				"dryline[%d]: temperature at %g hPa is not %g °C", i, ReferencePressure, *want.Temperature)
		}
	}

	return errors.Join(errs...)
}

func alignedWith(c domain.Curve, grid PressureGrid) bool {
	if len(c) != grid.Len() {
		return false
	}
	for i, p := range c {
		if p.Pressure != int(grid.At(i)) {
			return false
		}
	}
	return true
}
