package thermo

import (
	"fmt"
	"math"
)

// LCLTemperature estimates the temperature (K) at the lifting condensation
// level of air with temperature t and dew point td (both K), after Bolton
// (1980) eq. 15.
func LCLTemperature(t, td float64) (float64, error) {
	if t <= 0 || td <= 56 {
		return 0, fmt.Errorf("lcl temperature t=%g td=%g: %w", t, td, ErrDomain)
	}
	return 1/(1/(td-56)+math.Log(t/td)/800) + 56, nil
}

// EquivalentPotentialTemperature returns θe (K) for air at pressure p (hPa)
// with temperature t and dew point td (K).
func EquivalentPotentialTemperature(p, t, td float64) (float64, error) {
	if p <= 0 {
		return 0, fmt.Errorf("equivalent potential temperature p=%g: %w", p, ErrDomain)
	}
	tl, err := LCLTemperature(t, td)
	if err != nil {
		return 0, err
	}
	e, err := SaturationVaporPressure(td)
	if err != nil {
		return 0, err
	}
	w, err := MixingRatio(p, e)
	if err != nil {
		return 0, err
	}

	theta := t * math.Pow(ReferencePressure/(p-e), Kappa) * math.Pow(t/tl, 0.28*w)
	return theta * math.Exp((3036/tl-1.78)*w*(1+0.448*w)), nil
}

// SaturationEquivalentPotentialTemperature returns θes (K): the θe air at
// pressure p (hPa) and temperature t (K) would have if it were saturated.
func SaturationEquivalentPotentialTemperature(p, t float64) (float64, error) {
	es, err := SaturationVaporPressure(t)
	if err != nil {
		return 0, err
	}
	w, err := MixingRatio(p, es)
	if err != nil {
		return 0, err
	}

	theta := t * math.Pow(ReferencePressure/(p-es), Kappa)
	return theta * math.Exp((3036/t-1.78)*w*(1+0.448*w)), nil
}
