// Package thermo implements the moist thermodynamics used to draw emagram
// reference curves and to derive quantities from observed soundings.
//
// Pressures are in hectopascals and temperatures in Kelvin unless a function
// name says otherwise. The saturation vapour pressure follows Bolton (1980),
// and the dew point is its exact algebraic inverse, so the mixing-ratio lines
// and the moist adiabats are computed against the same saturation curve.
package thermo

import (
	"errors"
	"fmt"
	"math"
)

// Physical constants shared by every curve family.
const (
	ZeroCelsius = 273.15 // K

	Rd      = 287.05 // J/(K kg), gas constant of dry air
	Cp      = 1004.0 // J/(K kg), specific heat of dry air at constant pressure
	Lv      = 2.5e6  // J/kg, latent heat of vaporisation
	Epsilon = 0.622  // Rd/Rv
	Kappa   = 0.286  // Rd/Cp

	// ReferencePressure is the pressure at which potential temperature is defined.
	ReferencePressure = 1000.0 // hPa

	// es0 is the saturation vapour pressure over water at 0 °C.
	es0 = 6.112 // hPa
)

// ErrDomain reports an input outside the physical validity of a formula:
// non-positive pressure, temperature, or vapour content, or a vapour pressure
// that reaches the total pressure.
var ErrDomain = errors.New("outside physical domain")

// KelvinToCelsius converts an absolute temperature to degrees Celsius.
func KelvinToCelsius(t float64) float64 {
	return t - ZeroCelsius
}

// CelsiusToKelvin converts degrees Celsius to an absolute temperature.
func CelsiusToKelvin(t float64) float64 {
	return t + ZeroCelsius
}

// SaturationVaporPressure returns the saturation vapour pressure over liquid
// water in hPa at temperature t (K).
func SaturationVaporPressure(t float64) (float64, error) {
	if t <= 0 || !isFinite(t) {
		return 0, fmt.Errorf("saturation vapor pressure at %g K: %w", t, ErrDomain)
	}
	return es0 * math.Exp(17.67*(t-ZeroCelsius)/(t-29.65)), nil
}

// MixingRatio returns the mixing ratio (kg/kg) of vapour pressure e in air at
// total pressure p. Both pressures share a unit.
func MixingRatio(p, e float64) (float64, error) {
	if p <= 0 || e < 0 || e >= p {
		return 0, fmt.Errorf("mixing ratio for p=%g e=%g: %w", p, e, ErrDomain)
	}
	return Epsilon * e / (p - e), nil
}

// SaturationMixingRatio returns the mixing ratio of saturated air at pressure
// p (hPa) and temperature t (K).
func SaturationMixingRatio(p, t float64) (float64, error) {
	es, err := SaturationVaporPressure(t)
	if err != nil {
		return 0, err
	}
	return MixingRatio(p, es)
}

// VaporPressure returns the partial pressure of water vapour (same unit as p)
// for air at pressure p holding mixing ratio w (kg/kg).
func VaporPressure(p, w float64) (float64, error) {
	if p <= 0 || w <= 0 {
		return 0, fmt.Errorf("vapor pressure for p=%g w=%g: %w", p, w, ErrDomain)
	}
	return p * w / (Epsilon + w), nil
}

// DewPoint inverts SaturationVaporPressure: it returns the temperature (K) at
// which vapour pressure e (hPa) saturates.
func DewPoint(e float64) (float64, error) {
	if e <= 0 || !isFinite(e) {
		return 0, fmt.Errorf("dew point for e=%g hPa: %w", e, ErrDomain)
	}
	x := math.Log(e / es0)
	// The inversion has a pole where x reaches 17.67.
	if x >= 17.67 {
		return 0, fmt.Errorf("dew point for e=%g hPa: %w", e, ErrDomain)
	}
	return 243.5*x/(17.67-x) + ZeroCelsius, nil
}

// DryAdiabat returns the temperature (K) at pressure p of a parcel whose
// potential temperature is theta, by Poisson's equation.
func DryAdiabat(theta, p float64) (float64, error) {
	if theta <= 0 || p <= 0 {
		return 0, fmt.Errorf("dry adiabat theta=%g p=%g: %w", theta, p, ErrDomain)
	}
	return theta * math.Pow(p/ReferencePressure, Kappa), nil
}

// MoistLapseRate returns dT/dp (K/hPa) along a saturated adiabat at pressure
// p (hPa) and temperature t (K). Saturation is taken over liquid water only.
// The saturation mixing ratio is not bounded by p here: hot adiabats at low
// pressure have es(t) > p and the rate stays finite there.
func MoistLapseRate(p, t float64) (float64, error) {
	if p <= 0 || t <= 0 {
		return 0, fmt.Errorf("moist lapse rate p=%g t=%g: %w", p, t, ErrDomain)
	}
	es, err := SaturationVaporPressure(t)
	if err != nil {
		return 0, err
	}
	rs := Epsilon * es / (p - es)
	num := Rd*t + Lv*rs
	den := p * (Cp + Lv*Lv*rs*Epsilon/(Rd*t*t))
	return num / den, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
