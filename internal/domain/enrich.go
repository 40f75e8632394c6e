package domain

import (
	"github.com/couchcryptid/emagram-etl/internal/thermo"
)

// EnrichSounding derives per-level moist thermodynamic quantities and stamps
// the processing time. Records are left untouched; Derived[i] belongs to
// Records[i]. A level lacking an input, or outside a formula's domain, gets
// nil for that quantity.
func EnrichSounding(s Sounding) Sounding {
	derived := make([]DerivedLevel, len(s.Records))
	for i, rec := range s.Records {
		derived[i] = deriveLevel(rec)
	}
	s.Derived = derived
	s.ProcessedAt = now()
	return s
}

func deriveLevel(rec ObservationRecord) DerivedLevel {
	var d DerivedLevel
	if rec.Pressure == nil || rec.Temperature == nil {
		return d
	}
	p := *rec.Pressure
	t := thermo.CelsiusToKelvin(*rec.Temperature)

	if v, err := thermo.SaturationEquivalentPotentialTemperature(p, t); err == nil {
		d.ThetaES = &v
	}
	if rec.DewPoint != nil {
		td := thermo.CelsiusToKelvin(*rec.DewPoint)
		if v, err := thermo.EquivalentPotentialTemperature(p, t, td); err == nil {
			d.ThetaE = &v
		}
	}
	return d
}
