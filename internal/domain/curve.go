package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Family labels one set of emagram reference curves.
type Family string

const (
	FamilyDry         Family = "dryline"
	FamilyMoist       Family = "moistline"
	FamilyMixingRatio Family = "mixingratioline"
)

// Families lists the curve families in payload order.
var Families = []Family{FamilyDry, FamilyMoist, FamilyMixingRatio}

// ParseFamily validates a family label.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown curve family %q", s)
}

// CurvePoint is one vertex of a reference curve. A nil Temperature marks a
// pressure level the curve did not reach.
type CurvePoint struct {
	Temperature *float64 // °C, two decimals
	Pressure    int      // hPa
}

// NewCurvePoint rounds celsius half away from zero to two decimals and
// truncates pressure to whole hectopascals. Non-finite temperatures become
// missing points.
func NewCurvePoint(celsius, pressure float64) CurvePoint {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return MissingPoint(pressure)
	}
	t := decimal.NewFromFloat(celsius).Round(2).InexactFloat64()
	return CurvePoint{Temperature: &t, Pressure: int(pressure)}
}

// MissingPoint returns a point with no temperature at pressure.
func MissingPoint(pressure float64) CurvePoint {
	return CurvePoint{Pressure: int(pressure)}
}

// Missing reports whether the curve did not reach this point.
func (p CurvePoint) Missing() bool {
	return p.Temperature == nil
}

// MarshalJSON encodes the point as [temperature, pressure], with null for a
// missing temperature.
func (p CurvePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Temperature, p.Pressure})
}

// UnmarshalJSON decodes the [temperature, pressure] form.
func (p *CurvePoint) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("curve point: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("curve point: want 2 elements, got %d", len(pair))
	}

	var t *float64
	if err := json.Unmarshal(pair[0], &t); err != nil {
		return fmt.Errorf("curve point temperature: %w", err)
	}
	var pres int
	if err := json.Unmarshal(pair[1], &pres); err != nil {
		return fmt.Errorf("curve point pressure: %w", err)
	}

	p.Temperature = t
	p.Pressure = pres
	return nil
}

// Curve is an ordered point list aligned with the pressure grid it was
// computed on.
type Curve []CurvePoint

// At returns the point at pressure hPa, if the curve has one.
func (c Curve) At(pressure int) (CurvePoint, bool) {
	for _, p := range c {
		if p.Pressure == pressure {
			return p, true
		}
	}
	return CurvePoint{}, false
}

// MissingCount returns how many points have no temperature.
func (c Curve) MissingCount() int {
	n := 0
	for _, p := range c {
		if p.Missing() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of c. The copy shares no temperature storage
// with c.
func (c Curve) Clone() Curve {
	if c == nil {
		return nil
	}
	out := make(Curve, len(c))
	for i, p := range c {
		out[i] = CurvePoint{Pressure: p.Pressure}
		if p.Temperature != nil {
			t := *p.Temperature
			out[i].Temperature = &t
		}
	}
	return out
}

// Baseline is the emagram background payload. Curves within a family follow
// the order of that family's parameter sweep.
type Baseline struct {
	DryLines         []Curve `json:"dryline"`
	MoistLines       []Curve `json:"moistline"`
	MixingRatioLines []Curve `json:"mixingratioline"`
}

// Family returns the curves of f.
func (b Baseline) Family(f Family) []Curve {
	switch f {
	case FamilyDry:
		return b.DryLines
	case FamilyMoist:
		return b.MoistLines
	case FamilyMixingRatio:
		return b.MixingRatioLines
	default:
		return nil
	}
}
