package emagram

import (
	"fmt"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/thermo"
)

// Sentinels re-exported so callers need not import thermo to classify
// curve failures.
var (
	ErrDomain              = thermo.ErrDomain
	ErrIntegrationUnstable = thermo.ErrIntegrationUnstable
)

// CurveError identifies the single curve a failure belongs to.
type CurveError struct {
	Family domain.Family
	Param  float64
	Err    error
}

func (e *CurveError) Error() string {
	return fmt.Sprintf("%s curve %g: %v", e.Family, e.Param, e.Err)
}

func (e *CurveError) Unwrap() error {
	return e.Err
}
