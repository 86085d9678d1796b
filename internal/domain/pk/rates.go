package pk

import "math"

// DeriveRateConstants converts a regimen's time constants into first-order
// rate constants: ka = ln(2)/uptake, ke = ln(2)/halfLife.
//
// No validation is performed; callers guarantee both inputs are positive.
// Non-positive inputs produce Inf/NaN (the validation layer rejects such
// regimens before they reach the engine).
func DeriveRateConstants(eliminationHalfLifeHours, absorptionUptakeHours float64) RateConstants {
	return RateConstants{
		Absorption:  math.Ln2 / absorptionUptakeHours,
		Elimination: math.Ln2 / eliminationHalfLifeHours,
	}
}

// NearEqual reports whether the two rate constants are within Tolerance of
// each other, i.e. whether the engine will use the fallback limiting-form
// formula instead of the standard one. The validation layer uses this to
// attach a warning to regimens whose curves are computed with the fallback.
func (rc RateConstants) NearEqual() bool {
	return math.Abs(rc.Absorption-rc.Elimination) < Tolerance
}
