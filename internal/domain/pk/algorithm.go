package pk

import "math"

// singleDoseConcentration computes the relative concentration contributed by
// one dose at elapsedTime hours after administration, using a one-compartment
// model with first-order absorption and elimination.
//
// Parameters:
//   - elapsedTime: hours since the dose was administered (≤0 means the dose
//     is not yet active and contributes nothing)
//   - doseAmount: relative dose size (≤0 contributes nothing)
//   - eliminationHalfLifeHours, absorptionUptakeHours: the drug's time
//     constants, assumed positive
//
// Formula selection:
//   - Standard (|ka-ke| ≥ Tolerance):
//     C(t) = dose * [ka/(ka-ke)] * (e^(-ke*t) - e^(-ka*t))
//   - Fallback (|ka-ke| < Tolerance), the limiting form as ka→ke that avoids
//     the unstable 1/(ka-ke) denominator:
//     C(t) = dose * ka * t * e^(-ke*t)
//
// The result is clamped to ≥0 to absorb floating-point cancellation near t=0.
func singleDoseConcentration(
	elapsedTime float64,
	doseAmount float64,
	eliminationHalfLifeHours float64,
	absorptionUptakeHours float64,
) float64 {
	if elapsedTime <= 0 || doseAmount <= 0 {
		return 0
	}

	rc := DeriveRateConstants(eliminationHalfLifeHours, absorptionUptakeHours)
	ka, ke := rc.Absorption, rc.Elimination

	var concentration float64
	if rc.NearEqual() {
		concentration = doseAmount * ka * elapsedTime * math.Exp(-ke*elapsedTime)
	} else {
		concentration = doseAmount * (ka / (ka - ke)) *
			(math.Exp(-ke*elapsedTime) - math.Exp(-ka*elapsedTime))
	}

	return math.Max(0, concentration)
}

// metaboliteConcentration computes the relative concentration of a secondary
// metabolite formed from parent-drug elimination, for one dose at elapsedTime
// hours after administration.
//
// The model mirrors singleDoseConcentration with the parent elimination rate
// (ke_p) playing the role of the formation rate and the metabolite
// elimination rate (ke_m) the decay rate, scaled by the conversion fraction
// fm ∈ (0, 1]:
//   - Standard (|ke_m-ke_p| ≥ Tolerance):
//     C_m(t) = dose * fm * [ke_p/(ke_m-ke_p)] * (e^(-ke_p*t) - e^(-ke_m*t))
//   - Fallback (|ke_m-ke_p| < Tolerance):
//     C_m(t) = dose * fm * ke_p * t * e^(-ke_p*t)
//
// Out-of-range conversion fractions (≤0 or >1) contribute nothing rather than
// erroring; incomplete metabolite data is filtered out a level above, before
// any per-dose math runs.
func metaboliteConcentration(
	elapsedTime float64,
	doseAmount float64,
	parentHalfLifeHours float64,
	metaboliteHalfLifeHours float64,
	conversionFraction float64,
) float64 {
	if elapsedTime <= 0 || doseAmount <= 0 {
		return 0
	}
	if conversionFraction <= 0 || conversionFraction > 1 {
		return 0
	}

	keParent := math.Ln2 / parentHalfLifeHours
	keMetabolite := math.Ln2 / metaboliteHalfLifeHours

	var concentration float64
	if math.Abs(keMetabolite-keParent) < Tolerance {
		concentration = doseAmount * conversionFraction *
			keParent * elapsedTime * math.Exp(-keParent*elapsedTime)
	} else {
		concentration = doseAmount * conversionFraction *
			(keParent / (keMetabolite - keParent)) *
			(math.Exp(-keParent*elapsedTime) - math.Exp(-keMetabolite*elapsedTime))
	}

	return math.Max(0, concentration)
}

// peakTime computes the analytic time of the single-dose concentration peak:
// Tmax = ln(ka/ke) / (ka-ke), or 1/ke in the fallback band where ka≈ke.
//
// When ka ≤ ke outside the fallback band this returns 0 instead of the
// general closed form (which stays positive for any ka≠ke via a ratio of two
// negatives). Peak time is informational only and never feeds back into the
// accumulation engine; callers treat 0 as "no meaningful peak estimate".
func peakTime(eliminationHalfLifeHours, absorptionUptakeHours float64) float64 {
	rc := DeriveRateConstants(eliminationHalfLifeHours, absorptionUptakeHours)
	ka, ke := rc.Absorption, rc.Elimination

	if rc.NearEqual() {
		return 1 / ke
	}
	if ka <= ke {
		return 0
	}
	return math.Log(ka/ke) / (ka - ke)
}
