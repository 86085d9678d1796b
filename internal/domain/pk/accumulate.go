package pk

import (
	"math"

	"github.com/dosewave/dosewave-api/internal/domain"
)

// effectiveEnd applies a regimen's explicit duration override, when present,
// to the requested simulation window: the curve then covers
// [start, start+override] regardless of the requested end.
func effectiveEnd(regimen *domain.DosingRegimen, startHours, endHours float64) float64 {
	if regimen.DurationOverrideHours != nil {
		return startHours + *regimen.DurationOverrideHours
	}
	return endHours
}

// accumulateCurve samples the sum of per-dose contributions over a window and
// normalizes the whole curve so its global peak equals 1.0.
//
// The dose events are precomputed once by the caller and reused across every
// sample; only doses already administered at a sample time (event ≤ t)
// contribute. Normalization happens exactly once, over the complete curve,
// never per dose or per sample, which would destroy the accumulation pattern
// that makes multi-dose curves informative. An all-zero curve is returned
// unchanged rather than divided by zero.
//
// The output has floor((end-start)*60/interval)+1 samples in strictly
// ascending time order with no gaps.
func accumulateCurve(
	events []DoseEvent,
	startHours float64,
	endHours float64,
	params *Params,
	contribution func(elapsedHours float64) float64,
) ConcentrationCurve {
	stepHours := float64(params.SampleIntervalMinutes) / 60
	// The small epsilon keeps an exact multiple of the interval from being
	// truncated by floating-point noise (e.g. 48h at 15min must be 193
	// samples, not 192).
	sampleCount := int(math.Floor((endHours-startHours)*60/float64(params.SampleIntervalMinutes)+1e-9)) + 1

	curve := make(ConcentrationCurve, 0, sampleCount)
	var peak float64

	for i := 0; i < sampleCount; i++ {
		t := startHours + float64(i)*stepHours

		var sum float64
		for _, event := range events {
			if float64(event) > t {
				continue
			}
			sum += contribution(t - float64(event))
		}

		if sum > peak {
			peak = sum
		}
		curve = append(curve, TimeSeriesPoint{TimeHours: t, Concentration: sum})
	}

	if peak > 0 {
		for i := range curve {
			curve[i].Concentration /= peak
		}
	}

	return curve
}

// accumulateDoses computes the normalized parent-drug concentration curve for
// a regimen over [startHours, endHours] (or the regimen's duration override).
func accumulateDoses(
	regimen *domain.DosingRegimen,
	startHours float64,
	endHours float64,
	params *Params,
) (ConcentrationCurve, error) {
	end := effectiveEnd(regimen, startHours, endHours)

	events, err := expandDoseTimes(
		regimen.ScheduleTimes,
		daysToCover(end, params.ScheduleMarginDays),
	)
	if err != nil {
		return nil, err
	}

	curve := accumulateCurve(events, startHours, end, params, func(elapsed float64) float64 {
		return singleDoseConcentration(
			elapsed,
			regimen.DoseAmount,
			regimen.EliminationHalfLifeHours,
			regimen.AbsorptionUptakeHours,
		)
	})
	return curve, nil
}

// accumulateMetaboliteDoses mirrors accumulateDoses for the metabolite
// series: same expansion, summation and single global normalization.
//
// A regimen without a complete metabolite profile yields an empty curve: no
// series at all, which is distinct from a zero-valued series and is how the
// dataset layer knows to omit the metabolite entirely.
func accumulateMetaboliteDoses(
	regimen *domain.DosingRegimen,
	startHours float64,
	endHours float64,
	params *Params,
) (ConcentrationCurve, error) {
	if regimen.Metabolite == nil {
		return ConcentrationCurve{}, nil
	}

	end := effectiveEnd(regimen, startHours, endHours)

	events, err := expandDoseTimes(
		regimen.ScheduleTimes,
		daysToCover(end, params.ScheduleMarginDays),
	)
	if err != nil {
		return nil, err
	}

	metabolite := regimen.Metabolite
	curve := accumulateCurve(events, startHours, end, params, func(elapsed float64) float64 {
		return metaboliteConcentration(
			elapsed,
			regimen.DoseAmount,
			regimen.EliminationHalfLifeHours,
			metabolite.HalfLifeHours,
			metabolite.ConversionFraction,
		)
	})
	return curve, nil
}
