package pk

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/dosewave/dosewave-api/internal/domain"
)

func newTestRegimen(t *testing.T) *domain.DosingRegimen {
	t.Helper()
	// Same PK parameters as the standard-branch scenario: half-life 6h,
	// uptake 1.5h, dosed twice daily.
	regimen, err := domain.NewDosingRegimen(
		uuid.New(),
		"Testozil",
		500,
		domain.FrequencyTwiceDaily,
		[]string{"09:00", "21:00"},
		6,
		1.5,
	)
	if err != nil {
		t.Fatalf("Failed to create regimen: %v", err)
	}
	return regimen
}

func TestAccumulateDosesTwiceDaily(t *testing.T) {
	t.Parallel()

	regimen := newTestRegimen(t)
	params := NewDefaultParams()

	curve, err := accumulateDoses(regimen, 0, 48, params)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// floor((48-0)*60/15)+1 = 193 samples.
	if len(curve) != 193 {
		t.Fatalf("Expected 193 samples, got %d", len(curve))
	}

	// Strictly ascending, fixed-interval time axis.
	step := float64(params.SampleIntervalMinutes) / 60
	for i := 1; i < len(curve); i++ {
		gap := curve[i].TimeHours - curve[i-1].TimeHours
		if !almostEqual(gap, step, 1e-9) {
			t.Fatalf("Non-uniform step at index %d: %f", i, gap)
		}
	}

	// Normalized: global max is exactly 1, everything in [0, 1].
	var peak float64
	peakCount := 0
	for _, point := range curve {
		if point.Concentration < 0 || point.Concentration > 1 {
			t.Fatalf("Concentration out of [0,1] at t=%f: %f",
				point.TimeHours, point.Concentration)
		}
		if point.Concentration > peak {
			peak = point.Concentration
		}
	}
	if !almostEqual(peak, 1.0, 1e-9) {
		t.Errorf("Expected global peak 1.0, got %f", peak)
	}
	for _, point := range curve {
		if almostEqual(point.Concentration, 1.0, 1e-12) {
			peakCount++
		}
	}
	if peakCount != 1 {
		t.Errorf("Expected exactly one global maximum, found %d", peakCount)
	}

	// Before the first dose at 09:00 the curve is flat zero.
	for _, point := range curve {
		if point.TimeHours < 9 && point.Concentration != 0 {
			t.Errorf("Nonzero concentration %f before first dose at t=%f",
				point.Concentration, point.TimeHours)
		}
	}
}

// Accumulation: with repeated dosing, the local peak after a later same-slot
// dose must be at least as high as the one after an earlier dose, because
// residual drug from prior doses adds up.
func TestAccumulateDosesAccumulationPattern(t *testing.T) {
	t.Parallel()

	regimen := newTestRegimen(t)
	curve, err := accumulateDoses(regimen, 0, 48, NewDefaultParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	maxIn := func(from, to float64) float64 {
		var m float64
		for _, point := range curve {
			if point.TimeHours >= from && point.TimeHours < to && point.Concentration > m {
				m = point.Concentration
			}
		}
		return m
	}

	// Morning-dose windows on day 0 and day 1 (doses at 9h and 33h).
	day0Peak := maxIn(9, 21)
	day1Peak := maxIn(33, 45)
	if day1Peak < day0Peak {
		t.Errorf("Expected later same-slot peak (%f) >= earlier (%f)", day1Peak, day0Peak)
	}
}

func TestAccumulateDosesDurationOverride(t *testing.T) {
	t.Parallel()

	regimen := newTestRegimen(t)
	override := 24.0
	regimen.DurationOverrideHours = &override

	// Requested end of 96h is overridden to start+24h.
	curve, err := accumulateDoses(regimen, 0, 96, NewDefaultParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(curve) != 97 { // floor(24*60/15)+1
		t.Errorf("Expected 97 samples with override, got %d", len(curve))
	}
	last := curve[len(curve)-1].TimeHours
	if !almostEqual(last, 24, 1e-9) {
		t.Errorf("Expected final sample at 24h, got %f", last)
	}
}

// A window that ends before any dose is administered produces an all-zero
// curve; normalization must leave it at zero rather than divide by zero.
func TestAccumulateDosesAllZeroCurve(t *testing.T) {
	t.Parallel()

	regimen := newTestRegimen(t)
	curve, err := accumulateDoses(regimen, 0, 8, NewDefaultParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, point := range curve {
		if point.Concentration != 0 {
			t.Fatalf("Expected all-zero curve, got %f at t=%f",
				point.Concentration, point.TimeHours)
		}
		if math.IsNaN(point.Concentration) || math.IsInf(point.Concentration, 0) {
			t.Fatalf("Normalization produced non-finite value at t=%f", point.TimeHours)
		}
	}
}

func TestAccumulateMetaboliteDoses(t *testing.T) {
	t.Parallel()

	regimen := newTestRegimen(t)

	// Without a metabolite profile: empty series, not an error and not a
	// zero-filled curve.
	curve, err := accumulateMetaboliteDoses(regimen, 0, 48, NewDefaultParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(curve) != 0 {
		t.Fatalf("Expected empty metabolite curve, got %d samples", len(curve))
	}

	// With a complete profile: full-length normalized series.
	regimen.Metabolite = &domain.MetaboliteProfile{
		HalfLifeHours:      10,
		ConversionFraction: 0.4,
	}
	curve, err = accumulateMetaboliteDoses(regimen, 0, 48, NewDefaultParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(curve) != 193 {
		t.Fatalf("Expected 193 samples, got %d", len(curve))
	}

	var peak float64
	for _, point := range curve {
		if point.Concentration < 0 || point.Concentration > 1 {
			t.Fatalf("Metabolite concentration out of [0,1]: %f", point.Concentration)
		}
		if point.Concentration > peak {
			peak = point.Concentration
		}
	}
	if !almostEqual(peak, 1.0, 1e-9) {
		t.Errorf("Expected metabolite peak 1.0, got %f", peak)
	}
}

func TestAccumulateDosesSampleCounts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		start    float64
		end      float64
		interval int
		expected int
	}{
		{name: "two days at 15min", start: 0, end: 48, interval: 15, expected: 193},
		{name: "one day at 30min", start: 0, end: 24, interval: 30, expected: 49},
		{name: "offset window", start: 12, end: 36, interval: 15, expected: 97},
		{name: "one week at hour", start: 0, end: 168, interval: 60, expected: 169},
	}

	regimen := newTestRegimen(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params := NewParams(ParamsConfig{SampleIntervalMinutes: tc.interval})
			curve, err := accumulateDoses(regimen, tc.start, tc.end, params)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(curve) != tc.expected {
				t.Errorf("Expected %d samples, got %d", tc.expected, len(curve))
			}
		})
	}
}
