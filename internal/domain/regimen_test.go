package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func validRegimen(t *testing.T) *DosingRegimen {
	t.Helper()
	regimen, err := NewDosingRegimen(
		uuid.New(),
		"Testozil",
		500,
		FrequencyTwiceDaily,
		[]string{"09:00", "21:00"},
		6,
		1.5,
	)
	if err != nil {
		t.Fatalf("Expected valid regimen, got %v", err)
	}
	return regimen
}

func TestNewDosingRegimen(t *testing.T) {
	userID := uuid.New()
	regimen, err := NewDosingRegimen(userID, "Testozil", 500, FrequencyTwiceDaily,
		[]string{"09:00", "21:00"}, 6, 1.5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if regimen.ID == uuid.Nil {
		t.Error("Expected non-nil regimen ID")
	}
	if regimen.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, regimen.UserID)
	}
	if regimen.CreatedAt.IsZero() || regimen.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}
	if regimen.HasMetabolite() {
		t.Error("Expected no metabolite profile by default")
	}
}

func TestDosingRegimenValidate(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*DosingRegimen)
		expected error
	}{
		{name: "nil user ID", mutate: func(r *DosingRegimen) { r.UserID = uuid.Nil }, expected: ErrEmptyRegimenUserID},
		{name: "empty name", mutate: func(r *DosingRegimen) { r.Name = "" }, expected: ErrEmptyRegimenName},
		{name: "zero dose", mutate: func(r *DosingRegimen) { r.DoseAmount = 0 }, expected: ErrNonPositiveDose},
		{name: "negative half-life", mutate: func(r *DosingRegimen) { r.EliminationHalfLifeHours = -1 }, expected: ErrNonPositiveHalfLife},
		{name: "zero uptake", mutate: func(r *DosingRegimen) { r.AbsorptionUptakeHours = 0 }, expected: ErrNonPositiveUptake},
		{name: "unknown frequency", mutate: func(r *DosingRegimen) { r.Frequency = "hourly" }, expected: ErrInvalidFrequency},
		{
			name:     "count mismatch",
			mutate:   func(r *DosingRegimen) { r.ScheduleTimes = []string{"09:00"} },
			expected: ErrScheduleCountMismatch,
		},
		{
			name:     "malformed time",
			mutate:   func(r *DosingRegimen) { r.ScheduleTimes = []string{"09:00", "9pm"} },
			expected: ErrInvalidScheduleTime,
		},
		{
			name:     "out of order",
			mutate:   func(r *DosingRegimen) { r.ScheduleTimes = []string{"21:00", "09:00"} },
			expected: ErrScheduleTimesNotOrdered,
		},
		{
			name: "zero duration override",
			mutate: func(r *DosingRegimen) {
				zero := 0.0
				r.DurationOverrideHours = &zero
			},
			expected: ErrNonPositiveDuration,
		},
		{
			name: "metabolite bad half-life",
			mutate: func(r *DosingRegimen) {
				r.Metabolite = &MetaboliteProfile{HalfLifeHours: 0, ConversionFraction: 0.5}
			},
			expected: ErrInvalidMetabolite,
		},
		{
			name: "metabolite fraction above one",
			mutate: func(r *DosingRegimen) {
				r.Metabolite = &MetaboliteProfile{HalfLifeHours: 10, ConversionFraction: 1.5}
			},
			expected: ErrInvalidMetabolite,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			regimen := validRegimen(t)
			tc.mutate(regimen)
			if err := regimen.Validate(); !errors.Is(err, tc.expected) {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestDosingRegimenValidMetabolite(t *testing.T) {
	regimen := validRegimen(t)
	regimen.Metabolite = &MetaboliteProfile{HalfLifeHours: 10, ConversionFraction: 0.4}
	if err := regimen.Validate(); err != nil {
		t.Errorf("Expected valid metabolite profile, got %v", err)
	}
	if !regimen.HasMetabolite() {
		t.Error("Expected HasMetabolite to be true")
	}
}

func TestFrequencyDoseCount(t *testing.T) {
	testCases := []struct {
		frequency Frequency
		expected  int
	}{
		{FrequencyOnceDaily, 1},
		{FrequencyTwiceDaily, 2},
		{FrequencyThreeTimesDaily, 3},
		{FrequencyFourTimesDaily, 4},
		{Frequency("weekly"), 0},
	}
	for _, tc := range testCases {
		if got := tc.frequency.DoseCount(); got != tc.expected {
			t.Errorf("Frequency %q: expected count %d, got %d", tc.frequency, tc.expected, got)
		}
	}
}

func TestRegimenLabels(t *testing.T) {
	regimen := validRegimen(t)
	if got := regimen.Label(); got != "Testozil 500 (twice daily)" {
		t.Errorf("Unexpected label: %q", got)
	}
	if got := regimen.MetaboliteLabel(); got != "Testozil 500 (twice daily) [metabolite]" {
		t.Errorf("Unexpected metabolite label: %q", got)
	}
}
