package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Frequency represents how many times per day a regimen is administered.
type Frequency string

// Possible frequency values
const (
	FrequencyOnceDaily       Frequency = "once_daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyFourTimesDaily  Frequency = "four_times_daily"
)

// Common validation errors for DosingRegimen
var (
	ErrEmptyRegimenID          = errors.New("regimen ID cannot be empty")
	ErrEmptyRegimenUserID      = errors.New("regimen user ID cannot be empty")
	ErrEmptyRegimenName        = errors.New("regimen name cannot be empty")
	ErrNonPositiveDose         = errors.New("dose amount must be positive")
	ErrNonPositiveHalfLife     = errors.New("elimination half-life must be positive")
	ErrNonPositiveUptake       = errors.New("absorption uptake time must be positive")
	ErrInvalidFrequency        = errors.New("invalid dosing frequency")
	ErrScheduleCountMismatch   = errors.New("schedule time count does not match frequency")
	ErrInvalidScheduleTime     = errors.New("schedule time must be in HH:MM format")
	ErrScheduleTimesNotOrdered = errors.New("schedule times must be in chronological order")
	ErrNonPositiveDuration     = errors.New("duration override must be positive")
	ErrIncompleteMetabolite    = errors.New("metabolite half-life and conversion fraction must both be set")
	ErrInvalidMetabolite       = errors.New("invalid metabolite parameters")
)

// DoseCount returns the number of daily administrations the frequency
// implies, or 0 for an unknown frequency.
func (f Frequency) DoseCount() int {
	switch f {
	case FrequencyOnceDaily:
		return 1
	case FrequencyTwiceDaily:
		return 2
	case FrequencyThreeTimesDaily:
		return 3
	case FrequencyFourTimesDaily:
		return 4
	default:
		return 0
	}
}

// MetaboliteProfile describes the secondary compound formed from parent-drug
// elimination. A regimen either carries a complete profile or none at all:
// the all-or-nothing contract is enforced at validation time so the
// calculation engine never sees a half-specified metabolite.
type MetaboliteProfile struct {
	// HalfLifeHours is the metabolite's own elimination half-life.
	HalfLifeHours float64 `json:"half_life_hours"`

	// ConversionFraction is the fraction of eliminated parent drug converted
	// into this metabolite, in (0, 1].
	ConversionFraction float64 `json:"conversion_fraction"`
}

// DosingRegimen represents a drug plus its dosing schedule and
// pharmacokinetic parameters. It is the input record for the simulation
// engine; validation here is the range checking the engine itself omits.
type DosingRegimen struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	// Name is the display name of the drug.
	Name string `json:"name"`

	// DoseAmount is the relative size of each administered dose. Only
	// ratios between regimens matter; output curves are normalized.
	DoseAmount float64 `json:"dose_amount"`

	// Frequency labels the daily administration count and constrains the
	// length of ScheduleTimes.
	Frequency Frequency `json:"frequency"`

	// ScheduleTimes are the daily administration times as "HH:MM" strings,
	// in chronological order within the day.
	ScheduleTimes []string `json:"schedule_times"`

	// EliminationHalfLifeHours and AbsorptionUptakeHours are the drug's
	// time constants; both must be positive.
	EliminationHalfLifeHours float64 `json:"elimination_half_life_hours"`
	AbsorptionUptakeHours    float64 `json:"absorption_uptake_hours"`

	// PeakTimeHintHours is an optional, purely informational expected
	// time-to-peak. The calculation engine never reads it.
	PeakTimeHintHours *float64 `json:"peak_time_hint_hours,omitempty"`

	// DurationOverrideHours optionally fixes the simulated window length,
	// overriding the caller-supplied end time.
	DurationOverrideHours *float64 `json:"duration_override_hours,omitempty"`

	// Metabolite is nil when no metabolite series should be produced.
	Metabolite *MetaboliteProfile `json:"metabolite,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDosingRegimen creates a new DosingRegimen owned by the given user.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewDosingRegimen(
	userID uuid.UUID,
	name string,
	doseAmount float64,
	frequency Frequency,
	scheduleTimes []string,
	eliminationHalfLifeHours float64,
	absorptionUptakeHours float64,
) (*DosingRegimen, error) {
	regimen := &DosingRegimen{
		ID:                       uuid.New(),
		UserID:                   userID,
		Name:                     name,
		DoseAmount:               doseAmount,
		Frequency:                frequency,
		ScheduleTimes:            scheduleTimes,
		EliminationHalfLifeHours: eliminationHalfLifeHours,
		AbsorptionUptakeHours:    absorptionUptakeHours,
		CreatedAt:                time.Now().UTC(),
		UpdatedAt:                time.Now().UTC(),
	}

	if err := regimen.Validate(); err != nil {
		return nil, err
	}

	return regimen, nil
}

// Validate checks if the DosingRegimen has valid data.
// Returns an error if any field fails validation.
//
// The simulation engine performs no range checking of its own and produces
// undefined numeric output (NaN/Inf) for out-of-range inputs, so every
// regimen must pass through here before being persisted or simulated.
func (r *DosingRegimen) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRegimenID
	}
	if r.UserID == uuid.Nil {
		return ErrEmptyRegimenUserID
	}
	if r.Name == "" {
		return ErrEmptyRegimenName
	}
	if r.DoseAmount <= 0 {
		return ErrNonPositiveDose
	}
	if r.EliminationHalfLifeHours <= 0 {
		return ErrNonPositiveHalfLife
	}
	if r.AbsorptionUptakeHours <= 0 {
		return ErrNonPositiveUptake
	}

	doseCount := r.Frequency.DoseCount()
	if doseCount == 0 {
		return ErrInvalidFrequency
	}
	if len(r.ScheduleTimes) != doseCount {
		return fmt.Errorf("%w: frequency %q expects %d times, got %d",
			ErrScheduleCountMismatch, r.Frequency, doseCount, len(r.ScheduleTimes))
	}

	var prev time.Time
	for i, scheduleTime := range r.ScheduleTimes {
		parsed, err := time.Parse("15:04", scheduleTime)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidScheduleTime, scheduleTime)
		}
		if i > 0 && !parsed.After(prev) {
			return fmt.Errorf("%w: %q follows %q",
				ErrScheduleTimesNotOrdered, scheduleTime, r.ScheduleTimes[i-1])
		}
		prev = parsed
	}

	if r.DurationOverrideHours != nil && *r.DurationOverrideHours <= 0 {
		return ErrNonPositiveDuration
	}

	if r.Metabolite != nil {
		if r.Metabolite.HalfLifeHours <= 0 {
			return fmt.Errorf("%w: half-life must be positive", ErrInvalidMetabolite)
		}
		if r.Metabolite.ConversionFraction <= 0 || r.Metabolite.ConversionFraction > 1 {
			return fmt.Errorf("%w: conversion fraction must be in (0, 1]", ErrInvalidMetabolite)
		}
	}

	return nil
}

// HasMetabolite reports whether the regimen carries a complete metabolite
// profile and should therefore produce a metabolite series.
func (r *DosingRegimen) HasMetabolite() bool {
	return r.Metabolite != nil
}

// Label builds the display label for the regimen's parent series. It encodes
// name, dose amount and frequency so that same-drug/different-dose
// comparisons stay unambiguous on a shared chart.
func (r *DosingRegimen) Label() string {
	return fmt.Sprintf("%s %g (%s)", r.Name, r.DoseAmount, r.Frequency.DisplayName())
}

// MetaboliteLabel builds the display label for the regimen's metabolite
// series, distinguishably suffixed from the parent label.
func (r *DosingRegimen) MetaboliteLabel() string {
	return r.Label() + " [metabolite]"
}

// DisplayName returns a human-readable form of the frequency.
func (f Frequency) DisplayName() string {
	switch f {
	case FrequencyOnceDaily:
		return "once daily"
	case FrequencyTwiceDaily:
		return "twice daily"
	case FrequencyThreeTimesDaily:
		return "three times daily"
	case FrequencyFourTimesDaily:
		return "four times daily"
	default:
		return string(f)
	}
}
