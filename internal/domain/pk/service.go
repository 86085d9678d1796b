package pk

import (
	"errors"

	"github.com/dosewave/dosewave-api/internal/domain"
)

// Common errors
var (
	ErrNilRegimen    = errors.New("dosing regimen cannot be nil")
	ErrInvalidWindow = errors.New("simulation window end must be after start")
)

// Service defines the interface for pharmacokinetic simulation operations.
// All operations are pure and synchronous: every call recomputes from the
// regimen and window, with no caching or shared state, so a Service is safe
// for concurrent use.
type Service interface {
	// SimulateRegimen computes the normalized parent-drug concentration
	// curve for a regimen over [startHours, endHours], honoring the
	// regimen's duration override when present.
	SimulateRegimen(
		regimen *domain.DosingRegimen,
		startHours, endHours float64,
	) (ConcentrationCurve, error)

	// SimulateMetabolite computes the normalized metabolite concentration
	// curve. A regimen without a complete metabolite profile yields an
	// empty curve, not an error.
	SimulateMetabolite(
		regimen *domain.DosingRegimen,
		startHours, endHours float64,
	) (ConcentrationCurve, error)

	// PeakTime returns the analytic single-dose peak time in hours.
	// Informational only; the accumulation engine never consumes it.
	PeakTime(eliminationHalfLifeHours, absorptionUptakeHours float64) float64

	// UsesFallbackFormula reports whether curves for the given time
	// constants are computed with the limiting-form fallback because the
	// rate constants are within Tolerance of each other.
	UsesFallbackFormula(eliminationHalfLifeHours, absorptionUptakeHours float64) bool
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new simulation service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new simulation service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

func (s *defaultService) SimulateRegimen(
	regimen *domain.DosingRegimen,
	startHours, endHours float64,
) (ConcentrationCurve, error) {
	if regimen == nil {
		return nil, ErrNilRegimen
	}
	if endHours <= startHours && regimen.DurationOverrideHours == nil {
		return nil, ErrInvalidWindow
	}

	return accumulateDoses(regimen, startHours, endHours, s.params)
}

func (s *defaultService) SimulateMetabolite(
	regimen *domain.DosingRegimen,
	startHours, endHours float64,
) (ConcentrationCurve, error) {
	if regimen == nil {
		return nil, ErrNilRegimen
	}
	if endHours <= startHours && regimen.DurationOverrideHours == nil {
		return nil, ErrInvalidWindow
	}

	return accumulateMetaboliteDoses(regimen, startHours, endHours, s.params)
}

func (s *defaultService) PeakTime(
	eliminationHalfLifeHours, absorptionUptakeHours float64,
) float64 {
	return peakTime(eliminationHalfLifeHours, absorptionUptakeHours)
}

func (s *defaultService) UsesFallbackFormula(
	eliminationHalfLifeHours, absorptionUptakeHours float64,
) bool {
	return DeriveRateConstants(eliminationHalfLifeHours, absorptionUptakeHours).NearEqual()
}
