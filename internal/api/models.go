package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/dosewave/dosewave-api/internal/domain"
	"github.com/dosewave/dosewave-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// RegimenRequest defines the payload for creating or updating a regimen.
// The two metabolite fields are all-or-nothing; supplying only one of them
// is rejected before the domain entity is built.
type RegimenRequest struct {
	Name                     string   `json:"name"                        validate:"required,max=128"`
	DoseAmount               float64  `json:"dose_amount"                 validate:"required,gt=0"`
	Frequency                string   `json:"frequency"                   validate:"required,oneof=once_daily twice_daily three_times_daily four_times_daily"`
	ScheduleTimes            []string `json:"schedule_times"              validate:"required,min=1,max=4,dive,required"`
	EliminationHalfLifeHours float64  `json:"elimination_half_life_hours" validate:"required,gt=0"`
	AbsorptionUptakeHours    float64  `json:"absorption_uptake_hours"     validate:"required,gt=0"`

	PeakTimeHintHours     *float64 `json:"peak_time_hint_hours,omitempty"     validate:"omitempty,gt=0"`
	DurationOverrideHours *float64 `json:"duration_override_hours,omitempty"  validate:"omitempty,gt=0"`

	MetaboliteHalfLifeHours      *float64 `json:"metabolite_half_life_hours,omitempty"      validate:"omitempty,gt=0"`
	MetaboliteConversionFraction *float64 `json:"metabolite_conversion_fraction,omitempty"  validate:"omitempty,gt=0,lte=1"`
}

// ToDomain builds a validated domain regimen owned by the given user.
func (req *RegimenRequest) ToDomain(userID uuid.UUID) (*domain.DosingRegimen, error) {
	regimen, err := domain.NewDosingRegimen(
		userID,
		req.Name,
		req.DoseAmount,
		domain.Frequency(req.Frequency),
		req.ScheduleTimes,
		req.EliminationHalfLifeHours,
		req.AbsorptionUptakeHours,
	)
	if err != nil {
		return nil, err
	}

	regimen.PeakTimeHintHours = req.PeakTimeHintHours
	regimen.DurationOverrideHours = req.DurationOverrideHours

	if req.MetaboliteHalfLifeHours != nil || req.MetaboliteConversionFraction != nil {
		if req.MetaboliteHalfLifeHours == nil || req.MetaboliteConversionFraction == nil {
			return nil, domain.ErrIncompleteMetabolite
		}
		regimen.Metabolite = &domain.MetaboliteProfile{
			HalfLifeHours:      *req.MetaboliteHalfLifeHours,
			ConversionFraction: *req.MetaboliteConversionFraction,
		}
	}

	if err := regimen.Validate(); err != nil {
		return nil, err
	}
	return regimen, nil
}

// RegimenResponse defines the representation of a regimen returned by the API.
type RegimenResponse struct {
	ID                       uuid.UUID `json:"id"`
	Name                     string    `json:"name"`
	DoseAmount               float64   `json:"dose_amount"`
	Frequency                string    `json:"frequency"`
	ScheduleTimes            []string  `json:"schedule_times"`
	EliminationHalfLifeHours float64   `json:"elimination_half_life_hours"`
	AbsorptionUptakeHours    float64   `json:"absorption_uptake_hours"`

	PeakTimeHintHours     *float64 `json:"peak_time_hint_hours,omitempty"`
	DurationOverrideHours *float64 `json:"duration_override_hours,omitempty"`

	MetaboliteHalfLifeHours      *float64 `json:"metabolite_half_life_hours,omitempty"`
	MetaboliteConversionFraction *float64 `json:"metabolite_conversion_fraction,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRegimenResponse maps a domain regimen to its API representation.
func NewRegimenResponse(regimen *domain.DosingRegimen) RegimenResponse {
	resp := RegimenResponse{
		ID:                       regimen.ID,
		Name:                     regimen.Name,
		DoseAmount:               regimen.DoseAmount,
		Frequency:                string(regimen.Frequency),
		ScheduleTimes:            regimen.ScheduleTimes,
		EliminationHalfLifeHours: regimen.EliminationHalfLifeHours,
		AbsorptionUptakeHours:    regimen.AbsorptionUptakeHours,
		PeakTimeHintHours:        regimen.PeakTimeHintHours,
		DurationOverrideHours:    regimen.DurationOverrideHours,
		CreatedAt:                regimen.CreatedAt,
		UpdatedAt:                regimen.UpdatedAt,
	}
	if regimen.Metabolite != nil {
		halfLife := regimen.Metabolite.HalfLifeHours
		fraction := regimen.Metabolite.ConversionFraction
		resp.MetaboliteHalfLifeHours = &halfLife
		resp.MetaboliteConversionFraction = &fraction
	}
	return resp
}

// GraphResponse defines the payload returned by the graph endpoint.
type GraphResponse struct {
	StartHours float64           `json:"start_hours"`
	EndHours   float64           `json:"end_hours"`
	Datasets   []service.Dataset `json:"datasets"`
	Warnings   []string          `json:"warnings,omitempty"`
}
