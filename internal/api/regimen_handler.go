package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dosewave/dosewave-api/internal/api/shared"
	"github.com/dosewave/dosewave-api/internal/platform/logger"
	"github.com/dosewave/dosewave-api/internal/service"
)

// RegimenHandler handles dosing regimen CRUD API requests.
type RegimenHandler struct {
	regimenService service.RegimenService
	validator      *validator.Validate
}

// NewRegimenHandler creates a new RegimenHandler with the given dependencies.
func NewRegimenHandler(regimenService service.RegimenService) *RegimenHandler {
	return &RegimenHandler{
		regimenService: regimenService,
		validator:      validator.New(),
	}
}

// decodeRegimenRequest parses and validates the request body. It writes an
// error response and returns false on failure.
func (h *RegimenHandler) decodeRegimenRequest(
	w http.ResponseWriter,
	r *http.Request,
	req *RegimenRequest,
) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}

// Create handles POST /regimens.
func (h *RegimenHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RegimenRequest
	if !h.decodeRegimenRequest(w, r, &req) {
		return
	}

	regimen, err := req.ToDomain(userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	if err := h.regimenService.CreateRegimen(r.Context(), regimen); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewRegimenResponse(regimen))
}

// List handles GET /regimens.
func (h *RegimenHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	regimens, err := h.regimenService.ListRegimens(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]RegimenResponse, 0, len(regimens))
	for _, regimen := range regimens {
		responses = append(responses, NewRegimenResponse(regimen))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /regimens/{id}.
func (h *RegimenHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, regimenID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	regimen, err := h.regimenService.GetRegimen(r.Context(), userID, regimenID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewRegimenResponse(regimen))
}

// Update handles PUT /regimens/{id}.
func (h *RegimenHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, regimenID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req RegimenRequest
	if !h.decodeRegimenRequest(w, r, &req) {
		return
	}

	regimen, err := req.ToDomain(userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}
	regimen.ID = regimenID

	if err := h.regimenService.UpdateRegimen(r.Context(), userID, regimen); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewRegimenResponse(regimen))
}

// Delete handles DELETE /regimens/{id}.
func (h *RegimenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, regimenID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if err := h.regimenService.DeleteRegimen(r.Context(), userID, regimenID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
